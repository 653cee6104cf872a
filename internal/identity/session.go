package identity

import (
	"context"
	"fmt"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/types"
)

const sessionKey = "session"

// Session is the handle on the single active user, stored in the ephemeral
// scope. Each Session is independent, so tests can run several side by side.
type Session struct {
	store *kv.Adapter
}

func NewSession(store *kv.Adapter) *Session {
	return &Session{store: store}
}

// Set replaces whatever session was active.
func (s *Session) Set(ctx context.Context, u types.User) error {
	if err := s.store.SetJSON(ctx, kv.Ephemeral, sessionKey, u); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// User reports the active user; a missing or malformed record means none.
func (s *Session) User(ctx context.Context) (types.User, bool) {
	var u types.User
	if !s.store.GetJSON(ctx, kv.Ephemeral, sessionKey, &u) || u.Email == "" {
		return types.User{}, false
	}
	return u, true
}

func (s *Session) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, kv.Ephemeral, sessionKey)
}
