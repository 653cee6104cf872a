// Package vocab keeps each user's looked-up words, one entry per word
// (case-insensitive), most recent lookup first.
package vocab

import (
	"context"
	"strings"
	"time"

	"github.com/jeanpaul/learnsimply/internal/history"
	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/types"
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	store *kv.Adapter
	now   func() time.Time
	log   *logger.Logger
}

func NewService(store *kv.Adapter, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{store: store, now: time.Now, log: log.With("component", "vocab")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// KeyPrefix starts the key of every user's vocabulary record.
const KeyPrefix = "vocab_"

func key(email string) string { return KeyPrefix + email }

// Vocabulary returns the user's words, most recently added first.
func (s *Service) Vocabulary(ctx context.Context, email string) []types.VocabularyWord {
	var words []types.VocabularyWord
	if !s.store.GetJSON(ctx, kv.Persistent, key(email), &words) || words == nil {
		return []types.VocabularyWord{}
	}
	return words
}

// AddWord drops any entry with the same word (ignoring case) and puts w first.
func (s *Service) AddWord(ctx context.Context, email string, w types.VocabularyWord) error {
	if w.DateAdded == "" {
		w.DateAdded = s.now().UTC().Format(history.TimeLayout)
	}
	existing := s.Vocabulary(ctx, email)
	words := make([]types.VocabularyWord, 0, len(existing)+1)
	words = append(words, w)
	for _, v := range existing {
		if !strings.EqualFold(v.Word, w.Word) {
			words = append(words, v)
		}
	}
	if err := s.store.SetJSON(ctx, kv.Persistent, key(email), words); err != nil {
		s.log.Error("failed to save vocabulary", "email", email, "error", err)
		return err
	}
	return nil
}

// AddDefinition stamps a fresh dictionary result and adds it.
func (s *Service) AddDefinition(ctx context.Context, email string, def types.WordDefinition) (types.VocabularyWord, error) {
	w := types.VocabularyWord{
		WordDefinition: def,
		DateAdded:      s.now().UTC().Format(history.TimeLayout),
	}
	return w, s.AddWord(ctx, email, w)
}
