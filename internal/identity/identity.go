// Package identity keeps the registry of known learners and the single active
// session.
//
// This is NOT an authentication system. Passwords are accepted for interface
// compatibility and then ignored; anyone who can type an email can act as that
// user. Do not put anything behind it that needs protecting.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/types"
)

const (
	DefaultAdminEmail = "admin@learnsimply.ai"
	usersKey          = "users"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidEmail  = errors.New("email is required")
)

// Directory is the identity boundary seen by the rest of the program.
// It is non-authenticating; see the package comment.
type Directory interface {
	Signup(ctx context.Context, email, password string) (types.User, error)
	Login(ctx context.Context, email, password string) (types.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (types.User, bool)
	ListUsers(ctx context.Context, pattern string) ([]types.User, error)
}

var _ Directory = (*Service)(nil)

type Service struct {
	store      *kv.Adapter
	session    *Session
	adminEmail string
	log        *logger.Logger
}

func NewService(store *kv.Adapter, session *Session, adminEmail string, log *logger.Logger) *Service {
	if adminEmail == "" {
		adminEmail = DefaultAdminEmail
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:      store,
		session:    session,
		adminEmail: normalize(adminEmail),
		log:        log.With("component", "identity"),
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) userFor(email string) types.User {
	return types.User{Email: email, IsAdmin: email == s.adminEmail}
}

// registry maps lowercased email to a presence marker (the email itself).
func (s *Service) registry(ctx context.Context) map[string]string {
	users := map[string]string{}
	if !s.store.GetJSON(ctx, kv.Persistent, usersKey, &users) || users == nil {
		return map[string]string{}
	}
	return users
}

// Signup registers email and makes it the active session. The password is ignored.
func (s *Service) Signup(ctx context.Context, email, _ string) (types.User, error) {
	email = normalize(email)
	if email == "" {
		return types.User{}, ErrInvalidEmail
	}
	users := s.registry(ctx)
	if _, ok := users[email]; ok {
		return types.User{}, ErrDuplicateUser
	}
	users[email] = email
	if err := s.store.SetJSON(ctx, kv.Persistent, usersKey, users); err != nil {
		return types.User{}, fmt.Errorf("save registry: %w", err)
	}

	user := s.userFor(email)
	if err := s.session.Set(ctx, user); err != nil {
		return types.User{}, err
	}
	s.log.Info("user signed up", "email", email, "admin", user.IsAdmin)
	return user, nil
}

// Login makes a registered email the active session. The password is ignored.
func (s *Service) Login(ctx context.Context, email, _ string) (types.User, error) {
	email = normalize(email)
	if email == "" {
		return types.User{}, ErrInvalidEmail
	}
	if _, ok := s.registry(ctx)[email]; !ok {
		return types.User{}, ErrUserNotFound
	}
	user := s.userFor(email)
	if err := s.session.Set(ctx, user); err != nil {
		return types.User{}, err
	}
	s.log.Info("user logged in", "email", email)
	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

func (s *Service) CurrentUser(ctx context.Context) (types.User, bool) {
	return s.session.User(ctx)
}

// ListUsers returns registered users sorted by email. A non-empty pattern is a
// glob (e.g. "*@example.com") matched against the email.
func (s *Service) ListUsers(ctx context.Context, pattern string) ([]types.User, error) {
	pattern = normalize(pattern)
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	users := s.registry(ctx)
	emails := make([]string, 0, len(users))
	for email := range users {
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, email); !ok {
				continue
			}
		}
		emails = append(emails, email)
	}
	sort.Strings(emails)

	out := make([]types.User, 0, len(emails))
	for _, e := range emails {
		out = append(out, s.userFor(e))
	}
	return out, nil
}
