// Package app builds the services from configuration and hands them to
// the CLI and the TUI.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeanpaul/learnsimply/internal/config"
	"github.com/jeanpaul/learnsimply/internal/gateway"
	"github.com/jeanpaul/learnsimply/internal/health"
	"github.com/jeanpaul/learnsimply/internal/history"
	"github.com/jeanpaul/learnsimply/internal/identity"
	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/provider"
	"github.com/jeanpaul/learnsimply/internal/quote"
	"github.com/jeanpaul/learnsimply/internal/subjects"
	"github.com/jeanpaul/learnsimply/internal/vocab"
	"github.com/jeanpaul/learnsimply/internal/webpage"
)

type App struct {
	Config *config.Config
	Log    *logger.Logger

	Store    *kv.Adapter
	Session  *identity.Session
	Identity *identity.Service
	History  *history.Service
	Vocab    *vocab.Service
	Quotes   *quote.Service
	Pages    *webpage.Reader
	Subjects *subjects.Catalog

	Generator provider.Generator
	Gateway   gateway.Service
}

type Option func(*options)

type options struct {
	persistent kv.Store
	ephemeral  kv.Store
	gateway    gateway.Service
	generator  provider.Generator
	now        func() time.Time
}

// WithStores replaces the configured backends.
func WithStores(persistent, ephemeral kv.Store) Option {
	return func(o *options) { o.persistent, o.ephemeral = persistent, ephemeral }
}

// WithGateway replaces the model-backed gateway.
func WithGateway(g gateway.Service) Option {
	return func(o *options) { o.gateway = g }
}

// WithGenerator replaces the configured provider.
func WithGenerator(g provider.Generator) Option {
	return func(o *options) { o.generator = g }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if o.persistent == nil {
		s, err := kv.Open(ctx, cfg.Storage.Backend, cfg.Storage.Dir, cfg.Storage.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
		}
		o.persistent = s
	}
	if o.ephemeral == nil {
		s, err := openSessionStore(cfg)
		if err != nil {
			o.persistent.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		o.ephemeral = s
	}

	if o.generator == nil && o.gateway == nil {
		name, p := cfg.ActiveProvider()
		gen, err := provider.New(p.Type, name, p.BaseURL, p.APIKey, p.Model)
		if err != nil {
			o.persistent.Close()
			o.ephemeral.Close()
			return nil, err
		}
		o.generator = gen
	}

	store := kv.NewAdapter(o.persistent, o.ephemeral, cfg.Storage.Namespace, log)
	session := identity.NewSession(store)

	a := &App{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Session:   session,
		Identity:  identity.NewService(store, session, cfg.AdminEmail, log),
		History:   history.NewService(store, log, history.WithClock(o.now)),
		Vocab:     vocab.NewService(store, log, vocab.WithClock(o.now)),
		Pages:     webpage.NewReader(nil),
		Generator: o.generator,
		Gateway:   o.gateway,
	}
	if a.Gateway == nil {
		a.Gateway = gateway.New(o.generator, log)
	}
	a.Quotes = quote.NewService(store, a.Gateway, log, quote.WithClock(o.now))

	catalog, err := subjects.Builtin()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Subjects = catalog

	for _, w := range cfg.Warnings() {
		log.Warn("config", "warning", w)
	}
	return a, nil
}

// openSessionStore keeps the session out of the durable data dir. The file
// scope lives in a per-terminal runtime dir readable only by the user.
func openSessionStore(cfg *config.Config) (kv.Store, error) {
	if cfg.Session.Scope != "file" {
		return kv.NewMemoryStore(), nil
	}
	dir := cfg.SessionDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return kv.NewFileStore(dir)
}

// Close releases the stores.
func (a *App) Close() error {
	a.Log.Sync()
	return a.Store.Close()
}

// RequestContext bounds a single gateway call by the configured timeout.
func (a *App) RequestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.Config.RequestTimeout)
}

// Health checks the active provider when it can list its models.
func (a *App) Health(ctx context.Context) (health.Status, bool) {
	if a.Generator == nil {
		return health.Status{}, false
	}
	lister, ok := a.Generator.(provider.ModelLister)
	if !ok {
		return health.Status{}, false
	}
	return health.Check(ctx, a.Generator.Name(), a.Generator.ModelName(), lister), true
}

// RequireUser returns the signed-in user or an error telling how to sign in.
func (a *App) RequireUser(ctx context.Context) (string, error) {
	u, ok := a.Identity.CurrentUser(ctx)
	if !ok {
		return "", ErrNotSignedIn
	}
	return u.Email, nil
}
