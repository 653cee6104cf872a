// Package quote serves one motivational quote per calendar day, caching it
// in the persistent store so the model is asked at most once a day.
package quote

import (
	"context"
	"time"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/types"
)

const (
	cacheKey   = "daily_quote"
	dateLayout = "2006-01-02"

	// FallbackMessage is shown when no quote could be fetched.
	FallbackMessage = "Could not fetch a quote today. The journey itself is the reward!"
)

type Source interface {
	MotivationalQuote(ctx context.Context) (types.DailyQuote, error)
}

type cached struct {
	Quote types.DailyQuote `json:"quote"`
	Date  string           `json:"date"`
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	store  *kv.Adapter
	source Source
	now    func() time.Time
	log    *logger.Logger
}

func NewService(store *kv.Adapter, source Source, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{store: store, source: source, now: time.Now, log: log.With("component", "quote")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today returns today's quote, from cache when one was fetched earlier the
// same local day.
func (s *Service) Today(ctx context.Context) (types.DailyQuote, error) {
	today := s.now().Format(dateLayout)

	var c cached
	if s.store.GetJSON(ctx, kv.Persistent, cacheKey, &c) && c.Date == today && c.Quote.Quote != "" {
		return c.Quote, nil
	}

	q, err := s.source.MotivationalQuote(ctx)
	if err != nil {
		return types.DailyQuote{}, err
	}
	if err := s.store.SetJSON(ctx, kv.Persistent, cacheKey, cached{Quote: q, Date: today}); err != nil {
		s.log.Warn("failed to cache quote", "error", err)
	}
	return q, nil
}
