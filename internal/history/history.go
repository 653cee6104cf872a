// Package history records, per user, the topics they studied (most recently
// visited first) and their notes on each concept.
package history

import (
	"context"
	"time"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/logger"
	"github.com/jeanpaul/learnsimply/internal/types"
)

// TimeLayout matches JavaScript's Date.toISOString, which older records use.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

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
	s := &Service{store: store, now: time.Now, log: log.With("component", "history")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// KeyPrefix starts the key of every user's learning history record.
const KeyPrefix = "history_"

func key(email string) string { return KeyPrefix + email }

func (s *Service) timestamp() string {
	return s.now().UTC().Format(TimeLayout)
}

// History returns the user's topics, most recently visited first. A missing or
// corrupted record yields an empty slice.
func (s *Service) History(ctx context.Context, email string) []types.LearningTopic {
	var topics []types.LearningTopic
	if !s.store.GetJSON(ctx, kv.Persistent, key(email), &topics) || topics == nil {
		return []types.LearningTopic{}
	}
	for i := range topics {
		if topics[i].Concepts == nil {
			topics[i].Concepts = map[string]types.ConceptHistory{}
		}
	}
	return topics
}

func (s *Service) save(ctx context.Context, email string, topics []types.LearningTopic) error {
	if err := s.store.SetJSON(ctx, kv.Persistent, key(email), topics); err != nil {
		s.log.Error("failed to save history", "email", email, "error", err)
		return err
	}
	return nil
}

func indexOf(topics []types.LearningTopic, topic string) int {
	for i, t := range topics {
		if t.Topic == topic {
			return i
		}
	}
	return -1
}

// Topic looks up a single topic by exact name.
func (s *Service) Topic(ctx context.Context, email, topic string) (types.LearningTopic, bool) {
	topics := s.History(ctx, email)
	if i := indexOf(topics, topic); i >= 0 {
		return topics[i], true
	}
	return types.LearningTopic{}, false
}

// StartOrUpdateTopic moves topic to the front with a fresh date, creating it
// if this is the first visit. The list is never trimmed.
func (s *Service) StartOrUpdateTopic(ctx context.Context, email, topic string) error {
	topics := s.History(ctx, email)

	entry := types.LearningTopic{Topic: topic, Concepts: map[string]types.ConceptHistory{}}
	if i := indexOf(topics, topic); i >= 0 {
		entry = topics[i]
		topics = append(topics[:i], topics[i+1:]...)
	}
	entry.Date = s.timestamp()

	topics = append([]types.LearningTopic{entry}, topics...)
	return s.save(ctx, email, topics)
}

// AddConcept records that a concept was opened. Unknown topics and concepts
// already present are left alone.
func (s *Service) AddConcept(ctx context.Context, email, topic, title string) error {
	topics := s.History(ctx, email)
	i := indexOf(topics, topic)
	if i < 0 {
		return nil
	}
	if _, ok := topics[i].Concepts[title]; ok {
		return nil
	}
	topics[i].Concepts[title] = types.ConceptHistory{Title: title}
	return s.save(ctx, email, topics)
}

// UpdateNotes overwrites the notes of an existing concept. It does nothing if
// the topic or concept has not been recorded yet.
func (s *Service) UpdateNotes(ctx context.Context, email, topic, title, notes string) error {
	topics := s.History(ctx, email)
	i := indexOf(topics, topic)
	if i < 0 {
		return nil
	}
	c, ok := topics[i].Concepts[title]
	if !ok {
		return nil
	}
	c.Notes = notes
	topics[i].Concepts[title] = c
	return s.save(ctx, email, topics)
}
