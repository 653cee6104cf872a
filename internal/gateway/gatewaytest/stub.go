// Package gatewaytest provides a canned gateway.Service for tests.
package gatewaytest

import (
	"context"
	"sync"

	"github.com/jeanpaul/learnsimply/internal/types"
)

// Stub answers every call with fixed content, or Err when set.
type Stub struct {
	mu    sync.Mutex
	Err   error
	Calls map[string]int

	Roadmap []types.RoadmapItem
	Detail  types.DetailedConcept
	Def     types.WordDefinition
	Quote   types.DailyQuote
	Quiz    []types.QuizQuestion
	Article string
}

// New returns a stub filled with small, valid content.
func New() *Stub {
	return &Stub{
		Calls:   map[string]int{},
		Roadmap: []types.RoadmapItem{{Title: "Kinematics"}, {Title: "Newton's Laws"}, {Title: "Energy"}},
		Detail: types.DetailedConcept{
			Explanation:           "Kinematics describes motion.",
			Synopsis:              "- **velocity** is displacement over time",
			YoutubeVideos:         []types.YoutubeVideo{{Title: "Kinematics intro", VideoID: "abc123"}},
			ResourceSearchQueries: []string{"kinematics for beginners"},
		},
		Def: types.WordDefinition{
			Word:          "ephemeral",
			Pronunciation: "/ɪˈfɛm(ə)rəl/",
			Meaning:       "lasting for a very short time",
			Examples:      []string{"Fame is ephemeral.", "An ephemeral stream."},
		},
		Quote: types.DailyQuote{Quote: "Learning never exhausts the mind.", Author: "Leonardo da Vinci"},
		Quiz: []types.QuizQuestion{
			{QuestionText: "Unit of velocity?", Options: []string{"m/s", "kg", "N", "J"}, CorrectAnswer: "m/s"},
			{QuestionText: "Acceleration is the rate of change of?", Options: []string{"mass", "velocity", "force", "time"}, CorrectAnswer: "velocity"},
		},
		Article: "# Kinematics\n\nThe study of motion.",
	}
}

func (s *Stub) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Calls == nil {
		s.Calls = map[string]int{}
	}
	s.Calls[op]++
	return s.Err
}

// Count returns how often op was called.
func (s *Stub) Count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[op]
}

func (s *Stub) GenerateRoadmap(context.Context, string) ([]types.RoadmapItem, error) {
	if err := s.record("roadmap"); err != nil {
		return nil, err
	}
	return s.Roadmap, nil
}

func (s *Stub) GenerateConceptDetail(context.Context, string, string) (types.DetailedConcept, error) {
	if err := s.record("concept_detail"); err != nil {
		return types.DetailedConcept{}, err
	}
	return s.Detail, nil
}

func (s *Stub) WordDefinition(_ context.Context, word string) (types.WordDefinition, error) {
	if err := s.record("definition"); err != nil {
		return types.WordDefinition{}, err
	}
	d := s.Def
	d.Word = word
	return d, nil
}

func (s *Stub) MotivationalQuote(context.Context) (types.DailyQuote, error) {
	if err := s.record("quote"); err != nil {
		return types.DailyQuote{}, err
	}
	return s.Quote, nil
}

func (s *Stub) GenerateQuiz(context.Context, string, string) ([]types.QuizQuestion, error) {
	if err := s.record("quiz"); err != nil {
		return nil, err
	}
	return s.Quiz, nil
}

func (s *Stub) GenerateArticle(context.Context, string) (string, error) {
	if err := s.record("article"); err != nil {
		return "", err
	}
	return s.Article, nil
}
