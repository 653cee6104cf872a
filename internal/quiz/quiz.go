// Package quiz runs a multiple-choice quiz one question at a time:
// pick an option, submit it, see feedback, move on.
package quiz

import (
	"errors"

	"github.com/jeanpaul/learnsimply/internal/types"
)

var (
	ErrEmptyQuiz   = errors.New("quiz has no questions")
	ErrNoSelection = errors.New("no option selected")
	ErrWrongState  = errors.New("action not allowed in the current quiz state")
)

type State int

const (
	Answering State = iota
	Feedback
	Finished
)

func (s State) String() string {
	switch s {
	case Answering:
		return "answering"
	case Feedback:
		return "feedback"
	case Finished:
		return "finished"
	}
	return "unknown"
}

type Session struct {
	questions []types.QuizQuestion
	index     int
	selected  string
	correct   bool
	score     int
	state     State
}

func New(questions []types.QuizQuestion) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Session{questions: questions}, nil
}

func (s *Session) State() State { return s.state }
func (s *Session) Index() int   { return s.index }
func (s *Session) Len() int     { return len(s.questions) }
func (s *Session) Score() int   { return s.score }

// Selected is the option picked for the current question, if any.
func (s *Session) Selected() string { return s.selected }

// LastCorrect reports whether the last submitted answer was right.
func (s *Session) LastCorrect() bool { return s.correct }

func (s *Session) Current() types.QuizQuestion {
	if s.index >= len(s.questions) {
		return s.questions[len(s.questions)-1]
	}
	return s.questions[s.index]
}

// Select picks an option. It is ignored outside the answering state and
// for strings that are not options of the current question.
func (s *Session) Select(option string) bool {
	if s.state != Answering {
		return false
	}
	for _, o := range s.Current().Options {
		if o == option {
			s.selected = option
			return true
		}
	}
	return false
}

// Submit grades the selection and moves to feedback.
func (s *Session) Submit() (bool, error) {
	if s.state != Answering {
		return false, ErrWrongState
	}
	if s.selected == "" {
		return false, ErrNoSelection
	}
	s.correct = s.selected == s.Current().CorrectAnswer
	if s.correct {
		s.score++
	}
	s.state = Feedback
	return s.correct, nil
}

// Next leaves feedback for the next question, or finishes after the last.
func (s *Session) Next() error {
	if s.state != Feedback {
		return ErrWrongState
	}
	s.selected = ""
	s.correct = false
	if s.index+1 >= len(s.questions) {
		s.state = Finished
		return nil
	}
	s.index++
	s.state = Answering
	return nil
}

// Restart clears progress and starts again from the first question.
func (s *Session) Restart() {
	s.index, s.score = 0, 0
	s.selected, s.correct = "", false
	s.state = Answering
}
