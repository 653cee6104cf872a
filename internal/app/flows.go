package app

import (
	"context"
	"errors"
	"strings"

	"github.com/jeanpaul/learnsimply/internal/types"
)

var ErrEmptyInput = errors.New("input is empty")

// StartLearning records the topic for the signed-in user, then asks for a
// roadmap. The topic is recorded even when generation fails, so it shows
// up in My Learning for a later retry.
func (a *App) StartLearning(ctx context.Context, topic string) ([]types.RoadmapItem, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyInput
	}
	if u, ok := a.Identity.CurrentUser(ctx); ok {
		if err := a.History.StartOrUpdateTopic(ctx, u.Email, topic); err != nil {
			a.Log.Warn("history not updated", "email", u.Email, "error", err)
		}
	}
	ctx, cancel := a.RequestContext(ctx)
	defer cancel()
	return a.Gateway.GenerateRoadmap(ctx, topic)
}

// ConceptView is everything the concept screen shows.
type ConceptView struct {
	Topic   string
	Title   string
	Detail  types.DetailedConcept
	Notes   string
	SavedTo string
}

// OpenConcept loads a concept's details and, once they arrived, records
// the concept under the topic and picks up any notes already taken.
func (a *App) OpenConcept(ctx context.Context, topic, title string) (ConceptView, error) {
	v := ConceptView{Topic: topic, Title: title}
	rctx, cancel := a.RequestContext(ctx)
	detail, err := a.Gateway.GenerateConceptDetail(rctx, title, topic)
	cancel()
	if err != nil {
		return v, err
	}
	v.Detail = detail

	u, ok := a.Identity.CurrentUser(ctx)
	if !ok {
		return v, nil
	}
	if err := a.History.AddConcept(ctx, u.Email, topic, title); err != nil {
		a.Log.Warn("concept not recorded", "email", u.Email, "error", err)
	}
	if t, ok := a.History.Topic(ctx, u.Email, topic); ok {
		v.Notes = t.Concepts[title].Notes
	}
	v.SavedTo = u.Email
	return v, nil
}

// SaveNotes stores notes for the signed-in user.
func (a *App) SaveNotes(ctx context.Context, topic, title, notes string) error {
	email, err := a.RequireUser(ctx)
	if err != nil {
		return err
	}
	return a.History.UpdateNotes(ctx, email, topic, title, notes)
}

// LookUpWord defines a word and adds it to the signed-in user's vocabulary.
// Anonymous lookups are not saved.
func (a *App) LookUpWord(ctx context.Context, word string) (types.WordDefinition, bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return types.WordDefinition{}, false, ErrEmptyInput
	}
	rctx, cancel := a.RequestContext(ctx)
	def, err := a.Gateway.WordDefinition(rctx, word)
	cancel()
	if err != nil {
		return def, false, err
	}
	u, ok := a.Identity.CurrentUser(ctx)
	if !ok {
		return def, false, nil
	}
	if _, err := a.Vocab.AddDefinition(ctx, u.Email, def); err != nil {
		return def, false, err
	}
	return def, true, nil
}

// Quiz generates a quiz for a concept.
func (a *App) Quiz(ctx context.Context, topic, title string) ([]types.QuizQuestion, error) {
	ctx, cancel := a.RequestContext(ctx)
	defer cancel()
	return a.Gateway.GenerateQuiz(ctx, title, topic)
}

// Article generates a markdown article for a resource search query.
func (a *App) Article(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyInput
	}
	ctx, cancel := a.RequestContext(ctx)
	defer cancel()
	return a.Gateway.GenerateArticle(ctx, query)
}

// Quote returns the quote of the day.
func (a *App) Quote(ctx context.Context) (types.DailyQuote, error) {
	ctx, cancel := a.RequestContext(ctx)
	defer cancel()
	return a.Quotes.Today(ctx)
}

// AdminUsers lists users for an admin session.
func (a *App) AdminUsers(ctx context.Context, pattern string) ([]types.User, error) {
	u, ok := a.Identity.CurrentUser(ctx)
	if !ok {
		return nil, ErrNotSignedIn
	}
	if !u.IsAdmin {
		return nil, ErrNotAdmin
	}
	return a.Identity.ListUsers(ctx, pattern)
}
