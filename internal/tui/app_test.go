package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/learnsimply/internal/app"
	"github.com/jeanpaul/learnsimply/internal/config"
	"github.com/jeanpaul/learnsimply/internal/gateway/gatewaytest"
	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/quiz"
)

func newTestModel(t *testing.T) (Model, *app.App, *gatewaytest.Stub) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Dir = t.TempDir()
	cfg.Log.File = ""

	stub := gatewaytest.New()
	a, err := app.New(context.Background(), cfg, nil,
		app.WithStores(kv.NewMemoryStore(), kv.NewMemoryStore()),
		app.WithGateway(stub),
	)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	m, _ := send(NewModel(a), tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, a, stub
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	nm, cmd := m.Update(msg)
	return nm.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// submit types text into the input and presses enter.
func submit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = send(m, key(text))
	require.Equal(t, text, m.textarea.Value())
	return send(m, key("enter"))
}

// finish runs a request command and feeds its result back.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())
	return m
}

func toConcept(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := submit(t, m, "Physics")
	m = finish(t, m, cmd)
	require.Equal(t, screenRoadmap, m.screen)
	m, cmd = send(m, key("enter"))
	m = finish(t, m, cmd)
	require.Equal(t, screenConcept, m.screen)
	return m
}

func TestMenuTrigger(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.False(t, m.menu.active)

	m, _ = send(m, key("/"))
	assert.True(t, m.menu.active)
	assert.Contains(t, m.View(), "/subjects")

	m, _ = send(m, key("esc"))
	assert.False(t, m.menu.active)
}

func TestMenuSelectionRunsCommand(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = send(m, key("/"))
	// first entry is /subjects
	m, _ = send(m, key("enter"))
	assert.False(t, m.menu.active)
	assert.Equal(t, screenSubjects, m.screen)
}

func TestHomeShowsQuoteAndFeatured(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = finish(t, m, m.loadQuote())

	view := m.View()
	assert.Contains(t, view, "Leonardo da Vinci")
	assert.Contains(t, view, "Quantum Mechanics")
	assert.Contains(t, view, "guest")
}

func TestLearnFlow(t *testing.T) {
	m, _, stub := newTestModel(t)

	m, cmd := submit(t, m, "Physics")
	assert.True(t, m.busy())
	assert.Contains(t, m.View(), "Building a roadmap for Physics")

	m = finish(t, m, cmd)
	assert.False(t, m.busy())
	assert.Equal(t, screenRoadmap, m.screen)
	assert.Contains(t, m.View(), "Kinematics")
	assert.Contains(t, m.View(), "Newton's Laws")

	m, _ = send(m, key("down"))
	assert.Equal(t, 1, m.cursor)
	m, cmd = send(m, key("enter"))
	m = finish(t, m, cmd)
	require.NotNil(t, m.concept)
	assert.Equal(t, "Newton's Laws", m.concept.Title)
	assert.Equal(t, "Physics", m.concept.Topic)

	// neighbouring concept
	m, cmd = send(m, key("right"))
	m = finish(t, m, cmd)
	assert.Equal(t, "Energy", m.concept.Title)
	assert.Equal(t, 2, stub.Count("concept_detail"))

	m, _ = send(m, key("esc"))
	assert.Equal(t, screenRoadmap, m.screen)
	assert.Equal(t, 2, m.cursor)
}

func TestStaleResultIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, first := submit(t, m, "Physics")
	m, second := submit(t, m, "Chemistry")

	m = finish(t, m, first)
	assert.Equal(t, screenHome, m.screen)
	assert.True(t, m.busy())
	assert.Empty(t, m.roadmap)

	m = finish(t, m, second)
	assert.Equal(t, screenRoadmap, m.screen)
	assert.Equal(t, "Chemistry", m.topic)
}

func TestEscCancelsPendingRequest(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := submit(t, m, "Physics")
	m, _ = send(m, key("esc"))
	assert.False(t, m.busy())
	assert.Equal(t, "Canceled.", m.notice)

	m = finish(t, m, cmd)
	assert.Equal(t, screenHome, m.screen)
	assert.Empty(t, m.roadmap)
}

func TestFailedRequestShowsError(t *testing.T) {
	m, _, stub := newTestModel(t)
	stub.Err = assert.AnError

	m, cmd := submit(t, m, "Physics")
	m = finish(t, m, cmd)
	assert.Equal(t, screenHome, m.screen)
	assert.Contains(t, m.View(), "Error: "+assert.AnError.Error())
}

func TestQuizKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = toConcept(t, m)

	m, cmd := send(m, key("z"))
	m = finish(t, m, cmd)
	require.Equal(t, screenQuiz, m.screen)
	assert.Contains(t, m.View(), "Question 1 of 2")

	// the first answer is the first option
	m, _ = send(m, key("enter"))
	assert.Equal(t, quiz.Feedback, m.quiz.State())
	assert.Contains(t, m.View(), "Correct!")

	m, _ = send(m, key("enter"))
	assert.Equal(t, 1, m.quiz.Index())

	// the second answer is the second option
	m, _ = send(m, key("enter"))
	assert.Contains(t, m.View(), "Incorrect. The correct answer is: velocity")

	m, _ = send(m, key("enter"))
	assert.Equal(t, quiz.Finished, m.quiz.State())
	assert.Contains(t, m.View(), "You scored 1 out of 2.")

	m, _ = send(m, key("r"))
	assert.Equal(t, quiz.Answering, m.quiz.State())
	assert.Equal(t, 0, m.quiz.Score())

	m, _ = send(m, key("esc"))
	assert.Equal(t, screenConcept, m.screen)
}

func TestNotesNeedSignIn(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = toConcept(t, m)

	m, _ = send(m, key("n"))
	assert.Equal(t, screenConcept, m.screen)
	assert.Contains(t, m.err, "log in")
}

func TestNotesSave(t *testing.T) {
	m, a, _ := newTestModel(t)
	ctx := context.Background()
	_, err := a.Identity.Signup(ctx, "u@x.com", "")
	require.NoError(t, err)

	m = toConcept(t, m)
	m, _ = send(m, key("n"))
	require.Equal(t, screenNotes, m.screen)
	assert.True(t, m.textarea.Focused())

	m, _ = send(m, key("velocity is a vector"))
	m, _ = send(m, key("ctrl+s"))
	assert.Equal(t, screenConcept, m.screen)
	assert.Equal(t, "Notes saved.", m.notice)

	topic, ok := a.History.Topic(ctx, "u@x.com", "Physics")
	require.True(t, ok)
	assert.Equal(t, "velocity is a vector", topic.Concepts["Kinematics"].Notes)
	assert.Equal(t, "velocity is a vector", m.concept.Notes)
}

func TestArticleFromReadingSuggestion(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = toConcept(t, m)

	m, cmd := send(m, key("1"))
	m = finish(t, m, cmd)
	assert.Equal(t, screenArticle, m.screen)
	assert.Equal(t, "kinematics for beginners", m.artTitle)
	assert.Contains(t, m.article, "The study of motion.")

	m, _ = send(m, key("esc"))
	assert.Equal(t, screenConcept, m.screen)
}

func TestDefineSavesForSignedInUser(t *testing.T) {
	m, a, _ := newTestModel(t)
	ctx := context.Background()
	_, err := a.Identity.Signup(ctx, "u@x.com", "")
	require.NoError(t, err)

	m, cmd := submit(t, m, "/define serendipity")
	assert.Equal(t, screenDefine, m.screen)
	m = finish(t, m, cmd)
	require.NotNil(t, m.def)
	assert.Equal(t, "serendipity", m.def.Word)
	assert.Equal(t, "Added to your vocabulary.", m.notice)

	words := a.Vocab.Vocabulary(ctx, "u@x.com")
	require.Len(t, words, 1)

	m, _ = send(m, key("esc"))
	m, _ = submit(t, m, "/vocab")
	assert.Equal(t, screenVocab, m.screen)
	assert.Contains(t, m.View(), "My vocabulary (1)")
}

func TestSignupAndLogout(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = submit(t, m, "/signup u@x.com")
	assert.Contains(t, m.View(), "u@x.com")
	assert.Equal(t, "Signed in as u@x.com", m.notice)

	m, _ = submit(t, m, "/logout")
	assert.Contains(t, m.View(), "guest")
}

func TestAuthScreen(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = submit(t, m, "/login")
	require.Equal(t, screenAuth, m.screen)
	assert.Contains(t, m.View(), "Log in")

	m, _ = send(m, key("tab"))
	assert.Contains(t, m.View(), "Sign up")

	m, _ = submit(t, m, "new@x.com")
	assert.Equal(t, screenHome, m.screen)
	u, ok := m.user()
	require.True(t, ok)
	assert.Equal(t, "new@x.com", u.Email)
}

func TestHistoryRelearn(t *testing.T) {
	m, a, stub := newTestModel(t)
	_, err := a.Identity.Signup(context.Background(), "u@x.com", "")
	require.NoError(t, err)
	m = toConcept(t, m)

	// /history is the second menu entry
	m, _ = send(m, key("/"))
	m, _ = send(m, key("down"))
	m, _ = send(m, key("enter"))
	require.Equal(t, screenHistory, m.screen)
	assert.Contains(t, m.View(), "Physics  (1 concepts)")

	m, cmd := send(m, key("enter"))
	m = finish(t, m, cmd)
	assert.Equal(t, screenRoadmap, m.screen)
	assert.Equal(t, 2, stub.Count("roadmap"))
}

func TestHistoryNeedsSignIn(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = submit(t, m, "/history")
	assert.Equal(t, screenHome, m.screen)
	assert.Contains(t, m.err, "log in")
}

func TestSubjectsFilter(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = submit(t, m, "/subjects")
	require.Equal(t, screenSubjects, m.screen)
	all := len(m.matches)
	assert.Greater(t, all, 0)

	m, _ = send(m, key("quantum"))
	require.Len(t, m.matches, 1)
	assert.Equal(t, "Quantum Mechanics", m.matches[0].Topic.Name)

	m, cmd := send(m, key("enter"))
	m = finish(t, m, cmd)
	assert.Equal(t, screenRoadmap, m.screen)
	assert.Equal(t, "Quantum Mechanics", m.topic)
}

func TestAdminConsole(t *testing.T) {
	m, a, _ := newTestModel(t)
	ctx := context.Background()

	m, _ = submit(t, m, "/admin")
	assert.Equal(t, app.ErrNotAdmin.Error(), m.err)

	_, err := a.Identity.Signup(ctx, "someone@x.com", "")
	require.NoError(t, err)
	_, err = a.Identity.Signup(ctx, a.Config.AdminEmail, "")
	require.NoError(t, err)

	m, cmd := submit(t, m, "/admin")
	require.Equal(t, screenAdmin, m.screen)
	m = finish(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "Total users: 2")
	assert.Contains(t, view, "API: not checked")
}

func TestUnknownCommand(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = submit(t, m, "/nope")
	assert.True(t, strings.HasPrefix(m.err, "unknown command /nope"))
}

func TestQuitCommand(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := submit(t, m, "/quit")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
