package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"

	"github.com/jeanpaul/learnsimply/internal/app"
	"github.com/jeanpaul/learnsimply/internal/health"
	"github.com/jeanpaul/learnsimply/internal/quiz"
	"github.com/jeanpaul/learnsimply/internal/quote"
	"github.com/jeanpaul/learnsimply/internal/subjects"
	"github.com/jeanpaul/learnsimply/internal/types"
)

var LearnSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    time.Second / 12,
}

type screen int

const (
	screenHome screen = iota
	screenRoadmap
	screenConcept
	screenNotes
	screenQuiz
	screenArticle
	screenDefine
	screenVocab
	screenHistory
	screenSubjects
	screenAdmin
	screenAuth
	screenHelp
)

const (
	headerH = 3
	footerH = 2
)

// reply is carried by every async result. A result whose token no longer
// matches the pending one belongs to a request the user walked away from.
type reply struct {
	token string
	err   error
}

type (
	quoteMsg struct {
		quote types.DailyQuote
		err   error
	}
	roadmapMsg struct {
		reply
		topic string
		items []types.RoadmapItem
	}
	conceptMsg struct {
		reply
		view app.ConceptView
	}
	quizMsg struct {
		reply
		questions []types.QuizQuestion
	}
	articleMsg struct {
		reply
		query    string
		markdown string
	}
	defineMsg struct {
		reply
		def   types.WordDefinition
		saved bool
	}
	adminMsg struct {
		reply
		users   []types.User
		status  health.Status
		checked bool
	}
)

type Model struct {
	app *app.App

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	menu     MenuModel
	renderer *glamour.TermRenderer

	width, height int
	screen        screen
	back          screen
	cursor        int
	err           string
	notice        string

	pending string
	label   string
	cancel  context.CancelFunc

	quote    *types.DailyQuote
	topic    string
	roadmap  []types.RoadmapItem
	concept  *app.ConceptView
	quiz     *quiz.Session
	article  string
	artTitle string
	def      *types.WordDefinition
	signup   bool
	matches  []subjects.Match
	users    []types.User
	status   *health.Status
}

func NewModel(a *app.App) Model {
	ta := textarea.New()
	ta.Placeholder = "What do you want to learn today?"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(1)
	ta.SetWidth(76)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = LearnSpinner
	sp.Style = SpinnerStyle

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(76),
	)

	m := Model{
		app:      a,
		viewport: vp,
		textarea: ta,
		spinner:  sp,
		menu:     NewMenuModel(),
		renderer: r,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.loadQuote(),
	)
}

func (m Model) loadQuote() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		q, err := a.Quote(context.Background())
		return quoteMsg{quote: q, err: err}
	}
}

// start issues an async request and remembers its token. Any request still
// in flight is canceled and its result will be dropped.
func (m *Model) start(label string, fn func(ctx context.Context, token string) tea.Msg) tea.Cmd {
	m.stop()
	token := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	m.pending, m.label, m.cancel = token, label, cancel
	m.err, m.notice = "", ""
	return func() tea.Msg { return fn(ctx, token) }
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.pending, m.label, m.cancel = "", "", nil
}

// accept reports whether r answers the pending request and clears it.
func (m *Model) accept(r reply) bool {
	if r.token == "" || r.token != m.pending {
		return false
	}
	m.stop()
	if r.err != nil {
		m.err = r.err.Error()
		m.app.Log.Warn("request failed", "error", r.err)
	}
	return r.err == nil
}

func (m Model) busy() bool { return m.pending != "" }

func (m Model) ctx() context.Context { return context.Background() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stop()
			return m, tea.Quit
		}
		if m.menu.active {
			return m.updateMenu(msg)
		}
		if msg.String() == "/" && m.textarea.Value() == "" && m.screen != screenNotes {
			m.menu.active = true
			m.resize()
			return m, nil
		}
		switch msg.Type {
		case tea.KeyPgUp:
			m.viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.HalfViewDown()
			return m, nil
		case tea.KeyEsc:
			if m.busy() {
				m.stop()
				m.notice = "Canceled."
				m.refresh()
				return m, nil
			}
		}
		nm, cmd := m.handleKey(msg)
		nm.refresh()
		return nm, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			m.refresh()
		}
		return m, cmd

	case quoteMsg:
		if msg.err != nil {
			m.quote = &types.DailyQuote{Quote: quote.FallbackMessage}
		} else {
			m.quote = &msg.quote
		}

	case roadmapMsg:
		if m.accept(msg.reply) {
			m.topic, m.roadmap = msg.topic, msg.items
			m.concept, m.quiz = nil, nil
			m.show(screenRoadmap)
		}

	case conceptMsg:
		if m.accept(msg.reply) {
			v := msg.view
			m.concept = &v
			m.quiz = nil
			m.show(screenConcept)
			m.viewport.GotoTop()
		}

	case quizMsg:
		if m.accept(msg.reply) {
			s, err := quiz.New(msg.questions)
			if err != nil {
				m.err = err.Error()
				break
			}
			m.quiz = s
			m.show(screenQuiz)
		}

	case articleMsg:
		if m.accept(msg.reply) {
			m.article, m.artTitle = msg.markdown, msg.query
			m.show(screenArticle)
			m.viewport.GotoTop()
		}

	case defineMsg:
		if m.accept(msg.reply) {
			d := msg.def
			m.def = &d
			if msg.saved {
				m.notice = "Added to your vocabulary."
			}
		}

	case adminMsg:
		if m.accept(msg.reply) {
			m.users = msg.users
			st := msg.status
			m.status = &st
			if !msg.checked {
				m.status = nil
			}
		}
	}

	if m.textarea.Focused() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.menu.active = false
		m.resize()
		return m, nil
	case tea.KeyEnter:
		cmdStr, ok := m.menu.Selected()
		m.menu.active = false
		m.resize()
		if !ok {
			return m, nil
		}
		nm, cmd := m.handleSlashCommand(cmdStr)
		nm.refresh()
		return nm, cmd
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	inputH := 0
	if m.textarea.Focused() {
		inputH = m.textarea.Height() + 2
	}
	menuH := 0
	if m.menu.active {
		menuH = 16
	}
	h := m.height - headerH - footerH - inputH - menuH
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	m.textarea.SetWidth(m.width - 6)
	m.menu.list.SetWidth(m.width - 4)

	wrap := m.width - 4
	if wrap > 100 {
		wrap = 100
	}
	if r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(wrap)); err == nil {
		m.renderer = r
	}
}

// show switches screens and sets up the input for the new one.
func (m *Model) show(s screen) {
	if s != m.screen {
		m.back = m.screen
	}
	m.screen = s
	m.cursor = 0

	m.textarea.Reset()
	m.textarea.KeyMap.InsertNewline.SetEnabled(false)
	m.textarea.SetHeight(1)
	switch s {
	case screenHome:
		m.textarea.Placeholder = "What do you want to learn today?"
		m.textarea.Focus()
	case screenDefine:
		m.textarea.Placeholder = "Enter a word"
		m.textarea.Focus()
	case screenAuth:
		m.textarea.Placeholder = "you@example.com"
		m.textarea.Focus()
	case screenSubjects:
		m.textarea.Placeholder = "Filter subjects"
		m.matches = m.app.Subjects.Search("")
		m.textarea.Focus()
	case screenNotes:
		m.textarea.Placeholder = "Write your notes here"
		m.textarea.KeyMap.InsertNewline.SetEnabled(true)
		m.textarea.SetHeight(8)
		if m.concept != nil {
			m.textarea.SetValue(m.concept.Notes)
		}
		m.textarea.Focus()
	default:
		m.textarea.Blur()
	}
	m.resize()
}

// render turns markdown into terminal output, falling back to the raw text.
func (m Model) render(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.body())
}

func (m Model) user() (types.User, bool) {
	return m.app.Identity.CurrentUser(m.ctx())
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func firstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	head, rest, _ := strings.Cut(s, " ")
	return head, strings.TrimSpace(rest)
}
