package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/learnsimply/internal/app"
	"github.com/jeanpaul/learnsimply/internal/quiz"
)

var errSignInToSave = errors.New("log in with /login to keep notes, history and vocabulary")

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.screen {
	case screenHome:
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if text == "" {
				return m, nil
			}
			if strings.HasPrefix(text, "/") {
				return m.handleSlashCommand(text)
			}
			return m, m.learn(text)
		}
		return m.typing(msg)

	case screenRoadmap:
		switch msg.String() {
		case "up", "k":
			m.cursor = clamp(m.cursor-1, len(m.roadmap))
		case "down", "j":
			m.cursor = clamp(m.cursor+1, len(m.roadmap))
		case "enter":
			if len(m.roadmap) > 0 {
				return m, m.openConcept(m.cursor)
			}
		case "esc":
			m.show(screenHome)
		}

	case screenConcept:
		return m.conceptKey(msg)

	case screenNotes:
		switch msg.Type {
		case tea.KeyCtrlS:
			m.saveNotes()
			return m, nil
		case tea.KeyEsc:
			m.show(screenConcept)
			m.notice = "Notes not saved."
			return m, nil
		}
		return m.typing(msg)

	case screenQuiz:
		return m.quizKey(msg)

	case screenArticle, screenHelp:
		switch msg.String() {
		case "up", "k":
			m.viewport.LineUp(1)
		case "down", "j":
			m.viewport.LineDown(1)
		case "esc", "q":
			if m.screen == screenArticle && m.concept != nil {
				m.show(screenConcept)
				m.cursor = 0
			} else {
				m.show(screenHome)
			}
		}

	case screenDefine:
		switch msg.Type {
		case tea.KeyEnter:
			word := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if strings.HasPrefix(word, "/") {
				return m.handleSlashCommand(word)
			}
			if word == "" {
				return m, nil
			}
			return m, m.define(word)
		case tea.KeyEsc:
			m.goBack()
			return m, nil
		}
		return m.typing(msg)

	case screenVocab:
		switch msg.String() {
		case "up", "k":
			m.viewport.LineUp(1)
		case "down", "j":
			m.viewport.LineDown(1)
		case "esc":
			m.show(screenHome)
		}

	case screenHistory:
		topics := m.history()
		switch msg.String() {
		case "up", "k":
			m.cursor = clamp(m.cursor-1, len(topics))
		case "down", "j":
			m.cursor = clamp(m.cursor+1, len(topics))
		case "enter":
			if len(topics) > 0 {
				return m, m.learn(topics[m.cursor].Topic)
			}
		case "esc":
			m.show(screenHome)
		}

	case screenSubjects:
		switch msg.Type {
		case tea.KeyUp:
			m.cursor = clamp(m.cursor-1, len(m.matches))
			return m, nil
		case tea.KeyDown:
			m.cursor = clamp(m.cursor+1, len(m.matches))
			return m, nil
		case tea.KeyEsc:
			m.show(screenHome)
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.textarea.Value())
			if strings.HasPrefix(text, "/") {
				m.textarea.Reset()
				return m.handleSlashCommand(text)
			}
			if len(m.matches) > 0 {
				return m, m.learn(m.matches[m.cursor].Topic.Name)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.typing(msg)
		m.matches = m.app.Subjects.Search(m.textarea.Value())
		m.cursor = clamp(m.cursor, len(m.matches))
		return m, cmd

	case screenAdmin:
		switch msg.String() {
		case "r":
			return m, m.loadAdmin()
		case "esc":
			m.show(screenHome)
		}

	case screenAuth:
		switch msg.Type {
		case tea.KeyTab:
			m.signup = !m.signup
			return m, nil
		case tea.KeyEsc:
			m.show(screenHome)
			return m, nil
		case tea.KeyEnter:
			email := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if strings.HasPrefix(email, "/") {
				return m.handleSlashCommand(email)
			}
			m.authenticate(email)
			return m, nil
		}
		return m.typing(msg)
	}
	return m, nil
}

func (m Model) typing(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) conceptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.concept == nil {
		m.show(screenRoadmap)
		return m, nil
	}
	key := msg.String()
	switch key {
	case "up", "k":
		m.viewport.LineUp(1)
	case "down", "j":
		m.viewport.LineDown(1)
	case "n":
		if m.concept.SavedTo == "" {
			m.err = errSignInToSave.Error()
			return m, nil
		}
		m.show(screenNotes)
	case "z":
		return m, m.startQuiz()
	case "d":
		m.def = nil
		m.show(screenDefine)
	case "left", "h", "right", "l":
		i := m.conceptIndex()
		if key == "left" || key == "h" {
			i--
		} else {
			i++
		}
		if i >= 0 && i < len(m.roadmap) {
			return m, m.openConcept(i)
		}
	case "esc":
		m.show(screenRoadmap)
		m.cursor = clamp(m.conceptIndex(), len(m.roadmap))
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			queries := m.concept.Detail.ResourceSearchQueries
			if i < len(queries) {
				return m, m.openArticle(queries[i])
			}
		}
	}
	return m, nil
}

func (m Model) conceptIndex() int {
	if m.concept == nil {
		return -1
	}
	for i, it := range m.roadmap {
		if it.Title == m.concept.Title {
			return i
		}
	}
	return -1
}

func (m Model) quizKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.quiz
	if s == nil {
		m.show(screenConcept)
		return m, nil
	}
	if msg.String() == "esc" {
		m.show(screenConcept)
		return m, nil
	}
	switch s.State() {
	case quiz.Answering:
		options := s.Current().Options
		switch msg.String() {
		case "up", "k":
			m.cursor = clamp(m.cursor-1, len(options))
		case "down", "j":
			m.cursor = clamp(m.cursor+1, len(options))
		case "enter", " ":
			if len(options) == 0 {
				return m, nil
			}
			s.Select(options[m.cursor])
			if _, err := s.Submit(); err != nil {
				m.err = err.Error()
			}
		}
	case quiz.Feedback:
		if msg.String() == "enter" || msg.String() == " " {
			if err := s.Next(); err != nil {
				m.err = err.Error()
			}
			m.cursor = 0
		}
	case quiz.Finished:
		switch msg.String() {
		case "r":
			s.Restart()
			m.cursor = 0
		case "enter":
			m.show(screenConcept)
		}
	}
	return m, nil
}

func (m *Model) goBack() {
	if m.back == m.screen || m.back == screenNotes {
		m.show(screenHome)
		return
	}
	m.show(m.back)
}

func (m *Model) saveNotes() {
	c := m.concept
	if c == nil {
		m.show(screenHome)
		return
	}
	notes := m.textarea.Value()
	if err := m.app.SaveNotes(m.ctx(), c.Topic, c.Title, notes); err != nil {
		m.err = err.Error()
		return
	}
	c.Notes = notes
	m.show(screenConcept)
	m.notice = "Notes saved."
}

func (m *Model) authenticate(email string) {
	if email == "" {
		return
	}
	var err error
	if m.signup {
		_, err = m.app.Identity.Signup(m.ctx(), email, "")
	} else {
		_, err = m.app.Identity.Login(m.ctx(), email, "")
	}
	if err != nil {
		m.err = err.Error()
		return
	}
	u, _ := m.user()
	m.show(screenHome)
	m.notice = "Signed in as " + u.Email
}

func (m *Model) handleSlashCommand(text string) (Model, tea.Cmd) {
	name, arg := firstWord(text)
	m.err, m.notice = "", ""

	switch name {
	case "/learn":
		if arg == "" {
			m.show(screenHome)
			return *m, nil
		}
		return *m, m.learn(arg)
	case "/define":
		m.def = nil
		m.show(screenDefine)
		if arg != "" {
			return *m, m.define(arg)
		}
	case "/subjects":
		m.show(screenSubjects)
		if arg != "" {
			m.textarea.SetValue(arg)
			m.matches = m.app.Subjects.Search(arg)
		}
	case "/history", "/vocab":
		if _, ok := m.user(); !ok {
			m.err = errSignInToSave.Error()
			return *m, nil
		}
		if name == "/history" {
			m.show(screenHistory)
		} else {
			m.show(screenVocab)
		}
	case "/login", "/signup":
		m.signup = name == "/signup"
		if arg != "" {
			m.authenticate(arg)
			return *m, nil
		}
		m.show(screenAuth)
	case "/logout":
		if err := m.app.Identity.Logout(m.ctx()); err != nil {
			m.err = err.Error()
			return *m, nil
		}
		m.show(screenHome)
		m.notice = "Logged out."
	case "/admin":
		u, ok := m.user()
		if !ok || !u.IsAdmin {
			m.err = app.ErrNotAdmin.Error()
			return *m, nil
		}
		m.users, m.status = nil, nil
		m.show(screenAdmin)
		return *m, m.loadAdmin()
	case "/home":
		m.show(screenHome)
	case "/help":
		m.show(screenHelp)
	case "/quit", "/exit":
		m.stop()
		return *m, tea.Quit
	default:
		m.err = fmt.Sprintf("unknown command %s; press / for the list", name)
	}
	return *m, nil
}

func (m *Model) learn(topic string) tea.Cmd {
	a := m.app
	m.show(screenHome)
	return m.start("Building a roadmap for "+topic, func(ctx context.Context, token string) tea.Msg {
		items, err := a.StartLearning(ctx, topic)
		return roadmapMsg{reply: reply{token: token, err: err}, topic: topic, items: items}
	})
}

func (m *Model) openConcept(i int) tea.Cmd {
	a, topic, title := m.app, m.topic, m.roadmap[i].Title
	m.cursor = i
	return m.start("Explaining "+title, func(ctx context.Context, token string) tea.Msg {
		v, err := a.OpenConcept(ctx, topic, title)
		return conceptMsg{reply: reply{token: token, err: err}, view: v}
	})
}

func (m *Model) startQuiz() tea.Cmd {
	a, c := m.app, m.concept
	return m.start("Writing a quiz on "+c.Title, func(ctx context.Context, token string) tea.Msg {
		qs, err := a.Quiz(ctx, c.Topic, c.Title)
		return quizMsg{reply: reply{token: token, err: err}, questions: qs}
	})
}

func (m *Model) openArticle(query string) tea.Cmd {
	a := m.app
	return m.start("Writing about "+query, func(ctx context.Context, token string) tea.Msg {
		md, err := a.Article(ctx, query)
		return articleMsg{reply: reply{token: token, err: err}, query: query, markdown: md}
	})
}

func (m *Model) define(word string) tea.Cmd {
	a := m.app
	m.def = nil
	return m.start("Looking up "+word, func(ctx context.Context, token string) tea.Msg {
		def, saved, err := a.LookUpWord(ctx, word)
		return defineMsg{reply: reply{token: token, err: err}, def: def, saved: saved}
	})
}

func (m *Model) loadAdmin() tea.Cmd {
	a := m.app
	return m.start("Checking the service", func(ctx context.Context, token string) tea.Msg {
		users, err := a.AdminUsers(ctx, "")
		if err != nil {
			return adminMsg{reply: reply{token: token, err: err}}
		}
		status, checked := a.Health(ctx)
		return adminMsg{reply: reply{token: token}, users: users, status: status, checked: checked}
	})
}
