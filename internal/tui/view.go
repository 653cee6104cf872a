package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/learnsimply/internal/quiz"
	"github.com/jeanpaul/learnsimply/internal/types"
)

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.menu.active {
		sb.WriteString(m.menu.View())
		sb.WriteString("\n")
	}
	if m.textarea.Focused() {
		sb.WriteString(InputStyle.Render(m.textarea.View()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.footer())
	return sb.String()
}

func (m Model) header() string {
	who := "guest"
	if u, ok := m.user(); ok {
		who = u.Email
		if u.IsAdmin {
			who += " " + AdminStyle.Render("admin")
		}
	}
	model := "offline"
	if g := m.app.Generator; g != nil {
		model = g.Name() + " · " + g.ModelName()
	}
	left := TitleStyle.Render("LearnSimply")
	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		StatusBarStyle.Render(model),
		StatusUserStyle.Render(who),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", bar)
}

func (m Model) footer() string {
	var status string
	switch {
	case m.busy():
		status = m.spinner.View() + " " + DimStyle.Render(m.label+"... (esc to cancel)")
	case m.err != "":
		status = ErrorStyle.Render("Error: " + m.err)
	case m.notice != "":
		status = CorrectStyle.Render(m.notice)
	}
	return status + "\n" + HelpStyle.Render(m.help())
}

func (m Model) help() string {
	switch m.screen {
	case screenRoadmap:
		return "↑/↓ choose · enter open · esc home · / commands"
	case screenConcept:
		return "n notes · z quiz · d define · 1-9 article · ←/→ concept · esc roadmap"
	case screenNotes:
		return "ctrl+s save · esc discard"
	case screenQuiz:
		return "↑/↓ choose · enter submit/next · r restart · esc back"
	case screenHistory:
		return "↑/↓ choose · enter learn again · esc home"
	case screenSubjects:
		return "type to filter · ↑/↓ choose · enter learn · esc home"
	case screenAuth:
		return "enter continue · tab switch login/sign up · esc home"
	case screenAdmin:
		return "r refresh · esc home"
	case screenHome:
		return "enter learn · / commands · ctrl+c quit"
	default:
		return "esc back · / commands · ctrl+c quit"
	}
}

func (m Model) body() string {
	switch m.screen {
	case screenRoadmap:
		return m.roadmapView()
	case screenConcept:
		if m.concept == nil {
			return ""
		}
		return m.render(m.concept.Markdown())
	case screenNotes:
		if m.concept == nil {
			return ""
		}
		return TitleStyle.Render("Notes: "+m.concept.Title) + "\n" + DimStyle.Render(m.concept.Topic)
	case screenQuiz:
		return m.quizView()
	case screenArticle:
		return m.render(m.article)
	case screenDefine:
		return m.defineView()
	case screenVocab:
		return m.vocabView()
	case screenHistory:
		return m.historyView()
	case screenSubjects:
		return m.subjectsView()
	case screenAdmin:
		return m.adminView()
	case screenAuth:
		mode := "Log in"
		if m.signup {
			mode = "Sign up"
		}
		return TitleStyle.Render(mode) + "\n\n" +
			TextStyle.Render("Enter your email. No password is needed; your learning stays on this machine.")
	case screenHelp:
		return m.render(helpText)
	default:
		return m.homeView()
	}
}

func (m Model) homeView() string {
	var sb strings.Builder
	sb.WriteString(AccentStyle.Render(Banner) + "\n\n")
	sb.WriteString(TextStyle.Render("Learn anything, simply. Type a topic below.") + "\n\n")
	if m.quote != nil {
		q := QuoteStyle.Render("“" + m.quote.Quote + "”")
		if m.quote.Author != "" {
			q += "\n" + DimStyle.Render("  - "+m.quote.Author)
		}
		sb.WriteString(q + "\n\n")
	}
	if c := m.app.Subjects; c != nil && len(c.Featured) > 0 {
		labels := make([]string, len(c.Featured))
		for i, t := range c.Featured {
			labels[i] = t.Label()
		}
		sb.WriteString(DimStyle.Render("Try: ") + TextStyle.Render(strings.Join(labels, "  ")))
	}
	return sb.String()
}

func (m Model) roadmapView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Roadmap: "+m.topic) + "\n\n")
	for i, it := range m.roadmap {
		line := fmt.Sprintf("%2d. %s", i+1, it.Title)
		if i == m.cursor {
			sb.WriteString(SelectedStyle.Render("› "+line) + "\n")
		} else {
			sb.WriteString(TextStyle.Render("  "+line) + "\n")
		}
	}
	return sb.String()
}

func (m Model) quizView() string {
	s := m.quiz
	if s == nil {
		return ""
	}
	var sb strings.Builder
	if m.concept != nil {
		sb.WriteString(TitleStyle.Render("Quiz: "+m.concept.Title) + "\n\n")
	}
	if s.State() == quiz.Finished {
		sb.WriteString(CorrectStyle.Render(fmt.Sprintf("Quiz complete! You scored %d out of %d.", s.Score(), s.Len())))
		sb.WriteString("\n\n" + DimStyle.Render("r try again · enter back to the concept"))
		return sb.String()
	}

	q := s.Current()
	sb.WriteString(DimStyle.Render(fmt.Sprintf("Question %d of %d", s.Index()+1, s.Len())) + "\n")
	sb.WriteString(TextStyle.Bold(true).Render(q.QuestionText) + "\n\n")
	for i, opt := range q.Options {
		switch {
		case s.State() == quiz.Feedback && opt == q.CorrectAnswer:
			sb.WriteString(CorrectStyle.Render("  ✓ "+opt) + "\n")
		case s.State() == quiz.Feedback && opt == s.Selected():
			sb.WriteString(WrongStyle.Render("  ✗ "+opt) + "\n")
		case s.State() == quiz.Answering && i == m.cursor:
			sb.WriteString(SelectedStyle.Render("› "+opt) + "\n")
		default:
			sb.WriteString(TextStyle.Render("  "+opt) + "\n")
		}
	}
	if s.State() == quiz.Feedback {
		sb.WriteString("\n")
		if s.LastCorrect() {
			sb.WriteString(CorrectStyle.Render("Correct!"))
		} else {
			sb.WriteString(WrongStyle.Render("Incorrect. The correct answer is: " + q.CorrectAnswer))
		}
		sb.WriteString("\n" + DimStyle.Render("enter for the next question"))
	}
	return sb.String()
}

func (m Model) defineView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Dictionary") + "\n\n")
	if m.def == nil {
		sb.WriteString(DimStyle.Render("Look up any word. Signed-in lookups are added to your vocabulary."))
		return sb.String()
	}
	sb.WriteString(wordView(*m.def))
	return sb.String()
}

func wordView(d types.WordDefinition) string {
	var sb strings.Builder
	sb.WriteString(SelectedStyle.Render(d.Word))
	if d.Pronunciation != "" {
		sb.WriteString("  " + DimStyle.Render(d.Pronunciation))
	}
	sb.WriteString("\n" + TextStyle.Render(d.Meaning) + "\n")
	for _, ex := range d.Examples {
		sb.WriteString(QuoteStyle.Render("  • "+ex) + "\n")
	}
	return sb.String()
}

func (m Model) vocabView() string {
	u, ok := m.user()
	if !ok {
		return ErrorStyle.Render(errSignInToSave.Error())
	}
	words := m.app.Vocab.Vocabulary(m.ctx(), u.Email)
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(fmt.Sprintf("My vocabulary (%d)", len(words))) + "\n\n")
	if len(words) == 0 {
		sb.WriteString(DimStyle.Render("No words yet. Look one up with /define."))
	}
	for _, w := range words {
		sb.WriteString(wordView(w.WordDefinition))
		sb.WriteString(DimStyle.Render("  added "+w.DateAdded) + "\n\n")
	}
	return sb.String()
}

// history lists the signed-in user's topics, latest first.
func (m Model) history() []types.LearningTopic {
	u, ok := m.user()
	if !ok {
		return nil
	}
	topics := m.app.History.History(m.ctx(), u.Email)
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Date > topics[j].Date })
	return topics
}

func (m Model) historyView() string {
	topics := m.history()
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("My learning") + "\n\n")
	if len(topics) == 0 {
		sb.WriteString(DimStyle.Render("Nothing here yet. Start with a topic on the home screen."))
		return sb.String()
	}
	for i, t := range topics {
		line := fmt.Sprintf("%s  (%d concepts)", t.Topic, len(t.Concepts))
		if i == m.cursor {
			sb.WriteString(SelectedStyle.Render("› "+line) + "\n")
			titles := make([]string, 0, len(t.Concepts))
			for title := range t.Concepts {
				titles = append(titles, title)
			}
			sort.Strings(titles)
			for _, title := range titles {
				mark := "  "
				if t.Concepts[title].Notes != "" {
					mark = "✎ "
				}
				sb.WriteString(DimStyle.Render("    "+mark+title) + "\n")
			}
		} else {
			sb.WriteString(TextStyle.Render("  "+line) + "\n")
		}
	}
	return sb.String()
}

func (m Model) subjectsView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Subjects") + "\n\n")
	if len(m.matches) == 0 {
		sb.WriteString(DimStyle.Render("No subject matches. Press esc and type any topic on the home screen."))
		return sb.String()
	}
	last := ""
	for i, x := range m.matches {
		group := x.Category + " › " + x.Subcategory
		if group != last {
			sb.WriteString(AccentStyle.Render(group) + "\n")
			last = group
		}
		if i == m.cursor {
			sb.WriteString(SelectedStyle.Render("› "+x.Topic.Label()) + "\n")
		} else {
			sb.WriteString(TextStyle.Render("  "+x.Topic.Label()) + "\n")
		}
	}
	return sb.String()
}

func (m Model) adminView() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Admin console") + "\n\n")
	sb.WriteString(AccentStyle.Render(fmt.Sprintf("Total users: %d", len(m.users))) + "\n")
	for _, u := range m.users {
		line := "  " + u.Email
		if u.IsAdmin {
			line += " " + AdminStyle.Render("admin")
		}
		sb.WriteString(TextStyle.Render(line) + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.status == nil:
		sb.WriteString(DimStyle.Render("API: not checked"))
	case m.status.OK():
		sb.WriteString(CorrectStyle.Render(fmt.Sprintf("API: online (%s, %s)", m.status.Model, m.status.Latency)))
	default:
		sb.WriteString(ErrorStyle.Render("API: " + m.status.Error))
	}
	return sb.String()
}

var helpText = "# LearnSimply\n\n" +
	"Type a topic on the home screen to get a roadmap of concepts.\n\n" +
	"## Commands\n\n" +
	"- `/learn <topic>` start a roadmap\n" +
	"- `/subjects [filter]` browse the catalog\n" +
	"- `/define [word]` look up a word\n" +
	"- `/history` and `/vocab` your saved learning\n" +
	"- `/login`, `/signup`, `/logout` switch users\n" +
	"- `/admin` users and API status\n\n" +
	"## Concept keys\n\n" +
	"`n` notes, `z` quiz, `d` dictionary, `1`-`9` article for a reading suggestion, `←`/`→` neighbouring concepts.\n"
