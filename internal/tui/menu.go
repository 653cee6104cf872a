package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

var menuCommands = []item{
	{title: "/subjects", desc: "Browse topics by category"},
	{title: "/history", desc: "My learning: topics, concepts and notes"},
	{title: "/vocab", desc: "My vocabulary"},
	{title: "/define", desc: "Look up a word"},
	{title: "/login", desc: "Log in with your email"},
	{title: "/signup", desc: "Create an account"},
	{title: "/logout", desc: "Log out"},
	{title: "/admin", desc: "Admin console"},
	{title: "/help", desc: "Show keys"},
	{title: "/quit", desc: "Exit the application"},
}

type MenuModel struct {
	list   list.Model
	active bool
}

func NewMenuModel() MenuModel {
	items := make([]list.Item, len(menuCommands))
	for i, c := range menuCommands {
		items[i] = c
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Accent).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Accent).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(Slate400)

	l := list.New(items, d, 44, 14)
	l.Title = "Commands"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(Accent).Bold(true).MarginLeft(2)

	return MenuModel{list: l}
}

func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the highlighted command.
func (m MenuModel) Selected() (string, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return "", false
	}
	return it.title, true
}

func (m MenuModel) View() string {
	if !m.active {
		return ""
	}
	return BoxStyle.Render(m.list.View())
}
