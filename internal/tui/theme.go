package tui

import "github.com/charmbracelet/lipgloss"

// Palette holds the accent colors a theme can swap.
type Palette struct {
	Accent    lipgloss.Color
	AccentDim lipgloss.Color
	Highlight lipgloss.Color
}

var palettes = map[string]Palette{
	"sky":    {Accent: "#38BDF8", AccentDim: "#0369A1", Highlight: "#7DD3FC"},
	"green":  {Accent: "#00FF41", AccentDim: "#008F11", Highlight: "#39FF14"},
	"violet": {Accent: "#A78BFA", AccentDim: "#6D28D9", Highlight: "#C4B5FD"},
}

var (
	Slate900  = lipgloss.Color("#0F172A")
	Slate700  = lipgloss.Color("#334155")
	Slate400  = lipgloss.Color("#94A3B8")
	Slate200  = lipgloss.Color("#E2E8F0")
	Red       = lipgloss.Color("#F87171")
	Emerald   = lipgloss.Color("#34D399")
	Amber     = lipgloss.Color("#FBBF24")
	Accent    = palettes["sky"].Accent
	AccentDim = palettes["sky"].AccentDim
	Highlight = palettes["sky"].Highlight
)

var (
	TitleStyle      lipgloss.Style
	StatusBarStyle  lipgloss.Style
	StatusUserStyle lipgloss.Style
	BoxStyle        lipgloss.Style
	InputStyle      lipgloss.Style
	SelectedStyle   lipgloss.Style
	SpinnerStyle    lipgloss.Style
	AccentStyle     lipgloss.Style

	TextStyle = lipgloss.NewStyle().Foreground(Slate200)
	DimStyle  = lipgloss.NewStyle().Foreground(Slate400)
	HelpStyle = lipgloss.NewStyle().Foreground(Slate400).Italic(true)

	ErrorStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	CorrectStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	WrongStyle   = lipgloss.NewStyle().Foreground(Red)
	QuoteStyle   = lipgloss.NewStyle().Foreground(Slate200).Italic(true)
	AdminStyle   = lipgloss.NewStyle().Foreground(Amber).Bold(true)
)

func init() { ApplyTheme("sky") }

// ApplyTheme switches the accent palette; unknown names fall back to sky.
func ApplyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		p = palettes["sky"]
	}
	Accent, AccentDim, Highlight = p.Accent, p.AccentDim, p.Highlight

	TitleStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	StatusBarStyle = lipgloss.NewStyle().
		Background(AccentDim).
		Foreground(Slate200).
		Bold(true).
		Padding(0, 1)
	StatusUserStyle = lipgloss.NewStyle().
		Background(Accent).
		Foreground(Slate900).
		Bold(true).
		Padding(0, 1)
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Slate700).
		Padding(0, 1)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
	SelectedStyle = lipgloss.NewStyle().Foreground(Highlight).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
}

const Banner = `╻  ┏━╸┏━┓┏━┓┏┓╻┏━┓╻┏┳┓┏━┓╻  ╻ ╻
┃  ┣╸ ┣━┫┣┳┛┃┗┫┗━┓┃┃┃┃┣━┛┃  ┗┳┛
┗━╸┗━╸╹ ╹╹┗╸╹ ╹┗━┛╹╹ ╹╹  ┗━╸ ╹ `
