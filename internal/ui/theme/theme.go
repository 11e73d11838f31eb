package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, calm and high-contrast for long reading sessions
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary).
		MarginTop(1)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Current = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Fair = lipgloss.NewStyle().
		Foreground(Warning)

	Poor = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	Badge = lipgloss.NewStyle().
		Foreground(Text).
		Background(Primary).
		Bold(true).
		Padding(0, 1)
)

// Accuracy picks the state style for a percentage: 80 and up is good,
// below 60 is poor.
func Accuracy(pct int) lipgloss.Style {
	switch {
	case pct >= 80:
		return Good
	case pct < 60:
		return Poor
	default:
		return Fair
	}
}

// Priority styles a recommendation priority badge.
func Priority(p int) lipgloss.Style {
	switch p {
	case 1:
		return Badge.Background(Error)
	case 2:
		return Badge.Background(Accent)
	default:
		return Badge.Background(Border)
	}
}
