package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/questionnaire"
)

// Color palette, warm earth tones
var (
	Primary   = lipgloss.Color("#D97706") // Saffron
	Secondary = lipgloss.Color("#0F766E") // Deep teal
	Accent    = lipgloss.Color("#B45309") // Terracotta
	Success   = lipgloss.Color("#16A34A") // Green
	Warning   = lipgloss.Color("#EAB308") // Turmeric
	Error     = lipgloss.Color("#DC2626") // Red
	Text      = lipgloss.Color("#FAFAF9") // Stone white
	TextDim   = lipgloss.Color("#A8A29E") // Stone
	BgDark    = lipgloss.Color("#1C1917") // Charcoal
	BgCard    = lipgloss.Color("#292524") // Dark stone
	Border    = lipgloss.Color("#44403C") // Stone border
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Answered = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// GradeColor picks a color for a grade badge, green for the top grades
// through red for D.
func GradeColor(g questionnaire.Grade) color.Color {
	switch g {
	case questionnaire.GradeAPlus, questionnaire.GradeA:
		return Success
	case questionnaire.GradeB:
		return Secondary
	case questionnaire.GradeC:
		return Warning
	default:
		return Error
	}
}
