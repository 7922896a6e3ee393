package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/ui/theme"
)

// compass is the eight-direction grid the assessment walks through.
const compass = `   NW    N    NE
     ╲   │   ╱
  W ── ( ✦ ) ── E
     ╱   │   ╲
   SW    S    SE`

const titleCompact = "V · A · S · T · U"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	block := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if compact {
		return block.Render(style.Render(titleCompact))
	}
	return block.Render(
		style.Render(titleCompact) + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(compass),
	)
}
