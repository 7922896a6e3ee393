package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used by cards so stacked
// sections line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 76)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Render(content)
}

// Center places content in the middle of the area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
