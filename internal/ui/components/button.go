package components

import (
	"github.com/abhisek/vastu/internal/ui/theme"
)

// Button is a focusable label rendered as a button.
type Button struct {
	Label   string
	Focused bool
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
