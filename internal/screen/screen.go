package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vastu/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface for screens with their own
// footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for screens that show a status
// at the right of the header, such as assessment progress.
type StatusProvider interface {
	Status() string
}

// EscapeHandler is an optional interface for screens that consume Esc
// themselves instead of letting the app pop them, e.g. to close a
// confirmation prompt.
type EscapeHandler interface {
	HandlesEscape() bool
}
