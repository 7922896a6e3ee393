package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vastu/internal/ui/theme"
)

// Choice is a single-select list. Recorded marks the option already
// saved for this question, independent of the cursor.
type Choice struct {
	Options  []string
	Cursor   int
	Recorded int
}

// NewChoice creates a choice with the cursor on the recorded option, or on
// the first option when nothing is recorded (recorded < 0).
func NewChoice(options []string, recorded int) Choice {
	cursor := 0
	if recorded >= 0 && recorded < len(options) {
		cursor = recorded
	}
	return Choice{Options: options, Cursor: cursor, Recorded: recorded}
}

// Update moves the cursor. picked is true when the user confirms an option
// with enter, space or its number key; the cursor then names the option.
func (c Choice) Update(msg tea.Msg) (next Choice, picked bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space", " ":
		return c, len(c.Options) > 0
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(c.Options) {
				c.Cursor = i
				return c, true
			}
		}
	}
	return c, false
}

// View renders the options, numbered.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == c.Recorded {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", prefix, i+1, mark, opt)

		switch {
		case i == c.Cursor:
			line = theme.Selected.Render(line)
		case i == c.Recorded:
			line = theme.Answered.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
