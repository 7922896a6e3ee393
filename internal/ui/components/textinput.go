package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/ui/theme"
)

// Field is a labelled text input with an inline validation message.
type Field struct {
	Label string
	Model textinput.Model
	Err   string
}

// NewField creates an unfocused field.
func NewField(label, placeholder string, limit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return Field{Label: label, Model: ti}
}

// Focus focuses the input and returns the cursor blink command.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Focused reports whether the field has focus.
func (f Field) Focused() bool {
	return f.Model.Focused()
}

// Update forwards messages to the input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// Value returns the current input value.
func (f Field) Value() string {
	return f.Model.Value()
}

// SetValue replaces the input value.
func (f *Field) SetValue(s string) {
	f.Model.SetValue(s)
}

// View renders label, input and any error below it.
func (f Field) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if f.Focused() {
		labelStyle = theme.Selected
	}
	view := labelStyle.Render(f.Label) + "\n" + f.Model.View()
	if f.Err != "" {
		view += "\n" + theme.ErrorText.Render(f.Err)
	}
	return view
}
