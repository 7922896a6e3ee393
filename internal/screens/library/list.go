package library

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/cms"
	"github.com/abhisek/vastu/internal/screen"
	"github.com/abhisek/vastu/internal/ui/components"
	"github.com/abhisek/vastu/internal/ui/layout"
	"github.com/abhisek/vastu/internal/ui/theme"
)

// ListScreen is one collection's panel: it fetches on mount, shows
// loading and error as full-panel states, and refetches after a delete.
type ListScreen struct {
	resource   cms.Resource
	panel      *cms.Panel[cms.Document]
	cursor     int
	confirming bool
	expanded   bool
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.StatusProvider = (*ListScreen)(nil)
var _ screen.EscapeHandler = (*ListScreen)(nil)

// NewList creates the panel for resource r.
func NewList(client *cms.Client, r cms.Resource) *ListScreen {
	return &ListScreen{
		resource: r,
		panel:    cms.NewPanel(cms.NewCollection[cms.Document](client, r)),
	}
}

func (l *ListScreen) Init() tea.Cmd {
	return l.load()
}

func (l *ListScreen) Title() string {
	return l.resource.Label()
}

func (l *ListScreen) Status() string {
	if l.panel.Loading || l.panel.Err != "" {
		return ""
	}
	return fmt.Sprintf("%d items", len(l.panel.Items))
}

func (l *ListScreen) HandlesEscape() bool {
	return l.confirming || l.expanded
}

func (l *ListScreen) KeyHints() []layout.KeyHint {
	switch {
	case l.confirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	case l.panel.Err != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "D", Description: "Delete"},
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (l *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		l.panel.Apply(msg.Items, msg.Err)
		l.cursor = min(l.cursor, max(len(l.panel.Items)-1, 0))
		return l, nil

	case tea.KeyPressMsg:
		return l, l.handleKey(msg)
	}
	return l, nil
}

func (l *ListScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if l.confirming {
		switch key {
		case "y":
			l.confirming = false
			return l.deleteSelected()
		case "n", "esc":
			l.confirming = false
		}
		return nil
	}

	if l.panel.Loading {
		return nil
	}

	switch key {
	case "r":
		return l.load()
	case "esc":
		l.expanded = false
		return nil
	}

	if l.panel.Err != "" || len(l.panel.Items) == 0 {
		return nil
	}

	switch key {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.expanded = false
		}
	case "down", "j":
		if l.cursor < len(l.panel.Items)-1 {
			l.cursor++
			l.expanded = false
		}
	case "enter":
		l.expanded = !l.expanded
	case "d":
		l.confirming = true
	}
	return nil
}

func (l *ListScreen) load() tea.Cmd {
	l.panel.Begin()
	coll := l.panel.Collection()
	return func() tea.Msg {
		items, err := coll.List(context.Background())
		return itemsLoadedMsg{Items: items, Err: err}
	}
}

func (l *ListScreen) deleteSelected() tea.Cmd {
	if l.cursor >= len(l.panel.Items) {
		return nil
	}
	id := l.panel.Items[l.cursor].ID()
	l.expanded = false
	l.panel.Begin()
	panel := l.panel
	return func() tea.Msg {
		items, err := panel.DeleteAndList(context.Background(), id)
		return itemsLoadedMsg{Items: items, Err: err}
	}
}

func (l *ListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch {
	case l.panel.Loading:
		return components.Center(theme.Hint.Render("Loading "+strings.ToLower(l.resource.Label())+"..."), width, height)
	case l.panel.Err != "":
		return components.Center(l.renderError(cw), width, height)
	case len(l.panel.Items) == 0:
		return components.Center(theme.Hint.Render("Nothing here yet."), width, height)
	}

	var b strings.Builder
	for i, item := range l.panel.Items {
		label := item.Title()
		prefix, style := "  ", theme.Unselected
		if i == l.cursor {
			prefix, style = "▸ ", theme.Selected
		}
		b.WriteString(style.Render(prefix + label))
		if slug := item.Slug(); slug != "" && slug != label {
			b.WriteString("  " + theme.Hint.Render(slug))
		}
		b.WriteString("\n")
	}

	if l.expanded {
		detail := l.panel.Items[l.cursor].JSON()
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).MaxHeight(max(height-len(l.panel.Items)-8, 4)).Render(detail))
	}

	if l.confirming {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
			Render(fmt.Sprintf("Delete %q? (y/n)", l.panel.Items[l.cursor].Title())))
	}

	return components.Center(components.Card(b.String(), cw), width, height)
}

func (l *ListScreen) renderError(cw int) string {
	title := "Something went wrong"
	if l.panel.NotFound {
		title = "Not found"
	}
	body := strings.Join([]string{
		theme.ErrorText.Bold(true).Render(title),
		"",
		theme.Body.Render(layout.Wrap(l.panel.Err, cw-6)),
		"",
		components.Button{Label: "Try again (r)", Focused: true}.View(),
	}, "\n")
	return components.Card(body, cw)
}
