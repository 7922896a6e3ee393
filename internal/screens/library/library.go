// Package library is the content library: a menu of CMS collections and a
// panel per collection.
package library

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vastu/internal/cms"
	"github.com/abhisek/vastu/internal/router"
	"github.com/abhisek/vastu/internal/screen"
	"github.com/abhisek/vastu/internal/ui/components"
	"github.com/abhisek/vastu/internal/ui/theme"
)

// Screen lists the CMS collections.
type Screen struct {
	client *cms.Client
	menu   components.Menu
}

var _ screen.Screen = (*Screen)(nil)

// New creates the collection menu for client.
func New(client *cms.Client) *Screen {
	s := &Screen{client: client}

	items := make([]components.MenuItem, 0, len(cms.Resources()))
	for _, r := range cms.Resources() {
		items = append(items, components.MenuItem{
			Label: r.Label(),
			Hint:  "/" + string(r),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewList(client, r)}
				}
			},
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Content Library"
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	body := strings.Join([]string{
		theme.Title.Width(cw - 6).Render("Content Library"),
		theme.Subtitle.Width(cw - 6).Render(s.client.BaseURL()),
		"",
		s.menu.View(),
	}, "\n")
	return components.Center(components.Card(body, cw), width, height)
}
