package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vastu/internal/cms"
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/router"
	"github.com/abhisek/vastu/internal/screen"
	"github.com/abhisek/vastu/internal/screens/assessment"
	"github.com/abhisek/vastu/internal/screens/library"
	"github.com/abhisek/vastu/internal/screens/placeholder"
	"github.com/abhisek/vastu/internal/ui/components"
	"github.com/abhisek/vastu/internal/ui/layout"
	"github.com/abhisek/vastu/internal/ui/theme"
)

// Options carries what the home menu needs to build its destinations.
// A nil CMS client shows the library as not configured.
type Options struct {
	Catalog    *questionnaire.Catalog
	Notifier   notify.Notifier
	CMS        *cms.Client
	BookingURL string
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts Options
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}

	items := []components.MenuItem{
		{Label: "Take the self-assessment", Action: func() tea.Cmd {
			return push(assessment.New(opts.Catalog, opts.Notifier, opts.BookingURL))
		}},
		{Label: "Content library", Action: func() tea.Cmd {
			if opts.CMS == nil {
				return push(placeholder.New("Content Library",
					"The content library is not configured.\n\nSet VASTU_API_BASE_URL to the CMS API root\nand restart."))
			}
			return push(library.New(opts.CMS))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	if opts.CMS == nil {
		items[1].Hint = "not configured"
	}

	h.menu = components.NewMenu(items)
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := components.ContentWidth(width)

	c := h.opts.Catalog
	summary := theme.Subtitle.Width(cw).Render(fmt.Sprintf(
		"%d questions · %d optional · about %d minutes",
		c.Len(), c.OptionalCount(), max(c.Len()/8, 1)))

	sections := []string{
		renderTitle(cw, compact),
		summary,
		components.Card(h.menu.View(), cw),
	}
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
