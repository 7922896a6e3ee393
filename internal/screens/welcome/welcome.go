package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/router"
	"github.com/abhisek/vastu/internal/screen"
	"github.com/abhisek/vastu/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// The house glyph, drawn first; the doorway glows in turn.
const houseArt = `      ╱╲
     ╱  ╲
    ╱ ◇◇ ╲
   ╱______╲
   │ ▢  ▢ │
   │  ┌┐  │
   └──┴┴──┘`

var glowFrames = []string{"✦", "✧"}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the home
// screen. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with homeFactory().
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	house := lipgloss.NewStyle().Foreground(theme.Secondary).Render(houseArt)

	if w.elapsed >= phase1End {
		glow := lipgloss.NewStyle().Foreground(theme.Primary).
			Render(glowFrames[w.tickCount%len(glowFrames)])
		lines := strings.Split(house, "\n")
		if len(lines) > 2 {
			lines[2] = glow + " " + lines[2] + " " + glow
		}
		house = strings.Join(lines, "\n")
	}

	sections := []string{house}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Harmony for your home"),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
