package assessment

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
	"github.com/abhisek/vastu/internal/router"
	"github.com/abhisek/vastu/internal/screen"
	"github.com/abhisek/vastu/internal/ui/components"
	"github.com/abhisek/vastu/internal/ui/layout"
	"github.com/abhisek/vastu/internal/wizard"
)

// Contact form focus slots. The submit button follows the inputs.
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	focusSubmit
)

var fieldKeys = [...]string{"name", "email", "phone"}

// Screen walks a respondent through the questionnaire. The wizard
// controller owns the state; the screen runs its send effect as a command.
type Screen struct {
	catalog    *questionnaire.Catalog
	ctrl       *wizard.Controller
	bookingURL string
	newID      func() string

	choice components.Choice
	fields [3]components.Field
	focus  int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates the screen in the Welcome phase. A nil notifier settles
// every send as delivered.
func New(catalog *questionnaire.Catalog, notifier notify.Notifier, bookingURL string) *Screen {
	s := &Screen{
		catalog:    catalog,
		ctrl:       wizard.NewController(catalog, notifier),
		bookingURL: bookingURL,
		newID:      uuid.NewString,
	}
	s.resetFields()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Self-Assessment"
}

// State returns the current wizard state.
func (s *Screen) State() wizard.State {
	return s.ctrl.State()
}

func (s *Screen) Status() string {
	switch s.ctrl.State().Phase {
	case wizard.PhaseInProgress:
		return progressLabel(s.ctrl.State().Step+1, s.catalog.Len())
	case wizard.PhaseCompleted:
		return gradeLabel(s.ctrl.State().Result)
	}
	return ""
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.ctrl.State().Phase {
	case wizard.PhaseWelcome:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Begin"},
			{Key: "Esc", Description: "Back"},
		}
	case wizard.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "↑↓/1-3", Description: "Choose"},
			{Key: "Enter", Description: "Answer, again to continue"},
			{Key: "←", Description: "Previous"},
			{Key: "→", Description: "Next"},
			{Key: "Esc", Description: "Leave"},
		}
	case wizard.PhaseContact:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+B", Description: "Back to questions"},
		}
	default:
		return []layout.KeyHint{
			{Key: "R", Description: "Start over"},
			{Key: "Enter", Description: "Home"},
		}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sendSettledMsg:
		_ = s.apply(wizard.SendSettled{SessionID: msg.SessionID, Err: msg.Err})
		return s, nil

	case tea.KeyPressMsg:
		switch s.ctrl.State().Phase {
		case wizard.PhaseWelcome:
			return s, s.handleWelcomeKey(msg)
		case wizard.PhaseInProgress:
			return s, s.handleQuestionKey(msg)
		case wizard.PhaseContact:
			return s, s.handleContactKey(msg)
		case wizard.PhaseCompleted:
			return s, s.handleResultKey(msg)
		}
	}

	if s.ctrl.State().Phase == wizard.PhaseContact && s.focus < focusSubmit {
		var cmd tea.Cmd
		s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleWelcomeKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "space", " ":
		s.dispatch(wizard.Start{SessionID: s.newID()})
		s.syncChoice()
	}
	return nil
}

func (s *Screen) handleQuestionKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h", "backspace":
		s.dispatch(wizard.Prev{})
		s.syncChoice()
		return nil
	case "right", "l":
		return s.advance()
	}

	// Enter on the answer already recorded moves on.
	if msg.String() == "enter" && s.choice.Cursor == s.choice.Recorded {
		return s.advance()
	}

	var picked bool
	s.choice, picked = s.choice.Update(msg)
	if !picked {
		return nil
	}
	opts := questionnaire.Options()
	s.dispatch(wizard.Select{Answer: opts[s.choice.Cursor]})
	s.syncChoice()
	return nil
}

// advance moves to the next step, or into the contact form after the last
// question. Unanswered steps stay put.
func (s *Screen) advance() tea.Cmd {
	s.dispatch(wizard.Next{})
	if s.ctrl.State().Phase == wizard.PhaseContact {
		return s.setFocus(fieldName)
	}
	s.syncChoice()
	return nil
}

func (s *Screen) handleContactKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+b":
		s.blurAll()
		s.dispatch(wizard.Prev{})
		s.syncChoice()
		return nil
	case "tab", "down":
		return s.setFocus((s.focus + 1) % (focusSubmit + 1))
	case "shift+tab", "up":
		return s.setFocus((s.focus + focusSubmit) % (focusSubmit + 1))
	case "enter":
		if s.focus < focusSubmit {
			return s.setFocus(s.focus + 1)
		}
		return s.submit()
	case "ctrl+s":
		return s.submit()
	}

	if s.focus < focusSubmit {
		var cmd tea.Cmd
		s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
		return cmd
	}
	return nil
}

func (s *Screen) handleResultKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		s.dispatch(wizard.Reset{})
		if s.ctrl.State().Phase == wizard.PhaseWelcome {
			s.resetFields()
		}
	case "enter":
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return nil
}

func (s *Screen) submit() tea.Cmd {
	respondent := wizard.Respondent{
		Name:  s.fields[fieldName].Value(),
		Email: s.fields[fieldEmail].Value(),
		Phone: s.fields[fieldPhone].Value(),
	}

	eff, err := s.ctrl.Apply(wizard.Submit{Respondent: respondent})
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		first := -1
		for i, k := range fieldKeys {
			s.fields[i].Err = verr.Field(k)
			if first < 0 && s.fields[i].Err != "" {
				first = i
			}
		}
		if first >= 0 {
			return s.setFocus(first)
		}
		return nil
	}
	if err != nil {
		return nil
	}

	for i := range s.fields {
		s.fields[i].Err = ""
	}
	s.blurAll()
	if send, ok := eff.(wizard.SendResult); ok {
		return s.send(send)
	}
	return nil
}

// send runs the notification off the event loop. It is only ever created
// from the submit transition, so each session sends once.
func (s *Screen) send(eff wizard.SendResult) tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		err := ctrl.Perform(context.Background(), eff)
		return sendSettledMsg{SessionID: eff.SessionID, Err: err}
	}
}

// dispatch applies an event that carries no effect.
func (s *Screen) dispatch(e wizard.Event) {
	_ = s.apply(e)
}

func (s *Screen) apply(e wizard.Event) error {
	_, err := s.ctrl.Apply(e)
	return err
}

// syncChoice rebuilds the option list for the current step, with the
// recorded answer preselected.
func (s *Screen) syncChoice() {
	labels := make([]string, 0, 3)
	recorded := -1
	current, hasAnswer := s.ctrl.State().CurrentAnswer(s.catalog)
	for i, opt := range questionnaire.Options() {
		labels = append(labels, string(opt))
		if hasAnswer && opt == current {
			recorded = i
		}
	}
	s.choice = components.NewChoice(labels, recorded)
}

func (s *Screen) setFocus(i int) tea.Cmd {
	s.blurAll()
	s.focus = i
	if i < focusSubmit {
		return s.fields[i].Focus()
	}
	return nil
}

func (s *Screen) blurAll() {
	for i := range s.fields {
		s.fields[i].Blur()
	}
}

func (s *Screen) resetFields() {
	s.fields = [3]components.Field{
		components.NewField("Name", "Your full name", 120),
		components.NewField("Email", "you@example.com", 254),
		components.NewField("Phone (optional)", "+91 98765 43210", 32),
	}
	s.focus = fieldName
}
