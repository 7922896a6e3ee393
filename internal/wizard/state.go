package wizard

import (
	"github.com/abhisek/vastu/internal/questionnaire"
)

// Phase is the wizard's top-level state.
type Phase int

const (
	PhaseWelcome    Phase = iota // Intro, nothing recorded
	PhaseInProgress              // Answering question at State.Step
	PhaseContact                 // Collecting respondent details
	PhaseCompleted               // Result computed, send started
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseInProgress:
		return "in-progress"
	case PhaseContact:
		return "contact"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// SendStatus tracks delivery of the result notification.
type SendStatus string

const (
	SendIdle    SendStatus = "idle"
	SendLoading SendStatus = "loading"
	SendSuccess SendStatus = "success"
	SendError   SendStatus = "error"
)

// Respondent holds the contact details collected before scoring.
type Respondent struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// State is an immutable snapshot of a wizard session. Transition returns a
// new State and never mutates its input.
type State struct {
	Phase Phase

	// Step indexes the catalog while Phase is PhaseInProgress.
	Step int

	Answers    questionnaire.Answers
	Respondent Respondent

	// Result is computed once on the submit transition.
	Result *questionnaire.Result

	SendStatus SendStatus
	SendError  string

	// SessionID identifies one pass from start to completion. Settlements
	// carrying a different ID are ignored.
	SessionID string
}

// Initial returns the Welcome state.
func Initial() State {
	return State{
		Phase:      PhaseWelcome,
		Answers:    questionnaire.Answers{},
		SendStatus: SendIdle,
	}
}

// Current returns the question at the current step, if in progress.
func (s State) Current(c *questionnaire.Catalog) (questionnaire.Question, bool) {
	if s.Phase != PhaseInProgress {
		return questionnaire.Question{}, false
	}
	return c.At(s.Step)
}

// CurrentAnswer returns the recorded answer for the current step.
func (s State) CurrentAnswer(c *questionnaire.Catalog) (questionnaire.Answer, bool) {
	q, ok := s.Current(c)
	if !ok {
		return "", false
	}
	return s.Answers.Get(q.ID)
}

// CanNext reports whether next would advance.
func (s State) CanNext(c *questionnaire.Catalog) bool {
	_, ok := s.CurrentAnswer(c)
	return ok
}

// CanPrev reports whether prev would move back.
func (s State) CanPrev() bool {
	switch s.Phase {
	case PhaseInProgress:
		return s.Step > 0
	case PhaseContact:
		return true
	}
	return false
}

// IsLastStep reports whether the current step is the final question.
func (s State) IsLastStep(c *questionnaire.Catalog) bool {
	return s.Phase == PhaseInProgress && s.Step == c.Len()-1
}

// Progress returns the completion fraction in [0,1].
func (s State) Progress(c *questionnaire.Catalog) float64 {
	return s.Answers.Progress(c)
}
