package wizard

import (
	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
)

// Event is an input to Transition.
type Event interface {
	event()
}

// Start leaves Welcome. SessionID tags the pass for send settlement.
type Start struct {
	SessionID string
}

// Select records an answer for the current step without advancing.
type Select struct {
	Answer questionnaire.Answer
}

// Next advances when the current step is answered.
type Next struct{}

// Prev moves back one step.
type Prev struct{}

// Submit validates contact details, scores and completes.
type Submit struct {
	Respondent Respondent
}

// SendSettled reports the outcome of a SendResult effect.
type SendSettled struct {
	SessionID string
	Err       error
}

// Reset returns a completed wizard to Welcome.
type Reset struct{}

func (Start) event()       {}
func (Select) event()      {}
func (Next) event()        {}
func (Prev) event()        {}
func (Submit) event()      {}
func (SendSettled) event() {}
func (Reset) event()       {}

// Effect is work the owner of the state must perform after a transition.
type Effect interface {
	effect()
}

// SendResult asks the owner to deliver the payload once and report back
// with SendSettled.
type SendResult struct {
	SessionID string
	Payload   notify.Payload
}

func (SendResult) effect() {}
