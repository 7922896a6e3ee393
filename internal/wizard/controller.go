package wizard

import (
	"context"

	"github.com/google/uuid"

	"github.com/abhisek/vastu/internal/notify"
	"github.com/abhisek/vastu/internal/questionnaire"
)

// Controller is the single owner of a wizard state. It applies events
// through Transition and runs SendResult effects against a Notifier.
//
// Dispatch does both in one call, awaiting the send. An event loop that
// must not block calls Apply, runs Perform elsewhere and feeds the
// SendSettled event back through Apply.
type Controller struct {
	catalog  *questionnaire.Catalog
	notifier notify.Notifier
	state    State
	newID    func() string
}

// NewController creates a controller in the Welcome state. A nil notifier
// settles every send as delivered.
func NewController(catalog *questionnaire.Catalog, notifier notify.Notifier) *Controller {
	return &Controller{
		catalog:  catalog,
		notifier: notifier,
		state:    Initial(),
		newID:    uuid.NewString,
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	return c.state
}

// Catalog returns the catalog the controller walks.
func (c *Controller) Catalog() *questionnaire.Catalog {
	return c.catalog
}

// Apply transitions the state and returns the effect to run, if any. A
// Start without a session ID gets a fresh one. On error the state is
// unchanged.
func (c *Controller) Apply(e Event) (Effect, error) {
	if st, ok := e.(Start); ok && st.SessionID == "" {
		st.SessionID = c.newID()
		e = st
	}

	next, eff, err := Transition(c.catalog, c.state, e)
	if err != nil {
		return nil, err
	}
	c.state = next
	return eff, nil
}

// Perform delivers a SendResult. It does not touch the state, so it is
// safe to call off the goroutine that owns the controller.
func (c *Controller) Perform(ctx context.Context, send SendResult) error {
	if c.notifier == nil {
		return nil
	}
	return c.notifier.Send(ctx, send.SessionID, send.Payload)
}

// Dispatch applies an event and, for a SendResult effect, awaits the send
// and applies its settlement. Validation errors are returned; send
// failures land in the state.
func (c *Controller) Dispatch(ctx context.Context, e Event) error {
	eff, err := c.Apply(e)
	if err != nil {
		return err
	}
	if send, ok := eff.(SendResult); ok {
		err := c.Perform(ctx, send)
		_, _ = c.Apply(SendSettled{SessionID: send.SessionID, Err: err})
	}
	return nil
}
