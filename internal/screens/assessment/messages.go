package assessment

// sendSettledMsg carries the outcome of the result notification back into
// the event loop.
type sendSettledMsg struct {
	SessionID string
	Err       error
}
