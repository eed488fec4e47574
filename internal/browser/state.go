package browser

// State tracks where a publish session is in its lifecycle. Transitions only
// move forward; every terminal outcome passes through StateClosed.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLaunching     State = "launching"
	StateLoggedOut     State = "logged_out"
	StateLoggedIn      State = "logged_in"
	StateComposing     State = "composing"
	StateSubmitting    State = "submitting"
	StateConfirmed     State = "confirmed"
	StateFailed        State = "failed"
	StateClosed        State = "closed"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether a session in this state has finished its attempt.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateFailed, StateClosed:
		return true
	default:
		return false
	}
}
