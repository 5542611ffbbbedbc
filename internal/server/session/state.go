package session

// State is one of the four access states a portal caller can be in.
// Routing is gated on states, not on ad hoc boolean flags.
type State int

const (
	StateAnonymous State = iota
	StatePendingPasswordReset
	StateEmployee
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePendingPasswordReset:
		return "pending_password_reset"
	case StateEmployee:
		return "employee"
	case StateAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// transitions lists the allowed state changes:
//   - Anonymous logs in to any authenticated state (which one depends on
//     role and the must_change_password flag).
//   - PendingPasswordReset resolves to Employee or Admin after the first
//     password change.
//   - Every authenticated state can log out back to Anonymous.
var transitions = map[State][]State{
	StateAnonymous:            {StatePendingPasswordReset, StateEmployee, StateAdmin},
	StatePendingPasswordReset: {StateEmployee, StateAdmin, StateAnonymous},
	StateEmployee:             {StateAnonymous},
	StateAdmin:                {StateAnonymous},
}

// CanTransition reports whether moving from s to next is a legal state
// change.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Authenticated reports whether the state belongs to a logged-in caller.
func (s State) Authenticated() bool {
	return s != StateAnonymous
}
