// Package session models the caller's authenticated context and the access
// states the portal distinguishes. A Session is resolved per request from
// the bearer token plus the role and profile rows; nothing is held in
// process-global state.
package session

// Role is the portal-wide role assigned to an identity at provisioning
// time. One role row per identity, immutable thereafter.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Session is the explicit per-request auth context: who is calling, with
// which role, and whether they still owe a first password change.
type Session struct {
	UserID             string
	Role               Role
	MustChangePassword bool
}

// State derives the access state of this session.
func (s *Session) State() State {
	if s == nil || s.UserID == "" {
		return StateAnonymous
	}
	if s.MustChangePassword {
		return StatePendingPasswordReset
	}
	if s.Role == RoleAdmin {
		return StateAdmin
	}
	return StateEmployee
}

// IsAdmin reports whether the session carries the admin role, regardless
// of the pending-password-reset gate. The provisioning saga checks the
// role directly; route gating uses State.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
