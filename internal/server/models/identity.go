// Package models defines the persisted entities of the payslip portal.
package models

import "time"

// Identity is a login-capable account. Credentials are kept separate from
// the Profile so the provisioning saga can compensate by deleting the
// identity without touching profile data.
type Identity struct {
	ID             string
	Email          string
	PasswordHash   []byte
	EmailConfirmed bool
	CreatedAt      time.Time
}
