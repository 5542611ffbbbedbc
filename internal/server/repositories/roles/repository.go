// Package roles provides the repository for role-assignment rows. A role
// is written once at provisioning time and never updated.
package roles

import (
	"context"

	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

type Repository interface {
	Create(ctx context.Context, userID string, role session.Role) error
	Get(ctx context.Context, userID string) (session.Role, error)
}
