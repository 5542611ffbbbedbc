// Package identities provides the repository for login-capable accounts.
// Creation and deletion are the compensable pair the provisioning saga
// relies on.
package identities

import (
	"context"

	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	Get(ctx context.Context, id string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	Delete(ctx context.Context, id string) error
}
