// Package profiles provides the repository for employee profile rows.
package profiles

import (
	"context"

	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetMustChangePassword(ctx context.Context, id string, value bool) error

	// Directory returns every profile joined with its identity email and
	// payslip aggregates, ordered by full name. A non-empty search term
	// filters on name, CPF or department.
	Directory(ctx context.Context, search string) ([]*models.EmployeeSummary, error)
}
