// Package payslips provides the repository for payslip metadata rows.
package payslips

import (
	"context"
	"time"

	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

type Repository interface {
	// Upsert inserts the payslip or, when a row for the same
	// (user_id, reference_month) already exists, updates its file fields.
	Upsert(ctx context.Context, payslip *models.Payslip) (*models.Payslip, error)

	Get(ctx context.Context, id string) (*models.Payslip, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Payslip, error)

	// MarkViewed and MarkDownloaded set their timestamp only when it is
	// currently null. They report whether this call was the first set.
	MarkViewed(ctx context.Context, id string, at time.Time) (bool, error)
	MarkDownloaded(ctx context.Context, id string, at time.Time) (bool, error)
}
