package payslips

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert is a single conditional statement backed by the unique index on
// (user_id, reference_month), so concurrent uploads for the same period
// cannot produce duplicate rows. On conflict the existing row keeps its id
// and view/download markers; only the file fields are replaced.
func (r *PostgresRepository) Upsert(ctx context.Context, payslip *models.Payslip) (*models.Payslip, error) {
	query := `
		INSERT INTO payslips (id, user_id, reference_month, file_url, file_name, issued_by_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, reference_month)
		DO UPDATE SET file_url = EXCLUDED.file_url, file_name = EXCLUDED.file_name, issued_by_admin = EXCLUDED.issued_by_admin
		RETURNING id, viewed_at, downloaded_at, created_at
	`
	var viewedAt, downloadedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		payslip.ID, payslip.UserID, payslip.ReferenceMonth, payslip.FileURL, payslip.FileName, payslip.IssuedByAdmin).
		Scan(&payslip.ID, &viewedAt, &downloadedAt, &payslip.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	payslip.ViewedAt = timePtr(viewedAt)
	payslip.DownloadedAt = timePtr(downloadedAt)
	return payslip, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Payslip, error) {
	query := `
		SELECT id, user_id, reference_month, COALESCE(file_url, ''), COALESCE(file_name, ''), issued_by_admin, viewed_at, downloaded_at, created_at
		FROM payslips
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Payslip, error) {
	query := `
		SELECT id, user_id, reference_month, COALESCE(file_url, ''), COALESCE(file_name, ''), issued_by_admin, viewed_at, downloaded_at, created_at
		FROM payslips
		WHERE user_id = $1
		ORDER BY reference_month DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Payslip
	for rows.Next() {
		p := &models.Payslip{}
		var viewedAt, downloadedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserID, &p.ReferenceMonth, &p.FileURL, &p.FileName, &p.IssuedByAdmin, &viewedAt, &downloadedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.ViewedAt = timePtr(viewedAt)
		p.DownloadedAt = timePtr(downloadedAt)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) MarkViewed(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE payslips SET viewed_at = $2
		WHERE id = $1 AND viewed_at IS NULL
	`
	return r.markOnce(ctx, query, id, at)
}

func (r *PostgresRepository) MarkDownloaded(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE payslips SET downloaded_at = $2
		WHERE id = $1 AND downloaded_at IS NULL
	`
	return r.markOnce(ctx, query, id, at)
}

// markOnce runs a write-once timestamp update. Zero rows affected means
// the marker was already set; that is a no-op, not an error.
func (r *PostgresRepository) markOnce(ctx context.Context, query, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Payslip, error) {
	p := &models.Payslip{}
	var viewedAt, downloadedAt sql.NullTime
	err := row.Scan(&p.ID, &p.UserID, &p.ReferenceMonth, &p.FileURL, &p.FileName, &p.IssuedByAdmin, &viewedAt, &downloadedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.ViewedAt = timePtr(viewedAt)
	p.DownloadedAt = timePtr(downloadedAt)
	return p, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
