package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX. Optional fields
// (cpf, department, position) are stored as NULL when empty; scans come
// back as empty strings via COALESCE.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, cpf, department, position, must_change_password)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.FullName, profile.CPF, profile.Department, profile.Position, profile.MustChangePassword)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, full_name, COALESCE(cpf, ''), COALESCE(department, ''), COALESCE(position, ''), must_change_password
		FROM profiles
		WHERE id = $1
	`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&profile.ID, &profile.FullName, &profile.CPF, &profile.Department, &profile.Position, &profile.MustChangePassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}

// Update rewrites the admin-editable profile fields. The
// must_change_password flag is owned by the password-change flow and is
// deliberately not touched here.
func (r *PostgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, cpf = NULLIF($3, ''), department = NULLIF($4, ''), position = NULLIF($5, '')
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.FullName, profile.CPF, profile.Department, profile.Position)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetMustChangePassword(ctx context.Context, id string, value bool) error {
	query := `
		UPDATE profiles SET must_change_password = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
