package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new identity. A duplicate email surfaces the unique
// violation as a wrapped db error; the identity service has no softer
// uniqueness policy than the index.
func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	query := `
		INSERT INTO identities (id, email, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash, identity.EmailConfirmed).
		Scan(&identity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Identity, error) {
	query := `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM identities
		WHERE id = $1
	`
	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.EmailConfirmed, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `
		SELECT id, email, password_hash, email_confirmed, created_at
		FROM identities
		WHERE email = $1
	`
	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.EmailConfirmed, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return identity, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	query := `
		UPDATE identities SET password_hash = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes an identity; profile, role, payslip and refresh-token rows
// follow via ON DELETE CASCADE. This is the saga's compensating action.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM identities
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
