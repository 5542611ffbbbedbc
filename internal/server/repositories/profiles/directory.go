package profiles

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

func (r *PostgresRepository) Directory(ctx context.Context, search string) ([]*models.EmployeeSummary, error) {
	query := `
		SELECT p.id, p.full_name, COALESCE(p.cpf, ''), COALESCE(p.department, ''), COALESCE(p.position, ''), p.must_change_password,
		       i.email,
		       COUNT(ps.id),
		       MAX(ps.reference_month)
		FROM profiles p
		JOIN identities i ON i.id = p.id
		LEFT JOIN payslips ps ON ps.user_id = p.id
		WHERE $1 = ''
		   OR p.full_name ILIKE '%' || $1 || '%'
		   OR COALESCE(p.cpf, '') LIKE '%' || $1 || '%'
		   OR COALESCE(p.department, '') ILIKE '%' || $1 || '%'
		GROUP BY p.id, p.full_name, p.cpf, p.department, p.position, p.must_change_password, i.email
		ORDER BY p.full_name
	`
	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.EmployeeSummary
	for rows.Next() {
		e := &models.EmployeeSummary{}
		var latest sql.NullTime
		if err := rows.Scan(&e.ID, &e.FullName, &e.CPF, &e.Department, &e.Position, &e.MustChangePassword,
			&e.Email, &e.PayslipCount, &latest); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if latest.Valid {
			v := latest.Time
			e.LatestPayslip = &v
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
