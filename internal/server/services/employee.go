package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

type EmployeeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager) *EmployeeService {
	return &EmployeeService{db: db, repomanager: m}
}

// Me returns the caller's own profile.
func (s *EmployeeService) Me(ctx context.Context, sess *session.Session) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, sess.UserID)
}

// UpdateProfile updates the profile of userID. Employees may only update
// their own profile; admins may update anyone's. The full name cannot be
// cleared and the must-change-password flag is not touched here.
func (s *EmployeeService) UpdateProfile(ctx context.Context, sess *session.Session, userID string, profile *models.Profile) (*models.Profile, error) {
	if userID != sess.UserID && !sess.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	if strings.TrimSpace(profile.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name is required", common.ErrInvalidArgument)
	}

	profile.ID = userID
	if err := s.repomanager.Profiles(s.db).Update(ctx, profile); err != nil {
		return nil, err
	}

	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Directory lists every employee with payslip aggregates; admin only.
func (s *EmployeeService) Directory(ctx context.Context, sess *session.Session, search string) ([]*models.EmployeeSummary, error) {
	if !sess.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Profiles(s.db).Directory(ctx, search)
}
