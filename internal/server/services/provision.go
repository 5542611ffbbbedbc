package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/logging"
	"github.com/viniciusdvieira/payslip-portal/internal/server/auth"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

// ProvisionRequest is the admin's input for creating an employee account.
type ProvisionRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	CPF        string `json:"cpf"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// ProvisionService runs the employee-provisioning saga: create the
// identity, then the profile and role rows in one transaction. If the
// transaction fails, the identity is deleted so no orphaned login
// survives a partial run.
type ProvisionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewProvisionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProvisionService {
	return &ProvisionService{
		db:          db,
		repomanager: m,
		logger:      logger,
	}
}

func (s *ProvisionService) validate(req *ProvisionRequest) error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: email is invalid", common.ErrInvalidArgument)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", common.ErrInvalidArgument)
	}
	return nil
}

// ProvisionEmployee creates a complete employee account and returns the new
// identity id. Gate order is fixed: authentication before authorization
// before input validation, so an anonymous caller with bad input still sees
// unauthorized, not invalid-argument.
func (s *ProvisionService) ProvisionEmployee(ctx context.Context, sess *session.Session, req *ProvisionRequest) (string, error) {
	if sess.State() == session.StateAnonymous {
		return "", common.ErrorUnauthorized
	}
	if !sess.IsAdmin() {
		return "", common.ErrorForbidden
	}
	if err := s.validate(req); err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", common.ErrorInternal
	}

	identity, err := s.repomanager.Identities(s.db).Create(ctx, &models.Identity{
		ID:             uuid.New().String(),
		Email:          req.Email,
		PasswordHash:   hash,
		EmailConfirmed: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: creating identity: %v", common.ErrDownstreamFailure, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Profiles(tx).Create(ctx, &models.Profile{
			ID:                 identity.ID,
			FullName:           req.FullName,
			CPF:                req.CPF,
			Department:         req.Department,
			Position:           req.Position,
			MustChangePassword: true,
		}); err != nil {
			return fmt.Errorf("creating profile: %v", err)
		}
		if err := s.repomanager.Roles(tx).Create(ctx, identity.ID, session.RoleEmployee); err != nil {
			return fmt.Errorf("assigning role: %v", err)
		}
		return nil
	})
	if err != nil {
		s.compensate(ctx, identity.ID)
		return "", fmt.Errorf("%w: %v", common.ErrDownstreamFailure, err)
	}

	s.logger.Info(ctx, "employee provisioned", "user_id", identity.ID)

	return identity.ID, nil
}

// compensate removes the identity created by a failed saga run.
func (s *ProvisionService) compensate(ctx context.Context, identityID string) {
	if err := s.repomanager.Identities(s.db).Delete(ctx, identityID); err != nil {
		// Left for operators: an identity without profile or role cannot
		// pass the portal gates, but it does hold the email address.
		s.logger.Error(ctx, "saga compensation failed", "user_id", identityID, "error", err)
	}
}
