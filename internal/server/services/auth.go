// Package services holds the portal's business logic: authentication,
// employee provisioning, payslip access and the admin directory. Services
// talk to the database through the repository manager and to object
// storage through the objstore.ObjectStore interface.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/auth"
	"github.com/viniciusdvieira/payslip-portal/internal/server/config"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login checks the email/password pair and issues a token pair. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email string, password string) (*TokenPair, error) {
	repo := s.repomanager.Identities(s.db)

	identity, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := auth.CheckPassword(identity.PasswordHash, password); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, identity.ID)
}

// RefreshToken rotates a refresh token: the old token is deleted and a new
// pair is issued inside one transaction, so a token can be redeemed once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.RefreshTokens(tx)
		if err := txRepo.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}

		accessToken, err := auth.GenerateToken(token.UserID, s.jwtSecret, s.accessTokenValidityDuration)
		if err != nil {
			return fmt.Errorf("error generating access token: %v", err)
		}

		newRefreshToken, err := common.MakeRandHexString(32)
		if err != nil {
			return fmt.Errorf("error generating refresh token: %v", err)
		}

		if err := txRepo.Create(ctx, token.UserID, newRefreshToken, s.refreshTokenValidityDuration); err != nil {
			return fmt.Errorf("error saving refresh token: %v", err)
		}

		tokenPair = &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout invalidates the given refresh token. The access token stays valid
// until it expires; clients drop it.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	return repo.Delete(ctx, refreshToken)
}

// ChangePassword replaces the caller's password after verifying the current
// one, and clears the must-change-password flag in the same transaction.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, currentPassword, newPassword string) error {
	if len(newPassword) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrInvalidArgument, auth.MinPasswordLength)
	}

	identity, err := s.repomanager.Identities(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	if err := auth.CheckPassword(identity.PasswordHash, currentPassword); err != nil {
		return common.ErrorUnauthorized
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Identities(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return fmt.Errorf("error updating password: %v", err)
		}
		if err := s.repomanager.Profiles(tx).SetMustChangePassword(ctx, userID, false); err != nil {
			return fmt.Errorf("error clearing password flag: %v", err)
		}
		return nil
	})
}

// ResolveSession validates the access token and builds the caller's
// session from the role and profile rows, fetched concurrently. A missing
// role row degrades to the employee role; a missing profile row leaves the
// must-change-password flag unset.
func (s *AuthService) ResolveSession(ctx context.Context, accessToken string) (*session.Session, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	sess := &session.Session{UserID: userID, Role: session.RoleEmployee}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		role, err := s.repomanager.Roles(s.db).Get(gctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		sess.Role = role
		return nil
	})

	g.Go(func() error {
		profile, err := s.repomanager.Profiles(s.db).Get(gctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		sess.MustChangePassword = profile.MustChangePassword
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, common.ErrorInternal
	}

	return sess, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshTokenRepo := s.repomanager.RefreshTokens(s.db)
	if err := refreshTokenRepo.Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
