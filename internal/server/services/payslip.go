package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/logging"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/objstore"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

// AccessAction is what the employee is doing with a payslip file. Each
// action has its own write-once timestamp on the payslip row.
type AccessAction string

const (
	ActionView     AccessAction = "view"
	ActionDownload AccessAction = "download"
)

// AccessResult carries the signed URL plus whether this call was the first
// of its kind for the payslip.
type AccessResult struct {
	URL      string `json:"url"`
	FirstUse bool   `json:"-"`
}

// UploadRequest is the admin's input for attaching a payslip PDF to an
// employee and reference month.
type UploadRequest struct {
	UserID   string
	Year     int
	Month    int
	FileName string
	Data     []byte
}

type PayslipService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objstore.ObjectStore
	logger      logging.Logger
}

func NewPayslipService(db *sql.DB, m repomanager.RepositoryManager, store objstore.ObjectStore, logger logging.Logger) *PayslipService {
	return &PayslipService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
	}
}

// List returns the caller's payslips, newest reference month first.
func (s *PayslipService) List(ctx context.Context, sess *session.Session) ([]*models.Payslip, error) {
	return s.repomanager.Payslips(s.db).ListByUser(ctx, sess.UserID)
}

// ListForUser returns another employee's payslips; admin only.
func (s *PayslipService) ListForUser(ctx context.Context, sess *session.Session, userID string) ([]*models.Payslip, error) {
	if !sess.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Payslips(s.db).ListByUser(ctx, userID)
}

// Access signs a download URL for the payslip and records the first view or
// download. The timestamp is set only once; repeat accesses return a fresh
// URL without touching the marker. Admins may access any payslip but never
// set the employee's markers.
func (s *PayslipService) Access(ctx context.Context, sess *session.Session, payslipID string, action AccessAction) (*AccessResult, error) {
	if action != ActionView && action != ActionDownload {
		return nil, fmt.Errorf("%w: unknown action %q", common.ErrInvalidArgument, action)
	}

	repo := s.repomanager.Payslips(s.db)

	payslip, err := repo.Get(ctx, payslipID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	owner := payslip.UserID == sess.UserID
	if !owner && !sess.IsAdmin() {
		return nil, common.ErrorForbidden
	}

	if payslip.FileURL == "" {
		return nil, common.ErrFileUnavailable
	}

	result := &AccessResult{}

	if owner {
		now := time.Now().UTC()
		var first bool
		switch action {
		case ActionView:
			first, err = repo.MarkViewed(ctx, payslipID, now)
		case ActionDownload:
			first, err = repo.MarkDownloaded(ctx, payslipID, now)
		}
		if err != nil {
			return nil, common.ErrorInternal
		}
		result.FirstUse = first
		if first {
			s.logger.Info(ctx, "payslip first access", "payslip_id", payslipID, "action", string(action))
		}
	}

	url, err := s.store.PresignGet(ctx, payslip.FileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: signing url: %v", common.ErrFileUnavailable, err)
	}
	result.URL = url

	return result, nil
}

// storageKey is the canonical object key for one employee's payslip in one
// reference month. Re-uploads for the same month land on the same key.
func storageKey(userID string, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d.pdf", userID, year, month)
}

// Upload stores the PDF and upserts the payslip row for the reference
// month. Uploading twice for the same employee and month replaces the file
// and keeps the existing row with its view and download markers.
func (s *PayslipService) Upload(ctx context.Context, sess *session.Session, req *UploadRequest) (*models.Payslip, error) {
	if !sess.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrInvalidArgument)
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", common.ErrInvalidArgument)
	}
	if req.Year < 2000 || req.Year > 2200 {
		return nil, fmt.Errorf("%w: year %d is out of range", common.ErrInvalidArgument, req.Year)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrInvalidArgument)
	}

	key := storageKey(req.UserID, req.Year, req.Month)

	if err := s.store.Upload(ctx, key, bytes.NewReader(req.Data), "application/pdf"); err != nil {
		return nil, fmt.Errorf("%w: storing file: %v", common.ErrDownstreamFailure, err)
	}

	payslip, err := s.repomanager.Payslips(s.db).Upsert(ctx, &models.Payslip{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		ReferenceMonth: time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC),
		FileURL:        key,
		FileName:       req.FileName,
		IssuedByAdmin:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: saving payslip: %v", common.ErrDownstreamFailure, err)
	}

	s.logger.Info(ctx, "payslip uploaded", "user_id", req.UserID, "key", key)

	return payslip, nil
}
