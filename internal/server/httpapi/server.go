// Package httpapi exposes the portal over HTTP/JSON. Routing is gorilla/mux;
// all handlers speak the failure taxonomy of internal/common.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/viniciusdvieira/payslip-portal/internal/logging"
	"github.com/viniciusdvieira/payslip-portal/internal/server/config"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/services"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

// AuthService is what the server needs from the authentication layer.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, currentPassword, newPassword string) error
	ResolveSession(ctx context.Context, accessToken string) (*session.Session, error)
}

type ProvisionService interface {
	ProvisionEmployee(ctx context.Context, sess *session.Session, req *services.ProvisionRequest) (string, error)
}

type PayslipService interface {
	List(ctx context.Context, sess *session.Session) ([]*models.Payslip, error)
	ListForUser(ctx context.Context, sess *session.Session, userID string) ([]*models.Payslip, error)
	Access(ctx context.Context, sess *session.Session, payslipID string, action services.AccessAction) (*services.AccessResult, error)
	Upload(ctx context.Context, sess *session.Session, req *services.UploadRequest) (*models.Payslip, error)
}

type EmployeeService interface {
	Me(ctx context.Context, sess *session.Session) (*models.Profile, error)
	UpdateProfile(ctx context.Context, sess *session.Session, userID string, profile *models.Profile) (*models.Profile, error)
	Directory(ctx context.Context, sess *session.Session, search string) ([]*models.EmployeeSummary, error)
}

type Server struct {
	address          string
	signedURLSeconds int
	logger           logging.Logger
	auth             AuthService
	provision        ProvisionService
	payslips         PayslipService
	employees        EmployeeService
}

func NewServer(cfg *config.Config, logger logging.Logger, auth AuthService, provision ProvisionService, payslips PayslipService, employees EmployeeService) *Server {
	return &Server{
		address:          cfg.EndpointAddrHTTP,
		signedURLSeconds: int(cfg.SignedURLValidityDuration.Seconds()),
		logger:           logger.With("module", "http_server"),
		auth:             auth,
		provision:        provision,
		payslips:         payslips,
		employees:        employees,
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.Handle("/auth/login", http.HandlerFunc(s.handleLogin)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/refresh", http.HandlerFunc(s.handleRefresh)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/logout", http.HandlerFunc(s.handleLogout)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/password",
		s.withSession(http.HandlerFunc(s.handleChangePassword))).Methods(http.MethodPost, http.MethodOptions)

	api.Handle("/me",
		s.withSession(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet, http.MethodOptions)

	api.Handle("/payslips",
		chain(http.HandlerFunc(s.handleListPayslips), s.withSession, s.requireSettled)).Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/payslips/{id}/view",
		chain(http.HandlerFunc(s.handleViewPayslip), s.withSession, s.requireSettled)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/payslips/{id}/download",
		chain(http.HandlerFunc(s.handleDownloadPayslip), s.withSession, s.requireSettled)).Methods(http.MethodPost, http.MethodOptions)

	// The provisioning endpoint does its own auth gating so the response
	// order (401 before 403 before 400) matches the published contract.
	api.Handle("/admin/employees",
		s.optionalSession(http.HandlerFunc(s.handleProvisionEmployee))).Methods(http.MethodPost, http.MethodOptions)

	api.Handle("/admin/employees",
		chain(http.HandlerFunc(s.handleDirectory), s.withSession, s.requireAdmin)).Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/admin/employees/{id}",
		chain(http.HandlerFunc(s.handleUpdateEmployee), s.withSession, s.requireAdmin)).Methods(http.MethodPut, http.MethodOptions)
	api.Handle("/admin/employees/{id}/payslips",
		chain(http.HandlerFunc(s.handleEmployeePayslips), s.withSession, s.requireAdmin)).Methods(http.MethodGet, http.MethodOptions)
	api.Handle("/admin/employees/{id}/payslips",
		chain(http.HandlerFunc(s.handleUploadPayslip), s.withSession, s.requireAdmin)).Methods(http.MethodPost, http.MethodOptions)

	return chain(r, s.requestLogger, corsMiddleware)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
