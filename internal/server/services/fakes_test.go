package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/logging"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	identitiesrepo "github.com/viniciusdvieira/payslip-portal/internal/server/repositories/identities"
	payslipsrepo "github.com/viniciusdvieira/payslip-portal/internal/server/repositories/payslips"
	profilesrepo "github.com/viniciusdvieira/payslip-portal/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/viniciusdvieira/payslip-portal/internal/server/repositories/refreshtokens"
	rolesrepo "github.com/viniciusdvieira/payslip-portal/internal/server/repositories/roles"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fakes ---

type fakeIdentitiesRepo struct {
	createOut *models.Identity
	createErr error

	getOut *models.Identity
	getErr error

	getByEmailOut *models.Identity
	getByEmailErr error

	updatePasswordErr error
	updatedHash       []byte

	deleteErr    error
	deletedIDs   []string
	createCalled bool
}

func (f *fakeIdentitiesRepo) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return identity, nil
}

func (f *fakeIdentitiesRepo) Get(ctx context.Context, id string) (*models.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeIdentitiesRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.getByEmailOut, nil
}

func (f *fakeIdentitiesRepo) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	f.updatedHash = passwordHash
	return f.updatePasswordErr
}

func (f *fakeIdentitiesRepo) Delete(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

type fakeProfilesRepo struct {
	createErr error
	created   *models.Profile

	getOut *models.Profile
	getErr error

	updateErr error
	updated   *models.Profile

	setMCPErr    error
	setMCPValues []bool

	directoryOut []*models.EmployeeSummary
	directoryErr error
}

func (f *fakeProfilesRepo) Create(ctx context.Context, profile *models.Profile) error {
	f.created = profile
	return f.createErr
}

func (f *fakeProfilesRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeProfilesRepo) Update(ctx context.Context, profile *models.Profile) error {
	f.updated = profile
	return f.updateErr
}

func (f *fakeProfilesRepo) SetMustChangePassword(ctx context.Context, id string, value bool) error {
	f.setMCPValues = append(f.setMCPValues, value)
	return f.setMCPErr
}

func (f *fakeProfilesRepo) Directory(ctx context.Context, search string) ([]*models.EmployeeSummary, error) {
	if f.directoryErr != nil {
		return nil, f.directoryErr
	}
	return f.directoryOut, nil
}

type fakeRolesRepo struct {
	createErr    error
	createdRoles map[string]session.Role

	getOut session.Role
	getErr error
}

func (f *fakeRolesRepo) Create(ctx context.Context, userID string, role session.Role) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.createdRoles == nil {
		f.createdRoles = map[string]session.Role{}
	}
	f.createdRoles[userID] = role
	return nil
}

func (f *fakeRolesRepo) Get(ctx context.Context, userID string) (session.Role, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.getOut, nil
}

type fakePayslipsRepo struct {
	upsertOut *models.Payslip
	upsertErr error
	upserted  *models.Payslip

	getOut *models.Payslip
	getErr error

	listOut []*models.Payslip
	listErr error

	markViewedFirst bool
	markViewedErr   error
	markViewedCalls int

	markDownloadedFirst bool
	markDownloadedErr   error
	markDownloadedCalls int
}

func (f *fakePayslipsRepo) Upsert(ctx context.Context, payslip *models.Payslip) (*models.Payslip, error) {
	f.upserted = payslip
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.upsertOut != nil {
		return f.upsertOut, nil
	}
	return payslip, nil
}

func (f *fakePayslipsRepo) Get(ctx context.Context, id string) (*models.Payslip, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakePayslipsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Payslip, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakePayslipsRepo) MarkViewed(ctx context.Context, id string, at time.Time) (bool, error) {
	f.markViewedCalls++
	return f.markViewedFirst, f.markViewedErr
}

func (f *fakePayslipsRepo) MarkDownloaded(ctx context.Context, id string, at time.Time) (bool, error) {
	f.markDownloadedCalls++
	return f.markDownloadedFirst, f.markDownloadedErr
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr error

	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

type fakeRepoManager struct {
	identities *fakeIdentitiesRepo
	profiles   *fakeProfilesRepo
	roles      *fakeRolesRepo
	payslips   *fakePayslipsRepo
	refresh    *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Identities(db dbx.DBTX) identitiesrepo.Repository {
	return m.identities
}
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return m.profiles }
func (m *fakeRepoManager) Roles(db dbx.DBTX) rolesrepo.Repository       { return m.roles }
func (m *fakeRepoManager) Payslips(db dbx.DBTX) payslipsrepo.Repository { return m.payslips }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}

type fakeObjectStore struct {
	uploadErr  error
	uploadKeys []string
	uploadType string

	presignOut string
	presignErr error
	presigned  []string
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	f.uploadKeys = append(f.uploadKeys, key)
	f.uploadType = contentType
	return f.uploadErr
}

func (f *fakeObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	f.presigned = append(f.presigned, key)
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return f.presignOut, nil
}
