package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/viniciusdvieira/payslip-portal/internal/common"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+profiles\s*\(id,\s*full_name,\s*cpf,\s*department,\s*position,\s*must_change_password\)`

	mock.ExpectExec(q).
		WithArgs("id-1", "Ana Souza", "", "RH", "", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Profile{ID: "id-1", FullName: "Ana Souza", Department: "RH", MustChangePassword: true}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*full_name,.*FROM\s+profiles\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "full_name", "cpf", "department", "position", "must_change_password"}).
		AddRow("id-1", "Ana Souza", "", "RH", "Analista", false)
	mock.ExpectQuery(q).
		WithArgs("id-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.FullName != "Ana Souza" || got.Department != "RH" || got.MustChangePassword {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+profiles`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+profiles\s+SET\s+full_name`).
		WithArgs("ghost", "Nome", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Profile{ID: "ghost", FullName: "Nome"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSetMustChangePassword_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+profiles\s+SET\s+must_change_password\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("id-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetMustChangePassword(context.Background(), "id-1", false); err != nil {
		t.Fatalf("SetMustChangePassword error: %v", err)
	}
}
