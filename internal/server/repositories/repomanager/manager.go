package repomanager

import (
	"context"
	"database/sql"

	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/identities"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/payslips"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/profiles"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/refreshtokens"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/roles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Roles(db dbx.DBTX) roles.Repository
	Payslips(db dbx.DBTX) payslips.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
