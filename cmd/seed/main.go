// Command seed bootstraps the first admin account. Provisioning normally
// requires an admin session, so the very first one has to be created out
// of band.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/viniciusdvieira/payslip-portal/internal/dbx"
	"github.com/viniciusdvieira/payslip-portal/internal/server/auth"
	"github.com/viniciusdvieira/payslip-portal/internal/server/config"
	"github.com/viniciusdvieira/payslip-portal/internal/server/models"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/session"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	fullName := flag.String("name", "Administrador", "admin full name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email admin@empresa.com -password <password> [-name <full name>]")
		os.Exit(2)
	}
	if len(*password) < auth.MinPasswordLength {
		log.Fatalf("password must be at least %d characters", auth.MinPasswordLength)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		log.Fatalf("repository manager init error: %v", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("password hash error: %v", err)
	}

	userID := uuid.New().String()

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := rm.Identities(tx).Create(ctx, &models.Identity{
			ID:             userID,
			Email:          *email,
			PasswordHash:   hash,
			EmailConfirmed: true,
		}); err != nil {
			return fmt.Errorf("creating identity: %w", err)
		}
		if err := rm.Profiles(tx).Create(ctx, &models.Profile{
			ID:       userID,
			FullName: *fullName,
		}); err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}
		if err := rm.Roles(tx).Create(ctx, userID, session.RoleAdmin); err != nil {
			return fmt.Errorf("assigning role: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}

	fmt.Printf("admin %s created (user_id %s)\n", *email, userID)
}
