// Package server initializes and runs the payslip portal server. It opens
// the database, runs migrations, wires the services and starts the HTTP
// API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/viniciusdvieira/payslip-portal/internal/logging"
	"github.com/viniciusdvieira/payslip-portal/internal/server/config"
	"github.com/viniciusdvieira/payslip-portal/internal/server/httpapi"
	"github.com/viniciusdvieira/payslip-portal/internal/server/objstore"
	"github.com/viniciusdvieira/payslip-portal/internal/server/repositories/repomanager"
	"github.com/viniciusdvieira/payslip-portal/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := objstore.NewS3Store(cfg)

	authService := services.NewAuthService(db, rm, cfg)
	provisionService := services.NewProvisionService(db, rm, logger.With("module", "provision"))
	payslipService := services.NewPayslipService(db, rm, store, logger.With("module", "payslips"))
	employeeService := services.NewEmployeeService(db, rm)

	srv := httpapi.NewServer(cfg, logger, authService, provisionService, payslipService, employeeService)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
