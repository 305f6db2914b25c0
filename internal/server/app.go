// Package server initializes and runs the KrishiSahayak API process.
// It opens the database, applies migrations, wires the services and
// starts the HTTP API alongside the optional gRPC health probe.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/dmitrijs2005/krishisahayak/internal/server/config"
	"github.com/dmitrijs2005/krishisahayak/internal/server/gateway"
	"github.com/dmitrijs2005/krishisahayak/internal/server/httpapi"
	"github.com/dmitrijs2005/krishisahayak/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/krishisahayak/internal/server/services"
	"github.com/dmitrijs2005/krishisahayak/internal/server/storage"
	"github.com/jmoiron/sqlx"

	gs "github.com/dmitrijs2005/krishisahayak/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sqlx.DB
	http   runner
	health runner
}

// NewApp validates cfg, connects to the database, migrates it and builds
// the servers. The database is closed again if any later step fails.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := storage.Open(ctx, cfg.DatabaseDriver, cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sqlx.DB) (*App, error) {
	rm, err := repomanager.NewSQLRepositoryManager(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	gen, err := gateway.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("gateway init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg, logger)
	ts := services.NewThreadService(db, rm, logger)
	cs := services.NewChatService(db, rm, gen, logger)

	opts := httpapi.Options{
		Addr:      cfg.Addr(),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	app := &App{
		config: cfg,
		logger: logger,
		db:     db,
		http:   httpapi.NewServer(opts, logger, db, us, ts, cs),
	}
	if cfg.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(cfg.GRPCHealthAddr, logger, db)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// start runs r and cancels the whole app if it stops with an error.
// The error is sent to errs, which must have room for every runner.
func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner, errs chan<- error) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "server", name, "error", err)
		errs <- fmt.Errorf("%s server: %w", name, err)
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or one of the servers
// fails, then waits for both to stop and closes the database. It returns
// the error of the first server that failed, nil after a clean shutdown.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver, "model", app.config.GeminiModel)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.http, errs)
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.start(ctx, cancelFunc, "grpc_health", app.health, errs)
		}()
	}

	wg.Wait()

	var runErr error
	select {
	case runErr = <-errs:
	default:
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return runErr
}
