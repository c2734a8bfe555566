package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"taskward/internal/config"
	"taskward/internal/platform/postgres"
	"taskward/internal/service"
	"taskward/internal/service/auth"
	"taskward/internal/store"
	"taskward/internal/sweep"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	taskStore    store.TaskStore
	counterStore store.CounterStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	taskService      *service.TaskService

	// Background housekeeping
	sweeper *sweep.Sweeper
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)
	app.counterStore = postgres.NewCounterStore(db, logger)

	app.taskService = service.NewTaskService(app.taskStore, app.counterStore, logger)

	if cfg.Sweep.Enabled {
		interval := time.Duration(cfg.Sweep.IntervalMinutes) * time.Minute
		app.sweeper = sweep.NewSweeper(app.taskStore, interval, logger)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background sweeper and the HTTP server, handling lifecycle
// and cleanup. It returns an error if the server fails to start or
// encounters problems.
func (app *application) Run(ctx context.Context) error {
	if app.sweeper != nil {
		app.sweeper.Start()
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
