// Package server initializes and runs the notes API server: it opens the
// database, runs migrations, wires services, and starts the HTTP endpoint
// with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/janegov/notesapi/internal/logging"
	"github.com/janegov/notesapi/internal/server/config"
	"github.com/janegov/notesapi/internal/server/httpapi"
	"github.com/janegov/notesapi/internal/server/repositories/repomanager"
	"github.com/janegov/notesapi/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	noteService *services.NoteService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault(parseLevel(cfg.LogLevel), cfg.LogPretty)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repo manager creation error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	ns := services.NewNoteService(db, rm)

	return &App{config: cfg, logger: logger, userService: us, noteService: ns}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM or a server
// failure.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.logger.Info(ctx, "Starting app...")

	srv, err := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.noteService)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return srv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %w", err)
	}

	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
