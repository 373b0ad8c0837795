package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/studyhall-backend/internal/adapter/fsdoc"
	"github.com/heartmarshall/studyhall-backend/internal/adapter/postgres"
	"github.com/heartmarshall/studyhall-backend/internal/config"
	"github.com/heartmarshall/studyhall-backend/internal/service/analytics"
	"github.com/heartmarshall/studyhall-backend/internal/service/cards"
	"github.com/heartmarshall/studyhall-backend/internal/service/gamification"
	"github.com/heartmarshall/studyhall-backend/internal/service/planner"
	"github.com/heartmarshall/studyhall-backend/internal/store"
)

// App holds the wired-up services and their shared resources.
type App struct {
	Log *slog.Logger

	Cards        *cards.Service
	Planner      *planner.Service
	Analytics    *analytics.Service
	Gamification *gamification.Service

	pool *pgxpool.Pool // nil for the filesystem backend
}

// New builds the application: document store per the configured backend,
// one lock registry, and the four services.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	app := &App{Log: log}

	var docs store.DocStore
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		app.pool = pool
		docs = postgres.New(pool, log)
	case config.BackendFS:
		fs, err := fsdoc.New(cfg.Storage.DataDir, log)
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		docs = fs
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	locks := store.NewKeyedMutex()

	app.Cards = cards.New(docs, locks, cfg.SRS, log)
	app.Planner = planner.New(docs, locks, cfg.Planner, log)
	app.Analytics = analytics.New(docs, app.Cards, locks, log)
	app.Gamification = gamification.New(docs, locks, log)

	log.Info("application wired",
		slog.String("version", BuildVersion()),
		slog.String("storage", cfg.Storage.Backend),
	)
	return app, nil
}

// Close releases shared resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Run loads configuration, initializes the logger, and wires the
// application, then shuts it down. Long-running transports hang off the
// returned services in the cmd binaries.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)
	return nil
}
