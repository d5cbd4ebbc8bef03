package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/medtrack-api/internal/config"
	"github.com/phrazzld/medtrack-api/internal/platform/logger"
	"github.com/phrazzld/medtrack-api/internal/platform/memstore"
	"github.com/phrazzld/medtrack-api/internal/platform/snapshot"
	"github.com/phrazzld/medtrack-api/internal/service/account"
	"github.com/phrazzld/medtrack-api/internal/service/auth"
	"github.com/phrazzld/medtrack-api/internal/service/session"
	"github.com/phrazzld/medtrack-api/internal/service/tracker"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// application bundles the wired dependencies of the running server.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Stores (using interfaces for proper abstraction)
	userStore     store.UserStore
	scheduleStore store.ScheduleStore
	ledgerStore   store.LedgerStore
	stateStore    store.StateStore

	// Service interfaces
	jwtService     auth.JWTService
	accountService account.Service
	trackerService tracker.Service
	sessionManager *session.Manager

	// Optional save/load collaborator; nil when no snapshot path is configured
	snapshotStore *snapshot.FileStore
}

// newApplication loads configuration, sets up logging, and wires the
// in-memory stores and services together. It also restores a snapshot if
// one is configured and present.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"session_ttl_hours", cfg.Session.TTLHours,
		"snapshot_enabled", cfg.Snapshot.Path != "")

	app := &application{
		config:        cfg,
		logger:        log,
		userStore:     memstore.NewUserStore(),
		scheduleStore: memstore.NewScheduleStore(),
		ledgerStore:   memstore.NewLedgerStore(),
		stateStore:    memstore.NewStateStore(),
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	app.sessionManager = session.NewManager(time.Duration(cfg.Session.TTLHours) * time.Hour)
	app.accountService = account.NewService(
		app.userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		log,
	)
	app.trackerService = tracker.New(
		app.scheduleStore,
		app.ledgerStore,
		app.stateStore,
		app.sessionManager,
		log,
	)

	if cfg.Snapshot.Path != "" {
		app.snapshotStore = snapshot.NewFileStore(cfg.Snapshot.Path, log)
		if err := app.restoreSnapshot(context.Background()); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// restoreSnapshot replays a previously saved snapshot into the stores.
func (app *application) restoreSnapshot(ctx context.Context) error {
	docs, err := app.snapshotStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	if err := snapshot.Restore(ctx, docs,
		app.userStore, app.scheduleStore, app.ledgerStore, app.stateStore,
		app.logger,
	); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	return nil
}

// cleanup runs at shutdown: it externalizes the in-memory state through
// the snapshot collaborator when one is configured.
func (app *application) cleanup() {
	if app.snapshotStore == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs, err := snapshot.Collect(ctx,
		app.userStore, app.scheduleStore, app.ledgerStore, app.stateStore)
	if err != nil {
		app.logger.Error("failed to collect snapshot", "error", err)
		return
	}
	if err := app.snapshotStore.Save(ctx, docs); err != nil {
		app.logger.Error("failed to save snapshot", "error", err)
	}
}
