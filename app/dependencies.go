// Package app wires the gateway's components together. It is the
// single place where concrete implementations meet.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/config"
	"github.com/coursekit/media-gateway/handlers"
	"github.com/coursekit/media-gateway/media"
	"github.com/coursekit/media-gateway/repositories"
	"github.com/coursekit/media-gateway/repositories/postgres"
	"github.com/coursekit/media-gateway/services/audit"
	"github.com/coursekit/media-gateway/token"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Users      repositories.UserRepository
	AccessLogs repositories.AccessLogRepository

	// Media core
	Resolver *media.Resolver
	Streamer *media.Streamer

	// Services
	Verifier *token.Verifier
	Auditor  *audit.Service

	// Handlers
	MediaHandler  *handlers.MediaHandler
	HealthHandler *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initMedia(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize media core: %w", err)
	}

	deps.Verifier = token.NewVerifier(cfg.Auth.TokenSecret, deps.Users, cfg.Auth.TokenLeeway)
	deps.Auditor = audit.NewService(deps.AccessLogs, logger, audit.DefaultConfig())

	deps.MediaHandler = handlers.NewMediaHandler(deps.Resolver, deps.Streamer, deps.Auditor, logger, !cfg.IsProduction())
	deps.HealthHandler = handlers.NewHealthHandler(deps.DB, cfg.Media.RootDir, logger)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initDatabase connects to PostgreSQL and wires the repositories. The
// identity store is required: without it no token can be resolved.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.HealthCheck(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.InitAccessLogSchema(ctx); err != nil {
		db.Close()
		return fmt.Errorf("access log schema init failed: %w", err)
	}

	d.DB = db
	d.Users = postgres.NewUserRepository(db, d.Logger)
	d.AccessLogs = postgres.NewAccessLogRepository(db, d.Logger)
	return nil
}

// initMedia builds the resolver and streamer over the asset root
func (d *Dependencies) initMedia(cfg *config.Config) error {
	resolver, err := media.NewResolver(cfg.Media.RootDir)
	if err != nil {
		return err
	}
	d.Resolver = resolver
	d.Streamer = media.NewStreamer(d.Logger)
	return nil
}

// Start launches background services
func (d *Dependencies) Start() error {
	return d.Auditor.Start()
}

// Close releases all resources in reverse dependency order
func (d *Dependencies) Close() error {
	var firstErr error

	if d.Auditor != nil {
		if err := d.Auditor.Stop(10 * time.Second); err != nil {
			d.Logger.Warn("audit service shutdown", zap.Error(err))
			firstErr = err
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Warn("database close", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
