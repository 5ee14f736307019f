package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/catalog"
	"github.com/ekaya-inc/drdp-engine/pkg/config"
	"github.com/ekaya-inc/drdp-engine/pkg/database"
	"github.com/ekaya-inc/drdp-engine/pkg/handlers"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories/memstore"
	"github.com/ekaya-inc/drdp-engine/pkg/retry"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

// backend is a configured store plus the middleware and contexts its
// repositories need.
type backend struct {
	store       *repositories.Store
	db          *database.DB // nil for the memory store
	scope       handlers.ScopeMiddleware
	publicScope handlers.ScopeMiddleware

	// background returns a context usable by repositories outside a request.
	background func(ctx context.Context) (context.Context, func(), error)
}

func (b *backend) Close() {
	if b.db != nil {
		b.db.Close()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("Using in-memory store; data is lost on exit")
		return &backend{
			store:       memstore.New(),
			scope:       database.Passthrough,
			publicScope: database.Passthrough,
			background: func(ctx context.Context) (context.Context, func(), error) {
				return ctx, func() {}, nil
			},
		}, nil
	}

	db, err := connectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := database.NewScopeProvider(db)
	return &backend{
		store:       repositories.NewPostgresStore(),
		db:          db,
		scope:       database.WithScope(db, logger),
		publicScope: database.WithPublicScope(db, logger),
		background:  provider.WithScope,
	}, nil
}

// connectPostgres opens the pool, waiting out a database that is still
// starting. Authentication and configuration errors fail immediately.
func connectPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.String("error", err.Error()))
	}

	dbCfg := &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	}

	db, err := retry.DoIfRetryable(ctx, retryCfg, func() (*database.DB, error) {
		return database.NewConnection(ctx, dbCfg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Database))
	return db, nil
}

// seedCatalog loads the catalog at path and upserts it through the
// reference service.
func seedCatalog(ctx context.Context, b *backend, path string, logger *zap.Logger) error {
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	scoped, cleanup, err := b.background(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer cleanup()

	result, err := services.NewReferenceService(b.store.Reference, logger).SeedCatalog(scoped, cat)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	logger.Info("Seeded reference catalog",
		zap.String("catalog", source),
		zap.Int("domains", result.Domains),
		zap.Int("measures", result.Measures),
		zap.Int("levels", result.Levels))
	return nil
}
