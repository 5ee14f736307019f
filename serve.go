package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/config"
	"github.com/ekaya-inc/drdp-engine/pkg/database"
	"github.com/ekaya-inc/drdp-engine/pkg/handlers"
	"github.com/ekaya-inc/drdp-engine/pkg/middleware"
	"github.com/ekaya-inc/drdp-engine/pkg/services"
)

const shutdownTimeout = 15 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("store", cfg.Store.Backend),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification))

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.db != nil && cfg.Database.AutoMigrate {
		if err := database.RunMigrations(b.db.SQLDB(), cfg.Database.MigrationsPath, logger); err != nil {
			return err
		}
	}

	// An empty memory store has no reference data to rate against.
	if cfg.Store.SeedCatalog || cfg.UsesMemoryStore() {
		if err := seedCatalog(ctx, b, cfg.Store.CatalogPath, logger); err != nil {
			return err
		}
	}

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
		Audience:           cfg.Auth.Audience,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize JWKS client: %w", err)
	}
	defer jwksClient.Close()

	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwksClient, cfg.Auth.CookieName, logger), logger)

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger)(newMux(cfg, b, authMiddleware, logger)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting drdp-engine",
			zap.String("addr", server.Addr),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		if cfg.TLSCertPath != "" {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newMux registers every route. Reference routes are public; everything
// else requires a valid token before a connection is acquired.
func newMux(cfg *config.Config, b *backend, authMiddleware *auth.Middleware, logger *zap.Logger) *http.ServeMux {
	store := b.store

	referenceService := services.NewReferenceService(store.Reference, logger)
	studentService := services.NewStudentService(store.Students, logger)
	assessmentService := services.NewAssessmentService(store.Assessments, store.Ratings, referenceService, logger)
	ratingService := services.NewRatingService(store.Ratings, store.Assessments, store.Observations, logger)
	observationService := services.NewObservationService(store.Observations, logger)

	mux := http.NewServeMux()

	var pinger handlers.StorePinger
	if b.db != nil {
		pinger = b.db
	}
	handlers.NewHealthHandler(cfg, pinger, logger).RegisterRoutes(mux)
	handlers.NewReferenceHandler(referenceService, logger).RegisterRoutes(mux, b.publicScope)
	handlers.NewStudentsHandler(studentService, logger).RegisterRoutes(mux, authMiddleware, b.scope)
	handlers.NewAssessmentsHandler(assessmentService, logger).RegisterRoutes(mux, authMiddleware, b.scope)
	handlers.NewRatingsHandler(ratingService, logger).RegisterRoutes(mux, authMiddleware, b.scope)
	handlers.NewObservationsHandler(observationService, logger).RegisterRoutes(mux, authMiddleware, b.scope)

	return mux
}
