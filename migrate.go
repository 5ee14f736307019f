package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/database"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.UsesMemoryStore() {
		return errors.New("migrate requires store.backend=postgres")
	}

	db, err := connectPostgres(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db.SQLDB(), cfg.Database.MigrationsPath, logger); err != nil {
		return err
	}

	version, dirty, err := database.MigrationVersion(db.SQLDB(), cfg.Database.MigrationsPath, logger)
	if err != nil {
		return err
	}
	logger.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
