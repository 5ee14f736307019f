package main

import (
	"github.com/spf13/cobra"
)

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.UsesMemoryStore() {
		logger.Warn("Seeding the in-memory store only lasts for this process")
	}

	b, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	path := catalogPath
	if path == "" {
		path = cfg.Store.CatalogPath
	}
	return seedCatalog(cmd.Context(), b, path, logger)
}
