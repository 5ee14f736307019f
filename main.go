package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ekaya-inc/drdp-engine/pkg/config"
)

// Version is set at build time via ldflags
var Version = "dev"

var catalogPath string

var rootCmd = &cobra.Command{
	Use:   "drdp-engine",
	Short: "DRDP assessment service",
	Long: `drdp-engine records Desired Results Developmental Profile assessments:
students, assessments per period, measure ratings with supporting
observations, and per-domain progress summaries.

Running without a subcommand is the same as "drdp-engine serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the reference catalog into the configured store",
	Long: `Loads domains, measures and developmental levels from a catalog file
(the embedded DRDP catalog when --catalog is empty) and upserts them by code.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: store.catalog_path or embedded catalog)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newLogger returns a console logger for local runs and JSON otherwise.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Env == "local" || cfg.Env == "dev" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(zap.String("version", cfg.Version)), nil
}
