// Package main implements the reverie CLI: import life-tracking data, run
// insight analysis, and review or react to discovered insights.
//
// Usage:
//
//	reverie import data.yaml   - Import source records
//	reverie analyze [--force]  - Run an analysis pass if one is due
//	reverie insights           - List insights
//	reverie context            - Print coach context lines
//	reverie config init        - Write a default config file
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/reverie/internal/config"
	"github.com/Atharva-Kanherkar/reverie/internal/insights"
	"github.com/Atharva-Kanherkar/reverie/internal/logging"
	"github.com/Atharva-Kanherkar/reverie/internal/storage"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	storagePath string
	logLevel    string
	jsonOutput  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "reverie",
		Short: "Discover patterns in your journal, health, and life data",
		Long: `reverie fuses journal entries, calendar, contacts, location, screen time,
health, and weather records into daily data points and looks for recurring
patterns that relate to mood, sleep, and energy.

Examples:
  # Import a bundle of records
  reverie import export.yaml

  # Run analysis now, even if one ran recently
  reverie analyze --force

  # Review insights you have not acknowledged yet
  reverie insights --unacked`,
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/reverie/config.yaml)")
	root.PersistentFlags().StringVar(&opts.storagePath, "storage", "", "storage directory (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output results as JSON")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newObserveCmd(opts),
		newInsightsCmd(opts),
		newAckCmd(opts),
		newReactCmd(opts),
		newMentionCmd(opts),
		newContextCmd(opts),
		newImportCmd(opts),
		newStatsCmd(opts),
		newSettingsCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// app is the wiring shared by commands.
type app struct {
	cfg    *config.Config
	store  *storage.Store
	ledger *insights.Ledger
	logger *zap.Logger
}

func (a *app) Close() {
	_ = a.logger.Sync()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.storagePath != "" {
		cfg.StoragePath = opts.storagePath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads config, opens storage, and builds the ledger.
func openApp(opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureStorageDir(); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	var catalog []insights.PatternDefinition
	if cfg.Insights.CatalogPath != "" {
		data, err := os.ReadFile(cfg.Insights.CatalogPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		if catalog, err = insights.ParseCatalog(data); err != nil {
			store.Close()
			return nil, err
		}
	}

	defaults := cfg.Insights.Settings
	ledger, err := insights.NewLedger(insights.LedgerConfig{
		Store:        store,
		Loader:       store,
		Catalog:      catalog,
		Defaults:     &defaults,
		Location:     loc,
		LookbackDays: cfg.Insights.LookbackDays,
		Logger:       logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, ledger: ledger, logger: logger}, nil
}

// withApp runs fn against an opened app and closes it afterwards.
func withApp(opts *rootOptions, fn func(a *app) error) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
