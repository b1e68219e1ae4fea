package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/config"
	"github.com/ziadkadry99/quickview/internal/db"
	"github.com/ziadkadry99/quickview/internal/options"
	"github.com/ziadkadry99/quickview/internal/quickview"
	"github.com/ziadkadry99/quickview/internal/settings"
	"github.com/ziadkadry99/quickview/internal/storefront"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `quickview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON, development uses text.
func initLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case cfg.LogLevel != "":
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Environment == config.EnvProduction {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// app bundles the stores and extensions every command works against.
type app struct {
	cfg      *config.Config
	database *db.DB
	catalog  *catalog.Store
	options  *options.Store
	audit    *audit.Store
	host     *storefront.Host
	panel    *settings.Panel
	plugin   *quickview.Plugin // nil when commerce is disabled
}

// openApp opens the database under the data directory and registers the
// storefront and its extensions.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	dbPath := filepath.Join(cfg.DataDir, "quickview.db")
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		database: database,
		catalog:  catalog.NewStore(database),
		options:  options.NewStore(database),
		audit:    audit.NewStore(database),
	}

	a.host = storefront.New(storefront.Config{
		HomeURL:        cfg.HomeURL,
		AssetsURL:      cfg.Commerce.AssetsURL,
		Version:        cfg.Commerce.Version,
		CurrencySymbol: cfg.Commerce.CurrencySymbol,
		Enabled:        cfg.Commerce.Enabled,
		AjaxAddToCart:  cfg.Commerce.AjaxAddToCart,
		ThemeDir:       cfg.ThemeDir,
		DevTemplates:   cfg.DevTemplates,
	}, a.catalog, a.options)
	if err := a.host.Init(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("initialising storefront: %w", err)
	}
	a.panel = settings.NewPanel(a.options, a.audit)

	a.plugin, err = quickview.Register(ctx, a.host, a.panel, quickview.Options{
		TriggerDefault: settings.ParseTriggerMode(cfg.QuickView.TriggerDefault),
		Version:        Version,
		Audit:          a.audit,
	})
	switch {
	case errors.Is(err, quickview.ErrHostInactive):
		logger.Warn("commerce is disabled, quick view not registered")
	case err != nil:
		database.Close()
		return nil, err
	}

	logger.Debug("database opened", slog.String("path", dbPath))
	return a, nil
}

func (a *app) Close() error {
	return a.database.Close()
}
