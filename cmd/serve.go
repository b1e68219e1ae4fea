package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/server"
	"github.com/ziadkadry99/quickview/internal/settings"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront server",
	Long: `Starts the storefront with the quick view extension, the general
settings page API and the audit trail API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		logger := initLogger(cfg)
		logger.Info("configuration loaded",
			slog.String("environment", string(cfg.Environment)),
			slog.String("home_url", cfg.HomeURL),
			slog.Bool("commerce_enabled", cfg.Commerce.Enabled),
		)

		ctx := context.Background()
		a, err := openApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.CORSAllowAll,
		}, a.database, logger)

		r := srv.Router()
		a.host.RegisterRoutes(r)
		settings.RegisterRoutes(r, a.panel)
		audit.RegisterRoutes(r, a.audit)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting server",
				slog.String("version", Version),
				slog.Int("port", cfg.Port),
				slog.Bool("quick_view", a.plugin != nil),
			)
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case sig := <-quit:
			logger.Info("shutting down server", slog.String("signal", sig.String()))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
