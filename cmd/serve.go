package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/tokenkeep/internal/api"
	"github.com/darmiel/tokenkeep/internal/config"
	"github.com/darmiel/tokenkeep/internal/service"
	"github.com/darmiel/tokenkeep/internal/store"
	"github.com/darmiel/tokenkeep/internal/tasks"
)

const ReadHeaderTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tokenkeep API server",
	Long: `Starts the HTTP API that the web UI and the other tokenkeep commands talk to.

Settings are read from the config file (--config) and can be overridden by flags.
For compatibility with existing deployments the PORT and CORS_ORIGINS environment
variables are honored when the matching flag is not set.`,
	Example: `  tokenkeep serve
  tokenkeep serve --storage sqlite --sqlite-path ./tokens.db --demo-data=false
  PORT=8080 tokenkeep serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadServerConfig()
		if err != nil {
			return err
		}
		applyServeOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f.bindConfigFlag(serveCmd.Flags())
	serveCmd.Flags().String("addr", "", "address to listen on (default :3000)")
	serveCmd.Flags().String("storage", "", "storage driver (memory, sqlite)")
	serveCmd.Flags().String("sqlite-path", "", "path of the SQLite database (storage sqlite)")
	serveCmd.Flags().Bool("demo-data", true, "load the demo tokens if the store is empty")
	serveCmd.Flags().Int("seed", 0, "generate this many random tokens on startup")
	serveCmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins ('*' for any)")
}

func applyServeOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = net.JoinHostPort("", port)
	}

	if flags.Changed("cors-origins") {
		cfg.Server.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	} else if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = config.ParseCORSOrigins(origins)
	}

	if flags.Changed("storage") {
		cfg.Storage.Driver, _ = flags.GetString("storage")
	}
	if flags.Changed("sqlite-path") {
		path, _ := flags.GetString("sqlite-path")
		if cfg.Storage.Options == nil {
			cfg.Storage.Options = make(map[string]any)
		}
		cfg.Storage.Options["path"] = path
	}
	if flags.Changed("demo-data") {
		cfg.Seed.DemoData, _ = flags.GetBool("demo-data")
	}
	if flags.Changed("seed") {
		cfg.Seed.Count, _ = flags.GetInt("seed")
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	repo, closer, err := store.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("closing token store")
		}
	}()

	svc := service.NewTokenService(repo)
	logCtx := log.Logger.WithContext(ctx)

	if cfg.Seed.DemoData {
		n, err := svc.LoadDemoData(logCtx)
		if err != nil {
			return fmt.Errorf("loading demo data: %w", err)
		}
		if n > 0 {
			log.Info().Msgf("Loaded %d demo tokens", n)
		}
	}
	if cfg.Seed.Count > 0 {
		if _, err := svc.Seed(logCtx, cfg.Seed.Count); err != nil {
			return fmt.Errorf("seeding tokens: %w", err)
		}
	}

	taskManager := tasks.NewManager()
	defer taskManager.Stop()
	report := cfg.Tasks.ExpiryReport
	taskManager.Register(tasks.ExpiryReportTask, report.Interval, tasks.NewExpiryReport(svc, report.Window))

	srv := api.NewServer(svc, taskManager, cfg.Server.CORSOrigins)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s...", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server crashed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited")
	return nil
}
