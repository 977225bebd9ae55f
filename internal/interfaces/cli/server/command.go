package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/samvyt/rifa/internal/infrastructure/config"
	"github.com/samvyt/rifa/internal/infrastructure/database"
	"github.com/samvyt/rifa/internal/infrastructure/migration"
	"github.com/samvyt/rifa/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/samvyt/rifa/internal/interfaces/http"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/version"
)

const (
	defaultAdminSecret = "change-me-in-production"
	shutdownTimeout    = 30 * time.Second
)

var (
	env         string
	configPath  string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the raffle HTTP API together with the expiration watchdog and the payment poller.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations before serving (always on for sqlite)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.ResolveEnv(env)

	cfg, log, err := bootstrap.Load(env, configPath)
	if err != nil {
		return err
	}

	log.Infow("starting server",
		"environment", env,
		"version", version.String(),
		"auto_migrate", autoMigrate,
	)
	if env == constants.EnvProduction && cfg.Admin.JWTSecret == defaultAdminSecret {
		log.Warnw("admin jwt secret is the default value, set RIFA_ADMIN_JWT_SECRET")
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := handleMigrations(cfg, log); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(db, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer container.Shutdown()

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	err = container.Start(startCtx)
	cancelStart()
	if err != nil {
		return fmt.Errorf("failed to start background services: %w", err)
	}

	// WriteTimeout stays zero: the quota event stream is long-lived.
	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	case err, ok := <-serveErr:
		if ok && err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// handleMigrations migrates sqlite on every start. MySQL schemas are managed
// with the migrate command unless --auto-migrate is given.
func handleMigrations(cfg *config.Config, log logger.Interface) error {
	if cfg.Database.Driver != "mysql" || autoMigrate {
		if env == constants.EnvProduction && cfg.Database.Driver == "mysql" {
			log.Warnw("auto-migration is enabled in production")
		}
		if err := migration.NewManager(cfg.Database.Driver, log).Migrate(database.Get()); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	current, err := migration.NewGooseStrategy(cfg.Database.Driver, log).GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", current)
	return nil
}
