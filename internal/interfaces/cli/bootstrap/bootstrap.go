// Package bootstrap loads configuration and opens the database for CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/infrastructure/config"
	"github.com/samvyt/rifa/internal/infrastructure/database"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagValue string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flagValue
}

// GinMode maps an environment name onto a gin mode.
func GinMode(env string) string {
	switch env {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}

// Load reads the configuration, initializes the global logger and the business timezone.
func Load(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = GinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// OpenDatabase initializes the shared connection. Callers defer database.Close.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database.Get(), nil
}
