package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvyt/rifa/internal/infrastructure/config"
	"github.com/samvyt/rifa/internal/infrastructure/database"
	"github.com/samvyt/rifa/internal/infrastructure/migration"
	"github.com/samvyt/rifa/internal/interfaces/cli/bootstrap"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var (
	env        string
	configPath string
	name       string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long: `Manage database migrations. MySQL uses the versioned goose scripts;
sqlite derives its schema from the models.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration",
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, log, err := bootstrap.Load(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := bootstrap.OpenDatabase(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// gooseFor rejects drivers whose schema is not script-managed.
func gooseFor(cfg *config.Config, log logger.Interface, op string) (*migration.GooseStrategy, error) {
	if cfg.Database.Driver != "mysql" {
		return nil, fmt.Errorf("%s is only supported for mysql, %s uses auto-migrate", op, cfg.Database.Driver)
	}
	return migration.NewGooseStrategy(cfg.Database.Driver, log), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "driver", cfg.Database.Driver)
	if err := migration.NewManager(cfg.Database.Driver, log).Migrate(database.Get()); err != nil {
		return err
	}
	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseFor(cfg, log, "down")
	if err != nil {
		return err
	}

	log.Infow("running down migrations", "environment", env, "steps", steps)
	if err := strategy.MigrateDown(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := gooseFor(cfg, log, "status")
	if err != nil {
		return err
	}

	current, err := strategy.GetVersion(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Current Version: %d\n", current)

	if err := strategy.Status(database.Get()); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap.Load(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}

	if err := migration.NewGooseStrategy("mysql", log).Create(scriptsDir, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, scriptsDir)
	return nil
}
