// Package raffle holds operator commands that work on the raffle directly
// against the database, without the HTTP API.
package raffle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/infrastructure/cache"
	"github.com/samvyt/rifa/internal/infrastructure/database"
	"github.com/samvyt/rifa/internal/infrastructure/migration"
	"github.com/samvyt/rifa/internal/infrastructure/repository"
	"github.com/samvyt/rifa/internal/interfaces/cli/bootstrap"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/db"
)

var (
	env        string
	configPath string
	file       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle setup and inspection",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Create the active raffle and all of its quotas from a YAML file",
		Example: `  rifa raffle setup --file raffle.yaml

  # raffle.yaml
  name: Moto 0km
  prize: Honda CG 160
  total_quotas: 10000
  price: "2.50"
  draw_method: Loteria Federal`,
		RunE: runSetup,
	}
	setup.Flags().StringVarP(&file, "file", "f", "", "YAML file describing the raffle (required)")
	_ = setup.MarkFlagRequired("file")

	stats := &cobra.Command{
		Use:   "stats [raffle-id]",
		Short: "Print sale statistics for the active raffle or the given one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}

	cmd.AddCommand(setup, stats)
	return cmd
}

// ParseSetupFile decodes a raffle definition. Unknown keys are rejected.
func ParseSetupFile(r io.Reader) (usecases.SetupRaffleCommand, error) {
	var cmd usecases.SetupRaffleCommand
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cmd); err != nil {
		return cmd, fmt.Errorf("invalid raffle file: %w", err)
	}
	return cmd, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	setupCmd, err := ParseSetupFile(f)
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap.Load(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	gdb, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.Database.Driver != "mysql" {
		if err := migration.NewManager(cfg.Database.Driver, log).Migrate(gdb); err != nil {
			return err
		}
	}

	uc := usecases.NewSetupRaffleUseCase(
		repository.NewRaffleRepository(gdb),
		repository.NewQuotaLedger(gdb),
		db.NewTransactionManager(gdb),
		cfg.Raffle.Currency,
		cfg.Raffle.NumberWidth,
		log,
	)
	result, err := uc.Execute(context.Background(), setupCmd)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Load(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	gdb, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	sid := ""
	if len(args) == 1 {
		sid = args[0]
	}

	uc := usecases.NewGetStatsUseCase(
		repository.NewRaffleRepository(gdb),
		repository.NewQuotaLedger(gdb),
		cache.NewMemoryStatsCache(0),
		log,
	)
	stats, err := uc.Execute(context.Background(), sid)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), stats)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
