package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/samvyt/rifa/internal/interfaces/cli/admin"
	"github.com/samvyt/rifa/internal/interfaces/cli/migrate"
	"github.com/samvyt/rifa/internal/interfaces/cli/raffle"
	"github.com/samvyt/rifa/internal/interfaces/cli/server"
	"github.com/samvyt/rifa/internal/interfaces/cli/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rifa",
		Short:        "Rifa - online raffle sales with PIX payments",
		Long:         `Rifa sells numbered raffle quotas, reserves them while a PIX charge is pending and reclaims them when the charge expires.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		raffle.NewCommand(),
		admin.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
