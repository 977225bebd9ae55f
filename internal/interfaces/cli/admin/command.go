// Package admin issues credentials for the operator API.
package admin

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvyt/rifa/internal/infrastructure/auth"
	"github.com/samvyt/rifa/internal/interfaces/cli/bootstrap"
	"github.com/samvyt/rifa/internal/shared/constants"
)

var (
	env        string
	configPath string
	subject    string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator credentials",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	token := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /admin endpoints",
		RunE:  runToken,
	}
	token.Flags().StringVarP(&subject, "subject", "s", "operator", "Who the token is issued to; shows up in request logs")
	token.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: admin.token_ttl)")

	cmd.AddCommand(token)
	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, _, err := bootstrap.Load(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}

	lifetime := cfg.Admin.TokenTTL
	if ttl > 0 {
		lifetime = ttl
	}
	svc, err := auth.NewJWTService(cfg.Admin.JWTSecret, lifetime)
	if err != nil {
		return err
	}

	token, expiresAt, err := svc.Issue(subject)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, token)
	fmt.Fprintf(out, "# expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
