package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dstack-org/dops-cli/internal/adapters/progress"
	"github.com/dstack-org/dops-cli/internal/app"
	"github.com/dstack-org/dops-cli/internal/config"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

// appKey is the context key for the app instance
const appKey contextKey = "app"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dops",
		Short: "Deployment and governance operations for dSTACK protocol contracts",
		Long: `dops deploys and configures dPool vaults, periphery, liquidator bots and
reward managers from per-network configuration, keeps an idempotent deployment
ledger, and drives governance workflows through Safe multisig proposals.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Load .env before viper reads the environment
			_ = godotenv.Load(filepath.Join(projectRoot, ".env"))

			v := config.SetupViper(projectRoot)
			bindGlobalFlags(v, cmd)

			sink := newSink(v)

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., fraxtal, sonic, localhost)")

	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewOracleCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newSink picks the progress sink for the run
func newSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("non_interactive") || os.Getenv("CI") != "" {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	bindFlag(v, "debug", cmd.Flag("debug"))
	bindFlag(v, "non_interactive", cmd.Flag("non-interactive"))
	bindFlag(v, "network", cmd.Flag("network"))
}

// Only bind flags that exist and have been changed
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if f != nil && f.Changed {
		v.Set(key, f.Value.String())
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
