package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/dstack-org/dops-cli/internal/cli/render"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		skipExisting bool
		only         []string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy configured units to the selected network",
		Long: `Deploy all units configured for the selected network in dependency order:
dPool vaults, peripheries and adapters, then the liquidator bot, then reward
managers. Units whose configuration section is absent are skipped.`,
		Example: `  # Deploy everything configured for fraxtal
  dops deploy -n fraxtal

  # Keep existing ledger entries, deploy only what is missing
  dops deploy -n fraxtal --skip-existing

  # Deploy only dPool units
  dops deploy -n fraxtal --only dpool`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			for _, tag := range only {
				switch tag {
				case usecase.TagDPool, usecase.TagLiquidator, usecase.TagRewards:
				default:
					return fmt.Errorf("invalid unit tag: %s (valid: %s, %s, %s)",
						tag, usecase.TagDPool, usecase.TagLiquidator, usecase.TagRewards)
				}
			}

			if !skipExisting && !app.Config.NonInteractive {
				prompt := promptui.Prompt{
					Label:     "Existing deployments under the same IDs will be replaced. Continue",
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return fmt.Errorf("deployment cancelled")
				}
			}

			params := usecase.ComposeParams{
				SkipIfAlreadyDeployed: skipExisting,
				Tags:                  only,
			}

			result, err := app.ComposeDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewComposeRenderer(cmd.OutOrStdout())
			if err := renderer.RenderComposeResult(result); err != nil {
				return err
			}

			if _, _, failed := result.Counts(); failed > 0 {
				return fmt.Errorf("%d units failed to deploy", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Keep existing ledger entries instead of redeploying")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Restrict the run to unit tags (dpool, liquidator, rewards)")

	return cmd
}
