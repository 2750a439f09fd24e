package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dstack-org/dops-cli/internal/cli/render"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var checkOnChain bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that all configured units are deployed",
		Long: `Check every unit the network configuration expects against the deployment
ledger and report a per-unit summary with a success percentage.`,
		Example: `  # Verify against the ledger only
  dops verify -n fraxtal

  # Also check that each recorded address has code on chain
  dops verify -n fraxtal --check-onchain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			summary, err := app.VerifyDeployment.Run(cmd.Context(), usecase.VerifyParams{
				CheckOnChain: checkOnChain,
			})
			if err != nil {
				return err
			}

			renderer := render.NewVerifyRenderer(cmd.OutOrStdout())
			if err := renderer.RenderVerifySummary(summary); err != nil {
				return err
			}

			if summary.Deployed < summary.Total {
				return fmt.Errorf("%d units missing", summary.Total-summary.Deployed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnChain, "check-onchain", false, "Also verify that recorded addresses have code")

	return cmd
}
