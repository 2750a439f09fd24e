package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dstack-org/dops-cli/internal/cli/render"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// Environment variables consumed by oracle propose-price
const (
	envNewPrice           = "NEW_PRICE"
	envOracleAddress      = "ORACLE_ADDRESS"
	envConfirmLargeChange = "CONFIRM_LARGE_CHANGE"
)

// NewOracleCmd creates the oracle command group
func NewOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Oracle governance workflows",
	}

	cmd.AddCommand(newProposePriceCmd())

	return cmd
}

func newProposePriceCmd() *cobra.Command {
	var (
		newPrice      string
		oracleAddress string
	)

	cmd := &cobra.Command{
		Use:   "propose-price",
		Short: "Propose a hard-peg oracle price update via the governance Safe",
		Long: `Read the current oracle price, compute the basis-point change to the new
price, and submit a setPrice transaction proposal to the network's governance
Safe. Changes above 50% require CONFIRM_LARGE_CHANGE=yes.

Inputs can be passed as flags or through the NEW_PRICE and ORACLE_ADDRESS
environment variables.`,
		Example: `  # Propose a new peg price of 1.00
  NEW_PRICE=1.00 dops oracle propose-price -n fraxtal

  # Explicit oracle, large change acknowledged
  CONFIRM_LARGE_CHANGE=yes dops oracle propose-price -n fraxtal \
    --new-price 0.50 --oracle 0x1234...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if newPrice == "" {
				newPrice = os.Getenv(envNewPrice)
			}
			if newPrice == "" {
				return fmt.Errorf("new price is required (--new-price or %s)", envNewPrice)
			}
			if oracleAddress == "" {
				oracleAddress = os.Getenv(envOracleAddress)
			}

			params := usecase.ProposePriceParams{
				NewPrice:           newPrice,
				OracleOverride:     oracleAddress,
				ConfirmLargeChange: os.Getenv(envConfirmLargeChange) == "yes",
			}

			result, err := app.ProposePriceUpdate.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewProposalRenderer(cmd.OutOrStdout())
			return renderer.RenderProposal(result)
		},
	}

	cmd.Flags().StringVar(&newPrice, "new-price", "", "New price as a decimal string, e.g. 1.00")
	cmd.Flags().StringVar(&oracleAddress, "oracle", "", "Oracle wrapper address (overrides configuration)")

	return cmd
}
