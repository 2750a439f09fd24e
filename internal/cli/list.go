package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dstack-org/dops-cli/internal/cli/render"
	"github.com/dstack-org/dops-cli/internal/domain/models"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		unit         string
		chainID      uint64
		contractName string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from the ledger",
		Long: `List deployment records from the ledger, optionally filtered by unit kind,
chain ID or contract name.`,
		Example: `  # List all deployments
  dops list

  # List only vault deployments on chain 252
  dops list --unit vault --chain 252`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			filter := models.RecordFilter{
				ChainID:      chainID,
				ContractName: contractName,
			}
			if unit != "" {
				kind, err := parseUnitKind(unit)
				if err != nil {
					return err
				}
				filter.Unit = kind
			}

			result, err := app.ListDeployments.Run(cmd.Context(), filter)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			return renderer.RenderList(result)
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "Filter by unit kind (vault, periphery, adapter, liquidator-bot, reward-manager)")
	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Filter by chain ID")
	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")

	return cmd
}

// parseUnitKind maps a CLI-friendly unit name to its ledger kind
func parseUnitKind(unit string) (models.UnitKind, error) {
	switch strings.ToLower(unit) {
	case "vault":
		return models.UnitVault, nil
	case "periphery":
		return models.UnitPeriphery, nil
	case "adapter":
		return models.UnitAdapter, nil
	case "liquidator-bot":
		return models.UnitLiquidatorBot, nil
	case "reward-manager":
		return models.UnitRewardManager, nil
	default:
		return "", fmt.Errorf("invalid unit kind: %s", unit)
	}
}
