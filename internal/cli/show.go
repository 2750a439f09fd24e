package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dstack-org/dops-cli/internal/cli/render"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <deployment-id-or-address>",
		Short: "Show a deployment record",
		Long: `Show a single deployment record, looked up by deployment ID or by address.
Address lookups require a selected network so the chain ID is known.`,
		Example: `  # By deployment ID
  dops show dpool-sfrax-vault

  # By address on the selected network
  dops show 0x1234... -n fraxtal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			record, err := app.ShowDeployment.Run(cmd.Context(), args[0], app.Config.ChainID())
			if err != nil {
				var notFound *usecase.RecordNotFoundError
				if errors.As(err, &notFound) && len(notFound.Suggestions) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Deployment %q not found. Did you mean:\n", args[0])
					for _, suggestion := range notFound.Suggestions {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", suggestion)
					}
				}
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			return renderer.RenderRecord(record)
		},
	}

	return cmd
}
