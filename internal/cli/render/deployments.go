package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dstack-org/dops-cli/internal/domain/models"
	"github.com/dstack-org/dops-cli/internal/usecase"
)

// DeploymentsRenderer renders ledger records as tables
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderList renders all records grouped by chain
func (r *DeploymentsRenderer) RenderList(result *usecase.ListResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	var lastChain uint64
	t := table.NewWriter()
	for _, record := range result.Records {
		if record.ChainID != lastChain {
			r.flush(t)
			t = table.NewWriter()
			headerStyle.Fprintf(r.out, "Chain %d\n", record.ChainID)
			lastChain = record.ChainID
		}
		t.AppendRow(table.Row{
			record.ID,
			unitLabel(record.Unit),
			record.Address,
			record.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	r.flush(t)

	fmt.Fprintf(r.out, "\n%d deployments\n", result.Summary.Total)
	return nil
}

func (r *DeploymentsRenderer) flush(t table.Writer) {
	if t == nil || t.Length() == 0 {
		return
	}
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Render()
	fmt.Fprintln(r.out)
}

// RenderRecord renders a single record in detail
func (r *DeploymentsRenderer) RenderRecord(record *models.DeploymentRecord) error {
	headerStyle.Fprintln(r.out, record.ID)
	fmt.Fprintf(r.out, "  Contract:  %s\n", record.ContractName)
	fmt.Fprintf(r.out, "  Unit:      %s\n", unitLabel(record.Unit))
	fmt.Fprintf(r.out, "  Chain:     %d\n", record.ChainID)
	fmt.Fprintf(r.out, "  Address:   %s\n", record.Address)
	if record.TxHash != "" {
		fmt.Fprintf(r.out, "  Tx:        %s\n", record.TxHash)
	}
	if len(record.Args) > 0 {
		fmt.Fprintf(r.out, "  Args:      %s\n", strings.Join(record.Args, ", "))
	}
	fmt.Fprintf(r.out, "  Deployed:  %s\n", record.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func unitLabel(unit models.UnitKind) string {
	label := strings.ReplaceAll(strings.ToLower(string(unit)), "_", " ")
	return cases.Title(language.English).String(label)
}
