package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dstack-org/dops-cli/internal/usecase"
)

// VerifyRenderer renders deployment verification summaries
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// RenderVerifySummary renders the per-unit table and the success rate
func (r *VerifyRenderer) RenderVerifySummary(summary *usecase.VerifySummary) error {
	if summary.Total == 0 {
		fmt.Fprintln(r.out, "No units configured for this network")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.AppendHeader(table.Row{"Unit", "Status", "Detail"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 60},
	})

	for _, unit := range summary.Units {
		if unit.OK {
			t.AppendRow(table.Row{unit.Unit, deployedStyle.Sprint("deployed"), ""})
		} else {
			t.AppendRow(table.Row{unit.Unit, failedStyle.Sprint("missing"), unit.Err.Error()})
		}
	}
	t.Render()

	fmt.Fprintf(r.out, "\n%d/%d units deployed (%.0f%%)\n",
		summary.Deployed, summary.Total, summary.SuccessRate()*100)
	return nil
}
