package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dstack-org/dops-cli/internal/usecase"
)

// Color styles shared by the renderers
var (
	deployedStyle = color.New(color.FgGreen)
	reusedStyle   = color.New(color.FgCyan)
	skippedStyle  = color.New(color.FgYellow)
	failedStyle   = color.New(color.FgRed)
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	faintStyle    = color.New(color.Faint)
)

// ComposeRenderer renders the outcome of a deployment run
type ComposeRenderer struct {
	out io.Writer
}

// NewComposeRenderer creates a new compose renderer
func NewComposeRenderer(out io.Writer) *ComposeRenderer {
	return &ComposeRenderer{out: out}
}

// RenderComposeResult renders per-unit outcomes followed by a summary line
func (r *ComposeRenderer) RenderComposeResult(result *usecase.ComposeResult) error {
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(r.out, "Nothing to deploy (no units configured for this network)")
		return nil
	}

	headerStyle.Fprintln(r.out, "Deployment results:")
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case usecase.UnitDeployed:
			deployedStyle.Fprintf(r.out, "  ✓ %s", outcome.Unit)
			faintStyle.Fprintf(r.out, " %s\n", outcome.Address.Hex())
		case usecase.UnitReused:
			reusedStyle.Fprintf(r.out, "  = %s", outcome.Unit)
			faintStyle.Fprintf(r.out, " %s (already deployed)\n", outcome.Address.Hex())
		case usecase.UnitSkipped:
			skippedStyle.Fprintf(r.out, "  - %s", outcome.Unit)
			faintStyle.Fprintf(r.out, " skipped: %s\n", outcome.Reason)
		case usecase.UnitFailed:
			failedStyle.Fprintf(r.out, "  ✗ %s: %v\n", outcome.Unit, outcome.Err)
		}
	}

	ok, skipped, failed := result.Counts()
	fmt.Fprintf(r.out, "\n%d deployed, %d skipped, %d failed\n", ok, skipped, failed)
	return nil
}
