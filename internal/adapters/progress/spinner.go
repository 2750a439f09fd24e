package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dstack-org/dops-cli/internal/usecase"
	"github.com/fatih/color"
)

// SpinnerSink renders progress events with a terminal spinner
type SpinnerSink struct {
	spinner *spinner.Spinner
}

// NewSpinnerSink creates a spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.HideCursor = false
	return &SpinnerSink{spinner: s}
}

// OnProgress updates the spinner with the current stage
func (p *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case "deploying":
		p.spinner.Suffix = fmt.Sprintf(" deploying %s", event.Message)
		if !p.spinner.Active() {
			p.spinner.Start()
		}
	case "unit_done":
		p.spinner.Stop()
		fmt.Fprintf(os.Stderr, "  %s\n", event.Message)
	default:
		p.spinner.Suffix = " " + event.Message
	}
}

// Info prints an informational line, pausing the spinner
func (p *SpinnerSink) Info(message string) {
	p.spinner.Stop()
	fmt.Fprintln(os.Stderr, message)
}

// Error prints an error line in red, pausing the spinner
func (p *SpinnerSink) Error(message string) {
	p.spinner.Stop()
	color.New(color.FgRed).Fprintln(os.Stderr, message)
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
