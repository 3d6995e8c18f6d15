// Package cli contains thin adapters that translate CLI operations to
// service calls and render their results for the operator.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/stubgen/internal/core/overwrite"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/ports/primary"
)

// ScaffoldAdapter is a thin adapter that translates CLI operations to ScaffoldService calls.
type ScaffoldAdapter struct {
	service primary.ScaffoldService
	out     io.Writer
}

// NewScaffoldAdapter creates a new ScaffoldAdapter with the given service.
func NewScaffoldAdapter(service primary.ScaffoldService, out io.Writer) *ScaffoldAdapter {
	return &ScaffoldAdapter{
		service: service,
		out:     out,
	}
}

// Generate runs a generation and prints one status line per file.
// It returns an error when the run could not start or any kind failed.
func (a *ScaffoldAdapter) Generate(ctx context.Context, req primary.GenerateRequest) (*primary.GenerateResponse, error) {
	resp, err := a.service.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, a.Report(resp)
}

// Watch regenerates on every model file created until ctx is cancelled.
func (a *ScaffoldAdapter) Watch(ctx context.Context, req primary.GenerateRequest) error {
	fmt.Fprintln(a.out, "Watching for new models (Ctrl+C to stop)...")
	return a.service.Watch(ctx, primary.WatchRequest{
		Generate: req,
		OnRun: func(resp *primary.GenerateResponse, err error) {
			if err != nil {
				fmt.Fprintf(a.out, "%s %v\n", color.New(color.FgRed).Sprint("✗"), err)
				return
			}
			// Failures are already printed; keep watching.
			_ = a.Report(resp)
		},
	})
}

// Report prints the outcome of a run.
func (a *ScaffoldAdapter) Report(resp *primary.GenerateResponse) error {
	for _, w := range resp.Warnings {
		fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), w)
	}

	if resp.DryRun {
		fmt.Fprintln(a.out, "(dry-run mode - no files written)")
		fmt.Fprintln(a.out)
	}

	var failed []string
	for _, kind := range resp.Kinds {
		if kind.Err != nil {
			failed = append(failed, string(kind.Kind))
			fmt.Fprintf(a.out, "%s Failed %s files: %v\n", color.New(color.FgRed).Sprint("✗"), kind.Kind, kind.Err)
			for _, hint := range errors.GetAllHints(kind.Err) {
				fmt.Fprintf(a.out, "  hint: %s\n", hint)
			}
			continue
		}

		for _, f := range kind.Files {
			a.printFile(string(kind.Kind), f)
			if resp.DryRun && f.Outcome.Writes() {
				fmt.Fprintf(a.out, "--- %s ---\n", f.Path)
				fmt.Fprintln(a.out, f.Content)
				fmt.Fprintln(a.out)
			}
		}
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Done: %d created, %d overridden, %d skipped\n",
		resp.Count(overwrite.OutcomeCreated),
		resp.Count(overwrite.OutcomeOverridden),
		resp.Count(overwrite.OutcomeSkipped),
	)
	if resp.RunID != "" {
		fmt.Fprintf(a.out, "Recorded as %s\n", resp.RunID)
	}

	if len(failed) > 0 {
		return errors.Newf("generation failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (a *ScaffoldAdapter) printFile(kind string, f *primary.FileReport) {
	switch f.Outcome {
	case overwrite.OutcomeCreated:
		fmt.Fprintf(a.out, "%s Created %s file: %s\n", color.New(color.FgGreen).Sprint("✓"), kind, f.ClassName)
	case overwrite.OutcomeOverridden:
		fmt.Fprintf(a.out, "%s Overridden %s file: %s\n", color.New(color.FgYellow).Sprint("✓"), kind, f.ClassName)
	default:
		fmt.Fprintf(a.out, "- Skipped %s file: %s\n", kind, f.ClassName)
	}
}
