package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/ports/secondary"
)

// HistoryAdapter is a thin adapter that translates CLI operations to HistoryService calls.
type HistoryAdapter struct {
	service primary.HistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.HistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List prints the most recent runs.
func (a *HistoryAdapter) List(ctx context.Context, limit int) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No runs recorded.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Generate your first artifacts:")
		fmt.Fprintln(a.out, "  stubgen generate --contracts --policies --resources")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tKINDS\tMODE\tSTATUS\tCREATED\tOVERRIDDEN\tSKIPPED")
	fmt.Fprintln(w, "--\t-------\t-----\t----\t------\t-------\t----------\t-------")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.StartedAt,
			strings.Join(run.Kinds, ","),
			run.Mode,
			statusLabel(run.Status),
			run.Created,
			run.Overridden,
			run.Skipped,
		)
	}

	w.Flush()
	return runs, nil
}

// Show prints one run with its file outcomes.
func (a *HistoryAdapter) Show(ctx context.Context, runID string) (*primary.RunDetail, error) {
	detail, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run := detail.Run

	fmt.Fprintf(a.out, "\nRun: %s\n", run.ID)
	fmt.Fprintf(a.out, "Root:     %s\n", run.Root)
	fmt.Fprintf(a.out, "Kinds:    %s\n", strings.Join(run.Kinds, ", "))
	fmt.Fprintf(a.out, "Mode:     %s\n", run.Mode)
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(run.Status))
	if len(run.FailedKinds) > 0 {
		fmt.Fprintf(a.out, "Failed:   %s\n", strings.Join(run.FailedKinds, ", "))
	}
	fmt.Fprintf(a.out, "Started:  %s\n", run.StartedAt)
	fmt.Fprintf(a.out, "Finished: %s\n", run.FinishedAt)
	fmt.Fprintln(a.out)

	if len(detail.Files) == 0 {
		fmt.Fprintln(a.out, "No files recorded.")
		return detail, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tCLASS\tOUTCOME\tPATH")
	fmt.Fprintln(w, "----\t-----\t-------\t----")
	for _, f := range detail.Files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Kind, f.ClassName, f.Outcome, f.Path)
	}
	w.Flush()

	return detail, nil
}

func statusLabel(status string) string {
	switch status {
	case secondary.RunStatusCompleted:
		return color.New(color.FgGreen).Sprint(status)
	case secondary.RunStatusFailed:
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}
