package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/stubgen/internal/ports/primary"
)

// StubsAdapter is a thin adapter that translates CLI operations to StubService calls.
type StubsAdapter struct {
	service primary.StubService
	out     io.Writer
}

// NewStubsAdapter creates a new StubsAdapter with the given service.
func NewStubsAdapter(service primary.StubService, out io.Writer) *StubsAdapter {
	return &StubsAdapter{
		service: service,
		out:     out,
	}
}

// List prints every template and where it resolves from.
func (a *StubsAdapter) List(ctx context.Context) ([]*primary.StubInfo, error) {
	stubs, err := a.service.ListStubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stubs: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tORIGIN\tPATH")
	fmt.Fprintln(w, "--\t------\t----")
	for _, s := range stubs {
		path := s.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Origin, path)
	}
	w.Flush()

	return stubs, nil
}

// Publish copies the built-in templates into the override directory.
func (a *StubsAdapter) Publish(ctx context.Context, force bool) (*primary.PublishStubsResponse, error) {
	resp, err := a.service.PublishStubs(ctx, primary.PublishStubsRequest{Force: force})
	if err != nil {
		return nil, err
	}

	for _, p := range resp.Written {
		fmt.Fprintf(a.out, "%s Published %s\n", color.New(color.FgGreen).Sprint("✓"), p)
	}
	for _, p := range resp.Skipped {
		fmt.Fprintf(a.out, "- Skipped %s (exists, use --force to replace)\n", p)
	}
	fmt.Fprintf(a.out, "\nStubs directory: %s\n", resp.Dir)

	return resp, nil
}
