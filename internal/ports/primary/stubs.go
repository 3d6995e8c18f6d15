package primary

import "context"

// StubService defines the primary port for managing templates.
type StubService interface {
	// ListStubs lists every known template and where it resolves from.
	ListStubs(ctx context.Context) ([]*StubInfo, error)

	// PublishStubs copies the built-in templates into the override directory.
	PublishStubs(ctx context.Context, req PublishStubsRequest) (*PublishStubsResponse, error)
}

// StubInfo describes one template.
type StubInfo struct {
	ID     string
	Origin string
	Path   string
}

// PublishStubsRequest contains parameters for publishing templates.
type PublishStubsRequest struct {
	Force bool
}

// PublishStubsResponse contains the result of publishing templates.
type PublishStubsResponse struct {
	Dir     string
	Written []string
	Skipped []string
}
