package secondary

import "context"

// Template origins.
const (
	TemplateOriginOverride = "override"
	TemplateOriginEmbedded = "embedded"
)

// TemplateSource defines the secondary port for loading stubs.
type TemplateSource interface {
	// Load returns the raw text of template id. A template that exists
	// nowhere fails with *scaffold.TemplateNotFoundError.
	Load(ctx context.Context, id string) (string, error)

	// Locate reports where template id resolves from.
	Locate(ctx context.Context, id string) (*TemplateLocation, error)

	// Defaults returns the identifiers of the built-in templates.
	Defaults() ([]string, error)

	// Default returns the built-in text of template id.
	Default(id string) (string, error)

	// OverrideDir returns the directory searched before the built-ins.
	OverrideDir() string
}

// TemplateLocation describes where a template was found.
type TemplateLocation struct {
	ID     string
	Origin string // TemplateOriginOverride or TemplateOriginEmbedded
	Path   string // file path for overrides, empty for built-ins
}
