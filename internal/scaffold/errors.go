package scaffold

import (
	"fmt"
	"strings"
)

// DiscoveryError means the models directory is missing. Fatal for the run.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("models directory does not exist: %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("models directory does not exist: %s", e.Dir)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// PermissionError means a kind's output directory, or its nearest existing
// ancestor, is not writable. Fatal for that kind, raised before any write.
type PermissionError struct {
	Kind   ArtifactKind
	Path   string
	Reason string
}

func (e *PermissionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("not writable directory, check permissions: %s", e.Path)
}

// TemplateNotFoundError means no template exists for an identifier.
// Fatal for the kind that asked for it.
type TemplateNotFoundError struct {
	ID string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("stub file does not exist: %s", e.ID)
}

// MissingPlaceholderError means a template declares placeholders the binding
// for an entity does not cover. Fatal for the kind, raised before any write.
type MissingPlaceholderError struct {
	TemplateID string
	Entity     string
	Tokens     []string
	// Misspaced lists the tokens that would bind if written as "{{ name }}".
	Misspaced []string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("stub %s has unbound placeholders for %s: %s",
		e.TemplateID, e.Entity, strings.Join(e.Tokens, ", "))
}

// EntityResolutionError means a file a binding refers to could not be
// confirmed on disk. Never fatal: the binding degrades to an empty value.
type EntityResolutionError struct {
	Entity    string
	Reference string // e.g. "App\Contracts\InvoiceRepository"
	Path      string
}

func (e *EntityResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s for %s: %s not found", e.Reference, e.Entity, e.Path)
}
