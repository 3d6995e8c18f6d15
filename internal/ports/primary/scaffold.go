// Package primary defines the primary ports (driving adapters) of the application.
package primary

import (
	"context"

	"github.com/example/stubgen/internal/core/overwrite"
	"github.com/example/stubgen/internal/scaffold"
)

// ScaffoldService defines the primary port for artifact generation.
type ScaffoldService interface {
	// Generate runs one generation over every discovered entity.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Watch regenerates for every model file created until ctx is cancelled.
	Watch(ctx context.Context, req WatchRequest) error
}

// GenerateRequest contains parameters for a generation run.
// Repositories are always generated.
type GenerateRequest struct {
	Contracts bool
	Policies  bool
	Resources bool
	Mode      overwrite.Mode
	DryRun    bool
	// Only restricts the run to these entities when non-empty.
	Only []string
}

// Kinds returns the requested kinds in run order.
func (r GenerateRequest) Kinds() []scaffold.ArtifactKind {
	var kinds []scaffold.ArtifactKind
	for _, k := range scaffold.RunOrder {
		switch k {
		case scaffold.KindContract:
			if !r.Contracts {
				continue
			}
		case scaffold.KindPolicy:
			if !r.Policies {
				continue
			}
		case scaffold.KindResource:
			if !r.Resources {
				continue
			}
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// GenerateResponse contains the result of a generation run.
type GenerateResponse struct {
	RunID    string // empty for dry runs or when history is disabled
	Entities []string
	Kinds    []*KindReport
	Warnings []string
	DryRun   bool
}

// Failed reports whether any kind failed.
func (r *GenerateResponse) Failed() bool {
	for _, k := range r.Kinds {
		if k.Err != nil {
			return true
		}
	}
	return false
}

// Count returns how many files across all kinds ended with outcome.
func (r *GenerateResponse) Count(outcome overwrite.Outcome) int {
	n := 0
	for _, k := range r.Kinds {
		for _, f := range k.Files {
			if f.Outcome == outcome {
				n++
			}
		}
	}
	return n
}

// KindReport is the result of one artifact kind.
type KindReport struct {
	Kind       scaffold.ArtifactKind
	TemplateID string
	Dir        string
	// Prompted is true when the operator was asked to confirm overwrites.
	Prompted bool
	Files    []*FileReport
	// Err is the failure that aborted the kind before any write.
	Err error
}

// FileReport is the outcome of one generated file.
type FileReport struct {
	Entity    string
	ClassName string
	Path      string
	Outcome   overwrite.Outcome
	Content   string // populated for dry runs
}

// WatchRequest contains parameters for watching the models directory.
type WatchRequest struct {
	Generate GenerateRequest
	// OnRun is called after every triggered generation.
	OnRun func(resp *GenerateResponse, err error)
}
