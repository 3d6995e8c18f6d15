// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/stubgen/internal/core/preflight"
)

// ProjectFS defines the secondary port for the project's source tree.
type ProjectFS interface {
	// ListEntities returns the names of files in dir carrying ext, with the
	// extension stripped, sorted. A missing dir fails with *scaffold.DiscoveryError.
	ListEntities(ctx context.Context, dir, ext string) ([]string, error)

	// ListFiles returns the paths of files in dir carrying ext.
	// A missing dir yields an empty list.
	ListFiles(ctx context.Context, dir, ext string) ([]string, error)

	// Exists reports whether a regular file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// ProbeDirectory gathers the facts the permission guard needs for dir.
	ProbeDirectory(ctx context.Context, dir string) (preflight.DirectoryContext, error)

	// MkdirAll creates dir and any missing parents.
	MkdirAll(ctx context.Context, dir string, perm uint32) error

	// WriteFile replaces path with content atomically.
	WriteFile(ctx context.Context, path string, content []byte, perm uint32) error
}

// ClassResolver maps fully qualified class names to source files.
type ClassResolver interface {
	// Resolve returns the file defining fqcn. ok is false when the class does
	// not map to an existing file.
	Resolve(ctx context.Context, fqcn string) (path string, ok bool, err error)
}

// ModelWatcher reports changes to the models directory.
type ModelWatcher interface {
	// Watch blocks until ctx is cancelled, calling onCreate with the entity
	// names of model files created since the previous call.
	Watch(ctx context.Context, dir, ext string, onCreate func(ctx context.Context, entities []string)) error
}
