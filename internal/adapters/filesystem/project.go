// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/stubgen/internal/core/preflight"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
)

// ProjectAdapter implements secondary.ProjectFS on the local filesystem.
type ProjectAdapter struct{}

// NewProjectAdapter creates a new filesystem project adapter.
func NewProjectAdapter() *ProjectAdapter {
	return &ProjectAdapter{}
}

// ListEntities returns the model names found in dir.
func (a *ProjectAdapter) ListEntities(ctx context.Context, dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &scaffold.DiscoveryError{Dir: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if !scaffold.IsValidEntityName(name) {
			logger.Debugw("skipping file that is not a class name", "file", e.Name())
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListFiles returns the paths of files in dir carrying ext.
func (a *ProjectAdapter) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Exists reports whether a regular file exists at path.
func (a *ProjectAdapter) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to check %s", path)
	}
	return info.Mode().IsRegular(), nil
}

// ProbeDirectory gathers writability facts for dir. When dir is missing the
// nearest existing ancestor is probed instead.
func (a *ProjectAdapter) ProbeDirectory(ctx context.Context, dir string) (preflight.DirectoryContext, error) {
	dir = filepath.Clean(dir)
	probe := preflight.DirectoryContext{Dir: dir}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		probe.Exists = true
		probe.IsDir = info.IsDir()
		probe.Writable = probe.IsDir && writable(dir)
		return probe, nil
	case !os.IsNotExist(err):
		// Unreadable parents make dir unusable just like a read-only one.
		probe.Exists = true
		probe.IsDir = true
		return probe, nil
	}

	for parent := filepath.Dir(dir); ; parent = filepath.Dir(parent) {
		info, err := os.Stat(parent)
		if err == nil {
			probe.Ancestor = parent
			probe.AncestorDir = info.IsDir()
			probe.AncestorWritable = probe.AncestorDir && writable(parent)
			return probe, nil
		}
		if !os.IsNotExist(err) {
			probe.Ancestor = parent
			return probe, nil
		}
		if parent == filepath.Dir(parent) {
			return probe, nil
		}
	}
}

// MkdirAll creates dir and any missing parents.
func (a *ProjectAdapter) MkdirAll(ctx context.Context, dir string, perm uint32) error {
	if err := os.MkdirAll(dir, os.FileMode(perm)); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	return nil
}

// WriteFile writes content to a temporary file next to path and renames it
// into place, so readers never observe a partially written artifact.
func (a *ProjectAdapter) WriteFile(ctx context.Context, path string, content []byte, perm uint32) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Chmod(os.FileMode(perm)); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to set mode on %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	committed = true
	return nil
}

// Ensure ProjectAdapter implements the interface
var _ secondary.ProjectFS = (*ProjectAdapter)(nil)
