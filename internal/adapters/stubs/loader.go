// Package stubs loads templates from the project's override directory,
// falling back to the stubs embedded in the binary.
package stubs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
	"github.com/example/stubgen/internal/templates"
)

// Loader implements secondary.TemplateSource. Loaded text is cached per
// identifier for the loader's lifetime.
type Loader struct {
	overrideDir string

	mu    sync.Mutex
	cache map[string]string
}

// NewLoader creates a loader that searches overrideDir first.
// An empty overrideDir disables overrides.
func NewLoader(overrideDir string) *Loader {
	return &Loader{
		overrideDir: overrideDir,
		cache:       make(map[string]string),
	}
}

// Load returns the text of template id.
func (l *Loader) Load(ctx context.Context, id string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if text, ok := l.cache[id]; ok {
		return text, nil
	}

	loc, err := l.locate(id)
	if err != nil {
		return "", err
	}

	var text string
	if loc.Origin == secondary.TemplateOriginOverride {
		content, err := os.ReadFile(loc.Path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read stub %s", loc.Path)
		}
		text = string(content)
	} else {
		text, err = templates.GetStub(id)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read embedded stub %s", id)
		}
	}

	logger.Debugw("loaded stub", "id", id, "origin", loc.Origin, "path", loc.Path)
	l.cache[id] = text
	return text, nil
}

// Locate reports where template id resolves from.
func (l *Loader) Locate(ctx context.Context, id string) (*secondary.TemplateLocation, error) {
	return l.locate(id)
}

func (l *Loader) locate(id string) (*secondary.TemplateLocation, error) {
	if path := l.overridePath(id); path != "" {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return &secondary.TemplateLocation{ID: id, Origin: secondary.TemplateOriginOverride, Path: path}, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to check stub %s", path)
		}
	}
	if templates.HasStub(id) {
		return &secondary.TemplateLocation{ID: id, Origin: secondary.TemplateOriginEmbedded}, nil
	}
	return nil, &scaffold.TemplateNotFoundError{ID: id}
}

func (l *Loader) overridePath(id string) string {
	if l.overrideDir == "" {
		return ""
	}
	return filepath.Join(l.overrideDir, id+templates.Extension)
}

// Defaults returns the identifiers of the embedded stubs.
func (l *Loader) Defaults() ([]string, error) {
	return templates.StubIDs()
}

// Default returns the embedded text of stub id.
func (l *Loader) Default(id string) (string, error) {
	if !templates.HasStub(id) {
		return "", &scaffold.TemplateNotFoundError{ID: id}
	}
	return templates.GetStub(id)
}

// OverrideDir returns the directory searched before the embedded stubs.
func (l *Loader) OverrideDir() string {
	return l.overrideDir
}

// Ensure Loader implements the interface
var _ secondary.TemplateSource = (*Loader)(nil)
