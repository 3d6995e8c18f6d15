package filesystem

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 300 * time.Millisecond

// ModelWatcher implements secondary.ModelWatcher with fsnotify.
type ModelWatcher struct {
	debounce time.Duration
}

// NewModelWatcher creates a watcher that waits debounce after the last
// event before reporting.
func NewModelWatcher(debounce time.Duration) *ModelWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ModelWatcher{debounce: debounce}
}

// Watch reports created model files until ctx is cancelled. onCreate runs
// on the calling goroutine, so invocations never overlap.
func (w *ModelWatcher) Watch(ctx context.Context, dir, ext string, onCreate func(ctx context.Context, entities []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return &scaffold.DiscoveryError{Dir: dir, Err: err}
	}
	logger.Infow("watching models directory", "dir", dir)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			name, ok := entityName(event.Name, ext)
			if !ok {
				continue
			}
			logger.Debugw("model file created", "file", event.Name)
			pending[name] = true

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			sort.Strings(names)
			pending = make(map[string]bool)
			onCreate(ctx, names)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("model watcher error", "error", err)
		}
	}
}

func entityName(path, ext string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ext) {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	return name, scaffold.IsValidEntityName(name)
}

// Ensure ModelWatcher implements the interface
var _ secondary.ModelWatcher = (*ModelWatcher)(nil)
