package app

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/example/stubgen/internal/core/effects"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
	"github.com/example/stubgen/internal/templates"
)

// StubServiceImpl implements the StubService interface.
type StubServiceImpl struct {
	templates secondary.TemplateSource
	fs        secondary.ProjectFS
	executor  EffectExecutor
}

// NewStubService creates a new StubService with injected dependencies.
func NewStubService(templates secondary.TemplateSource, fs secondary.ProjectFS, executor EffectExecutor) *StubServiceImpl {
	return &StubServiceImpl{
		templates: templates,
		fs:        fs,
		executor:  executor,
	}
}

// ListStubs lists every template the generator uses plus any other
// built-in, with where each resolves from.
func (s *StubServiceImpl) ListStubs(ctx context.Context) ([]*primary.StubInfo, error) {
	ids, err := s.templates.Defaults()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, id := range append(ids, scaffold.TemplateIDs...) {
		seen[id] = true
	}
	all := make([]string, 0, len(seen))
	for id := range seen {
		all = append(all, id)
	}
	sort.Strings(all)

	var stubs []*primary.StubInfo
	for _, id := range all {
		loc, err := s.templates.Locate(ctx, id)
		if err != nil {
			var notFound *scaffold.TemplateNotFoundError
			if errors.As(err, &notFound) {
				stubs = append(stubs, &primary.StubInfo{ID: id, Origin: "missing"})
				continue
			}
			return nil, err
		}
		stubs = append(stubs, &primary.StubInfo{ID: loc.ID, Origin: loc.Origin, Path: loc.Path})
	}
	return stubs, nil
}

// PublishStubs copies the built-in templates into the override directory.
// Existing files are kept unless req.Force is set.
func (s *StubServiceImpl) PublishStubs(ctx context.Context, req primary.PublishStubsRequest) (*primary.PublishStubsResponse, error) {
	dir := s.templates.OverrideDir()
	if dir == "" {
		return nil, errors.WithHint(
			errors.New("no stubs directory configured"),
			"set stubs_directory in your stubgen configuration",
		)
	}

	ids, err := s.templates.Defaults()
	if err != nil {
		return nil, err
	}

	resp := &primary.PublishStubsResponse{Dir: dir}
	plan := []effects.Effect{effects.Mkdir(dir)}
	for _, id := range ids {
		path := filepath.Join(dir, id+templates.Extension)
		exists, err := s.fs.Exists(ctx, path)
		if err != nil {
			return nil, err
		}
		if exists && !req.Force {
			resp.Skipped = append(resp.Skipped, path)
			continue
		}

		text, err := s.templates.Default(id)
		if err != nil {
			return nil, err
		}
		plan = append(plan, effects.Write(path, text))
		resp.Written = append(resp.Written, path)
	}

	if err := s.executor.Execute(ctx, plan); err != nil {
		return nil, errors.Wrap(err, "failed to publish stubs")
	}
	return resp, nil
}

// Ensure StubServiceImpl implements the interface
var _ primary.StubService = (*StubServiceImpl)(nil)
