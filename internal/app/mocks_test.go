package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/core/effects"
	"github.com/example/stubgen/internal/core/preflight"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
)

const testRoot = "/project"

// testConfig returns the default configuration rooted at testRoot.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.LoadWithViper(v)
	require.NoError(t, err)
	cfg.Root = testRoot
	return cfg
}

// ============================================================================
// mockProjectFS
// ============================================================================

// mockProjectFS is an in-memory project tree.
type mockProjectFS struct {
	files    map[string]string
	dirs     map[string]bool
	readOnly map[string]bool
	writes   []string
}

func newMockProjectFS() *mockProjectFS {
	return &mockProjectFS{
		files:    make(map[string]string),
		dirs:     map[string]bool{"/": true},
		readOnly: make(map[string]bool),
	}
}

func (m *mockProjectFS) mkdirs(dir string) {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		m.dirs[d] = true
		if d == filepath.Dir(d) {
			return
		}
	}
}

// put seeds a file without counting it as a write.
func (m *mockProjectFS) put(path, content string) {
	m.mkdirs(filepath.Dir(path))
	m.files[filepath.Clean(path)] = content
}

func (m *mockProjectFS) children(dir, ext string) []string {
	dir = filepath.Clean(dir)
	var out []string
	for p := range m.files {
		if filepath.Dir(p) == dir && strings.HasSuffix(p, ext) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (m *mockProjectFS) ListEntities(ctx context.Context, dir, ext string) ([]string, error) {
	if !m.dirs[filepath.Clean(dir)] {
		return nil, &scaffold.DiscoveryError{Dir: dir, Err: errors.New("no such file or directory")}
	}
	var names []string
	for _, p := range m.children(dir, ext) {
		names = append(names, strings.TrimSuffix(filepath.Base(p), ext))
	}
	return names, nil
}

func (m *mockProjectFS) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	return m.children(dir, ext), nil
}

func (m *mockProjectFS) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}

func (m *mockProjectFS) ProbeDirectory(ctx context.Context, dir string) (preflight.DirectoryContext, error) {
	dir = filepath.Clean(dir)
	probe := preflight.DirectoryContext{Dir: dir}
	if m.dirs[dir] {
		probe.Exists = true
		probe.IsDir = true
		probe.Writable = !m.readOnly[dir]
		return probe, nil
	}
	for parent := filepath.Dir(dir); ; parent = filepath.Dir(parent) {
		if m.dirs[parent] {
			probe.Ancestor = parent
			probe.AncestorDir = true
			probe.AncestorWritable = !m.readOnly[parent]
			return probe, nil
		}
		if parent == filepath.Dir(parent) {
			return probe, nil
		}
	}
}

func (m *mockProjectFS) MkdirAll(ctx context.Context, dir string, perm uint32) error {
	m.mkdirs(dir)
	return nil
}

func (m *mockProjectFS) WriteFile(ctx context.Context, path string, content []byte, perm uint32) error {
	path = filepath.Clean(path)
	if !m.dirs[filepath.Dir(path)] {
		return fmt.Errorf("no such directory: %s", filepath.Dir(path))
	}
	m.files[path] = string(content)
	m.writes = append(m.writes, path)
	return nil
}

// ============================================================================
// mockTemplateSource
// ============================================================================

type mockTemplateSource struct {
	stubs       map[string]string
	overrideDir string
	loads       map[string]int
}

func newMockTemplateSource() *mockTemplateSource {
	return &mockTemplateSource{
		stubs: map[string]string{
			scaffold.TemplateContract:           "interface {{ contract }} extends {{ base_contract }} {} {{ use_statement_for_contract }}",
			scaffold.TemplatePolicy:             "{{ use_statement_for_user_model }}|{{ policy }}|{{ modelVariable }}",
			scaffold.TemplateResource:           "class {{ class }} in {{ namespace }}",
			scaffold.TemplateRepository:         "class {{ repository }} extends {{ base_repository }}",
			scaffold.TemplateRepositoryEloquent: "{{ use_statement_for_contract }}|class {{ repository }} implements {{ contract }}",
		},
		overrideDir: testRoot + "/stubs/stubgen",
		loads:       make(map[string]int),
	}
}

func (m *mockTemplateSource) Load(ctx context.Context, id string) (string, error) {
	m.loads[id]++
	text, ok := m.stubs[id]
	if !ok {
		return "", &scaffold.TemplateNotFoundError{ID: id}
	}
	return text, nil
}

func (m *mockTemplateSource) Locate(ctx context.Context, id string) (*secondary.TemplateLocation, error) {
	if _, ok := m.stubs[id]; !ok {
		return nil, &scaffold.TemplateNotFoundError{ID: id}
	}
	return &secondary.TemplateLocation{ID: id, Origin: secondary.TemplateOriginEmbedded}, nil
}

func (m *mockTemplateSource) Defaults() ([]string, error) {
	var ids []string
	for id := range m.stubs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockTemplateSource) Default(id string) (string, error) {
	text, ok := m.stubs[id]
	if !ok {
		return "", &scaffold.TemplateNotFoundError{ID: id}
	}
	return text, nil
}

func (m *mockTemplateSource) OverrideDir() string { return m.overrideDir }

// ============================================================================
// mockClassResolver / mockPrompter / mockEffectExecutor
// ============================================================================

type mockClassResolver struct {
	known map[string]string
	calls int
}

func (m *mockClassResolver) Resolve(ctx context.Context, fqcn string) (string, bool, error) {
	m.calls++
	path, ok := m.known[fqcn]
	return path, ok, nil
}

// mockPrompter answers questions in order; unanswered questions get "no".
type mockPrompter struct {
	answers   []bool
	questions []string
}

func (m *mockPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	m.questions = append(m.questions, question)
	if len(m.answers) == 0 {
		return false, nil
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer, nil
}

type mockEffectExecutor struct {
	executedEffects []effects.Effect
	executeErr      error
}

func newMockEffectExecutor() *mockEffectExecutor {
	return &mockEffectExecutor{
		executedEffects: []effects.Effect{},
	}
}

func (m *mockEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	if m.executeErr != nil {
		return m.executeErr
	}
	m.executedEffects = append(m.executedEffects, effs...)
	return nil
}

// ============================================================================
// mockHistoryRepository
// ============================================================================

type mockHistoryRepository struct {
	runs      map[string]*secondary.RunRecord
	files     map[string][]*secondary.RunFileRecord
	order     []string
	createErr error
}

func newMockHistoryRepository() *mockHistoryRepository {
	return &mockHistoryRepository{
		runs:  make(map[string]*secondary.RunRecord),
		files: make(map[string][]*secondary.RunFileRecord),
	}
}

func (m *mockHistoryRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("RUN-%03d", len(m.runs)+1), nil
}

func (m *mockHistoryRepository) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *run
	m.runs[run.ID] = &copied
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockHistoryRepository) FinishRun(ctx context.Context, run *secondary.RunRecord) error {
	if _, ok := m.runs[run.ID]; !ok {
		return fmt.Errorf("run %s not found", run.ID)
	}
	copied := *run
	copied.FinishedAt = "2026-10-16T10:00:00Z"
	m.runs[run.ID] = &copied
	return nil
}

func (m *mockHistoryRepository) AddFiles(ctx context.Context, runID string, files []*secondary.RunFileRecord) error {
	m.files[runID] = append(m.files[runID], files...)
	return nil
}

func (m *mockHistoryRepository) GetRun(ctx context.Context, id string) (*secondary.RunRecord, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return run, nil
}

func (m *mockHistoryRepository) ListRuns(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	var out []*secondary.RunRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.runs[m.order[i]])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockHistoryRepository) ListFiles(ctx context.Context, runID string) ([]*secondary.RunFileRecord, error) {
	return m.files[runID], nil
}

// ============================================================================
// mockModelWatcher
// ============================================================================

type mockModelWatcher struct {
	batches [][]string
	dir     string
}

func (m *mockModelWatcher) Watch(ctx context.Context, dir, ext string, onCreate func(ctx context.Context, entities []string)) error {
	m.dir = dir
	for _, b := range m.batches {
		onCreate(ctx, b)
	}
	return nil
}
