package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/stubgen/internal/adapters/stubs"
	"github.com/example/stubgen/internal/core/overwrite"
	apperrors "github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
)

// ============================================================================
// Test Helper
// ============================================================================

type scaffoldHarness struct {
	service   *ScaffoldServiceImpl
	fs        *mockProjectFS
	templates *mockTemplateSource
	resolver  *mockClassResolver
	prompter  *mockPrompter
	history   *mockHistoryRepository
	watcher   *mockModelWatcher
}

const (
	modelsDir       = testRoot + "/app/Models"
	contractsDir    = testRoot + "/app/Contracts"
	policiesDir     = testRoot + "/app/Policies"
	resourcesDir    = testRoot + "/app/Http/Resources"
	repositoriesDir = testRoot + "/app/Repositories"
)

func newScaffoldHarness(t *testing.T, models ...string) *scaffoldHarness {
	t.Helper()
	h := &scaffoldHarness{
		fs:        newMockProjectFS(),
		templates: newMockTemplateSource(),
		resolver:  &mockClassResolver{known: map[string]string{`App\Models\User`: modelsDir + "/User.php"}},
		prompter:  &mockPrompter{},
		history:   newMockHistoryRepository(),
		watcher:   &mockModelWatcher{},
	}
	h.fs.mkdirs(modelsDir)
	for _, m := range models {
		h.fs.put(modelsDir+"/"+m+".php", "<?php class "+m+" {}")
	}
	h.service = NewScaffoldService(testConfig(t), h.fs, h.templates, h.resolver, h.prompter,
		h.history, h.watcher, NewEffectExecutor(h.fs))
	return h
}

func (h *scaffoldHarness) generate(t *testing.T, req primary.GenerateRequest) *primary.GenerateResponse {
	t.Helper()
	resp, err := h.service.Generate(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func kindReport(t *testing.T, resp *primary.GenerateResponse, kind scaffold.ArtifactKind) *primary.KindReport {
	t.Helper()
	for _, k := range resp.Kinds {
		if k.Kind == kind {
			return k
		}
	}
	t.Fatalf("no report for kind %s", kind)
	return nil
}

func outcomes(report *primary.KindReport) map[string]overwrite.Outcome {
	out := make(map[string]overwrite.Outcome)
	for _, f := range report.Files {
		out[f.Entity] = f.Outcome
	}
	return out
}

var allKinds = primary.GenerateRequest{Contracts: true, Policies: true, Resources: true, Mode: overwrite.ModeAsk}

// ============================================================================
// Generate Tests
// ============================================================================

func TestGenerate_CreatesEveryKindInOrder(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order")

	resp := h.generate(t, allKinds)

	assert.False(t, resp.Failed())
	assert.Equal(t, []string{"Order", "User"}, resp.Entities)
	require.Len(t, resp.Kinds, 4)
	assert.Equal(t, scaffold.KindContract, resp.Kinds[0].Kind)
	assert.Equal(t, scaffold.KindPolicy, resp.Kinds[1].Kind)
	assert.Equal(t, scaffold.KindResource, resp.Kinds[2].Kind)
	assert.Equal(t, scaffold.KindRepository, resp.Kinds[3].Kind)
	assert.Equal(t, 8, resp.Count(overwrite.OutcomeCreated))
	assert.Empty(t, h.prompter.questions, "nothing existed, nothing to confirm")

	assert.Equal(t, "interface UserRepository extends RepositoryInterface {} use Lab2view\\Generator\\RepositoryInterface;",
		h.fs.files[contractsDir+"/UserRepository.php"])
	assert.Equal(t, "class UserResource in App\\Http\\Resources", h.fs.files[resourcesDir+"/UserResource.php"])
	assert.Equal(t, "use App\\Contracts\\UserRepository;|class UserRepositoryEloquent implements UserRepository",
		h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"])

	for id, n := range h.templates.loads {
		assert.Equal(t, 1, n, "template %s loaded more than once", id)
	}
}

func TestGenerate_RepositoriesAlwaysRun(t *testing.T) {
	h := newScaffoldHarness(t, "User")

	resp := h.generate(t, primary.GenerateRequest{})

	require.Len(t, resp.Kinds, 1)
	assert.Equal(t, scaffold.KindRepository, resp.Kinds[0].Kind)
	assert.Equal(t, scaffold.TemplateRepository, resp.Kinds[0].TemplateID)
	assert.Equal(t, "class UserRepository extends BaseRepository", h.fs.files[repositoriesDir+"/UserRepository.php"])
}

func TestGenerate_IdempotentWhenOverwriteDeclined(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order")
	h.generate(t, allKinds)

	before := make(map[string]string, len(h.fs.files))
	for p, c := range h.fs.files {
		before[p] = c
	}
	writes := len(h.fs.writes)

	h.prompter.answers = []bool{false, false, false, false}
	resp := h.generate(t, allKinds)

	assert.Equal(t, 0, resp.Count(overwrite.OutcomeCreated))
	assert.Equal(t, 0, resp.Count(overwrite.OutcomeOverridden))
	assert.Equal(t, 8, resp.Count(overwrite.OutcomeSkipped))
	assert.Equal(t, writes, len(h.fs.writes), "declined run must not write")
	assert.Equal(t, before, h.fs.files)
	assert.Len(t, h.prompter.questions, 4, "one question per kind")
}

func TestGenerate_OverwriteGateIsPerKind(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order")
	h.fs.put(policiesDir+"/UserPolicy.php", "old policy")
	h.fs.put(resourcesDir+"/UserResource.php", "old resource")
	h.prompter.answers = []bool{true, false}

	resp := h.generate(t, primary.GenerateRequest{Policies: true, Resources: true, Mode: overwrite.ModeAsk})

	assert.Equal(t, []string{
		"Do you want to overwrite the existing policies?",
		"Do you want to overwrite the existing resources?",
	}, h.prompter.questions)

	policies := kindReport(t, resp, scaffold.KindPolicy)
	assert.True(t, policies.Prompted)
	assert.Equal(t, map[string]overwrite.Outcome{"User": overwrite.OutcomeOverridden, "Order": overwrite.OutcomeCreated}, outcomes(policies))

	resources := kindReport(t, resp, scaffold.KindResource)
	assert.Equal(t, map[string]overwrite.Outcome{"User": overwrite.OutcomeSkipped, "Order": overwrite.OutcomeCreated}, outcomes(resources))
	assert.Equal(t, "old resource", h.fs.files[resourcesDir+"/UserResource.php"])
	assert.NotEqual(t, "old policy", h.fs.files[policiesDir+"/UserPolicy.php"])

	repositories := kindReport(t, resp, scaffold.KindRepository)
	assert.False(t, repositories.Prompted)
}

func TestGenerate_BaseFileIsNotAnOverwriteCandidate(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.fs.put(repositoriesDir+"/BaseRepository.php", "abstract class BaseRepository {}")

	resp := h.generate(t, primary.GenerateRequest{Mode: overwrite.ModeAsk})

	assert.Empty(t, h.prompter.questions)
	assert.Equal(t, 1, resp.Count(overwrite.OutcomeCreated))
	assert.Equal(t, "abstract class BaseRepository {}", h.fs.files[repositoriesDir+"/BaseRepository.php"])
}

func TestGenerate_SharedDirectoryOnlyAsksAboutOwnKind(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.service.cfg.ContractsDirectory = h.service.cfg.RepositoriesDirectory
	h.fs.put(repositoriesDir+"/BaseRepository.php", "abstract class BaseRepository {}")
	h.fs.put(repositoriesDir+"/UserRepositoryEloquent.php", "old eloquent")
	h.prompter.answers = []bool{false}

	resp := h.generate(t, primary.GenerateRequest{Contracts: true, Mode: overwrite.ModeAsk})

	assert.Equal(t, []string{"Do you want to overwrite the existing repositories?"}, h.prompter.questions)

	contracts := kindReport(t, resp, scaffold.KindContract)
	assert.False(t, contracts.Prompted)
	assert.Equal(t, map[string]overwrite.Outcome{"User": overwrite.OutcomeCreated}, outcomes(contracts))

	repositories := kindReport(t, resp, scaffold.KindRepository)
	assert.True(t, repositories.Prompted)
	assert.Equal(t, map[string]overwrite.Outcome{"User": overwrite.OutcomeSkipped}, outcomes(repositories))
	assert.Equal(t, "old eloquent", h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"])
}

func TestGenerate_NonInteractiveModes(t *testing.T) {
	tests := []struct {
		mode overwrite.Mode
		want overwrite.Outcome
	}{
		{overwrite.ModeAlways, overwrite.OutcomeOverridden},
		{overwrite.ModeNever, overwrite.OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newScaffoldHarness(t, "User")
			h.fs.put(repositoriesDir+"/UserRepository.php", "old")

			resp := h.generate(t, primary.GenerateRequest{Mode: tt.mode})

			assert.Empty(t, h.prompter.questions)
			assert.Equal(t, tt.want, resp.Kinds[0].Files[0].Outcome)
		})
	}
}

func TestGenerate_InvalidMode(t *testing.T) {
	h := newScaffoldHarness(t, "User")

	_, err := h.service.Generate(context.Background(), primary.GenerateRequest{Mode: "sometimes"})
	assert.Error(t, err)
}

func TestGenerate_MissingModelsDirectoryWritesNothing(t *testing.T) {
	h := newScaffoldHarness(t)
	delete(h.fs.dirs, modelsDir)

	resp, err := h.service.Generate(context.Background(), allKinds)

	require.Error(t, err)
	assert.Nil(t, resp)
	var discovery *scaffold.DiscoveryError
	assert.True(t, errors.As(err, &discovery))
	assert.Equal(t, modelsDir, discovery.Dir)
	assert.Empty(t, h.fs.writes)
	assert.Empty(t, h.history.runs)
	assert.False(t, h.fs.dirs[policiesDir])
}

func TestGenerate_EmptyModelsDirectoryWarns(t *testing.T) {
	h := newScaffoldHarness(t)

	resp := h.generate(t, primary.GenerateRequest{Policies: true})

	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "no models found")
	assert.False(t, resp.Failed())
	assert.Empty(t, h.fs.writes)
}

func TestGenerate_ContractImport(t *testing.T) {
	t.Run("without contracts uses plain repositories", func(t *testing.T) {
		h := newScaffoldHarness(t, "User")
		h.fs.put(contractsDir+"/UserRepository.php", "interface")

		resp := h.generate(t, primary.GenerateRequest{})

		assert.Equal(t, "UserRepository", resp.Kinds[0].Files[0].ClassName)
		assert.NotContains(t, h.fs.files[repositoriesDir+"/UserRepository.php"], "use ")
		_, eloquent := h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"]
		assert.False(t, eloquent)
	})

	t.Run("with contracts imports only confirmed contracts", func(t *testing.T) {
		h := newScaffoldHarness(t, "User", "Order")
		h.fs.put(contractsDir+"/UserRepository.php", "interface")
		delete(h.templates.stubs, scaffold.TemplateContract)

		resp := h.generate(t, primary.GenerateRequest{Contracts: true})

		contracts := kindReport(t, resp, scaffold.KindContract)
		var notFound *scaffold.TemplateNotFoundError
		require.True(t, errors.As(contracts.Err, &notFound))

		// The failed contract kind does not stop repositories.
		assert.Equal(t, "use App\\Contracts\\UserRepository;|class UserRepositoryEloquent implements UserRepository",
			h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"])
		assert.Equal(t, "|class OrderRepositoryEloquent implements OrderRepository",
			h.fs.files[repositoriesDir+"/OrderRepositoryEloquent.php"])
		assert.True(t, resp.Failed())
	})

	t.Run("contracts beside repositories need no import", func(t *testing.T) {
		h := newScaffoldHarness(t, "User")
		h.service.cfg.ContractsDirectory = h.service.cfg.RepositoriesDirectory

		h.generate(t, primary.GenerateRequest{Contracts: true, Mode: overwrite.ModeAlways})

		assert.Equal(t, "|class UserRepositoryEloquent implements UserRepository",
			h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"])
	})
}

func TestGenerate_PrincipalResolution(t *testing.T) {
	t.Run("resolved once per run", func(t *testing.T) {
		h := newScaffoldHarness(t, "User", "Order")

		h.generate(t, primary.GenerateRequest{Policies: true})

		assert.Equal(t, 1, h.resolver.calls)
		assert.Equal(t, "use App\\Models\\User;|OrderPolicy|order", h.fs.files[policiesDir+"/OrderPolicy.php"])
	})

	t.Run("unresolved principal still generates", func(t *testing.T) {
		h := newScaffoldHarness(t, "Order")
		h.resolver.known = nil

		resp := h.generate(t, primary.GenerateRequest{Policies: true})

		assert.False(t, resp.Failed())
		assert.Equal(t, "|OrderPolicy|order", h.fs.files[policiesDir+"/OrderPolicy.php"])
	})

	t.Run("skipped without policies", func(t *testing.T) {
		h := newScaffoldHarness(t, "User")
		h.generate(t, primary.GenerateRequest{Resources: true})
		assert.Equal(t, 0, h.resolver.calls)
	})
}

func TestGenerate_PermissionFailureAbortsOnlyThatKind(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.fs.mkdirs(policiesDir)
	h.fs.readOnly[policiesDir] = true

	resp := h.generate(t, primary.GenerateRequest{Policies: true})

	policies := kindReport(t, resp, scaffold.KindPolicy)
	var permErr *scaffold.PermissionError
	require.True(t, errors.As(policies.Err, &permErr))
	assert.Equal(t, policiesDir, permErr.Path)
	assert.Empty(t, policies.Files)
	for _, w := range h.fs.writes {
		assert.False(t, strings.HasPrefix(w, policiesDir), "unexpected write %s", w)
	}

	repositories := kindReport(t, resp, scaffold.KindRepository)
	assert.NoError(t, repositories.Err)
	assert.Equal(t, 1, len(repositories.Files))

	run := h.history.runs[resp.RunID]
	assert.Equal(t, secondary.RunStatusFailed, run.Status)
	assert.Equal(t, "policy", run.FailedKinds)
}

func TestGenerate_MissingDirectoryCheckedAgainstAncestor(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.fs.readOnly[testRoot+"/app"] = true

	resp := h.generate(t, primary.GenerateRequest{Resources: true})

	resources := kindReport(t, resp, scaffold.KindResource)
	var permErr *scaffold.PermissionError
	require.True(t, errors.As(resources.Err, &permErr))
	assert.Equal(t, testRoot+"/app", permErr.Path)
	assert.False(t, h.fs.dirs[resourcesDir], "directory created despite failed preflight")
}

func TestGenerate_MissingPlaceholderWritesNothingForKind(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order")
	h.templates.stubs[scaffold.TemplateResource] = "class {{ class }} uses {{ table_name }}"

	resp := h.generate(t, primary.GenerateRequest{Resources: true})

	resources := kindReport(t, resp, scaffold.KindResource)
	var missing *scaffold.MissingPlaceholderError
	require.True(t, errors.As(resources.Err, &missing))
	assert.Equal(t, []string{"{{ table_name }}"}, missing.Tokens)
	assert.False(t, h.fs.dirs[resourcesDir])
	assert.NoError(t, kindReport(t, resp, scaffold.KindRepository).Err)
}

func TestGenerate_MisspacedPlaceholderGetsHint(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.templates.stubs[scaffold.TemplateResource] = "class {{class}} in {{ namespace }}"

	resp := h.generate(t, primary.GenerateRequest{Resources: true})

	resources := kindReport(t, resp, scaffold.KindResource)
	var missing *scaffold.MissingPlaceholderError
	require.True(t, errors.As(resources.Err, &missing))
	assert.Equal(t, []string{"{{class}}"}, missing.Misspaced)

	hints := apperrors.GetAllHints(resources.Err)
	require.Len(t, hints, 1)
	assert.Contains(t, hints[0], "write {{class}} as {{ class }}")
}

func TestGenerate_DryRun(t *testing.T) {
	h := newScaffoldHarness(t, "User")

	resp := h.generate(t, primary.GenerateRequest{Contracts: true, DryRun: true})

	assert.True(t, resp.DryRun)
	assert.Empty(t, resp.RunID)
	assert.Empty(t, h.fs.writes)
	assert.Empty(t, h.history.runs)

	repositories := kindReport(t, resp, scaffold.KindRepository)
	// The contract planned earlier in the run counts as present.
	assert.Equal(t, "use App\\Contracts\\UserRepository;|class UserRepositoryEloquent implements UserRepository",
		repositories.Files[0].Content)
}

func TestGenerate_Only(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order", "Invoice")

	resp := h.generate(t, primary.GenerateRequest{Only: []string{"Invoice"}})

	assert.Equal(t, []string{"Invoice"}, resp.Entities)
	require.Len(t, resp.Kinds[0].Files, 1)
	assert.Equal(t, "InvoiceRepository", resp.Kinds[0].Files[0].ClassName)
}

func TestGenerate_RecordsHistory(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.fs.put(policiesDir+"/UserPolicy.php", "old")

	resp := h.generate(t, primary.GenerateRequest{Policies: true, Mode: overwrite.ModeNever})

	require.Equal(t, "RUN-001", resp.RunID)
	run := h.history.runs["RUN-001"]
	assert.Equal(t, secondary.RunStatusCompleted, run.Status)
	assert.Equal(t, "policy,repository", run.Kinds)
	assert.Equal(t, "never", run.Mode)
	assert.Equal(t, testRoot, run.Root)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 1, run.Skipped)

	files := h.history.files["RUN-001"]
	require.Len(t, files, 2)
	assert.Equal(t, "UserPolicy", files[0].ClassName)
	assert.Equal(t, "skipped", files[0].Outcome)
	assert.Equal(t, "created", files[1].Outcome)
}

func TestGenerate_HistoryFailureIsNotFatal(t *testing.T) {
	h := newScaffoldHarness(t, "User")
	h.history.createErr = errors.New("database is locked")

	resp := h.generate(t, primary.GenerateRequest{})

	assert.Empty(t, resp.RunID)
	assert.Equal(t, 1, resp.Count(overwrite.OutcomeCreated))
}

func TestGenerate_HistoryDisabled(t *testing.T) {
	fs := newMockProjectFS()
	fs.put(modelsDir+"/User.php", "")
	svc := NewScaffoldService(testConfig(t), fs, newMockTemplateSource(), &mockClassResolver{},
		&mockPrompter{}, nil, nil, NewEffectExecutor(fs))

	resp, err := svc.Generate(context.Background(), primary.GenerateRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.RunID)
}

func TestGenerate_EmbeddedStubsRenderCompletely(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Order")
	h.service.templates = stubs.NewLoader("")

	resp := h.generate(t, allKinds)
	require.False(t, resp.Failed())

	for path, content := range h.fs.files {
		if strings.HasPrefix(path, modelsDir) {
			continue
		}
		assert.NotContains(t, content, "{{", "unrendered placeholder in %s", path)
		assert.NotContains(t, content, "}}", "unrendered placeholder in %s", path)
	}

	policy := h.fs.files[policiesDir+"/OrderPolicy.php"]
	assert.Contains(t, policy, "class OrderPolicy extends BasePolicy")
	assert.Contains(t, policy, "Order $order")
	assert.Contains(t, policy, "use App\\Models\\User;")
	assert.NotContains(t, policy, "$orderVariable")

	repository := h.fs.files[repositoriesDir+"/UserRepositoryEloquent.php"]
	assert.Contains(t, repository, "use App\\Contracts\\UserRepository;")
	assert.Contains(t, repository, "namespace App\\Repositories;")
}

// ============================================================================
// Watch Tests
// ============================================================================

func TestWatch_GeneratesOnlyNewEntitiesWithoutOverwriting(t *testing.T) {
	h := newScaffoldHarness(t, "User", "Invoice")
	h.fs.put(repositoriesDir+"/UserRepository.php", "old")
	h.watcher.batches = [][]string{{"Invoice"}}

	var runs []*primary.GenerateResponse
	err := h.service.Watch(context.Background(), primary.WatchRequest{
		Generate: primary.GenerateRequest{Mode: overwrite.ModeAlways},
		OnRun: func(resp *primary.GenerateResponse, err error) {
			require.NoError(t, err)
			runs = append(runs, resp)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, modelsDir, h.watcher.dir)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"Invoice"}, runs[0].Entities)
	assert.Equal(t, "old", h.fs.files[repositoriesDir+"/UserRepository.php"])
	assert.Contains(t, h.fs.files, repositoriesDir+"/InvoiceRepository.php")
	assert.Equal(t, "never", h.history.runs[runs[0].RunID].Mode)
}

func TestWatch_RequiresWatcher(t *testing.T) {
	fs := newMockProjectFS()
	svc := NewScaffoldService(testConfig(t), fs, newMockTemplateSource(), &mockClassResolver{},
		&mockPrompter{}, nil, nil, NewEffectExecutor(fs))

	assert.Error(t, svc.Watch(context.Background(), primary.WatchRequest{}))
}
