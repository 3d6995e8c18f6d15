package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/core/overwrite"
	"github.com/example/stubgen/internal/core/preflight"
	"github.com/example/stubgen/internal/core/stub"
	"github.com/example/stubgen/internal/ctxutil"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/ports/secondary"
	"github.com/example/stubgen/internal/scaffold"
)

// ScaffoldServiceImpl implements the ScaffoldService interface.
type ScaffoldServiceImpl struct {
	cfg       *config.Config
	fs        secondary.ProjectFS
	templates secondary.TemplateSource
	resolver  secondary.ClassResolver
	prompter  secondary.Prompter
	history   secondary.HistoryRepository // nil when history is disabled
	watcher   secondary.ModelWatcher
	executor  EffectExecutor
	generator *scaffold.Generator
}

// NewScaffoldService creates a new ScaffoldService with injected dependencies.
func NewScaffoldService(
	cfg *config.Config,
	fs secondary.ProjectFS,
	templates secondary.TemplateSource,
	resolver secondary.ClassResolver,
	prompter secondary.Prompter,
	history secondary.HistoryRepository,
	watcher secondary.ModelWatcher,
	executor EffectExecutor,
) *ScaffoldServiceImpl {
	return &ScaffoldServiceImpl{
		cfg:       cfg,
		fs:        fs,
		templates: templates,
		resolver:  resolver,
		prompter:  prompter,
		history:   history,
		watcher:   watcher,
		executor:  executor,
		generator: scaffold.NewGenerator(cfg),
	}
}

// runState carries the facts shared by every kind of one run.
type runState struct {
	req               primary.GenerateRequest
	mode              overwrite.Mode
	entities          []scaffold.Entity
	principalResolved bool
	// written holds paths planned for writing by earlier kinds of this run.
	written map[string]bool
}

// Generate discovers entities and runs every requested kind.
func (s *ScaffoldServiceImpl) Generate(ctx context.Context, req primary.GenerateRequest) (*primary.GenerateResponse, error) {
	mode, err := overwrite.ParseMode(string(req.Mode))
	if err != nil {
		return nil, err
	}

	// 1. Discover entities - fatal for the whole run
	entities, err := s.discover(ctx, req.Only)
	if err != nil {
		return nil, err
	}

	resp := &primary.GenerateResponse{DryRun: req.DryRun}
	for _, e := range entities {
		resp.Entities = append(resp.Entities, e.Name)
	}
	if len(entities) == 0 {
		modelsDir := s.cfg.Path(s.cfg.ModelsDirectory)
		logger.Warnw("no models found", "dir", modelsDir)
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("no models found in %s", modelsDir))
	}

	state := &runState{
		req:      req,
		mode:     mode,
		entities: entities,
		written:  make(map[string]bool),
	}

	// 2. Resolve the principal once per run
	if req.Policies {
		state.principalResolved = s.resolvePrincipal(ctx)
	}

	// 3. Open a history record
	record := s.startRun(ctx, req, mode)
	if record != nil {
		resp.RunID = record.ID
		ctx = ctxutil.WithRunID(ctx, record.ID)
	}

	// 4. Run kinds in order; a failed kind does not stop the others
	for _, kind := range req.Kinds() {
		report := s.runKind(ctx, state, kind)
		if report.Err != nil {
			logger.Errorw("kind failed", "run", ctxutil.RunIDFromContext(ctx), "kind", kind, "error", report.Err)
		}
		resp.Kinds = append(resp.Kinds, report)
	}

	// 5. Close the history record
	s.finishRun(ctx, record, resp)

	return resp, nil
}

func (s *ScaffoldServiceImpl) discover(ctx context.Context, only []string) ([]scaffold.Entity, error) {
	modelsDir := s.cfg.Path(s.cfg.ModelsDirectory)
	names, err := s.fs.ListEntities(ctx, modelsDir, s.cfg.SourceExtension)
	if err != nil {
		return nil, errors.WithHint(err, "check models_directory in your stubgen configuration")
	}

	var filter map[string]bool
	if len(only) > 0 {
		filter = make(map[string]bool, len(only))
		for _, n := range only {
			filter[n] = true
		}
	}

	namespace := scaffold.NormalizeNamespace(s.cfg.ModelsNamespace)
	var entities []scaffold.Entity
	for _, name := range names {
		if filter != nil && !filter[name] {
			continue
		}
		entities = append(entities, scaffold.Entity{
			Name:            name,
			SourceNamespace: namespace,
			SourcePath:      filepath.Join(modelsDir, name+s.cfg.SourceExtension),
		})
	}
	return entities, nil
}

// resolvePrincipal reports whether user_model_class maps to a source file.
// Failure is never fatal: policies simply omit the import.
func (s *ScaffoldServiceImpl) resolvePrincipal(ctx context.Context) bool {
	class := s.cfg.UserModelClass
	if class == "" {
		return false
	}
	path, ok, err := s.resolver.Resolve(ctx, class)
	if err != nil {
		logger.Warnw("failed to resolve user model", "class", class, "error", err)
		return false
	}
	if !ok {
		logger.Warnw("user model not found, policies will not import it", "class", class)
		return false
	}
	logger.Debugw("resolved user model", "class", class, "path", path)
	return true
}

func (s *ScaffoldServiceImpl) runKind(ctx context.Context, state *runState, kind scaffold.ArtifactKind) *primary.KindReport {
	spec := scaffold.SpecFor(kind, state.req.Contracts)
	layout := scaffold.LayoutFor(s.cfg, kind)
	report := &primary.KindReport{
		Kind:       kind,
		TemplateID: spec.TemplateID,
		Dir:        layout.Dir,
	}

	// 1. Permission preflight
	probe, err := s.fs.ProbeDirectory(ctx, layout.Dir)
	if err != nil {
		report.Err = errors.Wrapf(err, "failed to probe %s", layout.Dir)
		return report
	}
	if result := preflight.CanWriteDirectory(probe); !result.Allowed {
		report.Err = errors.WithHint(
			&scaffold.PermissionError{Kind: kind, Path: result.Path, Reason: result.Reason},
			"check the directory permissions or change "+string(kind)+" directory in your stubgen configuration",
		)
		return report
	}

	// 2. Load template
	text, err := s.templates.Load(ctx, spec.TemplateID)
	if err != nil {
		var notFound *scaffold.TemplateNotFoundError
		if errors.As(err, &notFound) {
			err = errors.WithHint(err, "run 'stubgen stubs list' to see available stubs")
		}
		report.Err = err
		return report
	}

	// 3. Scan existing outputs and settle the overwrite gate
	gate, prompted, err := s.openGate(ctx, state.mode, spec, layout)
	report.Prompted = prompted
	if err != nil {
		report.Err = err
		return report
	}

	// 4. Gather per-entity facts
	facts := s.bindingFacts(ctx, state, spec)

	// 5. Render
	result, err := s.generator.GenerateKind(scaffold.KindInput{
		Spec:     spec,
		Template: text,
		Entities: state.entities,
		Facts:    facts,
		Gate:     gate,
	})
	if err != nil {
		var missing *scaffold.MissingPlaceholderError
		if errors.As(err, &missing) && len(missing.Misspaced) > 0 {
			name, _ := stub.Name(missing.Misspaced[0])
			err = errors.WithHintf(err, "placeholders need one space inside the braces: write %s as %s",
				missing.Misspaced[0], stub.Token(name))
		}
		report.Err = err
		return report
	}

	// 6. Write
	if !state.req.DryRun {
		if err := s.executor.Execute(ctx, result.Effects()); err != nil {
			report.Err = errors.Wrapf(err, "failed to write %s files", kind)
			return report
		}
	}
	if err := gate.Finish(); err != nil {
		report.Err = err
		return report
	}

	for _, f := range result.Files {
		if f.Outcome.Writes() {
			state.written[filepath.Clean(f.Path)] = true
		}
		file := &primary.FileReport{
			Entity:    f.Entity,
			ClassName: f.ClassName,
			Path:      f.Path,
			Outcome:   f.Outcome,
		}
		if state.req.DryRun {
			file.Content = f.Content
		}
		report.Files = append(report.Files, file)
	}
	return report
}

// openGate scans kind's output directory and answers the overwrite question
// at most once.
func (s *ScaffoldServiceImpl) openGate(ctx context.Context, mode overwrite.Mode, spec scaffold.KindSpec, layout scaffold.Layout) (*overwrite.Gate, bool, error) {
	kind := spec.Kind
	files, err := s.fs.ListFiles(ctx, layout.Dir, s.cfg.SourceExtension)
	if err != nil {
		return nil, false, err
	}
	existing := scaffold.OverwriteCandidates(s.cfg, spec, files)

	gate := overwrite.NewGate()
	if err := gate.Scan(existing, layout.BasePath()); err != nil {
		return nil, false, err
	}
	if !gate.NeedsConfirmation() {
		return gate, false, nil
	}

	accept, ok := overwrite.AnswerFor(mode)
	prompted := false
	if !ok {
		prompted = true
		accept, err = s.prompter.Confirm(ctx, fmt.Sprintf("Do you want to overwrite the existing %s?", kind.Plural()))
		if err != nil {
			return nil, prompted, errors.Wrap(err, "failed to confirm overwrite")
		}
	}
	logger.Debugw("overwrite decision", "kind", kind, "existing", len(gate.Existing()), "accept", accept)

	if err := gate.Confirm(accept); err != nil {
		return nil, prompted, err
	}
	return gate, prompted, nil
}

func (s *ScaffoldServiceImpl) bindingFacts(ctx context.Context, state *runState, spec scaffold.KindSpec) map[string]scaffold.BindingFacts {
	facts := make(map[string]scaffold.BindingFacts, len(state.entities))
	checkContracts := spec.ContractBacked && scaffold.ContractImportWanted(s.cfg)
	contracts := scaffold.LayoutFor(s.cfg, scaffold.KindContract)

	for _, entity := range state.entities {
		f := scaffold.BindingFacts{PrincipalResolved: state.principalResolved}
		if checkContracts {
			f.ContractExists = s.contractExists(ctx, state, entity, contracts)
		}
		facts[entity.Name] = f
	}
	return facts
}

// contractExists confirms entity's contract on disk, or planned by an earlier
// kind of this run. Anything else degrades the import to empty.
func (s *ScaffoldServiceImpl) contractExists(ctx context.Context, state *runState, entity scaffold.Entity, contracts scaffold.Layout) bool {
	path := scaffold.ContractPath(s.cfg, entity)
	if state.written[filepath.Clean(path)] {
		return true
	}
	ok, err := s.fs.Exists(ctx, path)
	if err == nil && ok {
		return true
	}

	resolveErr := &scaffold.EntityResolutionError{
		Entity:    entity.Name,
		Reference: scaffold.QualifiedClass(contracts.Namespace, scaffold.SpecFor(scaffold.KindContract, false).ClassName(entity)),
		Path:      path,
	}
	if err != nil {
		logger.Warnw("contract check failed", "error", resolveErr, "cause", err)
	} else {
		logger.Warnw("contract not found, repository will not import it", "error", resolveErr)
	}
	return false
}

func (s *ScaffoldServiceImpl) startRun(ctx context.Context, req primary.GenerateRequest, mode overwrite.Mode) *secondary.RunRecord {
	if req.DryRun || s.history == nil {
		return nil
	}

	id, err := s.history.GetNextID(ctx)
	if err != nil {
		logger.Warnw("failed to allocate run ID, history disabled for this run", "error", err)
		return nil
	}

	kinds := make([]string, 0, len(req.Kinds()))
	for _, k := range req.Kinds() {
		kinds = append(kinds, string(k))
	}

	record := &secondary.RunRecord{
		ID:     id,
		Root:   s.cfg.Root,
		Kinds:  strings.Join(kinds, ","),
		Mode:   string(mode),
		Status: secondary.RunStatusRunning,
	}
	if err := s.history.CreateRun(ctx, record); err != nil {
		logger.Warnw("failed to record run", "run", id, "error", err)
		return nil
	}
	return record
}

func (s *ScaffoldServiceImpl) finishRun(ctx context.Context, record *secondary.RunRecord, resp *primary.GenerateResponse) {
	if record == nil {
		return
	}

	var files []*secondary.RunFileRecord
	var failed []string
	for _, k := range resp.Kinds {
		if k.Err != nil {
			failed = append(failed, string(k.Kind))
			continue
		}
		for _, f := range k.Files {
			files = append(files, &secondary.RunFileRecord{
				RunID:     record.ID,
				Kind:      string(k.Kind),
				Entity:    f.Entity,
				ClassName: f.ClassName,
				Path:      f.Path,
				Outcome:   string(f.Outcome),
			})
		}
	}

	if err := s.history.AddFiles(ctx, record.ID, files); err != nil {
		logger.Warnw("failed to record run files", "run", record.ID, "error", err)
	}

	record.Status = secondary.RunStatusCompleted
	if len(failed) > 0 {
		record.Status = secondary.RunStatusFailed
	}
	record.FailedKinds = strings.Join(failed, ",")
	record.Created = resp.Count(overwrite.OutcomeCreated)
	record.Overridden = resp.Count(overwrite.OutcomeOverridden)
	record.Skipped = resp.Count(overwrite.OutcomeSkipped)
	if err := s.history.FinishRun(ctx, record); err != nil {
		logger.Warnw("failed to finish run", "run", record.ID, "error", err)
	}
}

// Watch regenerates for newly created models until ctx is cancelled.
// Existing files are never overwritten while watching.
func (s *ScaffoldServiceImpl) Watch(ctx context.Context, req primary.WatchRequest) error {
	if s.watcher == nil {
		return errors.New("model watcher not configured")
	}

	modelsDir := s.cfg.Path(s.cfg.ModelsDirectory)
	return s.watcher.Watch(ctx, modelsDir, s.cfg.SourceExtension, func(ctx context.Context, entities []string) {
		genReq := req.Generate
		genReq.Mode = overwrite.ModeNever
		genReq.Only = entities

		logger.Infow("models created", "entities", entities)
		resp, err := s.Generate(ctx, genReq)
		if req.OnRun != nil {
			req.OnRun(resp, err)
		}
	})
}

// Ensure ScaffoldServiceImpl implements the interface
var _ primary.ScaffoldService = (*ScaffoldServiceImpl)(nil)
