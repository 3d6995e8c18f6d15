package scaffold

import (
	"fmt"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/core/effects"
	"github.com/example/stubgen/internal/core/overwrite"
	"github.com/example/stubgen/internal/core/stub"
	"github.com/example/stubgen/internal/errors"
)

// Generator renders artifacts from templates.
type Generator struct {
	cfg *config.Config
}

// NewGenerator creates a new Generator for cfg.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg}
}

// KindInput contains pre-fetched data for generating one artifact kind.
type KindInput struct {
	Spec     KindSpec
	Template string
	Entities []Entity
	// Facts holds per-entity probe results, keyed by entity name.
	Facts map[string]BindingFacts
	// Gate must already be scanned and answered.
	Gate *overwrite.Gate
}

// GeneratorResult contains the rendered files of one kind.
type GeneratorResult struct {
	Spec   KindSpec
	Layout Layout
	Files  []GeneratedFile
}

// Effects returns the I/O needed to materialise the result: the output
// directory, then a write for every file whose outcome writes and a log
// entry for every existing file that is kept.
func (r *GeneratorResult) Effects() []effects.Effect {
	result := []effects.Effect{effects.Mkdir(r.Layout.Dir)}
	for _, f := range r.Files {
		if f.Outcome.Writes() {
			result = append(result, effects.Write(f.Path, f.Content))
			continue
		}
		result = append(result, effects.Log("info", "kept existing file", map[string]any{
			"kind":  string(r.Spec.Kind),
			"class": f.ClassName,
			"path":  f.Path,
		}))
	}
	return result
}

// Count returns how many files ended with outcome.
func (r *GeneratorResult) Count(outcome overwrite.Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == outcome {
			n++
		}
	}
	return n
}

// GenerateKind renders every entity for one kind.
// This is a pure function - all input data must be pre-fetched. Any render
// failure fails the whole kind, so a kind is either planned completely or
// not at all.
func (g *Generator) GenerateKind(input KindInput) (*GeneratorResult, error) {
	if input.Gate == nil {
		return nil, errors.New("generate kind: nil overwrite gate")
	}

	layout := LayoutFor(g.cfg, input.Spec.Kind)
	result := &GeneratorResult{Spec: input.Spec, Layout: layout}

	for _, entity := range input.Entities {
		binding, err := DeriveBinding(g.cfg, input.Spec, entity, input.Facts[entity.Name])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s for %s", input.Spec.TemplateID, entity.Name)
		}

		content, err := stub.Render(input.Template, binding)
		if err != nil {
			var unbound *stub.UnboundError
			if errors.As(err, &unbound) {
				return nil, &MissingPlaceholderError{
					TemplateID: input.Spec.TemplateID,
					Entity:     entity.Name,
					Tokens:     unbound.Tokens,
					Misspaced:  misspaced(unbound.Tokens, binding),
				}
			}
			return nil, fmt.Errorf("failed to render %s for %s: %w", input.Spec.TemplateID, entity.Name, err)
		}

		path := TargetPath(layout, input.Spec, entity, g.cfg.SourceExtension)
		outcome, err := input.Gate.Decide(path)
		if err != nil {
			return nil, err
		}

		result.Files = append(result.Files, GeneratedFile{
			Entity:    entity.Name,
			ClassName: input.Spec.ClassName(entity),
			Path:      path,
			Content:   content,
			Outcome:   outcome,
		})
	}

	return result, nil
}

func misspaced(tokens []string, binding *stub.Binding) []string {
	var out []string
	for _, tok := range tokens {
		name, ok := stub.Name(tok)
		if !ok || stub.Token(name) == tok {
			continue
		}
		if _, bound := binding.Get(name); bound {
			out = append(out, tok)
		}
	}
	return out
}
