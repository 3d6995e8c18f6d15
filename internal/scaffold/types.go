// Package scaffold renders repository, contract, policy and resource artifacts
// for the entities discovered in a models directory.
//
// Everything here is pure: the caller probes the filesystem, then hands the
// facts (existing files, contract presence, principal resolution) to the
// generator, which returns a plan of effects.
package scaffold

import (
	"path/filepath"
	"strings"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/core/overwrite"
)

// Entity is a source model discovered by directory scan.
type Entity struct {
	Name            string // "Invoice"
	SourceNamespace string // "App\Models"
	SourcePath      string // ".../app/Models/Invoice.php"
}

// ArtifactKind is a generated output category.
type ArtifactKind string

const (
	KindContract   ArtifactKind = "contract"
	KindPolicy     ArtifactKind = "policy"
	KindResource   ArtifactKind = "resource"
	KindRepository ArtifactKind = "repository"
)

// Plural returns the kind's plural noun, as used in operator prompts.
func (k ArtifactKind) Plural() string {
	switch k {
	case KindPolicy:
		return "policies"
	case KindRepository:
		return "repositories"
	default:
		return string(k) + "s"
	}
}

// RunOrder is the order kinds run in. Contracts come before repositories so
// contract-backed repositories can see contract files written in the same run.
var RunOrder = []ArtifactKind{KindContract, KindPolicy, KindResource, KindRepository}

// Template identifiers.
const (
	TemplateContract           = "Contract"
	TemplatePolicy             = "Policy"
	TemplateResource           = "Resource"
	TemplateRepository         = "Repository"
	TemplateRepositoryEloquent = "RepositoryEloquent"
)

// TemplateIDs lists every template the generator can ask for.
var TemplateIDs = []string{
	TemplateContract,
	TemplatePolicy,
	TemplateResource,
	TemplateRepository,
	TemplateRepositoryEloquent,
}

// KindSpec is the fixed description of one artifact variant.
type KindSpec struct {
	Kind           ArtifactKind
	TemplateID     string
	Suffix         string // appended to the entity name to form the class name
	ContractBacked bool   // repository variant implementing a generated contract
}

// SpecFor returns the spec of kind. contractBacked only affects repositories.
func SpecFor(kind ArtifactKind, contractBacked bool) KindSpec {
	switch kind {
	case KindContract:
		return KindSpec{Kind: kind, TemplateID: TemplateContract, Suffix: "Repository"}
	case KindPolicy:
		return KindSpec{Kind: kind, TemplateID: TemplatePolicy, Suffix: "Policy"}
	case KindResource:
		return KindSpec{Kind: kind, TemplateID: TemplateResource, Suffix: "Resource"}
	default:
		if contractBacked {
			return KindSpec{Kind: KindRepository, TemplateID: TemplateRepositoryEloquent, Suffix: "RepositoryEloquent", ContractBacked: true}
		}
		return KindSpec{Kind: KindRepository, TemplateID: TemplateRepository, Suffix: "Repository"}
	}
}

// ClassName returns the artifact class name for entity.
func (s KindSpec) ClassName(entity Entity) string {
	return entity.Name + s.Suffix
}

// Layout is the configured location of one kind's artifacts.
type Layout struct {
	Dir       string // resolved output directory
	Namespace string // normalised namespace
	BaseFile  string // configured base artifact file, may be empty
	BaseClass string // fully qualified base class or interface, may be empty
}

// LayoutFor resolves where kind's artifacts live under cfg.
func LayoutFor(cfg *config.Config, kind ArtifactKind) Layout {
	switch kind {
	case KindContract:
		return Layout{
			Dir:       cfg.Path(cfg.ContractsDirectory),
			Namespace: NormalizeNamespace(cfg.ContractsNamespace),
			BaseFile:  cfg.BaseContractFile,
			BaseClass: cfg.BaseContractInterface,
		}
	case KindPolicy:
		return Layout{
			Dir:       cfg.Path(cfg.PoliciesDirectory),
			Namespace: NormalizeNamespace(cfg.PoliciesNamespace),
			BaseFile:  cfg.BasePolicyFile,
			BaseClass: cfg.BasePolicyClass,
		}
	case KindResource:
		return Layout{
			Dir:       cfg.Path(cfg.ResourcesDirectory),
			Namespace: NormalizeNamespace(cfg.ResourcesNamespace),
		}
	default:
		return Layout{
			Dir:       cfg.Path(cfg.RepositoriesDirectory),
			Namespace: NormalizeNamespace(cfg.RepositoriesNamespace),
			BaseFile:  cfg.BaseRepositoryFile,
			BaseClass: cfg.BaseRepositoryClass,
		}
	}
}

// BasePath returns the base artifact's path inside the output directory,
// the one file per-entity generation never treats as an overwrite candidate.
func (l Layout) BasePath() string {
	if l.BaseFile == "" {
		return ""
	}
	return filepath.Join(l.Dir, filepath.Base(l.BaseFile))
}

// TargetPath returns the output file for entity under layout.
func TargetPath(layout Layout, spec KindSpec, entity Entity, ext string) string {
	return filepath.Join(layout.Dir, spec.ClassName(entity)+ext)
}

// OverwriteCandidates narrows the files found in a kind's output directory
// to the ones that kind could have generated. Directories may be shared
// between kinds, so other kinds' outputs and every base file are dropped.
func OverwriteCandidates(cfg *config.Config, spec KindSpec, files []string) []string {
	bases := make(map[string]bool, len(RunOrder))
	for _, kind := range RunOrder {
		if base := LayoutFor(cfg, kind).BasePath(); base != "" {
			bases[filepath.Clean(base)] = true
		}
	}
	suffix := spec.Suffix + cfg.SourceExtension
	var out []string
	for _, f := range files {
		name := filepath.Base(f)
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		if bases[filepath.Clean(f)] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// GeneratedFile is one rendered artifact and what happens to it.
type GeneratedFile struct {
	Entity    string
	ClassName string
	Path      string
	Content   string
	Outcome   overwrite.Outcome
}
