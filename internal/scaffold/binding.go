package scaffold

import (
	"path/filepath"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/core/stub"
)

// BindingFacts are the probe results a binding depends on. They are gathered
// by the caller; deriving a binding never touches the filesystem.
type BindingFacts struct {
	// ContractExists reports that the entity's contract file is on disk.
	ContractExists bool
	// PrincipalResolved reports that user_model_class resolves to a source file.
	PrincipalResolved bool
}

// DeriveBinding computes the placeholder binding for one (entity, kind) render.
func DeriveBinding(cfg *config.Config, spec KindSpec, entity Entity, facts BindingFacts) (*stub.Binding, error) {
	layout := LayoutFor(cfg, spec.Kind)
	modelsNamespace := NormalizeNamespace(cfg.ModelsNamespace)
	className := spec.ClassName(entity)

	b := &stub.Binding{}
	var err error
	set := func(name, value string) {
		if err == nil {
			err = b.Set(name, value)
		}
	}

	switch spec.Kind {
	case KindContract:
		set("use_statement_for_contract", baseImport(cfg, layout))
		set("contracts_namespace", layout.Namespace)
		set("base_contract", baseName(layout.BaseFile, cfg.SourceExtension))
		set("contract", className)
		set("models_namespace", modelsNamespace)
		set("model", entity.Name)

	case KindPolicy:
		principal := ""
		if facts.PrincipalResolved {
			principal = UseStatement(cfg.UserModelClass)
		}
		set("use_statement_for_user_model", principal)
		set("use_statement_for_policy", baseImport(cfg, layout))
		set("policies_namespace", layout.Namespace)
		set("policy", className)
		set("models_namespace", modelsNamespace)
		set("model", entity.Name)
		set("modelVariable", ModelVariable(entity.Name))
		set("base_policy", baseName(layout.BaseFile, cfg.SourceExtension))

	case KindResource:
		set("namespace", layout.Namespace)
		set("class", className)
		set("models_namespace", modelsNamespace)
		set("model", entity.Name)

	case KindRepository:
		set("use_statement_for_repository", baseImport(cfg, layout))
		set("repositories_namespace", layout.Namespace)
		set("base_repository", baseName(layout.BaseFile, cfg.SourceExtension))
		set("repository", className)
		set("models_namespace", modelsNamespace)
		set("model", entity.Name)

		if spec.ContractBacked {
			contracts := LayoutFor(cfg, KindContract)
			contract := SpecFor(KindContract, false).ClassName(entity)
			useContract := ""
			if ContractImportWanted(cfg) && facts.ContractExists {
				useContract = UseStatement(QualifiedClass(contracts.Namespace, contract))
			}
			set("use_statement_for_contract", useContract)
			set("contracts_namespace", contracts.Namespace)
			set("contract", contract)
		}
	}

	if err != nil {
		return nil, err
	}
	return b, nil
}

// ContractPath returns where entity's contract file lives.
func ContractPath(cfg *config.Config, entity Entity) string {
	return TargetPath(LayoutFor(cfg, KindContract), SpecFor(KindContract, false), entity, cfg.SourceExtension)
}

// ContractImportWanted reports whether repositories need an import line to
// reach contracts, i.e. the two live in different directories.
func ContractImportWanted(cfg *config.Config) bool {
	return filepath.Clean(cfg.Path(cfg.ContractsDirectory)) != filepath.Clean(cfg.Path(cfg.RepositoriesDirectory))
}

// baseImport returns the import line for the kind's base class when the
// output directory differs from the base file's directory. A bare base file
// name has directory ".", which never equals an output directory.
func baseImport(cfg *config.Config, layout Layout) string {
	if layout.BaseFile == "" {
		return ""
	}
	baseDir := filepath.Dir(layout.BaseFile)
	if baseDir != "." && filepath.Clean(cfg.Path(baseDir)) == filepath.Clean(layout.Dir) {
		return ""
	}
	return UseStatement(layout.BaseClass)
}

func baseName(file, ext string) string {
	return TrimExtension(filepath.Base(file), ext)
}
