// Package config loads the scaffolder configuration.
//
// Every recognised option is a field of Config; the struct is passed
// explicitly into the scaffold service. Sources, lowest precedence first:
// defaults, stubgen.{yaml,toml,json} (or --config), STUBGEN_* environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/example/stubgen/internal/errors"
)

// FileName is the config file base name searched in the project directory.
const FileName = "stubgen"

// DefaultFile is the file written by WriteDefault when no path is given.
const DefaultFile = "stubgen.yaml"

// AutoloadEntry maps a namespace prefix to a source directory (PSR-4 style).
type AutoloadEntry struct {
	Namespace string `mapstructure:"namespace"`
	Directory string `mapstructure:"directory"`
}

// Config represents the scaffolder configuration.
type Config struct {
	// Directories
	ModelsDirectory       string `mapstructure:"models_directory"`
	ContractsDirectory    string `mapstructure:"contracts_directory"`
	RepositoriesDirectory string `mapstructure:"repositories_directory"`
	PoliciesDirectory     string `mapstructure:"policies_directory"`
	ResourcesDirectory    string `mapstructure:"resources_directory"`

	// Namespaces
	ModelsNamespace       string `mapstructure:"models_namespace"`
	ContractsNamespace    string `mapstructure:"contracts_namespace"`
	RepositoriesNamespace string `mapstructure:"repositories_namespace"`
	PoliciesNamespace     string `mapstructure:"policies_namespace"`
	ResourcesNamespace    string `mapstructure:"resources_namespace"`

	// Base artifacts generated classes extend or implement
	BaseRepositoryFile    string `mapstructure:"base_repository_file"`
	BaseRepositoryClass   string `mapstructure:"base_repository_class"`
	BaseContractFile      string `mapstructure:"base_contract_file"`
	BaseContractInterface string `mapstructure:"base_contract_interface"`
	BasePolicyFile        string `mapstructure:"base_policy_file"`
	BasePolicyClass       string `mapstructure:"base_policy_class"`

	// UserModelClass is the principal referenced by generated policies.
	UserModelClass string `mapstructure:"user_model_class"`

	// RequestQueryAttribute belongs to the data-access layer; carried, unused here.
	RequestQueryAttribute string `mapstructure:"request_query_attribute"`

	SourceExtension string          `mapstructure:"source_extension"`
	StubsDirectory  string          `mapstructure:"stubs_directory"`
	Autoload        []AutoloadEntry `mapstructure:"autoload"`
	HistoryDatabase string          `mapstructure:"history_database"`
	HistoryEnabled  bool            `mapstructure:"history_enabled"`

	// Root is the project directory relative paths resolve against.
	// Not read from the file.
	Root string `mapstructure:"-"`
	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`
}

// SetDefaults registers the default value of every option.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("models_directory", "app/Models/")
	v.SetDefault("contracts_directory", "app/Contracts/")
	v.SetDefault("repositories_directory", "app/Repositories/")
	v.SetDefault("policies_directory", "app/Policies/")
	v.SetDefault("resources_directory", "app/Http/Resources/")

	v.SetDefault("models_namespace", `App\Models`)
	v.SetDefault("contracts_namespace", `App\Contracts`)
	v.SetDefault("repositories_namespace", `App\Repositories`)
	v.SetDefault("policies_namespace", `App\Policies`)
	v.SetDefault("resources_namespace", `App\Http\Resources`)

	v.SetDefault("base_repository_file", "BaseRepository.php")
	v.SetDefault("base_repository_class", `Lab2view\Generator\BaseRepository`)
	v.SetDefault("base_contract_file", "RepositoryInterface.php")
	v.SetDefault("base_contract_interface", `Lab2view\Generator\RepositoryInterface`)
	v.SetDefault("base_policy_file", "BasePolicy.php")
	v.SetDefault("base_policy_class", `Lab2view\Generator\BasePolicy`)

	v.SetDefault("user_model_class", `App\Models\User`)
	v.SetDefault("request_query_attribute", "query")

	v.SetDefault("source_extension", ".php")
	v.SetDefault("stubs_directory", "stubs/stubgen")
	v.SetDefault("autoload", []map[string]any{
		{"namespace": `App\`, "directory": "app/"},
	})
	v.SetDefault("history_database", ".stubgen/history.db")
	v.SetDefault("history_enabled", true)
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string
	// ConfigFile is an explicit config file. When empty, Dir is searched
	// for stubgen.{yaml,yml,toml,json}; a missing file means defaults.
	ConfigFile string
}

// NewViper returns a viper instance with defaults and env binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("STUBGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads, resolves and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}

	v := NewViper()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", opts.ConfigFile)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "failed to read config")
			}
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Root = dir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithViper unmarshals configuration from a prepared viper instance
// without validating it.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	cfg.SourceExtension = normalizeExtension(cfg.SourceExtension)
	return &cfg, nil
}

// Validate checks that every required option is set.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"models_directory", c.ModelsDirectory},
		{"contracts_directory", c.ContractsDirectory},
		{"repositories_directory", c.RepositoriesDirectory},
		{"policies_directory", c.PoliciesDirectory},
		{"resources_directory", c.ResourcesDirectory},
		{"models_namespace", c.ModelsNamespace},
		{"contracts_namespace", c.ContractsNamespace},
		{"repositories_namespace", c.RepositoriesNamespace},
		{"policies_namespace", c.PoliciesNamespace},
		{"resources_namespace", c.ResourcesNamespace},
		{"base_repository_file", c.BaseRepositoryFile},
		{"base_contract_file", c.BaseContractFile},
		{"base_policy_file", c.BasePolicyFile},
		{"source_extension", c.SourceExtension},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return errors.WithHint(
			errors.Newf("missing required config: %s", strings.Join(missing, ", ")),
			"run 'stubgen init' to write a complete default configuration",
		)
	}

	for _, a := range c.Autoload {
		if a.Namespace == "" || a.Directory == "" {
			return errors.Newf("invalid autoload entry %q => %q: namespace and directory are required", a.Namespace, a.Directory)
		}
	}
	if c.HistoryEnabled && c.HistoryDatabase == "" {
		return errors.New("history_database is required when history_enabled is true")
	}
	return nil
}

// Path resolves a configured path against Root.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// WriteDefault writes the default configuration to path. It refuses to
// replace an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("config file already exists: %s", path),
				"use --force to overwrite it",
			)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	v := viper.New()
	SetDefaults(v)
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
