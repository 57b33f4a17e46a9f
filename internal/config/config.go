// Package config provides hierarchical configuration management for convlog using koanf.
// Configuration is loaded with priority: environment variables > explicit --config file
// > project config (.convlog.yml / .convlog.json) > user config (~/.config/convlog/config.yml)
// > defaults. Files may be YAML or JSON; keys that convlog does not know are rejected.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/semver"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CONVLOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceUser     ConfigSource = "user"
	SourceProject  ConfigSource = "project"
	SourceExplicit ConfigSource = "explicit"
	SourceEnv      ConfigSource = "environment"
)

// Configuration represents the convlog configuration
type Configuration struct {
	// RecognizedTypes is the ordered set of commit types that get a changelog
	// section. Commits of other types are left out.
	RecognizedTypes []string `koanf:"recognized_types" yaml:"recognized_types" validate:"required,min=1,unique,dive,required,lowercase,alpha"`

	// ShowBreakingSection appends the "Breaking Changes" section when a
	// release contains breaking commits.
	ShowBreakingSection bool `koanf:"show_breaking_section" yaml:"show_breaking_section"`

	// OutputFile is where generate writes the changelog. Overridden by --output.
	OutputFile string `koanf:"output_file" yaml:"output_file" validate:"required"`

	// InitialVersion is the base for the next version when the repository
	// has no version tags. Default: 0.1.0.
	InitialVersion string `koanf:"initial_version" yaml:"initial_version" validate:"required,semver"`

	// FetchConcurrency bounds how many release ranges are read at once in
	// multi-release mode.
	FetchConcurrency int `koanf:"fetch_concurrency" yaml:"fetch_concurrency" validate:"min=1,max=32"`

	// SkipMergeCommits leaves merge commits out of every range.
	SkipMergeCommits bool `koanf:"skip_merge_commits" yaml:"skip_merge_commits"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath is an explicit config file (--config). It must exist.
	ConfigPath string
	// ProjectDir is searched for project config files (default: current directory).
	ProjectDir string
	// SkipUser ignores the user-level config file.
	SkipUser bool
}

// Load loads configuration from user, project, explicit and environment sources.
// Priority: Environment variables > Explicit file > Project config > User config > Defaults
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUser {
		if userPath, err := UserConfigPath(); err == nil && fileExists(userPath) {
			if err := loadFile(k, userPath, SourceUser); err != nil {
				return nil, err
			}
		}
	}

	if projectPath := FindProjectConfig(opts.ProjectDir); projectPath != "" {
		if err := loadFile(k, projectPath, SourceProject); err != nil {
			return nil, err
		}
	}

	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigPath)
		}
		if err := loadFile(k, opts.ConfigPath, SourceExplicit); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFile loads one config file into its own koanf instance, rejects
// unknown keys and merges the result into k.
func loadFile(k *koanf.Koanf, path string, source ConfigSource) error {
	fk := koanf.New(".")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := fk.Load(file.Provider(path), json.Parser()); err != nil {
			return &ValidationError{FilePath: path, Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
	default:
		if err := ValidateYAMLSyntax(path); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
		}
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
		}
	}

	if err := checkKnownKeys(fk.Keys(), path); err != nil {
		return err
	}

	if err := k.Merge(fk); err != nil {
		return fmt.Errorf("merging %s config %s: %w", source, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return fmt.Errorf("failed to load %s config: %w", SourceEnv, err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.InitialVersion = strings.TrimSpace(cfg.InitialVersion)
	cfg.OutputFile = strings.TrimSpace(cfg.OutputFile)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// envTransform converts environment variable names to config keys
// Example: CONVLOG_FETCH_CONCURRENCY -> fetch_concurrency
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// envValue maps an environment variable to its config key and value.
// List keys take a comma-separated value: CONVLOG_RECOGNIZED_TYPES=feat,fix
func envValue(name, value string) (string, interface{}) {
	key := envTransform(name)
	if schema, err := GetKeySchema(key); err == nil && schema.Type == TypeStringList {
		return key, splitList(value)
	}
	return key, value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RenderOptions converts the configuration into renderer options.
func (c *Configuration) RenderOptions() changelog.Options {
	types := make([]string, len(c.RecognizedTypes))
	copy(types, c.RecognizedTypes)
	return changelog.Options{
		Types:        types,
		ShowBreaking: c.ShowBreakingSection,
		Format:       changelog.FormatMarkdown,
	}
}

// InitialSemver returns the parsed initial version.
func (c *Configuration) InitialSemver() (semver.Version, error) {
	return semver.Parse(c.InitialVersion)
}

// YAML renders the effective configuration as a YAML document.
func (c *Configuration) YAML() ([]byte, error) {
	out, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}
