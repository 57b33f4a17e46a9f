package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/release"
)

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeStringList
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeStringList:
		return "list"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type.
type ConfigKeySchema struct {
	Path        string          // Key name as written in config files
	Type        ConfigValueType // Expected value type
	Description string          // Human-readable description for help text
	Default     interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"recognized_types": {
		Path:        "recognized_types",
		Type:        TypeStringList,
		Description: "Commit types that get a changelog section",
		Default:     changelog.DefaultTypes(),
	},
	"show_breaking_section": {
		Path:        "show_breaking_section",
		Type:        TypeBool,
		Description: "Append a Breaking Changes section to releases with breaking commits",
		Default:     true,
	},
	"output_file": {
		Path:        "output_file",
		Type:        TypeString,
		Description: "File the changelog is written to",
		Default:     "CHANGELOG.md",
	},
	"initial_version": {
		Path:        "initial_version",
		Type:        TypeString,
		Description: "Base version when the repository has no version tags",
		Default:     "0.1.0",
	},
	"fetch_concurrency": {
		Path:        "fetch_concurrency",
		Type:        TypeInt,
		Description: "Release ranges read concurrently in multi-release mode (1-32)",
		Default:     release.DefaultConcurrency,
	},
	"skip_merge_commits": {
		Path:        "skip_merge_commits",
		Type:        TypeBool,
		Description: "Leave merge commits out of every range",
		Default:     false,
	},
}

// ErrUnknownKey is returned when a config file sets a key convlog does not know.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key schemas ordered by name.
func SortedKeys() []ConfigKeySchema {
	keys := make([]ConfigKeySchema, 0, len(KnownKeys))
	for _, schema := range KnownKeys {
		keys = append(keys, schema)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Path < keys[j].Path })
	return keys
}

// FormatDefault renders a schema default for display.
func (s ConfigKeySchema) FormatDefault() string {
	switch v := s.Default.(type) {
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// checkKnownKeys rejects the first key of a config file that is not in
// the registry. Keys are checked in sorted order so the error is stable.
func checkKnownKeys(keys []string, path string) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, key := range sorted {
		if _, ok := KnownKeys[key]; !ok {
			return fmt.Errorf("%s: %w", path, ErrUnknownKey{Key: key})
		}
	}
	return nil
}
