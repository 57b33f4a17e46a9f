package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# convlog configuration
# See 'convlog config keys' for all options

# Commit types that get a changelog section (others are left out)
recognized_types:
  - feat
  - fix
  - docs
  - style
  - refactor
  - perf
  - test
  - build
  - ci
  - chore

show_breaking_section: true           # Append "Breaking Changes" to releases with breaking commits
output_file: CHANGELOG.md             # Overridden by --output
initial_version: 0.1.0                # Base version when no version tag exists
fetch_concurrency: 4                  # Release ranges read at once with --multi-release (1-32)
skip_merge_commits: false             # Leave merge commits out of every range
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	defaults := make(map[string]interface{}, len(KnownKeys))
	for key, schema := range KnownKeys {
		if list, ok := schema.Default.([]string); ok {
			// Copy so callers cannot mutate the registry.
			defaults[key] = append([]string(nil), list...)
			continue
		}
		defaults[key] = schema.Default
	}
	return defaults
}
