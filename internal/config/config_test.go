package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolate points the user config directory at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, changelog.DefaultTypes(), cfg.RecognizedTypes)
	assert.True(t, cfg.ShowBreakingSection)
	assert.Equal(t, "CHANGELOG.md", cfg.OutputFile)
	assert.Equal(t, "0.1.0", cfg.InitialVersion)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.False(t, cfg.SkipMergeCommits)
}

func TestLoad_Layering(t *testing.T) {
	tests := map[string]struct {
		user     string
		project  map[string]string
		explicit map[string]string
		env      map[string]string
		check    func(t *testing.T, cfg *Configuration)
	}{
		"project yaml overrides defaults": {
			project: map[string]string{".convlog.yml": "output_file: HISTORY.md\nshow_breaking_section: false\n"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "HISTORY.md", cfg.OutputFile)
				assert.False(t, cfg.ShowBreakingSection)
				assert.Equal(t, changelog.DefaultTypes(), cfg.RecognizedTypes)
			},
		},
		"project json": {
			project: map[string]string{".convlog.json": `{"recognized_types": ["feat", "fix"]}`},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, []string{"feat", "fix"}, cfg.RecognizedTypes)
			},
		},
		"yml wins over json in the same project": {
			project: map[string]string{
				".convlog.yml":  "output_file: FROM_YAML.md\n",
				".convlog.json": `{"output_file": "FROM_JSON.md"}`,
			},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "FROM_YAML.md", cfg.OutputFile)
			},
		},
		"user config below project": {
			user:    "output_file: USER.md\ninitial_version: 1.0.0\n",
			project: map[string]string{".convlog.yml": "output_file: PROJECT.md\n"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "PROJECT.md", cfg.OutputFile)
				assert.Equal(t, "1.0.0", cfg.InitialVersion)
			},
		},
		"explicit file overrides project": {
			project:  map[string]string{".convlog.yml": "fetch_concurrency: 2\n"},
			explicit: map[string]string{"custom.json": `{"fetch_concurrency": 8}`},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, 8, cfg.FetchConcurrency)
			},
		},
		"env overrides everything": {
			explicit: map[string]string{"custom.yml": "show_breaking_section: true\n"},
			env: map[string]string{
				"CONVLOG_SHOW_BREAKING_SECTION": "false",
				"CONVLOG_RECOGNIZED_TYPES":      "feat, fix ,perf",
				"CONVLOG_FETCH_CONCURRENCY":     "16",
			},
			check: func(t *testing.T, cfg *Configuration) {
				assert.False(t, cfg.ShowBreakingSection)
				assert.Equal(t, []string{"feat", "fix", "perf"}, cfg.RecognizedTypes)
				assert.Equal(t, 16, cfg.FetchConcurrency)
			},
		},
		"empty yaml file keeps defaults": {
			project: map[string]string{".convlog.yml": "\n"},
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "CHANGELOG.md", cfg.OutputFile)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			home := isolate(t)
			if tt.user != "" {
				userPath, err := UserConfigPath()
				require.NoError(t, err)
				require.True(t, filepath.IsAbs(userPath))
				require.Contains(t, userPath, home)
				require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
				require.NoError(t, os.WriteFile(userPath, []byte(tt.user), 0o644))
			}

			projectDir := t.TempDir()
			for name, content := range tt.project {
				writeFile(t, projectDir, name, content)
			}

			opts := LoadOptions{ProjectDir: projectDir}
			for name, content := range tt.explicit {
				opts.ConfigPath = writeFile(t, t.TempDir(), name, content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadWithOptions(opts)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
		env     map[string]string
		check   func(t *testing.T, err error)
	}{
		"unknown key in yaml": {
			file:    ".convlog.yml",
			content: "output_file: X.md\ntypes: [feat]\n",
			check: func(t *testing.T, err error) {
				var unknown ErrUnknownKey
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "types", unknown.Key)
			},
		},
		"unknown nested key in json": {
			file:    ".convlog.json",
			content: `{"render": {"format": "html"}}`,
			check: func(t *testing.T, err error) {
				var unknown ErrUnknownKey
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "render.format", unknown.Key)
			},
		},
		"invalid yaml syntax": {
			file:    ".convlog.yml",
			content: "output_file: [unclosed\n",
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.FilePath, ".convlog.yml")
			},
		},
		"invalid json": {
			file:    ".convlog.json",
			content: `{"output_file": `,
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Message, "invalid JSON")
			},
		},
		"uppercase type": {
			file:    ".convlog.yml",
			content: "recognized_types: [Feat]\n",
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Field, "recognized_types")
			},
		},
		"empty types": {
			file:    ".convlog.yml",
			content: "recognized_types: []\n",
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "recognized_types", verr.Field)
			},
		},
		"concurrency out of range": {
			file:    ".convlog.yml",
			content: "fetch_concurrency: 64\n",
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "fetch_concurrency", verr.Field)
				assert.Equal(t, "must be at most 32", verr.Message)
			},
		},
		"duplicate type": {
			file:    ".convlog.yml",
			content: "recognized_types: [feat, fix, feat]\n",
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "recognized_types", verr.Field)
				assert.Equal(t, "must not list a commit type twice", verr.Message)
			},
		},
		"malformed initial version from env": {
			env: map[string]string{"CONVLOG_INITIAL_VERSION": "1.0"},
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, "initial_version", verr.Field)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, dir, tt.file, tt.content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir})
			require.Error(t, err)
			assert.Nil(t, cfg)
			tt.check(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadWithOptions(LoadOptions{
		ProjectDir: t.TempDir(),
		ConfigPath: filepath.Join(t.TempDir(), "nope.json"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestConfiguration_RenderOptions(t *testing.T) {
	cfg := &Configuration{RecognizedTypes: []string{"feat"}, ShowBreakingSection: false}
	opts := cfg.RenderOptions()

	assert.Equal(t, []string{"feat"}, opts.Types)
	assert.False(t, opts.ShowBreaking)
	assert.Equal(t, changelog.FormatMarkdown, opts.Format)

	opts.Types[0] = "fix"
	assert.Equal(t, "feat", cfg.RecognizedTypes[0], "options must not alias the config")
}

func TestConfiguration_InitialSemver(t *testing.T) {
	cfg := &Configuration{InitialVersion: "v2.3.4"}
	v, err := cfg.InitialSemver()
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", v.String())
}

func TestConfiguration_YAML(t *testing.T) {
	isolate(t)
	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir()})
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	for key := range KnownKeys {
		assert.Contains(t, decoded, key)
	}
}

func TestDefaultConfigTemplate_Loads(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, ".convlog.yml", GetDefaultConfigTemplate())

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	defaults, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestResolvePaths(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, ".convlog.json", "{}")

	paths := ResolvePaths(LoadOptions{ProjectDir: dir, ConfigPath: "extra.yml"})
	require.Len(t, paths, 5)

	assert.Equal(t, SourceUser, paths[0].Source)
	assert.False(t, paths[0].Exists)

	var existing []string
	for _, p := range paths {
		if p.Exists {
			existing = append(existing, filepath.Base(p.Path))
		}
	}
	assert.Equal(t, []string{".convlog.json"}, existing)
	assert.Equal(t, SourceExplicit, paths[4].Source)
}

func TestValidateConfigValues_ReportsEveryField(t *testing.T) {
	cfg := &Configuration{
		RecognizedTypes:  []string{"feat", "Fix"},
		OutputFile:       "CHANGELOG.md",
		InitialVersion:   "1.0",
		FetchConcurrency: 0,
	}

	err := ValidateConfigValues(cfg, "config")
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "field 'recognized_types[1]'")
	assert.Contains(t, msg, `"Fix" is not a commit type`)
	assert.Contains(t, msg, "field 'initial_version'")
	assert.Contains(t, msg, "field 'fetch_concurrency': must be at least 1")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "recognized_types[1]", verr.Field)
}

func TestValidateConfigValues_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, ValidateConfigValues(cfg, "config"))
}

func TestLoad_RecognizedTypesKeepOrder(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, ".convlog.yml", "recognized_types: [perf, fix, feat]\n")

	cfg, err := LoadWithOptions(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"perf", "fix", "feat"}, cfg.RecognizedTypes)
	assert.Equal(t, []string{"perf", "fix", "feat"}, cfg.RenderOptions().Types)
}
