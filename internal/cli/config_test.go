package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/convlog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow(t *testing.T) {
	tests := map[string]struct {
		projectConfig string
		env           map[string]string
		contains      []string
	}{
		"defaults": {
			contains: []string{"output_file: CHANGELOG.md", "initial_version: 0.1.0", "- feat", "- chore", "fetch_concurrency: 4"},
		},
		"project file": {
			projectConfig: "output_file: HISTORY.md\nrecognized_types: [feat, fix]\n",
			contains:      []string{"output_file: HISTORY.md", "- fix"},
		},
		"environment wins over project file": {
			projectConfig: "output_file: HISTORY.md\n",
			env:           map[string]string{"CONVLOG_OUTPUT_FILE": "NEWS.md", "CONVLOG_SKIP_MERGE_COMMITS": "true"},
			contains:      []string{"output_file: NEWS.md", "skip_merge_commits: true"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo := newTestRepo(t)
			repo.Commit("chore: init")
			if tt.projectConfig != "" {
				repo.WriteFile(".convlog.yml", tt.projectConfig)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			stdout, _, err := run(t, "config", "show", "--repo", repo.Dir)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestConfigShow_InvalidValue(t *testing.T) {
	repo := newTestRepo(t)
	repo.Commit("chore: init")
	repo.WriteFile(".convlog.yml", "initial_version: one\n")

	_, _, err := run(t, "config", "show", "--repo", repo.Dir)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidConfig, ExitCode(err))
}

func TestConfigPath(t *testing.T) {
	repo := newTestRepo(t)
	repo.Commit("chore: init")
	repo.WriteFile(".convlog.json", `{"output_file": "X.md"}`)
	explicit := filepath.Join(t.TempDir(), "custom.yml")

	stdout, _, err := run(t, "config", "path", "--repo", repo.Dir, "--config", explicit)
	require.NoError(t, err)

	for _, name := range config.ProjectConfigNames {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "✓ project  "+filepath.Join(repo.Dir, ".convlog.json"))
	assert.Contains(t, stdout, "✗ explicit "+explicit)
	assert.Contains(t, stdout, "user")
}

func TestConfigKeys(t *testing.T) {
	stdout, _, err := run(t, "config", "keys")
	require.NoError(t, err)

	assert.Contains(t, stdout, "KEY")
	for _, key := range config.SortedKeys() {
		assert.Contains(t, stdout, key.Path)
		assert.Contains(t, stdout, key.Description)
	}
}

func TestConfigInit(t *testing.T) {
	repo := newTestRepo(t)
	repo.Commit("chore: init")
	path := filepath.Join(repo.Dir, ".convlog.yml")

	stdout, _, err := run(t, "config", "init", "--repo", repo.Dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))

	// The template must load cleanly.
	_, _, err = run(t, "config", "show", "--repo", repo.Dir)
	require.NoError(t, err)

	_, _, err = run(t, "config", "init", "--repo", repo.Dir)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidConfig, ExitCode(err))

	require.NoError(t, os.WriteFile(path, []byte("output_file: X.md\n"), 0o644))
	_, _, err = run(t, "config", "init", "--repo", repo.Dir, "--force")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))
}
