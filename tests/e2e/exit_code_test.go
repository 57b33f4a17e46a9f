//go:build e2e

// Package e2e provides end-to-end tests for the convlog CLI.
package e2e

import (
	"testing"

	"github.com/ariel-frischer/convlog/internal/cli"
	"github.com/ariel-frischer/convlog/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestE2E_ExitCodes verifies the documented exit codes of the built binary.
func TestE2E_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setupFunc    func(t *testing.T, env *testutil.E2EEnv)
		command      []string
		wantExitCode int
		wantStderr   string
	}{
		"exit code 0 - success": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				env.Repo().Commit("feat: first")
			},
			command:      []string{"--dry-run"},
			wantExitCode: cli.ExitSuccess,
		},
		"exit code 0 - empty range": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				env.Repo().Commit("feat: first")
			},
			command:      []string{"--from", "HEAD"},
			wantExitCode: cli.ExitSuccess,
		},
		"exit code 2 - malformed commit": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				env.Repo().Commit("Update stuff")
			},
			command:      []string{},
			wantExitCode: cli.ExitInvalidData,
			wantStderr:   "Data Error",
		},
		"exit code 3 - unknown revision": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				env.Repo().Commit("feat: first")
			},
			command:      []string{"--from", "v404.0.0"},
			wantExitCode: cli.ExitInvalidArguments,
			wantStderr:   "v404.0.0",
		},
		"exit code 3 - unknown flag": {
			command:      []string{"--bogus"},
			wantExitCode: cli.ExitInvalidArguments,
		},
		"exit code 4 - not a repository": {
			command:      []string{"--repo", "/"},
			wantExitCode: cli.ExitMissingDependencies,
			wantStderr:   "not a git repository",
		},
		"exit code 5 - unknown config key": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				env.Repo().Commit("feat: first")
				env.Repo().WriteFile(".convlog.yml", "types: [feat]\n")
			},
			command:      []string{"--dry-run"},
			wantExitCode: cli.ExitInvalidConfig,
			wantStderr:   "types",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			if tt.setupFunc != nil {
				tt.setupFunc(t, env)
			}

			result := env.Run(tt.command...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"exit code mismatch\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			require.Contains(t, result.Stderr, tt.wantStderr)
		})
	}
}
