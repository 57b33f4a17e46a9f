// Package testutil provides test utilities and helpers for convlog tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// convlogBinaryPath caches the built convlog binary path.
	convlogBinaryPath string
	convlogBuildOnce  sync.Once
	convlogBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a fresh git
// repository as the working directory and a HOME with no user config.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	homeDir string
	repo    *GitRepo
}

// CommandResult captures the result of running a convlog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with an empty repository.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	tempDir := t.TempDir()
	env := &E2EEnv{
		t:       t,
		tempDir: tempDir,
		homeDir: filepath.Join(tempDir, "home"),
	}

	if err := os.MkdirAll(env.homeDir, 0o755); err != nil {
		t.Fatalf("creating home directory: %v", err)
	}
	repoDir := filepath.Join(tempDir, "repo")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("creating repo directory: %v", err)
	}
	env.repo = NewGitRepoAt(t, repoDir)

	convlogBuildOnce.Do(func() {
		convlogBinaryPath, convlogBuildErr = buildConvlog()
	})
	if convlogBuildErr != nil {
		t.Fatalf("building convlog: %v", convlogBuildErr)
	}

	return env
}

func buildConvlog() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "convlog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "convlog")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/convlog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("go build: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Repo returns the repository the commands run in.
func (e *E2EEnv) Repo() *GitRepo {
	return e.repo
}

// Path returns the absolute path of a file in the repository.
func (e *E2EEnv) Path(name string) string {
	return filepath.Join(e.repo.Dir, name)
}

// Run executes convlog in the repository with an isolated environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(convlogBinaryPath, args...)
	cmd.Dir = e.repo.Dir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

// buildIsolatedEnv drops CONVLOG_* overrides and points the user config
// directory at an empty HOME.
func (e *E2EEnv) buildIsolatedEnv() []string {
	env := []string{
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"NO_COLOR=1",
	}

	for _, key := range []string{"PATH", "LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	return env
}

// ReadFile returns the content of a file in the repository, failing the test
// when it cannot be read.
func (e *E2EEnv) ReadFile(name string) string {
	e.t.Helper()
	data, err := os.ReadFile(e.Path(name))
	if err != nil {
		e.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// FileExists reports whether a file exists in the repository.
func (e *E2EEnv) FileExists(name string) bool {
	_, err := os.Stat(e.Path(name))
	return err == nil
}
