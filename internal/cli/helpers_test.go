package cli

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/ariel-frischer/convlog/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTestRepo(t *testing.T) *testutil.GitRepo {
	t.Helper()
	return testutil.NewGitRepo(t)
}

// resetFlags restores every flag in the command tree to its default, since
// the command tree is shared package state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the command tree with args and returns stdout and stderr.
// The user config directory is isolated so a developer's own config is not read.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		log.SetOutput(os.Stderr)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
