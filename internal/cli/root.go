package cli

import (
	"context"
	"fmt"
	"log"

	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/generate"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/ariel-frischer/convlog/internal/watch"
	"github.com/spf13/cobra"
)

// Command group IDs for help output
const (
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
)

var (
	configPath string
	repoPath   string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "convlog",
	Short: "Generate changelogs and versions from Conventional Commits",
	Long: `convlog reads the commit history of a git repository, parses every commit as a
Conventional Commit and writes a Markdown changelog grouped by commit type.

The next semantic version is derived from the commits since the latest version
tag: a breaking change bumps major, a feature bumps minor, a fix bumps patch;
other types leave it unchanged.

Running convlog without a subcommand is the same as 'convlog generate'.`,
	Example: `  # Write CHANGELOG.md for everything since the latest tag
  convlog --from v1.2.0

  # Preview without writing
  convlog --dry-run

  # One section per tagged release
  convlog generate --multi-release

  # Print the next version
  convlog next`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureDebugLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path inside the git repository")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Print debug logs to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	addGenerateFlags(rootCmd)
}

// configureDebugLogging routes the library debug hooks to stderr when --debug is set.
func configureDebugLogging(cmd *cobra.Command) {
	if !debugMode {
		git.SetDebugLogger(nil)
		release.SetDebugLogger(nil)
		generate.SetDebugLogger(nil)
		watch.SetDebugLogger(nil)
		return
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	git.SetDebugLogger(log.Printf)
	release.SetDebugLogger(log.Printf)
	generate.SetDebugLogger(log.Printf)
	watch.SetDebugLogger(log.Printf)
}

// Execute runs the root command and prints any error with its remediation.
// The returned error carries the exit code, see ExitCode.
func Execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}

	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = usageError(cmd, err)
	}
	clierrors.FprintError(rootCmd.ErrOrStderr(), cliErr)
	return cliErr
}

// usageError classifies an error from cobra's own flag and argument parsing.
func usageError(cmd *cobra.Command, err error) *clierrors.CLIError {
	if cmd == nil {
		cmd = rootCmd
	}
	cliErr := clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
		fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()))
	cliErr.Err = err
	return cliErr
}
