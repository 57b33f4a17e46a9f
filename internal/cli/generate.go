package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/generate"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/progress"
	"github.com/ariel-frischer/convlog/internal/watch"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Write a changelog for a commit range (gen)",
	Long: `Parse every commit in the range as a Conventional Commit and write a Markdown
changelog grouped by commit type.

The range is (--from, --to]: commits reachable from --to but not from --from.
Without --from the whole history up to --to is used.

The release is labelled with the next semantic version computed from the latest
version tag (or the configured initial version) unless --release is given.
With --multi-release the range is split at version tags and every release gets
its own section; commits after the newest tag are listed as "Unreleased".

A single malformed commit aborts the run and nothing is written.`,
	Example: `  # Changes since v1.2.0 into CHANGELOG.md
  convlog generate --from v1.2.0

  # Explicit release label and output file
  convlog generate --from v1.2.0 --release 1.3.0-rc.1 -o RELEASE_NOTES.md

  # Whole history, one section per tag, printed to the terminal
  convlog generate -m --dry-run

  # Keep CHANGELOG.md current while working
  convlog generate -m --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

func init() {
	generateCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

// addGenerateFlags registers the generate flags. They are shared by the root
// command, which runs generate by default.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start of the range, exclusive (tag, branch or hash)")
	cmd.Flags().String("to", "HEAD", "End of the range, inclusive")
	cmd.Flags().StringP("output", "o", "", "Output file (default: output_file from config)")
	cmd.Flags().StringP("release", "r", "", "Release label to use instead of the computed version")
	cmd.Flags().Bool("dry-run", false, "Print the changelog instead of writing it")
	cmd.Flags().BoolP("multi-release", "m", false, "One section per version tag in the range")
	cmd.Flags().Bool("plain", false, "With --dry-run, print raw Markdown without styling")
	cmd.Flags().Bool("watch", false, "Regenerate whenever branches or tags change")
}

type generateOptions struct {
	From         string
	To           string
	Output       string
	Release      string
	DryRun       bool
	MultiRelease bool
	Plain        bool
	Watch        bool
}

func readGenerateOptions(cmd *cobra.Command) generateOptions {
	flags := cmd.Flags()
	var opts generateOptions
	opts.From, _ = flags.GetString("from")
	opts.To, _ = flags.GetString("to")
	opts.Output, _ = flags.GetString("output")
	opts.Release, _ = flags.GetString("release")
	opts.DryRun, _ = flags.GetBool("dry-run")
	opts.MultiRelease, _ = flags.GetBool("multi-release")
	opts.Plain, _ = flags.GetBool("plain")
	opts.Watch, _ = flags.GetBool("watch")
	return opts
}

// environment is the repository and configuration a command runs against.
type environment struct {
	repo      *git.Repository
	cfg       *config.Configuration
	generator *generate.Generator
}

// loadEnvironment opens the repository at --repo and loads the configuration,
// looking for a project config file at the repository root.
func loadEnvironment() (*environment, error) {
	repo, err := git.Open(repoPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath: configPath,
		ProjectDir: repo.Root(),
	})
	if err != nil {
		return nil, err
	}

	initial, err := cfg.InitialSemver()
	if err != nil {
		return nil, err
	}

	repo.SkipMerges = cfg.SkipMergeCommits

	gen := generate.New(repo, repo)
	gen.Options = cfg.RenderOptions()
	gen.InitialVersion = initial
	gen.Concurrency = cfg.FetchConcurrency

	return &environment{repo: repo, cfg: cfg, generator: gen}, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts := readGenerateOptions(cmd)
	if opts.Release != "" && opts.MultiRelease {
		return clierrors.InvalidFlagCombination("--release with --multi-release",
			"Multi-release sections are labelled from their tags")
	}

	env, err := loadEnvironment()
	if err != nil {
		return toCLIError(err)
	}

	if err := generateOnce(cmd.Context(), cmd, env, opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watchAndRegenerate(cmd, env.repo.GitDir(), opts)
}

// generateOnce builds the changelog once and writes or prints it.
func generateOnce(ctx context.Context, cmd *cobra.Command, env *environment, opts generateOptions) error {
	out := cmd.OutOrStdout()
	status := progress.NewIndicator(out, progress.DetectFor(out))

	status.Start("Reading commit history")
	var (
		result *generate.Result
		err    error
	)
	if opts.MultiRelease {
		result, err = env.generator.Multi(ctx, generate.MultiRequest{From: opts.From, To: opts.To})
	} else {
		result, err = env.generator.Single(ctx, generate.SingleRequest{From: opts.From, To: opts.To, Release: opts.Release})
	}

	switch {
	case errors.Is(err, generate.ErrNoCommits):
		status.Stop()
		fmt.Fprintln(out, "No commits found in the specified range.")
		return nil
	case errors.Is(err, generate.ErrNoReleases):
		status.Stop()
		fmt.Fprintln(out, "No releases found in the specified range.")
		return nil
	case err != nil:
		status.Fail("Reading commit history failed")
		return toCLIError(err)
	}
	status.Stop()

	if result.FromInitial {
		fmt.Fprintf(cmd.ErrOrStderr(), "No version tags found, starting with %s\n", env.generator.InitialVersion)
	}

	if opts.DryRun {
		return printChangelog(out, result.Markdown, opts.Plain)
	}

	output := opts.Output
	if output == "" {
		output = env.cfg.OutputFile
	}
	if err := os.WriteFile(output, []byte(result.Markdown), 0o644); err != nil {
		status.Fail("Changelog was not written")
		return clierrors.FileNotWritable(output, err)
	}

	if opts.MultiRelease {
		status.Succeed(fmt.Sprintf("Changelog generated successfully for %d releases and written to %s", len(result.Releases), output))
	} else {
		status.Succeed(fmt.Sprintf("Changelog generated successfully for version %s and written to %s", result.Version, output))
	}
	return nil
}

// printChangelog writes the document to out, styled and wrapped to out's
// width only on a terminal.
func printChangelog(out io.Writer, markdown string, plain bool) error {
	caps := progress.DetectFor(out)
	opts := changelog.FormatOptions{Plain: plain || !caps.IsTTY, MaxWidth: caps.Width}
	if err := changelog.FormatTerminal(markdown, out, opts); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}

// watchAndRegenerate reruns generation after every ref change until the
// command context is cancelled. Failures are reported and the watch goes on.
func watchAndRegenerate(cmd *cobra.Command, gitDir string, opts generateOptions) error {
	watcher, err := watch.New(gitDir, 0)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer watcher.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for ref changes (Ctrl+C to stop)\n", gitDir)

	err = watcher.Run(cmd.Context(), func(ctx context.Context) error {
		// Reopen so new objects and packfiles are visible.
		env, err := loadEnvironment()
		if err == nil {
			err = generateOnce(ctx, cmd, env, opts)
		}
		if err != nil {
			clierrors.FprintError(cmd.ErrOrStderr(), toCLIError(err))
		}
		return nil
	})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}
