package errors

import "fmt"

// Common error messages for the convlog CLI.
// These templates ensure consistent, actionable error messages.

// InvalidCommit creates an error for a commit message that is not a
// Conventional Commit. No changelog is written when this occurs.
func InvalidCommit(hash string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Data,
		fmt.Sprintf("commit %s is not a Conventional Commit", hash),
		"Commit headers must look like: type(scope)!: description",
		"Inspect it with: git show --stat "+hash,
		"Narrow the range with --from to skip older history",
		"Or set skip_merge_commits: true if the commit is a merge",
	)
	if cliErr != nil {
		cliErr.Commit = hash
	}
	return cliErr
}

// InvalidVersion creates an error for a malformed version string.
func InvalidVersion(value string, err error) *CLIError {
	return WrapWithMessage(err, Data,
		fmt.Sprintf("invalid version %q", value),
		"Versions must be MAJOR.MINOR.PATCH with an optional leading v (e.g., v1.2.3)",
	)
}

// InvalidRange creates an error for a --from/--to bound that does not resolve.
func InvalidRange(ref string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("unknown revision %q", ref),
		"List tags with: git tag --sort=-v:refname",
		"Use a tag, branch, HEAD or commit hash for --from and --to",
	)
}

// NotARepository creates an error when no git repository is found.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("not a git repository: %s", path),
		"Run convlog inside a git repository",
		"Or point at one with --repo <path>",
	)
}

// ConfigFile creates an error for a config file that cannot be loaded.
func ConfigFile(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check the file for YAML or JSON syntax errors",
		"List valid keys with: convlog config keys",
		"Show which files are read with: convlog config path",
	)
}

// CommitSourceFailed creates an error when reading history fails.
func CommitSourceFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"reading repository history failed",
		"Run with --debug for details",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'convlog <command> --help' to see valid options",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}
