package cli

import (
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
)

// Exit codes for the convlog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution, including an empty range
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (history could not be read, file not written)
	ExitFailure = 1

	// ExitInvalidData indicates a malformed commit message or version string
	ExitInvalidData = 2

	// ExitInvalidArguments indicates invalid command arguments or an unknown revision
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates no git repository was found
	ExitMissingDependencies = 4

	// ExitInvalidConfig indicates a configuration file could not be loaded
	ExitInvalidConfig = 5
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return exitCodeFor(cliErr.Category)
	}
	return ExitFailure
}

func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitInvalidConfig
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	case clierrors.Data:
		return ExitInvalidData
	default:
		return ExitFailure
	}
}
