package cli

import (
	"context"
	"errors"

	"github.com/ariel-frischer/convlog/internal/commit"
	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/semver"
)

// toCLIError classifies an error from the library packages. Malformed
// repository content is a Data error; a failing collaborator is Runtime.
func toCLIError(err error) *clierrors.CLIError {
	if err == nil {
		return nil
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		parseErr   *commit.ParseError
		rangeErr   *git.RangeError
		versionErr *semver.InvalidVersionError
		configErr  *config.ValidationError
		unknownKey config.ErrUnknownKey
	)

	switch {
	case errors.As(err, &parseErr):
		return clierrors.InvalidCommit(parseErr.Hash, err)
	case errors.Is(err, commit.ErrMalformedTimestamp):
		return clierrors.Wrap(err, clierrors.Data)
	case errors.As(err, &versionErr):
		return clierrors.InvalidVersion(versionErr.Value, err)
	case errors.As(err, &rangeErr):
		return clierrors.InvalidRange(rangeErr.Ref, err)
	case errors.Is(err, git.ErrNotRepository):
		return clierrors.NotARepository(repoPath, err)
	case errors.Is(err, config.ErrConfigNotFound),
		errors.As(err, &configErr),
		errors.As(err, &unknownKey):
		return clierrors.ConfigFile(err)
	case errors.Is(err, context.Canceled):
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "interrupted")
	default:
		return clierrors.CommitSourceFailed(err)
	}
}
