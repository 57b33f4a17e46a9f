package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ariel-frischer/convlog/internal/commit"
	"github.com/ariel-frischer/convlog/internal/config"
	clierrors "github.com/ariel-frischer/convlog/internal/errors"
	"github.com/ariel-frischer/convlog/internal/git"
	"github.com/ariel-frischer/convlog/internal/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCLIError(t *testing.T) {
	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"parse error": {
			err:          fmt.Errorf("release 1.0.0: %w", &commit.ParseError{Hash: "abc1234", Header: "oops", Reason: "missing type"}),
			wantCategory: clierrors.Data,
			wantMessage:  "commit abc1234",
		},
		"timestamp error": {
			err:          &commit.TimestampError{Hash: "abc1234", Value: "yesterday"},
			wantCategory: clierrors.Data,
		},
		"invalid version": {
			err:          &semver.InvalidVersionError{Value: "1.x"},
			wantCategory: clierrors.Data,
			wantMessage:  `"1.x"`,
		},
		"range error": {
			err:          fmt.Errorf("reading commits: %w", &git.RangeError{Ref: "v9.9.9", Err: errors.New("reference not found")}),
			wantCategory: clierrors.Argument,
			wantMessage:  `"v9.9.9"`,
		},
		"not a repository": {
			err:          git.ErrNotRepository,
			wantCategory: clierrors.Prerequisite,
		},
		"missing config": {
			err:          fmt.Errorf("%w: x.yml", config.ErrConfigNotFound),
			wantCategory: clierrors.Configuration,
		},
		"unknown key": {
			err:          fmt.Errorf("x.yml: %w", config.ErrUnknownKey{Key: "typo"}),
			wantCategory: clierrors.Configuration,
		},
		"validation error": {
			err:          &config.ValidationError{FilePath: "x.yml", Message: "bad"},
			wantCategory: clierrors.Configuration,
		},
		"cancelled": {
			err:          context.Canceled,
			wantCategory: clierrors.Runtime,
			wantMessage:  "interrupted",
		},
		"collaborator failure": {
			err:          errors.New("disk on fire"),
			wantCategory: clierrors.Runtime,
			wantMessage:  "disk on fire",
		},
		"already classified": {
			err:          clierrors.NewArgumentError("bad flag"),
			wantCategory: clierrors.Argument,
			wantMessage:  "bad flag",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cliErr := toCLIError(tt.err)
			require.NotNil(t, cliErr)
			assert.Equal(t, tt.wantCategory, cliErr.Category)
			assert.Contains(t, cliErr.Error(), tt.wantMessage)
			assert.ErrorIs(t, cliErr, tt.err)
		})
	}
}

func TestToCLIError_Nil(t *testing.T) {
	assert.Nil(t, toCLIError(nil))
}
