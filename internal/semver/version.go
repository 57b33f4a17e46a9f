// Package semver computes the next semantic version from a set of parsed commits.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidVersion is wrapped by every version parsing failure.
var ErrInvalidVersion = errors.New("invalid version")

// DefaultInitial is the version assumed when the repository has no version tags.
var DefaultInitial = Version{Major: 0, Minor: 1, Patch: 0}

// versionPattern matches MAJOR.MINOR.PATCH with an optional "v" prefix.
var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)$`)

// Version is a MAJOR.MINOR.PATCH triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// InvalidVersionError is returned when a string is not a MAJOR.MINOR.PATCH triple.
type InvalidVersionError struct {
	Value string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%s %q (expected: MAJOR.MINOR.PATCH)", ErrInvalidVersion, e.Value)
}

// Unwrap allows errors.Is(err, ErrInvalidVersion).
func (e *InvalidVersionError) Unwrap() error {
	return ErrInvalidVersion
}

// Parse parses "1.2.3" or "v1.2.3".
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &InvalidVersionError{Value: s}
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &InvalidVersionError{Value: s}
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// String returns the bare MAJOR.MINOR.PATCH form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to
// or greater than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Latest returns the first tag name in newest-first order that is a version.
// The boolean is false when none of the names is a version.
func Latest(tagNames []string) (Version, bool) {
	for _, name := range tagNames {
		if v, err := Parse(name); err == nil {
			return v, true
		}
	}
	return Version{}, false
}
