package semver

import "github.com/ariel-frischer/convlog/internal/commit"

// Bump identifies which part of the version a batch of commits increments.
type Bump int

const (
	BumpNone Bump = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

// String returns the lowercase bump name.
func (b Bump) String() string {
	switch b {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	default:
		return "none"
	}
}

// Classify scans all commits and returns the highest-precedence bump:
// any breaking change, then any feat, then any fix.
func Classify(commits []commit.Commit) Bump {
	var hasBreaking, hasFeat, hasFix bool
	for _, c := range commits {
		if c.IsBreaking() {
			hasBreaking = true
		}
		switch c.Type() {
		case "feat":
			hasFeat = true
		case "fix":
			hasFix = true
		}
	}

	switch {
	case hasBreaking:
		return BumpMajor
	case hasFeat:
		return BumpMinor
	case hasFix:
		return BumpPatch
	default:
		return BumpNone
	}
}

// Apply returns v incremented by b.
func (v Version) Apply(b Bump) Version {
	switch b {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

// Next computes the version that follows current given the commits since it.
func Next(current Version, commits []commit.Commit) Version {
	return current.Apply(Classify(commits))
}

// DetermineNextVersion is the string form of Next. A malformed current
// version is returned as an error rather than defaulted.
func DetermineNextVersion(current string, commits []commit.Commit) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return Next(v, commits).String(), nil
}
