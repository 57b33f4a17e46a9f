package changelog

import (
	"time"

	"github.com/ariel-frischer/convlog/internal/commit"
)

// Release is one section of the changelog: a version label, the release
// date and its commits in history order. Commits may be empty.
type Release struct {
	Version string
	Date    time.Time
	Commits []commit.Commit
}

// HasBreakingChanges returns true if any commit in the release is breaking.
func (r Release) HasBreakingChanges() bool {
	for _, c := range r.Commits {
		if c.IsBreaking() {
			return true
		}
	}
	return false
}

// BreakingChanges returns the breaking commits in their original order,
// without type filtering or deduplication.
func (r Release) BreakingChanges() []commit.Commit {
	var breaking []commit.Commit
	for _, c := range r.Commits {
		if c.IsBreaking() {
			breaking = append(breaking, c)
		}
	}
	return breaking
}

// Format selects the output document format.
type Format int

const (
	// FormatMarkdown renders GitHub-flavored Markdown.
	FormatMarkdown Format = iota
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Options controls which commits are rendered and how.
type Options struct {
	// Types is the ordered set of recognized commit types. Commits of any
	// other type are left out of the type sections.
	Types []string
	// ShowBreaking enables the Breaking Changes section.
	ShowBreaking bool
	Format       Format
}

// DefaultTypes returns the commit types recognized by default.
func DefaultTypes() []string {
	return []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "build", "ci", "chore"}
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Types:        DefaultTypes(),
		ShowBreaking: true,
		Format:       FormatMarkdown,
	}
}

// typeIcons maps commit types to their section icons.
var typeIcons = map[string]string{
	"feat":     "✨",
	"fix":      "🐛",
	"docs":     "📝",
	"style":    "💄",
	"refactor": "♻️",
	"perf":     "⚡️",
	"test":     "✅",
	"build":    "🔧",
	"ci":       "👷",
	"chore":    "🔨",
}

// Icon returns the section icon for a commit type, or "" if it has none.
func Icon(commitType string) string {
	return typeIcons[commitType]
}
