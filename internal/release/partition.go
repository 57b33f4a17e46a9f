// Package release partitions a repository's history into per-release windows
// bounded by consecutive version tags.
//
// The package computes window boundaries only; fetching the commits inside a
// window is delegated to a CommitSource.
package release

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// HeadRef names the synthetic pseudo-tag for the unreleased working state.
	HeadRef = "HEAD"
	// UnreleasedLabel is the version label of the HEAD window.
	UnreleasedLabel = "Unreleased"
)

// tagVersionPattern matches version tags and captures the numeric part.
var tagVersionPattern = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// debugLogger is a no-op unless configured via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for partitioning.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Tag is a repository tag as reported by the tag source, newest first.
type Tag struct {
	Name string
	Date time.Time
	Hash string
}

// Window is the half-open commit range (From, To] of one release.
// An empty From means the window reaches back to the start of history.
type Window struct {
	// Name is the raw tag name bounding the window from above ("HEAD" for the open window).
	Name string
	// Label is the display version: the numeric part of the tag or "Unreleased".
	Label string
	// Date is the tag's timestamp.
	Date time.Time
	From string
	To   string
}

// IsUnreleased reports whether this is the synthetic HEAD window.
func (w Window) IsUnreleased() bool {
	return w.Name == HeadRef
}

// Range renders the window as a git range descriptor ("from..to" or "to").
func (w Window) Range() string {
	if w.From == "" {
		return w.To
	}
	return fmt.Sprintf("%s..%s", w.From, w.To)
}

// VersionLabel returns the numeric MAJOR.MINOR.PATCH part of a tag name,
// or "" when the name is not a version tag.
func VersionLabel(name string) string {
	m := tagVersionPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

// FilterVersionTags keeps only version-shaped tags, preserving order.
func FilterVersionTags(tags []Tag) []Tag {
	filtered := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if tagVersionPattern.MatchString(t.Name) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Partition computes release windows from newest-first tags.
//
// Non-version tags are discarded. When to is not HEAD the list starts at the
// tag named to; when from is set it ends at the tag named from (inclusive).
// Bounds naming a tag that is absent are ignored. When to is HEAD a synthetic
// HEAD tag dated now is prepended. The input is never re-sorted.
func Partition(tags []Tag, from, to string, now time.Time) []Window {
	if to == "" {
		to = HeadRef
	}

	bounded := FilterVersionTags(tags)
	logDebug("[release] %d of %d tags are versions", len(bounded), len(tags))

	if to != HeadRef {
		if idx := indexOfTag(bounded, to); idx >= 0 {
			bounded = bounded[idx:]
		} else {
			logDebug("[release] ignoring unknown upper bound %q", to)
		}
	}

	if from != "" {
		if idx := indexOfTag(bounded, from); idx >= 0 {
			bounded = bounded[:idx+1]
		} else {
			logDebug("[release] ignoring unknown lower bound %q", from)
		}
	}

	if to == HeadRef {
		bounded = append([]Tag{{Name: HeadRef, Date: now, Hash: HeadRef}}, bounded...)
	}

	windows := make([]Window, 0, len(bounded))
	for i, current := range bounded {
		w := Window{
			Name: current.Name,
			Date: current.Date,
			To:   current.Name,
		}
		w.Label = VersionLabel(w.Name)
		if w.IsUnreleased() {
			w.Label = UnreleasedLabel
		}
		if i+1 < len(bounded) {
			w.From = bounded[i+1].Name
		}
		windows = append(windows, w)
	}

	return windows
}

// indexOfTag finds a tag by exact name, falling back to the version number
// so "1.2.0" locates "v1.2.0".
func indexOfTag(tags []Tag, name string) int {
	for i, t := range tags {
		if t.Name == name {
			return i
		}
	}

	want := VersionLabel(strings.TrimSpace(name))
	if want == "" {
		return -1
	}
	for i, t := range tags {
		if VersionLabel(t.Name) == want {
			return i
		}
	}
	return -1
}
