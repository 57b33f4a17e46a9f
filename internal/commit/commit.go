// Package commit parses Conventional Commits messages into structured records.
//
// A Commit is created exclusively by Parse and is never mutated afterwards;
// its fields are exposed through accessor methods only.
package commit

import "time"

// BreakingMarker is the footer token that flags a breaking change.
const BreakingMarker = "BREAKING CHANGE:"

// Raw is a commit as supplied by the commit source: short hash, full
// message and the committer timestamp as text.
type Raw struct {
	Hash      string
	Message   string
	Timestamp string
}

// Commit is a parsed Conventional Commits record.
type Commit struct {
	hash        string
	typ         string
	scope       string
	description string
	breaking    bool
	body        string
	footer      string
	timestamp   time.Time
}

// Hash returns the short commit hash.
func (c Commit) Hash() string { return c.hash }

// Type returns the lowercase commit type (e.g., "feat").
func (c Commit) Type() string { return c.typ }

// Scope returns the commit scope, or "" when the header has none.
func (c Commit) Scope() string { return c.scope }

// HasScope reports whether the header carried a non-empty scope.
func (c Commit) HasScope() bool { return c.scope != "" }

// Description returns the trimmed header description.
func (c Commit) Description() string { return c.description }

// IsBreaking reports whether the commit is a breaking change.
func (c Commit) IsBreaking() bool { return c.breaking }

// Body returns the message body, or "" when absent.
func (c Commit) Body() string { return c.body }

// Footer returns the message footer, or "" when absent.
func (c Commit) Footer() string { return c.footer }

// Timestamp returns the commit timestamp.
func (c Commit) Timestamp() time.Time { return c.timestamp }
