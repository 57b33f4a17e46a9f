package commit

import (
	"regexp"
	"strings"
	"time"
)

// headerPattern is the Conventional Commits header grammar:
// type[(scope)][!]: description
var headerPattern = regexp.MustCompile(`^(?P<type>[a-z]+)(?:\((?P<scope>[^)]*)\))?(?P<breaking>!?): (?P<description>.*)$`)

const paragraphBreak = "\n\n"

// timestampLayouts are tried in order when parsing commit timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse turns a raw commit triple into a Commit.
// It returns a *ParseError when the header does not match the grammar or the
// description is blank, and a *TimestampError when the timestamp is not a
// recognized date.
func Parse(hash, message, timestamp string) (Commit, error) {
	header, body, footer := splitMessage(normalizeMessage(message))

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return Commit{}, &ParseError{Hash: hash, Header: header, Reason: "header does not match type(scope)!: description"}
	}

	description := strings.TrimSpace(m[headerPattern.SubexpIndex("description")])
	if description == "" {
		return Commit{}, &ParseError{Hash: hash, Header: header, Reason: "description cannot be empty"}
	}

	ts, err := parseTimestamp(timestamp)
	if err != nil {
		return Commit{}, &TimestampError{Hash: hash, Value: timestamp}
	}

	breaking := m[headerPattern.SubexpIndex("breaking")] == "!"

	// A body carrying the marker with no explicit footer is promoted to footer.
	if footer == "" && body != "" && strings.Contains(body, BreakingMarker) {
		footer, body = body, ""
		breaking = true
	} else if strings.Contains(footer, BreakingMarker) {
		breaking = true
	}

	return Commit{
		hash:        hash,
		typ:         m[headerPattern.SubexpIndex("type")],
		scope:       m[headerPattern.SubexpIndex("scope")],
		description: description,
		breaking:    breaking,
		body:        body,
		footer:      footer,
		timestamp:   ts,
	}, nil
}

// ParseAll parses every raw commit, aborting on the first failure so that
// no partial batch is ever rendered.
func ParseAll(raws []Raw) ([]Commit, error) {
	commits := make([]Commit, 0, len(raws))
	for _, r := range raws {
		c, err := Parse(r.Hash, r.Message, r.Timestamp)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// normalizeMessage converts CRLF line endings and literal "\n\n" escape
// sequences into real paragraph breaks and drops trailing whitespace.
func normalizeMessage(message string) string {
	message = strings.TrimRight(strings.ReplaceAll(message, "\r\n", "\n"), " \t\n")
	if strings.Contains(message, `\n\n`) {
		message = strings.ReplaceAll(message, `\n\n`, paragraphBreak)
	}
	return message
}

// splitMessage splits a message into header, body and footer on blank lines.
// Paragraphs beyond the third are appended to the footer.
func splitMessage(message string) (header, body, footer string) {
	parts := strings.Split(message, paragraphBreak)
	header = parts[0]
	if len(parts) > 1 {
		body = parts[1]
	}
	if len(parts) > 2 {
		footer = strings.Join(parts[2:], paragraphBreak)
	}
	return header, body, footer
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
