package commit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is wrapped by every header grammar failure.
	ErrInvalidFormat = errors.New("invalid commit format")
	// ErrMalformedTimestamp is wrapped when the commit timestamp cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// ParseError describes a commit message that does not follow the
// Conventional Commits header grammar.
type ParseError struct {
	Hash   string
	Header string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Hash != "" {
		return fmt.Sprintf("%s: commit %s: %s (header %q)", ErrInvalidFormat, e.Hash, e.Reason, e.Header)
	}
	return fmt.Sprintf("%s: %s (header %q)", ErrInvalidFormat, e.Reason, e.Header)
}

// Unwrap allows errors.Is(err, ErrInvalidFormat).
func (e *ParseError) Unwrap() error {
	return ErrInvalidFormat
}

// TimestampError describes a commit whose timestamp is not a recognized date.
type TimestampError struct {
	Hash  string
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: commit %s: %q", ErrMalformedTimestamp, e.Hash, e.Value)
}

// Unwrap allows errors.Is(err, ErrMalformedTimestamp).
func (e *TimestampError) Unwrap() error {
	return ErrMalformedTimestamp
}
