package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableInput reports a missing, empty or short-read input file.
	ErrUnreadableInput = errors.New("ingest: unreadable input")
	// ErrMalformedLine reports a line whose tokens do not form a vector of the sniffed dimensionality.
	ErrMalformedLine = errors.New("ingest: malformed vector line")
	// ErrEmptyCorpus reports an input with no non-blank lines or a zero dimensionality.
	ErrEmptyCorpus = errors.New("ingest: no vectors in input")
)

// MalformedLineError describes a rejected input line.
type MalformedLineError struct {
	// Line is the 1-based physical line number in the input file.
	Line int
	// Vector is the 1-based ordinal of the vector, blank lines not counted.
	Vector int
	// Want is the expected number of components.
	Want int
	// Got is the number of tokens found; -1 when the line failed on a bad token.
	Got int
	// Token holds the offending token when Got is -1.
	Token string
}

func (e *MalformedLineError) Error() string {
	if e.Got < 0 {
		return fmt.Sprintf("line %d: invalid number %q", e.Line, e.Token)
	}
	return fmt.Sprintf("line %d: expected %d values, found %d", e.Line, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrMalformedLine.
func (e *MalformedLineError) Unwrap() error { return ErrMalformedLine }
