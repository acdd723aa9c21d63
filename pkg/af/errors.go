package af

import (
	"errors"
	"fmt"
)

// ErrMalformedInput reports a syntax error in an initial file or update
// line, or duplicate elements at load. Never retried; surfaced with
// position context where available.
var ErrMalformedInput = errors.New("malformed input")

// ParseError is a syntax error with byte-offset context. It matches
// ErrMalformedInput under errors.Is.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed input at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedInput
}

func parseErrorf(offset int, format string, args ...any) error {
	return &ParseError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
