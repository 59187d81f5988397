package wordbounds

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern means a compiled pattern was rejected by the matcher.
	// It indicates a bug in pattern synthesis, not bad input.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrMixedNumericToken means a coarse run expected to be purely digits or
	// purely letters contained both.
	ErrMixedNumericToken = errors.New("mixed numeric token")

	// ErrUnknownEngine is returned for an engine name or kind that does not exist.
	ErrUnknownEngine = errors.New("unknown engine")
)

// PatternError carries the pattern the matcher failed to compile.
type PatternError struct {
	Engine  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s engine: compiling %q: %v", e.Engine, e.Pattern, e.Err)
}

// Unwrap exposes both ErrInvalidPattern and the matcher's own error.
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}
