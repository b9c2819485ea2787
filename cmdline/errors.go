package cmdline

import (
	"errors"
	"fmt"
)

var (
	// ErrEscapeAtEnd reports a backslash as the last character.
	ErrEscapeAtEnd = errors.New("escape char at end of string")

	// ErrUnclosedQuote reports a quoted span still open at end of input.
	ErrUnclosedQuote = errors.New("unclosed quote")

	// ErrInvalidCharacter reports a placeholder start inside a placeholder.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrUnclosedPlaceholder reports a ${ without a matching }.
	ErrUnclosedPlaceholder = errors.New("unclosed placeholder")
)

// ParseError describes why a command line could not be
// tokenized. It unwraps to one of the package sentinels.
type ParseError struct {
	// CmdLine is the original, unparsed input.
	CmdLine string

	// Msg is the human readable reason.
	Msg string

	kind error
}

func newParseError(
	cmdLine string,
	kind error,
	msg string,
) *ParseError {
	return &ParseError{
		CmdLine: cmdLine,
		Msg:     msg,
		kind:    kind,
	}
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"parsing command line %q: %s", e.CmdLine, e.Msg,
	)
}

// Unwrap returns the sentinel describing the failure kind.
func (e *ParseError) Unwrap() error {
	return e.kind
}
