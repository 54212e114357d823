package parser

import (
	"errors"
	"fmt"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
)

// SourceLocation captures a source span for parser diagnostics.
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParseError includes a message plus the source location and the construct the
// parser expected at that point.
type ParseError struct {
	Message  string
	Location SourceLocation
	Expected string
	Found    string

	incomplete bool
}

func (e *ParseError) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Location.Line, e.Location.Column)
	}
	return e.Message
}

// Incomplete reports whether parsing failed only because input ended early, so
// more text could still make the source valid.
func (e *ParseError) Incomplete() bool {
	return e != nil && e.incomplete
}

// IsIncomplete reports whether err is a ParseError raised at end of input.
func IsIncomplete(err error) bool {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Incomplete()
	}
	return false
}

func newParseError(pos ast.Position, expected, found, message string) *ParseError {
	return &ParseError{
		Message:  message,
		Expected: expected,
		Found:    found,
		Location: SourceLocation{
			Line:      pos.Line,
			Column:    pos.Column,
			EndLine:   pos.Line,
			EndColumn: pos.Column,
		},
	}
}

func unexpectedToken(tok token, expected string) *ParseError {
	message := fmt.Sprintf("parser: syntax error: expected %s, found %s", expected, tok.describe())
	err := newParseError(tok.start, expected, tok.describe(), message)
	err.Location.EndLine = tok.end.Line
	err.Location.EndColumn = tok.end.Column
	err.incomplete = tok.kind == tokEOF
	return err
}
