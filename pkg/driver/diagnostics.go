package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SkyArrow256/exp-lang/pkg/parser"
)

// DiagnosticSeverity captures diagnostic levels.
type DiagnosticSeverity string

const SeverityError DiagnosticSeverity = "error"

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// ParserDiagnostic represents a structured parser diagnostic.
type ParserDiagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Location DiagnosticLocation
}

// ParserDiagnosticError wraps a diagnostic for error handling. It unwraps to
// the *parser.ParseError it was built from.
type ParserDiagnosticError struct {
	Diagnostic ParserDiagnostic

	cause error
}

func (e *ParserDiagnosticError) Error() string {
	return e.Diagnostic.Message
}

func (e *ParserDiagnosticError) Unwrap() error {
	return e.cause
}

// NewParserDiagnosticError attaches path to a parse error. Errors that are not
// parse errors are returned unchanged.
func NewParserDiagnosticError(path string, err error) error {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		return err
	}
	return &ParserDiagnosticError{
		Diagnostic: ParserDiagnostic{
			Severity: SeverityError,
			Message:  parseErr.Message,
			Location: DiagnosticLocation{
				Path:      path,
				Line:      parseErr.Location.Line,
				Column:    parseErr.Location.Column,
				EndLine:   parseErr.Location.EndLine,
				EndColumn: parseErr.Location.EndColumn,
			},
		},
		cause: err,
	}
}

// DescribeParserDiagnostic formats a parser diagnostic for CLI output.
func DescribeParserDiagnostic(diag ParserDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	if strings.HasPrefix(message, "parser:") {
		message = strings.TrimSpace(strings.TrimPrefix(message, "parser:"))
	}
	location := FormatDiagnosticLocation(diag.Location)
	if location != "" {
		return fmt.Sprintf("parser: %s %s", location, message)
	}
	return fmt.Sprintf("parser: %s", message)
}

// FormatDiagnosticLocation renders path:line:col, dropping missing parts.
func FormatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	line := loc.Line
	column := loc.Column
	switch {
	case path != "" && line > 0 && column > 0:
		return fmt.Sprintf("%s:%d:%d", path, line, column)
	case path != "" && line > 0:
		return fmt.Sprintf("%s:%d", path, line)
	case path != "":
		return path
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d", line, column)
	case line > 0:
		return fmt.Sprintf("line %d", line)
	default:
		return ""
	}
}
