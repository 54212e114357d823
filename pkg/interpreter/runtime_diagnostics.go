package interpreter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/driver"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

// maxDiagnosticNotes caps the call-stack notes attached to one diagnostic.
const maxDiagnosticNotes = 8

type runtimeCallFrame struct {
	node     *ast.FunctionCall
	function string
}

type runtimeDiagnosticContext struct {
	node      ast.Node
	callStack []runtimeCallFrame
}

// runtimeDiagnosticError carries the node that failed and the calls active at
// that moment. It unwraps to the underlying *runtime.Error.
type runtimeDiagnosticError struct {
	err     error
	context *runtimeDiagnosticContext
}

func (e runtimeDiagnosticError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e runtimeDiagnosticError) Unwrap() error {
	return e.err
}

type RuntimeDiagnosticNote struct {
	Message  string
	Location driver.DiagnosticLocation
}

type RuntimeDiagnostic struct {
	Severity driver.DiagnosticSeverity
	Kind     runtime.ErrorKind
	Message  string
	Location driver.DiagnosticLocation
	Notes    []RuntimeDiagnosticNote
}

// BuildRuntimeDiagnostic converts an evaluation error into a diagnostic that
// points at the failing node, with one note per enclosing call site.
func (i *Interpreter) BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	message := runtimeMessageFromError(err)
	ctx := runtimeContextFromError(err)
	kind, _ := runtime.KindOf(err)

	var location driver.DiagnosticLocation
	if ctx != nil && ctx.node != nil {
		location = i.runtimeLocationFromNode(ctx.node)
	}
	if location == (driver.DiagnosticLocation{}) && ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0; idx-- {
			if ctx.callStack[idx].node == nil {
				continue
			}
			location = i.runtimeLocationFromNode(ctx.callStack[idx].node)
			if location != (driver.DiagnosticLocation{}) {
				break
			}
		}
	}

	var notes []RuntimeDiagnosticNote
	if ctx != nil && len(ctx.callStack) > 0 {
		for idx := len(ctx.callStack) - 1; idx >= 0 && len(notes) < maxDiagnosticNotes; idx-- {
			frame := ctx.callStack[idx]
			if frame.node == nil {
				continue
			}
			noteLocation := i.runtimeLocationFromNode(frame.node)
			if noteLocation == (driver.DiagnosticLocation{}) || runtimeLocationsEqual(noteLocation, location) {
				continue
			}
			notes = append(notes, RuntimeDiagnosticNote{
				Message:  fmt.Sprintf("'%s' called from here", frame.function),
				Location: noteLocation,
			})
		}
	}

	return RuntimeDiagnostic{
		Severity: driver.SeverityError,
		Kind:     kind,
		Message:  message,
		Location: location,
		Notes:    notes,
	}
}

// DescribeRuntimeDiagnostic formats a runtime diagnostic for CLI output.
func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	if strings.HasPrefix(message, "runtime:") {
		message = strings.TrimSpace(strings.TrimPrefix(message, "runtime:"))
	}
	location := driver.FormatDiagnosticLocation(diag.Location)
	var b strings.Builder
	if location != "" {
		fmt.Fprintf(&b, "runtime: %s %s", location, message)
	} else {
		fmt.Fprintf(&b, "runtime: %s", message)
	}
	for _, note := range diag.Notes {
		noteLoc := driver.FormatDiagnosticLocation(note.Location)
		if noteLoc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", noteLoc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

// attachRuntimeContext records node and the current call stack on err. The
// first attachment wins, so the context names the innermost failing node.
func (i *Interpreter) attachRuntimeContext(err error, node ast.Node) error {
	if err == nil || node == nil {
		return err
	}
	if runtimeContextFromError(err) != nil {
		return err
	}
	stack := make([]runtimeCallFrame, len(i.callStack))
	copy(stack, i.callStack)
	return runtimeDiagnosticError{
		err: err,
		context: &runtimeDiagnosticContext{
			node:      node,
			callStack: stack,
		},
	}
}

func runtimeContextFromError(err error) *runtimeDiagnosticContext {
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.context
	}
	return nil
}

func runtimeMessageFromError(err error) string {
	if err == nil {
		return ""
	}
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) && diagErr.err != nil {
		return diagErr.err.Error()
	}
	return err.Error()
}

func (i *Interpreter) runtimeLocationFromNode(node ast.Node) driver.DiagnosticLocation {
	if node == nil {
		return driver.DiagnosticLocation{}
	}
	span := node.Span()
	if span.Start.Line == 0 {
		return driver.DiagnosticLocation{}
	}
	path := ""
	if i.sourcePath != "" {
		path = filepath.ToSlash(i.sourcePath)
	}
	return driver.DiagnosticLocation{
		Path:      path,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

func runtimeLocationsEqual(left, right driver.DiagnosticLocation) bool {
	if left == (driver.DiagnosticLocation{}) || right == (driver.DiagnosticLocation{}) {
		return false
	}
	return left.Path == right.Path && left.Line == right.Line && left.Column == right.Column
}
