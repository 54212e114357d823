package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind names one of the closed set of runtime failures.
type ErrorKind string

const (
	TypeError          ErrorKind = "TypeError"
	UndefinedVariable  ErrorKind = "UndefinedVariable"
	AssignTypeMismatch ErrorKind = "AssignTypeMismatch"
	ArityError         ErrorKind = "ArityError"
	IndexOutOfBounds   ErrorKind = "IndexOutOfBounds"
	DivideByZero       ErrorKind = "DivideByZero"
	StackOverflow      ErrorKind = "StackOverflow"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrType               = &Error{Kind: TypeError}
	ErrUndefinedVariable  = &Error{Kind: UndefinedVariable}
	ErrAssignTypeMismatch = &Error{Kind: AssignTypeMismatch}
	ErrArity              = &Error{Kind: ArityError}
	ErrIndexOutOfBounds   = &Error{Kind: IndexOutOfBounds}
	ErrDivideByZero       = &Error{Kind: DivideByZero}
	ErrStackOverflow      = &Error{Kind: StackOverflow}
)

// Error is a fatal evaluation failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && t.Kind == e.Kind
}

// NewError formats a runtime error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the runtime error kind from err, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind, true
	}
	return "", false
}
