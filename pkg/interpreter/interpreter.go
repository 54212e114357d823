package interpreter

import (
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested function calls when no option overrides it.
const DefaultMaxCallDepth = 2048

// Interpreter drives evaluation of exp AST nodes. It is not safe for
// concurrent use.
type Interpreter struct {
	env          *runtime.Environment
	maxCallDepth int
	sourcePath   string
	callStack    []runtimeCallFrame
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxCallDepth sets the call depth at which evaluation fails with a
// StackOverflow error. Non-positive values keep the default.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// WithSourcePath records the file the program came from for diagnostics.
func WithSourcePath(path string) Option {
	return func(i *Interpreter) {
		i.sourcePath = path
	}
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		env:          runtime.NewEnvironment(),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Environment returns the interpreter's current environment.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}
