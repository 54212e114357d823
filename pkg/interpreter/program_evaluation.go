package interpreter

import (
	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/parser"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

// EntryPoint is the function EvaluateProgram calls after the top-level
// statements have run.
const EntryPoint = "main"

// EvaluateProgram runs the top-level statements of program against a fresh
// global environment and returns the result of calling main().
func (i *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	i.env = runtime.NewEnvironment()
	i.callStack = nil
	for _, stmt := range program.Body {
		if _, err := i.evaluateStatement(stmt); err != nil {
			return nil, err
		}
	}
	return i.CallMain()
}

// EvaluateStatements runs program in the interpreter's persistent environment
// and returns the value of the final statement when it is an expression.
func (i *Interpreter) EvaluateStatements(program *ast.Program) (runtime.Value, error) {
	var last runtime.Value = runtime.None
	for _, stmt := range program.Body {
		val, err := i.evaluateStatement(stmt)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

// CallMain invokes the zero-argument main function bound in the global frame.
func (i *Interpreter) CallMain() (runtime.Value, error) {
	entry, err := i.env.Get(EntryPoint)
	if err != nil {
		return nil, err
	}
	fn, ok := entry.(*runtime.FunctionValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "'%s' must be a function, got %s", EntryPoint, entry.Kind())
	}
	return i.callFunction(fn, nil, nil)
}

// EvaluateSource parses source and evaluates it as a program.
func EvaluateSource(source string, opts ...Option) (runtime.Value, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return New(opts...).EvaluateProgram(program)
}
