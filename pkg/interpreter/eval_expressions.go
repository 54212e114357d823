package interpreter

import (
	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (result runtime.Value, err error) {
	defer func() {
		err = i.attachRuntimeContext(err, node)
	}()
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.NoneLiteral:
		return runtime.None, nil
	case *ast.ArrayLiteral:
		elements := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return &runtime.ArrayValue{Elements: elements}, nil
	case *ast.Identifier:
		return i.env.Get(n.Name)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n)
	case *ast.BlockExpression:
		return i.evaluateBlock(n)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n)
	case nil:
		return runtime.None, nil
	default:
		return nil, runtime.NewError(runtime.TypeError, "unsupported expression %T", node)
	}
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression) (runtime.Value, error) {
	condVal, err := i.evaluateExpression(expr.Condition)
	if err != nil {
		return nil, err
	}
	cond, ok := condVal.(runtime.BoolValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "if condition must be bool, got %s", condVal.Kind())
	}
	if cond.Val {
		return i.evaluateExpression(expr.Then)
	}
	if expr.Else == nil {
		return runtime.None, nil
	}
	return i.evaluateExpression(expr.Else)
}

// evaluateBlock runs the body in exactly one new frame, popped on every exit.
func (i *Interpreter) evaluateBlock(block *ast.BlockExpression) (runtime.Value, error) {
	i.env.PushFrame()
	defer i.env.PopFrame()
	for _, stmt := range block.Body {
		if _, err := i.evaluateStatement(stmt); err != nil {
			return nil, err
		}
	}
	if block.Result == nil {
		return runtime.None, nil
	}
	return i.evaluateExpression(block.Result)
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryNegate:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(runtime.TypeError, "unary '-' requires a number, got %s", operand.Kind())
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtime.NewError(runtime.TypeError, "unsupported unary operator %q", expr.Operator)
	}
}

// evaluateFunctionCall evaluates the callee, then the arguments left to right
// in the caller's environment. The callee must be a function only once every
// argument has been evaluated.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall) (runtime.Value, error) {
	calleeVal, err := i.evaluateExpression(call.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.evaluateExpression(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	fn, ok := calleeVal.(*runtime.FunctionValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "cannot call a value of kind %s", calleeVal.Kind())
	}
	return i.callFunction(fn, args, call)
}

// callFunction evaluates fn's body against the global frame plus a frame
// holding its parameters. The caller's local frames are detached for the
// duration of the call and restored unchanged afterwards.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, call *ast.FunctionCall) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, runtime.NewError(runtime.ArityError, "function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(i.callStack) >= i.maxCallDepth {
		return nil, runtime.NewError(runtime.StackOverflow, "call depth exceeded %d while calling '%s'", i.maxCallDepth, fn.Name)
	}

	i.callStack = append(i.callStack, runtimeCallFrame{node: call, function: fn.Name})
	defer func() {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}()

	suspended := i.env.Suspend()
	defer i.env.Resume(suspended)

	i.env.PushFrame()
	for idx, param := range fn.Params {
		i.env.Define(param, args[idx])
	}
	return i.evaluateExpression(fn.Body)
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression) (runtime.Value, error) {
	objVal, err := i.evaluateExpression(expr.Object)
	if err != nil {
		return nil, err
	}
	arr, ok := objVal.(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "cannot index a value of kind %s", objVal.Kind())
	}
	idxVal, err := i.evaluateExpression(expr.Index)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(runtime.NumberValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "array index must be a number, got %s", idxVal.Kind())
	}
	if idx.Val < 0 || int(idx.Val) >= len(arr.Elements) {
		return nil, runtime.NewError(runtime.IndexOutOfBounds, "index %d out of bounds for array of length %d", idx.Val, len(arr.Elements))
	}
	return arr.Elements[idx.Val], nil
}
