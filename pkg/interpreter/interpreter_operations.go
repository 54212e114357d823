package interpreter

import (
	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	switch expr.Operator {
	case ast.BinaryAssign:
		return i.evaluateAssignment(expr)
	case ast.BinaryRange:
		return i.evaluateRange(expr)
	}

	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}

	if expr.Operator == ast.BinaryEqual {
		return evaluateEquality(left, right)
	}
	return evaluateArithmetic(expr.Operator, left, right)
}

// evaluateAssignment evaluates the right side first, then rebinds the target.
// The expression itself is None.
func (i *Interpreter) evaluateAssignment(expr *ast.BinaryExpression) (runtime.Value, error) {
	value, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	target, ok := expr.Left.(*ast.Identifier)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "assignment target must be a variable, got %s", expr.Left.NodeType())
	}
	if err := i.env.Assign(target.Name, value); err != nil {
		return nil, err
	}
	return runtime.None, nil
}

// evaluateRange evaluates both bounds before checking that they are numbers.
func (i *Interpreter) evaluateRange(expr *ast.BinaryExpression) (runtime.Value, error) {
	startVal, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	var endVal runtime.Value
	if expr.Right != nil {
		endVal, err = i.evaluateExpression(expr.Right)
		if err != nil {
			return nil, err
		}
	}
	start, ok := startVal.(runtime.NumberValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "range start must be a number, got %s", startVal.Kind())
	}
	if endVal == nil {
		return runtime.RangeValue{Start: start.Val}, nil
	}
	end, ok := endVal.(runtime.NumberValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeError, "range end must be a number, got %s", endVal.Kind())
	}
	return runtime.RangeValue{Start: start.Val, End: end.Val, Bounded: true}, nil
}

func evaluateEquality(left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return runtime.BoolValue{Val: l.Val == r.Val}, nil
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: l.Val == r.Val}, nil
		}
	}
	return nil, runtime.NewError(runtime.TypeError, "cannot compare %s with %s", left.Kind(), right.Kind())
}

// evaluateArithmetic applies an int32 operator. Overflow wraps; the
// quotient truncates toward zero.
func evaluateArithmetic(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtime.NewError(runtime.TypeError, "operator '%s' requires numbers, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case ast.BinaryAdd:
		return runtime.NumberValue{Val: l.Val + r.Val}, nil
	case ast.BinarySubtract:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case ast.BinaryMultiply:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case ast.BinaryDivide:
		if r.Val == 0 {
			return nil, runtime.NewError(runtime.DivideByZero, "division by zero")
		}
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case ast.BinaryModulo:
		if r.Val == 0 {
			return nil, runtime.NewError(runtime.DivideByZero, "modulo by zero")
		}
		return runtime.NumberValue{Val: l.Val % r.Val}, nil
	default:
		return nil, runtime.NewError(runtime.TypeError, "unsupported binary operator %q", op)
	}
}
