package interpreter

import (
	"math"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

// evaluateStatement runs one statement. Expression statements yield their
// value; every other statement yields None.
func (i *Interpreter) evaluateStatement(node ast.Statement) (result runtime.Value, err error) {
	defer func() {
		err = i.attachRuntimeContext(err, node)
	}()
	switch n := node.(type) {
	case *ast.LetStatement:
		value, err := i.evaluateExpression(n.Value)
		if err != nil {
			return nil, err
		}
		i.env.Define(n.Name.Name, value)
		return runtime.None, nil
	case *ast.FunctionDefinition:
		i.env.Define(n.Name.Name, runtime.NewFunction(n))
		return runtime.None, nil
	case *ast.ForLoop:
		return runtime.None, i.evaluateForLoop(n)
	case ast.Expression:
		return i.evaluateExpression(n)
	default:
		return nil, runtime.NewError(runtime.TypeError, "unsupported statement %T", node)
	}
}

func (i *Interpreter) evaluateForLoop(loop *ast.ForLoop) error {
	iterable, err := i.evaluateExpression(loop.Iterable)
	if err != nil {
		return err
	}
	switch it := iterable.(type) {
	case *runtime.ArrayValue:
		for _, el := range it.Elements {
			if err := i.runIteration(loop, el); err != nil {
				return err
			}
		}
		return nil
	case runtime.RangeValue:
		// An open range stops once the counter would leave int32.
		end := int64(math.MaxInt32) + 1
		if it.Bounded {
			end = int64(it.End)
		}
		for cur := int64(it.Start); cur < end; cur++ {
			if err := i.runIteration(loop, runtime.NumberValue{Val: int32(cur)}); err != nil {
				return err
			}
		}
		return nil
	default:
		return runtime.NewError(runtime.TypeError, "cannot iterate over %s", iterable.Kind())
	}
}

func (i *Interpreter) runIteration(loop *ast.ForLoop, element runtime.Value) error {
	i.env.PushFrame()
	defer i.env.PopFrame()
	i.env.Define(loop.Binding.Name, element)
	_, err := i.evaluateExpression(loop.Body)
	return err
}
