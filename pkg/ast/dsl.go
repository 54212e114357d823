package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value int32) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

func None() *NoneLiteral {
	return NewNoneLiteral()
}

// Expression helpers.

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNegate, operand)
}

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Assign(target *Identifier, value Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryAssign, target, value)
}

func Range(start, end Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryRange, start, end)
}

func OpenRange(start Expression) *BinaryExpression {
	return NewBinaryExpression(BinaryRange, start, nil)
}

func Call(callee string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(callee), args)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func If(condition, then, elseExpr Expression) *IfExpression {
	return NewIfExpression(condition, then, elseExpr)
}

// Block builds a block whose tail is result (nil for a None-valued block).
func Block(result Expression, body ...Statement) *BlockExpression {
	return NewBlockExpression(body, result)
}

// Statement helpers.

func Let(name string, value Expression) *LetStatement {
	return NewLetStatement(ID(name), value)
}

func Fn(name string, params []string, body Expression) *FunctionDefinition {
	ids := make([]*Identifier, 0, len(params))
	for _, param := range params {
		ids = append(ids, ID(param))
	}
	return NewFunctionDefinition(ID(name), ids, body)
}

func For(binding string, iterable, body Expression) *ForLoop {
	return NewForLoop(ID(binding), iterable, body)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}
