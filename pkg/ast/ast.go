package ast

type NodeType string

const (
	NodeProgram            NodeType = "Program"
	NodeIdentifier         NodeType = "Identifier"
	NodeNumberLiteral      NodeType = "NumberLiteral"
	NodeBooleanLiteral     NodeType = "BooleanLiteral"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeArrayLiteral       NodeType = "ArrayLiteral"
	NodeNoneLiteral        NodeType = "NoneLiteral"
	NodeIfExpression       NodeType = "IfExpression"
	NodeBlockExpression    NodeType = "BlockExpression"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeIndexExpression    NodeType = "IndexExpression"
	NodeLetStatement       NodeType = "LetStatement"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeForLoop            NodeType = "ForLoop"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

// Expression nodes are also statements: an expression in statement position is
// evaluated and its value discarded.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Program

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	if body == nil {
		body = make([]Statement, 0)
	}
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value int32 `json:"value"`
}

func NewNumberLiteral(value int32) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	if elements == nil {
		elements = make([]Expression, 0)
	}
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker
}

func NewNoneLiteral() *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral)}
}

// IfExpression yields None when the condition is false and Else is nil.
type IfExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else,omitempty"`
}

func NewIfExpression(condition, then, elseExpr Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: elseExpr}
}

// BlockExpression evaluates Body in a fresh scope; its value is Result, or None
// when Result is nil.
type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Body   []Statement `json:"body"`
	Result Expression  `json:"result,omitempty"`
}

func NewBlockExpression(body []Statement, result Expression) *BlockExpression {
	if body == nil {
		body = make([]Statement, 0)
	}
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body, Result: result}
}

// Operators

type UnaryOperator string

const (
	UnaryNegate UnaryOperator = "-"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryOperator string

const (
	BinaryAdd      BinaryOperator = "+"
	BinarySubtract BinaryOperator = "-"
	BinaryMultiply BinaryOperator = "*"
	BinaryDivide   BinaryOperator = "/"
	BinaryModulo   BinaryOperator = "%"
	BinaryRange    BinaryOperator = ".."
	BinaryAssign   BinaryOperator = "="
	BinaryEqual    BinaryOperator = "=="
)

// BinaryExpression covers arithmetic, range construction, assignment and
// equality. A Range with a nil Right operand is open-ended.
type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right,omitempty"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	if args == nil {
		args = make([]Expression, 0)
	}
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// Statements

type LetStatement struct {
	nodeImpl
	statementMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewLetStatement(name *Identifier, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Name: name, Value: value}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name   *Identifier   `json:"name"`
	Params []*Identifier `json:"params"`
	Body   Expression    `json:"body"`
}

func NewFunctionDefinition(name *Identifier, params []*Identifier, body Expression) *FunctionDefinition {
	if params == nil {
		params = make([]*Identifier, 0)
	}
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Params: params, Body: body}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Binding  *Identifier `json:"binding"`
	Iterable Expression  `json:"iterable"`
	Body     Expression  `json:"body"`
}

func NewForLoop(binding *Identifier, iterable, body Expression) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Binding: binding, Iterable: iterable, Body: body}
}
