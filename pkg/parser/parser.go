package parser

import (
	"fmt"
	"strconv"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
)

// MaxNestingDepth bounds expression nesting so pathological input fails with a
// ParseError instead of exhausting the goroutine stack.
const MaxNestingDepth = 256

type precedence int

const (
	precLowest precedence = iota
	precAssign
	precEqual
	precRange
	precSum
	precProduct
	precPrefix
	precPostfix
)

// infixPrecedence is the operator table for precedence climbing. Postfix call
// and index share the highest level.
var infixPrecedence = map[tokenKind]precedence{
	tokAssign:   precAssign,
	tokEqual:    precEqual,
	tokRange:    precRange,
	tokPlus:     precSum,
	tokMinus:    precSum,
	tokStar:     precProduct,
	tokSlash:    precProduct,
	tokPercent:  precProduct,
	tokLParen:   precPostfix,
	tokLBracket: precPostfix,
}

var binaryOperators = map[tokenKind]ast.BinaryOperator{
	tokAssign:  ast.BinaryAssign,
	tokEqual:   ast.BinaryEqual,
	tokRange:   ast.BinaryRange,
	tokPlus:    ast.BinaryAdd,
	tokMinus:   ast.BinarySubtract,
	tokStar:    ast.BinaryMultiply,
	tokSlash:   ast.BinaryDivide,
	tokPercent: ast.BinaryModulo,
}

// rightAssociative operators recurse at their own level minus one.
var rightAssociative = map[tokenKind]bool{
	tokAssign: true,
}

// Parse converts source text into a Program. Any syntax error aborts parsing
// and is returned as a *ParseError.
func Parse(source string) (*ast.Program, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) previous() token {
	if p.pos == 0 {
		return token{}
	}
	return p.tokens[p.pos-1]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, unexpectedToken(tok, kind.String())
	}
	return p.advance(), nil
}

func (p *parser) finish(node ast.Node, start ast.Position) {
	ast.SetSpan(node, ast.Span{Start: start, End: p.previous().end})
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.peek().start
	body, _, err := p.parseStatements(tokEOF, false)
	if err != nil {
		return nil, err
	}
	program := ast.NewProgram(body)
	p.finish(program, start)
	return program, nil
}

// parseStatements reads statements up to (not including) the terminator. When
// allowTail is set, an expression statement directly followed by the
// terminator is returned separately as the tail.
func (p *parser) parseStatements(terminator tokenKind, allowTail bool) ([]ast.Statement, ast.Expression, error) {
	body := make([]ast.Statement, 0)
	for {
		for p.peek().kind == tokSemicolon {
			p.advance()
		}
		if p.peek().kind == terminator {
			return body, nil, nil
		}
		if p.peek().kind == tokEOF {
			return nil, nil, unexpectedToken(p.peek(), terminator.String())
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}

		switch next := p.peek(); {
		case next.kind == tokSemicolon:
			p.advance()
			body = append(body, stmt)
		case next.kind == terminator:
			if expr, ok := stmt.(ast.Expression); ok && allowTail {
				return body, expr, nil
			}
			body = append(body, stmt)
		case p.previous().kind == tokRBrace, startsDeclaration(next.kind):
			body = append(body, stmt)
		default:
			return nil, nil, unexpectedToken(next, "';'")
		}
	}
}

func (p *parser) parseStatement() (ast.Statement, error) {
	switch p.peek().kind {
	case tokLet:
		return p.parseLet()
	case tokFor:
		return p.parseFor()
	case tokFunc:
		return p.parseFunctionDefinition()
	default:
		return p.parseExpression(precLowest)
	}
}

func (p *parser) parseLet() (ast.Statement, error) {
	start := p.advance().start
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	stmt := ast.NewLetStatement(name, value)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *parser) parseFor() (ast.Statement, error) {
	start := p.advance().start
	binding, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokIn); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	loop := ast.NewForLoop(binding, iterable, body)
	p.finish(loop, start)
	return loop, nil
}

func (p *parser) parseFunctionDefinition() (ast.Statement, error) {
	start := p.advance().start
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	params := make([]*ast.Identifier, 0)
	for p.peek().kind != tokRParen {
		param, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokAssign); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	def := ast.NewFunctionDefinition(name, params, body)
	p.finish(def, start)
	return def, nil
}

func (p *parser) parseIdentifier() (*ast.Identifier, error) {
	tok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	id := ast.NewIdentifier(tok.text)
	ast.SetSpan(id, ast.Span{Start: tok.start, End: tok.end})
	return id, nil
}

// descend charges one level of syntax tree nesting. Callers restore p.depth
// once the nested construct is finished.
func (p *parser) descend() error {
	p.depth++
	if p.depth > MaxNestingDepth {
		tok := p.peek()
		return newParseError(tok.start, "shallower expression", tok.describe(),
			fmt.Sprintf("parser: expression nesting exceeds %d levels", MaxNestingDepth))
	}
	return nil
}

func (p *parser) parseExpression(min precedence) (ast.Expression, error) {
	depth := p.depth
	defer func() { p.depth = depth }()
	if err := p.descend(); err != nil {
		return nil, err
	}

	start := p.peek().start
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		prec, ok := infixPrecedence[tok.kind]
		if !ok || prec <= min {
			return left, nil
		}
		// Each node built here wraps left, so a chain is as deep as it is long.
		if err := p.descend(); err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokLParen:
			left, err = p.parseCall(left, start)
		case tokLBracket:
			left, err = p.parseIndex(left, start)
		case tokRange:
			p.advance()
			var right ast.Expression
			if startsOperand(p.peek().kind) {
				right, err = p.parseExpression(prec)
			}
			if err == nil {
				expr := ast.NewBinaryExpression(ast.BinaryRange, left, right)
				p.finish(expr, start)
				left = expr
			}
		default:
			p.advance()
			next := prec
			if rightAssociative[tok.kind] {
				next = prec - 1
			}
			var right ast.Expression
			right, err = p.parseExpression(next)
			if err == nil {
				expr := ast.NewBinaryExpression(binaryOperators[tok.kind], left, right)
				p.finish(expr, start)
				left = expr
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseCall(callee ast.Expression, start ast.Position) (ast.Expression, error) {
	p.advance()
	args, err := p.parseExpressionList(tokRParen)
	if err != nil {
		return nil, err
	}
	call := ast.NewFunctionCall(callee, args)
	p.finish(call, start)
	return call, nil
}

func (p *parser) parseIndex(object ast.Expression, start ast.Position) (ast.Expression, error) {
	p.advance()
	index, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	expr := ast.NewIndexExpression(object, index)
	p.finish(expr, start)
	return expr, nil
}

// parseExpressionList reads comma separated expressions up to and including
// the closing token. A trailing comma is accepted.
func (p *parser) parseExpressionList(closing tokenKind) ([]ast.Expression, error) {
	items := make([]ast.Expression, 0)
	for p.peek().kind != closing {
		item, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.peek().kind != tokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(closing); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) parsePrefix() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.advance()
		value, err := strconv.ParseInt(tok.text, 10, 32)
		if err != nil {
			return nil, newParseError(tok.start, "32-bit integer", tok.describe(),
				fmt.Sprintf("parser: number literal %s does not fit in a 32-bit integer", tok.text))
		}
		lit := ast.NewNumberLiteral(int32(value))
		p.finish(lit, tok.start)
		return lit, nil
	case tokString:
		p.advance()
		lit := ast.NewStringLiteral(tok.value)
		p.finish(lit, tok.start)
		return lit, nil
	case tokTrue, tokFalse:
		p.advance()
		lit := ast.NewBooleanLiteral(tok.kind == tokTrue)
		p.finish(lit, tok.start)
		return lit, nil
	case tokNone:
		p.advance()
		lit := ast.NewNoneLiteral()
		p.finish(lit, tok.start)
		return lit, nil
	case tokIdent:
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return id, nil
	case tokLParen:
		p.advance()
		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokLBracket:
		p.advance()
		elements, err := p.parseExpressionList(tokRBracket)
		if err != nil {
			return nil, err
		}
		lit := ast.NewArrayLiteral(elements)
		p.finish(lit, tok.start)
		return lit, nil
	case tokLBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return block, nil
	case tokIf:
		return p.parseIf()
	case tokMinus:
		p.advance()
		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}
		expr := ast.NewUnaryExpression(ast.UnaryNegate, operand)
		p.finish(expr, tok.start)
		return expr, nil
	default:
		return nil, unexpectedToken(tok, "expression")
	}
}

func (p *parser) parseBlock() (*ast.BlockExpression, error) {
	open, err := p.expect(tokLBrace)
	if err != nil {
		return nil, err
	}
	body, result, err := p.parseStatements(tokRBrace, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	block := ast.NewBlockExpression(body, result)
	p.finish(block, open.start)
	return block, nil
}

func (p *parser) parseIf() (ast.Expression, error) {
	start := p.advance().start
	condition, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseExpr ast.Expression
	if p.peek().kind == tokElse {
		p.advance()
		if p.peek().kind == tokIf {
			depth := p.depth
			if err = p.descend(); err == nil {
				elseExpr, err = p.parseIf()
			}
			p.depth = depth
		} else {
			var block *ast.BlockExpression
			block, err = p.parseBlock()
			elseExpr = block
		}
		if err != nil {
			return nil, err
		}
	}
	expr := ast.NewIfExpression(condition, then, elseExpr)
	p.finish(expr, start)
	return expr, nil
}

// startsOperand reports whether a token can begin an expression operand. A
// range with no operand after '..' is open-ended.
func startsOperand(kind tokenKind) bool {
	switch kind {
	case tokIdent, tokNumber, tokString, tokTrue, tokFalse, tokNone,
		tokLParen, tokLBracket, tokLBrace, tokIf, tokMinus:
		return true
	default:
		return false
	}
}

// startsDeclaration reports whether a token can only begin a statement, so the
// ';' before it may be left out.
func startsDeclaration(kind tokenKind) bool {
	return kind == tokLet || kind == tokFunc || kind == tokFor
}
