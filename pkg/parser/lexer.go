package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokLet
	tokFor
	tokIn
	tokFunc
	tokIf
	tokElse
	tokTrue
	tokFalse
	tokNone
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokSemicolon
	tokAssign
	tokEqual
	tokRange
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
)

var tokenLabels = map[tokenKind]string{
	tokEOF:       "end of input",
	tokIdent:     "identifier",
	tokNumber:    "number",
	tokString:    "string",
	tokLet:       "'let'",
	tokFor:       "'for'",
	tokIn:        "'in'",
	tokFunc:      "'func'",
	tokIf:        "'if'",
	tokElse:      "'else'",
	tokTrue:      "'true'",
	tokFalse:     "'false'",
	tokNone:      "'none'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokComma:     "','",
	tokSemicolon: "';'",
	tokAssign:    "'='",
	tokEqual:     "'=='",
	tokRange:     "'..'",
	tokPlus:      "'+'",
	tokMinus:     "'-'",
	tokStar:      "'*'",
	tokSlash:     "'/'",
	tokPercent:   "'%'",
}

func (k tokenKind) String() string {
	if label, ok := tokenLabels[k]; ok {
		return label
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords = map[string]tokenKind{
	"let":   tokLet,
	"for":   tokFor,
	"in":    tokIn,
	"func":  tokFunc,
	"if":    tokIf,
	"else":  tokElse,
	"true":  tokTrue,
	"false": tokFalse,
	"none":  tokNone,
}

type token struct {
	kind tokenKind
	text string
	// value holds the decoded contents of string literals.
	value string
	start ast.Position
	end   ast.Position
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIdent, tokNumber:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	case tokString:
		return "string literal"
	default:
		return t.kind.String()
	}
}

type lexer struct {
	src    string
	offset int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, column: 1}
}

func (l *lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.column}
}

func (l *lexer) peekRune() (rune, int) {
	if l.offset >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.offset:])
}

func (l *lexer) advance() rune {
	r, width := l.peekRune()
	if width == 0 {
		return utf8.RuneError
	}
	l.offset += width
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) skipTrivia() {
	for l.offset < len(l.src) {
		r, _ := l.peekRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && strings.HasPrefix(l.src[l.offset:], "//"):
			for l.offset < len(l.src) {
				if next, _ := l.peekRune(); next == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// tokenize scans the whole source up front; programs are small and the parser
// needs one token of lookahead past the current one.
func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipTrivia()
	start := l.position()
	begin := l.offset
	if l.offset >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start}, nil
	}

	r := l.advance()
	emit := func(kind tokenKind) (token, error) {
		return token{kind: kind, text: l.src[begin:l.offset], start: start, end: l.position()}, nil
	}

	switch {
	case isIdentStart(r):
		for {
			next, width := l.peekRune()
			if width == 0 || !isIdentContinue(next) {
				break
			}
			l.advance()
		}
		text := l.src[begin:l.offset]
		if kind, ok := keywords[text]; ok {
			return emit(kind)
		}
		return emit(tokIdent)
	case isDigit(r):
		for {
			next, width := l.peekRune()
			if width == 0 || !isDigit(next) {
				break
			}
			l.advance()
		}
		return emit(tokNumber)
	case r == '"':
		return l.scanString(begin, start)
	}

	switch r {
	case '(':
		return emit(tokLParen)
	case ')':
		return emit(tokRParen)
	case '[':
		return emit(tokLBracket)
	case ']':
		return emit(tokRBracket)
	case '{':
		return emit(tokLBrace)
	case '}':
		return emit(tokRBrace)
	case ',':
		return emit(tokComma)
	case ';':
		return emit(tokSemicolon)
	case '+':
		return emit(tokPlus)
	case '-':
		return emit(tokMinus)
	case '*':
		return emit(tokStar)
	case '/':
		return emit(tokSlash)
	case '%':
		return emit(tokPercent)
	case '=':
		if next, _ := l.peekRune(); next == '=' {
			l.advance()
			return emit(tokEqual)
		}
		return emit(tokAssign)
	case '.':
		if next, _ := l.peekRune(); next == '.' {
			l.advance()
			return emit(tokRange)
		}
		return token{}, newParseError(start, "'..'", "'.'", "parser: unexpected character '.'")
	}
	return token{}, newParseError(start, "token", fmt.Sprintf("%q", r), fmt.Sprintf("parser: unexpected character %q", r))
}

func (l *lexer) scanString(begin int, start ast.Position) (token, error) {
	var b strings.Builder
	for {
		if l.offset >= len(l.src) {
			err := newParseError(start, "'\"'", "end of input", "parser: unterminated string literal")
			err.incomplete = true
			return token{}, err
		}
		escapePos := l.position()
		if next, width := l.peekRune(); next == utf8.RuneError && width == 1 {
			return token{}, newParseError(escapePos, "UTF-8 text", "invalid byte",
				fmt.Sprintf("parser: invalid UTF-8 byte 0x%02x in string literal", l.src[l.offset]))
		}
		r := l.advance()
		switch r {
		case '"':
			return token{kind: tokString, text: l.src[begin:l.offset], value: b.String(), start: start, end: l.position()}, nil
		case '\\':
			if l.offset >= len(l.src) {
				err := newParseError(start, "'\"'", "end of input", "parser: unterminated string literal")
				err.incomplete = true
				return token{}, err
			}
			esc := l.advance()
			switch esc {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				return token{}, newParseError(escapePos, "escape sequence", fmt.Sprintf("%q", "\\"+string(esc)), fmt.Sprintf("parser: unknown escape sequence \\%c", esc))
			}
		default:
			b.WriteRune(r)
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
