package typeexpr

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed type expression.
type ParseError struct {
	Expr    string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type expression %q at offset %d: %s", e.Expr, e.Pos, e.Message)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokLBrack
	tokRBrack
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse parses expr into an AST.
func Parse(expr string) (Node, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{expr: expr, toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q after expression", tok.text)
	}
	return node, nil
}

// MustParse is like Parse but panics on error. Intended for static tables.
func MustParse(expr string) Node {
	node, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return node
}

func lex(expr string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '[':
			toks = append(toks, token{kind: tokLBrack, text: "[", pos: i})
			i++
		case c == ']':
			toks = append(toks, token{kind: tokRBrack, text: "]", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case isNameStart(c):
			start := i
			for i < len(expr) && isNamePart(expr[i]) {
				i++
			}
			toks = append(toks, token{kind: tokName, text: expr[start:i], pos: start})
		default:
			return nil, &ParseError{Expr: expr, Pos: i, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, text: "end of input", pos: len(expr)})
	return toks, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || c == '.' || (c >= '0' && c <= '9')
}

type parser struct {
	expr string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) *ParseError {
	return &ParseError{Expr: p.expr, Pos: tok.pos, Message: fmt.Sprintf(format, args...)}
}

// parseExpr parses Name or Name[Expr, ...].
func (p *parser) parseExpr() (Node, error) {
	tok := p.next()
	if tok.kind != tokName {
		return nil, p.errorf(tok, "expected type name, got %q", tok.text)
	}
	if strings.HasSuffix(tok.text, ".") {
		return nil, p.errorf(tok, "type name %q ends with '.'", tok.text)
	}
	if p.peek().kind != tokLBrack {
		return Simple{Name: tok.text}, nil
	}
	p.next() // '['

	var args []Node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		sep := p.next()
		switch sep.kind {
		case tokComma:
			continue
		case tokRBrack:
			return Generic{Name: tok.text, Args: args}, nil
		default:
			return nil, p.errorf(sep, "expected ',' or ']', got %q", sep.text)
		}
	}
}
