// Package parser implements the parser that transforms source text into an
// abstract syntax tree.
package parser

import (
	"errors"
	"strings"

	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/scanner"
	"github.com/mna/nenuphar/lang/token"
)

// Parse reads exactly one expression from src and asserts that nothing but
// whitespace follows it. The returned error, if non-nil, is a
// *scanner.CompileError when a single error was recorded, or a
// go/scanner.ErrorList of their messages when there were several.
func Parse(src []byte) (ast.Expr, error) {
	var p parser
	p.init(src)
	expr := p.parseTopLevel()
	return expr, p.errors.Err()
}

// parser holds the state of a single recursive-descent parse.
type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList

	tok token.Token
	val token.Value

	// depth tracks how many let/lambda bodies enclose the current position;
	// a bare identifier in operand position is only legal when depth > 0,
	// since the top level has no enclosing scope to resolve it against.
	depth int
}

func (p *parser) init(src []byte) {
	p.scanner.Init(src)
	p.advance()
}

func (p *parser) advance() {
	tok, val, err := p.scanner.Scan()
	if err != nil {
		var ce *scanner.CompileError
		if errors.As(err, &ce) {
			p.errors.Add(ce.Kind, ce.Pos, "%s", ce.Err.Msg)
		}
		tok, val = token.ILLEGAL, token.Value{Pos: val.Pos}
	}
	p.tok, p.val = tok, val
}

var errPanicMode = errors.New("panic")

func (p *parser) parseTopLevel() (result ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			result = nil
		}
	}()

	expr := p.parseExpr()
	if p.tok != token.EOF {
		p.errorExpected(p.val.Pos, "end of input")
		panic(errPanicMode)
	}
	return expr
}

// expect consumes and returns the position of the current token if it
// matches tok, otherwise it records an error and aborts the parse via
// errPanicMode.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.errorExpected(pos, tok.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(scanner.ParseError, pos, "%s", msg)
}

func (p *parser) errorExpected(pos token.Pos, msg string) {
	msg = "expected " + msg
	if pos == p.val.Pos {
		switch p.tok {
		case token.IDENT, token.INT, token.CHAR, token.BOOL:
			msg += ", found " + p.val.Raw
		default:
			msg += ", found " + p.tok.GoString()
		}
	}
	p.error(pos, msg)
}

// arityError reports a fixed-arity operator applied to the wrong number of
// arguments.
func (p *parser) arityError(pos token.Pos, op token.Token, want int, got int) {
	p.errors.Add(scanner.ArityError, pos, "%s expects %d argument(s), got %d", op.GoString(), want, got)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
