package parser

import (
	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/token"
)

// parseExpr parses a single expr per the grammar:
//
//	expr := INT | CHAR | BOOL | "(" form ")"
func (p *parser) parseExpr() ast.Expr {
	switch p.tok {
	case token.INT:
		v := p.val
		p.advance()
		return &ast.IntLit{Start: v.Pos, Raw: v.Raw, Value: v.Int}

	case token.CHAR:
		v := p.val
		p.advance()
		return &ast.CharLit{Start: v.Pos, Raw: v.Raw, Value: v.Char}

	case token.BOOL:
		v := p.val
		p.advance()
		return &ast.BoolLit{Start: v.Pos, Value: v.Raw == "#t" || v.Raw == "#T"}

	case token.LPAREN:
		return p.parseForm()

	case token.IDENT:
		if p.depth == 0 {
			p.error(p.val.Pos, "unexpected identifier "+p.val.Raw+" outside a let or lambda body")
			panic(errPanicMode)
		}
		v := p.val
		p.advance()
		return &ast.Ident{Start: v.Pos, Name: v.Raw}

	default:
		p.errorExpected(p.val.Pos, "expression")
		panic(errPanicMode)
	}
}

// parseForm parses everything that starts with '(': the empty list, a
// built-in operator form, or a general application.
//
//	form := unary expr
//	     |  binary expr expr
//	     |  ternary expr expr expr
//	     |  variadic expr*
//	     |  "if" expr expr expr
//	     |  "cons" expr expr
//	     |  "string" STRING
//	     |  "let" "(" binding+ ")" body_expr
//	     |  "lambda" "(" IDENT* ")" body_expr
//	     |  expr expr*
func (p *parser) parseForm() ast.Expr {
	lparen := p.expect(token.LPAREN)

	if p.tok == token.RPAREN {
		rparen := p.expect(token.RPAREN)
		return &ast.EmptyList{Lparen: lparen, Rparen: rparen}
	}

	switch {
	case p.tok.Unary():
		return p.parseOpExpr(lparen, 1)
	case p.tok.Binary() && p.tok != token.CONS:
		return p.parseOpExpr(lparen, 2)
	case p.tok == token.CONS:
		return p.parseConsExpr(lparen)
	case p.tok.Ternary() && p.tok != token.IF:
		return p.parseOpExpr(lparen, 3)
	case p.tok == token.IF:
		return p.parseIfExpr(lparen)
	case p.tok == token.STRING:
		return p.parseStringExpr(lparen)
	case p.tok.Variadic():
		return p.parseVariadicExpr(lparen)
	case p.tok == token.LET:
		return p.parseLetExpr(lparen)
	case p.tok == token.LAMBDA:
		return p.parseLambdaExpr(lparen)
	default:
		return p.parseAppExpr(lparen)
	}
}

// parseOpExpr parses a fixed-arity unary, binary or ternary operator form
// other than cons and if, which have their own dedicated node types.
func (p *parser) parseOpExpr(lparen token.Pos, arity int) ast.Expr {
	op := p.tok
	opPos := p.expect(p.tok)

	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)

	if len(args) != arity {
		p.arityError(opPos, op, arity, len(args))
	}
	return &ast.OpExpr{Op: op, OpPos: opPos, Lparen: lparen, Args: args, Rparen: rparen}
}

func (p *parser) parseConsExpr(lparen token.Pos) ast.Expr {
	opPos := p.expect(token.CONS)

	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)

	if len(args) != 2 {
		p.arityError(opPos, token.CONS, 2, len(args))
		for len(args) < 2 {
			args = append(args, nil)
		}
	}
	return &ast.ConsExpr{Lparen: lparen, A: args[0], B: args[1], Rparen: rparen}
}

func (p *parser) parseIfExpr(lparen token.Pos) ast.Expr {
	opPos := p.expect(token.IF)

	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)

	if len(args) != 3 {
		p.arityError(opPos, token.IF, 3, len(args))
		for len(args) < 3 {
			args = append(args, nil)
		}
	}
	return &ast.IfExpr{Lparen: lparen, Test: args[0], Consequent: args[1], Alternate: args[2], Rparen: rparen}
}

// parseStringExpr parses "(string "...")", expanding the quoted content
// character-by-character into CharLit nodes.
func (p *parser) parseStringExpr(lparen token.Pos) ast.Expr {
	// The scanner is positioned just past the "string" keyword: the quoted
	// literal is read from there, before the general tokenizer can split it.
	pos := p.val.Pos
	content, err := p.scanner.ScanQuotedString()
	if err != nil {
		p.error(pos, err.Error())
		panic(errPanicMode)
	}
	p.advance()

	chars := make([]*ast.CharLit, 0, len(content))
	for _, r := range content {
		chars = append(chars, &ast.CharLit{Start: pos, Raw: "#\\" + string(r), Value: r})
	}
	rparen := p.expect(token.RPAREN)
	return &ast.StringExpr{Lparen: lparen, Chars: chars, Rparen: rparen}
}

func (p *parser) parseVariadicExpr(lparen token.Pos) ast.Expr {
	op := p.tok
	p.advance()

	var elems []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		elems = append(elems, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)

	switch op {
	case token.VECTOR:
		return &ast.VectorExpr{Lparen: lparen, Elems: elems, Rparen: rparen}
	case token.BEGIN:
		return &ast.BeginExpr{Lparen: lparen, Elems: elems, Rparen: rparen}
	default: // token.STRING handled separately above, unreachable here
		return &ast.BeginExpr{Lparen: lparen, Elems: elems, Rparen: rparen}
	}
}

// parseLetExpr parses "(" "let" "(" binding+ ")" body_expr ")".
func (p *parser) parseLetExpr(lparen token.Pos) ast.Expr {
	p.expect(token.LET)
	p.expect(token.LPAREN)

	seen := make(map[string]bool)
	var bindings []*ast.Binding
	for p.tok != token.RPAREN && p.tok != token.EOF {
		bindings = append(bindings, p.parseBinding(seen))
	}
	p.expect(token.RPAREN)

	if len(bindings) == 0 {
		p.error(lparen, "let requires at least one binding")
	}

	if p.tok == token.RPAREN {
		p.error(p.val.Pos, "let requires a body expression")
		panic(errPanicMode)
	}

	p.depth++
	body := p.parseExpr()
	p.depth--

	rparen := p.expect(token.RPAREN)
	return &ast.LetExpr{Lparen: lparen, Bindings: bindings, Body: body, Rparen: rparen}
}

func (p *parser) parseBinding(seen map[string]bool) *ast.Binding {
	p.expect(token.LPAREN)
	namePos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)

	if seen[name] {
		p.error(namePos, "duplicate let binding "+name)
	}
	seen[name] = true

	expr := p.parseExpr()

	p.expect(token.RPAREN)
	return &ast.Binding{Name: name, NamePos: namePos, Expr: expr}
}

// parseLambdaExpr parses "(" "lambda" "(" IDENT* ")" body_expr ")".
func (p *parser) parseLambdaExpr(lparen token.Pos) ast.Expr {
	p.expect(token.LAMBDA)
	p.expect(token.LPAREN)

	seen := make(map[string]bool)
	var params []*ast.Ident
	for p.tok != token.RPAREN && p.tok != token.EOF {
		namePos := p.val.Pos
		name := p.val.Raw
		p.expect(token.IDENT)
		if seen[name] {
			p.error(namePos, "duplicate lambda formal "+name)
		}
		seen[name] = true
		params = append(params, &ast.Ident{Start: namePos, Name: name})
	}
	p.expect(token.RPAREN)

	p.depth++
	body := p.parseExpr()
	p.depth--

	rparen := p.expect(token.RPAREN)
	return &ast.LambdaExpr{Lparen: lparen, Params: params, Body: body, Rparen: rparen}
}

// parseAppExpr parses a general application "(" expr expr* ")". The head is
// parsed with parseExpr like any operand, so a literal head is accepted
// here as well as a parenthesized or identifier one.
func (p *parser) parseAppExpr(lparen token.Pos) ast.Expr {
	callee := p.parseExpr()

	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.AppExpr{Lparen: lparen, Callee: callee, Args: args, Rparen: rparen}
}
