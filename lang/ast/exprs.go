package ast

import (
	"fmt"

	"github.com/mna/nenuphar/lang/token"
)

type (
	// IntLit represents an integer literal, e.g. 42.
	IntLit struct {
		Start token.Pos
		Raw   string
		Value int64
	}

	// BoolLit represents a boolean literal, #t or #f.
	BoolLit struct {
		Start token.Pos
		Value bool
	}

	// CharLit represents a character literal in #\X form.
	CharLit struct {
		Start token.Pos
		Raw   string // includes the "#\" prefix
		Value rune
	}

	// EmptyList represents the literal (), the empty list.
	EmptyList struct {
		Lparen token.Pos
		Rparen token.Pos
	}

	// Ident represents a plain identifier occurrence, before resolution has
	// classified it as Local, Bound or Free.
	Ident struct {
		Start token.Pos
		Name  string
	}

	// OpExpr represents an application of a fixed-arity built-in operator
	// (unary, binary or ternary, per the arity table in §4.3) that isn't one
	// of the specially-shaped forms below.
	OpExpr struct {
		Op     token.Token
		OpPos  token.Pos
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// ConsExpr represents (cons a b).
	ConsExpr struct {
		Lparen token.Pos
		A, B   Expr
		Rparen token.Pos
	}

	// StringExpr represents (string "...") after the quoted content has been
	// expanded character-by-character into CharLit nodes, per §4.3.
	StringExpr struct {
		Lparen token.Pos
		Chars  []*CharLit
		Rparen token.Pos
	}

	// VectorExpr represents (vector e1 ... en).
	VectorExpr struct {
		Lparen token.Pos
		Elems  []Expr
		Rparen token.Pos
	}

	// BeginExpr represents (begin e1 ... en).
	BeginExpr struct {
		Lparen token.Pos
		Elems  []Expr
		Rparen token.Pos
	}

	// Binding is a single (name expr) pair inside a let's binding group.
	Binding struct {
		Name    string
		NamePos token.Pos
		Expr    Expr
	}

	// LetExpr represents (let ((n1 e1) ...) body). Bindings preserve source
	// order.
	LetExpr struct {
		Lparen   token.Pos
		Bindings []*Binding
		Body     Expr
		Rparen   token.Pos
	}

	// IfExpr represents (if test consequent alternative).
	IfExpr struct {
		Lparen                      token.Pos
		Test, Consequent, Alternate Expr
		Rparen                      token.Pos
	}

	// LambdaExpr represents (lambda (x1 ... xn) body), prior to closure
	// conversion. Free is filled in by the resolver (§4.4) and is nil on the
	// raw parser output.
	LambdaExpr struct {
		Lparen token.Pos
		Params []*Ident
		Body   Expr
		Rparen token.Pos

		// Free holds the free variable names computed by the resolver, in
		// first-occurrence order, deduplicated. Empty until resolved.
		Free []string
	}

	// AppExpr represents a general application (callee arg1 ... argn) where
	// callee is an arbitrary expression rather than a built-in keyword.
	AppExpr struct {
		Lparen token.Pos
		Callee Expr
		Args   []Expr
		Rparen token.Pos
	}

	// --- annotated IR (§3, §4.4) ---

	// LocalRef wraps an Ident bound by an enclosing let in the current
	// frame.
	LocalRef struct{ *Ident }

	// BoundRef wraps an Ident that is a formal parameter of the enclosing
	// lambda/code block.
	BoundRef struct{ *Ident }

	// FreeRef wraps an Ident captured by the enclosing closure.
	FreeRef struct{ *Ident }

	// ClosureExpr replaces a LambdaExpr after closure conversion: a
	// reference to a lifted label plus the ordered list of free variable
	// names to capture.
	ClosureExpr struct {
		Pos   token.Pos
		Label string
		Frees []string
	}

	// CodeExpr is the lifted body of a lambda: its formal (bound) names, its
	// free variable names, and its annotated body.
	CodeExpr struct {
		Bound []string
		Free  []string
		Body  Expr
	}

	// LabelDef is one label/code-block entry in a Labels form.
	LabelDef struct {
		Name string
		Code *CodeExpr
	}

	// LabelsExpr wraps the whole program when any lambdas were lifted,
	// carrying the label table alongside the (now closure-converted)
	// top-level expression.
	LabelsExpr struct {
		Labels []*LabelDef
		Body   Expr
	}
)

func (n *IntLit) Format(f fmt.State, verb rune) { format(f, verb, n, "int "+n.Raw, nil) }
func (n *IntLit) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start.Advance(len(n.Raw))
}
func (n *IntLit) Walk(Visitor) {}
func (n *IntLit) expr()        {}

func (n *BoolLit) Format(f fmt.State, verb rune) {
	lbl := "#f"
	if n.Value {
		lbl = "#t"
	}
	format(f, verb, n, "bool "+lbl, nil)
}
func (n *BoolLit) Span() (token.Pos, token.Pos) { return n.Start, n.Start.Advance(2) }
func (n *BoolLit) Walk(Visitor)                 {}
func (n *BoolLit) expr()                        {}

func (n *CharLit) Format(f fmt.State, verb rune) { format(f, verb, n, "char "+n.Raw, nil) }
func (n *CharLit) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start.Advance(len(n.Raw))
}
func (n *CharLit) Walk(Visitor) {}
func (n *CharLit) expr()        {}

func (n *EmptyList) Format(f fmt.State, verb rune) { format(f, verb, n, "()", nil) }
func (n *EmptyList) Span() (token.Pos, token.Pos)  { return n.Lparen, n.Rparen.Advance(1) }
func (n *EmptyList) Walk(Visitor)                  {}
func (n *EmptyList) expr()                         {}

func (n *Ident) Format(f fmt.State, verb rune) { format(f, verb, n, "ident "+n.Name, nil) }
func (n *Ident) Span() (token.Pos, token.Pos) {
	return n.Start, n.Start.Advance(len(n.Name))
}
func (n *Ident) Walk(Visitor) {}
func (n *Ident) expr()        {}

func (n *OpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "op "+n.Op.GoString(), map[string]int{"args": len(n.Args)})
}
func (n *OpExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *OpExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *OpExpr) expr() {}

func (n *ConsExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cons", nil) }
func (n *ConsExpr) Span() (token.Pos, token.Pos)  { return n.Lparen, n.Rparen.Advance(1) }
func (n *ConsExpr) Walk(v Visitor) {
	Walk(v, n.A)
	Walk(v, n.B)
}
func (n *ConsExpr) expr() {}

func (n *StringExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "string", map[string]int{"chars": len(n.Chars)})
}
func (n *StringExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *StringExpr) Walk(v Visitor) {
	for _, c := range n.Chars {
		Walk(v, c)
	}
}
func (n *StringExpr) expr() {}

func (n *VectorExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "vector", map[string]int{"elems": len(n.Elems)})
}
func (n *VectorExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *VectorExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (n *VectorExpr) expr() {}

func (n *BeginExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "begin", map[string]int{"elems": len(n.Elems)})
}
func (n *BeginExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *BeginExpr) Walk(v Visitor) {
	for _, e := range n.Elems {
		Walk(v, e)
	}
}
func (n *BeginExpr) expr() {}

func (n *LetExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "let", map[string]int{"bindings": len(n.Bindings)})
}
func (n *LetExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *LetExpr) Walk(v Visitor) {
	for _, b := range n.Bindings {
		Walk(v, b.Expr)
	}
	Walk(v, n.Body)
}
func (n *LetExpr) expr() {}

func (n *IfExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "if", nil) }
func (n *IfExpr) Span() (token.Pos, token.Pos)  { return n.Lparen, n.Rparen.Advance(1) }
func (n *IfExpr) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Consequent)
	Walk(v, n.Alternate)
}
func (n *IfExpr) expr() {}

func (n *LambdaExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "lambda", map[string]int{"params": len(n.Params), "free": len(n.Free)})
}
func (n *LambdaExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *LambdaExpr) Walk(v Visitor) {
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *LambdaExpr) expr() {}

func (n *AppExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "app", map[string]int{"args": len(n.Args)})
}
func (n *AppExpr) Span() (token.Pos, token.Pos) { return n.Lparen, n.Rparen.Advance(1) }
func (n *AppExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *AppExpr) expr() {}

func (n *LocalRef) Format(f fmt.State, verb rune) { format(f, verb, n, "local "+n.Name, nil) }
func (n *LocalRef) expr()                         {}

func (n *BoundRef) Format(f fmt.State, verb rune) { format(f, verb, n, "bound "+n.Name, nil) }
func (n *BoundRef) expr()                         {}

func (n *FreeRef) Format(f fmt.State, verb rune) { format(f, verb, n, "free "+n.Name, nil) }
func (n *FreeRef) expr()                         {}

func (n *ClosureExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "closure "+n.Label, map[string]int{"frees": len(n.Frees)})
}
func (n *ClosureExpr) Span() (token.Pos, token.Pos) {
	return n.Pos, n.Pos.Advance(len(n.Label))
}
func (n *ClosureExpr) Walk(Visitor) {}
func (n *ClosureExpr) expr()        {}

func (n *CodeExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "code", map[string]int{"bound": len(n.Bound), "free": len(n.Free)})
}
func (n *CodeExpr) Span() (token.Pos, token.Pos) { return n.Body.Span() }
func (n *CodeExpr) Walk(v Visitor)               { Walk(v, n.Body) }
func (n *CodeExpr) expr()                        {}

func (n *LabelsExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "labels", map[string]int{"labels": len(n.Labels)})
}
func (n *LabelsExpr) Span() (token.Pos, token.Pos) { return n.Body.Span() }
func (n *LabelsExpr) Walk(v Visitor) {
	for _, l := range n.Labels {
		Walk(v, l.Code)
	}
	Walk(v, n.Body)
}
func (n *LabelsExpr) expr() {}
