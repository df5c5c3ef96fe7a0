// Package resolver implements closure conversion: it takes a parsed
// expression tree and produces an annotated form in which every lambda has
// been lifted to a top-level labeled code block, and every identifier
// occurrence has been classified as bound, free or local.
//
// # Scopes
//
// An identifier occurrence ends up in exactly one of four shapes once
// resolution completes:
//
//   - ast.BoundRef, a reference to a formal parameter of the lambda whose
//     lifted body directly encloses the occurrence.
//   - ast.FreeRef, a reference captured from an enclosing lambda's
//     environment at closure-creation time.
//   - ast.LocalRef, a reference to a name bound by an enclosing let.
//   - a bare *ast.Ident, left untouched because no enclosing binding claims
//     it; the code generator reports this as an unbound variable.
//
// # Lambda lifting
//
// Every (lambda (params) body) is replaced in-place by an ast.ClosureExpr
// naming a fresh label, and the lambda's body (with its own Bound/Free
// tagging already applied) is recorded in the label table as an
// ast.CodeExpr. Labels are allocated in source pre-order of the lambda
// occurrences they replace, and that table is returned alongside the
// resolved top-level expression.
package resolver

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/nenuphar/lang/ast"
)

// Resolve performs closure conversion and identifier classification on expr.
// It returns the annotated top-level expression: if any lambdas were found,
// the result is an *ast.LabelsExpr wrapping the label table and the
// converted top-level body; otherwise it is the converted expr itself.
func Resolve(expr ast.Expr) ast.Expr {
	r := &resolver{}
	top := r.convert(expr, nil, nil)
	top = localTag(top, newScope())

	for _, l := range r.labels {
		l.Code.Body = localTag(l.Code.Body, newScope())
	}

	if len(r.labels) == 0 {
		return top
	}
	return &ast.LabelsExpr{Labels: r.labels, Body: top}
}

// resolver accumulates the label table built during lambda lifting.
type resolver struct {
	labels []*ast.LabelDef
}

func (r *resolver) nextLabel() string {
	return fmt.Sprintf("f%d", len(r.labels))
}

// convert walks expr replacing lambdas with closures and tagging identifier
// occurrences against the given bound (formal parameters) and free
// (captured names) sets of the innermost enclosing lifted body. Names not
// found in either set are left as bare identifiers for localTag to resolve
// against enclosing lets, or to remain unbound.
func (r *resolver) convert(expr ast.Expr, bound, free []string) ast.Expr {
	switch n := expr.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.CharLit, *ast.EmptyList:
		return expr

	case *ast.Ident:
		switch {
		case contains(bound, n.Name):
			return &ast.BoundRef{Ident: n}
		case contains(free, n.Name):
			return &ast.FreeRef{Ident: n}
		default:
			return n
		}

	case *ast.OpExpr:
		for i, a := range n.Args {
			n.Args[i] = r.convert(a, bound, free)
		}
		return n

	case *ast.ConsExpr:
		n.A = r.convert(n.A, bound, free)
		n.B = r.convert(n.B, bound, free)
		return n

	case *ast.StringExpr:
		return n

	case *ast.VectorExpr:
		for i, e := range n.Elems {
			n.Elems[i] = r.convert(e, bound, free)
		}
		return n

	case *ast.BeginExpr:
		for i, e := range n.Elems {
			n.Elems[i] = r.convert(e, bound, free)
		}
		return n

	case *ast.IfExpr:
		n.Test = r.convert(n.Test, bound, free)
		n.Consequent = r.convert(n.Consequent, bound, free)
		n.Alternate = r.convert(n.Alternate, bound, free)
		return n

	case *ast.LetExpr:
		for _, b := range n.Bindings {
			b.Expr = r.convert(b.Expr, bound, free)
		}
		n.Body = r.convert(n.Body, bound, free)
		return n

	case *ast.AppExpr:
		n.Callee = r.convert(n.Callee, bound, free)
		for i, a := range n.Args {
			n.Args[i] = r.convert(a, bound, free)
		}
		return n

	case *ast.LambdaExpr:
		return r.liftLambda(n)

	default:
		return expr
	}
}

// liftLambda computes n's free variables, allocates a label for it, converts
// its body against its own bound/free sets, records the result in the label
// table, and returns the ast.ClosureExpr that replaces n.
func (r *resolver) liftLambda(n *ast.LambdaExpr) ast.Expr {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Name
	}

	free := freeVars(n.Body, params)
	n.Free = free

	// The label's slot is reserved before descending into the body so that
	// nested lambdas lifted during that descent append after it, keeping the
	// table in source pre-order of lambda occurrences.
	label := r.nextLabel()
	def := &ast.LabelDef{Name: label, Code: &ast.CodeExpr{Bound: params, Free: free}}
	r.labels = append(r.labels, def)

	def.Code.Body = r.convert(n.Body, params, free)

	return &ast.ClosureExpr{Pos: n.Lparen, Label: label, Frees: free}
}

// freeVars returns the names referenced in body that are not in bound and
// not shadowed by an intervening let binding or nested lambda parameter, in
// first-occurrence order with duplicates removed.
func freeVars(body ast.Expr, bound []string) []string {
	shadow := newScope()
	for _, b := range bound {
		shadow.top()[b] = true
	}

	seen := swiss.NewMap[string, struct{}](8)
	var order []string
	var walk func(e ast.Expr, s *scope)
	walk = func(e ast.Expr, s *scope) {
		switch n := e.(type) {
		case *ast.Ident:
			if s.has(n.Name) {
				return
			}
			if _, ok := seen.Get(n.Name); !ok {
				seen.Put(n.Name, struct{}{})
				order = append(order, n.Name)
			}

		case *ast.OpExpr:
			for _, a := range n.Args {
				walk(a, s)
			}
		case *ast.ConsExpr:
			walk(n.A, s)
			walk(n.B, s)
		case *ast.StringExpr:
			// character literals carry no identifiers
		case *ast.VectorExpr:
			for _, el := range n.Elems {
				walk(el, s)
			}
		case *ast.BeginExpr:
			for _, el := range n.Elems {
				walk(el, s)
			}
		case *ast.IfExpr:
			walk(n.Test, s)
			walk(n.Consequent, s)
			walk(n.Alternate, s)
		case *ast.LetExpr:
			for _, b := range n.Bindings {
				walk(b.Expr, s)
			}
			inner := s.push()
			for _, b := range n.Bindings {
				inner.top()[b.Name] = true
			}
			walk(n.Body, inner)
		case *ast.AppExpr:
			walk(n.Callee, s)
			for _, a := range n.Args {
				walk(a, s)
			}
		case *ast.LambdaExpr:
			inner := s.push()
			for _, p := range n.Params {
				inner.top()[p.Name] = true
			}
			walk(n.Body, inner)
		}
	}
	walk(body, shadow)
	return order
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
