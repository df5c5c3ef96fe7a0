package resolver

import "github.com/mna/nenuphar/lang/ast"

// localTag walks expr, an already Bound/Free-tagged body, and rewrites any
// remaining bare identifier that names a let binding currently in scope to
// an ast.LocalRef. It runs independently over the top-level expression and
// over each lifted lambda body, each starting from an empty scope: a
// lambda's own free variables are already tagged ast.FreeRef by the
// conversion pass and are not revisited here.
func localTag(expr ast.Expr, s *scope) ast.Expr {
	switch n := expr.(type) {
	case *ast.Ident:
		if s.has(n.Name) {
			return &ast.LocalRef{Ident: n}
		}
		return n

	case *ast.BoundRef, *ast.FreeRef, *ast.LocalRef,
		*ast.IntLit, *ast.BoolLit, *ast.CharLit, *ast.EmptyList,
		*ast.StringExpr, *ast.ClosureExpr:
		return expr

	case *ast.OpExpr:
		for i, a := range n.Args {
			n.Args[i] = localTag(a, s)
		}
		return n

	case *ast.ConsExpr:
		n.A = localTag(n.A, s)
		n.B = localTag(n.B, s)
		return n

	case *ast.VectorExpr:
		for i, e := range n.Elems {
			n.Elems[i] = localTag(e, s)
		}
		return n

	case *ast.BeginExpr:
		for i, e := range n.Elems {
			n.Elems[i] = localTag(e, s)
		}
		return n

	case *ast.IfExpr:
		n.Test = localTag(n.Test, s)
		n.Consequent = localTag(n.Consequent, s)
		n.Alternate = localTag(n.Alternate, s)
		return n

	case *ast.LetExpr:
		// bindings' right-hand sides see only the parent scope; the binding
		// names only become visible to the body, once every RHS has been
		// annotated.
		for _, b := range n.Bindings {
			b.Expr = localTag(b.Expr, s)
		}
		inner := s.push()
		for _, b := range n.Bindings {
			inner.top()[b.Name] = true
		}
		n.Body = localTag(n.Body, inner)
		return n

	case *ast.AppExpr:
		n.Callee = localTag(n.Callee, s)
		for i, a := range n.Args {
			n.Args[i] = localTag(a, s)
		}
		return n

	default:
		return expr
	}
}
