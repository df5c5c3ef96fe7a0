package compiler

import "github.com/mna/nenuphar/lang/ast"

// bytecodeLength returns the number of 64-bit words compile will emit for
// expr under identical bounds/frees, without actually emitting anything.
// IfExpr's branch offsets and each labeled code block's length prefix are
// computed by calling this on the not-yet-compiled sub-expression, so it
// must mirror compile's word counts exactly: a mismatch here produces
// correct-looking bytecode with wrong jump targets.
func bytecodeLength(expr ast.Expr) int {
	switch n := expr.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.CharLit, *ast.EmptyList:
		return 2 // LOAD64, operand

	case *ast.BoundRef, *ast.FreeRef, *ast.LocalRef:
		return 2 // GET_ARG/GET_FREE/PUSH_LET, operand

	case *ast.Ident:
		// An unresolved identifier compiles to nothing but an error. Its 0
		// can still end up in a jump or label-length operand emitted before
		// compile reaches the identifier, but compile then fails and no
		// Program is returned.
		return 0

	case *ast.OpExpr:
		total := 1 // the opcode itself, no operand word
		for _, a := range n.Args {
			total += bytecodeLength(a)
		}
		return total

	case *ast.ConsExpr:
		return 1 + bytecodeLength(n.A) + bytecodeLength(n.B)

	case *ast.IfExpr:
		return 4 + bytecodeLength(n.Test) + bytecodeLength(n.Consequent) + bytecodeLength(n.Alternate)

	case *ast.StringExpr:
		total := 2 // STR, count
		for _, c := range n.Chars {
			total += bytecodeLength(c)
		}
		return total

	case *ast.VectorExpr:
		total := 2 // VEC, count
		for _, e := range n.Elems {
			total += bytecodeLength(e)
		}
		return total

	case *ast.BeginExpr:
		total := 2 // BEG, count
		for _, e := range n.Elems {
			total += bytecodeLength(e)
		}
		return total

	case *ast.LetExpr:
		total := 2 // END_LET, count
		for _, b := range n.Bindings {
			total += bytecodeLength(b.Expr)
		}
		return total + bytecodeLength(n.Body)

	case *ast.ClosureExpr:
		return 2 // CLOSURE, label id

	case *ast.AppExpr:
		total := 1 + bytecodeLength(n.Callee) // APPLY has no operand word
		for _, a := range n.Args {
			total += bytecodeLength(a)
		}
		return total

	default:
		return 0
	}
}
