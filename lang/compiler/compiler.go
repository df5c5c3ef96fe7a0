// Package compiler walks a resolved expression tree (§4.4's annotated IR)
// and emits the flat bytecode word stream the virtual machine executes.
// Code generation is a single tree-walking pass with no intermediate
// control-flow graph: every form has a fixed emission shape, and branch
// targets are relative word counts computed by bytecodeLength rather than
// patched addresses.
package compiler

import (
	"github.com/dolthub/swiss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/scanner"
	"github.com/mna/nenuphar/lang/token"
	"github.com/mna/nenuphar/lang/value"
)

// Compile compiles expr, the output of resolver.Resolve, into a Program.
// expr must be well-formed per §4.4's contract (every lambda already lifted,
// every identifier already classified) or compilation may fail with
// UnboundVariable; Compile does not re-run resolution.
func Compile(expr ast.Expr) (*Program, error) {
	var c compiler
	if err := c.compileProgram(expr); err != nil {
		return nil, err
	}
	return &Program{Code: c.code}, nil
}

// compiler holds all state threaded through a single compilation: the
// growing word stream, the simulated stack height used to compute let
// offsets, the chain of local environments, and the current function's
// bound/free name lists. There is no global state and nothing here is
// reused across calls to Compile.
type compiler struct {
	code     []uint64
	stackInd int

	// envStack is a stack of name->absolute-stack-index maps, one per
	// enclosing let. Each is a shallow copy of its parent taken when the let
	// is entered, so a lookup always searches only the top map.
	envStack []map[string]int

	// bounds and frees are the formal and free-variable names of the
	// lifted code block currently being compiled, in the order codegen must
	// use to compute GET_ARG/GET_FREE indices.
	bounds, frees []string

	// labelIDs maps every label name in the program's (single, top-level)
	// label table to the small integer a CLOSURE instruction uses to name
	// it. Populated once, before any of the labeled bodies are compiled, so
	// mutually recursive closures can reference each other.
	labelIDs *swiss.Map[string, int]
}

func (c *compiler) compileProgram(expr ast.Expr) error {
	if err := c.compile(expr, nil, nil); err != nil {
		return err
	}
	c.emit(RETURN)
	return nil
}

func (c *compiler) emit(op Opcode)     { c.code = append(c.code, uint64(op)) }
func (c *compiler) emitArg(arg uint64) { c.code = append(c.code, arg) }
func (c *compiler) emitRaw(n int)      { c.code = append(c.code, uint64(n)) }

func (c *compiler) push(n int) { c.stackInd += n }
func (c *compiler) pop(n int)  { c.stackInd -= n }

func (c *compiler) topEnv() map[string]int {
	if len(c.envStack) == 0 {
		return nil
	}
	return c.envStack[len(c.envStack)-1]
}

// compile emits expr's bytecode, using bounds/frees to resolve Bound/Free
// references in the lifted code block currently being compiled.
func (c *compiler) compile(expr ast.Expr, bounds, frees []string) error {
	switch n := expr.(type) {
	case *ast.IntLit:
		word, err := value.BoxFixnum(n.Start, n.Value)
		if err != nil {
			return err
		}
		c.emit(LOAD64)
		c.emitArg(word)
		c.push(1)
		return nil

	case *ast.BoolLit:
		c.emit(LOAD64)
		c.emitArg(value.BoxBool(n.Value))
		c.push(1)
		return nil

	case *ast.CharLit:
		c.emit(LOAD64)
		c.emitArg(value.BoxChar(n.Value))
		c.push(1)
		return nil

	case *ast.EmptyList:
		c.emit(LOAD64)
		c.emitArg(value.BoxEmptyList())
		c.push(1)
		return nil

	case *ast.BoundRef:
		idx := slices.Index(bounds, n.Name)
		if idx < 0 {
			return c.unboundVariable(n.Start, n.Name)
		}
		c.emit(GET_ARG)
		c.emitArg(uint64(idx))
		c.push(1)
		return nil

	case *ast.FreeRef:
		idx := slices.Index(frees, n.Name)
		if idx < 0 {
			return c.unboundVariable(n.Start, n.Name)
		}
		c.emit(GET_FREE)
		c.emitArg(uint64(idx))
		c.push(1)
		return nil

	case *ast.LocalRef:
		idx, ok := c.topEnv()[n.Name]
		if !ok {
			return c.unboundVariable(n.Start, n.Name)
		}
		c.emit(PUSH_LET)
		c.emitArg(uint64(c.stackInd - 1 - idx))
		c.push(1)
		return nil

	case *ast.Ident:
		return c.unboundVariable(n.Start, n.Name)

	case *ast.OpExpr:
		return c.compileOpExpr(n, bounds, frees)

	case *ast.ConsExpr:
		// Operands are compiled in reverse source order; this matches the
		// runtime representation CONS expects on the stack.
		if err := c.compile(n.B, bounds, frees); err != nil {
			return err
		}
		if err := c.compile(n.A, bounds, frees); err != nil {
			return err
		}
		c.emit(CONS)
		c.pop(1)
		return nil

	case *ast.IfExpr:
		return c.compileIfExpr(n, bounds, frees)

	case *ast.StringExpr:
		for _, ch := range n.Chars {
			if err := c.compile(ch, bounds, frees); err != nil {
				return err
			}
		}
		c.emit(STR)
		c.emitArg(uint64(len(n.Chars)))
		c.pop(len(n.Chars) - 1)
		return nil

	case *ast.VectorExpr:
		for _, e := range n.Elems {
			if err := c.compile(e, bounds, frees); err != nil {
				return err
			}
		}
		c.emit(VEC)
		c.emitArg(uint64(len(n.Elems)))
		c.pop(len(n.Elems) - 1)
		return nil

	case *ast.BeginExpr:
		for _, e := range n.Elems {
			if err := c.compile(e, bounds, frees); err != nil {
				return err
			}
		}
		c.emit(BEG)
		c.emitArg(uint64(len(n.Elems)))
		c.pop(len(n.Elems) - 1)
		return nil

	case *ast.LetExpr:
		return c.compileLetExpr(n, bounds, frees)

	case *ast.ClosureExpr:
		id, ok := c.labelIDs.Get(n.Label)
		if !ok {
			return c.unknownLabel(n.Pos, n.Label)
		}
		c.emit(CLOSURE)
		c.emitArg(uint64(id))
		c.push(1)
		return nil

	case *ast.LabelsExpr:
		return c.compileLabelsExpr(n, bounds, frees)

	case *ast.AppExpr:
		for _, a := range n.Args {
			if err := c.compile(a, bounds, frees); err != nil {
				return err
			}
		}
		if err := c.compile(n.Callee, bounds, frees); err != nil {
			return err
		}
		c.emit(APPLY)
		c.pop(len(n.Args)) // args + callee replaced by a single result
		return nil

	default:
		// LambdaExpr and CodeExpr never reach here directly: the former is
		// always replaced by a ClosureExpr during resolution, and the latter
		// is only ever compiled through its Body field, one level up.
		return scanner.Errorf(scanner.SemanticError, 0, "cannot compile unresolved expression %T", expr)
	}
}

func (c *compiler) compileOpExpr(n *ast.OpExpr, bounds, frees []string) error {
	op, ok := opcodeForToken(n.Op)
	if !ok {
		return c.unboundVariable(n.OpPos, n.Op.String())
	}
	for _, a := range n.Args {
		if err := c.compile(a, bounds, frees); err != nil {
			return err
		}
	}
	c.emit(op)
	if len(n.Args) > 0 {
		c.pop(len(n.Args) - 1)
	}
	return nil
}

// compileIfExpr emits the test, a conditional branch over the consequent, the
// consequent, an unconditional jump over the alternate, and the alternate.
// Since only one of the two arms executes at runtime, the simulated stack
// height is reset to its post-test value before compiling the alternate:
// otherwise the linear, single-pass emission would double-count the
// reconverging depth the two arms produce independently.
func (c *compiler) compileIfExpr(n *ast.IfExpr, bounds, frees []string) error {
	if err := c.compile(n.Test, bounds, frees); err != nil {
		return err
	}
	c.emit(POP_JUMP_IF_FALSE)
	c.emitArg(uint64(bytecodeLength(n.Consequent) + 2))
	c.pop(1)

	base := c.stackInd
	if err := c.compile(n.Consequent, bounds, frees); err != nil {
		return err
	}
	c.emit(JUMP_OVER_ELSE)
	c.emitArg(uint64(bytecodeLength(n.Alternate)))

	c.stackInd = base
	if err := c.compile(n.Alternate, bounds, frees); err != nil {
		return err
	}
	return nil
}

// compileLetExpr compiles each binding's right-hand side in the parent
// environment, records its absolute stack index, then compiles the body
// against a child environment extended with every binding.
func (c *compiler) compileLetExpr(n *ast.LetExpr, bounds, frees []string) error {
	child := maps.Clone(c.topEnv())
	if child == nil {
		child = make(map[string]int, len(n.Bindings))
	}

	for _, b := range n.Bindings {
		if err := c.compile(b.Expr, bounds, frees); err != nil {
			return err
		}
		child[b.Name] = c.stackInd - 1
	}

	c.envStack = append(c.envStack, child)
	err := c.compile(n.Body, bounds, frees)
	c.envStack = c.envStack[:len(c.envStack)-1]
	if err != nil {
		return err
	}

	c.emit(END_LET)
	c.emitArg(uint64(len(n.Bindings)))
	c.pop(len(n.Bindings))
	return nil
}

// compileLabelsExpr assigns every label an id up front (so label bodies can
// reference each other regardless of source order), emits each labeled code
// block with a fresh, independent stack/environment, and finally compiles
// the top-level body in the caller's own bounds/frees/environment.
func (c *compiler) compileLabelsExpr(n *ast.LabelsExpr, bounds, frees []string) error {
	c.labelIDs = swiss.NewMap[string, int](uint32(len(n.Labels)))
	for i, l := range n.Labels {
		c.labelIDs.Put(l.Name, i)
	}

	for _, l := range n.Labels {
		savedStack, savedEnv, savedBounds, savedFrees := c.stackInd, c.envStack, c.bounds, c.frees
		c.stackInd, c.envStack = 0, nil
		c.bounds, c.frees = l.Code.Bound, l.Code.Free

		id, _ := c.labelIDs.Get(l.Name)
		c.emit(LABEL)
		c.emitArg(uint64(id))
		c.emitRaw(len(l.Code.Bound))
		c.emitRaw(len(l.Code.Free))
		c.emitRaw(bytecodeLength(l.Code.Body) + 1)
		err := c.compile(l.Code.Body, l.Code.Bound, l.Code.Free)

		c.stackInd, c.envStack, c.bounds, c.frees = savedStack, savedEnv, savedBounds, savedFrees
		if err != nil {
			return err
		}
		c.emit(RET)
	}

	return c.compile(n.Body, bounds, frees)
}

func (c *compiler) unboundVariable(pos token.Pos, name string) error {
	return scanner.Errorf(scanner.SemanticError, pos, "unbound variable: %s", name)
}

func (c *compiler) unknownLabel(pos token.Pos, label string) error {
	return scanner.Errorf(scanner.SemanticError, pos, "unknown label: %s", label)
}

// opcodeForToken maps a fixed-arity built-in operator token to the opcode
// that implements it. cons and if are excluded: they have dedicated AST
// node types and are compiled by compile itself, never through OpExpr.
func opcodeForToken(tok token.Token) (Opcode, bool) {
	switch tok {
	case token.ADD1:
		return ADD1, true
	case token.SUB1:
		return SUB1, true
	case token.INTCHR:
		return INT_TO_CHAR, true
	case token.CHRINT:
		return CHAR_TO_INT, true
	case token.NULLP:
		return IS_NULL, true
	case token.ZEROP:
		return IS_ZERO, true
	case token.NOT:
		return NOT, true
	case token.INTP:
		return IS_INT, true
	case token.BOOLP:
		return IS_BOOL, true
	case token.CAR:
		return CAR, true
	case token.CDR:
		return CDR, true
	case token.PLUS:
		return PLUS, true
	case token.MINUS:
		return MINUS, true
	case token.STAR:
		return TIMES, true
	case token.LT:
		return LT, true
	case token.GT:
		return GT, true
	case token.LE:
		return LEQ, true
	case token.GE:
		return GEQ, true
	case token.NUMEQ:
		return EQ, true
	case token.STRREF:
		return STR_REF, true
	case token.STRAPP:
		return STR_APP, true
	case token.VECREF:
		return VEC_REF, true
	case token.VECAPP:
		return VEC_APP, true
	case token.STRSET:
		return STR_SET, true
	case token.VECSET:
		return VEC_SET, true
	default:
		return 0, false
	}
}
