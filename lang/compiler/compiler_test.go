package compiler_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/compiler"
	"github.com/mna/nenuphar/lang/parser"
	"github.com/mna/nenuphar/lang/resolver"
	"github.com/mna/nenuphar/lang/value"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	e, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(resolver.Resolve(e))
	require.NoError(t, err)
	return prog
}

func TestCompileIntLiteral(t *testing.T) {
	prog := mustCompile(t, "42")
	word, err := value.BoxFixnum(0, 42)
	require.NoError(t, err)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), word,
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileBoolLiteral(t *testing.T) {
	prog := mustCompile(t, "#t")
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), value.BoxBool(true),
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileUnaryOp(t *testing.T) {
	prog := mustCompile(t, "(add1 1)")
	one, _ := value.BoxFixnum(0, 1)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), one,
		uint64(compiler.ADD1),
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileBinaryOp(t *testing.T) {
	prog := mustCompile(t, "(+ 1 2)")
	one, _ := value.BoxFixnum(0, 1)
	two, _ := value.BoxFixnum(0, 2)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), one,
		uint64(compiler.LOAD64), two,
		uint64(compiler.PLUS),
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileConsReversesOperands(t *testing.T) {
	prog := mustCompile(t, "(cons 1 2)")
	one, _ := value.BoxFixnum(0, 1)
	two, _ := value.BoxFixnum(0, 2)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), two,
		uint64(compiler.LOAD64), one,
		uint64(compiler.CONS),
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileVariadic(t *testing.T) {
	prog := mustCompile(t, "(vector 1 2 3)")
	require.Len(t, prog.Code, 2*3+2+1) // 3 literals + VEC,count + RETURN
	require.Equal(t, uint64(compiler.VEC), prog.Code[6])
	require.EqualValues(t, 3, prog.Code[7])
}

func TestCompileIfBranchLengths(t *testing.T) {
	prog := mustCompile(t, "(if #t 1 2)")
	// LOAD64,bool, POP_JUMP_IF_FALSE,n, LOAD64,1, JUMP_OVER_ELSE,n, LOAD64,2, RETURN
	require.Equal(t, uint64(compiler.POP_JUMP_IF_FALSE), prog.Code[2])
	require.EqualValues(t, 4, prog.Code[3]) // len(consequent)=2 + 2
	require.Equal(t, uint64(compiler.JUMP_OVER_ELSE), prog.Code[6])
	require.EqualValues(t, 2, prog.Code[7]) // len(alternate)=2
}

func TestCompileLet(t *testing.T) {
	prog := mustCompile(t, "(let ((x 1)) x)")
	one, _ := value.BoxFixnum(0, 1)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), one,
		uint64(compiler.PUSH_LET), 0,
		uint64(compiler.END_LET), 1,
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileLambdaClosureAndLabel(t *testing.T) {
	prog := mustCompile(t, "(lambda (x) x)")
	// LABEL,0, #bound=1, #free=0, bodylen+1=3, GET_ARG,0, RET, CLOSURE,0, RETURN
	require.Equal(t, []uint64{
		uint64(compiler.LABEL), 0,
		1, 0, 3,
		uint64(compiler.GET_ARG), 0,
		uint64(compiler.RET),
		uint64(compiler.CLOSURE), 0,
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileApplication(t *testing.T) {
	prog := mustCompile(t, "(let ((f (lambda (x) x))) (f 1))")
	// The label block comes first, then the let body applies it.
	require.Equal(t, uint64(compiler.LABEL), prog.Code[0])
	// ..., APPLY, END_LET, 1, RETURN
	require.Equal(t, uint64(compiler.APPLY), prog.Code[len(prog.Code)-4])
}

func TestCompileZeroArgVariadicNetsOnePush(t *testing.T) {
	// Two sibling zero-arg variadic bindings must land in distinct stack
	// slots: each of (vector) and (begin) still nets a +1 simulated push
	// despite looping over zero elements, so their PUSH_LET operands must
	// not collide.
	prog := mustCompile(t, "(let ((a (vector)) (b (begin))) (cons a b))")
	require.Equal(t, []uint64{
		uint64(compiler.VEC), 0,
		uint64(compiler.BEG), 0,
		uint64(compiler.PUSH_LET), 0, // b
		uint64(compiler.PUSH_LET), 2, // a
		uint64(compiler.CONS),
		uint64(compiler.END_LET), 2,
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileLetShadowingResolvesInnerSlot(t *testing.T) {
	prog := mustCompile(t, "(let ((x 1)) (let ((x 2)) x))")
	one, _ := value.BoxFixnum(0, 1)
	two, _ := value.BoxFixnum(0, 2)
	require.Equal(t, []uint64{
		uint64(compiler.LOAD64), one,
		uint64(compiler.LOAD64), two,
		uint64(compiler.PUSH_LET), 0, // reads the inner x (value 2), not the outer one
		uint64(compiler.END_LET), 1,
		uint64(compiler.END_LET), 1,
		uint64(compiler.RETURN),
	}, prog.Code)
}

func TestCompileUnboundVariableError(t *testing.T) {
	e, err := parser.Parse([]byte("(let ((x 1)) y)"))
	require.NoError(t, err)
	_, err = compiler.Compile(resolver.Resolve(e))
	require.Error(t, err)
}

func TestCompileMaxFixnumLiteral(t *testing.T) {
	// Overflow itself is exercised directly against BoxFixnum in
	// value_test.go; this confirms the boundary value still compiles here.
	prog := mustCompile(t, "4611686018427387903") // 2^62 - 1
	require.NotEmpty(t, prog.Code)
}
