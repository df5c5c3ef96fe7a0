package resolver_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/parser"
	"github.com/mna/nenuphar/lang/resolver"
	"github.com/stretchr/testify/require"
)

func parseAndResolve(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return resolver.Resolve(e)
}

func TestResolveNoLambda(t *testing.T) {
	got := parseAndResolve(t, "(+ 1 2)")
	_, ok := got.(*ast.OpExpr)
	require.True(t, ok)
}

func TestResolveLetLocal(t *testing.T) {
	got := parseAndResolve(t, "(let ((x 1)) x)")
	let, ok := got.(*ast.LetExpr)
	require.True(t, ok)
	ref, ok := let.Body.(*ast.LocalRef)
	require.True(t, ok)
	require.Equal(t, "x", ref.Name)
}

func TestResolveLambdaNoFree(t *testing.T) {
	got := parseAndResolve(t, "(lambda (x) x)")
	wrapped, ok := got.(*ast.LabelsExpr)
	require.True(t, ok)
	require.Len(t, wrapped.Labels, 1)
	require.Equal(t, "f0", wrapped.Labels[0].Name)
	require.Empty(t, wrapped.Labels[0].Code.Free)

	closure, ok := wrapped.Body.(*ast.ClosureExpr)
	require.True(t, ok)
	require.Equal(t, "f0", closure.Label)

	ref, ok := wrapped.Labels[0].Code.Body.(*ast.BoundRef)
	require.True(t, ok)
	require.Equal(t, "x", ref.Name)
}

func TestResolveLambdaCapturesFree(t *testing.T) {
	got := parseAndResolve(t, "(let ((y 1)) (lambda (x) (+ x y)))")
	wrapped, ok := got.(*ast.LabelsExpr)
	require.True(t, ok)
	let, ok := wrapped.Body.(*ast.LetExpr)
	require.True(t, ok)
	require.Equal(t, []string{"y"}, wrapped.Labels[0].Code.Free)

	op := wrapped.Labels[0].Code.Body.(*ast.OpExpr)
	_, ok = op.Args[0].(*ast.BoundRef)
	require.True(t, ok)
	free, ok := op.Args[1].(*ast.FreeRef)
	require.True(t, ok)
	require.Equal(t, "y", free.Name)

	closure, ok := let.Body.(*ast.ClosureExpr)
	require.True(t, ok)
	require.Equal(t, []string{"y"}, closure.Frees)
}

func TestResolveNestedLambdaPreOrderLabels(t *testing.T) {
	got := parseAndResolve(t, "(lambda (x) ((lambda (y) y) x))")
	wrapped, ok := got.(*ast.LabelsExpr)
	require.True(t, ok)
	require.Len(t, wrapped.Labels, 2)
	require.Equal(t, "f0", wrapped.Labels[0].Name)
	require.Equal(t, "f1", wrapped.Labels[1].Name)
}

func TestResolveLocalInsideLambdaBody(t *testing.T) {
	got := parseAndResolve(t, "(lambda (x) (let ((y 1)) (+ x y)))")
	wrapped := got.(*ast.LabelsExpr)
	let := wrapped.Labels[0].Code.Body.(*ast.LetExpr)
	op := let.Body.(*ast.OpExpr)
	_, ok := op.Args[0].(*ast.BoundRef)
	require.True(t, ok)
	_, ok = op.Args[1].(*ast.LocalRef)
	require.True(t, ok)
}

// A name that is neither a formal parameter nor captured by any enclosing
// let is always classified as free inside a lambda body: free-variable
// computation has no visibility into whether an outer scope will actually
// supply it. The code generator then resolves such a name against the code
// block's own free list, so it compiles to GET_FREE without an error.
func TestResolveUnresolvableNameInsideLambdaBecomesFree(t *testing.T) {
	got := parseAndResolve(t, "(lambda (x) y)")
	wrapped := got.(*ast.LabelsExpr)
	_, ok := wrapped.Labels[0].Code.Body.(*ast.FreeRef)
	require.True(t, ok)
	require.Equal(t, []string{"y"}, wrapped.Labels[0].Code.Free)
}
