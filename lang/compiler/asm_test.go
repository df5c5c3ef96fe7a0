package compiler_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/compiler"
	"github.com/stretchr/testify/require"
)

func TestDisassembleThenAsmRoundTrips(t *testing.T) {
	prog := mustCompile(t, "(let ((x 1)) (+ x 2))")

	text, err := compiler.Disassemble(prog)
	require.NoError(t, err)
	require.Contains(t, text, "LOAD64")
	require.Contains(t, text, "END_LET 1")

	got, err := compiler.Asm(text)
	require.NoError(t, err)
	require.Equal(t, prog.Code, got.Code)
}

func TestAsmLambdaLabelHeader(t *testing.T) {
	prog := mustCompile(t, "(lambda (x) x)")

	text, err := compiler.Disassemble(prog)
	require.NoError(t, err)
	require.Contains(t, text, "LABEL 0 1 0 3")
	require.Contains(t, text, "RET")
	require.Contains(t, text, "CLOSURE 0")

	got, err := compiler.Asm(text)
	require.NoError(t, err)
	require.Equal(t, prog.Code, got.Code)
}

func TestAsmUnknownMnemonic(t *testing.T) {
	_, err := compiler.Asm("NOT_AN_OPCODE 1")
	require.Error(t, err)
}

func TestAsmWrongOperandCount(t *testing.T) {
	_, err := compiler.Asm("LOAD64")
	require.Error(t, err)
}

func TestAsmIgnoresCommentsAndBlankLines(t *testing.T) {
	prog, err := compiler.Asm(`
		; a comment
		LOAD64 4   # inline comment

		RETURN
	`)
	require.NoError(t, err)
	require.Equal(t, []uint64{uint64(compiler.LOAD64), 4, uint64(compiler.RETURN)}, prog.Code)
}
