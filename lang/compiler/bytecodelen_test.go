package compiler_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/compiler"
	"github.com/mna/nenuphar/lang/parser"
	"github.com/mna/nenuphar/lang/resolver"
	"github.com/stretchr/testify/require"
)

// bytecodeLength is unexported, so synchronization with the emitter is
// verified indirectly through the jump operands it computes: every
// POP_JUMP_IF_FALSE must land just past the JUMP_OVER_ELSE that ends its
// consequent, and every jump must land on an instruction boundary, which
// these cases exercise through if and let.
func TestBytecodeLengthMatchesIfJumpTargets(t *testing.T) {
	for _, src := range []string{
		"(if #t 1 2)",
		"(if (zero? 0) (+ 1 2) (- 3 4))",
		"(if #t (if #f 1 2) 3)",
		"(let ((x 1) (y 2)) (if (< x y) x y))",
	} {
		e, err := parser.Parse([]byte(src))
		require.NoError(t, err, src)
		prog, err := compiler.Compile(resolver.Resolve(e))
		require.NoError(t, err, src)
		require.NotEmpty(t, prog.Code, src)

		starts := map[int]bool{}
		var jumps [][2]int // {pc of the jump, pc of its target}
		for pc := 0; pc < len(prog.Code); {
			starts[pc] = true
			op := compiler.Opcode(prog.Code[pc])
			if op == compiler.POP_JUMP_IF_FALSE || op == compiler.JUMP_OVER_ELSE {
				jumps = append(jumps, [2]int{pc, pc + 2 + int(prog.Code[pc+1])})
			}
			if op.HasArg() {
				pc += 2
			} else {
				pc++
			}
		}
		require.NotEmpty(t, jumps, src)
		for _, j := range jumps {
			require.True(t, starts[j[1]], src)
			if compiler.Opcode(prog.Code[j[0]]) == compiler.POP_JUMP_IF_FALSE {
				require.Equal(t, uint64(compiler.JUMP_OVER_ELSE), prog.Code[j[1]-2], src)
			}
		}
	}
}

func TestBytecodeLengthMatchesLabelBodyLength(t *testing.T) {
	e, err := parser.Parse([]byte("(lambda (x y) (+ x y))"))
	require.NoError(t, err)
	prog, err := compiler.Compile(resolver.Resolve(e))
	require.NoError(t, err)

	// LABEL, id, #bound, #free, bodylen+1, <body...>, RET, CLOSURE, id, RETURN
	bodyLenPlus1 := prog.Code[4]
	// body is GET_ARG,0, GET_ARG,1, PLUS = 5 words
	require.EqualValues(t, 6, bodyLenPlus1)

	// the words between the header and RET must equal bodyLenPlus1-1
	ret := prog.Code[4+int(bodyLenPlus1)]
	require.Equal(t, uint64(compiler.RET), ret)
}
