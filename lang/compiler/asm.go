package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// This file implements a human-readable/writable form of a compiled
// program, adapted from the richer multi-function assembler this package
// once carried: because a Program here is just a flat word stream (§4.5,
// §4.6) rather than a table of Funcodes, the whole format collapses to one
// instruction per line. Disassemble is what the compile and disasm commands
// print; Asm reads the same text back and is used by tests to assert an
// instruction sequence in readable form instead of raw hex.
//
// Grammar, one instruction per line, blank lines and "; comment" trailers
// ignored:
//
//	LOAD64 1234
//	GET_ARG 0
//	ADD1
//	LABEL 0 1 0 3      # id, #bound, #free, body-length+1
//	RET
//	CLOSURE 0
//	RETURN

// Disassemble renders prog as one line per instruction, in the same
// notation Asm reads back. LABEL's three trailing header words (bound
// count, free count, body length) are printed alongside its id rather than
// decoded as instructions, since they are raw data, not opcodes.
func Disassemble(prog *Program) (string, error) {
	var b strings.Builder
	code := prog.Code
	for pc := 0; pc < len(code); {
		n, line, err := disasmOne(code, pc)
		if err != nil {
			return "", fmt.Errorf("at word %d: %w", pc, err)
		}
		fmt.Fprintf(&b, "%s\n", line)
		pc += n
	}
	return b.String(), nil
}

func disasmOne(code []uint64, pc int) (n int, line string, err error) {
	raw := code[pc]
	op := Opcode(raw)
	if op <= 0 || op >= maxOpcode {
		return 0, "", fmt.Errorf("invalid opcode %d", raw)
	}
	if !op.HasArg() {
		return 1, op.String(), nil
	}
	if pc+1 >= len(code) {
		return 0, "", fmt.Errorf("%s: missing operand", op)
	}
	arg := code[pc+1]
	if op == LABEL {
		if pc+4 >= len(code) {
			return 0, "", fmt.Errorf("LABEL: truncated header")
		}
		bound, free, bodyLen := code[pc+2], code[pc+3], code[pc+4]
		return 5, fmt.Sprintf("LABEL %d %d %d %d", arg, bound, free, bodyLen), nil
	}
	return 2, fmt.Sprintf("%s %d", op, arg), nil
}

// Asm parses the textual form Disassemble produces (or hand-written text in
// the same grammar) into a Program.
func Asm(src string) (*Program, error) {
	var code []uint64
	for lineno, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		op, ok := lookupOpcode(fields[0])
		if !ok {
			return nil, fmt.Errorf("line %d: unknown mnemonic %q", lineno+1, fields[0])
		}
		code = append(code, uint64(op))

		want := 0
		if op.HasArg() {
			want = 1
		}
		if op == LABEL {
			want = 4
		}
		if len(fields)-1 != want {
			return nil, fmt.Errorf("line %d: %s wants %d operand word(s), got %d", lineno+1, op, want, len(fields)-1)
		}
		for _, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid operand %q: %w", lineno+1, f, err)
			}
			code = append(code, v)
		}
	}
	return &Program{Code: code}, nil
}

var mnemonics = func() map[string]Opcode {
	m := make(map[string]Opcode, maxOpcode)
	for op := Opcode(1); op < maxOpcode; op++ {
		m[op.String()] = op
	}
	return m
}()

func lookupOpcode(name string) (Opcode, bool) {
	op, ok := mnemonics[strings.ToUpper(name)]
	return op, ok
}
