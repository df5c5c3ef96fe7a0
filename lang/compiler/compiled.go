package compiler

// A Program is the output of a single compilation: a flat, already-linear
// sequence of 64-bit words ready for serialization by Serialize. There is no
// header, no function table and no line number table — the source maps
// directly to one instruction stream, and the label table that made closure
// creation possible during code generation has already been flattened into
// inline LABEL blocks within Code.
type Program struct {
	Code []uint64
}

// Len reports the number of words in the program, including the trailing
// RETURN.
func (p *Program) Len() int { return len(p.Code) }
