package compiler

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Serialize writes prog's code words to w as unsigned 64-bit little-endian
// integers, one after another, per §4.6: no framing, no header, no
// trailer. The final word written is always RETURN, since compileProgram
// always appends one.
func Serialize(prog *Program, w io.Writer) error {
	var buf [8]byte
	for _, word := range prog.Code {
		binary.LittleEndian.PutUint64(buf[:], word)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadProgram reads back a word stream written by Serialize. It is a CLI
// convenience for round-tripping a compiled file through the disasm
// command, not part of the compiler's own output contract: the virtual
// machine that actually executes a Program is out of scope here.
func ReadProgram(r io.Reader) (*Program, error) {
	var buf [8]byte
	var code []uint64
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading word %d: %w", len(code), err)
		}
		code = append(code, binary.LittleEndian.Uint64(buf[:]))
	}
	return &Program{Code: code}, nil
}
