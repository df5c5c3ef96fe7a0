package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/nenuphar/lang/compiler"
)

// Disasm reads a binary word stream previously written by 'compile --out'
// from the single file named in args and prints it as pseudo-assembly.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return printError(stdio, err)
	}
	defer f.Close()

	prog, err := compiler.ReadProgram(f)
	if err != nil {
		return printError(stdio, err)
	}

	text, err := compiler.Disassemble(prog)
	if err != nil {
		return printError(stdio, err)
	}
	_, err = stdio.Stdout.Write([]byte(text))
	return printError(stdio, err)
}
