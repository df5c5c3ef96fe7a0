package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/nenuphar/lang/compiler"
	"github.com/mna/nenuphar/lang/parser"
	"github.com/mna/nenuphar/lang/resolver"
)

// Compile runs the full pipeline (lex, parse, resolve, compile) on the
// single file named in args. With --out, the resulting bytecode is written
// as a binary word stream to the given path; otherwise it is printed to
// stdout as pseudo-assembly.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	expr, err := parser.Parse(src)
	if err != nil {
		return printError(stdio, err)
	}

	prog, err := compiler.Compile(resolver.Resolve(expr))
	if err != nil {
		return printError(stdio, err)
	}

	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return printError(stdio, err)
		}
		defer f.Close()
		return printError(stdio, compiler.Serialize(prog, f))
	}

	text, err := compiler.Disassemble(prog)
	if err != nil {
		return printError(stdio, err)
	}
	_, err = stdio.Stdout.Write([]byte(text))
	return printError(stdio, err)
}
