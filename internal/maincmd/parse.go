package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/parser"
)

// Parse runs the lexer and parser on the single file named in args and
// prints the resulting syntax tree.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	expr, err := parser.Parse(src)
	if err != nil {
		return printError(stdio, err)
	}

	p := ast.Printer{Output: stdio.Stdout, ShowPos: c.ShowPos}
	return printError(stdio, p.Print(expr))
}
