package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/nenuphar/lang/ast"
	"github.com/mna/nenuphar/lang/parser"
	"github.com/mna/nenuphar/lang/resolver"
)

// Resolve runs the lexer, parser and closure converter on the single file
// named in args and prints the annotated tree: every lambda lifted to a
// label, every identifier classified as bound, free or local.
func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	expr, err := parser.Parse(src)
	if err != nil {
		return printError(stdio, err)
	}

	resolved := resolver.Resolve(expr)

	p := ast.Printer{Output: stdio.Stdout, ShowPos: c.ShowPos}
	return printError(stdio, p.Print(resolved))
}
