package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/nenuphar/lang/scanner"
	"github.com/mna/nenuphar/lang/token"
)

// Tokenize runs the lexer on the single file named in args and prints each
// token's position, kind and raw source text, one per line.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	var s scanner.Scanner
	s.Init(src)
	for {
		tok, val, err := s.Scan()
		if err != nil {
			return printError(stdio, err)
		}
		fmt.Fprintf(stdio.Stdout, "%s: %s", val.Pos, tok)
		if val.Raw != "" {
			fmt.Fprintf(stdio.Stdout, " %s", val.Raw)
		}
		fmt.Fprintln(stdio.Stdout)

		if tok == token.EOF {
			return nil
		}
	}
}
