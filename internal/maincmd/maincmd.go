package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "nenuscheme"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler for the nenuscheme language: a small Scheme-like language that
targets a stack-oriented bytecode virtual machine.

The <command> can be one of:
       tokenize                  Run the lexer and print the resulting
                                 tokens.
       parse                     Run the lexer and parser and print the
                                 resulting abstract syntax tree.
       resolve                   Run the parser and closure converter and
                                 print the annotated tree and label table.
       compile                   Run the full pipeline and print the
                                 resulting bytecode as pseudo-assembly,
                                 or write it as a binary word stream with
                                 --out.
       disasm                    Read a binary word stream written by
                                 'compile --out' and print it as
                                 pseudo-assembly.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --show-pos                Include source positions in AST output
                                 (parse, resolve).
       --out <path>              Write compile's binary output to <path>
                                 instead of printing pseudo-assembly.

More information on the nenuscheme repository:
       https://github.com/mna/nenuphar
`, binName)
)

// Cmd is the root command dispatched by main. Each exported method with the
// right signature becomes a subcommand named after the method in lower case
// by buildCmds; the command given on the command line must match that name
// exactly.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	ShowPos bool   `flag:"show-pos"`
	Out     string `flag:"out"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if len(c.args[1:]) != 1 {
		return fmt.Errorf("%s: exactly one file path is required", cmdName)
	}

	if c.flags["show-pos"] && cmdName != "parse" && cmdName != "resolve" {
		return fmt.Errorf("%s: invalid flag '--show-pos'", cmdName)
	}
	if c.flags["out"] && cmdName != "compile" {
		return fmt.Errorf("%s: invalid flag '--out'", cmdName)
	}
	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds collects every method of v shaped like a subcommand: it takes a
// context and a mainer.Stdio and a slice of file paths, and returns an
// error.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
