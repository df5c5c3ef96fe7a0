package scanner

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"

	"github.com/mna/nenuphar/lang/token"
)

// PrintError is the standard library's go/scanner.PrintError, reused as-is:
// it prints a plain error on one line, or one line per entry for an
// ErrorList.
var PrintError = scanner.PrintError

// ErrorList accumulates *CompileError values encountered while compiling a
// single source file, so that a whole pass (scan, parse, resolve or
// compile) can report every error it finds rather than stopping at the
// first one.
type ErrorList struct {
	errs []*CompileError
}

// Add appends a new error of the given kind at pos to the list.
func (l *ErrorList) Add(kind Kind, pos token.Pos, format string, args ...any) {
	l.errs = append(l.errs, Errorf(kind, pos, format, args...))
}

// Len reports the number of accumulated errors.
func (l *ErrorList) Len() int { return len(l.errs) }

// Err returns nil if the list is empty, the single error if it holds
// exactly one, or a *scanner.ErrorList-compatible error report otherwise.
func (l *ErrorList) Err() error {
	switch len(l.errs) {
	case 0:
		return nil
	case 1:
		return l.errs[0]
	default:
		var list scanner.ErrorList
		for _, e := range l.errs {
			list.Add(e.Err.Pos, e.Error())
		}
		return list.Err()
	}
}

// goPos renders a token.Pos as a go/token.Position so it can be carried by
// the standard library's scanner.Error, which this package reuses rather
// than reinventing a positioned-error type.
func goPos(pos token.Pos) gotoken.Position {
	line, col := pos.LineCol()
	return gotoken.Position{Line: line, Column: col}
}

// Kind classifies a compile-time error per the taxonomy the compiler can
// raise. Every kind fails the compilation: there is no partial output and
// no retry. The parser may record several errors before it returns; the
// scanner and the code generator stop at the first one.
type Kind int

const (
	_ Kind = iota
	LexError
	ParseError
	ArityError
	SemanticError
	OverflowError
	IOError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case ArityError:
		return "arity error"
	case SemanticError:
		return "semantic error"
	case OverflowError:
		return "overflow error"
	case IOError:
		return "I/O error"
	default:
		return "error"
	}
}

// CompileError is a single positioned error tagged with its Kind so callers
// can distinguish the taxonomy from §7 with errors.As. Positioning and
// formatting are delegated to the standard library's go/scanner.Error so
// every phase of the pipeline (scanner, parser, resolver, compiler) prints
// errors identically.
type CompileError struct {
	Kind Kind
	Pos  token.Pos
	Err  *scanner.Error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

// Unwrap exposes the underlying *scanner.Error for errors.As/errors.Is.
func (e *CompileError) Unwrap() error { return e.Err }

// Errorf builds a *CompileError of the given kind at pos.
func Errorf(kind Kind, pos token.Pos, format string, args ...any) *CompileError {
	return &CompileError{
		Kind: kind,
		Pos:  pos,
		Err: &scanner.Error{
			Pos: goPos(pos),
			Msg: fmt.Sprintf(format, args...),
		},
	}
}
