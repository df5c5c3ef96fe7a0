// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the lexer that tokenizes source text for the
// parser to consume.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/mna/nenuphar/lang/token"
)

// Scanner tokenizes a source program for the parser. It is position
// tracking: every emitted token.Value carries the 1-based line and column
// at which the token starts.
type Scanner struct {
	src []byte

	cur  rune // current character, -1 at end of input
	off  int  // byte offset of cur
	roff int  // byte offset just past cur

	line, col int // position of cur
}

// New returns a Scanner initialized to tokenize src.
func New(src []byte) *Scanner {
	s := new(Scanner)
	s.Init(src)
	return s
}

// Init resets s to scan src from the beginning.
func (s *Scanner) Init(src []byte) {
	s.src = src
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.advance()
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.col++
	s.cur = r
}

func (s *Scanner) peekByte() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) pos() token.Pos { return token.MakePos(s.line, s.col) }

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isIdentChar reports whether r may appear in an identifier or built-in
// operator token: everything except whitespace, parentheses and backtick.
func isIdentChar(r rune) bool {
	return r != -1 && !isSpace(r) && r != '(' && r != ')' && r != '`'
}

func isBoolLetter(b byte) bool { return b == 't' || b == 'T' || b == 'f' || b == 'F' }

func (s *Scanner) skipWhitespace() {
	for isSpace(s.cur) {
		s.advance()
	}
}

// Scan returns the next token and its value. At end of input it returns
// token.EOF forever.
//
// Patterns are tried in the fixed priority order required by the language:
// parentheses, integer literals, character literals, boolean literals,
// built-in operator/keyword names, then identifiers. Multi-character
// keywords don't need an explicit longest-match ordering (e.g.
// "string-append" before "string-ref" before "string-set!" before
// "string") because identifier and keyword tokens are delimited only by
// whitespace, parentheses and backtick: the scanner always consumes the
// maximal run of such characters first and looks the result up in the
// keyword table afterwards, so a longer keyword is never shadowed by a
// shorter one that happens to be one of its prefixes.
func (s *Scanner) Scan() (token.Token, token.Value, error) {
	s.skipWhitespace()
	pos := s.pos()
	start := s.off

	switch {
	case s.cur == -1:
		return token.EOF, token.Value{Pos: pos}, nil

	case s.cur == '(':
		s.advance()
		return token.LPAREN, token.Value{Raw: "(", Pos: pos}, nil

	case s.cur == ')':
		s.advance()
		return token.RPAREN, token.Value{Raw: ")", Pos: pos}, nil

	case isDigit(s.cur):
		for isDigit(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return token.ILLEGAL, token.Value{}, Errorf(LexError, pos, "malformed integer literal %q", lit)
		}
		return token.INT, token.Value{Raw: lit, Pos: pos, Int: n}, nil

	case s.cur == '#' && s.peekByte() == '\\':
		s.advance() // '#'
		s.advance() // '\'
		if s.cur == -1 {
			return token.ILLEGAL, token.Value{}, Errorf(LexError, pos, "unterminated character literal")
		}
		if s.cur == '`' {
			return token.ILLEGAL, token.Value{}, Errorf(LexError, pos, "illegal character literal %q", "`")
		}
		ch := s.cur
		s.advance()
		lit := string(s.src[start:s.off])
		return token.CHAR, token.Value{Raw: lit, Pos: pos, Char: ch}, nil

	case s.cur == '#' && isBoolLetter(byte(s.peekByte())):
		s.advance() // '#'
		b := s.cur
		s.advance()
		return token.BOOL, token.Value{Raw: "#" + string(b), Pos: pos}, nil

	case isIdentChar(s.cur) && !isDigit(s.cur) && s.cur != '#':
		for isIdentChar(s.cur) {
			s.advance()
		}
		lit := string(s.src[start:s.off])
		return token.LookupIdent(lit), token.Value{Raw: lit, Pos: pos}, nil

	default:
		return token.ILLEGAL, token.Value{}, Errorf(LexError, pos, "unrecognized token starting with %q", string(s.cur))
	}
}

// ScanQuotedString consumes a quoted string literal `"..."` starting at the
// scanner's current position, as requested explicitly by the parser inside
// a (string ...) form. Whitespace before the opening quote is skipped, and
// newlines are permitted inside the quotes. It returns the string's content
// with the surrounding quotes stripped.
func (s *Scanner) ScanQuotedString() (string, error) {
	s.skipWhitespace()
	pos := s.pos()
	if s.cur != '"' {
		return "", Errorf(LexError, pos, "expected opening quote of string literal")
	}
	s.advance()
	start := s.off
	for s.cur != '"' {
		if s.cur == -1 {
			return "", Errorf(LexError, pos, "unterminated string literal")
		}
		s.advance()
	}
	content := string(s.src[start:s.off])
	s.advance() // closing quote
	return content, nil
}
