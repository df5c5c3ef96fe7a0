package scanner_test

import (
	"testing"

	"github.com/mna/nenuphar/lang/scanner"
	"github.com/mna/nenuphar/lang/token"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		toks []token.Token
	}{
		{"empty", "", []token.Token{token.EOF}},
		{"parens", "()", []token.Token{token.LPAREN, token.RPAREN, token.EOF}},
		{"integer", "42", []token.Token{token.INT, token.EOF}},
		{"char", `#\a`, []token.Token{token.CHAR, token.EOF}},
		{"bool true", "#t", []token.Token{token.BOOL, token.EOF}},
		{"bool false", "#f", []token.Token{token.BOOL, token.EOF}},
		{"ident", "foo", []token.Token{token.IDENT, token.EOF}},
		{"keyword add1", "add1", []token.Token{token.ADD1, token.EOF}},
		{
			"keyword longest match",
			"string string-ref string-set! string-append",
			[]token.Token{token.STRING, token.STRREF, token.STRSET, token.STRAPP, token.EOF},
		},
		{
			"keyword longest match vector",
			"vector vector-ref vector-set! vector-append",
			[]token.Token{token.VECTOR, token.VECREF, token.VECSET, token.VECAPP, token.EOF},
		},
		{
			"integer-> before integer?",
			"integer->char integer? char->integer",
			[]token.Token{token.INTCHR, token.INTP, token.CHRINT, token.EOF},
		},
		{
			"comparisons",
			"< > <= >= = +",
			[]token.Token{token.LT, token.GT, token.LE, token.GE, token.NUMEQ, token.PLUS, token.EOF},
		},
		{
			"application",
			"(+ 1 2)",
			[]token.Token{token.LPAREN, token.PLUS, token.INT, token.INT, token.RPAREN, token.EOF},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			s := scanner.New([]byte(c.in))
			var got []token.Token
			for {
				tok, _, err := s.Scan()
				require.NoError(t, err)
				got = append(got, tok)
				if tok == token.EOF {
					break
				}
			}
			require.Equal(t, c.toks, got)
		})
	}
}

func TestScanPositions(t *testing.T) {
	s := scanner.New([]byte("(add1\n  2)"))
	tok, val, err := s.Scan()
	require.NoError(t, err)
	require.Equal(t, token.LPAREN, tok)
	line, col := val.Pos.LineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	tok, val, err = s.Scan()
	require.NoError(t, err)
	require.Equal(t, token.ADD1, tok)
	line, col = val.Pos.LineCol()
	require.Equal(t, 1, line)
	require.Equal(t, 2, col)

	tok, val, err = s.Scan()
	require.NoError(t, err)
	require.Equal(t, token.INT, tok)
	line, col = val.Pos.LineCol()
	require.Equal(t, 2, line)
	require.Equal(t, 3, col)
	require.EqualValues(t, 2, val.Int)
}

func TestScanIllegal(t *testing.T) {
	cases := []struct {
		desc string
		in   string
	}{
		{"bad hash", "#z"},
		{"unterminated char", "#\\"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			s := scanner.New([]byte(c.in))
			_, _, err := s.Scan()
			require.Error(t, err)
			var ce *scanner.CompileError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, scanner.LexError, ce.Kind)
		})
	}
}

func TestScanQuotedString(t *testing.T) {
	s := scanner.New([]byte(`"hello world"`))
	got, err := s.ScanQuotedString()
	require.NoError(t, err)
	require.Equal(t, "hello world", got)

	tok, _, err := s.Scan()
	require.NoError(t, err)
	require.Equal(t, token.EOF, tok)
}

func TestScanQuotedStringUnterminated(t *testing.T) {
	s := scanner.New([]byte(`"hello`))
	_, err := s.ScanQuotedString()
	require.Error(t, err)
}
