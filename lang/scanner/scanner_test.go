package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []diagnostic.Diagnostic) {
	t.Helper()
	var diags []diagnostic.Diagnostic
	toks := New(src, func(d diagnostic.Diagnostic) { diags = append(diags, d) }).Scan()
	return toks, diags
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, diags := scanAll(t, "+ ++ - -- * ** / % ! != = == > >= < <= ( ) { } , . : ;")
	require.Empty(t, diags)

	want := []token.Kind{
		token.PLUS, token.PLUS_PLUS, token.MINUS, token.MINUS_MINUS,
		token.STAR, token.STAR_STAR, token.SLASH, token.PERCENT,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.COLON, token.SEMICOLON,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		require.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	toks, diags := scanAll(t, "var x = foo; class Bar {} if while return print true false null and or")
	require.Empty(t, diags)

	require.Equal(t, token.VAR, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, "x", toks[1].Lexeme)
	require.Equal(t, token.EQUAL, toks[2].Kind)
	require.Equal(t, token.IDENT, toks[3].Kind)
	require.Equal(t, "foo", toks[3].Lexeme)
}

func TestScanNumberLiterals(t *testing.T) {
	toks, diags := scanAll(t, "42 3.14")
	require.Empty(t, diags)
	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, int64(42), toks[0].Literal)
	require.Equal(t, token.FLOAT, toks[1].Kind)
	require.Equal(t, 3.14, toks[1].Literal)
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	toks, diags := scanAll(t, `"hello\nworld\t\"quoted\""`)
	require.Empty(t, diags)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello\nworld\t\"quoted\"", toks[0].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	_, diags := scanAll(t, `"unterminated`)
	require.Len(t, diags, 1)
	require.Equal(t, diagnostic.ScanError, diags[0].Kind)
	require.Equal(t, "Unterminated string.", diags[0].Message)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, diags := scanAll(t, "/* never closed")
	require.Len(t, diags, 1)
	require.Equal(t, "Unterminated block comment.", diags[0].Message)
}

func TestScanNestedBlockComments(t *testing.T) {
	toks, diags := scanAll(t, "/* outer /* inner */ still-outer */ 1")
	require.Empty(t, diags)
	require.Equal(t, token.INT, toks[0].Kind)
}

func TestScanLineComment(t *testing.T) {
	toks, diags := scanAll(t, "1 // trailing comment\n2")
	require.Empty(t, diags)
	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, token.INT, toks[1].Kind)
	require.Equal(t, 2, toks[1].Line)
}

func TestScanIllegalCharacter(t *testing.T) {
	_, diags := scanAll(t, "1 @ 2")
	require.Len(t, diags, 1)
	require.Equal(t, "Unexpected character '@'.", diags[0].Message)
}

func TestScanAlwaysEndsWithEOF(t *testing.T) {
	toks, _ := scanAll(t, "")
	require.Len(t, toks, 1)
	require.Equal(t, token.EOF, toks[0].Kind)
}
