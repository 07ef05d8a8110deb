package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []token {
	t.Helper()
	lex := NewLexer(src)
	var toks []token
	for {
		tok, err := lex.Next()
		require.NoError(t, err, "lexing %q", src)
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(t, "42 3.14 1e3 1.5e-2 0")
	require.Len(t, toks, 6)
	assert.Equal(t, tokInt, toks[0].kind)
	assert.EqualValues(t, 42, toks[0].ival)
	assert.Equal(t, tokFloat, toks[1].kind)
	assert.InDelta(t, 3.14, toks[1].fval, 1e-9)
	assert.Equal(t, tokFloat, toks[2].kind)
	assert.InDelta(t, 1000.0, toks[2].fval, 1e-9)
	assert.Equal(t, tokFloat, toks[3].kind)
	assert.InDelta(t, 0.015, toks[3].fval, 1e-9)
	assert.Equal(t, tokInt, toks[4].kind)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\t\"c\\d\101"`)
	require.Len(t, toks, 2)
	assert.Equal(t, tokString, toks[0].kind)
	assert.Equal(t, "a\nb\t\"c\\dA", toks[0].text)
}

func TestLexerRawString(t *testing.T) {
	toks := lexAll(t, `r"a\nb"`)
	require.Len(t, toks, 2)
	assert.Equal(t, tokRawString, toks[0].kind)
	assert.Equal(t, `a\nb`, toks[0].text, "raw strings must not process escapes")
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer(`"abc`)
	_, err := lex.Next()
	assert.Error(t, err)
}

func TestLexerVarToken(t *testing.T) {
	toks := lexAll(t, "$foo")
	require.Len(t, toks, 2)
	assert.Equal(t, tokVar, toks[0].kind)
	assert.Equal(t, "foo", toks[0].text)
}

func TestLexerOperators(t *testing.T) {
	toks := lexAll(t, "== != <= >= < > = ..")
	kinds := make([]tokenKind, 0, len(toks)-1)
	for _, tok := range toks[:len(toks)-1] {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, []tokenKind{tokEq, tokNe, tokLe, tokGe, tokLt, tokGt, tokAssign, tokDotDot}, kinds)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	lex := NewLexer("#")
	_, err := lex.Next()
	assert.Error(t, err)
}
