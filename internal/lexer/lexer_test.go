package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	pool := token.NewPool()
	l := New(pool, 0, []byte(src), DefaultConfig)
	return All(l)
}

func TestLexDirectivesAndClause(t *testing.T) {
	toks := scan(t, "#message edge(u32 X, u32 Y).\ntc(X,Y) : edge(X,Y).")
	require.NotEmpty(t, toks)
	require.Equal(t, token.KwMessage, toks[0].Kind)
	require.Equal(t, token.Atom, toks[1].Kind)
	require.Equal(t, token.LParen, toks[2].Kind)
	require.Equal(t, token.KwUnsignedInt, toks[3].Kind)
	require.Equal(t, token.Variable, toks[4].Kind)

	last := toks[len(toks)-1]
	require.Equal(t, token.EOF, last.Kind)
}

func TestLexPragma(t *testing.T) {
	toks := scan(t, "@impure @range(*) @transparent")
	require.Equal(t, token.PragmaImpure, toks[0].Kind)
	require.Equal(t, token.PragmaRange, toks[1].Kind)
}

func TestLexCodeBlock(t *testing.T) {
	src := "```cxx:Add\nreturn a + b;\n```"
	toks := scan(t, src)
	require.Equal(t, token.CodeBlock, toks[0].Kind)
}

func TestLexInvalidCharIsRecoverable(t *testing.T) {
	toks := scan(t, "a $ b")
	var sawError bool
	for _, tk := range toks {
		if tk.Kind.IsError() {
			sawError = true
		}
	}
	require.True(t, sawError)
	// Lexing continues after the bad character.
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestSizedTypeNames(t *testing.T) {
	toks := scan(t, "i32 u64 f32 utf8 uuid")
	require.Equal(t, token.KwSignedInt, toks[0].Kind)
	require.Equal(t, token.KwUnsignedInt, toks[1].Kind)
	require.Equal(t, token.KwFloat, toks[2].Kind)
	require.Equal(t, token.KwUTF8, toks[3].Kind)
	require.Equal(t, token.KwUUID, toks[4].Kind)
}
