package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModuleParsesInlineSource(t *testing.T) {
	mod, log := ParseModule("<test>", `#message edge(u32 X, u32 Y).`)
	require.False(t, log.HasErrors())
	require.NotNil(t, mod.Lookup(mod.Pool.Intern("edge"), 2))
}

func TestMemFileSourceServesRegisteredPaths(t *testing.T) {
	src := MemFileSource{"/a.dl": "#message a(u32 X)."}
	data, err := src.ReadFile("/a.dl")
	require.NoError(t, err)
	require.Equal(t, "#message a(u32 X).", string(data))

	_, err = src.ReadFile("/missing.dl")
	require.Error(t, err)
}

func TestFixedPosIsStableAndDistinguishesSeq(t *testing.T) {
	a := FixedPos(1)
	b := FixedPos(1)
	c := FixedPos(2)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
