package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupByHeadGroupsMultipleClausesUnderOneHead(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#message b(u32 X).
#query either(u32 X).

either(X) : a(X).
either(X) : b(X).
`)
	graphs := buildGraphs(t, mod)
	groups := GroupByHead(graphs)

	require.Len(t, groups, 1)
	require.Equal(t, "either", mod.Name(groups[0].Head.Name))
	require.Len(t, groups[0].Graphs, 2)
}

func TestGroupByHeadSeparatesDistinctHeads(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#query p(u32 X).
#query q(u32 X).

p(X) : a(X).
q(X) : a(X).
`)
	graphs := buildGraphs(t, mod)
	groups := GroupByHead(graphs)

	require.Len(t, groups, 2)
	require.Equal(t, "p", mod.Name(groups[0].Head.Name))
	require.Equal(t, "q", mod.Name(groups[1].Head.Name))
}
