package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecursiveSCCsFindsSelfRecursion(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
tc(X, Z) : edge(X, Y), tc(Y, Z).
`)
	dep := buildDepGraph(mod.Clauses)
	sccs := dep.recursiveSCCs()
	require.Len(t, sccs, 1)
	require.Len(t, sccs[0], 1)
	require.Equal(t, "tc", mod.Name(sccs[0][0].Name))
}

func TestRecursiveSCCsIgnoresNonRecursiveDependency(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query reachable(u32 X, u32 Y).

reachable(X, Y) : edge(X, Y).
`)
	dep := buildDepGraph(mod.Clauses)
	require.Empty(t, dep.recursiveSCCs())
}
