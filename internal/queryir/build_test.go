package queryir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/token"
)

func parseOne(t *testing.T, src string) *ast.Module {
	t.Helper()
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	mod, log := parser.Parse(pool, toks, "<test>")
	require.False(t, log.HasErrors(), "parse errors: %v", log.Errors())
	return mod
}

func TestBuildClauseSingleAtomProducesSelectTupleInsert(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
`)
	g, err := BuildClause(mod.Clauses[0], -1)
	require.NoError(t, err)
	require.Len(t, g.Sinks, 1)

	result := Validate(g)
	require.True(t, result.Valid, "%v", result.Violations)

	foundSelect, foundInsert := false, false
	for _, v := range g.Views {
		switch v.(type) {
		case *QuerySelect:
			foundSelect = true
		case *QueryInsert:
			foundInsert = true
		}
	}
	require.True(t, foundSelect)
	require.True(t, foundInsert)
}

func TestBuildClauseTwoAtomJoinSharesPivotColumn(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Z).

tc(X, Z) : edge(X, Y), edge(Y, Z).
`)
	g, err := BuildClause(mod.Clauses[0], -1)
	require.NoError(t, err)

	var join *QueryJoin
	for _, v := range g.Views {
		if j, ok := v.(*QueryJoin); ok {
			join = j
		}
	}
	require.NotNil(t, join, "expected a join between the two edge selects")
	require.Len(t, join.Inputs_, 2)

	result := Validate(g)
	require.True(t, result.Valid, "%v", result.Violations)
}

func TestBuildClauseNegationProducesNegateView(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#message b(u32 X).
#query ok(u32 X).

ok(X) : a(X), !b(X).
`)
	g, err := BuildClause(mod.Clauses[0], 0)
	require.NoError(t, err)

	foundNegate := false
	for _, v := range g.Views {
		if _, ok := v.(*QueryNegate); ok {
			foundNegate = true
		}
	}
	require.True(t, foundNegate)
}

func TestBuildClauseAggregateProducesAggregateView(t *testing.T) {
	mod := parseOne(t, `
#message score(u32 Who, u32 Points).
#message seen(u32 Who).
#functor sum_points(summary u32 Total, aggregate u32 Points) @range(.).
#query total(u32 Who, u32 Total).

total(Who, Total) : seen(Who), !score(Who, Total), sum_points over score(Who, Total).
`)
	g, err := BuildClause(mod.Clauses[0], -1)
	require.NoError(t, err)

	foundAgg := false
	for _, v := range g.Views {
		if _, ok := v.(*QueryAggregate); ok {
			foundAgg = true
		}
	}
	require.True(t, foundAgg)
}

func TestBuildClauseNoSatisfiableOrderReturnsError(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query bad(u32 X).

bad(X) : edge(X, Y), Y != Z.
`)
	_, err := BuildClause(mod.Clauses[0], -1)
	require.Error(t, err)
}

func TestDifferentialMessageSelectLabelledBoth(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y) @differential.
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
`)
	g, err := BuildClause(mod.Clauses[0], -1)
	require.NoError(t, err)

	for _, v := range g.Views {
		if sel, ok := v.(*QuerySelect); ok {
			require.True(t, sel.CanReceiveDeletions)
			require.True(t, sel.CanProduceDeletions)
		}
	}
}
