package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/token"
)

func parse(t *testing.T, src string) *diag.Log {
	t.Helper()
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	mod, parseLog := parser.Parse(pool, toks, "<test>")
	require.False(t, parseLog.HasErrors(), "parse errors: %v", parseLog.Errors())
	return Check(mod)
}

func hasCode(log *diag.Log, code diag.Code) bool {
	for _, e := range log.Errors() {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestSafeTransitiveClosureAndNegationHaveNoErrors(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#message node(u32 X).
#query tc(u32 X, u32 Y).
#query isolated(u32 X).

tc(X, Y) : edge(X, Y).
tc(X, Z) : edge(X, Y), tc(Y, Z).
isolated(X) : node(X), tc(X, Y), !tc(Y, X), X != Y.
`
	log := parse(t, src)
	require.False(t, log.HasErrors(), "unexpected errors: %v", log.Errors())
}

func TestUnboundHeadVariableIsRangeRestrictionError(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#query bad(u32 X, u32 Z).

bad(X, Z) : edge(X, Y).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrRangeRestriction))
}

func TestNegatedAtomWithUnboundArgIsBindingError(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#query bad(u32 X).

bad(X) : edge(X, Y0), !edge(X, Y).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrBindingUnsatisfied))
}

func TestMutualNegationCycleIsStratificationError(t *testing.T) {
	src := `
#message seed(u32 X).
#local a(u32 X).
#local b(u32 X).

a(X) : seed(X), !b(X).
b(X) : seed(X), !a(X).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrNegationInCycle))
}

func TestNegationOverImpureFunctorReachableRelationIsStratificationError(t *testing.T) {
	src := `
#message raw(u32 X).
#functor identity(bound u32 X, free u32 Y) @impure @range(.).
#local tainted(u32 X, u32 Y).
#query clean(u32 X).

tainted(X, Y) : raw(X), identity(X, Y).
clean(X) : raw(X), !tainted(X, Y).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrNegationInCycle))
}

func TestAggregateWithoutAggregateRoleIsMisuse(t *testing.T) {
	src := `
#message score(u32 Who, u32 Points).
#functor bad_reducer(bound u32 Who, bound u32 Points) @range(.).
#query total(u32 Who, u32 Points).

total(Who, Points) : bad_reducer over score(Who, Points).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrAggregateMisuse))
}

func TestDifferentialMismatchBetweenAggregateAndSource(t *testing.T) {
	src := `
#message score(u32 Who, u32 Points) @differential.
#functor sum_points(summary u32 Total, aggregate u32 Points) @range(.).
#query total(u32 Who, u32 Total).

total(Who, Total) : sum_points over score(Who, Total).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrDifferentialAggregate))
}

func TestMessageCannotBeNegated(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#message node(u32 X).
#query bad(u32 X).

bad(X) : node(X), !node(X).
`
	log := parse(t, src)
	require.True(t, log.HasErrors())
	require.True(t, hasCode(log, diag.ErrMessagePlacement))
}

func TestMutableMergeProducesAdvisoryNotError(t *testing.T) {
	src := `
#local counter(mutable(add) u32 Count, bound u32 Key).
`
	log := parse(t, src)
	require.False(t, log.HasErrors())
	require.Equal(t, 1, log.Count())
}
