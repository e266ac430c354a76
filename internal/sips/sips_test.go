package sips

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

// recordingVisitor counts callback invocations so tests can assert a full
// drive actually walked every kind of body element, without asserting on
// exact argument values.
type recordingVisitor struct {
	NullVisitor
	asserts   int
	negations int
	cancelled bool
	reason    CancelReason
	inserted  bool
}

func (r *recordingVisitor) AssertPresent(ast.PredicateUse, []ast.VarID, []ast.VarID) { r.asserts++ }
func (r *recordingVisitor) AssertAbsent(ast.PredicateUse, []ast.VarID)               { r.negations++ }
func (r *recordingVisitor) Cancel(reason CancelReason)                              { r.cancelled = true; r.reason = reason }
func (r *recordingVisitor) Insert(*ast.Decl, []ast.VarID)                           { r.inserted = true }

func TestGenerateProducesAtLeastOneValidOrderingForSimpleJoin(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Z).

tc(X, Z) : edge(X, Y), edge(Y, Z).
`)
	cl := mod.Clauses[0]
	perms := Generate(cl, -1)
	require.NotEmpty(t, perms)

	for _, p := range perms {
		require.Len(t, p.Order, 2)
	}
}

func TestBestPicksLowestScoringPermutation(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Z).

tc(X, Z) : edge(X, Y), edge(Y, Z).
`)
	cl := mod.Clauses[0]
	best := Best(cl, -1)
	require.NotNil(t, best)
	perms := Generate(cl, -1)
	for _, p := range perms {
		require.GreaterOrEqual(t, p.Score, best.Score)
	}
}

func TestGenerateFindsNoOrderingWhenAVariableCanNeverBeBound(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query bad(u32 X).

bad(X) : edge(X, Y), Y != Z.
`)
	cl := mod.Clauses[0]
	// Z is never bound by any positive atom, so the comparison can never be
	// placed: no complete ordering exists, and Best reports none rather
	// than silently picking a broken plan.
	require.Empty(t, Generate(cl, -1))
	require.Nil(t, Best(cl, -1))
}

func TestDriveCancelsOnMessageNotInLeftCorner(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#message b(u32 X).
#query bad(u32 X).

bad(X) : a(X), b(X).
`)
	cl := mod.Clauses[0]
	// Neither message atom is assumed as the left corner (assumeIdx -1), so
	// driving any permutation must hit the second message atom and cancel.
	perms := Generate(cl, -1)
	require.NotEmpty(t, perms)
	for _, p := range perms {
		v := &recordingVisitor{}
		ok := Drive(cl, p, v)
		require.False(t, ok)
		require.True(t, v.cancelled)
		require.Equal(t, CancelMessageNotLeftCorner, v.reason)
	}
}

func TestDriveStillCancelsWhenASecondMessageRemainsAfterAssumption(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#message b(u32 X).
#query ok(u32 X).

ok(X) : a(X), b(X).
`)
	cl := mod.Clauses[0]
	// Assume a/1 (index 0) is the left corner; b/1 remains, which would
	// still cancel since it's a second message atom the clause depends on.
	best := Best(cl, 0)
	require.NotNil(t, best)
	v := &recordingVisitor{}
	ok := Drive(cl, best, v)
	require.False(t, ok)
	require.Equal(t, CancelMessageNotLeftCorner, v.reason)
}

func TestDriveInsertsWhenClauseFullySatisfiable(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
`)
	cl := mod.Clauses[0]
	best := Best(cl, -1)
	require.NotNil(t, best)
	v := &recordingVisitor{}
	ok := Drive(cl, best, v)
	require.True(t, ok)
	require.True(t, v.inserted)
	require.Equal(t, 1, v.asserts)
}

func TestDriveHandlesNegationAndAggregate(t *testing.T) {
	mod := parseOne(t, `
#message score(u32 Who, u32 Points).
#message seen(u32 Who).
#functor sum_points(summary u32 Total, aggregate u32 Points) @range(.).
#query total(u32 Who, u32 Total).

total(Who, Total) : seen(Who), !score(Who, Total), sum_points over score(Who, Total).
`)
	cl := mod.Clauses[0]
	perms := Generate(cl, -1)
	require.NotEmpty(t, perms)
	best := Best(cl, -1)
	v := &recordingVisitor{}
	Drive(cl, best, v)
	require.Equal(t, 1, v.negations)
}

func TestDisjointSetUnionFind(t *testing.T) {
	ds := newDisjointSet()
	require.False(t, ds.connected(1, 2))
	ds.union(1, 2)
	require.True(t, ds.connected(1, 2))
	ds.union(2, 3)
	require.True(t, ds.connected(1, 3))
}
