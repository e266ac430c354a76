package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/testutil"
)

func compileSource(t *testing.T, src string) *Result {
	t.Helper()
	path := "/root.dl"
	opts := Options{Source: testutil.MemFileSource{path: src}, Package: "generated"}
	result, err := Compile(path, opts)
	require.NoError(t, err)
	return result
}

// TestTransitiveClosure exercises spec.md §8 scenario 1: tc is range-
// restricted, stratifiable (no negation at all), and schedules into a
// recursive induction pair plus a tuple finder.
func TestTransitiveClosure(t *testing.T) {
	result := compileSource(t, `
#message edge(u32 X, u32 Y).
#export tc(u32 X, u32 Y).
tc(X,Y) : edge(X,Y).
tc(X,Z) : tc(X,Y), edge(Y,Z).
`)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Errors())
	require.NotNil(t, result.Program)
	require.Len(t, result.Graphs, 2)

	var sawInduction bool
	var tcTable *program.DataTable
	for _, p := range result.Program.Procedures {
		if p.Kind == program.ProcInductionCycleHandler {
			sawInduction = true
		}
	}
	for _, tbl := range result.Program.Tables {
		if result.Module.Name(tbl.Decl.Name) == "tc" {
			tcTable = tbl
		}
	}
	require.True(t, sawInduction, "recursive tc should schedule an induction cycle handler")
	require.NotNil(t, tcTable, "tc should have a backing table")
	require.Len(t, tcTable.Columns, 2)
}

// TestReachabilityWithNegation exercises spec.md §8 scenario 2: a
// stratified negation (unreach depends negatively on reach, which is not
// itself in a cycle with unreach) must pass sema cleanly.
func TestReachabilityWithNegation(t *testing.T) {
	result := compileSource(t, `
#message start(u32 X).
#message edge(u32 X, u32 Y).
#message node(u32 X).
#export reach(u32 X).
#export unreach(u32 X).
reach(X) : start(X).
reach(Y) : reach(X), edge(X,Y).
unreach(X) : node(X), !reach(X).
`)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Errors())
	require.NotNil(t, result.Program)
}

// TestAggregation exercises spec.md §8 scenario 3: a `summary`/`aggregate`
// functor invoked with `over` a relation compiles cleanly and yields a
// Program.
func TestAggregation(t *testing.T) {
	result := compileSource(t, `
#message score(u32 Who, u32 Points).
#functor sum_points(summary u32 Total, aggregate u32 Points) @range(.).
#export total(u32 Who, u32 Total).

total(Who, Total) : sum_points over score(Who, Total).
`)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Errors())
	require.NotNil(t, result.Program)
}

// TestFunctorPurity exercises spec.md §8 scenario 4: a pure functor (no
// @impure pragma) invoked to compute a free output compiles cleanly.
func TestFunctorPurity(t *testing.T) {
	result := compileSource(t, `
#message seed(u32 X).
#functor add1(bound u32 X, free u32 Y) @range(.).
#export incremented(u32 X, u32 Y).
incremented(X, Y) : seed(X), add1(X, Y).
`)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Errors())
	require.NotNil(t, result.Program)
}

// TestQueryWithBoundRequest exercises spec.md §8 scenario 5: a #query with
// a bound/free parameter split compiles and gets its own tuple finder.
func TestQueryWithBoundRequest(t *testing.T) {
	result := compileSource(t, `
#message knows(u32 Name, u32 Friend).
#query who_knows(bound u32 Name, free u32 Friend).
who_knows(Name, Friend) : knows(Name, Friend).
`)
	require.False(t, result.Diagnostics.HasErrors(), "diagnostics: %v", result.Diagnostics.Errors())
	require.NotNil(t, result.Program)

	var sawFinder bool
	for _, p := range result.Program.Procedures {
		if p.Kind == program.ProcTupleFinder {
			sawFinder = true
		}
	}
	require.True(t, sawFinder)
}

// TestRangeRestrictionViolationStopsBeforeScheduling exercises spec.md §7's
// "phases 3-7 may abort... but never partially emit": an unbound head
// variable is a sema error, and the pipeline must not hand an invalid
// module to the scheduler.
func TestRangeRestrictionViolationStopsBeforeScheduling(t *testing.T) {
	result := compileSource(t, `
#message edge(u32 X, u32 Y).
#export bad(u32 X, u32 Z).
bad(X, Z) : edge(X, Y).
`)
	require.True(t, result.Diagnostics.HasErrors())
	require.Nil(t, result.Program)
}

// TestMutualNegationCycleStopsBeforeScheduling exercises the
// stratification property from spec.md §8's universal properties list: a
// negation cycle is a sema error and the pipeline stops before the
// data-flow/control-flow phases run.
func TestMutualNegationCycleStopsBeforeScheduling(t *testing.T) {
	result := compileSource(t, `
#message seed(u32 X).
#local a(u32 X).
#local b(u32 X).

a(X) : seed(X), !b(X).
b(X) : seed(X), !a(X).
`)
	require.True(t, result.Diagnostics.HasErrors())
	require.Nil(t, result.Program)
	require.Nil(t, result.Graphs)
}

// TestGenerateWritesGeneratedPackage is spec.md §8's round-trip concern
// applied to codegen: a successful compile's Program/Graphs render to a Go
// package directory without error.
func TestGenerateWritesGeneratedPackage(t *testing.T) {
	result := compileSource(t, `
#message edge(u32 X, u32 Y).
#export tc(u32 X, u32 Y).
tc(X,Y) : edge(X,Y).
tc(X,Z) : tc(X,Y), edge(Y,Z).
`)
	require.False(t, result.Diagnostics.HasErrors())

	dir := t.TempDir()
	dotPath := filepath.Join(dir, "program.dot")
	err := Generate(context.Background(), dir, result, Options{Package: "generated", DotPath: dotPath})
	require.NoError(t, err)

	for _, name := range []string{"schema.go", "hooks.go", "procedures.go", "interface.go"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		require.NoError(t, statErr, "expected %s to be written", name)
	}
	_, statErr := os.Stat(dotPath)
	require.NoError(t, statErr, "expected dot dump to be written")
}
