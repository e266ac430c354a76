package program

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
)

func tableMap(tables []*DataTable) map[*ast.DeclClass]*DataTable {
	out := map[*ast.DeclClass]*DataTable{}
	for _, tb := range tables {
		out[tb.Decl.Class()] = tb
	}
	return out
}

func TestLowerSingleAtomProducesScanThenTransition(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	prog := &Program{}
	ctx := newLowerCtx(prog, tableMap(tables))

	g := graphs[0]
	require.Len(t, g.Sinks, 1)
	region := ctx.lower(g.Sinks[0], func() ProgramRegion { return nil })

	// The scan runs first (find the matching edge tuple), and only then
	// does the matched binding feed the tc table's transition — scanning
	// is what proves the tuple exists, ordering the region tree outside-in
	// as scan -> transition rather than the reverse.
	scan, ok := region.(*TableScanRegion)
	require.True(t, ok, "expected the select to lower to a TableScanRegion, got %T", region)
	require.Equal(t, "edge", mod.Name(scan.Table.Decl.Name))

	transition, ok := scan.Body.(*TransitionStateRegion)
	require.True(t, ok, "expected the insert to lower to a TransitionStateRegion, got %T", scan.Body)
	require.Equal(t, Absent, transition.From)
	require.Equal(t, Present, transition.To)
}

func TestLowerNegationProducesCheckStateAbsent(t *testing.T) {
	mod := parseOne(t, `
#message a(u32 X).
#message b(u32 X).
#query ok(u32 X).

ok(X) : a(X), !b(X).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	prog := &Program{}
	ctx := newLowerCtx(prog, tableMap(tables))

	g := graphs[0]
	var found *CheckStateRegion
	var walk func(r ProgramRegion)
	walk = func(r ProgramRegion) {
		switch t := r.(type) {
		case *TransitionStateRegion:
			walk(t.Body)
		case *TableScanRegion:
			walk(t.Body)
		case *CheckStateRegion:
			found = t
			walk(t.Body)
		}
	}
	walk(ctx.lower(g.Sinks[0], func() ProgramRegion { return nil }))
	require.NotNil(t, found, "expected a CheckStateRegion somewhere in the lowered tree")
	require.Equal(t, Absent, found.State)
	require.Equal(t, "b", mod.Name(found.Table.Decl.Name))
}

func TestLowerJoinProducesTableJoinRegionOverBothSides(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Z).

tc(X, Z) : edge(X, Y), edge(Y, Z).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	prog := &Program{}
	ctx := newLowerCtx(prog, tableMap(tables))

	g := graphs[0]
	var found *TableJoinRegion
	var walk func(r ProgramRegion)
	walk = func(r ProgramRegion) {
		switch t := r.(type) {
		case *TransitionStateRegion:
			walk(t.Body)
		case *TableJoinRegion:
			found = t
			walk(t.Body)
		case *TableScanRegion:
			walk(t.Body)
		}
	}
	walk(ctx.lower(g.Sinks[0], func() ProgramRegion { return nil }))
	require.NotNil(t, found, "expected a TableJoinRegion")
	require.Len(t, found.Tables, 2)
	require.Len(t, found.PivotCols, 2)
}
