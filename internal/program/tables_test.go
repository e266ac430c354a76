package program

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTablesOneTablePerRelationWithCoveringIndex(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	names := map[string]*DataTable{}
	for _, tb := range tables {
		names[mod.Name(tb.Decl.Name)] = tb
	}
	require.Contains(t, names, "edge")
	require.Contains(t, names, "tc")

	edge := names["edge"]
	require.Len(t, edge.Columns, 2)

	var covering *DataIndex
	for _, idx := range edge.Indexes {
		if idx.Covering {
			covering = idx
		}
	}
	require.NotNil(t, covering, "edge should have a covering index")
	require.ElementsMatch(t, []int{0, 1}, covering.KeyColumns)
}

func TestBuildTablesJoinRegistersPivotIndexOnBothSides(t *testing.T) {
	mod := parseOne(t, `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Z).

tc(X, Z) : edge(X, Y), edge(Y, Z).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	var edge *DataTable
	for _, tb := range tables {
		if mod.Name(tb.Decl.Name) == "edge" {
			edge = tb
		}
	}
	require.NotNil(t, edge)

	var joinIdx *DataIndex
	for _, idx := range edge.Indexes {
		if idx.Origin == "join" {
			joinIdx = idx
		}
	}
	require.NotNil(t, joinIdx, "expected a join-pivot index on edge")
}

func TestBuildTablesTransparentRelationGetsNoIndex(t *testing.T) {
	mod := parseOne(t, `
#export helper(u32 X) @transparent.
#query q(u32 X).

q(X) : helper(X).
`)
	graphs := buildGraphs(t, mod)
	tables := BuildTables(graphs)

	var helper *DataTable
	for _, tb := range tables {
		if mod.Name(tb.Decl.Name) == "helper" {
			helper = tb
		}
	}
	require.NotNil(t, helper)
	require.True(t, helper.Transparent)
	require.Empty(t, helper.Indexes)
}
