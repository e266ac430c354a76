package queryir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedJoin(t *testing.T) {
	g := NewGraph()
	selA := g.NewSelect(u32Decl("a", 2), nil)
	selB := g.NewSelect(u32Decl("b", 2), nil)
	join := g.NewJoin([]QueryView{selA, selB}, [][]*QueryColumn{{selA.Out[1]}, {selB.Out[0]}})
	g.NewInsert(join, u32Decl("tc", 3), false)

	result := Validate(g)
	require.True(t, result.Valid, "%v", result.Violations)
}

func TestValidateRejectsColumnFromForeignView(t *testing.T) {
	g := NewGraph()
	selA := g.NewSelect(u32Decl("a", 2), nil)
	selB := g.NewSelect(u32Decl("b", 2), nil)
	// Pivot a column that belongs to selB under selA's own index: invalid.
	join := g.NewJoin([]QueryView{selA, selB}, [][]*QueryColumn{{selB.Out[0]}, {}})

	result := Validate(g)
	require.False(t, result.Valid)
	_ = join
}

func TestValidateRejectsMergeOfMismatchedArity(t *testing.T) {
	g := NewGraph()
	sel1 := g.NewSelect(u32Decl("a", 2), nil)
	sel2 := g.NewSelect(u32Decl("b", 1), nil)
	g.NewMerge([]QueryView{sel1, sel2})

	result := Validate(g)
	require.False(t, result.Valid)
}

func TestValidateRejectsInsertColumnCountMismatch(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("a", 2), nil)
	g.NewInsert(sel, u32Decl("tc", 3), false)

	result := Validate(g)
	require.False(t, result.Valid)
}
