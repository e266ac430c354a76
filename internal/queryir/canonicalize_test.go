package queryir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/token"
)

func u32Decl(name string, arity int) *ast.Decl {
	params := make([]ast.Param, arity)
	for i := range params {
		params[i] = ast.Param{Type: ast.Type{Kind: token.KwUnsignedInt, Width: 32}}
	}
	return &ast.Decl{Name: token.Symbol(1), Arity: arity, Params: params}
}

func TestElideIdentityTuplesRewritesDownstreamReferences(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("edge", 2), nil)
	identity := g.NewTuple(sel, sel.Out, nil)
	ins := g.NewInsert(identity, u32Decl("tc", 2), false)

	Canonicalize(g)

	// the identity tuple should be gone and ins.Input rewired to sel.
	for _, v := range g.Views {
		if _, ok := v.(*QueryTuple); ok {
			t.Fatalf("expected identity tuple to be elided, found %+v", v)
		}
	}
	require.Equal(t, QueryView(sel), ins.Input)
}

func TestMergeDuplicateComparesKeepsOneSurvivor(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("edge", 2), nil)
	cmp1 := g.NewCompare(sel, ast.CmpNotEqual, sel.Out[0], sel.Out[1], sel.Columns())
	cmp2 := g.NewCompare(sel, ast.CmpNotEqual, sel.Out[0], sel.Out[1], sel.Columns())
	ins := g.NewInsert(cmp2, u32Decl("tc", 2), false)

	Canonicalize(g)

	count := 0
	for _, v := range g.Views {
		if _, ok := v.(*QueryCompare); ok {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Equal(t, cmp1, ins.Input)
}

func TestDedupeSelectsKeepsFirstScanOfSameSource(t *testing.T) {
	g := NewGraph()
	decl := u32Decl("edge", 2)
	sel1 := g.NewSelect(decl, nil)
	sel2 := g.NewSelect(decl, nil)
	ins := g.NewInsert(sel2, u32Decl("tc", 2), false)

	Canonicalize(g)

	count := 0
	for _, v := range g.Views {
		if _, ok := v.(*QuerySelect); ok {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Equal(t, sel1, ins.Input)
}

func TestCanonicalizeJoinPivotOrderSortsByInputID(t *testing.T) {
	g := NewGraph()
	declA := u32Decl("a", 1)
	declB := u32Decl("b", 1)
	selB := g.NewSelect(declB, nil) // allocated first, lower id
	selA := g.NewSelect(declA, nil) // allocated second, higher id
	join := g.NewJoin([]QueryView{selA, selB}, [][]*QueryColumn{{}, {}})

	Canonicalize(g)

	require.Equal(t, selB, join.Inputs_[0])
	require.Equal(t, selA, join.Inputs_[1])
}
