package queryir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
)

func TestComputeDifferentialForwardsThroughTuple(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("edge", 2), nil)
	sel.CanReceiveDeletions = true
	sel.CanProduceDeletions = true
	tuple := g.NewTuple(sel, sel.Out, nil)

	ComputeDifferential(g)

	require.True(t, tuple.CanReceiveDeletions)
	require.True(t, tuple.CanProduceDeletions)
}

func TestComputeDifferentialNegateAlwaysProduces(t *testing.T) {
	g := NewGraph()
	input := g.NewSelect(u32Decl("a", 1), nil)
	source := g.NewSelect(u32Decl("b", 1), nil)
	neg := g.NewNegate(input, source, input.Out, source.Out)

	ComputeDifferential(g)

	require.False(t, neg.CanReceiveDeletions)
	require.True(t, neg.CanProduceDeletions)
}

func TestComputeDifferentialPlainSelectNeitherFlag(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("edge", 2), nil)
	g.NewInsert(sel, u32Decl("tc", 2), false)

	ComputeDifferential(g)

	require.False(t, sel.CanReceiveDeletions)
	require.False(t, sel.CanProduceDeletions)
}

func TestComputeDifferentialImpureMapProduces(t *testing.T) {
	g := NewGraph()
	sel := g.NewSelect(u32Decl("edge", 2), nil)
	functor := u32Decl("touch", 1)
	functor.Purity = ast.Impure
	mp := g.NewMap(sel, functor, sel.Out, false)

	ComputeDifferential(g)

	require.True(t, mp.CanProduceDeletions)
}
