package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/token"
)

func parseSrc(t *testing.T, src string) (*ast.Module, *token.Pool) {
	t.Helper()
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	mod, log := Parse(pool, toks, "<test>")
	require.False(t, log.HasErrors(), "unexpected parse errors: %v", log.Errors())
	return mod, pool
}

func TestParseTransitiveClosure(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
tc(X, Z) : edge(X, Y), tc(Y, Z).
`
	mod, pool := parseSrc(t, src)
	require.Len(t, mod.Declarations, 2)
	require.Len(t, mod.Clauses, 2)

	edge := mod.Lookup(pool.Intern("edge"), 2)
	require.NotNil(t, edge)
	require.Equal(t, ast.DeclMessage, edge.Members[0].Kind)

	second := mod.Clauses[1]
	require.Len(t, second.Body.Positive, 2)
}

func TestParseNegationAndComparison(t *testing.T) {
	src := `
#message node(u32 X).
#message edge(u32 X, u32 Y).
#query isolated(u32 X).

isolated(X) : node(X), !edge(X, Y), X != Y.
`
	mod, _ := parseSrc(t, src)
	require.Len(t, mod.Clauses, 1)
	body := mod.Clauses[0].Body
	require.Len(t, body.Positive, 1)
	require.Len(t, body.Negated, 1)
	require.Len(t, body.Comparisons, 1)
	require.Equal(t, ast.CmpNotEqual, body.Comparisons[0].Op)
}

func TestParseAssignmentVsComparison(t *testing.T) {
	src := `
#message thing(u32 X, u32 Y).
#local tagged(u32 X).

tagged(X) : thing(X, Y), Y = 5.
`
	mod, _ := parseSrc(t, src)
	body := mod.Clauses[0].Body
	require.Len(t, body.Assignments, 1)
	require.True(t, body.Assignments[0].Val.IsConst)
	require.Equal(t, int64(5), body.Assignments[0].Val.ConstVal)
}

func TestParseAggregate(t *testing.T) {
	src := `
#message score(u32 Who, u32 Points).
#functor sum_points(summary u32 Total, aggregate u32 Points) @range(.).
#query total(u32 Who, u32 Total).

total(Who, Total) : sum_points over score(Who, Total).
`
	mod, _ := parseSrc(t, src)
	require.Len(t, mod.Clauses, 1)
	require.Len(t, mod.Clauses[0].Body.Aggregates, 1)
	agg := mod.Clauses[0].Body.Aggregates[0]
	require.Equal(t, ast.DeclFunctor, agg.Functor.Kind)
	require.Equal(t, ast.RangeExactlyOne, agg.Functor.Range)
}

func TestParsePragmasAndCompatibleRedeclaration(t *testing.T) {
	src := `
#local widget(u32 X) @highlight @transparent.
#local widget(u32 X).
`
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	mod, log := Parse(pool, toks, "<test>")
	require.False(t, log.HasErrors())
	require.Len(t, mod.Declarations, 2)
	require.True(t, mod.Declarations[0].Highlight)
	require.True(t, mod.Declarations[0].Transparent)
}

func TestParseRedeclarationArityMismatchIsReported(t *testing.T) {
	src := `
#local widget(u32 X).
#local widget(u32 X, u32 Y).
`
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	_, log := Parse(pool, toks, "<test>")
	require.True(t, log.HasErrors())
}

func TestParseForeignTypeAndConstant(t *testing.T) {
	src := `
#foreign Handle bytes.
#constant Handle kNullHandle.
`
	mod, _ := parseSrc(t, src)
	require.Len(t, mod.ForeignTypes, 1)
	require.Len(t, mod.ForeignConstants, 1)
}

func TestParsePrologueCodeBlock(t *testing.T) {
	src := "#prologue.\n```cxx\n#include <cstdint>\n```\n"
	mod, _ := parseSrc(t, src)
	require.Len(t, mod.CodeBlocks, 1)
	require.Equal(t, ast.CodeBlockPrologue, mod.CodeBlocks[0].Placement)
}

func TestRoundTripPrintAndReparse(t *testing.T) {
	src := `#message edge(u32 X, u32 Y).
#query tc(u32 X, u32 Y).

tc(X, Y) : edge(X, Y).
tc(X, Z) : edge(X, Y), tc(Y, Z).
`
	mod, _ := parseSrc(t, src)
	printed := ast.Print(mod, ast.DefaultPrintOptions)

	pool2 := token.NewPool()
	l2 := lexer.New(pool2, 0, []byte(printed), lexer.DefaultConfig)
	toks2 := lexer.All(l2)
	mod2, log2 := Parse(pool2, toks2, "<reparsed>")
	require.False(t, log2.HasErrors())
	require.Equal(t, len(mod.Declarations), len(mod2.Declarations))
	require.Equal(t, len(mod.Clauses), len(mod2.Clauses))

	reprinted := ast.Print(mod2, ast.DefaultPrintOptions)
	require.Equal(t, printed, reprinted)
}
