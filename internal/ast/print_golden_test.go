package ast_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/token"
)

// TestPrintTransitiveClosureMatchesGolden pins the pretty-printer's exact
// output for one module shape, the same fixture-diffing role goldie plays
// in the teacher's internal/harness.RunWithGolden for trace snapshots.
// Unlike a trace (which varies run to run unless everything is seeded),
// Print's output is pure and deterministic for a fixed *ast.Module, so this
// catches any accidental formatting drift in print.go directly.
func TestPrintTransitiveClosureMatchesGolden(t *testing.T) {
	src := `
#message edge(u32 X, u32 Y).
#export tc(u32 X, u32 Y).
tc(X,Y) : edge(X,Y).
tc(X,Z) : tc(X,Y), edge(Y,Z).
`
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	mod, log := parser.Parse(pool, toks, "<test>")
	require.False(t, log.HasErrors(), "parse errors: %v", log.Errors())

	printed := ast.Print(mod, ast.DefaultPrintOptions)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "transitive_closure", []byte(printed))
}
