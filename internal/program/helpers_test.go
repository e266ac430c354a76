package program

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/queryir"
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

// buildGraphs drives queryir.BuildClause over every clause in mod, in
// declaration order, the same way internal/compile's pipeline will.
func buildGraphs(t *testing.T, mod *ast.Module) []*queryir.Graph {
	t.Helper()
	var graphs []*queryir.Graph
	for _, cl := range mod.Clauses {
		g, err := queryir.BuildClause(cl, -1)
		require.NoError(t, err)
		graphs = append(graphs, g)
	}
	return graphs
}
