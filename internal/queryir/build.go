package queryir

import (
	"fmt"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/sips"
)

// BuildClause drives cl's best sips permutation through a fresh Builder,
// canonicalizes the result, and labels differential flags, returning the
// finished graph. assumeIndex selects which positive message atom (if any)
// is assumed the left corner, exactly as internal/sips.Best expects.
//
// An error result means the clause has no satisfiable evaluation order, or
// every order cancels under the chosen assumption; the caller
// (internal/compile's pipeline) tries the next assumeIndex before giving
// up on the clause.
func BuildClause(cl *ast.Clause, assumeIndex int) (*Graph, error) {
	perm := sips.Best(cl, assumeIndex)
	if perm == nil {
		return nil, fmt.Errorf("queryir: no satisfiable evaluation order for clause at %v", cl.Pos)
	}
	g := NewGraph()
	b := NewBuilder(g, cl)
	if ok := sips.Drive(cl, perm, b); !ok {
		return nil, fmt.Errorf("queryir: clause at %v cancelled: %s", cl.Pos, b.Reason)
	}
	Canonicalize(g)
	ComputeDifferential(g)
	return g, nil
}
