package sema

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
)

// checkStratification verifies every negated body atom in m is safe to
// negate: its declaration must not be in the same dependency cycle as the
// clause's head, and (SPEC_FULL.md §5 Open Question 2) its transitive
// dependency closure must not reach an `@impure` functor invocation,
// because an impure functor can produce a different answer on
// re-invocation the same way a recursive predicate can still be growing —
// either way, "is it still false" isn't a question negation can safely ask
// mid-fixpoint.
func checkStratification(m *ast.Module, log *diag.Log) {
	g := buildDepGraph(m)
	sccs := g.tarjanSCC()
	scc := sccOf(sccs)
	impureMemo := map[*ast.Decl]bool{}

	for _, cl := range m.Clauses {
		for _, use := range cl.Body.Negated {
			if use.Decl == nil {
				continue
			}
			if scc[use.Decl] == scc[cl.Head] && sccSize(sccs, scc[use.Decl]) > 1 {
				log.Add(diag.New(diag.ErrNegationInCycle, use.Pos,
					"negated atom %q is mutually recursive with its clause head %q",
					m.Name(use.Decl.Name), m.Name(cl.Head.Name)))
				continue
			}
			if g.reachesImpureFunctor(use.Decl, impureMemo) {
				log.Add(diag.New(diag.ErrNegationInCycle, use.Pos,
					"negated atom %q transitively depends on an @impure functor, which makes its truth value unstable under negation",
					m.Name(use.Decl.Name)))
			}
		}
	}
}

func sccSize(sccs []map[*ast.Decl]bool, i int) int {
	if i < 0 || i >= len(sccs) {
		return 0
	}
	return len(sccs[i])
}
