package sips

import "github.com/roach88/drlc/internal/ast"

// score replays perm's ordering and sums, for every newly-bound free
// variable, (1 + depth) where depth is the number of aggregate scopes
// already entered earlier in the ordering. This is the "cyclomatic-
// complexity-like score measuring the count and nesting depth of
// free-variable introductions" spec.md §4.4 asks the data-flow builder to
// minimize: introducing variables early and outside aggregate scopes is
// cheap, introducing them late or inside nested reductions is expensive.
func score(cl *ast.Clause, perm *Permutation) int {
	bound := map[ast.VarID]bool{}
	ds := newDisjointSet()
	if perm.AssumeIndex >= 0 {
		for _, arg := range cl.Body.Positive[perm.AssumeIndex].Args {
			if !arg.IsConst {
				markBound(ds, bound, arg.Var)
			}
		}
	}

	total := 0
	depth := 0
	for _, e := range perm.Order {
		newlyBound, _ := tryPlace(e, cl, bound, ds)
		total += len(newlyBound) * (1 + depth)
		if e.kind == elemAggregate {
			depth++
		}
	}
	return total
}
