package sema

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
)

// Check runs every safety and stratification rule over m and returns the
// accumulated diagnostics. A log with HasErrors() true means m must not be
// lowered further; advisories (SeverityAdvisory) don't block lowering.
func Check(m *ast.Module) *diag.Log {
	log := diag.NewLog()

	for _, cl := range m.Clauses {
		checkClauseSafety(cl, log)
	}
	checkStratification(m, log)
	checkAggregateAndMessageRules(m, log)
	checkMutableMergeAdvisory(m, log)

	return log
}

// checkMutableMergeAdvisory implements SPEC_FULL.md §5 Open Question 3:
// whether a `mutable(merge_fn)` column's merge order is well-defined
// depends on whether internal/program later picks an index over that same
// column, which sema can't know yet. Rather than guess, every
// mutable(merge_fn) parameter is surfaced here as a non-fatal advisory;
// internal/program leaves a TODO at the one call site that would need the
// ordering decided once index selection has run.
func checkMutableMergeAdvisory(m *ast.Module, log *diag.Log) {
	for _, class := range m.Classes() {
		canon := class.Members[0]
		for _, p := range canon.Params {
			if p.Binding == ast.BindingMutable && p.MergeFunctor != 0 {
				log.Add(diag.Advisory(diag.ErrBindingUnsatisfied, canon.Pos,
					"mutable(%s) parameter merge order against a concurrently indexed column is unresolved; see DESIGN.md Open Question 3",
					m.Name(p.MergeFunctor)))
			}
		}
	}
}
