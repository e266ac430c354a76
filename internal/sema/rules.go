package sema

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
)

// checkAggregateAndMessageRules enforces the three declaration-level safety
// rules spec.md layers on top of plain range restriction:
//
//   - S303 aggregate misuse: an `over` clause must name a declared
//     #functor with at least one aggregate/summary-bound parameter — a
//     functor with none has nothing to reduce.
//   - S304 message placement: a #message predicate may be consumed
//     positively or aggregated over, but never negated — a message is a
//     transient external edge, not a stored relation, so "is it currently
//     false" isn't a question negation can ask of it.
//   - S305 differential aggregate (SPEC_FULL.md §5 Open Question 1): if the
//     relation an aggregate reduces over is @differential (its stream can
//     carry retractions), the functor itself must also be declared
//     @differential, i.e. capable of un-reducing a removed input. Otherwise
//     the aggregate would silently keep a stale count/sum after a
//     retraction.
func checkAggregateAndMessageRules(m *ast.Module, log *diag.Log) {
	for _, cl := range m.Clauses {
		for _, use := range cl.Body.Negated {
			if use.Decl != nil && use.Decl.Kind == ast.DeclMessage {
				log.Add(diag.New(diag.ErrMessagePlacement, use.Pos,
					"message predicate %q cannot be negated; messages are transient inputs, not stored relations",
					m.Name(use.Decl.Name)))
			}
		}

		for _, agg := range cl.Body.Aggregates {
			if agg.Functor == nil {
				continue
			}
			if agg.Functor.Kind != ast.DeclFunctor {
				log.Add(diag.New(diag.ErrAggregateMisuse, agg.Pos,
					"%q is used as an aggregate but is not declared with #functor", m.Name(agg.Functor.Name)))
				continue
			}
			if !hasAggregateRole(agg.Functor) {
				log.Add(diag.New(diag.ErrAggregateMisuse, agg.Pos,
					"functor %q has no aggregate/summary parameter to reduce over", m.Name(agg.Functor.Name)))
			}
			if agg.Over.Decl != nil && agg.Over.Decl.Differential && !agg.Functor.Differential {
				log.Add(diag.New(diag.ErrDifferentialAggregate, agg.Pos,
					"aggregate over @differential relation %q uses non-@differential functor %q, which cannot un-reduce a retraction",
					m.Name(agg.Over.Decl.Name), m.Name(agg.Functor.Name)))
			}
		}
	}
}

func hasAggregateRole(functor *ast.Decl) bool {
	for _, p := range functor.Params {
		if p.Binding == ast.BindingAggregate || p.Binding == ast.BindingSummary {
			return true
		}
	}
	return false
}
