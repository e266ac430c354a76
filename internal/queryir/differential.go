package queryir

import "github.com/roach88/drlc/internal/ast"

// ComputeDifferential labels every view in g with CanReceiveDeletions and
// CanProduceDeletions, by least fixpoint (spec.md §4.5):
//
//   - a QuerySelect over an @differential message source both receives and
//     produces deletions (the message carries an explicit "removed" vector);
//     a QuerySelect over a plain relation or non-differential message does
//     neither.
//   - a QueryNegate, a QueryAggregate, or a QueryMap over an impure
//     functor can always produce deletions even when its own input can't:
//     a negation's, an aggregate's or an impure call's output can retract
//     independent of whether the thing it's watching was itself retracted.
//   - every other view forwards CanReceiveDeletions from its inputs (any
//     input receiving deletions makes the view receive them) and forwards
//     CanProduceDeletions the same way, except where the bullet above
//     already forces it true.
//
// The pass iterates to a fixpoint because a view's inputs may themselves be
// downstream of the view being computed isn't possible in a DAG, but
// multiple passes keep the code simple and match the union-find-style
// iterate-until-stable shape used elsewhere in this compiler (see
// internal/sema's stratification SCC pass) rather than requiring g.Views to
// already be topologically sorted.
func ComputeDifferential(g *Graph) {
	changed := true
	for changed {
		changed = false
		for _, view := range g.Views {
			recv, prod := differentialInputs(view)
			switch t := view.(type) {
			case *QuerySelect:
				// Differential sources are seeded by the builder marking
				// Bound/viewBase directly; nothing to derive from inputs.
				_ = t
			case *QueryNegate:
				prod = true
			case *QueryMap:
				if t.Functor != nil && t.Functor.Purity == ast.Impure {
					prod = true
				}
			case *QueryAggregate:
				prod = true
			}
			if setDifferential(view, recv, prod) {
				changed = true
			}
		}
	}
}

func differentialInputs(view QueryView) (recv, prod bool) {
	for _, in := range view.Inputs() {
		base := baseOf(in)
		if base == nil {
			continue
		}
		recv = recv || base.CanReceiveDeletions
		prod = prod || base.CanProduceDeletions
	}
	return recv, prod
}

// setDifferential writes recv/prod into view's base, ORed with whatever it
// already held, and reports whether that changed anything.
func setDifferential(view QueryView, recv, prod bool) bool {
	base := baseOf(view)
	if base == nil {
		return false
	}
	changed := false
	if recv && !base.CanReceiveDeletions {
		base.CanReceiveDeletions = true
		changed = true
	}
	if prod && !base.CanProduceDeletions {
		base.CanProduceDeletions = true
		changed = true
	}
	return changed
}

func baseOf(view QueryView) *viewBase {
	switch t := view.(type) {
	case *QuerySelect:
		return &t.viewBase
	case *QueryTuple:
		return &t.viewBase
	case *QueryJoin:
		return &t.viewBase
	case *QueryCompare:
		return &t.viewBase
	case *QueryMap:
		return &t.viewBase
	case *QueryAggregate:
		return &t.viewBase
	case *QueryNegate:
		return &t.viewBase
	case *QueryMerge:
		return &t.viewBase
	case *QueryInsert:
		return &t.viewBase
	case *QueryKVIndex:
		return &t.viewBase
	default:
		return nil
	}
}
