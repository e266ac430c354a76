package queryir

// Canonicalize rewrites g in place, applying the five normalizations
// spec.md §4.5 assigns to this phase, repeating until none of them fire
// (elision can expose a new elision candidate, e.g. two chained identity
// tuples). It must run before ComputeDifferential, since it can delete
// views whose flags would otherwise need propagating.
func Canonicalize(g *Graph) {
	for {
		if elideIdentityTuples(g) {
			continue
		}
		if hoistComparesAboveJoins(g) {
			continue
		}
		if mergeDuplicateCompares(g) {
			continue
		}
		if dedupeSelects(g) {
			continue
		}
		canonicalizeJoinPivotOrder(g)
		return
	}
}

// elideIdentityTuples removes any QueryTuple whose Project is exactly its
// input's own columns in order and whose Constants is empty: a no-op
// forwarder. Every reference to the tuple's output columns is rewritten to
// point at the input's columns directly, and the tuple is dropped from g.
func elideIdentityTuples(g *Graph) bool {
	for i, view := range g.Views {
		t, ok := view.(*QueryTuple)
		if !ok || len(t.Constants) != 0 {
			continue
		}
		in := t.Input.Columns()
		if len(in) != len(t.Project) {
			continue
		}
		isIdentity := true
		for j, c := range t.Project {
			if c != in[j] {
				isIdentity = false
				break
			}
		}
		if !isIdentity {
			continue
		}
		for j, out := range t.Out {
			replaceColumnEverywhere(g, out, in[j])
		}
		replaceViewEverywhere(g, t, t.Input)
		removeView(g, i)
		return true
	}
	return false
}

// hoistComparesAboveJoins moves a QueryCompare whose input is a QueryJoin
// above the join when both LHS and RHS trace to the same join input,
// letting the comparison filter before the join instead of after.
func hoistComparesAboveJoins(g *Graph) bool {
	for _, view := range g.Views {
		cmp, ok := view.(*QueryCompare)
		if !ok {
			continue
		}
		join, ok := cmp.Input.(*QueryJoin)
		if !ok {
			continue
		}
		srcIdx, ok := sameJoinInput(join, cmp.LHS, cmp.RHS)
		if !ok {
			continue
		}
		// NewCompare builds Out by appending Passthrough's own column
		// pointers, so cmp.Out and the join's output columns already
		// alias; nothing downstream needs rewiring, only the graph
		// shape changes.
		src := join.Inputs_[srcIdx]
		filtered := g.NewCompare(src, cmp.Op, cmp.LHS, cmp.RHS, src.Columns())
		join.Inputs_[srcIdx] = filtered
		for idx, v := range g.Views {
			if v == view {
				removeView(g, idx)
				break
			}
		}
		return true
	}
	return false
}

func sameJoinInput(join *QueryJoin, lhs, rhs *QueryColumn) (int, bool) {
	for i, in := range join.Inputs_ {
		hasLHS, hasRHS := false, false
		for _, c := range in.Columns() {
			if c == lhs {
				hasLHS = true
			}
			if c == rhs {
				hasRHS = true
			}
		}
		if hasLHS && hasRHS {
			return i, true
		}
	}
	return 0, false
}

// mergeDuplicateCompares removes a QueryCompare that is structurally
// identical (same input, op, operands) to an earlier one, rewriting
// references to the duplicate's output columns to the survivor's.
func mergeDuplicateCompares(g *Graph) bool {
	for i, view := range g.Views {
		cmp, ok := view.(*QueryCompare)
		if !ok {
			continue
		}
		for j := 0; j < i; j++ {
			other, ok := g.Views[j].(*QueryCompare)
			if !ok || other.Input != cmp.Input || other.Op != cmp.Op || other.LHS != cmp.LHS || other.RHS != cmp.RHS {
				continue
			}
			for k, out := range cmp.Out {
				if k < len(other.Out) {
					replaceColumnEverywhere(g, out, other.Out[k])
				}
			}
			replaceViewEverywhere(g, cmp, other)
			removeView(g, i)
			return true
		}
	}
	return false
}

// dedupeSelects removes a QuerySelect that scans the same Source with the
// same Bound columns as an earlier one, since re-scanning yields the same
// rows.
func dedupeSelects(g *Graph) bool {
	for i, view := range g.Views {
		sel, ok := view.(*QuerySelect)
		if !ok {
			continue
		}
		for j := 0; j < i; j++ {
			other, ok := g.Views[j].(*QuerySelect)
			if !ok || other.Source != sel.Source || !sameColumnSlice(other.Bound, sel.Bound) {
				continue
			}
			for k, out := range sel.Out {
				if k < len(other.Out) {
					replaceColumnEverywhere(g, out, other.Out[k])
				}
			}
			replaceViewEverywhere(g, sel, other)
			removeView(g, i)
			return true
		}
	}
	return false
}

// canonicalizeJoinPivotOrder reorders a QueryJoin's inputs (and its
// parallel Pivots) by ascending input view id, so that two joins built from
// the same relations in different clause-body orders end up structurally
// identical.
func canonicalizeJoinPivotOrder(g *Graph) {
	for _, view := range g.Views {
		join, ok := view.(*QueryJoin)
		if !ok || len(join.Inputs_) < 2 {
			continue
		}
		type pair struct {
			in     QueryView
			pivots []*QueryColumn
		}
		pairs := make([]pair, len(join.Inputs_))
		for i := range join.Inputs_ {
			pairs[i] = pair{join.Inputs_[i], join.Pivots[i]}
		}
		for i := 1; i < len(pairs); i++ {
			for k := i; k > 0 && pairs[k-1].in.ID() > pairs[k].in.ID(); k-- {
				pairs[k-1], pairs[k] = pairs[k], pairs[k-1]
			}
		}
		for i, p := range pairs {
			join.Inputs_[i] = p.in
			join.Pivots[i] = p.pivots
		}
	}
}

func sameColumnSlice(a, b []*QueryColumn) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// replaceColumnEverywhere rewrites every reference to old across every view
// in g to replacement, including each view's Out slice.
func replaceColumnEverywhere(g *Graph, old, replacement *QueryColumn) {
	if old == replacement {
		return
	}
	for _, v := range g.Views {
		v.ReplaceColumn(old, replacement)
	}
}

// replaceViewEverywhere rewrites every Input/Source/Inputs_ reference to old
// across every view in g to point at replacement instead, used alongside
// replaceColumnEverywhere whenever a rewrite drops a whole view rather than
// just aliasing its output columns.
func replaceViewEverywhere(g *Graph, old, replacement QueryView) {
	if old == replacement {
		return
	}
	for _, v := range g.Views {
		switch t := v.(type) {
		case *QueryTuple:
			if t.Input == old {
				t.Input = replacement
			}
		case *QueryJoin:
			for i, in := range t.Inputs_ {
				if in == old {
					t.Inputs_[i] = replacement
				}
			}
		case *QueryCompare:
			if t.Input == old {
				t.Input = replacement
			}
		case *QueryMap:
			if t.Input == old {
				t.Input = replacement
			}
		case *QueryAggregate:
			if t.Input == old {
				t.Input = replacement
			}
		case *QueryNegate:
			if t.Input == old {
				t.Input = replacement
			}
			if t.Source == old {
				t.Source = replacement
			}
		case *QueryMerge:
			for i, in := range t.Inputs_ {
				if in == old {
					t.Inputs_[i] = replacement
				}
			}
		case *QueryInsert:
			if t.Input == old {
				t.Input = replacement
			}
		case *QueryKVIndex:
			if t.Input == old {
				t.Input = replacement
			}
		}
	}
}

// removeView deletes g.Views[i], also dropping it from g.Sinks if present.
func removeView(g *Graph, i int) {
	removed := g.Views[i]
	g.Views = append(g.Views[:i], g.Views[i+1:]...)
	if ins, ok := removed.(*QueryInsert); ok {
		for j, s := range g.Sinks {
			if s == ins {
				g.Sinks = append(g.Sinks[:j], g.Sinks[j+1:]...)
				break
			}
		}
	}
}
