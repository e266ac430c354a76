package queryir

import "fmt"

// ValidationResult reports whether a graph conforms to queryir's structural
// invariants (spec.md §4): join pivots partition each input's columns, merge
// inputs are pairwise type-compatible, every column a view references is
// reachable from one of its own inputs.
type ValidationResult struct {
	Valid      bool
	Violations []string
}

// Validate walks every view registered in g and checks its invariants.
// Validate is a pure function: it reports violations, it doesn't fix them.
func Validate(g *Graph) ValidationResult {
	v := &validator{seen: map[*QueryColumn]bool{}}
	for _, view := range g.Views {
		view.Accept(v)
	}
	return ValidationResult{Valid: len(v.violations) == 0, Violations: v.violations}
}

type validator struct {
	violations []string
	seen       map[*QueryColumn]bool
}

func (v *validator) fail(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *validator) checkColumnFromInputs(view QueryView, col *QueryColumn) {
	if col.Producer == view {
		return
	}
	for _, in := range view.Inputs() {
		for _, c := range in.Columns() {
			if c == col {
				return
			}
		}
	}
	v.fail("view %d references column %d not produced by itself or an input", view.ID(), col.ID)
}

func (v *validator) VisitSelect(s *QuerySelect) {
	for _, c := range s.Bound {
		if c.Producer != s {
			v.fail("select %d: bound column %d not one of its own outputs", s.ID(), c.ID)
		}
	}
}

func (v *validator) VisitTuple(t *QueryTuple) {
	for _, c := range t.Project {
		v.checkColumnFromInputs(t, c)
	}
}

func (v *validator) VisitJoin(j *QueryJoin) {
	if len(j.Pivots) != len(j.Inputs_) {
		v.fail("join %d: %d pivot sets for %d inputs", j.ID(), len(j.Pivots), len(j.Inputs_))
		return
	}
	for i, in := range j.Inputs_ {
		ownCols := map[*QueryColumn]bool{}
		for _, c := range in.Columns() {
			ownCols[c] = true
		}
		pivotCols := map[*QueryColumn]bool{}
		for _, p := range j.Pivots[i] {
			if p == nil {
				continue
			}
			if !ownCols[p] {
				v.fail("join %d: input %d pivot column %d does not belong to that input", j.ID(), i, p.ID)
			}
			if pivotCols[p] {
				v.fail("join %d: input %d column %d appears in two pivot sets", j.ID(), i, p.ID)
			}
			pivotCols[p] = true
		}
	}
}

func (v *validator) VisitCompare(c *QueryCompare) {
	v.checkColumnFromInputs(c, c.LHS)
	v.checkColumnFromInputs(c, c.RHS)
}

func (v *validator) VisitMap(m *QueryMap) {
	for _, c := range m.CopiedCols {
		v.checkColumnFromInputs(m, c)
	}
}

func (v *validator) VisitAggregate(a *QueryAggregate) {
	for _, c := range a.GroupCols {
		v.checkColumnFromInputs(a, c)
	}
	for _, c := range a.AggregateCols {
		v.checkColumnFromInputs(a, c)
	}
}

func (v *validator) VisitNegate(n *QueryNegate) {
	for _, c := range n.NegatedCols {
		v.checkColumnFromInputs(n, c)
	}
}

func (v *validator) VisitMerge(m *QueryMerge) {
	if len(m.Inputs_) == 0 {
		return
	}
	want := m.Inputs_[0].Columns()
	for _, in := range m.Inputs_[1:] {
		got := in.Columns()
		if len(got) != len(want) {
			v.fail("merge %d: input has %d columns, want %d", m.ID(), len(got), len(want))
			continue
		}
		for i := range got {
			if !got[i].Type.Equal(want[i].Type) {
				v.fail("merge %d: input column %d has type %s, want %s", m.ID(), i, got[i].Type, want[i].Type)
			}
		}
	}
}

func (v *validator) VisitInsert(ins *QueryInsert) {
	types := ins.Sink.CanonicalTypes()
	if len(ins.Input.Columns()) != len(types) {
		v.fail("insert %d: input has %d columns, sink decl %d wants %d", ins.ID(), len(ins.Input.Columns()), ins.Sink.ID, len(types))
	}
}

func (v *validator) VisitKVIndex(k *QueryKVIndex) {
	for _, c := range k.KeyCols {
		v.checkColumnFromInputs(k, c)
	}
}
