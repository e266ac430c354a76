package sips

import "github.com/roach88/drlc/internal/ast"

type elementKind uint8

const (
	elemPositive elementKind = iota
	elemNegated
	elemComparison
	elemAssignment
	elemAggregate
)

// element references one body element by kind and index into the clause
// body's corresponding slice, so a Permutation doesn't have to copy the
// underlying ast.PredicateUse/Comparison/etc. values around.
type element struct {
	kind elementKind
	idx  int
}

// Permutation is one candidate ordering of a clause's remaining body
// elements (the elements left after an assumed left-corner predicate, if
// any, is removed).
type Permutation struct {
	AssumeIndex int // index into cl.Body.Positive of the assumed left corner, or -1
	Order       []element
	Score       int
}

func flatten(body *ast.ClauseBody, excludePositive int) []element {
	var els []element
	for i := range body.Positive {
		if i == excludePositive {
			continue
		}
		els = append(els, element{elemPositive, i})
	}
	for i := range body.Negated {
		els = append(els, element{elemNegated, i})
	}
	for i := range body.Comparisons {
		els = append(els, element{elemComparison, i})
	}
	for i := range body.Assignments {
		els = append(els, element{elemAssignment, i})
	}
	for i := range body.Aggregates {
		els = append(els, element{elemAggregate, i})
	}
	return els
}

// Generate enumerates every ordering of cl's remaining body elements that
// is reachable by always placing a next element whose inputs are already
// bound (pruning orderings that could never validly reach that element,
// rather than generating every n! ordering and discarding most of them).
// assumeIdx names a positive body atom already assumed present (its args
// pre-bound); pass -1 to generate for the whole clause with no assumption.
func Generate(cl *ast.Clause, assumeIdx int) []*Permutation {
	pool := flatten(&cl.Body, assumeIdx)
	n := len(pool)

	bound := map[ast.VarID]bool{}
	ds := newDisjointSet()
	if assumeIdx >= 0 {
		for _, arg := range cl.Body.Positive[assumeIdx].Args {
			if !arg.IsConst {
				markBound(ds, bound, arg.Var)
			}
		}
	}

	used := make([]bool, n)
	order := make([]element, 0, n)
	var results []*Permutation

	var rec func()
	rec = func() {
		if len(order) == n {
			results = append(results, &Permutation{
				AssumeIndex: assumeIdx,
				Order:       append([]element(nil), order...),
			})
			return
		}
		for i, e := range pool {
			if used[i] {
				continue
			}
			newlyBound, ok := tryPlace(e, cl, bound, ds)
			if !ok {
				continue
			}
			used[i] = true
			order = append(order, e)
			rec()
			order = order[:len(order)-1]
			used[i] = false
			for _, v := range newlyBound {
				delete(bound, v)
			}
		}
	}
	rec()

	for _, p := range results {
		p.Score = score(cl, p)
	}
	return results
}

// Best returns the permutation with the minimal score (ties broken by
// whichever backtracking found first), or nil if no valid ordering exists
// (every remaining element's preconditions form a cycle — e.g. two
// comparisons each needing the other's variable bound first).
func Best(cl *ast.Clause, assumeIdx int) *Permutation {
	perms := Generate(cl, assumeIdx)
	if len(perms) == 0 {
		return nil
	}
	best := perms[0]
	for _, p := range perms[1:] {
		if p.Score < best.Score {
			best = p
		}
	}
	return best
}

// tryPlace reports whether e can legally come next given bound/ds, and if
// so, the set of variables it newly binds (for the caller to unwind on
// backtrack). It mirrors the validity checks Drive performs, but without
// invoking a Visitor: Generate only wants to know which orderings exist,
// Drive is what actually reports Cancel reasons for the chosen one.
func tryPlace(e element, cl *ast.Clause, bound map[ast.VarID]bool, ds *disjointSet) (newlyBound []ast.VarID, ok bool) {
	switch e.kind {
	case elemPositive:
		use := cl.Body.Positive[e.idx]
		if !bindingPatternSatisfiedDS(use, bound, ds) {
			return nil, false
		}
		for _, arg := range use.Args {
			if !arg.IsConst && !isBound(ds, bound, arg.Var) {
				markBound(ds, bound, arg.Var)
				newlyBound = append(newlyBound, arg.Var)
			}
		}
		return newlyBound, true

	case elemNegated:
		use := cl.Body.Negated[e.idx]
		for _, arg := range use.Args {
			if !arg.IsConst && !isBound(ds, bound, arg.Var) {
				return nil, false
			}
		}
		return nil, true

	case elemComparison:
		cmp := cl.Body.Comparisons[e.idx]
		lhsBound := cmp.LHS.IsConst || isBound(ds, bound, cmp.LHS.Var)
		rhsBound := cmp.RHS.IsConst || isBound(ds, bound, cmp.RHS.Var)
		if cmp.Op == ast.CmpEqual && (lhsBound != rhsBound) {
			// one side flows into the other through the disjoint-set class.
			if !cmp.LHS.IsConst && !cmp.RHS.IsConst {
				uniteAndPropagate(ds, bound, cmp.LHS.Var, cmp.RHS.Var)
			}
			if !cmp.LHS.IsConst && !lhsBound {
				markBound(ds, bound, cmp.LHS.Var)
				newlyBound = append(newlyBound, cmp.LHS.Var)
			}
			if !cmp.RHS.IsConst && !rhsBound {
				markBound(ds, bound, cmp.RHS.Var)
				newlyBound = append(newlyBound, cmp.RHS.Var)
			}
			return newlyBound, true
		}
		if !lhsBound || !rhsBound {
			return nil, false
		}
		return nil, true

	case elemAssignment:
		asn := cl.Body.Assignments[e.idx]
		if !asn.Var.IsConst && !isBound(ds, bound, asn.Var.Var) {
			markBound(ds, bound, asn.Var.Var)
			newlyBound = append(newlyBound, asn.Var.Var)
		}
		return newlyBound, true

	case elemAggregate:
		agg := cl.Body.Aggregates[e.idx]
		if agg.Functor == nil || !hasAggregateRole(agg.Functor) {
			return nil, false
		}
		for _, arg := range agg.Over.Args {
			if !arg.IsConst && !isBound(ds, bound, arg.Var) {
				markBound(ds, bound, arg.Var)
				newlyBound = append(newlyBound, arg.Var)
			}
		}
		return newlyBound, true
	}
	return nil, false
}

func hasAggregateRole(functor *ast.Decl) bool {
	for _, p := range functor.Params {
		if p.Binding == ast.BindingAggregate || p.Binding == ast.BindingSummary {
			return true
		}
	}
	return false
}

func markBound(ds *disjointSet, bound map[ast.VarID]bool, id ast.VarID) {
	bound[ds.find(id)] = true
}

func isBound(ds *disjointSet, bound map[ast.VarID]bool, id ast.VarID) bool {
	return bound[ds.find(id)]
}

func uniteAndPropagate(ds *disjointSet, bound map[ast.VarID]bool, a, b ast.VarID) {
	wasBound := isBound(ds, bound, a) || isBound(ds, bound, b)
	ds.union(a, b)
	if wasBound {
		markBound(ds, bound, a)
	}
}

// bindingPatternSatisfiedDS reports whether at least one redeclaration of
// use.Decl has a binding pattern consistent with which of use's arguments
// are already bound (spec.md §4.3's binding-satisfaction rule): a bound
// argument must land on a `bound`/`aggregate` parameter, an unbound one on
// `free`/`summary`. Declarations with no binding attributes (BindingExact)
// impose no constraint, so ordinary relation scans are always placeable.
func bindingPatternSatisfiedDS(use ast.PredicateUse, bound map[ast.VarID]bool, ds *disjointSet) bool {
	if use.Decl == nil {
		return true
	}
	for _, cand := range use.Decl.Redeclarations() {
		if paramsMatchDS(cand, use, bound, ds) {
			return true
		}
	}
	return false
}

func paramsMatchDS(cand *ast.Decl, use ast.PredicateUse, bound map[ast.VarID]bool, ds *disjointSet) bool {
	for i, arg := range use.Args {
		if i >= len(cand.Params) {
			return false
		}
		argBound := arg.IsConst || isBound(ds, bound, arg.Var)
		switch cand.Params[i].Binding {
		case ast.BindingBound, ast.BindingAggregate:
			if !argBound {
				return false
			}
		case ast.BindingFree, ast.BindingSummary:
			if argBound {
				return false
			}
		}
	}
	return true
}
