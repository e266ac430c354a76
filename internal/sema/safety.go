package sema

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
)

// checkClauseSafety walks a clause's body left to right, tracking which
// variables are bound, and reports:
//
//   - S301 binding satisfaction: a functor's `bound` parameter, or any
//     variable argument of a negated atom or comparison, used before it was
//     bound by an earlier positive atom, assignment, or aggregate.
//   - S300 range restriction: a head variable, or any variable that never
//     gets bound by clause end, is unrestricted.
//
// Binding roles for an aggregate's `over` relation are simplified relative
// to spec.md's full group/config/aggregate/summary role algebra: every
// variable appearing in the over-relation's arguments is treated as bound
// by that usage, regardless of the aggregated functor's declared param
// roles. This is sound (a variable genuinely is bound by appearing in an
// aggregate's source relation) but coarser than the per-role check
// internal/sips performs when it scores binding orderings; recorded in
// DESIGN.md as a deliberate simplification.
func checkClauseSafety(cl *ast.Clause, log *diag.Log) {
	bound := map[ast.VarID]bool{}

	bindTerm := func(t ast.Term) {
		if !t.IsConst {
			bound[t.Var] = true
		}
	}

	reportUnbound := func(t ast.Term, where string) {
		if t.IsConst || bound[t.Var] {
			return
		}
		pos := cl.Pos
		if v := cl.Variable(t.Var); v != nil {
			pos = v.Pos
		}
		log.Add(diag.New(diag.ErrBindingUnsatisfied, pos, "variable used in %s before being bound", where))
	}

	for _, use := range cl.Body.Positive {
		for i, arg := range use.Args {
			if use.Decl.Kind == ast.DeclFunctor && i < len(use.Decl.Params) && use.Decl.Params[i].Binding == ast.BindingBound {
				reportUnbound(arg, "a bound functor parameter")
			}
		}
		for _, arg := range use.Args {
			bindTerm(arg)
		}
	}

	for _, agg := range cl.Body.Aggregates {
		for _, arg := range agg.Over.Args {
			bindTerm(arg)
		}
	}

	for _, asn := range cl.Body.Assignments {
		bindTerm(asn.Var)
	}

	for _, use := range cl.Body.Negated {
		for _, arg := range use.Args {
			reportUnbound(arg, "a negated atom")
		}
	}

	for _, cmp := range cl.Body.Comparisons {
		reportUnbound(cmp.LHS, "a comparison")
		reportUnbound(cmp.RHS, "a comparison")
	}

	for _, id := range cl.HeadVars {
		if !bound[id] {
			pos := cl.Pos
			if v := cl.Variable(id); v != nil {
				pos = v.Pos
			}
			log.Add(diag.New(diag.ErrRangeRestriction, pos, "head variable is not range-restricted: no positive body atom, assignment, or aggregate binds it"))
		}
	}

	for _, id := range cl.AllVarIDs() {
		v := cl.Variable(id)
		if v == nil {
			continue
		}
		if !bound[id] && isUsedOnlyInNegationOrComparison(cl, id) {
			log.Add(diag.New(diag.ErrRangeRestriction, v.Pos, "variable is not range-restricted: appears only in negation or comparison"))
		}
	}
}

// isUsedOnlyInNegationOrComparison reports whether id is referenced at all
// in the clause but never via a binding position (positive atom arg,
// assignment LHS, or aggregate over-relation arg).
func isUsedOnlyInNegationOrComparison(cl *ast.Clause, id ast.VarID) bool {
	referenced := false
	for _, use := range cl.Body.Negated {
		for _, arg := range use.Args {
			if !arg.IsConst && arg.Var == id {
				referenced = true
			}
		}
	}
	for _, cmp := range cl.Body.Comparisons {
		if (!cmp.LHS.IsConst && cmp.LHS.Var == id) || (!cmp.RHS.IsConst && cmp.RHS.Var == id) {
			referenced = true
		}
	}
	return referenced
}
