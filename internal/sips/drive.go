package sips

import "github.com/roach88/drlc/internal/ast"

// Drive walks perm's ordering, calling back into v for every declaration,
// assertion, and scope the spec's visitor protocol describes, and returns
// false the moment a cancellation condition fires (message-in-non-left-
// corner and trivial contradiction aren't pruned during Generate, since
// they depend on which atom was assumed rather than on variable binding,
// so they're only caught here).
func Drive(cl *ast.Clause, perm *Permutation, v Visitor) bool {
	bound := map[ast.VarID]bool{}
	ds := newDisjointSet()

	messageCount := 0
	for _, use := range cl.Body.Positive {
		if use.Decl != nil && use.Decl.Kind == ast.DeclMessage {
			messageCount++
		}
	}
	// A clause with at most one message atom needs no explicit assumption:
	// that atom is unambiguously the left corner. The not-left-corner
	// cancellation only matters once two or more candidates exist.
	requireLeftCorner := messageCount > 1

	if perm.AssumeIndex >= 0 {
		use := cl.Body.Positive[perm.AssumeIndex]
		declareUse(v, cl, use)
		for _, arg := range use.Args {
			if !arg.IsConst {
				markBound(ds, bound, arg.Var)
			}
		}
	}

	for _, e := range perm.Order {
		switch e.kind {
		case elemPositive:
			use := cl.Body.Positive[e.idx]
			if requireLeftCorner && use.Decl != nil && use.Decl.Kind == ast.DeclMessage && e.idx != perm.AssumeIndex {
				v.Cancel(CancelMessageNotLeftCorner)
				return false
			}
			if !bindingPatternSatisfiedDS(use, bound, ds) {
				v.Cancel(CancelBindingUnsatisfiable)
				return false
			}
			boundCols, freeCols := partitionArgs(use.Args, bound, ds)
			v.EnterSelection(boundCols, freeCols)
			v.AssertPresent(use, boundCols, freeCols)
			declareUse(v, cl, use)
			for _, arg := range use.Args {
				if !arg.IsConst {
					markBound(ds, bound, arg.Var)
				}
			}
			v.ExitSelection()

		case elemNegated:
			use := cl.Body.Negated[e.idx]
			for _, arg := range use.Args {
				if !arg.IsConst && !isBound(ds, bound, arg.Var) {
					v.Cancel(CancelRangeRestriction)
					return false
				}
			}
			if contradicts(cl, use, perm) {
				v.Cancel(CancelContradiction)
				return false
			}
			boundCols, _ := partitionArgs(use.Args, bound, ds)
			v.AssertAbsent(use, boundCols)

		case elemComparison:
			cmp := cl.Body.Comparisons[e.idx]
			lhsBound := cmp.LHS.IsConst || isBound(ds, bound, cmp.LHS.Var)
			rhsBound := cmp.RHS.IsConst || isBound(ds, bound, cmp.RHS.Var)
			if cmp.Op == ast.CmpEqual && lhsBound != rhsBound {
				if !cmp.LHS.IsConst && !cmp.RHS.IsConst {
					uniteAndPropagate(ds, bound, cmp.LHS.Var, cmp.RHS.Var)
				}
				if !cmp.LHS.IsConst {
					markBound(ds, bound, cmp.LHS.Var)
				}
				if !cmp.RHS.IsConst {
					markBound(ds, bound, cmp.RHS.Var)
				}
				v.AssertEqual(cmp.LHS, cmp.RHS)
				continue
			}
			if !lhsBound || !rhsBound {
				v.Cancel(CancelUnboundComparison)
				return false
			}
			switch cmp.Op {
			case ast.CmpEqual:
				v.AssertEqual(cmp.LHS, cmp.RHS)
			case ast.CmpNotEqual:
				v.AssertNotEqual(cmp.LHS, cmp.RHS)
			default:
				v.AssertOrder(cmp.Op, cmp.LHS, cmp.RHS)
			}

		case elemAssignment:
			asn := cl.Body.Assignments[e.idx]
			v.DeclareConst(asn.Val)
			v.AssertEqual(asn.Var, asn.Val)
			if !asn.Var.IsConst {
				markBound(ds, bound, asn.Var.Var)
			}

		case elemAggregate:
			agg := cl.Body.Aggregates[e.idx]
			if agg.Functor == nil || !hasAggregateRole(agg.Functor) {
				v.Cancel(CancelBindingUnsatisfiable)
				return false
			}
			v.EnterAggregation(agg)
			for _, arg := range agg.Over.Args {
				if !arg.IsConst {
					v.DeclareVar(arg.Var, cl.Variable(arg.Var).Type)
					markBound(ds, bound, arg.Var)
				} else {
					v.DeclareConst(arg)
				}
			}
			v.CollectAggregate(agg)
			v.ExitSummary(agg)
		}
	}

	for _, id := range cl.HeadVars {
		if !bound[ds.find(id)] {
			v.Cancel(CancelRangeRestriction)
			return false
		}
	}
	v.Insert(cl.Head, cl.HeadVars)
	return true
}

func declareUse(v Visitor, cl *ast.Clause, use ast.PredicateUse) {
	for i, arg := range use.Args {
		if use.Decl != nil && i < len(use.Decl.Params) {
			v.DeclareParam(use.Decl, i, use.Decl.Params[i])
		}
		if arg.IsConst {
			v.DeclareConst(arg)
		} else if variable := cl.Variable(arg.Var); variable != nil {
			v.DeclareVar(arg.Var, variable.Type)
		}
	}
}

func partitionArgs(args []ast.Term, bound map[ast.VarID]bool, ds *disjointSet) (boundVars, freeVars []ast.VarID) {
	for _, arg := range args {
		if arg.IsConst {
			continue
		}
		if isBound(ds, bound, arg.Var) {
			boundVars = append(boundVars, arg.Var)
		} else {
			freeVars = append(freeVars, arg.Var)
		}
	}
	return boundVars, freeVars
}

// contradicts reports whether use negates a predicate that the same
// permutation also asserts present with identical arguments (`p(X), !p(X)`):
// an unsatisfiable clause, since a tuple can't be both present and absent.
func contradicts(cl *ast.Clause, negUse ast.PredicateUse, perm *Permutation) bool {
	for _, e := range perm.Order {
		if e.kind != elemPositive {
			continue
		}
		posUse := cl.Body.Positive[e.idx]
		if posUse.Decl != negUse.Decl {
			continue
		}
		if sameArgs(posUse.Args, negUse.Args) {
			return true
		}
	}
	if perm.AssumeIndex >= 0 {
		posUse := cl.Body.Positive[perm.AssumeIndex]
		if posUse.Decl == negUse.Decl && sameArgs(posUse.Args, negUse.Args) {
			return true
		}
	}
	return false
}

func sameArgs(a, b []ast.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IsConst != b[i].IsConst {
			return false
		}
		if a[i].IsConst {
			if a[i].ConstVal != b[i].ConstVal || a[i].ConstStr != b[i].ConstStr {
				return false
			}
		} else if a[i].Var != b[i].Var {
			return false
		}
	}
	return true
}
