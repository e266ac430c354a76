package sips

import "github.com/roach88/drlc/internal/ast"

// CancelReason is why a permutation was abandoned mid-drive, per spec.md
// §4.4's cancellation conditions.
type CancelReason uint8

const (
	CancelRangeRestriction CancelReason = iota
	CancelUnboundComparison
	CancelContradiction
	CancelMessageNotLeftCorner
	CancelBindingUnsatisfiable
)

func (r CancelReason) String() string {
	switch r {
	case CancelRangeRestriction:
		return "range-restriction-failure"
	case CancelUnboundComparison:
		return "comparison-against-unbound-variable"
	case CancelContradiction:
		return "trivial-contradiction"
	case CancelMessageNotLeftCorner:
		return "message-in-non-left-corner"
	case CancelBindingUnsatisfiable:
		return "unsatisfiable-binding-for-every-redeclaration"
	default:
		return "unknown"
	}
}

// Visitor receives the callbacks of one candidate permutation's drive. The
// callbacks return nothing: Drive abandons a permutation at its first
// failed check, making Cancel the final callback for it. A permutation that
// completes ends with Insert instead, and Cancel is not called.
//
// EnterSelection/ExitSelection bracket a (bound, free) column partition for
// one AssertPresent (AssertAbsent is not bracketed); EnterAggregation/ExitSummary bracket one
// AggregateUse's group/config/aggregate/summary partition.
type Visitor interface {
	DeclareParam(decl *ast.Decl, index int, param ast.Param)
	DeclareVar(id ast.VarID, t ast.Type)
	DeclareConst(t ast.Term)

	AssertEqual(lhs, rhs ast.Term)
	AssertNotEqual(lhs, rhs ast.Term)
	AssertOrder(op ast.CompareOp, lhs, rhs ast.Term)

	AssertPresent(use ast.PredicateUse, bound, free []ast.VarID)
	AssertAbsent(use ast.PredicateUse, bound []ast.VarID)

	EnterSelection(bound, free []ast.VarID)
	ExitSelection()

	EnterAggregation(agg ast.AggregateUse)
	CollectAggregate(agg ast.AggregateUse)
	ExitSummary(agg ast.AggregateUse)

	Insert(head *ast.Decl, vars []ast.VarID)
	Cancel(reason CancelReason)
}

// NullVisitor is a Visitor whose callbacks all no-op, embedded by callers
// (e.g. this package's tests) that only care about a handful of events.
type NullVisitor struct{}

func (NullVisitor) DeclareParam(*ast.Decl, int, ast.Param)         {}
func (NullVisitor) DeclareVar(ast.VarID, ast.Type)                 {}
func (NullVisitor) DeclareConst(ast.Term)                          {}
func (NullVisitor) AssertEqual(ast.Term, ast.Term)                 {}
func (NullVisitor) AssertNotEqual(ast.Term, ast.Term)               {}
func (NullVisitor) AssertOrder(ast.CompareOp, ast.Term, ast.Term)   {}
func (NullVisitor) AssertPresent(ast.PredicateUse, []ast.VarID, []ast.VarID) {}
func (NullVisitor) AssertAbsent(ast.PredicateUse, []ast.VarID)      {}
func (NullVisitor) EnterSelection([]ast.VarID, []ast.VarID)         {}
func (NullVisitor) ExitSelection()                                  {}
func (NullVisitor) EnterAggregation(ast.AggregateUse)                {}
func (NullVisitor) CollectAggregate(ast.AggregateUse)                {}
func (NullVisitor) ExitSummary(ast.AggregateUse)                     {}
func (NullVisitor) Insert(*ast.Decl, []ast.VarID)                   {}
func (NullVisitor) Cancel(CancelReason)                              {}
