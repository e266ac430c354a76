package queryir

import "github.com/roach88/drlc/internal/ast"

// QueryColumn is one output column of a QueryView: a stable id plus a
// pointer back to the view that produces it, so a downstream view can
// reference a column without copying its value representation around.
type QueryColumn struct {
	ID       int
	Producer QueryView
	Type     ast.Type
}

// QueryCondition is a zero-arity boolean, implemented as a reference
// count in internal/program; here it's just an identity that views
// reference as a guard. It is not itself a QueryView variant (spec.md
// §4 groups its "shared structural fields... on the base" rather than
// counting it among the ten view kinds).
type QueryCondition struct {
	ID int
}

// ConditionGuard attaches a QueryCondition to a view in positive or
// negative position.
type ConditionGuard struct {
	Cond     *QueryCondition
	Negative bool
}

// viewBase holds the fields every QueryView variant shares: identity,
// condition guards, and the differential-deletion labels computed by
// the least-fixpoint pass in differential.go.
type viewBase struct {
	id                  int
	guards              []ConditionGuard
	CanReceiveDeletions bool
	CanProduceDeletions bool
}

func (b *viewBase) ID() int { return b.id }

// Guards returns the ConditionGuards attached to this view (spec.md §4.6's
// "conditions gate arbitrary views, not just message handlers"), read by
// internal/program's lowering pass to wrap a guarded view's region in an
// ExistenceCheckRegion per positive guard.
func (b *viewBase) Guards() []ConditionGuard { return b.guards }

// AddGuard attaches a ConditionGuard to this view.
func (b *viewBase) AddGuard(g ConditionGuard) { b.guards = append(b.guards, g) }

// QueryView is the sealed sum type of data-flow graph nodes. The marker
// method seals it to this package, the same pattern the teacher's
// queryir.Query interface uses, so a type switch over QueryView can be
// exhaustive without an external implementer breaking it.
type QueryView interface {
	queryViewNode()
	ID() int
	Columns() []*QueryColumn
	Inputs() []QueryView
	ReplaceColumn(old, replacement *QueryColumn)
	Accept(v Visitor)
	Guards() []ConditionGuard
}

// Visitor dispatches over every QueryView variant, used by canonicalization
// rewrites and codegen to avoid repeating type switches.
type Visitor interface {
	VisitSelect(*QuerySelect)
	VisitTuple(*QueryTuple)
	VisitJoin(*QueryJoin)
	VisitCompare(*QueryCompare)
	VisitMap(*QueryMap)
	VisitAggregate(*QueryAggregate)
	VisitNegate(*QueryNegate)
	VisitMerge(*QueryMerge)
	VisitInsert(*QueryInsert)
	VisitKVIndex(*QueryKVIndex)
}

func replaceInSlice(cols []*QueryColumn, old, replacement *QueryColumn) {
	for i, c := range cols {
		if c == old {
			cols[i] = replacement
		}
	}
}
