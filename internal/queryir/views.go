package queryir

import "github.com/roach88/drlc/internal/ast"

// QuerySelect scans Source (a declared relation or message buffer) under a
// fixed binding pattern: Bound names the
// already-bound argument columns that must match, Out the full tuple of
// output columns in declaration order.
type QuerySelect struct {
	viewBase
	Source *ast.Decl
	Bound  []*QueryColumn
	Out    []*QueryColumn
}

func (v *QuerySelect) queryViewNode()      {}
func (v *QuerySelect) Columns() []*QueryColumn { return v.Out }
func (v *QuerySelect) Inputs() []QueryView  { return nil }
func (v *QuerySelect) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.Bound, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QuerySelect) Accept(vis Visitor) { vis.VisitSelect(v) }

// QueryTuple projects Input's columns (Project) and appends Constants,
// producing Out. A QueryTuple whose Project is the identity permutation and
// whose Constants is empty is an identity forwarder, elided during
// canonicalization.
type QueryTuple struct {
	viewBase
	Input     QueryView
	Project   []*QueryColumn
	Constants []ast.Term
	Out       []*QueryColumn
}

func (v *QueryTuple) queryViewNode()      {}
func (v *QueryTuple) Columns() []*QueryColumn { return v.Out }
func (v *QueryTuple) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryTuple) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.Project, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryTuple) Accept(vis Visitor) { vis.VisitTuple(v) }

// QueryJoin combines Inputs_ on Pivots: Pivots[i] lists, for input i, the
// columns that must equal the corresponding columns of every other input.
// Invariant: the pivot sets partition each input's columns used for the
// join key; no input column appears in two of that input's own pivot sets.
type QueryJoin struct {
	viewBase
	Inputs_ []QueryView
	Pivots  [][]*QueryColumn
	Out     []*QueryColumn
}

func (v *QueryJoin) queryViewNode()      {}
func (v *QueryJoin) Columns() []*QueryColumn { return v.Out }
func (v *QueryJoin) Inputs() []QueryView  { return v.Inputs_ }
func (v *QueryJoin) ReplaceColumn(old, replacement *QueryColumn) {
	for _, p := range v.Pivots {
		replaceInSlice(p, old, replacement)
	}
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryJoin) Accept(vis Visitor) { vis.VisitJoin(v) }

// QueryCompare filters Input by Op(LHS, RHS), forwarding Passthrough
// unchanged as Out. Canonicalization hoists a QueryCompare above a QueryJoin
// when both compared columns come from the same join input.
type QueryCompare struct {
	viewBase
	Input       QueryView
	Op          ast.CompareOp
	LHS, RHS    *QueryColumn
	Passthrough []*QueryColumn
	Out         []*QueryColumn
}

func (v *QueryCompare) queryViewNode()      {}
func (v *QueryCompare) Columns() []*QueryColumn { return v.Out }
func (v *QueryCompare) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryCompare) ReplaceColumn(old, replacement *QueryColumn) {
	if v.LHS == old {
		v.LHS = replacement
	}
	if v.RHS == old {
		v.RHS = replacement
	}
	replaceInSlice(v.Passthrough, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryCompare) Accept(vis Visitor) { vis.VisitCompare(v) }

// QueryMap invokes a non-aggregate functor over Input, one call per input
// tuple. CopiedCols pass through from Input; MappedCols are the functor's
// free-binding outputs. Negated marks a `!functor(...)` use, whose output
// rows are those the functor produced zero results for (range(?) or
// range(*) functors only; sema rejects negating an exactly-one functor).
type QueryMap struct {
	viewBase
	Input      QueryView
	Functor    *ast.Decl
	CopiedCols []*QueryColumn
	MappedCols []*QueryColumn
	Negated    bool
	Out        []*QueryColumn
}

func (v *QueryMap) queryViewNode()      {}
func (v *QueryMap) Columns() []*QueryColumn { return v.Out }
func (v *QueryMap) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryMap) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.CopiedCols, old, replacement)
	replaceInSlice(v.MappedCols, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryMap) Accept(vis Visitor) { vis.VisitMap(v) }

// QueryAggregate groups Input by GroupCols, invoking Functor once per group
// with ConfigCols (the group's `bound` extra parameters) and the collected
// AggregateCols, producing SummaryCols. ComputeDifferential always marks it
// as producing deletions: an aggregate recomputes its summary from scratch
// on every input change, so a previously emitted summary can be retracted
// (spec.md §4.5).
type QueryAggregate struct {
	viewBase
	Input         QueryView
	Functor       *ast.Decl
	GroupCols     []*QueryColumn
	ConfigCols    []*QueryColumn
	AggregateCols []*QueryColumn
	SummaryCols   []*QueryColumn
	Out           []*QueryColumn
}

func (v *QueryAggregate) queryViewNode()      {}
func (v *QueryAggregate) Columns() []*QueryColumn { return v.Out }
func (v *QueryAggregate) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryAggregate) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.GroupCols, old, replacement)
	replaceInSlice(v.ConfigCols, old, replacement)
	replaceInSlice(v.AggregateCols, old, replacement)
	replaceInSlice(v.SummaryCols, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryAggregate) Accept(vis Visitor) { vis.VisitAggregate(v) }

// QueryNegate filters Input to the rows whose NegatedCols tuple has no
// matching row in Source: the `!p(...)` body atom. CopiedCols forward from
// Input to Out.
type QueryNegate struct {
	viewBase
	Input       QueryView
	Source      QueryView
	CopiedCols  []*QueryColumn
	NegatedCols []*QueryColumn
	Out         []*QueryColumn
}

func (v *QueryNegate) queryViewNode()      {}
func (v *QueryNegate) Columns() []*QueryColumn { return v.Out }
func (v *QueryNegate) Inputs() []QueryView  { return []QueryView{v.Input, v.Source} }
func (v *QueryNegate) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.CopiedCols, old, replacement)
	replaceInSlice(v.NegatedCols, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryNegate) Accept(vis Visitor) { vis.VisitNegate(v) }

// QueryMerge unions Inputs_, one branch per redeclaration or per disjunctive
// clause of the same head. Invariant: inputs are pairwise type-compatible,
// i.e. every input's Columns() share the same Type sequence as Out.
type QueryMerge struct {
	viewBase
	Inputs_ []QueryView
	Out     []*QueryColumn
}

func (v *QueryMerge) queryViewNode()      {}
func (v *QueryMerge) Columns() []*QueryColumn { return v.Out }
func (v *QueryMerge) Inputs() []QueryView  { return v.Inputs_ }
func (v *QueryMerge) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryMerge) Accept(vis Visitor) { vis.VisitMerge(v) }

// QueryInsert is a graph sink: Input's tuples are inserted into (or, if
// IsRetract, removed from) Sink. Sinks have no Out columns of their own;
// they terminate the data-flow graph and feed internal/program's
// tuple-finder/tuple-remover procedure generation instead.
type QueryInsert struct {
	viewBase
	Input     QueryView
	Sink      *ast.Decl
	IsRetract bool
}

func (v *QueryInsert) queryViewNode()      {}
func (v *QueryInsert) Columns() []*QueryColumn { return nil }
func (v *QueryInsert) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryInsert) ReplaceColumn(old, replacement *QueryColumn) {}
func (v *QueryInsert) Accept(vis Visitor) { vis.VisitInsert(v) }

// QueryKVIndex adapts Input into a key-value lookup structure keyed by
// KeyCols, carrying ValueCols; MergeFunctor resolves concurrent writers of
// the same key when KeyCols names a `mutable` parameter.
type QueryKVIndex struct {
	viewBase
	Input        QueryView
	KeyCols      []*QueryColumn
	ValueCols    []*QueryColumn
	MergeFunctor *ast.Decl
	Out          []*QueryColumn
}

func (v *QueryKVIndex) queryViewNode()      {}
func (v *QueryKVIndex) Columns() []*QueryColumn { return v.Out }
func (v *QueryKVIndex) Inputs() []QueryView  { return []QueryView{v.Input} }
func (v *QueryKVIndex) ReplaceColumn(old, replacement *QueryColumn) {
	replaceInSlice(v.KeyCols, old, replacement)
	replaceInSlice(v.ValueCols, old, replacement)
	replaceInSlice(v.Out, old, replacement)
}
func (v *QueryKVIndex) Accept(vis Visitor) { vis.VisitKVIndex(v) }
