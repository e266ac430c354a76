package program

import "github.com/roach88/drlc/internal/ast"

// SeriesRegion runs Steps in order; each step's writes are visible to the
// next (spec.md §5's "updates caused by one input tuple observable together
// before the next begins").
type SeriesRegion struct{ Steps []ProgramRegion }

func (*SeriesRegion) programRegionNode()        {}
func (r *SeriesRegion) Accept(v RegionVisitor)  { v.VisitSeries(r) }

// ParallelRegion runs Branches with no ordering guarantee between them;
// emitted only when the scheduler has established the branches share no
// data-flow dependency (spec.md §4.6 scheduling rules).
type ParallelRegion struct{ Branches []ProgramRegion }

func (*ParallelRegion) programRegionNode()       {}
func (r *ParallelRegion) Accept(v RegionVisitor) { v.VisitParallel(r) }

// LetBindingRegion introduces Vars as new locals, scoped to Body.
type LetBindingRegion struct {
	Vars []*DataVariable
	Body ProgramRegion
}

func (*LetBindingRegion) programRegionNode()       {}
func (r *LetBindingRegion) Accept(v RegionVisitor) { v.VisitLetBinding(r) }

// CallRegion invokes Callee (a TupleFinder/TupleRemover, typically) with
// Args bound to its parameters.
type CallRegion struct {
	Callee *ProgramProcedure
	Args   []*DataVariable
}

func (*CallRegion) programRegionNode()       {}
func (r *CallRegion) Accept(v RegionVisitor) { v.VisitCall(r) }

// ReturnRegion exits the enclosing procedure with Value (a RoleLocal
// boolean for TupleFinder/TupleRemover's proof result; nil for procedures
// with no return value).
type ReturnRegion struct{ Value *DataVariable }

func (*ReturnRegion) programRegionNode()       {}
func (r *ReturnRegion) Accept(v RegionVisitor) { v.VisitReturn(r) }

// ExistenceAssertionRegion increments (Negative false) or decrements
// (Negative true) Cond's reference count: the runtime's ConditionRefCount
// contract (spec.md §4.7).
type ExistenceAssertionRegion struct {
	Cond     *DataVariable // Role == RoleConditionRefCount
	Negative bool
}

func (*ExistenceAssertionRegion) programRegionNode()       {}
func (r *ExistenceAssertionRegion) Accept(v RegionVisitor) { v.VisitExistenceAssertion(r) }

// ExistenceCheckRegion runs Body only while Cond's reference count is
// nonzero; a zero count means "not provable" (spec.md §4.7).
type ExistenceCheckRegion struct {
	Cond *DataVariable // Role == RoleConditionRefCount
	Body ProgramRegion
}

func (*ExistenceCheckRegion) programRegionNode()       {}
func (r *ExistenceCheckRegion) Accept(v RegionVisitor) { v.VisitExistenceCheck(r) }

// GenerateRegion invokes Functor once per input tuple (one queryir.QueryMap
// lowered to control flow): Inputs bind the functor's bound parameters,
// Outputs receive its free parameters, and Body runs once per result row.
// Negated mirrors QueryMap.Negated: Body instead runs for inputs that
// produced zero results.
type GenerateRegion struct {
	Functor  *ast.Decl
	Inputs   []*DataVariable
	Outputs  []*DataVariable
	Negated  bool
	Body     ProgramRegion
}

func (*GenerateRegion) programRegionNode()       {}
func (r *GenerateRegion) Accept(v RegionVisitor) { v.VisitGenerate(r) }

// InductionRegion is a fixed-point loop over a recursive stratum: one
// worklist DataVector per participating relation, draining them in Body
// (a SeriesRegion that, for each worklist in turn, dedupes it, loops over
// its tuples, then clears it) until every vector is empty.
type InductionRegion struct {
	Vectors []*DataVector
	Body    ProgramRegion
}

func (*InductionRegion) programRegionNode()       {}
func (r *InductionRegion) Accept(v RegionVisitor) { v.VisitInduction(r) }

// VectorAppendRegion appends Values as one tuple onto Vector.
type VectorAppendRegion struct {
	Vector *DataVector
	Values []*DataVariable
}

func (*VectorAppendRegion) programRegionNode()       {}
func (r *VectorAppendRegion) Accept(v RegionVisitor) { v.VisitVectorAppend(r) }

// VectorLoopRegion iterates Vector, binding each tuple's columns to Binding
// and running Body once per tuple.
type VectorLoopRegion struct {
	Vector  *DataVector
	Binding []*DataVariable
	Body    ProgramRegion
}

func (*VectorLoopRegion) programRegionNode()       {}
func (r *VectorLoopRegion) Accept(v RegionVisitor) { v.VisitVectorLoop(r) }

// VectorClearRegion empties Vector, used in an induction round once a
// VectorLoopRegion has visited every tuple on it.
type VectorClearRegion struct{ Vector *DataVector }

func (*VectorClearRegion) programRegionNode()       {}
func (r *VectorClearRegion) Accept(v RegionVisitor) { v.VisitVectorClear(r) }

// VectorUniqueRegion deduplicates Vector in place against the runtime's Set
// contract. Inserted by the scheduler before a loop whose downstream
// operator (an aggregate update, most commonly) would observe a difference
// between a duplicate tuple appearing once versus twice (spec.md §4.6).
type VectorUniqueRegion struct{ Vector *DataVector }

func (*VectorUniqueRegion) programRegionNode()       {}
func (r *VectorUniqueRegion) Accept(v RegionVisitor) { v.VisitVectorUnique(r) }

// TransitionStateRegion attempts the single linearizable Table.try_change
// from From to To for Columns' key; Body runs only if the transition
// actually fired (spec.md §3: "downstream work is predicated on this").
type TransitionStateRegion struct {
	Table   *DataTable
	From    TupleState
	To      TupleState
	Columns []*DataVariable
	Body    ProgramRegion
}

func (*TransitionStateRegion) programRegionNode()       {}
func (r *TransitionStateRegion) Accept(v RegionVisitor) { v.VisitTransitionState(r) }

// CheckStateRegion reads Table.get_state for Columns' key and runs Body
// only if it equals State; unlike TransitionStateRegion this never writes.
type CheckStateRegion struct {
	Table   *DataTable
	State   TupleState
	Columns []*DataVariable
	Body    ProgramRegion
}

func (*CheckStateRegion) programRegionNode()       {}
func (r *CheckStateRegion) Accept(v RegionVisitor) { v.VisitCheckState(r) }

// TableJoinRegion scans each of Tables through the index matching
// PivotCols[i] (positions into that table's columns) and runs Body once per
// matched combination, lowering a queryir.QueryJoin. Out[i] holds the
// DataVariables bound to Tables[i]'s full column tuple, in table-column
// order; a pivot position shares its DataVariable pointer across the
// tables it joins (see lower.go's lowerJoin), so codegen only ever emits
// one assignment for it.
type TableJoinRegion struct {
	Tables    []*DataTable
	Indexes   []*DataIndex
	PivotCols [][]int
	Out       [][]*DataVariable
	Body      ProgramRegion
}

func (*TableJoinRegion) programRegionNode()       {}
func (r *TableJoinRegion) Accept(v RegionVisitor) { v.VisitTableJoin(r) }

// TableProductRegion scans every one of Tables with no shared pivot,
// running Body once per full cross-product combination; only legal when
// every table involved carries the `@product` pragma (spec.md §3 Functor/
// Param notes, SPEC_FULL.md domain stack). Out[i] mirrors TableJoinRegion's
// per-table column binding.
type TableProductRegion struct {
	Tables []*DataTable
	Out    [][]*DataVariable
	Body   ProgramRegion
}

func (*TableProductRegion) programRegionNode()       {}
func (r *TableProductRegion) Accept(v RegionVisitor) { v.VisitTableProduct(r) }

// TableScanRegion scans Table (optionally through Index, nil meaning a full
// table scan) with Bound supplying the index's key columns, running Body
// once per matching row; lowers a queryir.QuerySelect. Out holds the
// DataVariables bound to Table's full column tuple, in table-column order.
type TableScanRegion struct {
	Table *DataTable
	Index *DataIndex
	Bound []*DataVariable
	Out   []*DataVariable
	Body  ProgramRegion
}

func (*TableScanRegion) programRegionNode()       {}
func (r *TableScanRegion) Accept(v RegionVisitor) { v.VisitTableScan(r) }

// TupleCompareRegion runs Body only if Op(LHS, RHS) holds; lowers a
// queryir.QueryCompare.
type TupleCompareRegion struct {
	Op   ast.CompareOp
	LHS  *DataVariable
	RHS  *DataVariable
	Body ProgramRegion
}

func (*TupleCompareRegion) programRegionNode()       {}
func (r *TupleCompareRegion) Accept(v RegionVisitor) { v.VisitTupleCompare(r) }

// PublishRegion transmits Values as one tuple of Message to subscribers;
// lowers a queryir.QueryInsert whose Sink is a #message declaration.
type PublishRegion struct {
	Message *ast.Decl
	Values  []*DataVariable
}

func (*PublishRegion) programRegionNode()       {}
func (r *PublishRegion) Accept(v RegionVisitor) { v.VisitPublish(r) }
