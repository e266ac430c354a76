package program

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/token"
)

// TupleState is a row's ternary differential-maintenance marker (spec.md
// §3's "Tuple states and transitions").
type TupleState uint8

const (
	Absent TupleState = iota
	Present
	Unknown
)

func (s TupleState) String() string {
	switch s {
	case Present:
		return "present"
	case Unknown:
		return "unknown"
	default:
		return "absent"
	}
}

// DataVariableRole tags what a DataVariable stands for inside a procedure.
type DataVariableRole uint8

const (
	RoleParameter DataVariableRole = iota
	RoleLocal
	RoleFree
	RoleGlobalBoolean
	RoleConditionRefCount
)

// DataVariable is a typed value a region reads or writes: a procedure
// parameter, a local binding introduced by LetBindingRegion, a free output
// of a scan/join/generate, a global boolean (the initializer's unconditional
// truth), or a condition's reference count.
type DataVariable struct {
	ID   int
	Name string
	Type ast.Type
	Role DataVariableRole
	// Const is non-nil when this variable is bound to a clause-literal
	// constant rather than a scan/join/generate output (a QueryTuple's
	// appended constant, spec.md §3's "constant-producing views"); nil for
	// every other role.
	Const *ast.Term
}

// DataColumn is one column of a DataTable's schema: interned name plus
// declared type, in the backing declaration's parameter order.
type DataColumn struct {
	Name token.Symbol
	Type ast.Type
}

// DataIndex is a hash index over Table, keyed by KeyColumns (positions into
// Table.Columns), the remaining columns are the value. Covering indexes key
// every column (full-tuple lookup); Origin records which access pattern
// during table/index selection asked for this index (for diagnostics).
type DataIndex struct {
	ID           int
	Table        *DataTable
	KeyColumns   []int
	ValueColumns []int
	Covering     bool
	Origin       string
}

// DataTable is a persistent mapping from a tuple of Columns to a TupleState,
// plus its secondary DataIndexes. Transparent marks a `@transparent`
// relation that table/index selection elides: its tuples are never
// physically stored, only inlined at the call sites that would have scanned
// it (spec.md's original_source/ supplement, see SPEC_FULL.md §4).
type DataTable struct {
	ID          int
	Decl        *ast.Decl
	Columns     []DataColumn
	Indexes     []*DataIndex
	Transparent bool
}

// ColumnNames renders the table's schema using pool to resolve interned
// names, for internal/codegen and for readable test failure messages.
func (t *DataTable) ColumnNames(pool *token.Pool) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = pool.String(c.Name)
	}
	return out
}

// ProcedureKind is the role a ProgramProcedure plays (spec.md §4.6).
type ProcedureKind uint8

const (
	ProcInitializer ProcedureKind = iota
	ProcMessageHandler
	ProcTupleFinder
	ProcTupleRemover
	ProcInductionCycleHandler
	ProcInductionOutputHandler
)

func (k ProcedureKind) String() string {
	switch k {
	case ProcInitializer:
		return "initializer"
	case ProcMessageHandler:
		return "message_handler"
	case ProcTupleFinder:
		return "tuple_finder"
	case ProcTupleRemover:
		return "tuple_remover"
	case ProcInductionCycleHandler:
		return "induction_cycle_handler"
	case ProcInductionOutputHandler:
		return "induction_output_handler"
	default:
		return "unknown"
	}
}

// ProgramProcedure is one callable unit of the control-flow IR: a kind, a
// stable deterministic Name, the relation/message it's about (nil for the
// single module-wide Initializer), its parameters, and its region body.
type ProgramProcedure struct {
	ID     int
	Kind   ProcedureKind
	Name   string
	Target *ast.Decl
	Params []*DataVariable
	Body   ProgramRegion
}

// ProgramRegion is the sealed sum type of control-flow tree nodes (spec.md
// §3/§9's "views as sum types" pattern, reused here for regions): the
// marker method seals it to this package so a RegionVisitor switch stays
// exhaustive.
type ProgramRegion interface {
	programRegionNode()
	Accept(v RegionVisitor)
}

// RegionVisitor dispatches over every ProgramRegion variant.
type RegionVisitor interface {
	VisitSeries(*SeriesRegion)
	VisitParallel(*ParallelRegion)
	VisitLetBinding(*LetBindingRegion)
	VisitCall(*CallRegion)
	VisitReturn(*ReturnRegion)
	VisitExistenceAssertion(*ExistenceAssertionRegion)
	VisitExistenceCheck(*ExistenceCheckRegion)
	VisitGenerate(*GenerateRegion)
	VisitInduction(*InductionRegion)
	VisitVectorAppend(*VectorAppendRegion)
	VisitVectorLoop(*VectorLoopRegion)
	VisitVectorClear(*VectorClearRegion)
	VisitVectorUnique(*VectorUniqueRegion)
	VisitTransitionState(*TransitionStateRegion)
	VisitCheckState(*CheckStateRegion)
	VisitTableJoin(*TableJoinRegion)
	VisitTableProduct(*TableProductRegion)
	VisitTableScan(*TableScanRegion)
	VisitTupleCompare(*TupleCompareRegion)
	VisitPublish(*PublishRegion)
}

// DataVector is an ephemeral ordered multiset of tuples used as a work
// queue inside a procedure (spec.md §3), partitioned across workers by
// WorkerID (§4.7's "declared with a worker id for partitioning").
type DataVector struct {
	ID       int
	Name     string
	Columns  []ast.Type
	WorkerID int
}

// Program is the complete control-flow IR for a module: every persistent
// table and the procedures scheduled over the data-flow graph.
type Program struct {
	Tables     []*DataTable
	Procedures []*ProgramProcedure

	nextID int
}

func (p *Program) allocID() int {
	id := p.nextID
	p.nextID++
	return id
}
