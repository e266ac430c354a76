// Package program builds the control-flow IR (spec.md §4.6): a Program of
// persistent DataTables and their DataIndexes, ephemeral DataVectors, and
// ProgramProcedures whose bodies are trees of the sealed ProgramRegion sum
// type (twenty variants: Series, Parallel, LetBinding, Call, Return,
// ExistenceAssertion, ExistenceCheck, Generate, Induction, VectorAppend,
// VectorLoop, VectorClear, VectorUnique, TransitionState, CheckState,
// TableJoin, TableProduct, TableScan, TupleCompare, Publish).
//
// Input is a module's per-clause internal/queryir graphs; output schedules
// them into table/index selection plus one procedure per message, query,
// and recursive stratum, ready for internal/codegen to emit.
package program
