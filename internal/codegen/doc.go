// Package codegen turns a compiled program.Program into Go source: one
// type per DataTable/DataIndex, one function per ProgramProcedure, one
// Hooks interface method per functor, plus a DOT dump of the data-flow
// graph and an interface-schema descriptor for the module's messages and
// queries (spec.md §6). Structural emission, not an optimizing backend:
// every procedure becomes a real Go function calling internal/runtime
// directly, but no attempt is made to specialize or inline across
// procedure boundaries the way a production Datalog compiler's C++ target
// would. Grounded on the teacher pack's sole dave/jennifer user,
// syssam-velox/compiler/gen, for the emission idiom (errgroup-parallel
// per-file generation, *jen.File construction, StructFunc/BlockFunc
// builders).
package codegen
