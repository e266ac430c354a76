// Package runtime is the reference implementation of the control-flow IR's
// abstract execution contract (SPEC_FULL.md §4.7): Storage, Table, Index,
// Vector, Set, and ConditionRefCount. internal/codegen emits Go source that
// calls these types directly; they are the "generated database" spec.md §6
// describes, specialized per module by concrete key/value struct types
// rather than by the C++ original's template parameter packs.
//
// Every type here is safe for concurrent use, but the execution model they
// target is single-worker-cooperative per message batch (SPEC_FULL.md §5):
// one goroutine drives a Batch's Transition/Insert calls to completion (or
// Aborts them together) before the next batch starts. Concurrency support
// exists for the scan/read side, where a long-lived query connection may
// run alongside an in-flight batch.
package runtime
