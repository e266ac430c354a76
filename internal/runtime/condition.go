package runtime

import "sync/atomic"

// ConditionRefCount is the reference implementation of the control-flow
// IR's condition variable contract (spec.md §4.7): an atomic counter
// tracking how many independent proofs currently support some condition;
// zero means "not provable." Grounded on the same atomic.Int64 shape the
// event loop's logical clock uses for its own linearizable counter.
type ConditionRefCount struct {
	count atomic.Int64
}

// Increment records one more proof, returning the new count.
func (c *ConditionRefCount) Increment() int64 { return c.count.Add(1) }

// Decrement retracts one proof, returning the new count.
func (c *ConditionRefCount) Decrement() int64 { return c.count.Add(-1) }

// Provable reports whether any proof currently supports the condition.
func (c *ConditionRefCount) Provable() bool { return c.count.Load() != 0 }

// Count returns the current reference count, for diagnostics and tests.
func (c *ConditionRefCount) Count() int64 { return c.count.Load() }
