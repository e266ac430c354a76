package runtime

import "log/slog"

// Batch is the atomicity boundary a message handler runs inside (spec.md
// §5: "batches are atomic; there is no partial commit"). A generated
// message handler stages every TransitionState through Transition instead
// of calling a Table directly, so that an impure functor's failure can
// revert every staged change in reverse order before the batch returns.
type Batch struct {
	log  *slog.Logger
	undo []func()
}

// NewBatch starts a fresh batch. log may be nil, in which case
// slog.Default() is used.
func NewBatch(log *slog.Logger) *Batch {
	if log == nil {
		log = slog.Default()
	}
	return &Batch{log: log}
}

// Transition performs a linearizable state change against t and records
// its inverse, returning whether the transition fired (same contract as
// Table.TryChangeState). The pre-transition state is captured under the
// same lock as the change itself, so a concurrent reader can never
// observe a value this batch will later have to roll back without also
// having observed the state transition that produced it.
func Transition[K comparable, V any](b *Batch, t *Table[K, V], key K, from, to TupleState, value V) bool {
	t.mu.Lock()
	r, existed := t.rows[key]
	cur := Absent
	var prevValue V
	if existed {
		cur = r.state
		prevValue = r.value
	}
	if cur != from || !legalTransition(from, to) {
		t.mu.Unlock()
		return false
	}
	if !existed {
		r = &row[V]{}
		t.rows[key] = r
	}
	r.state = to
	if to != Absent {
		r.value = value
	}
	t.mu.Unlock()
	t.log.Debug("table transition", "table", t.name, "from", from, "to", to)

	b.undo = append(b.undo, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !existed {
			delete(t.rows, key)
			return
		}
		r.state = cur
		r.value = prevValue
	})
	return true
}

// Abort reverts every staged transition in reverse order (spec.md §5:
// "reverting tentative state transitions staged in the current worker's
// vectors"), then discards the undo log.
func (b *Batch) Abort() {
	for i := len(b.undo) - 1; i >= 0; i-- {
		b.undo[i]()
	}
	b.log.Warn("batch aborted", "reverted", len(b.undo))
	b.undo = nil
}

// Commit discards the undo log: every staged transition stands.
func (b *Batch) Commit() {
	b.undo = nil
}

// Len returns the number of transitions staged so far, for tests.
func (b *Batch) Len() int { return len(b.undo) }
