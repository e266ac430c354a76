package runtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// row is one key's stored state, value columns, and open scan reference
// count (spec.md §4.7: scans "yield references to values with open
// lifetime counted against the storage").
type row[V any] struct {
	state TupleState
	value V
	refs  atomic.Int32
}

// Entry is one (key, value) pair yielded by Scan or ScanIndex.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// Table is the reference implementation of the control-flow IR's
// Table<id, cols...> contract (spec.md §4.7): a persistent mapping from a
// key tuple to a TupleState plus value columns, with linearizable state
// transitions.
//
// K is the table's full key tuple, the relation's declared columns
// (spec.md §4.6's "key columns are all its declared columns"); V is
// whatever value columns are left once a particular DataIndex's key
// columns are subtracted out. Codegen emits one concrete K/V struct pair
// per DataTable; this type supplies the storage and locking behind them.
type Table[K comparable, V any] struct {
	mu   sync.RWMutex
	name string
	rows map[K]*row[V]
	log  *slog.Logger
}

// NewTable constructs an empty table. log may be nil, in which case
// slog.Default() is used.
func NewTable[K comparable, V any](name string, log *slog.Logger) *Table[K, V] {
	if log == nil {
		log = slog.Default()
	}
	return &Table[K, V]{name: name, rows: make(map[K]*row[V]), log: log}
}

// Name returns the table's name, for diagnostics and Storage registration.
func (t *Table[K, V]) Name() string { return t.name }

// GetState implements Table<id, cols...>.get_state(cols) -> {absent,
// present, unknown}.
func (t *Table[K, V]) GetState(key K) TupleState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[key]
	if !ok {
		return Absent
	}
	return r.state
}

// Get returns the value and state stored at key, plus whether a row exists
// at all (a row can exist in the Absent state transiently during rollback).
func (t *Table[K, V]) Get(key K) (V, TupleState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[key]
	if !ok {
		var zero V
		return zero, Absent, false
	}
	return r.value, r.state, true
}

// TryChangeState implements Table<id, cols...>.try_change(from, to, cols)
// -> bool: the single linearizable step every TransitionState region
// compiles down to. Concurrent readers observe either the pre- or the
// post-state, never a partial one, because the whole check-and-set runs
// under one write lock.
func (t *Table[K, V]) TryChangeState(key K, from, to TupleState, value V) bool {
	if !legalTransition(from, to) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[key]
	cur := Absent
	if ok {
		cur = r.state
	}
	if cur != from {
		return false
	}
	if !ok {
		r = &row[V]{}
		t.rows[key] = r
	}
	r.state = to
	if to != Absent {
		r.value = value
	}
	t.log.Debug("table transition", "table", t.name, "from", from, "to", to)
	return true
}

// InsertOrTransition implements Table<id, cols...>.insert_or_transition
// (cols) -> {inserted, changed, unchanged}: the compound operation a
// message handler's TransitionState compiles to when no finder has already
// proven the key present.
func (t *Table[K, V]) InsertOrTransition(key K, value V) ChangeKind {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[key]
	if !ok {
		r = &row[V]{state: Present, value: value}
		t.rows[key] = r
		return Inserted
	}
	switch r.state {
	case Present:
		return Unchanged
	default: // Unknown or Absent
		r.state = Present
		r.value = value
		return Changed
	}
}

// Scan implements Table<id, cols...>.scan(): every Present row, plus a
// release function the caller must call exactly once when done reading the
// returned values, dropping the scan's read references.
func (t *Table[K, V]) Scan() (rows []Entry[K, V], release func()) {
	t.mu.RLock()
	out := make([]Entry[K, V], 0, len(t.rows))
	for k, r := range t.rows {
		if r.state != Present {
			continue
		}
		r.refs.Add(1)
		out = append(out, Entry[K, V]{Key: k, Value: r.value})
	}
	t.mu.RUnlock()

	var released atomic.Bool
	release = func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, e := range out {
			if r, ok := t.rows[e.Key]; ok {
				r.refs.Add(-1)
			}
		}
	}
	return out, release
}
