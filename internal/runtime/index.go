package runtime

import "sync"

// Index is the reference implementation of the control-flow IR's
// Index<id, table_id, keys..., values...> contract (spec.md §4.7): a
// secondary hash index over a Table, keyed by a prefix of the table's
// columns (spec.md §4.6: one DataIndex per observed Select-bound-column,
// Join-pivot, or Negate-match access pattern).
//
// IK is the index's own (smaller) key, a projection the generated access
// path computes from a partially-bound tuple; PK is the backing Table's
// full key.
type Index[IK comparable, PK comparable] struct {
	mu      sync.RWMutex
	name    string
	entries map[IK]map[PK]struct{}
}

// NewIndex constructs an empty index.
func NewIndex[IK comparable, PK comparable](name string) *Index[IK, PK] {
	return &Index[IK, PK]{name: name, entries: make(map[IK]map[PK]struct{})}
}

func (x *Index[IK, PK]) Name() string { return x.name }

// Add records that pk is reachable under ik. Codegen calls this alongside
// the backing Table's TryChangeState/InsertOrTransition, since Table
// itself doesn't know how to project a key into any of its indexes' keys.
func (x *Index[IK, PK]) Add(ik IK, pk PK) {
	x.mu.Lock()
	defer x.mu.Unlock()
	set, ok := x.entries[ik]
	if !ok {
		set = make(map[PK]struct{})
		x.entries[ik] = set
	}
	set[pk] = struct{}{}
}

// Remove drops pk from ik's bucket.
func (x *Index[IK, PK]) Remove(ik IK, pk PK) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if set, ok := x.entries[ik]; ok {
		delete(set, pk)
		if len(set) == 0 {
			delete(x.entries, ik)
		}
	}
}

// Lookup returns every primary key indexed under ik, in no particular
// order. The caller re-checks each against the backing Table, since an
// index entry can outlive the row's own transition to Unknown or Absent
// until the generated code that removed it gets around to calling Remove.
func (x *Index[IK, PK]) Lookup(ik IK) []PK {
	x.mu.RLock()
	defer x.mu.RUnlock()
	set := x.entries[ik]
	out := make([]PK, 0, len(set))
	for pk := range set {
		out = append(out, pk)
	}
	return out
}

// ScanIndex implements Table<id, cols...>.scan_index(index_id, key_cols):
// resolve every primary key indexed under ik against t, yielding only rows
// still Present.
func ScanIndex[IK comparable, PK comparable, V any](t *Table[PK, V], idx *Index[IK, PK], ik IK) []Entry[PK, V] {
	pks := idx.Lookup(ik)
	out := make([]Entry[PK, V], 0, len(pks))
	for _, pk := range pks {
		if v, state, ok := t.Get(pk); ok && state == Present {
			out = append(out, Entry[PK, V]{Key: pk, Value: v})
		}
	}
	return out
}
