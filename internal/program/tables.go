package program

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/queryir"
)

// tableBacked reports whether decl's relation is ever physically stored.
// Every relation kind (local, export, query, message) is materialized and
// serviced by its own TupleFinder (spec.md §6: "per-query finders" read
// from "materialized relations"); only a functor has no backing table,
// since it's called rather than scanned.
func tableBacked(decl *ast.Decl) bool {
	return decl != nil && decl.Kind != ast.DeclFunctor
}

// tableSet accumulates DataTables and their DataIndexes while walking a
// module's clause graphs, deduplicating by DeclClass so every redeclaration
// of a relation shares one table.
type tableSet struct {
	byClass map[*ast.DeclClass]*DataTable
	order   []*DataTable
	nextID  int
}

func newTableSet() *tableSet {
	return &tableSet{byClass: map[*ast.DeclClass]*DataTable{}}
}

func (ts *tableSet) tableFor(decl *ast.Decl) *DataTable {
	if !tableBacked(decl) {
		return nil
	}
	class := decl.Class()
	if class == nil {
		return nil
	}
	if t, ok := ts.byClass[class]; ok {
		return t
	}
	canon := class.Members[0]
	cols := make([]DataColumn, len(canon.Params))
	for i, p := range canon.Params {
		cols[i] = DataColumn{Name: p.Name, Type: p.Type}
		// TODO: p.Binding == ast.BindingMutable carries a MergeFunctor for
		// concurrent writers of this column, but index selection above
		// doesn't yet know whether the column ends up under a DataIndex's
		// key (contended) or as pure value storage (uncontended merge
		// order never matters). Left open per the mutable(merge_fn) open
		// question; internal/sema.checkMutableMergeAdvisory surfaces this
		// to the user in the meantime.
	}
	t := &DataTable{ID: ts.nextID, Decl: canon, Columns: cols, Transparent: canon.Transparent}
	ts.nextID++
	ts.byClass[class] = t
	ts.order = append(ts.order, t)
	return t
}

// indexFor returns (creating if needed) the DataIndex on t keyed by the
// column positions in keyPositions, deduplicating identical access
// patterns (spec.md §4.6: "create a DataIndex ... if one does not already
// exist").
func indexFor(t *DataTable, keyPositions []int, origin string) *DataIndex {
	if t == nil || t.Transparent {
		// @transparent relations are elided: nothing is ever physically
		// scanned through an index, the tuple is inlined at its use site
		// instead (SPEC_FULL.md §4 supplement).
		return nil
	}
	covering := len(keyPositions) == len(t.Columns)
	for _, idx := range t.Indexes {
		if sameKeySet(idx.KeyColumns, keyPositions) {
			return idx
		}
	}
	keySet := map[int]bool{}
	for _, p := range keyPositions {
		keySet[p] = true
	}
	var values []int
	for i := range t.Columns {
		if !keySet[i] {
			values = append(values, i)
		}
	}
	idx := &DataIndex{
		ID:           len(t.Indexes),
		Table:        t,
		KeyColumns:   append([]int(nil), keyPositions...),
		ValueColumns: values,
		Covering:     covering,
		Origin:       origin,
	}
	t.Indexes = append(t.Indexes, idx)
	return idx
}

func sameKeySet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[int]bool{}
	for _, x := range a {
		seen[x] = true
	}
	for _, x := range b {
		if !seen[x] {
			return false
		}
	}
	return true
}

// underlyingSelect follows single-input passthrough views (QueryCompare,
// identity-shaped QueryTuple) back to the QuerySelect they ultimately scan,
// so a Join's or Negate's access pattern can be attributed to the right
// table even when a filter sits between the scan and the join/negate.
func underlyingSelect(v queryir.QueryView) *queryir.QuerySelect {
	for {
		switch t := v.(type) {
		case *queryir.QuerySelect:
			return t
		case *queryir.QueryCompare:
			v = t.Input
		case *queryir.QueryTuple:
			v = t.Input
		default:
			return nil
		}
	}
}

// positionsOf returns, for each column in cols, its index within sel.Out,
// or -1 if not found (caller skips those: they belong to a different
// table's columns entirely, e.g. a join pivot that traces through two
// chained selects).
func positionsOf(sel *queryir.QuerySelect, cols []*queryir.QueryColumn) []int {
	var out []int
	for _, c := range cols {
		for i, o := range sel.Out {
			if o == c {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// BuildTables performs table/index selection over every graph (spec.md
// §4.6): one DataTable per persistent relation keyed by all its declared
// columns, one DataIndex per observed Select-bound-column, Join-pivot, or
// Negate-match access pattern.
func BuildTables(graphs []*queryir.Graph) []*DataTable {
	ts := newTableSet()
	for _, g := range graphs {
		for _, view := range g.Views {
			switch t := view.(type) {
			case *queryir.QuerySelect:
				table := ts.tableFor(t.Source)
				if table == nil || len(t.Bound) == 0 {
					continue
				}
				if pos := positionsOf(t, t.Bound); len(pos) == len(t.Bound) {
					indexFor(table, pos, "select")
				}
			case *queryir.QueryJoin:
				for i, in := range t.Inputs_ {
					sel := underlyingSelect(in)
					if sel == nil || len(t.Pivots[i]) == 0 {
						continue
					}
					table := ts.tableFor(sel.Source)
					if pos := positionsOf(sel, t.Pivots[i]); len(pos) == len(t.Pivots[i]) {
						indexFor(table, pos, "join")
					}
				}
			case *queryir.QueryNegate:
				sel := underlyingSelect(t.Source)
				if sel == nil || len(t.NegatedCols) == 0 {
					continue
				}
				table := ts.tableFor(sel.Source)
				if pos := positionsOf(sel, t.NegatedCols); len(pos) == len(t.NegatedCols) {
					indexFor(table, pos, "negate")
				}
			case *queryir.QueryInsert:
				ts.tableFor(t.Sink)
			}
		}
	}
	// Every persistent relation gets a covering index (full-tuple lookup),
	// even one that no Select/Join/Negate bound in its entirety, because
	// TupleFinder/TupleRemover always need to test a fully-bound tuple
	// directly (spec.md §3: "one index may be covering ... serves lookups
	// by full tuple").
	for _, t := range ts.order {
		if t.Transparent {
			continue
		}
		all := make([]int, len(t.Columns))
		for i := range t.Columns {
			all[i] = i
		}
		indexFor(t, all, "covering")
	}
	return ts.order
}
