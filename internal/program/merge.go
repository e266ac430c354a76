package program

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/queryir"
)

// HeadGroup collects every clause Graph whose single Insert sink shares a
// DeclClass: spec.md §4.5's "multiple clauses defining the same head
// produce a Merge view," lowered here by grouping clauses under their
// shared head rather than reconstructing a cross-graph queryir.QueryMerge.
// Each Graph already ends in its own QueryInsert with its own column
// identities; internal/queryir builds one clause at a time and never
// shares column pointers across clause boundaries, so unioning them into
// one view graph would need to reconcile two independently-allocated
// column id spaces for no benefit downstream. TupleFinder and
// MessageHandler generation instead tries each group member's plan in
// turn and unions the derived tuples, which is observably identical to an
// explicit Merge view over the same two sources.
type HeadGroup struct {
	Head   *ast.Decl
	Graphs []*queryir.Graph
}

// GroupByHead partitions graphs by the DeclClass of their sink(s), in
// first-seen order.
func GroupByHead(graphs []*queryir.Graph) []*HeadGroup {
	var order []*ast.DeclClass
	byClass := map[*ast.DeclClass]*HeadGroup{}
	for _, g := range graphs {
		for _, sink := range g.Sinks {
			class := sink.Sink.Class()
			if class == nil {
				continue
			}
			grp, ok := byClass[class]
			if !ok {
				grp = &HeadGroup{Head: class.Members[0]}
				byClass[class] = grp
				order = append(order, class)
			}
			grp.Graphs = append(grp.Graphs, g)
		}
	}
	out := make([]*HeadGroup, len(order))
	for i, c := range order {
		out[i] = byClass[c]
	}
	return out
}
