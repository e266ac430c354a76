package codegen

import (
	"fmt"
	"strings"

	"github.com/roach88/drlc/internal/queryir"
)

// kindLabeler implements queryir.Visitor purely to name a view's kind for
// DOT rendering, reusing the sealed-visitor pattern rather than a type
// switch so an unhandled QueryView variant fails to compile instead of
// silently falling through to a default label.
type kindLabeler struct{ label string }

func (k *kindLabeler) VisitSelect(*queryir.QuerySelect)       { k.label = "select" }
func (k *kindLabeler) VisitTuple(*queryir.QueryTuple)         { k.label = "tuple" }
func (k *kindLabeler) VisitJoin(*queryir.QueryJoin)           { k.label = "join" }
func (k *kindLabeler) VisitCompare(*queryir.QueryCompare)     { k.label = "compare" }
func (k *kindLabeler) VisitMap(*queryir.QueryMap)             { k.label = "map" }
func (k *kindLabeler) VisitAggregate(*queryir.QueryAggregate) { k.label = "aggregate" }
func (k *kindLabeler) VisitNegate(*queryir.QueryNegate)       { k.label = "negate" }
func (k *kindLabeler) VisitMerge(*queryir.QueryMerge)         { k.label = "merge" }
func (k *kindLabeler) VisitInsert(*queryir.QueryInsert)       { k.label = "insert" }
func (k *kindLabeler) VisitKVIndex(*queryir.QueryKVIndex)     { k.label = "kv_index" }

func viewKind(v queryir.QueryView) string {
	var k kindLabeler
	v.Accept(&k)
	return k.label
}

// DOT renders graphs as a single Graphviz digraph (SPEC_FULL.md §4's
// supplemented `-dot` requirement): one node per QueryView labelled with
// its kind and id, and, for each column of each input view, one edge from
// producer to consumer labelled with that column's id.
func DOT(graphs []*queryir.Graph) string {
	var b strings.Builder
	b.WriteString("digraph program {\n")
	b.WriteString("  rankdir=LR;\n")
	for gi, g := range graphs {
		for _, v := range g.Views {
			nodeID := dotNodeID(gi, v)
			fmt.Fprintf(&b, "  %s [label=%q];\n", nodeID, fmt.Sprintf("%s#%d", viewKind(v), v.ID()))
			for _, in := range v.Inputs() {
				if in == nil {
					continue
				}
				for _, col := range in.Columns() {
					fmt.Fprintf(&b, "  %s -> %s [label=%q];\n", dotNodeID(gi, in), nodeID, fmt.Sprintf("c%d", col.ID))
				}
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func dotNodeID(graphIndex int, v queryir.QueryView) string {
	return fmt.Sprintf("g%d_v%d", graphIndex, v.ID())
}
