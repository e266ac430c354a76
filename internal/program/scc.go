package program

import "github.com/roach88/drlc/internal/ast"

// depGraph is the relation dependency graph used to find recursive strata
// needing an InductionRegion: an edge Head -> Body exists for every
// positive body atom (a negative dependency can never sit in a cycle,
// internal/sema's stratification check already rejects that). Mirrors
// internal/sema/graph.go's depGraph, itself grounded on the teacher's
// internal/compiler/cycle.go Tarjan implementation; kept as its own copy
// here rather than exported from internal/sema because the two packages
// ask different questions of the same shape of graph (stratification
// legality vs. induction scheduling) and neither phase should reach into
// the other's internals for it.
type depGraph struct {
	edges map[*ast.Decl][]*ast.Decl
	nodes map[*ast.Decl]bool
}

func buildDepGraph(clauses []*ast.Clause) *depGraph {
	g := &depGraph{edges: map[*ast.Decl][]*ast.Decl{}, nodes: map[*ast.Decl]bool{}}
	add := func(d *ast.Decl) {
		if d != nil {
			g.nodes[d] = true
		}
	}
	for _, cl := range clauses {
		add(cl.Head)
		for _, use := range cl.Body.Positive {
			add(use.Decl)
			if cl.Head != nil && use.Decl != nil {
				g.edges[cl.Head] = append(g.edges[cl.Head], use.Decl)
			}
		}
		for _, agg := range cl.Body.Aggregates {
			add(agg.Over.Decl)
			if cl.Head != nil && agg.Over.Decl != nil {
				g.edges[cl.Head] = append(g.edges[cl.Head], agg.Over.Decl)
			}
		}
	}
	return g
}

// tarjanSCC returns every strongly connected component, each as the set of
// declarations it contains.
func (g *depGraph) tarjanSCC() []map[*ast.Decl]bool {
	var (
		index   = 0
		stack   []*ast.Decl
		indices = map[*ast.Decl]int{}
		lowlink = map[*ast.Decl]int{}
		onStack = map[*ast.Decl]bool{}
		sccs    []map[*ast.Decl]bool
	)

	var strongConnect func(v *ast.Decl)
	strongConnect = func(v *ast.Decl) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			scc := map[*ast.Decl]bool{}
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc[w] = true
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	// Iterate nodes in declaration-id order rather than map order, so the
	// SCC discovery order (and therefore induction-region generation
	// order) is deterministic across runs over the same source.
	for _, v := range sortedDecls(g.nodes) {
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}
	return sccs
}

// recursiveSCCs returns only the SCCs that represent genuine recursion: a
// single self-looping declaration, or any component with more than one
// member. A singleton SCC with no self-edge is just an ordinary
// non-recursive dependency and needs no InductionRegion.
func (g *depGraph) recursiveSCCs() [][]*ast.Decl {
	var out [][]*ast.Decl
	for _, scc := range g.tarjanSCC() {
		members := sortedDecls(scc)
		recursive := len(members) > 1
		if len(members) == 1 {
			for _, w := range g.edges[members[0]] {
				if w == members[0] {
					recursive = true
					break
				}
			}
		}
		if recursive {
			out = append(out, members)
		}
	}
	return out
}

func sortedDecls(set map[*ast.Decl]bool) []*ast.Decl {
	out := make([]*ast.Decl, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
