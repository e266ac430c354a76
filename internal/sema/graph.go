package sema

import "github.com/roach88/drlc/internal/ast"

// edge records one dependency edge's kind, so stratify.go can tell a
// negated dependency from a positive one once both sides are known to sit
// in the same strongly connected component.
type edgeKind uint8

const (
	edgePositive edgeKind = iota
	edgeNegative
)

// depGraph is the predicate dependency graph: an edge Head -> Body exists
// for every declaration Body appears as (positively or negatively) in a
// clause headed by Head, plus an edge to an aggregate's functor and its
// "over" relation. Built once per module and reused by both the
// impure-reachability check and Tarjan's SCC pass.
type depGraph struct {
	nodes map[*ast.Decl]bool
	edges map[*ast.Decl][]depEdge
}

type depEdge struct {
	to   *ast.Decl
	kind edgeKind
}

func buildDepGraph(m *ast.Module) *depGraph {
	g := &depGraph{nodes: map[*ast.Decl]bool{}, edges: map[*ast.Decl][]depEdge{}}
	for _, class := range m.Classes() {
		g.addNode(class.Members[0])
	}

	for _, cl := range m.Clauses {
		head := cl.Head
		g.addNode(head)
		for _, use := range cl.Body.Positive {
			g.addEdge(head, use.Decl, edgePositive)
		}
		for _, use := range cl.Body.Negated {
			g.addEdge(head, use.Decl, edgeNegative)
		}
		for _, agg := range cl.Body.Aggregates {
			g.addEdge(head, agg.Functor, edgePositive)
			g.addEdge(head, agg.Over.Decl, edgePositive)
		}
	}
	return g
}

func (g *depGraph) addNode(d *ast.Decl) {
	if d != nil {
		g.nodes[d] = true
	}
}

func (g *depGraph) addEdge(from, to *ast.Decl, kind edgeKind) {
	if from == nil || to == nil {
		return
	}
	g.addNode(from)
	g.addNode(to)
	g.edges[from] = append(g.edges[from], depEdge{to: to, kind: kind})
}

// tarjanSCC returns every strongly connected component of g, each as the
// set of declarations it contains. Grounded on the teacher's
// internal/compiler/cycle.go Tarjan implementation, adapted from string
// node ids to *ast.Decl pointers.
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

		for _, e := range g.edges[v] {
			w := e.to
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

	for node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// sccOf maps every declaration to the index of its strongly connected
// component, so two declarations' membership can be compared in O(1).
func sccOf(sccs []map[*ast.Decl]bool) map[*ast.Decl]int {
	out := map[*ast.Decl]int{}
	for i, scc := range sccs {
		for d := range scc {
			out[d] = i
		}
	}
	return out
}

// reachesImpureFunctor reports whether d's transitive forward closure
// (including d itself) contains an impure functor invocation. Memoized
// since the same question is asked once per negated body atom and clauses
// commonly share dependencies.
func (g *depGraph) reachesImpureFunctor(d *ast.Decl, memo map[*ast.Decl]bool) bool {
	if v, ok := memo[d]; ok {
		return v
	}
	memo[d] = false // break cycles conservatively during the recursive walk
	if d.Kind == ast.DeclFunctor && d.Purity == ast.Impure {
		memo[d] = true
		return true
	}
	for _, e := range g.edges[d] {
		if g.reachesImpureFunctor(e.to, memo) {
			memo[d] = true
			return true
		}
	}
	return memo[d]
}
