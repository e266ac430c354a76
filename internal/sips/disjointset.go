package sips

import "github.com/roach88/drlc/internal/ast"

// disjointSet tracks equivalence classes of clause-local variables linked
// by `X = Y` equalities: once two variables are unioned, binding either one
// binds both for the rest of the permutation. Clause-local; never escapes
// the generator.
type disjointSet struct {
	parent map[ast.VarID]ast.VarID
	rank   map[ast.VarID]int
}

func newDisjointSet() *disjointSet {
	return &disjointSet{parent: map[ast.VarID]ast.VarID{}, rank: map[ast.VarID]int{}}
}

func (s *disjointSet) find(v ast.VarID) ast.VarID {
	p, ok := s.parent[v]
	if !ok {
		s.parent[v] = v
		return v
	}
	if p == v {
		return v
	}
	root := s.find(p)
	s.parent[v] = root // path compression
	return root
}

func (s *disjointSet) union(a, b ast.VarID) {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return
	}
	if s.rank[ra] < s.rank[rb] {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
	if s.rank[ra] == s.rank[rb] {
		s.rank[ra]++
	}
}

func (s *disjointSet) connected(a, b ast.VarID) bool {
	return s.find(a) == s.find(b)
}
