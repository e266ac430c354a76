package ast

import "github.com/roach88/drlc/internal/token"

// VarID is a clause-local variable identity: every syntactic occurrence of
// the same name within one clause maps to the same VarID.
type VarID uint32

// Variable is one clause-local variable. RangeRestricted is computed by
// internal/sema and cached here for downstream phases (SIPS, queryir).
type Variable struct {
	ID              VarID
	Name            token.Symbol // "_" for anonymous variables, each with a fresh VarID
	Type            Type
	Pos             token.DisplayPosition
	RangeRestricted bool
}

// CompareOp is a comparison or ordering operator.
type CompareOp uint8

const (
	CmpEqual CompareOp = iota
	CmpNotEqual
	CmpLess
	CmpGreater
	CmpLessEqual
	CmpGreaterEqual
)

func (op CompareOp) String() string {
	switch op {
	case CmpEqual:
		return "="
	case CmpNotEqual:
		return "!="
	case CmpLess:
		return "<"
	case CmpGreater:
		return ">"
	case CmpLessEqual:
		return "<="
	case CmpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Term is either a clause-local variable or a literal constant; exactly one
// of Var/IsConst is meaningful, mirroring the sealed-variant pattern used
// throughout this compiler (see queryir.QueryView) but kept as a plain
// struct here since there are only two cases and both carry a Type.
type Term struct {
	IsConst  bool
	Var      VarID
	ConstVal int64        // for integer/bool constants
	ConstStr token.Symbol // for string/uuid/bytes constants (interned spelling)
	Type     Type
}

// PredicateUse is one application of a declaration to argument terms,
// either as a positive or a negated body atom.
type PredicateUse struct {
	Decl *Decl
	Args []Term
	Pos  token.DisplayPosition
}

// Comparison is a `Var op Term` body atom.
type Comparison struct {
	Op   CompareOp
	LHS  Term
	RHS  Term
	Pos  token.DisplayPosition
}

// Assignment binds a variable to a constant directly (`Var = 5`), as
// distinct from a Comparison because it always succeeds and always range-
// restricts its variable.
type Assignment struct {
	Var Term
	Val Term
	Pos token.DisplayPosition
}

// AggregateUse lowers to a queryir.QueryAggregate: a functor invoked over
// the tuples of Over, partitioning columns into group/config/aggregate/
// summary roles per each parameter's Binding.
type AggregateUse struct {
	Functor *Decl
	Over    PredicateUse
	Pos     token.DisplayPosition
}

// ClauseBody holds every kind of body element a clause may contain.
type ClauseBody struct {
	Positive    []PredicateUse
	Negated     []PredicateUse
	Comparisons []Comparison
	Assignments []Assignment
	Aggregates  []AggregateUse
}

// Predicates returns positive and negated uses together, useful for
// dependency-graph construction (internal/sema stratification).
func (b *ClauseBody) Predicates() []PredicateUse {
	out := make([]PredicateUse, 0, len(b.Positive)+len(b.Negated))
	out = append(out, b.Positive...)
	out = append(out, b.Negated...)
	return out
}

// Clause is a Horn rule: a head declaration, its ordered parameter
// variables, and a body. Negated clauses (spec.md's "negated heads") are
// represented the same way; whether the head is asserted or retracted is
// determined by how the clause's view feeds the head relation, decided in
// internal/queryir.
type Clause struct {
	Head     *Decl
	HeadVars []VarID
	Body     ClauseBody
	Vars     map[VarID]*Variable // clause-local variable table, including anonymous ones
	Pos      token.DisplayPosition
}

// Variable looks up a clause-local variable by id.
func (c *Clause) Variable(id VarID) *Variable { return c.Vars[id] }

// AllVarIDs returns every variable id referenced anywhere in the clause
// (head params, body atom args, comparisons, assignments), each exactly
// once, in ascending VarID order — the order variables were allocated.
func (c *Clause) AllVarIDs() []VarID {
	ids := make([]VarID, 0, len(c.Vars))
	for id := range c.Vars {
		ids = append(ids, id)
	}
	// Simple insertion sort is fine: clause variable counts are small.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
