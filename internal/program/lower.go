package program

import (
	"fmt"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/queryir"
	"github.com/roach88/drlc/internal/token"
)

// lowerCtx lowers one clause's queryir.Graph into a ProgramRegion tree,
// allocating one DataVariable per QueryColumn the first time it's touched.
//
// Negation and aggregation have no dedicated ProgramRegion variant (spec.md
// §3 lists Generate for "functor call" but no separate Aggregate kind, and
// no Negate/Merge kind at all): a QueryNegate lowers to a CheckStateRegion
// testing Absent on its Source table, and a QueryAggregate lowers to a
// GenerateRegion invoking its reducer functor, the same region kind a plain
// QueryMap uses. A QueryMerge is never constructed by internal/queryir in
// the first place (see merge.go's HeadGroup doc comment), so there is
// nothing to lower for it; a QueryKVIndex likewise is never constructed by
// the current data-flow builder (mutable-merge storage is the open
// question SPEC_FULL.md §5 leaves as a TODO), so it has no lowering here
// either.
type lowerCtx struct {
	prog     *Program
	tables   map[*ast.DeclClass]*DataTable
	vars     map[*queryir.QueryColumn]*DataVariable
	condVars map[*queryir.QueryCondition]*DataVariable

	// seedClass/seedVars drive the induction cascade's semi-naive "delta
	// rule" (build.go's buildCascades): when set, a QuerySelect scanning
	// seedClass is lowered by binding its output columns directly to
	// seedVars instead of emitting a TableScanRegion, so the rest of the
	// clause is proved against one already-known tuple rather than the
	// whole table. Every other QuerySelect in the same graph still lowers
	// to a normal TableScanRegion against current table contents. A binary
	// join of two direct QuerySelects goes to lowerDirectJoin, which scans
	// both full tables and does not apply the seed.
	seedClass *ast.DeclClass
	seedVars  []*DataVariable
}

func newLowerCtx(prog *Program, tables map[*ast.DeclClass]*DataTable) *lowerCtx {
	return &lowerCtx{
		prog:     prog,
		tables:   tables,
		vars:     map[*queryir.QueryColumn]*DataVariable{},
		condVars: map[*queryir.QueryCondition]*DataVariable{},
	}
}

// condVarFor returns the DataVariable (Role == RoleConditionRefCount)
// standing for cond's runtime ConditionRefCount, allocating one the first
// time cond is seen.
func (c *lowerCtx) condVarFor(cond *queryir.QueryCondition) *DataVariable {
	if cond == nil {
		return nil
	}
	if v, ok := c.condVars[cond]; ok {
		return v
	}
	id := c.prog.allocID()
	v := &DataVariable{ID: id, Name: fmt.Sprintf("cond%d", id), Type: ast.Type{Kind: token.KwBool}, Role: RoleConditionRefCount}
	c.condVars[cond] = v
	return v
}

// wrapGuards wraps body in an ExistenceCheckRegion per positive guard on
// view (spec.md §4.6: a guarded view's region only runs while its
// condition is provable). Negative guards have no corresponding region
// variant yet (ExistenceCheckRegion only expresses "run while nonzero");
// internal/queryir's builder doesn't attach any guards yet either (see
// DESIGN.md), so this is currently a no-op in practice but keeps the
// lowering pass correct for when condition attachment lands.
func (c *lowerCtx) wrapGuards(view queryir.QueryView, body ProgramRegion) ProgramRegion {
	for _, g := range view.Guards() {
		if g.Negative {
			continue
		}
		body = &ExistenceCheckRegion{Cond: c.condVarFor(g.Cond), Body: body}
	}
	return body
}

func (c *lowerCtx) varFor(col *queryir.QueryColumn) *DataVariable {
	if col == nil {
		return nil
	}
	if v, ok := c.vars[col]; ok {
		return v
	}
	id := c.prog.allocID()
	v := &DataVariable{ID: id, Name: fmt.Sprintf("v%d", id), Type: col.Type, Role: RoleFree}
	c.vars[col] = v
	return v
}

func (c *lowerCtx) varsFor(cols []*queryir.QueryColumn) []*DataVariable {
	out := make([]*DataVariable, 0, len(cols))
	for _, col := range cols {
		out = append(out, c.varFor(col))
	}
	return out
}

func (c *lowerCtx) tableFor(decl *ast.Decl) *DataTable {
	if decl == nil || decl.Class() == nil {
		return nil
	}
	return c.tables[decl.Class()]
}

// bestIndex picks the most specific index on table whose key is a subset of
// bound (every select/join/negate access pattern was already registered by
// BuildTables, so this only ever chooses among existing indexes).
func bestIndex(table *DataTable, bound []*queryir.QueryColumn, boundPositions []int) *DataIndex {
	if table == nil {
		return nil
	}
	boundSet := map[int]bool{}
	for _, p := range boundPositions {
		boundSet[p] = true
	}
	var best *DataIndex
	for _, idx := range table.Indexes {
		ok := true
		for _, k := range idx.KeyColumns {
			if !boundSet[k] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if best == nil || len(idx.KeyColumns) > len(best.KeyColumns) {
			best = idx
		}
	}
	return best
}

// lower builds the region that evaluates view and then runs tail, the
// continuation that consumes view's output columns (now bound to
// DataVariables reachable through c.vars), wrapped in an
// ExistenceCheckRegion per positive condition guard attached to view.
func (c *lowerCtx) lower(view queryir.QueryView, tail func() ProgramRegion) ProgramRegion {
	return c.wrapGuards(view, c.lowerUnguarded(view, tail))
}

func (c *lowerCtx) lowerUnguarded(view queryir.QueryView, tail func() ProgramRegion) ProgramRegion {
	switch t := view.(type) {
	case *queryir.QuerySelect:
		if c.seedClass != nil && t.Source.Class() == c.seedClass {
			return c.lowerSeededSelect(t, tail)
		}
		table := c.tableFor(t.Source)
		boundVars := c.varsFor(t.Bound)
		boundPos := positionsOf(t, t.Bound)
		idx := bestIndex(table, t.Bound, boundPos)
		outVars := c.varsFor(t.Out)
		return &TableScanRegion{Table: table, Index: idx, Bound: boundVars, Out: outVars, Body: tail()}

	case *queryir.QueryTuple:
		return c.lower(t.Input, func() ProgramRegion {
			for _, p := range t.Project {
				c.varFor(p)
			}
			if len(t.Constants) == 0 {
				return tail()
			}
			constStart := len(t.Project)
			vars := make([]*DataVariable, 0, len(t.Constants))
			for i := range t.Constants {
				out := t.Out[constStart+i]
				v := c.varFor(out)
				v.Role = RoleLocal
				v.Const = &t.Constants[i]
				vars = append(vars, v)
			}
			return &LetBindingRegion{Vars: vars, Body: tail()}
		})

	case *queryir.QueryCompare:
		return c.lower(t.Input, func() ProgramRegion {
			return &TupleCompareRegion{Op: t.Op, LHS: c.varFor(t.LHS), RHS: c.varFor(t.RHS), Body: tail()}
		})

	case *queryir.QueryJoin:
		return c.lowerJoin(t, tail)

	case *queryir.QueryMap:
		return c.lower(t.Input, func() ProgramRegion {
			return &GenerateRegion{
				Functor: t.Functor,
				Inputs:  c.varsFor(t.CopiedCols),
				Outputs: c.varsFor(t.MappedCols),
				Negated: t.Negated,
				Body:    tail(),
			}
		})

	case *queryir.QueryAggregate:
		return c.lower(t.Input, func() ProgramRegion {
			inputs := append(c.varsFor(t.GroupCols), c.varsFor(t.ConfigCols)...)
			return &GenerateRegion{
				Functor: t.Functor,
				Inputs:  inputs,
				Outputs: c.varsFor(t.SummaryCols),
				Body:    tail(),
			}
		})

	case *queryir.QueryNegate:
		return c.lower(t.Input, func() ProgramRegion {
			sourceTable := c.tableFor(underlyingDecl(t.Source))
			return &CheckStateRegion{
				Table:   sourceTable,
				State:   Absent,
				Columns: c.varsFor(t.NegatedCols),
				Body:    tail(),
			}
		})

	case *queryir.QueryInsert:
		return c.lowerInsert(t, tail)

	default:
		// QueryMerge and QueryKVIndex are never constructed by the current
		// data-flow builder; see the package doc comment above.
		return tail()
	}
}

// lowerSeededSelect binds t's output columns directly to c.seedVars instead
// of scanning t's table. t.Bound's columns are pointer-aliases into t.Out
// (see views.go's QuerySelect doc comment), so a Bound column already
// carries a DataVariable exactly when some earlier atom in the clause
// bound it first (a join pivot or a repeated occurrence of the seeded
// relation): in that case the earlier value must still equal this seed's
// value for the row to be a valid match, checked with a TupleCompareRegion
// rather than silently rebinding it.
func (c *lowerCtx) lowerSeededSelect(t *queryir.QuerySelect, tail func() ProgramRegion) ProgramRegion {
	type pending struct{ existing, seed *DataVariable }
	var checks []pending
	for i, col := range t.Out {
		if i >= len(c.seedVars) {
			break
		}
		if existing, ok := c.vars[col]; ok {
			checks = append(checks, pending{existing, c.seedVars[i]})
		} else {
			c.vars[col] = c.seedVars[i]
		}
	}
	region := tail()
	for i := len(checks) - 1; i >= 0; i-- {
		region = &TupleCompareRegion{Op: ast.CmpEqual, LHS: checks[i].existing, RHS: checks[i].seed, Body: region}
	}
	return region
}

func underlyingDecl(v queryir.QueryView) *ast.Decl {
	if sel, ok := v.(*queryir.QuerySelect); ok {
		return sel.Source
	}
	if sel := underlyingSelect(v); sel != nil {
		return sel.Source
	}
	return nil
}

// lowerJoin lowers a (always binary, per internal/queryir's builder)
// QueryJoin. When both inputs are themselves direct table scans it emits a
// single TableJoinRegion exercising that region kind; otherwise it falls
// back to lowering the left input, then the right, chained as nested
// regions (a correct nested-loop join, just not expressed as one
// TableJoinRegion node).
func (c *lowerCtx) lowerJoin(j *queryir.QueryJoin, tail func() ProgramRegion) ProgramRegion {
	// Pivot columns correspond positionally across inputs: Pivots[0][k] and
	// Pivots[1][k] name the same clause variable (internal/queryir's
	// builder always constructs joins with exactly two inputs, appending
	// paired left/right pivot columns in lockstep; see builder.go's
	// ExitSelection). Binding the right input's pivot column to the left's
	// already-allocated DataVariable is what expresses the join condition.
	if len(j.Inputs_) == 2 && len(j.Pivots) == 2 {
		for k, left := range j.Pivots[0] {
			if k < len(j.Pivots[1]) {
				c.vars[j.Pivots[1][k]] = c.varFor(left)
			}
		}
	}

	if len(j.Inputs_) == 2 {
		if l, lok := j.Inputs_[0].(*queryir.QuerySelect); lok {
			if r, rok := j.Inputs_[1].(*queryir.QuerySelect); rok {
				return c.lowerDirectJoin(j, l, r, tail)
			}
		}
	}

	return c.lower(j.Inputs_[0], func() ProgramRegion {
		rest := j.Inputs_[1:]
		var chain func(i int) ProgramRegion
		chain = func(i int) ProgramRegion {
			if i >= len(rest) {
				return tail()
			}
			return c.lower(rest[i], func() ProgramRegion { return chain(i + 1) })
		}
		return chain(0)
	})
}

func (c *lowerCtx) lowerDirectJoin(j *queryir.QueryJoin, l, r *queryir.QuerySelect, tail func() ProgramRegion) ProgramRegion {
	lTable := c.tableFor(l.Source)
	rTable := c.tableFor(r.Source)
	lPos := positionsOf(l, j.Pivots[0])
	rPos := positionsOf(r, j.Pivots[1])
	lOut := c.varsFor(l.Out)
	rOut := c.varsFor(r.Out)
	return &TableJoinRegion{
		Tables:    []*DataTable{lTable, rTable},
		Indexes:   []*DataIndex{bestIndex(lTable, j.Pivots[0], lPos), bestIndex(rTable, j.Pivots[1], rPos)},
		PivotCols: [][]int{lPos, rPos},
		Out:       [][]*DataVariable{lOut, rOut},
		Body:      tail(),
	}
}

// lowerInsert lowers a QueryInsert sink: a TransitionStateRegion moving the
// sink table's tuple Absent->Present (or, for a retraction,
// Present->Unknown), running Body only if the transition actually fired
// (spec.md §3), followed by a PublishRegion when the sink is a #message
// declaration (a clause whose head re-derives a message republishes it).
func (c *lowerCtx) lowerInsert(ins *queryir.QueryInsert, tail func() ProgramRegion) ProgramRegion {
	return c.lower(ins.Input, func() ProgramRegion {
		table := c.tableFor(ins.Sink)
		cols := c.varsFor(ins.Input.Columns())
		from, to := Absent, Present
		if ins.IsRetract {
			from, to = Present, Unknown
		}
		body := tail()
		if ins.Sink != nil && ins.Sink.Kind == ast.DeclMessage {
			body = &SeriesRegion{Steps: []ProgramRegion{&PublishRegion{Message: ins.Sink, Values: cols}, body}}
		}
		return &TransitionStateRegion{Table: table, From: from, To: to, Columns: cols, Body: body}
	})
}
