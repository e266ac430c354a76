package program

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/queryir"
)

// BuildProgram schedules a module's per-clause data-flow graphs into a
// control-flow Program (spec.md §4.6): table/index selection, then one
// Initializer, one pair of induction procedures per recursive stratum, one
// TupleFinder and one TupleRemover per relation that heads at least one
// clause (a relation that is only queried or negated, never a clause head,
// gets neither), and one MessageHandler per received message, covering
// every #message declaration regardless of whether it is itself re-derived
// by a clause (spec.md §4.6: "one per received message"; an external input
// relation such as spec.md §8 scenario 1's edge is the common case).
func BuildProgram(mod *ast.Module, graphs []*queryir.Graph) *Program {
	prog := &Program{}
	prog.Tables = BuildTables(graphs)

	tableByClass := map[*ast.DeclClass]*DataTable{}
	for _, t := range prog.Tables {
		tableByClass[t.Decl.Class()] = t
	}

	dep := buildDepGraph(mod.Clauses)
	recursiveSCCs := dep.recursiveSCCs()

	prog.Procedures = append(prog.Procedures, prog.buildInitializer(graphs, tableByClass))

	groups := GroupByHead(graphs)

	// Induction is built before any finder: its worklist vectors and drain
	// procedures only need the graphs and tables, and a finder's successful
	// proof (below) needs a stratum's worklist vector already in hand to
	// enqueue onto.
	worklistByClass := map[*ast.DeclClass]*DataVector{}
	cycleByClass := map[*ast.DeclClass]*ProgramProcedure{}
	for _, scc := range recursiveSCCs {
		cycle, output, vectors := prog.buildInduction(scc, tableByClass, groups)
		prog.Procedures = append(prog.Procedures, cycle, output)
		for i, d := range scc {
			worklistByClass[d.Class()] = vectors[i]
			cycleByClass[d.Class()] = cycle
		}
	}

	finders := map[*ast.DeclClass]*ProgramProcedure{}
	for _, grp := range groups {
		class := grp.Head.Class()
		finder := prog.buildFinder(grp, tableByClass, worklistByClass[class])
		prog.Procedures = append(prog.Procedures, finder)
		finders[class] = finder
	}

	removers := map[*ast.DeclClass]*ProgramProcedure{}
	for _, grp := range groups {
		class := grp.Head.Class()
		finder := finders[class]
		if finder == nil {
			continue
		}
		remover := prog.buildRemover(grp, tableByClass, finder)
		prog.Procedures = append(prog.Procedures, remover)
		removers[class] = remover
	}

	for _, class := range mod.Classes() {
		head := class.Members[0]
		if head.Kind != ast.DeclMessage {
			continue
		}
		handler := prog.buildMessageHandler(head, tableByClass[class], finders[class], removers[class], cycleByClass[class])
		prog.Procedures = append(prog.Procedures, handler)
	}

	return prog
}

// buildInitializer seeds every clause whose graph contains no QuerySelect
// at all: a clause with an empty positive body derives a constant tuple
// unconditionally (spec.md §4.6: "seeds constant-producing views").
func (p *Program) buildInitializer(graphs []*queryir.Graph, tables map[*ast.DeclClass]*DataTable) *ProgramProcedure {
	var steps []ProgramRegion
	for _, g := range graphs {
		if hasSelect(g) {
			continue
		}
		ctx := newLowerCtx(p, tables)
		for _, sink := range g.Sinks {
			steps = append(steps, ctx.lower(sink, func() ProgramRegion { return nil }))
		}
	}
	return &ProgramProcedure{
		ID:   p.allocID(),
		Kind: ProcInitializer,
		Name: "initialize",
		Body: &SeriesRegion{Steps: steps},
	}
}

func hasSelect(g *queryir.Graph) bool {
	for _, v := range g.Views {
		if _, ok := v.(*queryir.QuerySelect); ok {
			return true
		}
	}
	return false
}

// transitionToPresent attempts Absent->Present, then Unknown->Present, both
// running the same Body on success: a row can only ever be in one of those
// two states at a time, so at most one of the pair fires (spec.md §3's
// legal-transition table has no single From that covers "not already
// Present" directly, so this composes the two that do). This is the
// "insert-or-transition" operation a successful proof compiles to, rather
// than a new ProgramRegion kind: both arms are ordinary TransitionStateRegion
// nodes, so codegen needs no new case to emit them.
func transitionToPresent(table *DataTable, cols []*DataVariable, body ProgramRegion) ProgramRegion {
	return &SeriesRegion{Steps: []ProgramRegion{
		&TransitionStateRegion{Table: table, From: Absent, To: Present, Columns: cols, Body: body},
		&TransitionStateRegion{Table: table, From: Unknown, To: Present, Columns: cols, Body: body},
	}}
}

// buildFinder builds the TupleFinder for grp.Head: given the head's bound
// parameters, it checks the table directly (already Present short-circuits)
// and otherwise tries each clause's proof in turn, binding the proof's
// derived tuple to the requested parameters, persisting the tuple and
// returning true on the first attempt that both derives and matches
// (spec.md §4.6). A successful proof also enqueues onto worklist, if this
// relation participates in a recursive stratum, so the stratum's induction
// cycle discovers and cascades the newly-proved tuple.
func (p *Program) buildFinder(grp *HeadGroup, tables map[*ast.DeclClass]*DataTable, worklist *DataVector) *ProgramProcedure {
	table := tables[grp.Head.Class()]
	params := make([]*DataVariable, len(grp.Head.Params))
	for i, param := range grp.Head.Params {
		params[i] = &DataVariable{ID: p.allocID(), Name: paramLabel(i), Type: param.Type, Role: RoleParameter}
	}

	trueVar := &DataVariable{ID: p.allocID(), Name: "ok", Type: ast.Type{}, Role: RoleLocal}

	var attempts []ProgramRegion
	for _, g := range grp.Graphs {
		for _, sink := range g.Sinks {
			ctx := newLowerCtx(p, tables)
			attempts = append(attempts, ctx.lower(sink.Input, func() ProgramRegion {
				derived := ctx.varsFor(sink.Input.Columns())
				return bindEqual(derived, params, func() ProgramRegion {
					var persisted []ProgramRegion
					if worklist != nil {
						persisted = append(persisted, &VectorAppendRegion{Vector: worklist, Values: params})
					}
					persisted = append(persisted, &ReturnRegion{Value: trueVar})
					return transitionToPresent(table, params, &SeriesRegion{Steps: persisted})
				})
			}))
		}
	}

	name := "find_" + declLabel(grp.Head)

	// A tuple already Present needs no fresh proof; otherwise try each
	// clause's plan in turn (spec.md §4.6: TupleFinder is a recursive
	// top-down proof procedure). A row left Unknown after every attempt
	// fails is confirmed unprovable (spec.md §3's Unknown->Absent), so the
	// last step finalizes that: harmless when some earlier attempt already
	// moved the row to Present, since that CAS's From no longer matches.
	steps := []ProgramRegion{}
	if table != nil {
		steps = append(steps, &CheckStateRegion{
			Table:   table,
			State:   Present,
			Columns: params,
			Body:    &ReturnRegion{Value: trueVar},
		})
	}
	steps = append(steps, attempts...)
	if table != nil {
		steps = append(steps, &TransitionStateRegion{Table: table, From: Unknown, To: Absent, Columns: params})
	}

	return &ProgramProcedure{
		ID:     p.allocID(),
		Kind:   ProcTupleFinder,
		Name:   name,
		Target: grp.Head,
		Params: params,
		Body:   &SeriesRegion{Steps: steps},
	}
}

// bindEqual chains a TupleCompareRegion per (derived, requested) pair before
// running inner, so a proof attempt's arbitrarily-bound result columns only
// continue toward persistence when they match the tuple the caller actually
// asked about (spec.md §4.6: TupleFinder proves a specific bound tuple, not
// mere existence of some tuple of the relation).
func bindEqual(derived, requested []*DataVariable, inner func() ProgramRegion) ProgramRegion {
	region := inner()
	for i := len(derived) - 1; i >= 0; i-- {
		if i >= len(requested) {
			continue
		}
		region = &TupleCompareRegion{Op: ast.CmpEqual, LHS: derived[i], RHS: requested[i], Body: region}
	}
	return region
}

// buildRemover builds the TupleRemover for grp.Head: the dual of the finder
// (spec.md §4.6), transitioning Present->Unknown and, only if that CAS
// actually fired, calling the finder to re-verify whether some other proof
// still supports the tuple (moving it back to Present) or whether it is now
// confirmed unprovable (the finder's own trailing Unknown->Absent step).
func (p *Program) buildRemover(grp *HeadGroup, tables map[*ast.DeclClass]*DataTable, finder *ProgramProcedure) *ProgramProcedure {
	table := tables[grp.Head.Class()]
	params := make([]*DataVariable, len(grp.Head.Params))
	for i, param := range grp.Head.Params {
		params[i] = &DataVariable{ID: p.allocID(), Name: paramLabel(i), Type: param.Type, Role: RoleParameter}
	}

	body := &TransitionStateRegion{
		Table:   table,
		From:    Present,
		To:      Unknown,
		Columns: params,
		Body:    &CallRegion{Callee: finder, Args: params},
	}

	return &ProgramProcedure{
		ID:     p.allocID(),
		Kind:   ProcTupleRemover,
		Name:   "remove_" + declLabel(grp.Head),
		Target: grp.Head,
		Params: params,
		Body:   &SeriesRegion{Steps: []ProgramRegion{body}},
	}
}

// buildMessageHandler builds the MessageHandler for a received message:
// receives an added vector (and, if @differential, a removed vector) and
// calls the finder (remover, for removals) for every tuple to propagate the
// change through the rest of the data-flow graph, then drains the relation's
// stratum if it recurses (spec.md §4.6). head need not be a clause head
// itself: the common case is a pure external-input message (spec.md §8's
// edge, start, node), which BuildTables already gives a DataTable and which
// this handler is the sole entry point for.
func (p *Program) buildMessageHandler(head *ast.Decl, table *DataTable, finder, remover, cycle *ProgramProcedure) *ProgramProcedure {
	added := &DataVector{ID: p.allocID(), Name: "added_" + declLabel(head)}
	for _, param := range head.Params {
		added.Columns = append(added.Columns, param.Type)
	}
	binding := make([]*DataVariable, len(head.Params))
	for i, param := range head.Params {
		binding[i] = &DataVariable{ID: p.allocID(), Name: paramLabel(i), Type: param.Type, Role: RoleLocal}
	}

	var insertSteps []ProgramRegion
	insertSteps = append(insertSteps, transitionToPresent(table, binding, callIfPresent(finder, binding)))
	if cycle != nil {
		insertSteps = append(insertSteps, &CallRegion{Callee: cycle})
	}

	body := &VectorLoopRegion{Vector: added, Binding: binding, Body: &SeriesRegion{Steps: insertSteps}}

	steps := []ProgramRegion{body}
	if head.Differential {
		removed := &DataVector{ID: p.allocID(), Name: "removed_" + declLabel(head)}
		removed.Columns = added.Columns
		retractBinding := make([]*DataVariable, len(head.Params))
		for i, param := range head.Params {
			retractBinding[i] = &DataVariable{ID: p.allocID(), Name: paramLabel(i), Type: param.Type, Role: RoleLocal}
		}
		var retractSteps []ProgramRegion
		if remover != nil {
			retractSteps = append(retractSteps, &CallRegion{Callee: remover, Args: retractBinding})
		} else {
			retractSteps = append(retractSteps, &TransitionStateRegion{
				Table: table, From: Present, To: Unknown, Columns: retractBinding,
				Body: callIfPresent(finder, retractBinding),
			})
		}
		if cycle != nil {
			retractSteps = append(retractSteps, &CallRegion{Callee: cycle})
		}
		steps = append(steps, &VectorLoopRegion{Vector: removed, Binding: retractBinding, Body: &SeriesRegion{Steps: retractSteps}})
	}

	return &ProgramProcedure{
		ID:     p.allocID(),
		Kind:   ProcMessageHandler,
		Name:   "handle_" + declLabel(head),
		Target: head,
		Body:   &SeriesRegion{Steps: steps},
	}
}

// callIfPresent calls callee with args when non-nil, otherwise runs nothing:
// a pure external-input message with no defining clause (spec.md §8's edge)
// has no finder to re-run, since the transition itself is the only proof.
func callIfPresent(callee *ProgramProcedure, args []*DataVariable) ProgramRegion {
	if callee == nil {
		return &SeriesRegion{}
	}
	return &CallRegion{Callee: callee, Args: args}
}

// buildInduction builds the cycle and output procedures for one recursive
// stratum: one worklist DataVector per participating relation, drained in
// an InductionRegion until every vector is empty (spec.md §4.6). Each round
// pops every newly-proved tuple off a member's worklist and re-lowers, via a
// seeded pass (see lower.go's seedClass/seedVars), every other clause whose
// body selects that member directly — the semi-naive "delta rule": only the
// new tuple is matched against the rest of each dependent clause's body,
// rather than rescanning the member's whole table. A freshly-derived
// dependent tuple is persisted and appended onto its own worklist in turn,
// so the loop cascades across the whole stratum (and beyond it, to any
// non-recursive dependent) until nothing new is produced.
//
// Limitation: when a relation occurs more than once in one clause's body
// (a self-join), the seeded pass binds every occurrence to the same new
// tuple rather than building one seeded variant per occurrence, so a
// pairing between the new tuple and an existing, different row of the same
// relation at another occurrence is not cascaded incrementally. A full
// global recompute (re-running the initializer and every finder from
// scratch) still converges to the same fixed point; only the incremental
// cascade misses that specific combination in the same round it appears.
// A dependent clause whose graph is a binary join of two direct selects
// (e.g. `tc(X,Z) : edge(X,Y), tc(Y,Z)`) lowers to a TableJoinRegion over
// both full tables, so its seeded pass does not bind the new tuple and
// instead rescans the member's whole table.
// The induction region's name is derived deterministically from the
// stratum's earliest-declared member so repeated compiler runs over the
// same source produce the same name (SPEC_FULL.md's byte-identical-output
// requirement).
func (p *Program) buildInduction(members []*ast.Decl, tables map[*ast.DeclClass]*DataTable, groups []*HeadGroup) (cycle, output *ProgramProcedure, vectors []*DataVector) {
	seed := members[0]
	name := deterministicName("induction", seed.Pos, declLabelAll(members))

	type memberState struct {
		decl     *ast.Decl
		table    *DataTable
		worklist *DataVector
		binding  []*DataVariable
	}

	states := make([]*memberState, len(members))
	for i, d := range members {
		v := &DataVector{ID: p.allocID(), Name: "worklist_" + declLabel(d)}
		binding := make([]*DataVariable, len(d.Params))
		for j, param := range d.Params {
			v.Columns = append(v.Columns, param.Type)
			binding[j] = &DataVariable{ID: p.allocID(), Name: paramLabel(j), Type: param.Type, Role: RoleLocal}
		}
		states[i] = &memberState{decl: d, table: tables[d.Class()], worklist: v, binding: binding}
		vectors = append(vectors, v)
	}

	worklistOf := func(class *ast.DeclClass) *DataVector {
		for _, s := range states {
			if s.decl.Class() == class {
				return s.worklist
			}
		}
		return nil
	}

	var drain []ProgramRegion
	for _, s := range states {
		cascades := p.buildCascades(s.decl, tables, groups, worklistOf, s.binding)
		drain = append(drain,
			&VectorUniqueRegion{Vector: s.worklist},
			&VectorLoopRegion{Vector: s.worklist, Binding: s.binding, Body: &SeriesRegion{Steps: cascades}},
			&VectorClearRegion{Vector: s.worklist},
		)
	}
	body := &InductionRegion{Vectors: vectors, Body: &SeriesRegion{Steps: drain}}

	cycle = &ProgramProcedure{
		ID:   p.allocID(),
		Kind: ProcInductionCycleHandler,
		Name: name,
		Body: body,
	}
	output = &ProgramProcedure{
		ID:   p.allocID(),
		Kind: ProcInductionOutputHandler,
		Name: deterministicName("induction_output", seed.Pos, declLabelAll(members)),
		Body: &SeriesRegion{},
	}
	return cycle, output, vectors
}

// buildCascades returns, for every clause anywhere in the module whose body
// selects source directly, a region that re-proves that clause seeded with
// the worklist tuple bound to seedVars, persisting and enqueuing the result
// when the clause's head tuple is newly derivable.
func (p *Program) buildCascades(
	source *ast.Decl,
	tables map[*ast.DeclClass]*DataTable,
	groups []*HeadGroup,
	worklistOf func(*ast.DeclClass) *DataVector,
	seedVars []*DataVariable,
) []ProgramRegion {
	var cascades []ProgramRegion
	for _, grp := range groups {
		headTable := tables[grp.Head.Class()]
		headWorklist := worklistOf(grp.Head.Class())
		for _, g := range grp.Graphs {
			if !selectsClass(g, source.Class()) {
				continue
			}
			for _, sink := range g.Sinks {
				ctx := newLowerCtx(p, tables)
				ctx.seedClass = source.Class()
				ctx.seedVars = seedVars
				cascades = append(cascades, ctx.lower(sink.Input, func() ProgramRegion {
					headCols := ctx.varsFor(sink.Input.Columns())
					var steps []ProgramRegion
					if headWorklist != nil {
						steps = append(steps, &VectorAppendRegion{Vector: headWorklist, Values: headCols})
					}
					return transitionToPresent(headTable, headCols, &SeriesRegion{Steps: steps})
				}))
			}
		}
	}
	return cascades
}

func selectsClass(g *queryir.Graph, class *ast.DeclClass) bool {
	if class == nil {
		return false
	}
	for _, view := range g.Views {
		if sel, ok := view.(*queryir.QuerySelect); ok && sel.Source.Class() == class {
			return true
		}
	}
	return false
}

func paramLabel(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return "p"
}

func declLabel(d *ast.Decl) string {
	if d == nil {
		return "_"
	}
	return declIDLabel(d.ID)
}

func declLabelAll(decls []*ast.Decl) string {
	s := ""
	for i, d := range decls {
		if i > 0 {
			s += ","
		}
		s += declLabel(d)
	}
	return s
}

func declIDLabel(id ast.DeclID) string {
	if id == 0 {
		return "d0"
	}
	digits := []byte{}
	n := uint32(id)
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "d" + string(digits)
}
