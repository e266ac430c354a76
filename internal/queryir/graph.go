package queryir

import "github.com/roach88/drlc/internal/ast"

// Graph owns monotonic id allocation for views, columns, and conditions
// built for one clause, plus the resulting sink set (every QueryInsert
// reachable in the clause's driven plan).
type Graph struct {
	nextViewID int
	nextColID  int
	nextCondID int

	Views []QueryView
	Sinks []*QueryInsert
}

// NewGraph returns an empty graph ready to accept views from a single
// clause's builder.go driving pass.
func NewGraph() *Graph { return &Graph{} }

func (g *Graph) allocView() int {
	id := g.nextViewID
	g.nextViewID++
	return id
}

// NewColumn allocates a fresh output column attributed to producer.
func (g *Graph) NewColumn(producer QueryView, typ ast.Type) *QueryColumn {
	id := g.nextColID
	g.nextColID++
	return &QueryColumn{ID: id, Producer: producer, Type: typ}
}

// NewCondition allocates a fresh zero-arity boolean guard.
func (g *Graph) NewCondition() *QueryCondition {
	id := g.nextCondID
	g.nextCondID++
	return &QueryCondition{ID: id}
}

func (g *Graph) register(v QueryView) {
	g.Views = append(g.Views, v)
}

// Guard attaches cond to view in positive (negative=false) or negative
// position (spec.md §4.6: "conditions gate arbitrary views").
func (g *Graph) Guard(view QueryView, cond *QueryCondition, negative bool) {
	if b, ok := view.(interface{ AddGuard(ConditionGuard) }); ok {
		b.AddGuard(ConditionGuard{Cond: cond, Negative: negative})
	}
}

// NewSelect adds a QuerySelect scanning source with the given bound columns,
// allocating one fresh output column per canonical parameter.
func (g *Graph) NewSelect(source *ast.Decl, bound []*QueryColumn) *QuerySelect {
	v := &QuerySelect{viewBase: viewBase{id: g.allocView()}, Source: source, Bound: bound}
	for _, typ := range source.CanonicalTypes() {
		v.Out = append(v.Out, g.NewColumn(v, typ))
	}
	g.register(v)
	return v
}

// NewTuple adds a QueryTuple projecting project from input and appending
// constants, allocating fresh output columns for the constants.
func (g *Graph) NewTuple(input QueryView, project []*QueryColumn, constants []ast.Term) *QueryTuple {
	v := &QueryTuple{viewBase: viewBase{id: g.allocView()}, Input: input, Project: project, Constants: constants}
	v.Out = append(v.Out, project...)
	for _, c := range constants {
		v.Out = append(v.Out, g.NewColumn(v, c.Type))
	}
	g.register(v)
	return v
}

// NewJoin adds a QueryJoin over inputs with the given pivot sets, forwarding
// the input columns themselves as output columns: the first input's full
// column set, followed by each later input's columns excluding its pivot
// columns, which are unified with an earlier input's pivot.
func (g *Graph) NewJoin(inputs []QueryView, pivots [][]*QueryColumn) *QueryJoin {
	v := &QueryJoin{viewBase: viewBase{id: g.allocView()}, Inputs_: inputs, Pivots: pivots}
	for i, in := range inputs {
		pivotSet := map[*QueryColumn]bool{}
		for _, p := range pivots[i] {
			pivotSet[p] = true
		}
		for _, col := range in.Columns() {
			if i > 0 && pivotSet[col] {
				continue
			}
			v.Out = append(v.Out, col)
		}
	}
	g.register(v)
	return v
}

// NewCompare adds a QueryCompare filtering input, forwarding passthrough.
func (g *Graph) NewCompare(input QueryView, op ast.CompareOp, lhs, rhs *QueryColumn, passthrough []*QueryColumn) *QueryCompare {
	v := &QueryCompare{viewBase: viewBase{id: g.allocView()}, Input: input, Op: op, LHS: lhs, RHS: rhs, Passthrough: passthrough}
	v.Out = append(v.Out, passthrough...)
	g.register(v)
	return v
}

// NewMap adds a QueryMap invoking functor over input.
func (g *Graph) NewMap(input QueryView, functor *ast.Decl, copied []*QueryColumn, negated bool) *QueryMap {
	v := &QueryMap{viewBase: viewBase{id: g.allocView()}, Input: input, Functor: functor, CopiedCols: copied, Negated: negated}
	v.Out = append(v.Out, copied...)
	for _, p := range functor.Params {
		if p.Binding == ast.BindingFree {
			out := g.NewColumn(v, p.Type)
			v.MappedCols = append(v.MappedCols, out)
			v.Out = append(v.Out, out)
		}
	}
	g.register(v)
	return v
}

// NewAggregate adds a QueryAggregate grouping input by groupCols.
func (g *Graph) NewAggregate(input QueryView, functor *ast.Decl, groupCols, configCols, aggregateCols []*QueryColumn) *QueryAggregate {
	v := &QueryAggregate{
		viewBase: viewBase{id: g.allocView()}, Input: input, Functor: functor,
		GroupCols: groupCols, ConfigCols: configCols, AggregateCols: aggregateCols,
	}
	v.Out = append(v.Out, groupCols...)
	v.Out = append(v.Out, configCols...)
	for _, p := range functor.Params {
		if p.Binding == ast.BindingSummary {
			out := g.NewColumn(v, p.Type)
			v.SummaryCols = append(v.SummaryCols, out)
			v.Out = append(v.Out, out)
		}
	}
	g.register(v)
	return v
}

// NewNegate adds a QueryNegate filtering input against source.
func (g *Graph) NewNegate(input, source QueryView, copied, negated []*QueryColumn) *QueryNegate {
	v := &QueryNegate{viewBase: viewBase{id: g.allocView()}, Input: input, Source: source, CopiedCols: copied, NegatedCols: negated}
	v.Out = append(v.Out, copied...)
	g.register(v)
	return v
}

// NewMerge adds a QueryMerge over inputs, reusing the first input's column
// types for Out (every input must be pairwise type-compatible).
func (g *Graph) NewMerge(inputs []QueryView) *QueryMerge {
	v := &QueryMerge{viewBase: viewBase{id: g.allocView()}, Inputs_: inputs}
	if len(inputs) > 0 {
		for _, col := range inputs[0].Columns() {
			v.Out = append(v.Out, g.NewColumn(v, col.Type))
		}
	}
	g.register(v)
	return v
}

// NewInsert adds a QueryInsert sink and records it in g.Sinks.
func (g *Graph) NewInsert(input QueryView, sink *ast.Decl, isRetract bool) *QueryInsert {
	v := &QueryInsert{viewBase: viewBase{id: g.allocView()}, Input: input, Sink: sink, IsRetract: isRetract}
	g.register(v)
	g.Sinks = append(g.Sinks, v)
	return v
}

// NewKVIndex adds a QueryKVIndex over input keyed by keyCols.
func (g *Graph) NewKVIndex(input QueryView, keyCols, valueCols []*QueryColumn, mergeFunctor *ast.Decl) *QueryKVIndex {
	v := &QueryKVIndex{viewBase: viewBase{id: g.allocView()}, Input: input, KeyCols: keyCols, ValueCols: valueCols, MergeFunctor: mergeFunctor}
	v.Out = append(v.Out, keyCols...)
	v.Out = append(v.Out, valueCols...)
	g.register(v)
	return v
}
