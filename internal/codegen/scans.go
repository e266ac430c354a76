package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/token"
)

// bindKeyFields emits `<var> := <key>.<Field>` for each column of table, in
// table-column order, reading from a key struct value named keyExpr.
func (c *emitCtx) bindKeyFields(g *jen.Group, table *program.DataTable, out []*program.DataVariable, keyExpr *jen.Statement) {
	for i, col := range table.Columns {
		if i >= len(out) || out[i] == nil {
			continue
		}
		g.Id(localVarName(out[i])).Op(":=").Add(keyExpr.Clone()).Dot(columnFieldName(c.pool, col))
	}
}

func keyFromBound(pool *token.Pool, table *program.DataTable, bound []*program.DataVariable) *jen.Statement {
	dict := jen.Dict{}
	for i, col := range table.Columns {
		if i < len(bound) && bound[i] != nil {
			dict[jen.Id(columnFieldName(pool, col))] = jen.Id(localVarName(bound[i]))
		}
	}
	return jen.Id(tableTypeName(pool, table)).Values(dict)
}

// indexKeyValue builds the composite literal for idx's own key struct from
// the DataVariables already bound for table's full tuple (Bound is ordered
// to match idx.KeyColumns positionally, the contract bestIndex/indexFor
// establish in internal/program/tables.go).
func (c *emitCtx) indexKeyValue(table *program.DataTable, idx *program.DataIndex, bound []*program.DataVariable) *jen.Statement {
	dict := jen.Dict{}
	for i, pos := range idx.KeyColumns {
		if i >= len(bound) || bound[i] == nil {
			continue
		}
		col := table.Columns[pos]
		dict[jen.Id(columnFieldName(c.pool, col))] = jen.Id(localVarName(bound[i]))
	}
	return jen.Id(indexTypeName(c.pool, idx)).Values(dict)
}

// emitScanLoop is the shared shape behind TableScanRegion, TableJoinRegion
// and TableProductRegion: a direct Get through the covering index when the
// whole tuple is already bound, a ScanIndex loop when idx is a partial
// index with bound supplying its key, or a full Table.Scan loop otherwise.
// body runs once per matching row with out already bound to that row's
// full column tuple.
func (c *emitCtx) emitScanLoop(g *jen.Group, table *program.DataTable, idx *program.DataIndex, bound []*program.DataVariable, out []*program.DataVariable, body func(g *jen.Group)) {
	tableVar := tableVarName(c.pool, table)

	if idx != nil && idx.Covering && len(bound) == len(table.Columns) {
		key := keyFromBound(c.pool, table, bound)
		okVar, stVar, valVar := "_ok", "_st", "_"
		g.If(
			jen.List(jen.Id(valVar), jen.Id(stVar), jen.Id(okVar)).Op(":=").Id(tableVar).Dot("Get").Call(key),
			jen.Id(okVar).Op("&&").Id(stVar).Op("==").Qual(runtimePkg, "Present"),
		).BlockFunc(func(ig *jen.Group) {
			c.bindKeyFields(ig, table, out, key)
			body(ig)
		})
		return
	}

	if idx == nil || len(bound) == 0 {
		rowVar := "row_" + tableVar
		rowsVar, releaseVar := "rows_"+tableVar, "release_"+tableVar
		g.List(jen.Id(rowsVar), jen.Id(releaseVar)).Op(":=").Id(tableVar).Dot("Scan").Call()
		g.For(jen.List(jen.Id("_"), jen.Id(rowVar)).Op(":=").Range().Id(rowsVar)).BlockFunc(func(ig *jen.Group) {
			c.bindKeyFields(ig, table, out, jen.Id(rowVar).Dot("Key"))
			body(ig)
		})
		g.Id(releaseVar).Call()
		return
	}

	ik := c.indexKeyValue(table, idx, bound)
	entryVar := "e_" + indexVarName(c.pool, idx)
	g.For(jen.List(jen.Id("_"), jen.Id(entryVar)).Op(":=").Range().Qual(runtimePkg, "ScanIndex").Call(
		jen.Id(tableVar), jen.Id(indexVarName(c.pool, idx)), ik,
	)).BlockFunc(func(ig *jen.Group) {
		c.bindKeyFields(ig, table, out, jen.Id(entryVar).Dot("Key"))
		body(ig)
	})
}

func (c *emitCtx) emitTableScan(g *jen.Group, t *program.TableScanRegion) {
	c.emitScanLoop(g, t.Table, t.Index, t.Bound, t.Out, func(ig *jen.Group) {
		c.emit(ig, t.Body)
	})
}

// emitTableJoin lowers a binary TableJoinRegion to a nested-loop join: scan
// the left table freely, then for each left row derive the right table's
// bound columns from the shared pivot DataVariables and scan the right
// table through its index.
func (c *emitCtx) emitTableJoin(g *jen.Group, t *program.TableJoinRegion) {
	if len(t.Tables) != 2 || len(t.Out) != 2 {
		// internal/queryir's Builder only constructs binary QueryJoins (and
		// thus TableJoinRegions); anything else reaching here is a builder bug, not
		// something codegen should silently paper over.
		return
	}
	c.emitScanLoop(g, t.Tables[0], nil, nil, t.Out[0], func(ig *jen.Group) {
		rightBound := make([]*program.DataVariable, len(t.Tables[1].Columns))
		for i, pos := range t.PivotCols[1] {
			if i < len(t.PivotCols[0]) {
				leftPos := t.PivotCols[0][i]
				if leftPos < len(t.Out[0]) && pos < len(rightBound) {
					rightBound[pos] = t.Out[0][leftPos]
				}
			}
		}
		c.emitScanLoop(ig, t.Tables[1], t.Indexes[1], rightBound, t.Out[1], func(ig2 *jen.Group) {
			c.emit(ig2, t.Body)
		})
	})
}

func (c *emitCtx) emitTableProduct(g *jen.Group, t *program.TableProductRegion) {
	var chain func(ig *jen.Group, i int)
	chain = func(ig *jen.Group, i int) {
		if i >= len(t.Tables) {
			c.emit(ig, t.Body)
			return
		}
		var out []*program.DataVariable
		if i < len(t.Out) {
			out = t.Out[i]
		}
		c.emitScanLoop(ig, t.Tables[i], nil, nil, out, func(ig2 *jen.Group) {
			chain(ig2, i+1)
		})
	}
	chain(g, 0)
}

func (c *emitCtx) emitTransition(g *jen.Group, t *program.TransitionStateRegion) {
	key := keyFromBound(c.pool, t.Table, t.Columns)
	g.If(jen.Qual(runtimePkg, "Transition").Index(
		jen.Id(tableTypeName(c.pool, t.Table)), jen.Struct(),
	).Call(
		jen.Id("batch"), jen.Id(tableVarName(c.pool, t.Table)), key,
		stateExpr(t.From), stateExpr(t.To), jen.Struct().Values(),
	)).BlockFunc(func(ig *jen.Group) {
		for _, idx := range t.Table.Indexes {
			if idx.Covering {
				continue
			}
			ik := c.indexKeyValue(t.Table, idx, t.Columns)
			method := "Add"
			if t.To == program.Unknown || t.To == program.Absent {
				method = "Remove"
			}
			ig.Id(indexVarName(c.pool, idx)).Dot(method).Call(ik, key)
		}
		c.emit(ig, t.Body)
	})
}

func (c *emitCtx) emitCheckState(g *jen.Group, t *program.CheckStateRegion) {
	key := keyFromBound(c.pool, t.Table, t.Columns)
	g.If(jen.Id(tableVarName(c.pool, t.Table)).Dot("GetState").Call(key).Op("==").Add(stateExpr(t.State))).BlockFunc(func(ig *jen.Group) {
		c.emit(ig, t.Body)
	})
}

func stateExpr(s program.TupleState) *jen.Statement {
	switch s {
	case program.Present:
		return jen.Qual(runtimePkg, "Present")
	case program.Unknown:
		return jen.Qual(runtimePkg, "Unknown")
	default:
		return jen.Qual(runtimePkg, "Absent")
	}
}
