package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/token"
)

const runtimePkg = "github.com/roach88/drlc/internal/runtime"

// SchemaFile emits one key struct per DataTable (all its declared columns,
// spec.md §3: "create a DataTable whose key columns are all its declared
// columns"), one key struct per non-covering DataIndex, and the package-
// level Storage wiring that registers every table and constructs every
// index at startup.
func SchemaFile(pkg string, pool *token.Pool, prog *program.Program) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by drlc/internal/codegen. DO NOT EDIT.")

	for _, t := range prog.Tables {
		emitTableKey(f, pool, t)
		for _, idx := range t.Indexes {
			if !idx.Covering {
				emitIndexKey(f, pool, idx)
			}
		}
	}

	emitStorageWiring(f, pool, prog)

	return f
}

func emitTableKey(f *jen.File, pool *token.Pool, t *program.DataTable) {
	name := tableTypeName(pool, t)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, col := range t.Columns {
			g.Id(columnFieldName(pool, col)).Add(goType(pool, col.Type))
		}
	})
}

func emitIndexKey(f *jen.File, pool *token.Pool, idx *program.DataIndex) {
	name := indexTypeName(pool, idx)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, pos := range idx.KeyColumns {
			col := idx.Table.Columns[pos]
			g.Id(columnFieldName(pool, col)).Add(goType(pool, col.Type))
		}
	})
}

// emitStorageWiring declares one package-level *runtime.Table[K, struct{}]
// variable per DataTable and one *runtime.Index[IK, PK] per non-covering
// DataIndex, plus a NewSchema constructor that registers every table
// against a fresh runtime.Storage (spec.md §5: "Storage is the sole owner
// of tables/indexes", so registration happens once, at startup).
func emitStorageWiring(f *jen.File, pool *token.Pool, prog *program.Program) {
	f.Func().Id("NewSchema").Params(jen.Id("storage").Op("*").Qual(runtimePkg, "Storage")).Params().BlockFunc(func(g *jen.Group) {
		for _, t := range prog.Tables {
			tableVar := tableVarName(pool, t)
			keyType := jen.Id(tableTypeName(pool, t))
			g.Id(tableVar).Op("=").Qual(runtimePkg, "RegisterTable").Index(
				keyType, jen.Struct(),
			).Call(
				jen.Id("storage"),
				jen.Lit(pool.String(t.Decl.Name)),
				jen.Qual(runtimePkg, "NewTable").Index(keyType, jen.Struct()).Call(
					jen.Lit(pool.String(t.Decl.Name)),
					jen.Id("storage").Dot("Logger").Call(),
				),
			)
			for _, idx := range t.Indexes {
				if idx.Covering {
					continue
				}
				g.Id(indexVarName(pool, idx)).Op("=").Qual(runtimePkg, "NewIndex").
					Index(jen.Id(indexTypeName(pool, idx)), keyType).
					Call(jen.Lit(pool.String(t.Decl.Name)))
			}
		}
	})

	f.Var().DefsFunc(func(g *jen.Group) {
		for _, t := range prog.Tables {
			keyType := jen.Id(tableTypeName(pool, t))
			g.Id(tableVarName(pool, t)).Op("*").Qual(runtimePkg, "Table").Index(keyType, jen.Struct())
			for _, idx := range t.Indexes {
				if idx.Covering {
					continue
				}
				g.Id(indexVarName(pool, idx)).Op("*").Qual(runtimePkg, "Index").
					Index(jen.Id(indexTypeName(pool, idx)), keyType)
			}
		}
	})
}
