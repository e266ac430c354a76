package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/token"
)

// ProceduresFile emits one Go function per ProgramProcedure, plus the
// package-level Vector row types and instances any region in the program
// refers to (an induction's worklists, and a MessageHandler's added/
// removed vectors alike). Every function takes the generated Storage/
// Batch/Hooks triple as its first three parameters (spec.md §4.7's
// Storage/Batch contract, §6's externally-supplied functor bodies),
// followed by one argument per procedure parameter.
func ProceduresFile(pkg string, pool *token.Pool, prog *program.Program) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by drlc/internal/codegen. DO NOT EDIT.")

	vectors := collectVectors(prog)
	for _, v := range vectors {
		emitVectorRow(f, pool, v)
	}
	if len(vectors) > 0 {
		f.Var().DefsFunc(func(g *jen.Group) {
			for _, v := range vectors {
				g.Id(vectorVarName(v)).Op("=").Qual(runtimePkg, "NewVector").Index(jen.Id(vectorRowTypeName(v))).Call(jen.Lit(v.WorkerID))
			}
		})
	}

	for _, p := range prog.Procedures {
		emitProcedure(f, pool, p)
	}

	return f
}

func collectVectors(prog *program.Program) []*program.DataVector {
	var out []*program.DataVector
	seen := map[*program.DataVector]bool{}
	var walk func(r program.ProgramRegion)
	walk = func(r program.ProgramRegion) {
		switch t := r.(type) {
		case nil:
			return
		case *program.SeriesRegion:
			for _, s := range t.Steps {
				walk(s)
			}
		case *program.ParallelRegion:
			for _, b := range t.Branches {
				walk(b)
			}
		case *program.LetBindingRegion:
			walk(t.Body)
		case *program.ExistenceCheckRegion:
			walk(t.Body)
		case *program.GenerateRegion:
			walk(t.Body)
		case *program.InductionRegion:
			for _, v := range t.Vectors {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
			walk(t.Body)
		case *program.VectorLoopRegion:
			if !seen[t.Vector] {
				seen[t.Vector] = true
				out = append(out, t.Vector)
			}
			walk(t.Body)
		case *program.VectorAppendRegion:
			if !seen[t.Vector] {
				seen[t.Vector] = true
				out = append(out, t.Vector)
			}
		case *program.VectorClearRegion:
			if !seen[t.Vector] {
				seen[t.Vector] = true
				out = append(out, t.Vector)
			}
		case *program.VectorUniqueRegion:
			if !seen[t.Vector] {
				seen[t.Vector] = true
				out = append(out, t.Vector)
			}
		case *program.TransitionStateRegion:
			walk(t.Body)
		case *program.CheckStateRegion:
			walk(t.Body)
		case *program.TableJoinRegion:
			walk(t.Body)
		case *program.TableProductRegion:
			walk(t.Body)
		case *program.TableScanRegion:
			walk(t.Body)
		case *program.TupleCompareRegion:
			walk(t.Body)
		}
	}
	for _, p := range prog.Procedures {
		walk(p.Body)
	}
	return out
}

func vectorRowTypeName(v *program.DataVector) string {
	return goIdentifier(v.Name) + "Row"
}

func vectorVarName(v *program.DataVector) string {
	return goIdentifier(v.Name) + "Vector"
}

func vectorFieldName(i int) string { return fmt.Sprintf("Col%d", i) }

// emitVectorRow emits the element struct type a DataVector's runtime.Vector
// is instantiated over. Columns carries only types (spec.md §4.7 vectors
// are anonymous tuples), so fields are positional.
func emitVectorRow(f *jen.File, pool *token.Pool, v *program.DataVector) {
	f.Type().Id(vectorRowTypeName(v)).StructFunc(func(g *jen.Group) {
		for i, typ := range v.Columns {
			g.Id(vectorFieldName(i)).Add(goType(pool, typ))
		}
	})
}

type emitCtx struct {
	pool      *token.Pool
	condVars  map[*program.DataVariable]bool
	condOrder []*program.DataVariable
	genSeq    int
}

func (c *emitCtx) trackCond(v *program.DataVariable) {
	if v == nil || c.condVars[v] {
		return
	}
	c.condVars[v] = true
	c.condOrder = append(c.condOrder, v)
}

func (c *emitCtx) nextGenVar() string {
	c.genSeq++
	return fmt.Sprintf("gen%d", c.genSeq)
}

func emitProcedure(f *jen.File, pool *token.Pool, p *program.ProgramProcedure) {
	ctx := &emitCtx{pool: pool, condVars: map[*program.DataVariable]bool{}}

	returnsBool := hasValueReturn(p.Body)

	params := make([]jen.Code, 0, len(p.Params)+3)
	params = append(params,
		jen.Id("storage").Op("*").Qual(runtimePkg, "Storage"),
		jen.Id("batch").Op("*").Qual(runtimePkg, "Batch"),
		jen.Id("hooks").Id("Hooks"),
	)
	for _, param := range p.Params {
		params = append(params, jen.Id(localVarName(param)).Add(goType(pool, param.Type)))
	}

	f.Comment(fmt.Sprintf("%s implements the %s procedure.", procFuncName(p), p.Kind.String()))
	fn := f.Func().Id(procFuncName(p)).Params(params...)
	if returnsBool {
		fn = fn.Bool()
	}
	fn.BlockFunc(func(g *jen.Group) {
		ctx.emit(g, p.Body)
		if returnsBool {
			g.Return(jen.False())
		}
	})

	for _, cond := range ctx.condOrder {
		f.Var().Id(condVarName(cond)).Qual(runtimePkg, "ConditionRefCount")
	}
}

// hasValueReturn reports whether body can reach a ReturnRegion carrying a
// value, the signal that the enclosing procedure (a TupleFinder or
// TupleRemover) reports a boolean proof result (spec.md §4.6).
func hasValueReturn(r program.ProgramRegion) bool {
	switch t := r.(type) {
	case nil:
		return false
	case *program.SeriesRegion:
		for _, s := range t.Steps {
			if hasValueReturn(s) {
				return true
			}
		}
	case *program.ParallelRegion:
		for _, b := range t.Branches {
			if hasValueReturn(b) {
				return true
			}
		}
	case *program.LetBindingRegion:
		return hasValueReturn(t.Body)
	case *program.ExistenceCheckRegion:
		return hasValueReturn(t.Body)
	case *program.GenerateRegion:
		return hasValueReturn(t.Body)
	case *program.InductionRegion:
		return hasValueReturn(t.Body)
	case *program.VectorLoopRegion:
		return hasValueReturn(t.Body)
	case *program.TransitionStateRegion:
		return hasValueReturn(t.Body)
	case *program.CheckStateRegion:
		return hasValueReturn(t.Body)
	case *program.TableJoinRegion:
		return hasValueReturn(t.Body)
	case *program.TableProductRegion:
		return hasValueReturn(t.Body)
	case *program.TableScanRegion:
		return hasValueReturn(t.Body)
	case *program.TupleCompareRegion:
		return hasValueReturn(t.Body)
	case *program.ReturnRegion:
		return t.Value != nil
	}
	return false
}

func (c *emitCtx) emit(g *jen.Group, r program.ProgramRegion) {
	switch t := r.(type) {
	case nil:
		return

	case *program.SeriesRegion:
		for _, s := range t.Steps {
			c.emit(g, s)
		}

	case *program.ParallelRegion:
		// No goroutine fan-out is modeled: codegen's structural scope
		// (spec.md §6) only requires that independently-schedulable
		// branches not be serialized with a false data dependency between
		// them, not that they actually run concurrently.
		for _, b := range t.Branches {
			c.emit(g, b)
		}

	case *program.LetBindingRegion:
		for _, v := range t.Vars {
			if v.Const != nil {
				g.Id(localVarName(v)).Op(":=").Add(constLiteral(c.pool, *v.Const))
			} else {
				g.Var().Id(localVarName(v)).Add(goType(c.pool, v.Type))
			}
		}
		c.emit(g, t.Body)

	case *program.CallRegion:
		args := make([]jen.Code, 0, len(t.Args)+3)
		args = append(args, jen.Id("storage"), jen.Id("batch"), jen.Id("hooks"))
		for _, a := range t.Args {
			args = append(args, jen.Id(localVarName(a)))
		}
		g.Id(goIdentifier(t.Callee.Name)).Call(args...)

	case *program.ReturnRegion:
		if t.Value != nil {
			g.Return(jen.Id(localVarName(t.Value)))
		} else {
			g.Return()
		}

	case *program.ExistenceAssertionRegion:
		c.trackCond(t.Cond)
		method := "Increment"
		if t.Negative {
			method = "Decrement"
		}
		g.Id(condVarName(t.Cond)).Dot(method).Call()

	case *program.ExistenceCheckRegion:
		c.trackCond(t.Cond)
		g.If(jen.Id(condVarName(t.Cond)).Dot("Provable").Call()).BlockFunc(func(ig *jen.Group) {
			c.emit(ig, t.Body)
		})

	case *program.GenerateRegion:
		c.emitGenerate(g, t)

	case *program.InductionRegion:
		c.emitInduction(g, t)

	case *program.VectorAppendRegion:
		dict := jen.Dict{}
		for i, v := range t.Values {
			dict[jen.Id(vectorFieldName(i))] = jen.Id(localVarName(v))
		}
		g.Id(vectorVarName(t.Vector)).Dot("Append").Call(jen.Id(vectorRowTypeName(t.Vector)).Values(dict))

	case *program.VectorLoopRegion:
		row := "row_" + vectorVarName(t.Vector)
		g.For(jen.List(jen.Id("_"), jen.Id(row)).Op(":=").Range().Id(vectorVarName(t.Vector)).Dot("All").Call()).BlockFunc(func(ig *jen.Group) {
			for i, b := range t.Binding {
				ig.Id(localVarName(b)).Op(":=").Id(row).Dot(vectorFieldName(i))
			}
			c.emit(ig, t.Body)
		})

	case *program.VectorClearRegion:
		g.Id(vectorVarName(t.Vector)).Dot("Clear").Call()

	case *program.VectorUniqueRegion:
		// runtime.Unique requires its row type be comparable; a vector
		// carrying a #bytes column breaks this at compile time (codegen
		// doesn't check for it).
		g.Qual(runtimePkg, "Unique").Call(jen.Id(vectorVarName(t.Vector)))

	case *program.TransitionStateRegion:
		c.emitTransition(g, t)

	case *program.CheckStateRegion:
		c.emitCheckState(g, t)

	case *program.TableJoinRegion:
		c.emitTableJoin(g, t)

	case *program.TableProductRegion:
		c.emitTableProduct(g, t)

	case *program.TableScanRegion:
		c.emitTableScan(g, t)

	case *program.TupleCompareRegion:
		g.If(compareOp(t.Op, jen.Id(localVarName(t.LHS)), jen.Id(localVarName(t.RHS)))).BlockFunc(func(ig *jen.Group) {
			c.emit(ig, t.Body)
		})

	case *program.PublishRegion:
		args := make([]jen.Code, len(t.Values))
		for i, v := range t.Values {
			args[i] = jen.Id(localVarName(v))
		}
		g.Qual("log/slog", "Info").Call(append([]jen.Code{jen.Lit("publish " + c.pool.String(t.Message.Name))}, args...)...)
	}
}

func compareOp(op ast.CompareOp, lhs, rhs jen.Code) *jen.Statement {
	return jen.Add(lhs).Op(compareOpSymbol(op)).Add(rhs)
}

// compareOpSymbol maps ast.CompareOp onto Go's corresponding operator.
func compareOpSymbol(op ast.CompareOp) string {
	switch op {
	case ast.CmpEqual:
		return "=="
	case ast.CmpNotEqual:
		return "!="
	case ast.CmpLess:
		return "<"
	case ast.CmpGreater:
		return ">"
	case ast.CmpLessEqual:
		return "<="
	case ast.CmpGreaterEqual:
		return ">="
	default:
		return "=="
	}
}
