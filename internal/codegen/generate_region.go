package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/program"
)

// emitGenerate lowers a GenerateRegion to a call against the Hooks
// interface. Every functor method returns a slice (HooksFile's doc
// comment explains why), so a positive call becomes a range loop binding
// one DataVariable per free/summary output per iteration, and a negated
// call becomes a zero-length check.
func (c *emitCtx) emitGenerate(g *jen.Group, t *program.GenerateRegion) {
	args := make([]jen.Code, len(t.Inputs))
	for i, in := range t.Inputs {
		args[i] = jen.Id(localVarName(in))
	}
	call := jen.Id("hooks").Dot(hookMethodName(c.pool, t.Functor)).Call(args...)

	if t.Negated {
		g.If(jen.Len(call).Op("==").Lit(0)).BlockFunc(func(ig *jen.Group) {
			c.emit(ig, t.Body)
		})
		return
	}

	outputs := functorOutputs(t.Functor)
	loopVar := c.nextGenVar()
	g.For(jen.List(jen.Id("_"), jen.Id(loopVar)).Op(":=").Range().Add(call)).BlockFunc(func(ig *jen.Group) {
		for i, out := range t.Outputs {
			if i < len(outputs) {
				ig.Id(localVarName(out)).Op(":=").Id(loopVar).Dot(exportName(c.pool, outputs[i].Name))
			}
		}
		c.emit(ig, t.Body)
	})
}

// emitInduction lowers a fixed-point loop over the recursive stratum's
// worklist vectors (spec.md §4.6): drain Body once per round, re-checking
// every vector's length, until a round starts with them all empty.
func (c *emitCtx) emitInduction(g *jen.Group, t *program.InductionRegion) {
	g.For().BlockFunc(func(ig *jen.Group) {
		if len(t.Vectors) == 0 {
			ig.Break()
			return
		}
		cond := jen.Id(vectorVarName(t.Vectors[0])).Dot("Len").Call().Op("==").Lit(0)
		for _, v := range t.Vectors[1:] {
			cond = jen.Add(cond).Op("&&").Id(vectorVarName(v)).Dot("Len").Call().Op("==").Lit(0)
		}
		ig.If(cond).Block(jen.Break())
		c.emit(ig, t.Body)
	})
}
