package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/token"
)

// functorResultName is the exported Go name of the slice element type
// GenerateRegion's loop binds one row of functor's free/summary outputs to.
func functorResultName(pool *token.Pool, functor *ast.Decl) string {
	return declName(pool, functor) + "Result"
}

func hookMethodName(pool *token.Pool, functor *ast.Decl) string {
	return declName(pool, functor)
}

// functorOutputs returns functor's free (QueryMap) or summary (QueryAggregate)
// parameters, the ones a call binds fresh DataVariables for.
func functorOutputs(functor *ast.Decl) []ast.Param {
	var out []ast.Param
	for _, p := range functor.Params {
		if p.Binding == ast.BindingFree || p.Binding == ast.BindingSummary {
			out = append(out, p)
		}
	}
	return out
}

// functorInputs returns every other parameter, in declaration order: the
// values the call site must already have bound before invoking the functor.
func functorInputs(functor *ast.Decl) []ast.Param {
	var in []ast.Param
	for _, p := range functor.Params {
		if p.Binding != ast.BindingFree && p.Binding != ast.BindingSummary {
			in = append(in, p)
		}
	}
	return in
}

// HooksFile emits the Hooks interface: one method per functor declaration
// class, plus the per-functor result struct its slice return type names.
// A functor is the one declaration kind with no backing DataTable (spec.md
// §3: "called rather than scanned"), so unlike a relation's TupleFinder it
// has no generated body at all — the caller of the generated package
// supplies an implementation (range(.)/range(?) functors return a
// single-element or empty slice; range(*)/range(+) return as many as the
// invocation produced; purity and range aren't enforced by the generated
// signature, only documented on it).
func HooksFile(pkg string, pool *token.Pool, mod *ast.Module) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by drlc/internal/codegen. DO NOT EDIT.")

	seen := map[*ast.DeclClass]bool{}
	var functors []*ast.Decl
	for _, d := range mod.Declarations {
		if d.Kind != ast.DeclFunctor {
			continue
		}
		class := d.Class()
		if class == nil || seen[class] {
			continue
		}
		seen[class] = true
		functors = append(functors, class.Members[0])
	}

	for _, functor := range functors {
		emitFunctorResult(f, pool, functor)
	}

	f.Type().Id("Hooks").InterfaceFunc(func(g *jen.Group) {
		for _, functor := range functors {
			g.Id(hookMethodName(pool, functor)).Params(functorParamCodes(pool, functor)...).Index().Id(functorResultName(pool, functor))
		}
	})

	return f
}

func functorParamCodes(pool *token.Pool, functor *ast.Decl) []jen.Code {
	inputs := functorInputs(functor)
	codes := make([]jen.Code, len(inputs))
	for i, p := range inputs {
		codes[i] = jen.Id(exportNameLower(pool, p.Name)).Add(goType(pool, p.Type))
	}
	return codes
}

func emitFunctorResult(f *jen.File, pool *token.Pool, functor *ast.Decl) {
	outputs := functorOutputs(functor)
	f.Type().Id(functorResultName(pool, functor)).StructFunc(func(g *jen.Group) {
		for _, p := range outputs {
			g.Id(exportName(pool, p.Name)).Add(goType(pool, p.Type))
		}
	})
}

// exportNameLower renders a parameter name as an unexported Go identifier
// for function arguments: the source spelling prefixed with "p_", or "_"
// for an empty or anonymous name.
func exportNameLower(pool *token.Pool, sym token.Symbol) string {
	s := pool.String(sym)
	if s == "" || s == "_" {
		return "_"
	}
	return "p_" + s
}
