package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/token"
)

// InterfaceFile emits the module's interface schema: structural Go types
// mirroring the FlatBuffer shape spec.md §6 describes (one table per
// message, an InputMessage/OutputMessage wrapper, one request/response
// table pair per query, a Datalog service interface), without pulling in
// an actual FlatBuffers or gRPC dependency — spec.md §1 names "code-
// emission templates ... (C++/Python/FlatBuffers)" and "gRPC client
// scaffolding" as out of scope beyond the structural shape they impose, so
// this file is the shape, not a wire-format implementation. See DESIGN.md
// for why github.com/google/flatbuffers wasn't adopted: it only turns up
// in the pack's other_examples/manifests/ standalone go.mod files, never
// in a complete teacher-candidate repo with usage code to ground an
// implementation on.
func InterfaceFile(pkg string, pool *token.Pool, mod *ast.Module) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by drlc/internal/codegen. DO NOT EDIT.")

	messages := declsOf(mod, ast.DeclMessage)
	queries := declsOf(mod, ast.DeclQuery)

	for _, m := range messages {
		emitMessageTable(f, pool, m)
	}
	if len(messages) > 0 {
		emitMessageWrapper(f, pool, "InputMessage", messages, true)
		emitMessageWrapper(f, pool, "OutputMessage", messages, false)
	}

	for _, q := range queries {
		emitQueryTables(f, pool, q)
	}

	emitService(f, pool, queries)

	return f
}

func declsOf(mod *ast.Module, kind ast.DeclKind) []*ast.Decl {
	seen := map[*ast.DeclClass]bool{}
	var out []*ast.Decl
	for _, d := range mod.Declarations {
		if d.Kind != kind {
			continue
		}
		class := d.Class()
		if class == nil || seen[class] {
			continue
		}
		seen[class] = true
		out = append(out, class.Members[0])
	}
	return out
}

func messageTableName(pool *token.Pool, m *ast.Decl) string {
	return declName(pool, m) + "Message"
}

func emitMessageTable(f *jen.File, pool *token.Pool, m *ast.Decl) {
	f.Type().Id(messageTableName(pool, m)).StructFunc(func(g *jen.Group) {
		for _, p := range m.Params {
			g.Id(exportName(pool, p.Name)).Add(goType(pool, p.Type))
		}
	})
}

// emitMessageWrapper emits the Input/OutputMessage sum-of-vectors wrapper:
// one `added` field per declared message and, for the Input side only (a
// published message may carry a retraction), a parallel `removed` field
// guarded by the `@differential` pragma (spec.md §6, SPEC_FULL.md §4's
// `@differential` supplement).
func emitMessageWrapper(f *jen.File, pool *token.Pool, name string, messages []*ast.Decl, input bool) {
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, m := range messages {
			field := declName(pool, m)
			tableType := jen.Index().Id(messageTableName(pool, m))
			g.Id(field + "Added").Add(tableType.Clone())
			if input && m.Differential {
				g.Id(field + "Removed").Add(tableType.Clone())
			}
		}
	})
}

// queryRequestName/queryResponseName are the per-query request/response
// table names spec.md §6 describes: request carries only the query's bound
// parameters, response carries every parameter.
func queryRequestName(pool *token.Pool, q *ast.Decl) string {
	return declName(pool, q) + "Request"
}

func queryResponseName(pool *token.Pool, q *ast.Decl) string {
	return declName(pool, q) + "Response"
}

func emitQueryTables(f *jen.File, pool *token.Pool, q *ast.Decl) {
	f.Type().Id(queryRequestName(pool, q)).StructFunc(func(g *jen.Group) {
		for _, p := range q.Params {
			if p.Binding == ast.BindingBound {
				g.Id(exportName(pool, p.Name)).Add(goType(pool, p.Type))
			}
		}
	})
	f.Type().Id(queryResponseName(pool, q)).StructFunc(func(g *jen.Group) {
		for _, p := range q.Params {
			g.Id(exportName(pool, p.Name)).Add(goType(pool, p.Type))
		}
	})
}

// queryIsStreaming reports whether q has any free parameter: spec.md §6's
// "streaming when any parameter is free" rule for which queries get a
// server-streaming RPC versus a unary one.
func queryIsStreaming(q *ast.Decl) bool {
	for _, p := range q.Params {
		if p.Binding == ast.BindingFree {
			return true
		}
	}
	return false
}

// emitService emits the Datalog service interface: one method per query
// (a func returning a channel for a streaming query, or a single response
// otherwise), plus Publish and Subscribe. This is a plain Go interface,
// not generated gRPC scaffolding (spec.md §1 excludes "gRPC client
// scaffolding" itself) — a caller wires a transport of its choosing
// against it.
func emitService(f *jen.File, pool *token.Pool, queries []*ast.Decl) {
	f.Type().Id("Datalog").InterfaceFunc(func(g *jen.Group) {
		for _, q := range queries {
			reqType := jen.Id(queryRequestName(pool, q))
			respType := jen.Id(queryResponseName(pool, q))
			if queryIsStreaming(q) {
				g.Id(declName(pool, q)).Params(reqType).Params(jen.Op("<-chan").Add(respType), jen.Error())
			} else {
				g.Id(declName(pool, q)).Params(reqType).Params(respType, jen.Error())
			}
		}
		g.Id("Publish").Params(jen.Id("InputMessage")).Error()
		g.Id("Subscribe").Params(jen.Id("Client")).Params(jen.Op("<-chan").Id("OutputMessage"), jen.Error())
	})
	f.Comment("Client identifies a Subscribe caller; the generated package leaves its shape to the transport layer.")
	f.Type().Id("Client").Interface()
}
