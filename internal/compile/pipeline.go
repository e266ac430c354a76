// Package compile wires the compiler's phases together: resolve imports,
// check semantics, drive SIPS into a data-flow graph per clause, schedule
// the control-flow program, and emit the generated database. This is
// spec.md §6's "Compiler CLI" behaviour one layer below the flag parsing
// internal/cli owns, grounded on how the teacher's internal/cli.runCompile
// sequences LoadSpecs -> compiler.Compile* -> compiler.Validate -> output,
// generalized to this compiler's five phases instead of the teacher's two
// (concept/sync).
package compile

import (
	"context"
	"fmt"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/codegen"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/importer"
	"github.com/roach88/drlc/internal/importer/modcache"
	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/queryir"
	"github.com/roach88/drlc/internal/sema"
)

// Options configures a pipeline run, the compile-time analogue of
// internal/cli.RootOptions/CompileOptions: a struct threaded through the
// pipeline constructor rather than package-level globals (SPEC_FULL.md §2's
// "Configuration" ambient-stack requirement).
type Options struct {
	// SearchPaths/SystemPaths mirror the CLI's -I/-isystem flags, passed
	// straight through to the importer.Resolver.
	SearchPaths []string
	SystemPaths []string
	// Cache, if set, lets the resolver skip re-discovering an unchanged
	// import closure (internal/importer/modcache).
	Cache *modcache.Cache
	// Source overrides the resolver's FileSource, used by tests to resolve
	// against an in-memory map instead of the filesystem.
	Source importer.FileSource
	// Package names the generated Go package codegen.Generate writes.
	Package string
	// DotPath, if non-empty, additionally writes a DOT dump of the
	// data-flow graphs (spec.md §6's optional `-dot <path>` flag).
	DotPath string
}

// Result is everything a caller (internal/cli or a test) might want out of
// a successful or partially-successful compile: the amalgamated module, the
// accumulated diagnostics from every phase, the per-clause data-flow
// graphs, and the scheduled control-flow program. Program is nil if any
// phase before scheduling recorded a hard error.
type Result struct {
	Module      *ast.Module
	Diagnostics *diag.Log
	Graphs      []*queryir.Graph
	Program     *program.Program
}

// Compile runs every phase over rootPath's transitive import closure,
// stopping short of scheduling/codegen as soon as a phase records a hard
// error (spec.md §7's "phases 3-7 may abort the current module but never
// partially emit"). The lexer and parser (run inside Resolve) still
// accumulate every diagnostic they can before that point.
func Compile(rootPath string, opts Options) (*Result, error) {
	log := diag.NewLog()

	resolver := &importer.Resolver{
		SearchPaths: opts.SearchPaths,
		SystemPaths: opts.SystemPaths,
		Cache:       opts.Cache,
	}
	if opts.Source != nil {
		resolver.Source = opts.Source
	} else {
		resolver.Source = importer.OSFileSource{}
	}

	mod, resolveLog, err := resolver.Resolve(rootPath)
	if err != nil {
		return nil, fmt.Errorf("compile: resolve %s: %w", rootPath, err)
	}
	mergeLog(log, resolveLog)
	result := &Result{Module: mod, Diagnostics: log}
	if log.HasErrors() {
		return result, nil
	}

	mergeLog(log, sema.Check(mod))
	if log.HasErrors() {
		return result, nil
	}

	graphs, err := buildGraphs(mod, log)
	result.Graphs = graphs
	if err != nil || log.HasErrors() {
		return result, nil
	}

	result.Program = program.BuildProgram(mod, graphs)
	return result, nil
}

// buildGraphs drives every clause through internal/queryir.BuildClause,
// retrying with the next candidate left-corner assumption (internal/sips's
// AssumeIndex) when the first attempt finds no satisfiable order or
// cancels, the retry loop internal/queryir.BuildClause's own doc comment
// assigns to its caller. A clause that exhausts every assumption without
// success is recorded as an internal/lowering invariant error (I400): by
// the time a clause reaches this phase, internal/sema has already accepted
// it as range-restricted and stratifiable, so "no satisfiable order"
// past that point is a scheduler bug, not a user mistake.
func buildGraphs(mod *ast.Module, log *diag.Log) ([]*queryir.Graph, error) {
	graphs := make([]*queryir.Graph, 0, len(mod.Clauses))
	for _, cl := range mod.Clauses {
		g, buildErr := buildClauseGraph(cl)
		if buildErr != nil {
			log.Add(diag.New(diag.ErrInternalInvariant, cl.Pos, "%s", buildErr))
			continue
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// buildClauseGraph tries assumeIndex -1 (no assumption) first, then every
// positive-atom index in body order, returning the first graph that builds
// successfully.
func buildClauseGraph(cl *ast.Clause) (*queryir.Graph, error) {
	var lastErr error
	attempts := make([]int, 0, len(cl.Body.Positive)+1)
	attempts = append(attempts, -1)
	for i := range cl.Body.Positive {
		attempts = append(attempts, i)
	}
	for _, assumeIndex := range attempts {
		g, err := queryir.BuildClause(cl, assumeIndex)
		if err == nil {
			return g, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func mergeLog(into, from *diag.Log) {
	if from == nil {
		return
	}
	for _, e := range from.Errors() {
		into.Add(e)
	}
}

// Generate writes the generated database for a successful Result to
// outDir. Callers check Result.Program != nil (equivalently,
// !Result.Diagnostics.HasErrors()) before calling this.
func Generate(ctx context.Context, outDir string, result *Result, opts Options) error {
	return codegen.Generate(ctx, outDir, result.Module, result.Program, result.Graphs, codegen.Options{
		Package: opts.Package,
		DotPath: opts.DotPath,
	})
}
