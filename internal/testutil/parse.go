// Package testutil collects the fixtures every other package's _test.go
// files were re-deriving by hand: a one-call lex+parse helper for tiny
// inline modules (the same shape internal/sema's own test file built
// locally) and an in-memory importer.FileSource (lifted from
// internal/importer's own test file) for multi-file resolver tests.
package testutil

import (
	"fmt"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/lexer"
	"github.com/roach88/drlc/internal/parser"
	"github.com/roach88/drlc/internal/token"
)

// ParseModule lexes and parses src as a standalone module (no imports),
// returning whatever diagnostics the parser recorded alongside the result;
// callers decide whether a non-empty log is fatal for their test.
func ParseModule(displayName, src string) (*ast.Module, *diag.Log) {
	pool := token.NewPool()
	l := lexer.New(pool, 0, []byte(src), lexer.DefaultConfig)
	toks := lexer.All(l)
	return parser.Parse(pool, toks, displayName)
}

// MemFileSource resolves import paths against an in-memory map, keyed by
// the same path spelling a test's `#import "..."` directives use.
// Grounded on internal/importer/resolve_test.go's unexported memFileSource,
// exported here so internal/compile and internal/cli tests don't each
// redeclare it.
type MemFileSource map[string]string

func (m MemFileSource) ReadFile(path string) ([]byte, error) {
	if src, ok := m[path]; ok {
		return []byte(src), nil
	}
	return nil, fmt.Errorf("testutil: no such file %q", path)
}

// FixedPos returns a stable token.DisplayPosition for tests that build
// program/queryir IR by hand and need a position without running the lexer
// (e.g. exercising internal/program.deterministicName's seed uniqueness).
// seq distinguishes positions within one test the way a real file's offsets
// would.
func FixedPos(seq uint32) token.DisplayPosition {
	return token.NewDisplayPosition(0, seq*10, seq, 1)
}
