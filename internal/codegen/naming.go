package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/program"
	"github.com/roach88/drlc/internal/token"
)

// exportName renders sym as an exported Go identifier. The lexer only ever
// accepts [A-Za-z_][A-Za-z0-9_]* for an identifier (isIdentStart/
// isIdentPart), so the only transformation needed is capitalizing the
// first rune.
func exportName(pool *token.Pool, sym token.Symbol) string {
	s := pool.String(sym)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func declName(pool *token.Pool, decl *ast.Decl) string {
	if decl == nil {
		return ""
	}
	return exportName(pool, decl.Name)
}

// tableTypeName is the exported Go name of the key struct backing table.
func tableTypeName(pool *token.Pool, t *program.DataTable) string {
	return declName(pool, t.Decl) + "Key"
}

func tableVarName(pool *token.Pool, t *program.DataTable) string {
	return declName(pool, t.Decl) + "Table"
}

// indexTypeName is the exported Go name of idx's own (possibly partial) key
// struct, distinct from its backing table's full-tuple key struct.
func indexTypeName(pool *token.Pool, idx *program.DataIndex) string {
	if idx.Covering {
		return tableTypeName(pool, idx.Table)
	}
	return fmt.Sprintf("%sIndex%dKey", declName(pool, idx.Table.Decl), idx.ID)
}

func indexVarName(pool *token.Pool, idx *program.DataIndex) string {
	return fmt.Sprintf("%sIndex%d", declName(pool, idx.Table.Decl), idx.ID)
}

func columnFieldName(pool *token.Pool, col program.DataColumn) string {
	return exportName(pool, col.Name)
}

func procFuncName(p *program.ProgramProcedure) string {
	return goIdentifier(p.Name)
}

// goIdentifier lower-cases nothing (procedure names are already
// deterministic_snake_case strings, see naming.go's deterministicName, or
// plain names like "initialize"); it only strips characters Go identifiers
// can't carry, which UUIDv5 suffixes introduce as hyphens.
func goIdentifier(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

func condVarName(v *program.DataVariable) string {
	return goIdentifier(v.Name)
}

func localVarName(v *program.DataVariable) string {
	return goIdentifier(v.Name)
}
