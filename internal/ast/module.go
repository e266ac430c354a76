package ast

import (
	"fmt"

	"github.com/roach88/drlc/internal/token"
)

// ImportSpec is one `#import "path".` directive.
type ImportSpec struct {
	Path token.Symbol
	Pos  token.DisplayPosition
}

// Module is the root of the AST: a ParsedModule per spec.md §3. It owns
// ordered sequences of imports, declarations, clauses, foreign types,
// foreign constants, and inline code blocks, plus the redeclaration index
// built as declarations are added.
type Module struct {
	DisplayName string
	Pool        *token.Pool

	Imports          []ImportSpec
	Declarations     []*Decl
	Clauses          []*Clause
	ForeignTypes     []*ForeignType
	ForeignConstants []*ForeignConstant
	CodeBlocks       []*CodeBlock

	classes  map[token.Symbol]*DeclClass
	nextDecl DeclID
}

// NewModule creates an empty module backed by pool for identifier interning.
func NewModule(displayName string, pool *token.Pool) *Module {
	return &Module{
		DisplayName: displayName,
		Pool:        pool,
		classes:     make(map[token.Symbol]*DeclClass),
	}
}

// AddDeclaration registers decl, assigning its ID and unifying it into the
// DeclClass for its name. Redeclaration classes are keyed by name alone (not
// name+arity): a second declaration of the same name with a different
// arity or parameter types is still the same class, so the arity/type
// mismatch is visible to the caller as a conflict rather than silently
// starting a new, unrelated predicate. Returns the canonical redeclaration
// (the first declaration ever seen for that name) so callers can
// type-check against it immediately.
func (m *Module) AddDeclaration(decl *Decl) (canonical *Decl) {
	decl.ID = m.nextDecl
	m.nextDecl++

	class, ok := m.classes[decl.Name]
	if !ok {
		class = &DeclClass{Name: decl.Name, Arity: decl.Arity}
		m.classes[decl.Name] = class
	}
	decl.class = class
	class.Members = append(class.Members, decl)
	m.Declarations = append(m.Declarations, decl)
	return class.Members[0]
}

// Lookup finds the DeclClass named name, returning it only if its canonical
// (first-seen) arity matches arity — a predicate use with the wrong arity
// is unresolved, same as one that was never declared.
func (m *Module) Lookup(name token.Symbol, arity int) *DeclClass {
	class, ok := m.classes[name]
	if !ok || class.Arity != arity {
		return nil
	}
	return class
}

// LookupByName finds the declared DeclClass with the given name regardless
// of arity, used to resolve a functor reference in an `over` aggregate
// clause where the over-relation's arity doesn't determine the functor's
// own arity.
func (m *Module) LookupByName(name token.Symbol) *DeclClass {
	return m.classes[name]
}

// Classes returns every redeclaration class in the module, in first-seen
// order, for callers that need to iterate all predicates once (e.g. table
// selection in internal/program).
func (m *Module) Classes() []*DeclClass {
	out := make([]*DeclClass, 0, len(m.classes))
	seen := make(map[*DeclClass]bool, len(m.classes))
	for _, d := range m.Declarations {
		if !seen[d.class] {
			seen[d.class] = true
			out = append(out, d.class)
		}
	}
	return out
}

// Name renders an interned symbol using the module's string pool.
func (m *Module) Name(sym token.Symbol) string { return m.Pool.String(sym) }

// String renders a debug summary, not a round-trippable form (use
// internal/ast's Print for that).
func (m *Module) String() string {
	return fmt.Sprintf("Module(%s: %d decls, %d clauses)", m.DisplayName, len(m.Declarations), len(m.Clauses))
}
