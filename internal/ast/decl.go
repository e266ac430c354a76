package ast

import (
	"fmt"

	"github.com/roach88/drlc/internal/token"
)

// DeclKind is the directive that introduced a declaration.
type DeclKind uint8

const (
	DeclLocal DeclKind = iota
	DeclExport
	DeclQuery
	DeclMessage
	DeclFunctor
)

func (k DeclKind) String() string {
	switch k {
	case DeclLocal:
		return "local"
	case DeclExport:
		return "export"
	case DeclQuery:
		return "query"
	case DeclMessage:
		return "message"
	case DeclFunctor:
		return "functor"
	default:
		return "unknown"
	}
}

// Binding is a parameter's binding attribute, as spelled in the source
// (`bound`, `free`, `aggregate`, `summary`, `mutable`) or Exact when no
// attribute was given (used for non-functor/query declarations where every
// parameter is simply part of the tuple).
type Binding uint8

const (
	BindingExact Binding = iota
	BindingBound
	BindingFree
	BindingAggregate
	BindingSummary
	BindingMutable
)

func (b Binding) String() string {
	switch b {
	case BindingBound:
		return "bound"
	case BindingFree:
		return "free"
	case BindingAggregate:
		return "aggregate"
	case BindingSummary:
		return "summary"
	case BindingMutable:
		return "mutable"
	default:
		return ""
	}
}

// Type is a resolved parameter/column type.
type Type struct {
	Kind  token.Kind // KwBool, KwSignedInt, KwUnsignedInt, KwFloat, KwUTF8, KwASCII, KwBytes, KwUUID, or Atom for a #foreign type
	Width int        // bit width for iN/uN/fN; 0 otherwise
	Named token.Symbol // interned foreign-type name when Kind == Atom
}

func (t Type) String() string {
	switch t.Kind {
	case token.KwSignedInt:
		return fmt.Sprintf("i%d", t.Width)
	case token.KwUnsignedInt:
		return fmt.Sprintf("u%d", t.Width)
	case token.KwFloat:
		return fmt.Sprintf("f%d", t.Width)
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two types are the canonically same type.
func (t Type) Equal(other Type) bool {
	return t.Kind == other.Kind && t.Width == other.Width && t.Named == other.Named
}

// Purity marks whether a functor may be invoked more than once for the same
// inputs without re-deriving identical outputs (spec.md §4.1/§4.4).
type Purity uint8

const (
	Pure Purity = iota
	Impure
)

// Range is a functor's `range(...)` hint: how many output tuples a single
// invocation may produce.
type Range uint8

const (
	RangeExactlyOne Range = iota // range(.)
	RangeZeroOrOne                // range(?)
	RangeZeroOrMore               // range(*)
	RangeOneOrMore                // range(+)
)

// Param is one parameter of a declaration.
type Param struct {
	Name    token.Symbol
	Type    Type
	Binding Binding
	// MergeFunctor names the functor used to combine concurrent writers of a
	// `mutable(merge_fn)` parameter. Spec.md §9 leaves interaction with a
	// simultaneously-indexed mutable column an open question; see DESIGN.md.
	MergeFunctor token.Symbol
}

// DeclID is a globally stable identity for a declaration, assigned at
// parse time and never reused within a compilation.
type DeclID uint32

// Decl is a named, typed predicate prototype: local, exported, queried,
// messaged, or a functor. Declarations sharing a name are unified into a
// DeclClass by the parser; Redeclarations returns the siblings.
type Decl struct {
	ID     DeclID
	Name   token.Symbol
	Arity  int
	Kind   DeclKind
	Params []Param
	Pos    token.DisplayPosition

	// Pragmas present on this particular redeclaration.
	Inline       bool
	Highlight    bool
	Differential bool // @differential: message may carry a "removed" vector
	Transparent  bool // @transparent: relation elided, inlined at call sites
	Product      bool // @product: permits a cross-product join against this relation

	// Functor-only attributes; zero values for non-functor declarations.
	Purity Purity
	Range  Range

	class *DeclClass
}

// Class returns the equivalence class of declarations sharing this
// declaration's name.
func (d *Decl) Class() *DeclClass { return d.class }

// Redeclarations returns every declaration sharing this one's name,
// in declaration order. The first element is the canonical redeclaration:
// spec.md's invariant that "the first redeclaration defines the canonical
// parameter types" is enforced by the parser when it adds to a DeclClass.
func (d *Decl) Redeclarations() []*Decl {
	if d.class == nil {
		return []*Decl{d}
	}
	return d.class.Members
}

// CanonicalTypes returns the parameter types of the first redeclaration.
func (d *Decl) CanonicalTypes() []Type {
	canon := d.Redeclarations()[0]
	types := make([]Type, len(canon.Params))
	for i, p := range canon.Params {
		types[i] = p.Type
	}
	return types
}

// DeclClass is the equivalence class of declarations that share a name:
// every redeclaration of the same predicate.
type DeclClass struct {
	Name    token.Symbol
	Arity   int
	Members []*Decl
}

// DeclKey identifies a DeclClass.
type DeclKey struct {
	Name  token.Symbol
	Arity int
}

func (k DeclKey) String() string {
	return fmt.Sprintf("%d/%d", k.Name, k.Arity)
}
