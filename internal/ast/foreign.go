package ast

import "github.com/roach88/drlc/internal/token"

// ForeignType is a `#foreign` declaration of an externally-defined type.
type ForeignType struct {
	Name       token.Symbol
	Underlying Type
	Pos        token.DisplayPosition
}

// ForeignConstant is a `#constant` declaration of a named literal of a
// foreign (or builtin) type, usable anywhere a literal constant is.
type ForeignConstant struct {
	Name token.Symbol
	Type Type
	Pos  token.DisplayPosition
}

// CodeBlockPlacement selects where a raw code block is threaded into the
// generated database.
type CodeBlockPlacement uint8

const (
	CodeBlockPrologue CodeBlockPlacement = iota
	CodeBlockEpilogue
	CodeBlockFunctorBody
)

// CodeBlock is an opaque, language-tagged fenced code block: `#prologue`/
// `#epilogue` blocks thread verbatim into the generated database's
// preamble/postamble; functor bodies supply the implementation of an
// inline (non-external) functor. The compiler never parses the contents —
// internal/codegen copies them through unmodified.
type CodeBlock struct {
	Placement CodeBlockPlacement
	Language  token.Symbol
	Ctor      token.Symbol // constructor suffix, e.g. the functor name for CodeBlockFunctorBody
	Body      token.Symbol
	Pos       token.DisplayPosition
}
