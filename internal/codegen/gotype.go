package codegen

import (
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/token"
)

// goType renders t as the jennifer code for a Go type. Foreign types
// (Kind == Atom) are rendered as their declared name verbatim: a #foreign
// declaration names a type the generated package expects its caller to
// supply (typically via a #prologue/#epilogue code block, see
// internal/ast.CodeBlock), so codegen can't know its shape and must not
// invent one.
func goType(pool *token.Pool, t ast.Type) jen.Code {
	switch t.Kind {
	case token.KwBool:
		return jen.Bool()
	case token.KwSignedInt:
		return jen.Id(signedIntName(t.Width))
	case token.KwUnsignedInt:
		return jen.Id(unsignedIntName(t.Width))
	case token.KwFloat:
		return jen.Id(floatName(t.Width))
	case token.KwUTF8, token.KwASCII:
		return jen.String()
	case token.KwBytes:
		return jen.Index().Byte()
	case token.KwUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case token.Atom:
		return jen.Id(pool.String(t.Named))
	default:
		return jen.Any()
	}
}

func signedIntName(width int) string {
	switch width {
	case 8, 16, 32, 64:
		return "int" + strconv.Itoa(width)
	default:
		return "int64"
	}
}

func unsignedIntName(width int) string {
	switch width {
	case 8, 16, 32, 64:
		return "uint" + strconv.Itoa(width)
	default:
		return "uint64"
	}
}

func floatName(width int) string {
	if width == 32 {
		return "float32"
	}
	return "float64"
}

// constLiteral renders term (IsConst guaranteed by the caller) as a
// jennifer literal matching its declared type.
func constLiteral(pool *token.Pool, term ast.Term) jen.Code {
	switch term.Type.Kind {
	case token.KwBool:
		return jen.Lit(term.ConstVal != 0)
	case token.KwUTF8, token.KwASCII:
		return jen.Lit(pool.String(term.ConstStr))
	case token.KwBytes:
		return jen.Index().Byte().Parens(jen.Lit(pool.String(term.ConstStr)))
	case token.KwFloat:
		return jen.Lit(float64(term.ConstVal))
	default:
		return jen.Lit(term.ConstVal)
	}
}
