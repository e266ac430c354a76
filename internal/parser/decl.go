package parser

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/token"
)

var declKindOf = map[token.Kind]ast.DeclKind{
	token.KwLocal:   ast.DeclLocal,
	token.KwExport:  ast.DeclExport,
	token.KwQuery:   ast.DeclQuery,
	token.KwMessage: ast.DeclMessage,
	token.KwFunctor: ast.DeclFunctor,
}

func (p *Parser) parseImport() {
	start := p.advance() // '#import'
	pathTok, ok := p.expect(token.StringLiteral, "a quoted import path")
	if !ok {
		p.synchronize()
		return
	}
	p.expect(token.Period, "'.'")
	p.mod.Imports = append(p.mod.Imports, ast.ImportSpec{Path: pathTok.Spelling, Pos: start.Pos()})
}

func (p *Parser) parseForeignType() {
	start := p.advance() // '#foreign'
	nameTok, ok := p.expect(token.Atom, "a type name")
	if !ok {
		p.synchronize()
		return
	}
	underlying := p.parseType()
	p.expect(token.Period, "'.'")
	p.mod.ForeignTypes = append(p.mod.ForeignTypes, &ast.ForeignType{
		Name: nameTok.Spelling, Underlying: underlying, Pos: start.Pos(),
	})
}

func (p *Parser) parseForeignConstant() {
	start := p.advance() // '#constant'
	typ := p.parseType()
	nameTok, ok := p.expect(token.Atom, "a constant name")
	if !ok {
		p.synchronize()
		return
	}
	p.expect(token.Period, "'.'")
	p.mod.ForeignConstants = append(p.mod.ForeignConstants, &ast.ForeignConstant{
		Name: nameTok.Spelling, Type: typ, Pos: start.Pos(),
	})
}

func (p *Parser) parseCodeDirective() {
	dirTok := p.advance() // '#prologue' or '#epilogue'
	placement := ast.CodeBlockPrologue
	if dirTok.Kind == token.KwEpilogue {
		placement = ast.CodeBlockEpilogue
	}
	p.expect(token.Period, "'.'")
	codeTok, ok := p.expect(token.CodeBlock, "a fenced code block")
	if !ok {
		return
	}
	p.mod.CodeBlocks = append(p.mod.CodeBlocks, &ast.CodeBlock{
		Placement: placement, Language: codeTok.CodeLang, Body: codeTok.Spelling, Pos: dirTok.Pos(),
	})
}

// parseType consumes one type token: a builtin keyword (bool/iN/uN/fN/
// utf8/ascii/bytes/uuid) or an Atom naming a #foreign type.
func (p *Parser) parseType() ast.Type {
	tok := p.advance()
	switch tok.Kind {
	case token.KwBool, token.KwUTF8, token.KwASCII, token.KwBytes, token.KwUUID:
		return ast.Type{Kind: tok.Kind}
	case token.KwSignedInt, token.KwUnsignedInt, token.KwFloat:
		return ast.Type{Kind: tok.Kind, Width: widthOf(p.pool.String(tok.Spelling))}
	case token.Atom:
		return ast.Type{Kind: token.Atom, Named: tok.Spelling}
	default:
		p.errorf(diag.ErrUnexpectedToken, tok.Pos(), "expected a type, got %s", tok.Kind)
		return ast.Type{}
	}
}

func widthOf(spelling string) int {
	w := 0
	for _, c := range spelling[1:] {
		w = w*10 + int(c-'0')
	}
	return w
}

// parseDeclaration parses one `#local`/`#export`/`#query`/`#message`/
// `#functor` header and, for functors, an optional trailing inline code
// block supplying the body.
func (p *Parser) parseDeclaration() {
	dirTok := p.advance()
	kind := declKindOf[dirTok.Kind]

	nameTok, ok := p.expect(token.Atom, "a predicate name")
	if !ok {
		p.synchronize()
		return
	}
	if _, ok := p.expect(token.LParen, "'('"); !ok {
		p.synchronize()
		return
	}

	var params []ast.Param
	if !p.at(token.RParen) {
		for {
			params = append(params, p.parseParam())
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "')'")

	decl := &ast.Decl{
		Name: nameTok.Spelling, Arity: len(params), Kind: kind, Params: params, Pos: dirTok.Pos(),
	}
	p.parseDeclPragmas(decl)
	p.expect(token.Period, "'.'")

	canonical := p.mod.AddDeclaration(decl)
	if canonical != decl {
		p.checkRedeclaration(canonical, decl)
	}

	if kind == ast.DeclFunctor && p.at(token.CodeBlock) {
		codeTok := p.advance()
		p.mod.CodeBlocks = append(p.mod.CodeBlocks, &ast.CodeBlock{
			Placement: ast.CodeBlockFunctorBody,
			Language:  codeTok.CodeLang,
			Ctor:      decl.Name,
			Body:      codeTok.Spelling,
			Pos:       codeTok.Pos(),
		})
	}
}

func (p *Parser) checkRedeclaration(canonical, decl *ast.Decl) {
	if len(canonical.Params) != len(decl.Params) {
		p.errorf(diag.ErrRedeclarationMismatch, decl.Pos,
			"%s/%d redeclared with %d parameters, first declared with %d",
			p.mod.Name(decl.Name), decl.Arity, len(decl.Params), len(canonical.Params))
		return
	}
	for i := range decl.Params {
		if !decl.Params[i].Type.Equal(canonical.Params[i].Type) {
			p.errorf(diag.ErrRedeclarationMismatch, decl.Pos,
				"%s/%d parameter %d redeclared with type %s, first declared %s",
				p.mod.Name(decl.Name), decl.Arity, i, decl.Params[i].Type.String(), canonical.Params[i].Type.String())
		}
	}
}

var bindingKeyword = map[token.Kind]ast.Binding{
	token.KwBound:     ast.BindingBound,
	token.KwFree:      ast.BindingFree,
	token.KwAggregate: ast.BindingAggregate,
	token.KwSummary:   ast.BindingSummary,
	token.KwMutable:   ast.BindingMutable,
}

func (p *Parser) parseParam() ast.Param {
	binding := ast.BindingExact
	var merge token.Symbol
	if b, ok := bindingKeyword[p.peek().Kind]; ok {
		binding = b
		p.advance()
		if binding == ast.BindingMutable && p.at(token.LParen) {
			p.advance()
			if fnTok, ok := p.expect(token.Atom, "a merge functor name"); ok {
				merge = fnTok.Spelling
			}
			p.expect(token.RParen, "')'")
		}
	}
	typ := p.parseType()
	nameTok := p.advance() // Variable (or Atom) param name; not range-checked here
	return ast.Param{Name: nameTok.Spelling, Type: typ, Binding: binding, MergeFunctor: merge}
}

func (p *Parser) parseDeclPragmas(decl *ast.Decl) {
	for {
		switch p.peek().Kind {
		case token.PragmaImpure:
			p.advance()
			decl.Purity = ast.Impure
		case token.PragmaHighlight:
			p.advance()
			decl.Highlight = true
		case token.PragmaInline:
			p.advance()
			decl.Inline = true
		case token.PragmaDifferential:
			p.advance()
			decl.Differential = true
		case token.PragmaTransparent:
			p.advance()
			decl.Transparent = true
		case token.PragmaProduct:
			p.advance()
			decl.Product = true
		case token.PragmaRange:
			p.advance()
			decl.Range = p.parseRangePragma()
		default:
			return
		}
	}
}

func (p *Parser) parseRangePragma() ast.Range {
	p.expect(token.LParen, "'('")
	r := ast.RangeExactlyOne
	switch p.peek().Kind {
	case token.Question:
		r = ast.RangeZeroOrOne
		p.advance()
	case token.Star:
		r = ast.RangeZeroOrMore
		p.advance()
	case token.Plus:
		r = ast.RangeOneOrMore
		p.advance()
	case token.Period:
		r = ast.RangeExactlyOne
		p.advance()
	default:
		p.errorf(diag.ErrUnexpectedToken, p.peek().Pos(), "expected one of '.', '?', '*', '+' in @range(...)")
	}
	p.expect(token.RParen, "')'")
	return r
}
