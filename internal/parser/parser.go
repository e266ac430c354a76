package parser

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/token"
)

// Parser consumes a token stream produced by internal/lexer and builds an
// ast.Module, recording diagnostics on Log rather than stopping at the
// first malformed statement.
type Parser struct {
	toks []token.Token
	pos  int
	pool *token.Pool
	mod  *ast.Module
	log  *diag.Log

	underscore token.Symbol
}

// Parse builds a Module named displayName from toks, which must end with an
// EOF token (as internal/lexer.All produces). Parsing never stops on error:
// check log.HasErrors() before trusting the result.
func Parse(pool *token.Pool, toks []token.Token, displayName string) (*ast.Module, *diag.Log) {
	p := &Parser{
		toks:       toks,
		pool:       pool,
		mod:        ast.NewModule(displayName, pool),
		log:        diag.NewLog(),
		underscore: pool.Intern("_"),
	}
	p.parseModule()
	return p.mod, p.log
}

func (p *Parser) parseModule() {
	for !p.at(token.EOF) {
		tok := p.peek()
		switch tok.Kind {
		case token.KwImport:
			p.parseImport()
		case token.KwForeign:
			p.parseForeignType()
		case token.KwConstant:
			p.parseForeignConstant()
		case token.KwPrologue, token.KwEpilogue:
			p.parseCodeDirective()
		case token.KwLocal, token.KwExport, token.KwQuery, token.KwMessage, token.KwFunctor:
			p.parseDeclaration()
		case token.Atom:
			p.parseClause()
		case token.CodeBlock:
			// A code block with no preceding #prologue/#epilogue/#functor is
			// orphaned; skip it rather than treat it as a statement.
			p.advance()
		default:
			p.errorf(diag.ErrUnexpectedToken, tok.Pos(), "unexpected %s at top level", tok.Kind)
			p.synchronize()
		}
	}
}

// --- token cursor helpers ---

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// expect consumes and returns the next token if it has kind k, logging
// ErrUnexpectedToken and leaving the cursor unmoved otherwise.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	t := p.peek()
	if t.Kind != k {
		p.errorf(diag.ErrUnexpectedToken, t.Pos(), "expected %s, got %s", what, t.Kind)
		return t, false
	}
	return p.advance(), true
}

// synchronize discards tokens up to and including the next '.', or until
// EOF, so one malformed statement doesn't cascade into spurious errors for
// everything that follows.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.advance().Kind == token.Period {
			return
		}
	}
}

func (p *Parser) errorf(code diag.Code, pos token.DisplayPosition, format string, args ...any) {
	p.log.Add(diag.New(code, pos, format, args...))
}
