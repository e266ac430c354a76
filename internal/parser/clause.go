package parser

import (
	"github.com/roach88/drlc/internal/ast"
	"github.com/roach88/drlc/internal/diag"
	"github.com/roach88/drlc/internal/token"
)

// scope tracks clause-local variable identity while a single clause is
// being parsed: every occurrence of the same spelling maps to the same
// VarID, except "_" which is fresh at every occurrence.
type scope struct {
	pool       *token.Pool
	underscore token.Symbol
	byName     map[token.Symbol]ast.VarID
	table      map[ast.VarID]*ast.Variable
	next       ast.VarID
}

func newScope(pool *token.Pool, underscore token.Symbol) *scope {
	return &scope{pool: pool, underscore: underscore, byName: map[token.Symbol]ast.VarID{}, table: map[ast.VarID]*ast.Variable{}}
}

func (s *scope) varFor(sym token.Symbol, pos token.DisplayPosition) ast.VarID {
	if sym != s.underscore {
		if id, ok := s.byName[sym]; ok {
			return id
		}
	}
	id := s.next
	s.next++
	s.table[id] = &ast.Variable{ID: id, Name: sym, Pos: pos}
	if sym != s.underscore {
		s.byName[sym] = id
	}
	return id
}

func (p *Parser) parseClause() {
	headTok := p.advance() // Atom
	if _, ok := p.expect(token.LParen, "'('"); !ok {
		p.synchronize()
		return
	}

	sc := newScope(p.pool, p.underscore)
	var headVars []ast.VarID
	if !p.at(token.RParen) {
		for {
			argTok, ok := p.expect(token.Variable, "a variable")
			if !ok {
				p.synchronize()
				return
			}
			headVars = append(headVars, sc.varFor(argTok.Spelling, argTok.Pos()))
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "')'")
	p.expect(token.Colon, "':'")

	body := p.parseClauseBody(sc)
	p.expect(token.Period, "'.'")

	class := p.mod.Lookup(headTok.Spelling, len(headVars))
	if class == nil {
		p.errorf(diag.ErrUnknownDeclaration, headTok.Pos(), "%s/%d has no #local/#export/#query/#message declaration",
			p.pool.String(headTok.Spelling), len(headVars))
		return
	}

	p.mod.Clauses = append(p.mod.Clauses, &ast.Clause{
		Head: class.Members[0], HeadVars: headVars, Body: body, Vars: sc.table, Pos: headTok.Pos(),
	})
}

func (p *Parser) parseClauseBody(sc *scope) ast.ClauseBody {
	var body ast.ClauseBody
	for {
		p.parseBodyAtom(sc, &body)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return body
}

var compareOpOf = map[token.Kind]ast.CompareOp{
	token.Equal:       ast.CmpEqual,
	token.NotEqual:     ast.CmpNotEqual,
	token.Less:         ast.CmpLess,
	token.Greater:      ast.CmpGreater,
	token.LessEqual:    ast.CmpLessEqual,
	token.GreaterEqual: ast.CmpGreaterEqual,
}

func (p *Parser) parseBodyAtom(sc *scope, body *ast.ClauseBody) {
	tok := p.peek()
	switch tok.Kind {
	case token.Bang:
		p.advance()
		use, ok := p.parsePredicateUse(sc)
		if ok {
			body.Negated = append(body.Negated, use)
		}

	case token.Atom:
		nameTok := p.advance()
		if p.at(token.KwOver) {
			p.advance()
			over, ok := p.parsePredicateUse(sc)
			if !ok {
				return
			}
			class := p.mod.LookupByName(nameTok.Spelling)
			if class == nil {
				p.errorf(diag.ErrUnknownDeclaration, nameTok.Pos(), "%s has no #functor declaration", p.pool.String(nameTok.Spelling))
				return
			}
			body.Aggregates = append(body.Aggregates, ast.AggregateUse{Functor: class.Members[0], Over: over, Pos: nameTok.Pos()})
			return
		}
		use, ok := p.parsePredicateUseArgs(sc, nameTok)
		if ok {
			body.Positive = append(body.Positive, use)
		}

	case token.Variable:
		lhsTok := p.advance()
		lhs := ast.Term{Var: sc.varFor(lhsTok.Spelling, lhsTok.Pos())}
		opTok := p.advance()
		op, ok := compareOpOf[opTok.Kind]
		if !ok {
			p.errorf(diag.ErrUnexpectedToken, opTok.Pos(), "expected a comparison operator, got %s", opTok.Kind)
			return
		}
		rhs := p.parseTerm(sc)
		if opTok.Kind == token.Equal && rhs.IsConst {
			body.Assignments = append(body.Assignments, ast.Assignment{Var: lhs, Val: rhs, Pos: lhsTok.Pos()})
		} else {
			body.Comparisons = append(body.Comparisons, ast.Comparison{Op: op, LHS: lhs, RHS: rhs, Pos: lhsTok.Pos()})
		}

	default:
		p.errorf(diag.ErrUnexpectedToken, tok.Pos(), "expected a body atom, got %s", tok.Kind)
		p.advance()
	}
}

// parsePredicateUse parses "name(args...)" in full, used where the name
// hasn't already been consumed (negation, aggregate `over`).
func (p *Parser) parsePredicateUse(sc *scope) (ast.PredicateUse, bool) {
	nameTok, ok := p.expect(token.Atom, "a predicate name")
	if !ok {
		return ast.PredicateUse{}, false
	}
	return p.parsePredicateUseArgs(sc, nameTok)
}

// parsePredicateUseArgs parses "(args...)" given an already-consumed name
// token, resolving the declaration by (name, arity).
func (p *Parser) parsePredicateUseArgs(sc *scope, nameTok token.Token) (ast.PredicateUse, bool) {
	if _, ok := p.expect(token.LParen, "'('"); !ok {
		return ast.PredicateUse{}, false
	}
	var args []ast.Term
	if !p.at(token.RParen) {
		for {
			args = append(args, p.parseTerm(sc))
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "')'")

	class := p.mod.Lookup(nameTok.Spelling, len(args))
	if class == nil {
		p.errorf(diag.ErrUnknownDeclaration, nameTok.Pos(), "%s/%d has no declaration", p.pool.String(nameTok.Spelling), len(args))
		return ast.PredicateUse{}, false
	}
	return ast.PredicateUse{Decl: class.Members[0], Args: args, Pos: nameTok.Pos()}, true
}

func (p *Parser) parseTerm(sc *scope) ast.Term {
	tok := p.advance()
	switch tok.Kind {
	case token.Variable:
		return ast.Term{Var: sc.varFor(tok.Spelling, tok.Pos())}
	case token.IntLiteral:
		return ast.Term{IsConst: true, ConstVal: tok.IntValue}
	case token.StringLiteral:
		return ast.Term{IsConst: true, ConstStr: tok.Spelling}
	default:
		p.errorf(diag.ErrUnexpectedToken, tok.Pos(), "expected a variable or literal, got %s", tok.Kind)
		return ast.Term{}
	}
}
