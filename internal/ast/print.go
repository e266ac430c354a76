package ast

import (
	"fmt"
	"sort"
	"strings"
)

// PrintOptions parameterizes the pretty-printer, mirroring spec.md §9's
// "Pretty-printer" design note: a visitor over the AST writing tokens and
// synthesised separators, configurable for amalgamation (KeepImports) and
// stable local renaming for debug diffs (RenameLocals).
type PrintOptions struct {
	// KeepImports controls whether `#import` directives are emitted. The
	// CLI's -amalgamation output (internal/cli) prints with this false once
	// imports have been inlined.
	KeepImports bool
	// RenameLocals renames every #local declaration to a stable
	// "local$<id>" spelling, so two structurally-identical modules produced
	// by different historical names print identically (used for debug
	// diffs across compiler versions).
	RenameLocals bool
}

// DefaultPrintOptions keeps imports and original names — the form used for
// the round-trip property test (spec.md §8).
var DefaultPrintOptions = PrintOptions{KeepImports: true, RenameLocals: false}

// Print renders m to its canonical textual form. Print(Parse(Print(m))) is
// byte-identical to Print(m) for any well-formed m (spec.md §8's round-trip
// property); re-parsing the output and printing again changes nothing.
func Print(m *Module, opts PrintOptions) string {
	p := &printer{m: m, opts: opts, localNames: map[DeclID]string{}}
	p.assignLocalNames()

	if opts.KeepImports {
		for _, imp := range m.Imports {
			fmt.Fprintf(&p.buf, "#import %q.\n", m.Name(imp.Path))
		}
		if len(m.Imports) > 0 {
			p.buf.WriteByte('\n')
		}
	}

	for _, ft := range m.ForeignTypes {
		fmt.Fprintf(&p.buf, "#foreign %s %s.\n", m.Name(ft.Name), ft.Underlying.String())
	}
	for _, fc := range m.ForeignConstants {
		fmt.Fprintf(&p.buf, "#constant %s %s.\n", fc.Type.String(), m.Name(fc.Name))
	}
	if len(m.ForeignTypes)+len(m.ForeignConstants) > 0 {
		p.buf.WriteByte('\n')
	}

	for _, class := range m.Classes() {
		canon := class.Members[0]
		p.printDeclHeader(canon)
	}
	if len(m.Classes()) > 0 {
		p.buf.WriteByte('\n')
	}

	for _, cl := range m.Clauses {
		p.printClause(cl)
	}

	for _, cb := range m.CodeBlocks {
		p.printCodeBlock(cb)
	}

	return p.buf.String()
}

type printer struct {
	m          *Module
	opts       PrintOptions
	buf        strings.Builder
	localNames map[DeclID]string
}

func (p *printer) assignLocalNames() {
	if !p.opts.RenameLocals {
		return
	}
	var locals []*Decl
	for _, d := range p.m.Declarations {
		if d.Kind == DeclLocal {
			locals = append(locals, d)
		}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].ID < locals[j].ID })
	for i, d := range locals {
		p.localNames[d.ID] = fmt.Sprintf("local$%d", i)
	}
}

func (p *printer) declName(d *Decl) string {
	if p.opts.RenameLocals {
		if name, ok := p.localNames[d.ID]; ok {
			return name
		}
	}
	return p.m.Name(d.Name)
}

func (p *printer) printDeclHeader(d *Decl) {
	fmt.Fprintf(&p.buf, "#%s %s(", d.Kind.String(), p.declName(d))
	for i, param := range d.Params {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		if b := param.Binding.String(); b != "" {
			p.buf.WriteString(b)
			if param.Binding == BindingMutable && param.MergeFunctor != 0 {
				fmt.Fprintf(&p.buf, "(%s)", p.m.Name(param.MergeFunctor))
			}
			p.buf.WriteByte(' ')
		}
		p.buf.WriteString(p.typeSpelling(param.Type))
		p.buf.WriteByte(' ')
		p.buf.WriteString(p.m.Name(param.Name))
	}
	p.buf.WriteString(")")
	if d.Kind == DeclFunctor {
		if d.Purity == Impure {
			p.buf.WriteString(" @impure")
		}
		p.buf.WriteString(" " + rangeSpelling(d.Range))
	}
	if d.Differential {
		p.buf.WriteString(" @differential")
	}
	if d.Transparent {
		p.buf.WriteString(" @transparent")
	}
	if d.Product {
		p.buf.WriteString(" @product")
	}
	p.buf.WriteString(".\n")
}

// typeSpelling renders t, resolving foreign-type names through the module's
// string pool (Type.String alone can't: it only knows the interned symbol,
// not the pool that names it).
func (p *printer) typeSpelling(t Type) string {
	if t.Named != 0 {
		return p.m.Name(t.Named)
	}
	return t.String()
}

func rangeSpelling(r Range) string {
	switch r {
	case RangeZeroOrOne:
		return "@range(?)"
	case RangeZeroOrMore:
		return "@range(*)"
	case RangeOneOrMore:
		return "@range(+)"
	default:
		return "@range(.)"
	}
}

func (p *printer) printClause(cl *Clause) {
	fmt.Fprintf(&p.buf, "%s(", p.declName(cl.Head))
	for i, v := range cl.HeadVars {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.buf.WriteString(p.varName(cl, v))
	}
	p.buf.WriteString(") :")

	first := true
	sep := func() {
		if !first {
			p.buf.WriteString(",")
		}
		p.buf.WriteString(" ")
		first = false
	}

	for _, use := range cl.Body.Positive {
		sep()
		p.printPredicateUse(cl, use, false)
	}
	for _, use := range cl.Body.Negated {
		sep()
		p.printPredicateUse(cl, use, true)
	}
	for _, cmp := range cl.Body.Comparisons {
		sep()
		fmt.Fprintf(&p.buf, "%s %s %s", p.printTerm(cl, cmp.LHS), cmp.Op.String(), p.printTerm(cl, cmp.RHS))
	}
	for _, asn := range cl.Body.Assignments {
		sep()
		fmt.Fprintf(&p.buf, "%s = %s", p.printTerm(cl, asn.Var), p.printTerm(cl, asn.Val))
	}
	for _, agg := range cl.Body.Aggregates {
		sep()
		fmt.Fprintf(&p.buf, "%s over %s", p.declName(agg.Functor), p.printPredicateUseString(cl, agg.Over))
	}

	p.buf.WriteString(".\n")
}

func (p *printer) printPredicateUse(cl *Clause, use PredicateUse, negated bool) {
	if negated {
		p.buf.WriteString("!")
	}
	p.buf.WriteString(p.printPredicateUseString(cl, use))
}

func (p *printer) printPredicateUseString(cl *Clause, use PredicateUse) string {
	var b strings.Builder
	b.WriteString(p.declName(use.Decl))
	b.WriteString("(")
	for i, arg := range use.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.printTerm(cl, arg))
	}
	b.WriteString(")")
	return b.String()
}

func (p *printer) printTerm(cl *Clause, t Term) string {
	if t.IsConst {
		switch t.Type.Kind {
		default:
			if t.ConstStr != 0 {
				return fmt.Sprintf("%q", p.m.Name(t.ConstStr))
			}
			return fmt.Sprintf("%d", t.ConstVal)
		}
	}
	return p.varName(cl, t.Var)
}

func (p *printer) varName(cl *Clause, id VarID) string {
	v := cl.Variable(id)
	if v == nil {
		return "_"
	}
	return p.m.Name(v.Name)
}

func (p *printer) printCodeBlock(cb *CodeBlock) {
	tag := p.m.Name(cb.Language)
	if cb.Ctor != 0 {
		tag += ":" + p.m.Name(cb.Ctor)
	}
	fmt.Fprintf(&p.buf, "```%s\n%s\n```\n", tag, p.m.Name(cb.Body))
}
