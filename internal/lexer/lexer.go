package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/drlc/internal/token"
)

// Config controls whitespace handling. TabWidth and UseTabStops affect only
// column numbers reported in diagnostics, never token boundaries.
type Config struct {
	TabWidth    int
	UseTabStops bool
}

// DefaultConfig matches most terminal conventions.
var DefaultConfig = Config{TabWidth: 8, UseTabStops: true}

var directives = map[string]token.Kind{
	"local": token.KwLocal, "export": token.KwExport, "query": token.KwQuery,
	"message": token.KwMessage, "functor": token.KwFunctor, "foreign": token.KwForeign,
	"constant": token.KwConstant, "import": token.KwImport,
	"prologue": token.KwPrologue, "epilogue": token.KwEpilogue,
}

var pragmas = map[string]token.Kind{
	"highlight": token.PragmaHighlight, "impure": token.PragmaImpure,
	"product": token.PragmaProduct, "range": token.PragmaRange,
	"inline": token.PragmaInline, "differential": token.PragmaDifferential,
	"transparent": token.PragmaTransparent,
}

var keywords = map[string]token.Kind{
	"bool": token.KwBool, "utf8": token.KwUTF8, "ascii": token.KwASCII,
	"bytes": token.KwBytes, "uuid": token.KwUUID,
	"bound": token.KwBound, "free": token.KwFree, "aggregate": token.KwAggregate,
	"summary": token.KwSummary, "mutable": token.KwMutable, "over": token.KwOver,
}

// Lexer scans a single source display into tokens. It is not safe for
// concurrent use; construct one per display.
type Lexer struct {
	pool    *token.Pool
	display token.DisplayID
	src     []byte
	cfg     Config

	offset int
	line   uint32
	column uint32
}

// New constructs a Lexer over src, interning spellings into pool.
func New(pool *token.Pool, display token.DisplayID, src []byte, cfg Config) *Lexer {
	return &Lexer{pool: pool, display: display, src: src, cfg: cfg, line: 1, column: 1}
}

// All drains the lexer, returning every token including a trailing EOF.
// Whitespace and comment tokens are omitted (the parser never needs them;
// line breaks are already folded into position tracking).
func All(l *Lexer) []token.Token {
	var out []token.Token
	for {
		t := l.Next()
		if t.Kind == token.Whitespace || t.Kind == token.Comment {
			continue
		}
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (l *Lexer) pos() token.DisplayPosition {
	return token.NewDisplayPosition(l.display, uint32(l.offset), l.line, l.column)
}

func (l *Lexer) peekByte() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *Lexer) advance() byte {
	c := l.src[l.offset]
	l.offset++
	if c == '\n' {
		l.line++
		l.column = 1
	} else if c == '\t' && l.cfg.UseTabStops {
		w := l.cfg.TabWidth
		if w <= 0 {
			w = 1
		}
		l.column += uint32(w) - ((l.column - 1) % uint32(w))
	} else {
		l.column++
	}
	return c
}

// Next scans and returns the single next token, advancing the cursor.
func (l *Lexer) Next() token.Token {
	l.skipInsignificantWhitespace()

	start := l.pos()
	if l.offset >= len(l.src) {
		return token.Token{Kind: token.EOF, Range: token.Range{Begin: start, End: start}}
	}

	c := l.peekByte()
	switch {
	case c == '/' && l.peekAt(1) == '/':
		return l.lexLineComment(start)
	case c == '#':
		return l.lexDirective(start)
	case c == '@':
		return l.lexPragma(start)
	case c == '`' && l.peekAt(1) == '`' && l.peekAt(2) == '`':
		return l.lexCodeBlock(start)
	case c == '"':
		return l.lexString(start)
	case c >= '0' && c <= '9':
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdentOrKeyword(start)
	default:
		return l.lexPunctuationOrError(start)
	}
}

func (l *Lexer) skipInsignificantWhitespace() {
	for l.offset < len(l.src) {
		c := l.peekByte()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.advance()
			continue
		}
		break
	}
}

func (l *Lexer) lexLineComment(start token.DisplayPosition) token.Token {
	for l.offset < len(l.src) && l.peekByte() != '\n' {
		l.advance()
	}
	return token.Token{Kind: token.Comment, Range: token.Range{Begin: start, End: l.pos()}}
}

func (l *Lexer) lexDirective(start token.DisplayPosition) token.Token {
	l.advance() // '#'
	word := l.scanWord()
	if kind, ok := directives[word]; ok {
		return token.Token{Kind: kind, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
	}
	return token.Token{
		Kind: token.ErrorInvalidType, Range: token.Range{Begin: start, End: l.pos()},
		Spelling: l.pool.Intern("#" + word),
	}
}

func (l *Lexer) lexPragma(start token.DisplayPosition) token.Token {
	l.advance() // '@'
	word := l.scanWord()
	if kind, ok := pragmas[word]; ok {
		return token.Token{Kind: kind, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
	}
	return token.Token{
		Kind: token.ErrorInvalidChar, Range: token.Range{Begin: start, End: l.pos()},
		Spelling: l.pool.Intern("@" + word),
	}
}

func (l *Lexer) scanWord() string {
	var b strings.Builder
	for l.offset < len(l.src) {
		c := l.peekByte()
		if isIdentPart(c) {
			b.WriteByte(c)
			l.advance()
			continue
		}
		break
	}
	return b.String()
}

func (l *Lexer) lexCodeBlock(start token.DisplayPosition) token.Token {
	l.advance()
	l.advance()
	l.advance() // ```
	lang := l.scanWord()
	var ctor string
	if l.peekByte() == ':' {
		l.advance()
		ctor = l.scanWord()
	}
	// Skip to end of the fence line.
	for l.offset < len(l.src) && l.peekByte() != '\n' {
		l.advance()
	}
	if l.offset < len(l.src) {
		l.advance() // consume newline
	}

	var body strings.Builder
	for {
		if l.offset >= len(l.src) {
			return token.Token{
				Kind: token.ErrorUnterminatedCode, Range: token.Range{Begin: start, End: l.pos()},
				Spelling: l.pool.Intern(body.String()),
			}
		}
		if l.peekByte() == '`' && l.peekAt(1) == '`' && l.peekAt(2) == '`' {
			l.advance()
			l.advance()
			l.advance()
			break
		}
		body.WriteByte(l.advance())
	}

	return token.Token{
		Kind: token.CodeBlock, Range: token.Range{Begin: start, End: l.pos()},
		Spelling: l.pool.Intern(body.String()),
		CodeLang: l.pool.Intern(lang), CodeCtor: l.pool.Intern(ctor),
	}
}

func (l *Lexer) lexString(start token.DisplayPosition) token.Token {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.offset >= len(l.src) {
			return token.Token{Kind: token.ErrorUnterminatedString, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(b.String())}
		}
		c := l.peekByte()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\\' && l.offset+1 < len(l.src) {
			l.advance()
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(esc)
			default:
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(l.advance())
	}
	return token.Token{Kind: token.StringLiteral, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(b.String())}
}

func (l *Lexer) lexNumber(start token.DisplayPosition) token.Token {
	var b strings.Builder
	for l.offset < len(l.src) && isDigit(l.peekByte()) {
		b.WriteByte(l.advance())
	}
	if l.offset < len(l.src) && (l.peekByte() == '.' && isDigit(l.peekAt(1))) {
		// Floats are not a supported literal type (fN is a declared type, not
		// a float literal) — reject as an invalid number per spec.md §7.1.
		b.WriteByte(l.advance())
		for l.offset < len(l.src) && isDigit(l.peekByte()) {
			b.WriteByte(l.advance())
		}
		return token.Token{Kind: token.ErrorInvalidNumber, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(b.String())}
	}

	var value int64
	for _, c := range b.String() {
		value = value*10 + int64(c-'0')
	}
	return token.Token{Kind: token.IntLiteral, Range: token.Range{Begin: start, End: l.pos()}, IntValue: value, Spelling: l.pool.Intern(b.String())}
}

func (l *Lexer) lexIdentOrKeyword(start token.DisplayPosition) token.Token {
	word := l.scanWord()

	if kind, ok := keywords[word]; ok {
		return token.Token{Kind: kind, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
	}
	if kind, ok := sizedTypeKind(word); ok {
		return token.Token{Kind: kind, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
	}

	r, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(r) || r == '_' {
		return token.Token{Kind: token.Variable, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
	}
	return token.Token{Kind: token.Atom, Range: token.Range{Begin: start, End: l.pos()}, Spelling: l.pool.Intern(word)}
}

// sizedTypeKind recognizes iN/uN/fN type spellings (e.g. "i32", "u64", "f32").
func sizedTypeKind(word string) (token.Kind, bool) {
	if len(word) < 2 {
		return 0, false
	}
	prefix := word[0]
	rest := word[1:]
	for _, c := range rest {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	switch prefix {
	case 'i':
		return token.KwSignedInt, true
	case 'u':
		return token.KwUnsignedInt, true
	case 'f':
		return token.KwFloat, true
	}
	return 0, false
}

func (l *Lexer) lexPunctuationOrError(start token.DisplayPosition) token.Token {
	c := l.advance()
	mk := func(k token.Kind) token.Token {
		return token.Token{Kind: k, Range: token.Range{Begin: start, End: l.pos()}}
	}
	switch c {
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case ',':
		return mk(token.Comma)
	case '.':
		return mk(token.Period)
	case ':':
		return mk(token.Colon)
	case '?':
		return mk(token.Question)
	case '*':
		return mk(token.Star)
	case '+':
		return mk(token.Plus)
	case '=':
		return mk(token.Equal)
	case '<':
		if l.peekByte() == '=' {
			l.advance()
			return mk(token.LessEqual)
		}
		return mk(token.Less)
	case '>':
		if l.peekByte() == '=' {
			l.advance()
			return mk(token.GreaterEqual)
		}
		return mk(token.Greater)
	case '!':
		if l.peekByte() == '=' {
			l.advance()
			return mk(token.NotEqual)
		}
		return mk(token.Bang)
	default:
		return token.Token{
			Kind: token.ErrorInvalidChar, Range: token.Range{Begin: start, End: l.pos()},
			Spelling: l.pool.Intern(string(rune(c))),
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
