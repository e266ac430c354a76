package token

// Kind enumerates the lexeme categories the lexer produces. Grouped the way
// spec.md §4.1 groups them: directives, types, binding keywords,
// punctuation, literals, identifiers, pragmas, plus whitespace/comment/
// error categories that the parser skips or surfaces as diagnostics.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Whitespace
	Comment

	// Directives
	KwLocal
	KwExport
	KwQuery
	KwMessage
	KwFunctor
	KwForeign
	KwConstant
	KwImport
	KwPrologue
	KwEpilogue

	// Type names
	KwBool
	KwSignedInt  // iN
	KwUnsignedInt // uN
	KwFloat      // fN
	KwUTF8
	KwASCII
	KwBytes
	KwUUID

	// Binding keywords
	KwBound
	KwFree
	KwAggregate
	KwSummary
	KwMutable
	KwOver

	// Punctuation
	LParen
	RParen
	Comma
	Period
	Colon
	Question
	Bang
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	Star
	Plus

	// Literals
	IntLiteral
	StringLiteral
	CodeBlock

	// Identifiers
	Atom     // lower-case leading
	Variable // upper-case or "_" leading

	// Pragmas
	PragmaHighlight
	PragmaImpure
	PragmaProduct
	PragmaRange
	PragmaInline
	PragmaDifferential
	PragmaTransparent

	// Error lexeme: carries the offending character so the parser can keep going.
	ErrorInvalidChar
	ErrorUnterminatedString
	ErrorUnterminatedCode
	ErrorInvalidNumber
	ErrorInvalidType
)

var kindNames = map[Kind]string{
	Invalid: "<invalid>", EOF: "<eof>",
	Whitespace: "whitespace", Comment: "comment",
	KwLocal: "#local", KwExport: "#export", KwQuery: "#query", KwMessage: "#message",
	KwFunctor: "#functor", KwForeign: "#foreign", KwConstant: "#constant",
	KwImport: "#import", KwPrologue: "#prologue", KwEpilogue: "#epilogue",
	KwBool: "bool", KwSignedInt: "iN", KwUnsignedInt: "uN", KwFloat: "fN",
	KwUTF8: "utf8", KwASCII: "ascii", KwBytes: "bytes", KwUUID: "uuid",
	KwBound: "bound", KwFree: "free", KwAggregate: "aggregate", KwSummary: "summary",
	KwMutable: "mutable", KwOver: "over",
	LParen: "(", RParen: ")", Comma: ",", Period: ".", Colon: ":",
	Question: "?", Bang: "!", Equal: "=", NotEqual: "!=",
	Less: "<", Greater: ">", LessEqual: "<=", GreaterEqual: ">=",
	Star: "*", Plus: "+",
	IntLiteral: "int-literal", StringLiteral: "string-literal", CodeBlock: "code-block",
	Atom: "atom", Variable: "variable",
	PragmaHighlight: "@highlight", PragmaImpure: "@impure", PragmaProduct: "@product",
	PragmaRange: "@range", PragmaInline: "@inline", PragmaDifferential: "@differential",
	PragmaTransparent: "@transparent",
	ErrorInvalidChar: "invalid-character", ErrorUnterminatedString: "unterminated-string",
	ErrorUnterminatedCode: "unterminated-code", ErrorInvalidNumber: "invalid-number",
	ErrorInvalidType: "invalid-type",
}

// String renders a human-readable name for diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "<unknown-kind>"
}

// IsError reports whether the lexeme is one of the lexer's error kinds.
func (k Kind) IsError() bool {
	return k >= ErrorInvalidChar && k <= ErrorInvalidType
}

// IsPragma reports whether the lexeme is a `@pragma` annotation.
func (k Kind) IsPragma() bool {
	return k >= PragmaHighlight && k <= PragmaTransparent
}

// IsDirective reports whether the lexeme opens a top-level declaration form.
func (k Kind) IsDirective() bool {
	return k >= KwLocal && k <= KwEpilogue
}

// Token is a single lexeme: its kind, its source range, and, for
// identifiers/strings/numbers/code blocks, an interned spelling plus
// (for code blocks) a language tag and optional constructor suffix.
type Token struct {
	Kind     Kind
	Range    Range
	Spelling Symbol // interned text for Atom/Variable/StringLiteral/CodeBlock/ErrorInvalidChar
	IntValue int64  // populated for IntLiteral

	// CodeLang and CodeCtor are populated only for CodeBlock tokens: the
	// fenced code's language tag (```cxx) and an optional constructor
	// suffix (```cxx:MyType) used by #functor bodies supplying inline code.
	CodeLang Symbol
	CodeCtor Symbol
}

// Pos returns the token's starting position, the common case callers need
// for diagnostics.
func (t Token) Pos() DisplayPosition { return t.Range.Begin }
