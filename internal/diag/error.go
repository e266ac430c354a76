package diag

import (
	"fmt"

	"github.com/roach88/drlc/internal/token"
)

// Code is a stable, documentable error identifier. The leading letter
// groups codes by the phase that raises them (spec.md §7):
//
//	L1xx  lexer errors           (invalid char, unterminated string/code, invalid number)
//	P2xx  parser errors          (unexpected token, unknown decl, arity/type mismatch, import cycle)
//	S3xx  semantic errors        (range restriction, binding, stratification, aggregate/message rules)
//	I4xx  internal/lowering bugs (invariant violations — never a user mistake)
type Code string

const (
	// Lexer
	ErrInvalidChar        Code = "L100"
	ErrUnterminatedString Code = "L101"
	ErrUnterminatedCode   Code = "L102"
	ErrInvalidNumber      Code = "L103"
	ErrInvalidTypeName    Code = "L104"

	// Parser
	ErrUnexpectedToken      Code = "P200"
	ErrUnknownDeclaration   Code = "P201"
	ErrArityMismatch        Code = "P202"
	ErrTypeMismatch         Code = "P203"
	ErrRedeclarationMismatch Code = "P204"
	ErrImportCycle          Code = "P205"
	ErrUnresolvedImport     Code = "P206"

	// Semantic
	ErrRangeRestriction   Code = "S300"
	ErrBindingUnsatisfied Code = "S301"
	ErrNegationInCycle    Code = "S302"
	ErrAggregateMisuse    Code = "S303"
	ErrMessagePlacement   Code = "S304"
	ErrDifferentialAggregate Code = "S305"

	// Internal / lowering invariant violations — bugs, not user errors.
	ErrInternalInvariant Code = "I400"
)

// Severity distinguishes hard failures from advisories that don't prevent
// lowering (e.g. the unresolved mutable-merge-over-index open question).
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityAdvisory
)

// Note is a chained sub-diagnostic pointing at related source, e.g. "see
// conflicting redeclaration here".
type Note struct {
	Pos     token.DisplayPosition
	Range   token.Range
	Message string
}

// Error is the unit every phase hands to the (external) diagnostic
// renderer: a position, an optional sub-range for carets, a code, a
// message, and any chained notes.
type Error struct {
	Code     Code
	Severity Severity
	Pos      token.DisplayPosition
	Range    token.Range
	Message  string
	Notes    []Note
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", e.Pos.String(), e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsBug reports whether this error indicates a compiler invariant
// violation rather than a problem with the user's source (spec.md §7.4).
func (e *Error) IsBug() bool { return e.Code == ErrInternalInvariant }

// New constructs an Error at pos with no sub-range or notes.
func New(code Code, pos token.DisplayPosition, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Advisory constructs a non-fatal Error, used for the open-question
// mutable-merge-over-index case (see DESIGN.md) and similar preserved-
// source-note situations spec.md §9 asks not to guess a rule for.
func Advisory(code Code, pos token.DisplayPosition, format string, args ...any) *Error {
	e := New(code, pos, format, args...)
	e.Severity = SeverityAdvisory
	return e
}

// WithNote appends a chained note and returns e for call chaining.
func (e *Error) WithNote(pos token.DisplayPosition, format string, args ...any) *Error {
	e.Notes = append(e.Notes, Note{Pos: pos, Message: fmt.Sprintf(format, args...)})
	return e
}
