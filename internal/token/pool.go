package token

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Symbol is an interned string id. Two spellings that are Unicode-equal
// after NFC normalization intern to the same Symbol, so identifier
// comparisons downstream are plain integer comparisons.
type Symbol uint32

// InvalidSymbol is returned for interning failures (never produced by Pool.Intern).
const InvalidSymbol Symbol = 0

// Pool is a process-wide interning table for identifier and string-literal
// spellings. Lifecycle matches the compiler process; entries are never
// freed piecewise (mirrors the teacher's content-addressed stores, which
// are also append-only for the life of a run).
type Pool struct {
	mu      sync.Mutex
	strings []string
	index   map[string]Symbol
}

// NewPool creates an empty pool. Symbol 0 is reserved (InvalidSymbol) so a
// zero-value Symbol is never confused with a real interned string.
func NewPool() *Pool {
	return &Pool{
		strings: []string{""},
		index:   map[string]Symbol{"": 0},
	}
}

// Intern normalizes s to NFC and returns its Symbol, assigning a new one
// on first sight.
func (p *Pool) Intern(s string) Symbol {
	normalized := norm.NFC.String(s)

	p.mu.Lock()
	defer p.mu.Unlock()

	if sym, ok := p.index[normalized]; ok {
		return sym
	}
	sym := Symbol(len(p.strings))
	p.strings = append(p.strings, normalized)
	p.index[normalized] = sym
	return sym
}

// String returns the spelling for sym, or "" if sym is unknown to this pool.
func (p *Pool) String(sym Symbol) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if int(sym) < 0 || int(sym) >= len(p.strings) {
		return ""
	}
	return p.strings[sym]
}

// Len returns the number of distinct interned strings, including the
// reserved empty string at index 0.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.strings)
}
