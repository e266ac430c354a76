package diag

import "sort"

// Log accumulates Errors across a phase without aborting on the first one,
// mirroring spec.md §7's "collect everything, report together" policy: a
// lexer or parser that hit an invalid character doesn't stop scanning, it
// records the error and keeps going so the user sees every problem in one
// pass.
type Log struct {
	errors []*Error
}

// NewLog returns an empty Log.
func NewLog() *Log { return &Log{} }

// Add records err. Nil is ignored so call sites can write
// `log.Add(checkSomething())` without a nil guard.
func (l *Log) Add(err *Error) {
	if err == nil {
		return
	}
	l.errors = append(l.errors, err)
}

// Errors returns every recorded diagnostic, sorted by position. Advisories
// are not filtered out; callers that care use HasErrors or iterate and
// check Severity themselves.
func (l *Log) Errors() []*Error {
	sorted := make([]*Error, len(l.errors))
	copy(sorted, l.errors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i].Pos, sorted[j].Pos)
	})
	return sorted
}

// HasErrors reports whether any recorded diagnostic is SeverityError
// (advisories alone do not fail the phase).
func (l *Log) HasErrors() bool {
	for _, e := range l.errors {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of recorded diagnostics, errors and
// advisories together.
func (l *Log) Count() int { return len(l.errors) }

// Reset discards all recorded diagnostics, used between independent
// compilation units sharing one Log instance.
func (l *Log) Reset() { l.errors = l.errors[:0] }

func less(a, b interface {
	Line() uint32
	Column() uint32
}) bool {
	if a.Line() != b.Line() {
		return a.Line() < b.Line()
	}
	return a.Column() < b.Column()
}
