package runtime

// TupleState is a row's ternary differential-maintenance marker (spec.md
// §3): Absent, Present, or Unknown (a proof was retracted and the row
// awaits re-verification).
type TupleState uint8

const (
	Absent TupleState = iota
	Present
	Unknown
)

func (s TupleState) String() string {
	switch s {
	case Present:
		return "present"
	case Unknown:
		return "unknown"
	default:
		return "absent"
	}
}

// legalTransition reports whether from->to is one of the four transitions
// a TransitionState region ever compiles to (spec.md §3): Absent->Present
// on first proof, Present->Unknown when a proof is retracted, Unknown->
// Present when an alternative proof exists, Unknown->Absent when confirmed
// unprovable. Every other pair (including the identity transitions and the
// reverse Present->Absent) is illegal; a row only ever leaves Present by
// way of Unknown.
func legalTransition(from, to TupleState) bool {
	switch {
	case from == Absent && to == Present:
		return true
	case from == Present && to == Unknown:
		return true
	case from == Unknown && to == Present:
		return true
	case from == Unknown && to == Absent:
		return true
	default:
		return false
	}
}

// ChangeKind reports what InsertOrTransition actually did to a row.
type ChangeKind uint8

const (
	Unchanged ChangeKind = iota
	Inserted
	Changed
)

func (c ChangeKind) String() string {
	switch c {
	case Inserted:
		return "inserted"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}
