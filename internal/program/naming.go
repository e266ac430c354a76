package program

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/drlc/internal/token"
)

// namingNamespace seeds every deterministic name this package mints. Fixed
// at rest so the same clause, compiled twice, derives the same UUIDv5
// suffix both times (SPEC_FULL.md's "byte-identical output" requirement);
// the teacher's flow.go uses UUIDv7 for time-sortable, non-deterministic
// flow tokens (see UUIDv7Generator), the opposite property this package
// needs, hence NewSHA1/UUIDv5 instead.
var namingNamespace = uuid.MustParse("1b2e6f2c-7a4d-4b8a-9b0e-6e3c2a9d4f10")

// deterministicName derives a stable name for an induction region or
// anonymous variable from its clause's source position plus a
// discriminator (e.g. "induction", "anon-var"), so unrelated clauses at
// different positions never collide and the same clause always yields the
// same name.
func deterministicName(prefix string, pos token.DisplayPosition, discriminator string) string {
	seed := fmt.Sprintf("%d:%d:%d:%s", pos.Display(), pos.Offset(), pos.Column(), discriminator)
	id := uuid.NewSHA1(namingNamespace, []byte(seed))
	return fmt.Sprintf("%s_%s", prefix, id.String())
}
