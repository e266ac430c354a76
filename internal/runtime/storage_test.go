package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTableAndGetTableRoundTrip(t *testing.T) {
	s := NewStorage()
	tbl := RegisterTable(s, "edge", NewTable[edgeKey, int]("edge", nil))
	tbl.InsertOrTransition(edgeKey{1, 2}, 7)

	got, ok := GetTable[edgeKey, int](s, "edge")
	require.True(t, ok)
	assert.Same(t, tbl, got)

	_, ok = GetTable[edgeKey, string](s, "edge")
	assert.False(t, ok, "type mismatch should fail the lookup")

	_, ok = GetTable[edgeKey, int](s, "missing")
	assert.False(t, ok)
}

func TestRegisterTablePanicsOnDuplicateName(t *testing.T) {
	s := NewStorage()
	RegisterTable(s, "edge", NewTable[edgeKey, int]("edge", nil))
	assert.Panics(t, func() {
		RegisterTable(s, "edge", NewTable[edgeKey, int]("edge", nil))
	})
}
