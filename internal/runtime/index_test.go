package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAddRemoveLookup(t *testing.T) {
	idx := NewIndex[uint32, edgeKey]("by_from")
	idx.Add(1, edgeKey{1, 2})
	idx.Add(1, edgeKey{1, 3})
	idx.Add(2, edgeKey{2, 3})

	got := idx.Lookup(1)
	assert.ElementsMatch(t, []edgeKey{{1, 2}, {1, 3}}, got)

	idx.Remove(1, edgeKey{1, 2})
	assert.ElementsMatch(t, []edgeKey{{1, 3}}, idx.Lookup(1))

	idx.Remove(1, edgeKey{1, 3})
	assert.Empty(t, idx.Lookup(1))
}

func TestScanIndexSkipsRowsNoLongerPresent(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	idx := NewIndex[uint32, edgeKey]("by_from")

	tbl.InsertOrTransition(edgeKey{1, 2}, 100)
	idx.Add(1, edgeKey{1, 2})
	tbl.InsertOrTransition(edgeKey{1, 3}, 200)
	idx.Add(1, edgeKey{1, 3})

	// Retract one proof; the index entry is stale until codegen calls
	// Remove, but ScanIndex re-checks the backing table and excludes it.
	require.True(t, tbl.TryChangeState(edgeKey{1, 3}, Present, Unknown, 200))

	got := ScanIndex[uint32, edgeKey, int](tbl, idx, 1)
	require.Len(t, got, 1)
	assert.Equal(t, edgeKey{1, 2}, got[0].Key)
	assert.Equal(t, 100, got[0].Value)
}
