package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edgeKey struct{ From, To uint32 }

func TestTableGetStateAbsentByDefault(t *testing.T) {
	tbl := NewTable[edgeKey, struct{}]("edge", nil)
	assert.Equal(t, Absent, tbl.GetState(edgeKey{1, 2}))
}

func TestTableTryChangeStateFollowsLegalTransitions(t *testing.T) {
	tbl := NewTable[edgeKey, struct{}]("edge", nil)
	key := edgeKey{1, 2}

	require.True(t, tbl.TryChangeState(key, Absent, Present, struct{}{}))
	assert.Equal(t, Present, tbl.GetState(key))

	// Present can never go straight back to Absent.
	assert.False(t, tbl.TryChangeState(key, Present, Absent, struct{}{}))
	assert.Equal(t, Present, tbl.GetState(key))

	require.True(t, tbl.TryChangeState(key, Present, Unknown, struct{}{}))
	assert.Equal(t, Unknown, tbl.GetState(key))

	require.True(t, tbl.TryChangeState(key, Unknown, Absent, struct{}{}))
	assert.Equal(t, Absent, tbl.GetState(key))
}

func TestTableTryChangeStateRejectsStaleFrom(t *testing.T) {
	tbl := NewTable[edgeKey, struct{}]("edge", nil)
	key := edgeKey{1, 2}
	require.True(t, tbl.TryChangeState(key, Absent, Present, struct{}{}))

	// A second writer racing on the same stale "from" loses.
	assert.False(t, tbl.TryChangeState(key, Absent, Present, struct{}{}))
}

func TestTableInsertOrTransition(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	key := edgeKey{1, 2}

	assert.Equal(t, Inserted, tbl.InsertOrTransition(key, 10))
	assert.Equal(t, Unchanged, tbl.InsertOrTransition(key, 20))

	require.True(t, tbl.TryChangeState(key, Present, Unknown, 10))
	assert.Equal(t, Changed, tbl.InsertOrTransition(key, 30))
	v, state, ok := tbl.Get(key)
	require.True(t, ok)
	assert.Equal(t, Present, state)
	assert.Equal(t, 30, v)
}

func TestTableScanYieldsOnlyPresentRows(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	tbl.InsertOrTransition(edgeKey{1, 2}, 1)
	tbl.InsertOrTransition(edgeKey{2, 3}, 2)
	require.True(t, tbl.TryChangeState(edgeKey{2, 3}, Present, Unknown, 2))

	rows, release := tbl.Scan()
	defer release()
	require.Len(t, rows, 1)
	assert.Equal(t, edgeKey{1, 2}, rows[0].Key)
	assert.Equal(t, 1, rows[0].Value)
}
