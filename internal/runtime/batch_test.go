package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommitKeepsTransitions(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	b := NewBatch(nil)

	require.True(t, Transition(b, tbl, edgeKey{1, 2}, Absent, Present, 5))
	b.Commit()

	assert.Equal(t, Present, tbl.GetState(edgeKey{1, 2}))
}

func TestBatchAbortRevertsInReverseOrder(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	b := NewBatch(nil)

	require.True(t, Transition(b, tbl, edgeKey{1, 2}, Absent, Present, 5))
	require.True(t, Transition(b, tbl, edgeKey{1, 2}, Present, Unknown, 5))
	require.Equal(t, 2, b.Len())

	b.Abort()

	// The key never existed before this batch, so aborting must leave it
	// fully Absent again, not stuck at some intermediate state.
	assert.Equal(t, Absent, tbl.GetState(edgeKey{1, 2}))
}

func TestBatchAbortRestoresPriorValueOnExistingRow(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	tbl.InsertOrTransition(edgeKey{1, 2}, 1)

	b := NewBatch(nil)
	require.True(t, Transition(b, tbl, edgeKey{1, 2}, Present, Unknown, 1))
	require.True(t, Transition(b, tbl, edgeKey{1, 2}, Unknown, Present, 99))

	b.Abort()

	v, state, ok := tbl.Get(edgeKey{1, 2})
	require.True(t, ok)
	assert.Equal(t, Present, state)
	assert.Equal(t, 1, v)
}

func TestTransitionRejectsIllegalTransition(t *testing.T) {
	tbl := NewTable[edgeKey, int]("edge", nil)
	b := NewBatch(nil)
	assert.False(t, Transition(b, tbl, edgeKey{1, 2}, Present, Absent, 1))
	assert.Equal(t, 0, b.Len())
}
