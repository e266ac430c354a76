package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorAppendAndAll(t *testing.T) {
	v := NewVector[int](0)
	v.Append(1, 2, 3)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, []int{1, 2, 3}, v.All())
}

func TestVectorClearResetsToEmpty(t *testing.T) {
	v := NewVector[int](0)
	v.Append(1, 2, 3)
	v.Clear()
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.All())
}

func TestVectorSwapExchangesContents(t *testing.T) {
	a := NewVector[int](0)
	b := NewVector[int](0)
	a.Append(1, 2)
	b.Append(9)

	a.Swap(b)
	assert.Equal(t, []int{9}, a.All())
	assert.Equal(t, []int{1, 2}, b.All())
}

func TestVectorSwapWithSelfIsNoop(t *testing.T) {
	a := NewVector[int](0)
	a.Append(1, 2)
	a.Swap(a)
	assert.Equal(t, []int{1, 2}, a.All())
}
