package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddReportsNewMembership(t *testing.T) {
	s := NewSet[int]()
	assert.True(t, s.Add(1))
	assert.False(t, s.Add(1))
	assert.True(t, s.Contains(1))
	assert.Equal(t, 1, s.Len())
}

func TestUniqueDropsDuplicatesKeepingFirstOccurrence(t *testing.T) {
	v := NewVector[int](0)
	v.Append(1, 2, 1, 3, 2, 4)
	Unique(v)
	assert.Equal(t, []int{1, 2, 3, 4}, v.All())
}
