package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionRefCountZeroMeansNotProvable(t *testing.T) {
	var c ConditionRefCount
	assert.False(t, c.Provable())

	c.Increment()
	assert.True(t, c.Provable())

	c.Increment()
	c.Decrement()
	assert.True(t, c.Provable(), "one proof still outstanding")

	c.Decrement()
	assert.False(t, c.Provable())
	assert.Equal(t, int64(0), c.Count())
}
