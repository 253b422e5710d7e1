package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder_SortsByCreation(t *testing.T) {
	t.Parallel()

	a := NewOrder()
	b := NewOrder()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "later orders sort after earlier ones, even within a millisecond")
}

func TestNewOrder_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewOrder()
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
}
