package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceSortOrdersInPlace(t *testing.T) {
	s := SequenceFrom([]int{3, 1, 2})
	s.Sort(func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, s.Slice())
}

func TestSequenceSortStablePreservesEqualOrder(t *testing.T) {
	type pair struct {
		key, seq int
	}
	s := SequenceFrom([]pair{{1, 0}, {1, 1}, {0, 2}})
	s.SortStable(func(a, b pair) bool { return a.key < b.key })
	got := s.Slice()
	assert.Equal(t, 0, got[0].key)
	assert.Equal(t, 1, got[1].key)
	assert.Equal(t, 0, got[1].seq)
	assert.Equal(t, 1, got[2].seq)
}
