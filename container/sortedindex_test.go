package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedIndexAscending(t *testing.T) {
	keys := []int{30, 10, 20}
	idx := NewSortedIndex(len(keys), false, func(a, b int) bool { return a < b }, func(row int) int { return keys[row] })
	var out []int
	idx.Each(func(row int) bool {
		out = append(out, keys[row])
		return true
	})
	assert.Equal(t, []int{10, 20, 30}, out)
}

func TestSortedIndexDescending(t *testing.T) {
	keys := []int{30, 10, 20}
	idx := NewSortedIndex(len(keys), true, func(a, b int) bool { return a < b }, func(row int) int { return keys[row] })
	var out []int
	idx.Each(func(row int) bool {
		out = append(out, keys[row])
		return true
	})
	assert.Equal(t, []int{30, 20, 10}, out)
}
