package container

import "github.com/google/btree"

// sortedItem adapts a row index plus comparable sort key into a btree.Item.
// The tree is always built in ascending order; SortedIndex.Each walks it
// forwards or backwards depending on the requested direction instead of
// flipping Less per item, so every item in a tree agrees on one ordering.
type sortedItem[K any] struct {
	key  K
	row  int
	less func(a, b K) bool
}

func (s sortedItem[K]) Less(than btree.Item) bool {
	o := than.(sortedItem[K])
	if s.less(s.key, o.key) {
		return true
	}
	if s.less(o.key, s.key) {
		return false
	}
	// Equal keys: order by row so every row keeps its own tree entry.
	return s.row < o.row
}

// SortedIndex orders row indices by an arbitrary key, used by the
// evaluator's context/subcontext statement to implement sort_ascending /
// sort_descending without re-sorting the whole backing table on every
// access.
type SortedIndex[K any] struct {
	tree *btree.BTree
	less func(a, b K) bool
	desc bool
}

// NewSortedIndex builds an index over n rows. less defines ascending
// order; set descending to reverse iteration direction.
func NewSortedIndex[K any](n int, descending bool, less func(a, b K) bool, keyOf func(row int) K) *SortedIndex[K] {
	idx := &SortedIndex[K]{tree: btree.New(32), less: less, desc: descending}
	for i := 0; i < n; i++ {
		idx.tree.ReplaceOrInsert(sortedItem[K]{key: keyOf(i), row: i, less: less})
	}
	return idx
}

// Each walks rows in sorted order (ascending or descending per
// construction), stopping early if fn returns false.
func (idx *SortedIndex[K]) Each(fn func(row int) bool) {
	walk := func(item btree.Item) bool {
		return fn(item.(sortedItem[K]).row)
	}
	if idx.desc {
		idx.tree.Descend(walk)
		return
	}
	idx.tree.Ascend(walk)
}
