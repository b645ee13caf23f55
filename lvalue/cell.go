// Package lvalue implements the LValueHelper scoped location/locking
// protocol (spec §4.3): resolving a storage cell named by an lvalue
// expression, locking whatever objects guard it in a deterministic order,
// and exposing typed read/modify/write operations.
package lvalue

import (
	"sync"

	"github.com/qorelang/qcore/value"
)

// Cell is the storage backing a local, global, or closure-captured
// variable: a single Value slot guarded by its own mutex. It is not an
// Object, so it does not participate in the cross-object lock-ordering
// discipline — only one Cell is ever locked at a time for a given lvalue.
type Cell struct {
	mu  sync.Mutex
	val value.Value
}

// NewCell wraps an initial value (which must already be owned by the
// caller; Cell takes over its reference).
func NewCell(v value.Value) *Cell {
	return &Cell{val: v}
}

func (c *Cell) get() value.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

func (c *Cell) set(v value.Value) {
	c.mu.Lock()
	old := c.val
	c.val = v
	c.mu.Unlock()
	old.Release()
}

// Get/Set implement value.LValueLocator directly, so a Cell can back a
// Reference value with no LValueHelper in the loop (e.g. a hidden local
// materialized for a by-reference call argument, spec §4.3 paragraph 2).
func (c *Cell) Get() (value.Value, error) { return c.get(), nil }
func (c *Cell) Set(v value.Value) error   { c.set(v); return nil }
