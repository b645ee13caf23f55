// Package container implements the ordered map, dense sequence and
// blocking queue data structures that back the value model's List and
// Hash variants and the thread/logger subsystems' message queues.
//
// Types here are generic and carry no reference-counting policy of their
// own — callers (value.Value, the queue appenders, the thread table) are
// responsible for acquiring/releasing the elements they store.
package container

import "lukechampine.com/uint128"

// Missing is a sentinel for "key absent". OrderedMap.Get does not return
// it: Get reports absence through its second (bool) result instead.
type missingType struct{}

var Missing = missingType{}

// OrderedMap is an insertion-ordered, string-keyed map. Re-assignment to an
// existing key does not change its position (spec Invariant 2).
type OrderedMap[V any] struct {
	order []string
	index map[string]int // key -> slot in order/values
	vals  map[string]V
}

func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{
		index: make(map[string]int),
		vals:  make(map[string]V),
	}
}

// fnv128 is used internally as a cheap, fixed-width hash for diagnostics
// (e.g. stable iteration-bucket sizing hints); Go's builtin map already
// does the real hashing, this just grounds key fingerprints for callers
// that want a stable 128-bit digest of a key (e.g. dedup across programs).
func fnv128(s string) uint128.Uint128 {
	h := uint128.From64(14695981039346656037)
	prime := uint128.From64(1099511628211)
	for i := 0; i < len(s); i++ {
		h = h.Mul(prime)
		h = h.Add(uint128.From64(uint64(s[i])))
	}
	return h
}

// Fingerprint returns a stable 128-bit digest of a key.
func Fingerprint(key string) uint128.Uint128 {
	return fnv128(key)
}

// Len reports the number of entries.
func (m *OrderedMap[V]) Len() int { return len(m.order) }

// Get returns the value and true if key is present, else the zero value
// and false. Never fails.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set inserts or overwrites key. Overwriting an existing key preserves its
// position in iteration order.
func (m *OrderedMap[V]) Set(key string, v V) {
	if _, ok := m.index[key]; ok {
		m.vals[key] = v
		return
	}
	m.index[key] = len(m.order)
	m.order = append(m.order, key)
	m.vals[key] = v
}

// Delete removes key if present.
func (m *OrderedMap[V]) Delete(key string) {
	pos, ok := m.index[key]
	if !ok {
		return
	}
	delete(m.index, key)
	delete(m.vals, key)
	m.order = append(m.order[:pos], m.order[pos+1:]...)
	for i := pos; i < len(m.order); i++ {
		m.index[m.order[i]] = i
	}
}

// Take removes key and returns its value, transferring ownership to the
// caller (who becomes responsible for release semantics upstream).
func (m *OrderedMap[V]) Take(key string) (V, bool) {
	v, ok := m.vals[key]
	if ok {
		m.Delete(key)
	}
	return v, ok
}

// Keys returns keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Each iterates entries in insertion order.
func (m *OrderedMap[V]) Each(fn func(key string, v V) bool) {
	for _, k := range m.order {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// DuplicatePolicy controls Merge's behavior on a key collision. qcore only
// ever overwrites (spec: "for each entry in other, overwrite own entry"),
// but the enum is kept for symmetry with callers that may want to extend
// it (e.g. "keep existing") without changing Merge's signature.
type DuplicatePolicy int

const (
	DuplicateOverwrite DuplicatePolicy = iota
)

// Merge copies every entry of other into m, overwriting on key collision.
func (m *OrderedMap[V]) Merge(other *OrderedMap[V], policy DuplicatePolicy) {
	other.Each(func(k string, v V) bool {
		m.Set(k, v)
		return true
	})
}

// Clone returns a shallow copy with independent ordering/index storage
// (used for copy-on-write by value.Value.EnsureUnique).
func (m *OrderedMap[V]) Clone() *OrderedMap[V] {
	cp := NewOrderedMap[V]()
	m.Each(func(k string, v V) bool {
		cp.Set(k, v)
		return true
	})
	return cp
}
