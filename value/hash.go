package value

import "github.com/qorelang/qcore/container"

// hashPayload backs KindHash: an insertion-ordered string-keyed map. The
// needsEval flag marks a parse-time hash literal whose values still
// contain un-evaluated expressions (spec C1 table); it changes only
// through SetNeedsEval, which no other package in this module calls.
type hashPayload struct {
	refCounted
	m         *container.OrderedMap[Value]
	needsEval bool
}

func (*hashPayload) kind() Kind { return KindHash }

func Hash() Value {
	return Value{k: KindHash, p: &hashPayload{m: container.NewOrderedMap[Value](), refCounted: refCounted{count: 1}}}
}

func (v Value) hashPayload() *hashPayload { return v.p.(*hashPayload) }

func (v Value) ensureUniqueHash() Value {
	p := v.hashPayload()
	if p.refs() == 1 {
		return v
	}
	return Value{k: KindHash, p: &hashPayload{m: p.m.Clone(), needsEval: p.needsEval, refCounted: refCounted{count: 1}}}
}

// HashLen returns the number of entries, or 0 for non-hashes.
func (v Value) HashLen() int {
	if v.k != KindHash {
		return 0
	}
	return v.hashPayload().m.Len()
}

// HashGet looks up key, returning (value, true) or (Nothing, false).
func (v Value) HashGet(key string) (Value, bool) {
	if v.k != KindHash {
		return Nothing(), false
	}
	return v.hashPayload().m.Get(key)
}

// HashMap exposes the backing ordered map for container-level operations.
func (v Value) HashMap() *container.OrderedMap[Value] {
	return v.hashPayload().m
}

// NeedsEval reports whether this hash literal still has un-evaluated
// expression values pending from parse time.
func (v Value) NeedsEval() bool {
	if v.k != KindHash {
		return false
	}
	return v.hashPayload().needsEval
}

// SetNeedsEval sets or clears the needsEval flag.
func (v Value) SetNeedsEval(needsEval bool) {
	if v.k == KindHash {
		v.hashPayload().needsEval = needsEval
	}
}

// HashKeys returns keys in insertion order.
func (v Value) HashKeys() []string {
	if v.k != KindHash {
		return nil
	}
	return v.hashPayload().m.Keys()
}
