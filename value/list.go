package value

import "github.com/qorelang/qcore/container"

// listPayload backs KindList: a dense sequence that may contain Nothing
// "gaps" (spec: "Preserves nothing-gaps").
type listPayload struct {
	refCounted
	seq *container.Sequence[Value]
}

func (*listPayload) kind() Kind { return KindList }

func List(items ...Value) Value {
	return Value{k: KindList, p: &listPayload{seq: container.SequenceFrom(items), refCounted: refCounted{count: 1}}}
}

func EmptyList() Value { return List() }

func (v Value) listPayload() *listPayload { return v.p.(*listPayload) }

func (v Value) ensureUniqueList() Value {
	p := v.listPayload()
	if p.refs() == 1 {
		return v
	}
	return Value{k: KindList, p: &listPayload{seq: p.seq.Clone(), refCounted: refCounted{count: 1}}}
}

// ListLen returns the length of a List value, or 0 for non-lists.
func (v Value) ListLen() int {
	if v.k != KindList {
		return 0
	}
	return v.listPayload().seq.Len()
}

// ListAt returns the element at i, or Nothing if out of range.
func (v Value) ListAt(i int) Value {
	if v.k != KindList {
		return Nothing()
	}
	e, ok := v.listPayload().seq.At(i)
	if !ok {
		return Nothing()
	}
	return e
}

// ListSeq exposes the backing sequence for container-level operations
// (push/pop/splice/sort) implemented in the container package itself.
func (v Value) ListSeq() *container.Sequence[Value] {
	return v.listPayload().seq
}

// ListSort reorders a List in place per spec §4.2.2's sort/sort_descending/
// sort_stable/sort_descending_stable: cmp is a three-way comparator (see
// CompareSoft for the default, used when no callback is given), descending
// reverses the resulting order, and stable selects SortStable over Sort so
// callers can pick the ordering guarantee the spec name implies.
func (v Value) ListSort(cmp func(a, b Value) int, descending, stable bool) {
	if v.k != KindList {
		return
	}
	less := func(a, b Value) bool {
		c := cmp(a, b)
		if descending {
			return c > 0
		}
		return c < 0
	}
	seq := v.listPayload().seq
	if stable {
		seq.SortStable(less)
	} else {
		seq.Sort(less)
	}
}

// ListItems returns a snapshot slice of the list's elements.
func (v Value) ListItems() []Value {
	if v.k != KindList {
		return nil
	}
	src := v.listPayload().seq.Slice()
	out := make([]Value, len(src))
	copy(out, src)
	return out
}
