package lvalue

import "github.com/qorelang/qcore/value"

// ForObjectMember builds a helper over a single object's named field.
// chain additionally lists any intervening objects the lvalue expression
// passed through (e.g. `self.a.b` where `a`'s value is itself an Object);
// all of them are locked alongside obj in pointer-ascending order.
func ForObjectMember(thread value.ThreadID, obj *value.ObjectPayload, member string, chain ...*value.ObjectPayload) (*LValueHelper, error) {
	objects := append([]*value.ObjectPayload{obj}, chain...)
	get := func() (value.Value, error) { return obj.GetMember(member) }
	set := func(v value.Value) error { return obj.SetMember(member, v) }
	return New(thread, objects, get, set)
}

// ForListIndex builds a helper over a single index of a List value held
// in parent (a Cell, or any get/set pair supplied by the caller for a
// container nested inside a Hash/List/Object field). idx is clamped the
// same way container.Sequence.Set fills holes: writes past the current
// length extend the list with Nothing.
func ForListIndex(thread value.ThreadID, objects []*value.ObjectPayload, parentGet func() (value.Value, error), parentSet func(value.Value) error, idx int) (*LValueHelper, error) {
	get := func() (value.Value, error) {
		parent, err := parentGet()
		if err != nil {
			return value.Value{}, err
		}
		return parent.ListAt(idx), nil
	}
	set := func(v value.Value) error {
		parent, err := parentGet()
		if err != nil {
			return err
		}
		unique := parent.EnsureUnique()
		unique.ListSeq().Set(idx, v, value.Nothing)
		if unique != parent {
			return parentSet(unique)
		}
		return nil
	}
	return New(thread, objects, get, set)
}

// ForHashKey builds a helper over a single key of a Hash value, following
// the same nested-parent convention as ForListIndex.
func ForHashKey(thread value.ThreadID, objects []*value.ObjectPayload, parentGet func() (value.Value, error), parentSet func(value.Value) error, key string) (*LValueHelper, error) {
	get := func() (value.Value, error) {
		parent, err := parentGet()
		if err != nil {
			return value.Value{}, err
		}
		v, _ := parent.HashGet(key)
		return v, nil
	}
	set := func(v value.Value) error {
		parent, err := parentGet()
		if err != nil {
			return err
		}
		unique := parent.EnsureUnique()
		unique.HashMap().Set(key, v)
		if unique != parent {
			return parentSet(unique)
		}
		return nil
	}
	return New(thread, objects, get, set)
}
