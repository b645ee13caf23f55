package value

// weakRefPayload backs KindWeakRef (SPEC_FULL.md §5 supplemented feature):
// a non-owning handle to an Object that never participates in its scope or
// tether counts. Resolving a weak reference after the target has reached
// ObjectDeleted yields Nothing rather than an error, distinguishing it from
// a dangling Reference.
type weakRefPayload struct {
	refCounted
	target *ObjectPayload
}

func (*weakRefPayload) kind() Kind { return KindWeakRef }

// WeakRef captures target without acquiring its scope or tether count.
func WeakRef(target Value) Value {
	return Value{k: KindWeakRef, p: &weakRefPayload{target: target.ObjectPayload(), refCounted: refCounted{count: 1}}}
}

func (v Value) weakRefPayload() *weakRefPayload { return v.p.(*weakRefPayload) }

// Resolve returns (object, true) if the weakly-referenced object is still
// live, or (Nothing, false) once it has been destroyed.
func (v Value) Resolve() (Value, bool) {
	p := v.weakRefPayload()
	if p.target.Status() == ObjectDeleted {
		return Nothing(), false
	}
	obj := Value{k: KindObject, p: p.target}
	return obj.Acquire(), true
}
