package lvalue

import (
	"reflect"
	"sort"

	"github.com/qorelang/qcore/value"
)

// LValueHelper is the scoped lvalue location/locking operation from spec
// §4.3: it holds whatever Object member locks the lvalue path passes
// through (acquired in pointer-ascending order) for its lifetime, and
// exposes read/write/ensure-unique/take operations against the resolved
// cell. Callers must call Close when the lvalue scope ends (typically via
// defer immediately after a successful New).
type LValueHelper struct {
	thread  value.ThreadID
	objects []*value.ObjectPayload
	getFn   func() (value.Value, error)
	setFn   func(value.Value) error
}

// New resolves an lvalue path: objects lists every Object the path
// crosses (e.g. self, then a chained member's own object), in any order;
// New sorts and dedups them before acquiring, enforcing the
// object-pointer-ascending discipline regardless of path-walk order.
// get/set perform the actual field/index/cell access once locks are held.
func New(thread value.ThreadID, objects []*value.ObjectPayload, get func() (value.Value, error), set func(value.Value) error) (*LValueHelper, error) {
	ordered := sortUniqueObjects(objects)
	acquired := make([]*value.ObjectPayload, 0, len(ordered))
	for _, o := range ordered {
		if err := acquireObject(o, thread); err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				releaseObject(acquired[i], thread)
			}
			return nil, err
		}
		acquired = append(acquired, o)
	}
	return &LValueHelper{thread: thread, objects: acquired, getFn: get, setFn: set}, nil
}

// ForCell builds a helper over a plain variable Cell; no Object is
// involved so no member lock is taken.
func ForCell(thread value.ThreadID, cell *Cell) *LValueHelper {
	h, _ := New(thread, nil, cell.Get, cell.Set)
	return h
}

func sortUniqueObjects(objects []*value.ObjectPayload) []*value.ObjectPayload {
	seen := make(map[*value.ObjectPayload]bool, len(objects))
	out := make([]*value.ObjectPayload, 0, len(objects))
	for _, o := range objects {
		if o == nil || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return reflect.ValueOf(out[i]).Pointer() < reflect.ValueOf(out[j]).Pointer()
	})
	return out
}

// Close releases every lock this helper acquired, in reverse order.
func (h *LValueHelper) Close() {
	for i := len(h.objects) - 1; i >= 0; i-- {
		releaseObject(h.objects[i], h.thread)
	}
	h.objects = nil
}

// CurrentValue reads the resolved cell without removing or modifying it.
func (h *LValueHelper) CurrentValue() (value.Value, error) {
	return h.getFn()
}

// Assign replaces the cell's value, releasing the prior occupant's
// reference (the caller retains ownership of newVal's reference, which the
// cell now holds).
func (h *LValueHelper) Assign(newVal value.Value) error {
	return h.setFn(newVal)
}

// EnsureUnique performs copy-on-write: if the current value is uniquely
// referenced it is returned as-is, otherwise a private copy replaces it in
// the cell.
func (h *LValueHelper) EnsureUnique() (value.Value, error) {
	cur, err := h.getFn()
	if err != nil {
		return value.Value{}, err
	}
	unique := cur.EnsureUnique()
	if unique != cur {
		if err := h.setFn(unique); err != nil {
			return value.Value{}, err
		}
	}
	return unique, nil
}

// TakeValue removes the cell's contents, leaving Nothing behind, and
// returns what was there (transferring ownership of its reference to the
// caller).
func (h *LValueHelper) TakeValue() (value.Value, error) {
	cur, err := h.getFn()
	if err != nil {
		return value.Value{}, err
	}
	if err := h.setFn(value.Nothing()); err != nil {
		return value.Value{}, err
	}
	return cur, nil
}

// PlusEqualsBigint implements the `+=` fast path for an Int-typed cell,
// avoiding a round trip through the generic operator dispatch.
func (h *LValueHelper) PlusEqualsBigint(delta int64) (value.Value, error) {
	cur, err := h.getFn()
	if err != nil {
		return value.Value{}, err
	}
	next := value.Int(cur.AsInt() + delta)
	if err := h.setFn(next); err != nil {
		return value.Value{}, err
	}
	return next, nil
}

// MinusEqualsBigint mirrors PlusEqualsBigint for `-=`.
func (h *LValueHelper) MinusEqualsBigint(delta int64) (value.Value, error) {
	return h.PlusEqualsBigint(-delta)
}

// PlusEqualsFloat implements the `+=` fast path for a Float-typed cell.
func (h *LValueHelper) PlusEqualsFloat(delta float64) (value.Value, error) {
	cur, err := h.getFn()
	if err != nil {
		return value.Value{}, err
	}
	next := value.Float(cur.AsFloat() + delta)
	if err := h.setFn(next); err != nil {
		return value.Value{}, err
	}
	return next, nil
}

// MinusEqualsFloat mirrors PlusEqualsFloat for `-=`.
func (h *LValueHelper) MinusEqualsFloat(delta float64) (value.Value, error) {
	return h.PlusEqualsFloat(-delta)
}
