package value

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/qorelang/qcore/container"
)

// ObjectStatus is the lifecycle state of an Object (spec C1 table,
// Invariant 3).
type ObjectStatus int

const (
	ObjectActive ObjectStatus = iota
	ObjectBeingDeleted
	ObjectDeleted
)

// ProgramHandle is the minimal capability value.Object needs from its
// owning program, kept as an interface here so value has no import-time
// dependency on the program package (which itself depends on value).
type ProgramHandle interface {
	ID() uuid.UUID
}

// DestructorFunc runs a class's destructor method, if any. ReleaseScope
// calls it with no lock held (neither mu nor the member lock), so the
// destructor can read and write the object's members. Supplied by
// eval/resolver at construction time since Object itself has no notion
// of methods.
type DestructorFunc func(self *ObjectPayload)

// ObjectPayload backs KindObject. It carries two reference counts per
// spec: scope drives destructor eligibility, tether merely keeps the Go
// value alive after destruction (mirrors the source's scope/tether split,
// see original_source's Object lifecycle and spec §3 Invariant 3/§9).
type ObjectPayload struct {
	mu sync.Mutex // guards fields/privateData/status only

	// memberLock is the recursive, scope-held lock lvalue.LValueHelper and
	// method dispatch take for the duration of a member access or method
	// call (spec §5: "Every Object has a recursive lock").
	memberLock *RecursiveLock

	id          uuid.UUID
	className   string
	classID     int
	fields      *container.OrderedMap[Value]
	privateData map[string]any
	status      ObjectStatus
	program     ProgramHandle

	scopeCount int64
	tetherCount int64

	destructor DestructorFunc
}

func (*ObjectPayload) kind() Kind { return KindObject }

// acquire/release on the Value interface operate on the tether count: the
// Go payload must stay alive as long as anything (even a "deleted but
// still tethered" reference) can reach it. The scope count is managed
// separately via AcquireScope/ReleaseScope, called by lvalue assignment
// and method dispatch respectively.
func (o *ObjectPayload) acquire() { atomic.AddInt64(&o.tetherCount, 1) }
func (o *ObjectPayload) release() bool {
	return atomic.AddInt64(&o.tetherCount, -1) == 0
}

// NewObject constructs a fresh, Active object. Both counts start at 1.
func NewObject(className string, classID int, program ProgramHandle, destructor DestructorFunc) Value {
	p := &ObjectPayload{
		memberLock:  NewRecursiveLock(),
		id:          uuid.New(),
		className:   className,
		classID:     classID,
		fields:      container.NewOrderedMap[Value](),
		privateData: make(map[string]any),
		status:      ObjectActive,
		program:     program,
		scopeCount:  1,
		tetherCount: 1,
		destructor:  destructor,
	}
	return Value{k: KindObject, p: p}
}

func (v Value) ObjectPayload() *ObjectPayload { return v.p.(*ObjectPayload) }

// AsValue rewraps an already-live ObjectPayload as a Value, acquiring a
// new tether reference so the returned Value owns an independent release.
// Used wherever code holds a bare *ObjectPayload (e.g. Context.Self) and
// needs to hand it to something expecting a value.Value, such as a self
// argument or a WeakRef target.
func (o *ObjectPayload) AsValue() Value {
	o.acquire()
	return Value{k: KindObject, p: o}
}

func (o *ObjectPayload) ID() uuid.UUID       { return o.id }
func (o *ObjectPayload) ClassName() string   { return o.className }
func (o *ObjectPayload) Program() ProgramHandle { return o.program }

// MemberLock exposes the recursive member-access lock to lvalue.LValueHelper
// (spec C3.4: "at most one LValueHelper per thread holds a lock on a given
// cell at a time; attempting to take the same lock re-entrantly on the
// same thread succeeds").
func (o *ObjectPayload) MemberLock() *RecursiveLock { return o.memberLock }

// ErrObjectDeleted is returned by member access once an object's status
// has reached Deleted (spec Invariant 3).
var ErrObjectDeleted = newSentinel("OBJECT-ALREADY-DELETED")

type sentinelError string

func newSentinel(s string) error    { return sentinelError(s) }
func (s sentinelError) Error() string { return string(s) }

// GetMember reads a field; fails once the object is Deleted.
func (o *ObjectPayload) GetMember(name string) (Value, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == ObjectDeleted {
		return Nothing(), ErrObjectDeleted
	}
	v, ok := o.fields.Get(name)
	if !ok {
		return Nothing(), nil
	}
	return v, nil
}

// SetMember writes a field; fails once the object is Deleted.
func (o *ObjectPayload) SetMember(name string, v Value) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == ObjectDeleted {
		return ErrObjectDeleted
	}
	if old, ok := o.fields.Get(name); ok {
		old.Release()
	}
	o.fields.Set(name, v)
	return nil
}

// SetPrivateData / PrivateData implement the private-data protocol (spec
// §6): one opaque value per class key. The values are not
// reference-counted; ReleaseScope drops the whole map when it destroys
// the object, without releasing each value.
func (o *ObjectPayload) SetPrivateData(classKey string, data any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.privateData[classKey] = data
}

func (o *ObjectPayload) PrivateData(classKey string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	d, ok := o.privateData[classKey]
	return d, ok
}

// AcquireScope increments the scope count (a new owning reference to this
// object, e.g. an lvalue assignment).
func (o *ObjectPayload) AcquireScope() {
	o.mu.Lock()
	o.scopeCount++
	o.mu.Unlock()
}

// ReleaseScope decrements the scope count; when it reaches zero and the
// object is still Active, the destructor runs exactly once, status
// transitions Active -> BeingDeleted -> Deleted, fields are released
// outside the lock, and finally the tether count is decremented
// (spec C1 table / §4.1 "Acquire / release").
func (o *ObjectPayload) ReleaseScope() {
	o.mu.Lock()
	o.scopeCount--
	shouldDestroy := o.scopeCount == 0 && o.status == ObjectActive
	if shouldDestroy {
		o.status = ObjectBeingDeleted
	}
	o.mu.Unlock()

	if !shouldDestroy {
		return
	}

	if o.destructor != nil {
		o.destructor(o)
	}

	o.mu.Lock()
	o.status = ObjectDeleted
	fields := o.fields
	o.fields = container.NewOrderedMap[Value]()
	o.privateData = map[string]any{}
	o.mu.Unlock()

	fields.Each(func(_ string, v Value) bool {
		v.Release()
		return true
	})

	o.release()
}

func (o *ObjectPayload) Status() ObjectStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}
