// Package thread implements the per-thread state table (spec §4.9): a
// fixed-capacity slot table, spawn/join/detach bookkeeping, per-slot
// call-stack/local-variable/closure-variable stacks, a resource tracker,
// and cooperative cancellation.
package thread

import (
	"sync"
	"sync/atomic"

	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

// DefaultCapacity is the default slot table size (spec: "4096,
// platform-tuned").
const DefaultCapacity = 4096

// SlotStatus tags a table slot's lifecycle state.
type SlotStatus int

const (
	SlotAvailable SlotStatus = iota
	SlotActive
	SlotJoined
)

// closureFrameSentinel marks a frame boundary on the closure-variable
// stack so enclosing scopes remain visible to captured closures even
// after the defining block has otherwise gone out of scope (spec §4.9).
type closureFrameSentinel struct{}

// Slot is one thread's state: its call stack, local/closure variable
// stacks, resource tracker, and cancellation flag.
type Slot struct {
	id     value.ThreadID
	mu     sync.Mutex
	status SlotStatus
	joined bool

	program any // program.Program, kept as `any` to avoid thread -> program
	// -> value -> thread import cycles; program stores back-references via
	// this same pattern.

	callStack        []exception.Frame
	localVars        []map[string]*value.Value
	closureVars       []any // entries are either *value.Value or closureFrameSentinel
	resources        []Resource

	sink *exception.Sink

	cancelPending atomic.Bool
}

// Resource is anything the resource tracker can register and later clean
// up on thread exit (spec §4.9: "SQL statement, file lock, queue lock").
type Resource interface {
	// Kind names the resource family for the <RESOURCE>-ERROR code raised
	// if it is still held at thread exit, e.g. "SQL-STATEMENT".
	Kind() string
	Release() error
}

// Table is a fixed-capacity array of slots; tid 0 is reserved for the
// signal thread (spec §4.9).
type Table struct {
	mu    sync.Mutex
	slots []*Slot
}

// NewTable allocates a table of the given capacity (DefaultCapacity if
// zero or negative), pre-reserving slot 0 for the signal thread.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Table{slots: make([]*Slot, capacity)}
	t.slots[0] = &Slot{id: 0, status: SlotActive, sink: exception.NewSink()}
	return t
}

// Spawn allocates a free (or previously Available/Joined-and-reclaimable)
// slot, marks it Active, and returns it. program is the caller's program
// context, inherited by the new slot (spec §4.9: "inherits the parent's
// program context").
func (t *Table) Spawn(program any) (*Slot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 1; i < len(t.slots); i++ {
		if t.slots[i] == nil || t.slots[i].status != SlotActive {
			s := &Slot{
				id:      value.ThreadID(i),
				status:  SlotActive,
				program: program,
				sink:    exception.NewSink(),
			}
			t.slots[i] = s
			return s, nil
		}
	}
	return nil, exception.System("THREAD-CREATION-FAILURE", "no free thread slots", value.Nothing())
}

// Get returns the slot for id, or nil if unallocated.
func (t *Table) Get(id value.ThreadID) *Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.slots) {
		return nil
	}
	return t.slots[id]
}

// ID returns the slot's thread id.
func (s *Slot) ID() value.ThreadID { return s.id }

// Sink returns the slot's exception sink.
func (s *Slot) Sink() *exception.Sink { return s.sink }

// Program returns the slot's inherited program context.
func (s *Slot) Program() any { return s.program }

// PushCallFrame/PopCallFrame maintain the thread-local call stack used
// both for exception frame enrichment and for stack-depth introspection.
func (s *Slot) PushCallFrame(f exception.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callStack = append(s.callStack, f)
}

func (s *Slot) PopCallFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.callStack) > 0 {
		s.callStack = s.callStack[:len(s.callStack)-1]
	}
}

func (s *Slot) CallStack() []exception.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]exception.Frame, len(s.callStack))
	copy(out, s.callStack)
	return out
}

// PushLocalScope/PopLocalScope implement the block-scoped local-variable
// stack: each block gets its own name->cell map, shadowing outer blocks.
func (s *Slot) PushLocalScope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localVars = append(s.localVars, map[string]*value.Value{})
}

func (s *Slot) PopLocalScope() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.localVars) == 0 {
		return
	}
	top := s.localVars[len(s.localVars)-1]
	s.localVars = s.localVars[:len(s.localVars)-1]
	for _, v := range top {
		v.Release()
	}
}

// DeclareLocal introduces name in the innermost scope, bound to v (whose
// reference the slot now owns).
func (s *Slot) DeclareLocal(name string, v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.localVars) == 0 {
		s.localVars = append(s.localVars, map[string]*value.Value{})
	}
	cp := v
	s.localVars[len(s.localVars)-1][name] = &cp
}

// ResolveLocal walks block scopes innermost-first, returning the cell
// backing name (so it can be wrapped into an lvalue.Cell-like locator).
func (s *Slot) ResolveLocal(name string) (*value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.localVars) - 1; i >= 0; i-- {
		if cell, ok := s.localVars[i][name]; ok {
			return cell, true
		}
	}
	return nil, false
}

// PushClosureFrame pushes a frame-boundary sentinel onto the
// closure-variable stack and CaptureClosureVar pushes a captured variable
// after it (spec §4.9: "frame-boundary sentinels so enclosing scopes
// remain visible to captured closures"). Slot has no method that pops
// these entries, so they stay on the stack for the slot's lifetime.
func (s *Slot) PushClosureFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closureVars = append(s.closureVars, closureFrameSentinel{})
}

func (s *Slot) CaptureClosureVar(v *value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closureVars = append(s.closureVars, v)
}

// CancelPending reports whether cooperative cancellation has been
// requested for this thread (checked at yield points: call/return
// boundaries and blocking queue operations, spec §4.9).
func (s *Slot) CancelPending() bool { return s.cancelPending.Load() }

// RequestCancel sets the cancellation flag; the target thread observes it
// at its next yield point.
func (s *Slot) RequestCancel() { s.cancelPending.Store(true) }

// ClearCancel resets the cancellation flag once the pending cancellation
// has been observed and turned into a propagating exception, so a thread
// slot reused from the table doesn't start pre-cancelled.
func (s *Slot) ClearCancel() { s.cancelPending.Store(false) }

// Track registers a resource for cleanup at thread exit.
func (s *Slot) Track(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, r)
}

// Untrack removes a resource once it has been released normally.
func (s *Slot) Untrack(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tracked := range s.resources {
		if tracked == r {
			s.resources = append(s.resources[:i], s.resources[i+1:]...)
			return
		}
	}
}

// Exit walks the resource tracker, raising a <KIND>-ERROR exception for
// and releasing each resource still held, then marks the slot Available
// for reuse (spec §4.9).
func (s *Slot) Exit() []*exception.Exception {
	s.mu.Lock()
	leftover := s.resources
	s.resources = nil
	s.status = SlotAvailable
	s.mu.Unlock()

	var errs []*exception.Exception
	for _, r := range leftover {
		if err := r.Release(); err != nil {
			errs = append(errs, exception.System(r.Kind()+"-ERROR", err.Error(), value.Nothing()))
		} else {
			errs = append(errs, exception.System(r.Kind()+"-ERROR", "resource still held at thread exit", value.Nothing()))
		}
	}
	return errs
}

// Join/Detach guard against double cleanup via the joined flag.
func (s *Slot) Join() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.joined {
		return false
	}
	s.joined = true
	return true
}

func (s *Slot) Detach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.joined {
		return false
	}
	s.joined = true
	return true
}
