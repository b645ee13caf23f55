package resolver

import (
	"sync"

	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

// constantState tracks a constant's Pass 2 evaluation progress, used to
// detect reference cycles among constant initializers (spec §4.4:
// "constants may reference each other but cycles fail with
// CONSTANT-CYCLE").
type constantState int

const (
	constantUnvisited constantState = iota
	constantVisiting
	constantResolved
)

// Resolver drives the two-phase parse/commit pipeline over a namespace
// tree. A single Resolver instance serializes all parse sessions through
// its mutex (spec §4.4: "the two-phase parse/commit is serialized by a
// single program-wide parse mutex: commit is atomic with respect to all
// other parse and runtime operations").
type Resolver struct {
	parseMu sync.Mutex
	Root    *Namespace
}

// NewResolver constructs a Resolver rooted at an empty namespace.
func NewResolver() *Resolver {
	return &Resolver{Root: NewRootNamespace()}
}

// Session represents one parse attempt: Pass 1 structural intake has
// already populated pending sets (via Namespace.DeclareClass/
// DeclareConstant/DeclareChildNamespace) by the time Commit or Rollback
// is called.
type Session struct {
	r          *Resolver
	exceptions []*exception.Exception
}

// BeginParse acquires the resolver's parse mutex and returns a Session for
// accumulating Pass 1/Pass 2 errors. The caller must call Commit or
// Rollback exactly once to release the mutex.
func (r *Resolver) BeginParse() *Session {
	r.parseMu.Lock()
	return &Session{r: r}
}

// Fail records a parse exception accumulated during Pass 1 or Pass 2;
// any accumulated failure forces Rollback instead of Commit.
func (s *Session) Fail(e *exception.Exception) {
	s.exceptions = append(s.exceptions, e)
}

// Failed reports whether any exception has been recorded so far.
func (s *Session) Failed() bool {
	return len(s.exceptions) > 0
}

// Errors returns the accumulated parse exceptions.
func (s *Session) Errors() []*exception.Exception {
	return s.exceptions
}

// ResolveConstants runs Pass 2's constant initializer evaluation over
// every pending constant in the namespace tree, detecting cycles
// (CONSTANT-CYCLE) via a three-color DFS. Must be called before Commit.
func (s *Session) ResolveConstants() {
	resolveConstantsIn(s.r.Root, s)
}

func resolveConstantsIn(ns *Namespace, s *Session) {
	ns.resolvedConstants = make(map[string]interface{})
	state := make(map[string]constantState, len(ns.pendingConstants))
	for name := range ns.pendingConstants {
		state[name] = constantUnvisited
	}
	for name := range ns.pendingConstants {
		if state[name] == constantResolved {
			continue
		}
		resolveOneConstant(ns, name, state, s)
	}
	for _, child := range ns.pendingChildren {
		resolveConstantsIn(child, s)
	}
}

func resolveOneConstant(ns *Namespace, name string, state map[string]constantState, s *Session) {
	switch state[name] {
	case constantResolved:
		return
	case constantVisiting:
		s.Fail(exception.System("CONSTANT-CYCLE", "constant initializer cycle detected for "+name, value.Nothing()))
		state[name] = constantResolved
		return
	}
	decl, ok := ns.pendingConstants[name]
	if !ok {
		return
	}
	state[name] = constantVisiting
	resolve := func(depName string) (interface{}, error) {
		if _, ok := ns.pendingConstants[depName]; ok {
			resolveOneConstant(ns, depName, state, s)
			if s.Failed() {
				return nil, s.exceptions[len(s.exceptions)-1]
			}
			return ns.resolvedConstants[depName], nil
		}
		if v, ok := ns.constants[depName]; ok {
			return v, nil
		}
		return nil, exception.System("CONSTANT-NOT-FOUND", "no such constant "+depName, value.Nothing())
	}
	v, err := decl.Init(resolve)
	if err != nil {
		if exc, ok := err.(*exception.Exception); ok {
			s.Fail(exc)
		} else {
			s.Fail(exception.System("CONSTANT-INIT-ERROR", err.Error(), value.Nothing()))
		}
		state[name] = constantResolved
		return
	}
	ns.resolvedConstants[name] = v
	state[name] = constantResolved
}

// Commit promotes all pending declarations across the namespace tree to
// committed, provided no exception was recorded; otherwise it rolls back.
// Either way the parse mutex is released. Returns the accumulated
// exceptions (empty on a successful commit).
func (s *Session) Commit() []*exception.Exception {
	defer s.r.parseMu.Unlock()
	if s.Failed() {
		s.r.Root.Rollback()
		return s.exceptions
	}
	s.r.Root.Commit()
	return nil
}

// Rollback discards all pending declarations across the namespace tree
// unconditionally and releases the parse mutex.
func (s *Session) Rollback() {
	defer s.r.parseMu.Unlock()
	s.r.Root.Rollback()
}

// ResolveScoped resolves a scoped name (A::B::x) starting the prefix walk
// at start, per spec §4.4: "scoped names restrict the search to the
// specified prefix". parts must have at least one element; the last
// element is the target class name.
func ResolveScoped(start *Namespace, parts []string) (*Class, bool) {
	ns := start
	for _, p := range parts[:len(parts)-1] {
		child, ok := ns.ResolveChild(p)
		if !ok {
			return nil, false
		}
		ns = child
	}
	return ns.ResolveClass(parts[len(parts)-1])
}
