// Package eval implements the tree-walking evaluator (spec §4.5): operator
// dispatch, control-flow statements, and the call/method-call boundary
// that ties the value/lvalue/resolver/thread packages together.
package eval

import (
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/logger"
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/thread"
	"github.com/qorelang/qcore/value"
)

// FuncDef is a callable top-level function: name plus an evaluator
// closure over its parsed body (parameters are bound into a fresh local
// scope by the caller before Body runs).
type FuncDef struct {
	Name    string
	Params  []string
	Body    func(ctx *Context) (value.Value, error)
	Foreign value.ProgramHandle // set for an imported binding (spec §4.4)
}

// Registry is the process-wide (or per-program) function table functions
// resolve against. Kept separate from resolver.Namespace since spec.md
// treats the builtin/function registry as a distinct global (spec §9
// "Global mutable state (static namespace, builtin-function registry)").
type Registry struct {
	Functions map[string]*FuncDef
}

func NewRegistry() *Registry {
	return &Registry{Functions: make(map[string]*FuncDef)}
}

// Context carries everything a single Eval call needs: the executing
// thread slot (for locals/closures/call stack), the current object (for
// self.x / implicit method calls) and its class (for scoped super calls),
// the function registry, and the root namespace for scoped-name lookups.
type Context struct {
	Thread   *thread.Slot
	Self     *value.ObjectPayload
	Class    *resolver.Class
	Registry *Registry
	Root     *resolver.Namespace
	Program  value.ProgramHandle

	// Classes indexes every committed class by name for method dispatch
	// (spec §4.4's MRO-based method lookup needs the receiver's runtime
	// class, not just the lexical ctx.Class of the calling method).
	Classes map[string]*resolver.Class

	// Spawner spawns the detached threads `background` creates
	// (SPEC_FULL.md §5); nil in a context that cannot spawn, where
	// `background` raises BACKGROUND-UNAVAILABLE. A detached thread's own
	// context is a copy of its parent's, so it keeps the same Spawner.
	Spawner *thread.Spawner

	// Log receives a background thread's discarded exception (SPEC_FULL.md
	// §5: "silently discards its exception, logging it"). Nil skips
	// logging.
	Log *logger.Logger

	// implicit carries the $1/$# bindings for the innermost enclosing
	// functional operator (spec §4.6); nested operators push/pop so an
	// inner $# shadows the outer one.
	implicit []implicitFrame
}

type implicitFrame struct {
	element value.Value
	second  value.Value // $2, used by foldl/foldr's accumulator+next pairing
	hasSecond bool
	index   int
}

func (c *Context) pushImplicit(element value.Value, index int) {
	c.implicit = append(c.implicit, implicitFrame{element: element, index: index})
}

func (c *Context) pushImplicitPair(acc, next value.Value) {
	c.implicit = append(c.implicit, implicitFrame{element: acc, second: next, hasSecond: true})
}

func (c *Context) popImplicit() {
	c.implicit = c.implicit[:len(c.implicit)-1]
}

// Element1 returns the innermost $1 binding.
func (c *Context) Element1() value.Value {
	if len(c.implicit) == 0 {
		return value.Nothing()
	}
	return c.implicit[len(c.implicit)-1].element
}

// Element2 returns the innermost $2 binding (foldl/foldr's "next
// element"); ok is false outside a fold body.
func (c *Context) Element2() (value.Value, bool) {
	if len(c.implicit) == 0 {
		return value.Nothing(), false
	}
	top := c.implicit[len(c.implicit)-1]
	return top.second, top.hasSecond
}

// Index returns the innermost $# binding.
func (c *Context) Index() int {
	if len(c.implicit) == 0 {
		return -1
	}
	return c.implicit[len(c.implicit)-1].index
}

// raise pushes a call-stack frame and raises e on the context's sink.
func (c *Context) raise(e *exception.Exception) error {
	e.PushFrame(exception.Frame{FrameKind: exception.FrameCall})
	c.Thread.Sink().Raise(e)
	return e
}
