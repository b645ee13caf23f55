package value

// CallableOrigin classifies how a CallReference was produced, mirroring
// the call-reference flavors in spec §4 (plain function, bound method,
// imported/module function, closure over enclosing locals).
type CallableOrigin int

const (
	CallableFunction CallableOrigin = iota
	CallableMethod
	CallableBuiltin
	CallableImported
	CallableClosure
)

// Invoker is implemented by whatever package actually knows how to run a
// call reference (eval, typically). value stays ignorant of eval's AST
// and thread types so the two packages don't form an import cycle; eval
// constructs the payload and value only stores and re-invokes it.
type Invoker interface {
	Invoke(args []Value) (Value, error)
}

// callRefPayload backs KindCallRef. name/origin are metadata used
// for error messages and introspection; invoker does the actual work.
type callRefPayload struct {
	refCounted
	name    string
	origin  CallableOrigin
	invoker Invoker
	// self is non-nil for a bound-method reference; released alongside the
	// call reference itself so the bound object stays alive as long as the
	// reference does.
	self *Value
}

func (*callRefPayload) kind() Kind { return KindCallRef }

// CallReference wraps an Invoker with descriptive metadata. self may be
// nil for unbound references.
func CallReference(name string, origin CallableOrigin, invoker Invoker, self *Value) Value {
	if self != nil {
		acquired := self.Acquire()
		self = &acquired
	}
	return Value{k: KindCallRef, p: &callRefPayload{
		name: name, origin: origin, invoker: invoker, self: self,
		refCounted: refCounted{count: 1},
	}}
}

func (v Value) callRefPayload() *callRefPayload { return v.p.(*callRefPayload) }

// CallReferenceName returns the call reference's descriptive name, used in stack
// traces and %s formatting.
func (v Value) CallReferenceName() string { return v.callRefPayload().name }

// CallReferenceOrigin reports how this reference was created.
func (v Value) CallReferenceOrigin() CallableOrigin { return v.callRefPayload().origin }

// BoundSelf returns the bound object for a method reference, or the zero
// Value and false for an unbound one.
func (v Value) BoundSelf() (Value, bool) {
	p := v.callRefPayload()
	if p.self == nil {
		return Value{}, false
	}
	return *p.self, true
}

// Call invokes the reference, forwarding to whatever Invoker eval attached
// at construction time.
func (v Value) Call(args []Value) (Value, error) {
	return v.callRefPayload().invoker.Invoke(args)
}
