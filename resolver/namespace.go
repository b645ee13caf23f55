package resolver

import (
	"errors"
	"fmt"

	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

// ErrInconsistentHierarchy signals that a class's parent list admits no
// consistent C3 linearization.
var ErrInconsistentHierarchy = errors.New("inconsistent class hierarchy")

// ConstantDecl is a pending constant: name plus an opaque initializer
// thunk supplied by eval (kept as a closure, not an ast.Node, so resolver
// never imports eval/ast — same decoupling style as value.Invoker). Init
// receives a resolve callback the closure calls for every other constant
// its expression references; routing dependency lookups through resolve
// (rather than eval reaching into its own cache directly) is what lets
// Session.ResolveConstants observe the dependency edges and catch cycles.
type ConstantDecl struct {
	Name string
	Init func(resolve func(name string) (interface{}, error)) (interface{}, error)
}

// Namespace owns a set of classes, constants and child namespaces, plus
// pending shadow copies of each (spec §4.4). Names are unique within each
// set; commit atomically promotes pending to committed, rollback discards
// pending.
type Namespace struct {
	Name   string
	Parent *Namespace

	classes   map[string]*Class
	constants map[string]interface{}
	children  map[string]*Namespace

	pendingClasses   map[string]*Class
	pendingConstants map[string]*ConstantDecl
	pendingChildren  map[string]*Namespace

	// resolvedConstants holds Pass 2's evaluated initializer results,
	// keyed by constant name, populated by Session.ResolveConstants
	// before Commit promotes them into the committed constants map.
	resolvedConstants map[string]interface{}
}

// NewRootNamespace constructs the unnamed root namespace.
func NewRootNamespace() *Namespace {
	return NewNamespace("", nil)
}

// NewNamespace constructs an empty namespace owned by parent (nil for
// root).
func NewNamespace(name string, parent *Namespace) *Namespace {
	return &Namespace{
		Name:             name,
		Parent:           parent,
		classes:          make(map[string]*Class),
		constants:        make(map[string]interface{}),
		children:         make(map[string]*Namespace),
		pendingClasses:   make(map[string]*Class),
		pendingConstants: make(map[string]*ConstantDecl),
		pendingChildren:  make(map[string]*Namespace),
	}
}

// DeclareClass adds c to the pending set (Pass 1). Duplicate detection
// checks pending, committed, and any committed child namespace that would
// shadow the name (spec §4.4 Pass 1).
func (ns *Namespace) DeclareClass(c *Class) error {
	if ns.nameTaken(c.Name) {
		return duplicateNameError("class", c.Name)
	}
	ns.pendingClasses[c.Name] = c
	return nil
}

// DeclareConstant adds a constant declaration to the pending set (Pass 1);
// its initializer is evaluated later, in Pass 2.
func (ns *Namespace) DeclareConstant(decl *ConstantDecl) error {
	if ns.nameTaken(decl.Name) {
		return duplicateNameError("constant", decl.Name)
	}
	ns.pendingConstants[decl.Name] = decl
	return nil
}

// DeclareChildNamespace adds (or returns the existing pending) child
// namespace named name, used as the AST descends into nested `namespace
// X { ... }` blocks during Pass 1.
func (ns *Namespace) DeclareChildNamespace(name string) (*Namespace, error) {
	if child, ok := ns.pendingChildren[name]; ok {
		return child, nil
	}
	if child, ok := ns.children[name]; ok {
		// Re-opening an already-committed namespace to add more pending
		// declarations is allowed; it is not a duplicate.
		pendingShadow := NewNamespace(name, ns)
		pendingShadow.classes = child.classes
		pendingShadow.constants = child.constants
		pendingShadow.children = child.children
		ns.pendingChildren[name] = pendingShadow
		return pendingShadow, nil
	}
	if ns.classNameTakenCommittedOnly(name) || ns.constantNameTakenCommittedOnly(name) {
		return nil, duplicateNameError("namespace", name)
	}
	child := NewNamespace(name, ns)
	ns.pendingChildren[name] = child
	return child, nil
}

// nameTaken reports whether name is already used by a pending or
// committed class/constant/child-namespace in ns (spec §4.4 Pass 1
// duplicate detection against (a) pending, (b) committed, (c) committed
// sub-namespaces that would shadow the name).
func (ns *Namespace) nameTaken(name string) bool {
	if _, ok := ns.pendingClasses[name]; ok {
		return true
	}
	if _, ok := ns.pendingConstants[name]; ok {
		return true
	}
	if _, ok := ns.pendingChildren[name]; ok {
		return true
	}
	if _, ok := ns.classes[name]; ok {
		return true
	}
	if _, ok := ns.constants[name]; ok {
		return true
	}
	if _, ok := ns.children[name]; ok {
		return true
	}
	return false
}

func (ns *Namespace) classNameTakenCommittedOnly(name string) bool {
	_, ok := ns.classes[name]
	return ok
}

func (ns *Namespace) constantNameTakenCommittedOnly(name string) bool {
	_, ok := ns.constants[name]
	return ok
}

func duplicateNameError(kind, name string) error {
	return exception.System("DUPLICATE-"+toUpperKind(kind), fmt.Sprintf("duplicate %s name %q", kind, name), value.Nothing())
}

func toUpperKind(kind string) string {
	switch kind {
	case "class":
		return "CLASS"
	case "constant":
		return "CONSTANT"
	case "namespace":
		return "NAMESPACE"
	default:
		return "NAME"
	}
}

// Commit atomically promotes every pending class/constant/child of ns
// (recursively) into the committed sets. Called only after Pass 2
// succeeds with no accumulated exceptions.
func (ns *Namespace) Commit() {
	for name, c := range ns.pendingClasses {
		ns.classes[name] = c
	}
	for name, decl := range ns.pendingConstants {
		if v, ok := ns.resolvedConstants[decl.Name]; ok {
			ns.constants[name] = v
		}
	}
	for name, child := range ns.pendingChildren {
		ns.children[name] = child
		child.Commit()
	}
	ns.clearPending()
}

// Rollback discards every pending declaration in ns (recursively),
// leaving committed state exactly as it was.
func (ns *Namespace) Rollback() {
	for _, child := range ns.pendingChildren {
		child.Rollback()
	}
	ns.clearPending()
}

func (ns *Namespace) clearPending() {
	ns.pendingClasses = make(map[string]*Class)
	ns.pendingConstants = make(map[string]*ConstantDecl)
	ns.pendingChildren = make(map[string]*Namespace)
	ns.resolvedConstants = nil
}

// ResolveClass walks the scope chain (this namespace, then parents to
// root) looking in committed and pending sets, returning the first match.
func (ns *Namespace) ResolveClass(name string) (*Class, bool) {
	for n := ns; n != nil; n = n.Parent {
		if c, ok := n.pendingClasses[name]; ok {
			return c, true
		}
		if c, ok := n.classes[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// ResolveChild looks up an immediate child namespace by name (pending or
// committed), used when walking a scoped name's `A::B` prefix.
func (ns *Namespace) ResolveChild(name string) (*Namespace, bool) {
	if c, ok := ns.pendingChildren[name]; ok {
		return c, true
	}
	if c, ok := ns.children[name]; ok {
		return c, true
	}
	return nil, false
}

// ResolveConstant walks the scope chain for a committed constant, used by
// eval for both bare and scoped (A::B::x) constant references. Returns
// false for a pending (not yet committed) constant; those aren't visible
// until Commit.
func (ns *Namespace) ResolveConstant(name string) (value.Value, bool) {
	for n := ns; n != nil; n = n.Parent {
		if raw, ok := n.constants[name]; ok {
			if v, ok := raw.(value.Value); ok {
				return v, true
			}
			return value.Nothing(), false
		}
	}
	return value.Nothing(), false
}

// Classes returns this namespace's own committed classes (not children's),
// keyed by name. Used by callers (e.g. program.Program) that need a flat
// class index across the whole namespace tree for runtime method
// dispatch.
func (ns *Namespace) Classes() map[string]*Class {
	return ns.classes
}

// Children returns this namespace's own committed child namespaces, keyed
// by name.
func (ns *Namespace) Children() map[string]*Namespace {
	return ns.children
}
