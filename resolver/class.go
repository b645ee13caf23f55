package resolver

import (
	"github.com/qorelang/qcore/value"
)

// DomainMask enumerates the capability bits a class can require (spec
// §4.4: "domain mask (capabilities it requires, e.g. network,
// filesystem)").
type DomainMask uint64

const (
	DomainNone DomainMask = 0

	DomainNetwork DomainMask = 1 << (iota - 1)
	DomainFilesystem
	DomainProcess
	DomainThreadControl
)

// MethodKind distinguishes the method-table slots spec §4.4 names.
type MethodKind int

const (
	MethodStatic MethodKind = iota
	MethodInstance
	MethodConstructor
	MethodDestructor
	MethodCopy
)

// Method is a named, dispatchable class member. Body is opaque (an
// eval-level closure over the method's AST) to keep resolver independent
// of eval/ast, mirroring the value.Invoker pattern used by
// value.CallReference.
type Method struct {
	Name      string
	Kind      MethodKind
	Private   bool
	Invoker   value.Invoker
	ClassName string // declaring class, for Base::member access-check
}

// Class is the committed representation of a class declaration: name,
// unique id, method table, parent list (multiple inheritance), constant
// table, static-variable table, and domain mask (spec §4.4).
type Class struct {
	Name       string
	ID         value.Identity
	Parents    []*Class
	Methods    map[string]*Method
	Constants  map[string]value.Value
	StaticVars map[string]*value.Value
	Domain     DomainMask
	Private    map[string]bool // member names declared private
}

// NewClass allocates an empty class ready for method/constant/static
// declarations.
func NewClass(name string) *Class {
	return &Class{
		Name:       name,
		ID:         value.NewIdentity(),
		Methods:    make(map[string]*Method),
		Constants:  make(map[string]value.Value),
		StaticVars: make(map[string]*value.Value),
		Private:    make(map[string]bool),
	}
}

// Linearize computes the class's method-resolution order via the C3
// algorithm (spec §4.4: "Inheritance respects a C3-linearization-style
// method-resolution order"), merging each parent's own linearization plus
// the parent list itself, always preferring local (more-derived) classes.
func (c *Class) Linearize() ([]*Class, error) {
	if len(c.Parents) == 0 {
		return []*Class{c}, nil
	}
	sequences := make([][]*Class, 0, len(c.Parents)+1)
	for _, p := range c.Parents {
		lin, err := p.Linearize()
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, lin)
	}
	sequences = append(sequences, append([]*Class{}, c.Parents...))

	merged, err := c3Merge(sequences)
	if err != nil {
		return nil, err
	}
	return append([]*Class{c}, merged...), nil
}

func c3Merge(sequences [][]*Class) ([]*Class, error) {
	var result []*Class
	for {
		sequences = dropEmpty(sequences)
		if len(sequences) == 0 {
			return result, nil
		}
		var head *Class
		for _, seq := range sequences {
			candidate := seq[0]
			if !appearsInTail(candidate, sequences) {
				head = candidate
				break
			}
		}
		if head == nil {
			return nil, ErrInconsistentHierarchy
		}
		result = append(result, head)
		sequences = removeFromHeads(sequences, head)
	}
}

func dropEmpty(seqs [][]*Class) [][]*Class {
	out := make([][]*Class, 0, len(seqs))
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func appearsInTail(c *Class, seqs [][]*Class) bool {
	for _, seq := range seqs {
		for _, candidate := range seq[1:] {
			if candidate == c {
				return true
			}
		}
	}
	return false
}

func removeFromHeads(seqs [][]*Class, c *Class) [][]*Class {
	out := make([][]*Class, 0, len(seqs))
	for _, seq := range seqs {
		if len(seq) > 0 && seq[0] == c {
			seq = seq[1:]
		}
		out = append(out, seq)
	}
	return out
}

// ResolveMember looks up name against c's linearized MRO, returning the
// first class that declares it. The base-vs-member tie-break (spec §4.4:
// "member wins for self.x; base wins for scoped Base::x") is enforced by
// callers choosing ResolveMember (self-style, checks the class itself
// first implicitly via MRO order) vs. a direct ResolveInBase lookup.
func (c *Class) ResolveMember(name string) (*Method, *Class, bool) {
	mro, err := c.Linearize()
	if err != nil {
		return nil, nil, false
	}
	for _, k := range mro {
		if m, ok := k.Methods[name]; ok {
			return m, k, true
		}
	}
	return nil, nil, false
}

// ResolveInBase looks up name starting at the named base class only
// (Base::member), not through the full MRO's self-first order.
func (c *Class) ResolveInBase(baseName, name string) (*Method, *Class, bool) {
	mro, err := c.Linearize()
	if err != nil {
		return nil, nil, false
	}
	for _, k := range mro {
		if k.Name != baseName {
			continue
		}
		if m, ok := k.Methods[name]; ok {
			return m, k, true
		}
	}
	return nil, nil, false
}
