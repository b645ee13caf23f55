package value

// LValueLocator is implemented by lvalue.LValueHelper-backed closures. A
// Reference value stores one of these instead of an AST node directly, so
// value never needs to import ast/lvalue/program (spec §4 "Reference").
type LValueLocator interface {
	// Get reads the referenced storage location's current value.
	Get() (Value, error)
	// Set writes a new value to the referenced storage location.
	Set(Value) error
}

// referencePayload backs KindReference. It captures a parse-time lvalue
// expression together with the object/program context it was created in,
// materialized by the caller (eval) as a hidden local at argument-binding
// time for by-reference parameter passing (spec §4 "Reference" / §6 external
// interface for module-call by-reference args).
type referencePayload struct {
	refCounted
	locator     LValueLocator
	description string
}

func (*referencePayload) kind() Kind { return KindReference }

// Reference wraps an already-resolved lvalue locator. description is used
// for diagnostics (e.g. "$x.y[2]").
func Reference(locator LValueLocator, description string) Value {
	return Value{k: KindReference, p: &referencePayload{
		locator: locator, description: description, refCounted: refCounted{count: 1},
	}}
}

func (v Value) referencePayload() *referencePayload { return v.p.(*referencePayload) }

// Deref reads through a Reference to its current target value.
func (v Value) Deref() (Value, error) {
	return v.referencePayload().locator.Get()
}

// Assign writes through a Reference to its target storage location.
func (v Value) Assign(newVal Value) error {
	return v.referencePayload().locator.Set(newVal)
}

// ReferenceDescription returns the diagnostic text captured at reference
// creation time (used in exception messages referencing the lvalue
// expression that produced an invalid reference).
func (v Value) ReferenceDescription() string {
	return v.referencePayload().description
}
