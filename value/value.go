// Package value implements the polymorphic runtime value model: a tagged
// sum of every kind of value the evaluator can produce, with reference
// counting for everything that isn't a shared singleton.
package value

import (
	"fmt"
	"sync/atomic"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	KindNothing Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindNumber
	KindString
	KindBinary
	KindDate
	KindList
	KindHash
	KindObject
	KindCallRef
	KindReference
	KindRegex
	KindRegexSubst
	KindTransliteration
	KindWeakRef
)

func (k Kind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindHash:
		return "hash"
	case KindObject:
		return "object"
	case KindCallRef:
		return "callref"
	case KindReference:
		return "reference"
	case KindRegex:
		return "regex"
	case KindRegexSubst:
		return "regexsubst"
	case KindTransliteration:
		return "transliteration"
	case KindWeakRef:
		return "weakref"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// refCounted is embedded by every heap-backed payload. Nothing, Null and
// Bool have none; the zero-Int singleton embeds one, but IsRefCounted
// reports it uncounted, so Acquire/Release leave it alone.
type refCounted struct {
	count int64
}

func (r *refCounted) acquire() {
	atomic.AddInt64(&r.count, 1)
}

// release decrements the count and reports whether it reached zero.
func (r *refCounted) release() bool {
	return atomic.AddInt64(&r.count, -1) == 0
}

func (r *refCounted) refs() int64 {
	return atomic.LoadInt64(&r.count)
}

// payload is the capability set every heap-backed variant implements.
// Constructing one yields count == 1 per spec.
type payload interface {
	kind() Kind
	acquire()
	release() bool
}

// Value is the single type every runtime slot, variable and argument holds.
// Nothing and Null carry a nil payload and are distinguished by k alone;
// every other variant, including the shared Bool and zero-Int singletons,
// carries a non-nil payload whose concrete type matches k.
type Value struct {
	k Kind
	p payload
}

func (v Value) Kind() Kind { return v.k }

// IsRefCounted reports whether this Value participates in reference
// counting (Invariant 1): singletons (Nothing, Null, Bool, zero-Int) do
// not, even though Bool and zero-Int are payload-backed (trueValue/
// falseValue/zeroIntSingleton are shared package singletons, not
// independently allocated per call, and a caller never observes their
// count reach zero). v.p != nil alone can't tell a singleton payload from
// a real heap-backed one, so this checks identity against the known
// uncounted singletons instead.
func (v Value) IsRefCounted() bool {
	if v.p == nil {
		return false
	}
	switch v.k {
	case KindBool:
		return false
	case KindInt:
		return v.p != payload(zeroIntSingleton)
	default:
		return true
	}
}

// Acquire increments the value's reference count. A no-op on singletons.
func (v Value) Acquire() Value {
	if v.IsRefCounted() {
		v.p.acquire()
	}
	return v
}

// Release decrements the value's reference count. Destructor semantics for
// Object are handled by (*ObjectPayload).release; other payloads simply
// stop being referenced once their count reaches zero — the Go garbage
// collector reclaims the backing memory once nothing acquires it again,
// but release still reports zero-crossing so callers relying on
// deterministic destruction (Object) can act on it.
func (v Value) Release() {
	if v.IsRefCounted() {
		v.p.release()
	}
}

// --- singletons ---

var (
	nothingValue = Value{k: KindNothing}
	nullValue    = Value{k: KindNull}
	trueValue    = Value{k: KindBool, p: &boolPayload{b: true}}
	falseValue   = Value{k: KindBool, p: &boolPayload{b: false}}
)

func Nothing() Value { return nothingValue }
func Null() Value    { return nullValue }

func Bool(b bool) Value {
	if b {
		return trueValue
	}
	return falseValue
}

type boolPayload struct{ b bool }

func (*boolPayload) kind() Kind     { return KindBool }
func (*boolPayload) acquire()       {}
func (*boolPayload) release() bool  { return false }
func (p *boolPayload) Bool() bool   { return p.b }

// boolPayload extracts the boolean payload from a KindBool Value; panics on
// mismatch, used only by code that has already switched on Kind().
func (v Value) boolPayload() *boolPayload {
	return v.p.(*boolPayload)
}
