package ast

import "github.com/qorelang/qcore/value"

// Literal is a value node: it needs no evaluation and returns itself
// (spec §4.5 "value nodes ... return themselves"), letting switch/case
// and constant-folding recognize it via IsValueNode.
type Literal struct {
	BaseNode
	Val value.Value
}

func (Literal) IsValueNode() bool { return true }

func NewLiteral(v value.Value, loc SourceLocation) *Literal {
	return &Literal{BaseNode: BaseNode{NodeKind: KindValue, Loc: loc}, Val: v}
}

// VariableRef names a local, closure, or global variable.
type VariableRef struct {
	BaseNode
	Name string
}

// ScopedRef names a scoped identifier (A::B::x) — a namespaced constant or
// class member reference.
type ScopedRef struct {
	BaseNode
	Parts []string
}

// SelfRef is the `self` pseudo-variable inside a method body.
type SelfRef struct {
	BaseNode
}

// BinaryOp applies a binary operator (arithmetic, relational, bitwise,
// string concat, etc.) to Left/Right.
type BinaryOp struct {
	BaseNode
	Op          string
	Left, Right Node
}

// UnaryOp applies a prefix/postfix unary operator (-, !, ++, --) to
// Operand.
type UnaryOp struct {
	BaseNode
	Op      string
	Operand Node
	Postfix bool
}

// Assignment is a plain `lv = rhs`.
type Assignment struct {
	BaseNode
	Target Node
	Value  Node
}

// CompoundAssignment is `lv OP= rhs` (spec §4.5's type-driven compound
// assignment table).
type CompoundAssignment struct {
	BaseNode
	Op     string
	Target Node
	Value  Node
}

// Call invokes a named function (or imported binding) with Args.
type Call struct {
	BaseNode
	Name string
	Args []Node
}

// MethodCall invokes Method on Receiver (nil Receiver means an implicit
// self call from inside a method body).
type MethodCall struct {
	BaseNode
	Receiver Node
	Method   string
	Args     []Node
}

// IndexExpr is a list/hash index access `target[index]`.
type IndexExpr struct {
	BaseNode
	Target Node
	Index  Node
}

// MemberAccess is `target.member` (hash key or object member).
type MemberAccess struct {
	BaseNode
	Target Node
	Member string
}

// ListLiteral is `(a, b, c)` / `list(...)`.
type ListLiteral struct {
	BaseNode
	Elements []Node
}

// HashLiteral is `{k1: v1, k2: v2}`; Keys are evaluated to strings at
// runtime (a key expression need not be a literal).
type HashLiteral struct {
	BaseNode
	Keys   []Node
	Values []Node
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	BaseNode
	Cond, Then, Else Node
}

// LogicalAnd / LogicalOr short-circuit (spec §4.5).
type LogicalAnd struct {
	BaseNode
	Left, Right Node
}

type LogicalOr struct {
	BaseNode
	Left, Right Node
}

// CaseKind distinguishes how a switch case value is matched.
type CaseKind int

const (
	CaseValue CaseKind = iota
	CaseRelational
	CaseRegex
)

// Case is one switch/case arm.
type Case struct {
	Kind     CaseKind
	Op       string // relational operator text, when Kind == CaseRelational
	ValueExp Node   // nil for the default arm
	Body     Node
}

// Switch evaluates Subject once and matches it against Cases in order,
// falling back to Default if no case matches.
type Switch struct {
	BaseNode
	Subject Node
	Cases   []Case
	Default Node
}

// ForEach iterates Source, binding each element to VarName for Body
// (spec §4.5: list / single value / iterator object / by-reference
// re-assignment).
type ForEach struct {
	BaseNode
	VarName string
	Source  Node
	Body    Node
}

// ContextStmt iterates a table-like Rows source with an optional Where
// filter and optional sort key (spec §4.5 context/subcontext).
type ContextStmt struct {
	BaseNode
	Rows       Node
	Where      Node
	SortKey    string
	SortDesc   bool
	HasSortKey bool
	Body       Node
}

// Background spawns Body on a detached thread (spec §4.9's `background`
// supplemented feature).
type Background struct {
	BaseNode
	Body Node
}

// OnExit / OnSuccess / OnError register a deferred block evaluated when
// the enclosing block exits in any way, exits without an exception
// (including via return), or exits via exception respectively
// (SPEC_FULL.md §5 supplemented feature).
type OnExit struct {
	BaseNode
	Body Node
}

type OnSuccess struct {
	BaseNode
	Body Node
}

type OnError struct {
	BaseNode
	Body Node
}

// FunctionalOp is one of map/map-select/select/foldl/foldr/hashmap (spec
// §4.6).
type FunctionalOp struct {
	BaseNode
	Op        string
	Body      Node // element expression (map/map-select) or combiner (foldl/foldr)
	KeyBody   Node // hashmap's key expression
	Predicate Node // map-select/select's predicate
	Source    Node
}

// ImplicitSlot names which of a functional operator's implicit bindings
// an ImplicitRef reads (spec §4.6).
type ImplicitSlot int

const (
	ImplicitElement ImplicitSlot = iota // $1
	ImplicitSecond                      // $2 (foldl/foldr's next element)
	ImplicitIndex                       // $# (zero-based position)
)

// ImplicitRef reads the innermost enclosing functional operator's $1/$2/$#
// binding (spec §4.6: "the integer variable $# is set to the current
// zero-based index in thread-local implicit-element state").
type ImplicitRef struct {
	BaseNode
	Slot ImplicitSlot
}

// Block is a sequence of statements evaluated in order inside one pushed
// local scope shared by the whole block.
type Block struct {
	BaseNode
	Statements []Node
}

// Return unwinds the current call frame with an optional value.
type Return struct {
	BaseNode
	Value Node
}

// Throw raises a user exception.
type Throw struct {
	BaseNode
	ErrValue Node
	Desc     Node
	Arg      Node
}

// Try evaluates Body; if an exception propagates, CatchVar is bound to it
// (as a Hash matching the exception's shape) and CatchBody runs instead.
type Try struct {
	BaseNode
	Body      Node
	CatchVar  string
	CatchBody Node
}
