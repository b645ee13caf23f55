package eval

import (
	"strings"

	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/value"
)

// evalScopedRef resolves a namespaced name A::B::x (spec §4.4 "scoped
// names restrict the search to the specified prefix"): walk the A::B
// child-namespace prefix from ctx.Root, then look up x as a constant
// there, falling back to a class constant for Outer::Inner::CONST naming
// a class rather than a namespace.
func evalScopedRef(n *ast.ScopedRef, ctx *Context) (value.Value, error) {
	if len(n.Parts) == 0 {
		return value.Nothing(), ctx.raise(exception.System("INVALID-SCOPED-NAME", "empty scoped name", value.Nothing()))
	}
	if ctx.Root == nil {
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-NAME", "no root namespace bound for scoped lookup "+strings.Join(n.Parts, "::"), value.Nothing()))
	}

	ns := ctx.Root
	for _, p := range n.Parts[:len(n.Parts)-1] {
		if child, ok := ns.ResolveChild(p); ok {
			ns = child
			continue
		}
		// Not a namespace prefix: the remaining tail may be ClassName::CONST.
		if class, ok := ns.ResolveClass(p); ok {
			return resolveClassConstant(class, n.Parts[len(n.Parts)-1], ctx)
		}
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-NAME", "no such namespace or class "+p, value.Nothing()))
	}

	last := n.Parts[len(n.Parts)-1]
	if v, ok := ns.ResolveConstant(last); ok {
		return v, nil
	}
	if class, ok := ns.ResolveClass(last); ok {
		// Bare ScopedRef naming a class (e.g. passed to a type check) has no
		// value representation here; this core only materializes objects
		// through `new`, not class references as first-class values.
		_ = class
		return value.Nothing(), ctx.raise(exception.System("NOT-A-VALUE", "scoped name "+last+" names a class, not a value", value.Nothing()))
	}
	return value.Nothing(), ctx.raise(exception.System("UNKNOWN-NAME", "no such scoped constant "+strings.Join(n.Parts, "::"), value.Nothing()))
}

func resolveClassConstant(class *resolver.Class, name string, ctx *Context) (value.Value, error) {
	if v, ok := class.Constants[name]; ok {
		return v, nil
	}
	return value.Nothing(), ctx.raise(exception.System("UNKNOWN-NAME", "no such constant "+name+" on class "+class.Name, value.Nothing()))
}
