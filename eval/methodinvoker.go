package eval

import (
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/value"
)

// methodInvoker adapts a FuncDef to resolver.Method's value.Invoker slot,
// so the resolver's class tables stay ignorant of eval's FuncDef type
// (same opaque-interface decoupling value.CallReference already uses for
// its own Invoker field).
type methodInvoker struct {
	fn  *FuncDef
	ctx *Context
}

func (m *methodInvoker) Invoke(args []value.Value) (value.Value, error) {
	return invokeFunc(m.fn, args, m.ctx)
}

// resolveMethodBody looks up className.methodName via the class's
// MRO-ordered ResolveMember and unwraps its stored Invoker back into a
// FuncDef, returning false if the class is unknown or has no such method,
// or if the method wasn't registered through RegisterMethod (e.g. a
// builtin/foreign method with no tree-walking body).
func resolveMethodBody(ctx *Context, className, methodName string) (*FuncDef, bool) {
	class, ok := ctx.Classes[className]
	if !ok {
		return nil, false
	}
	method, _, ok := class.ResolveMember(methodName)
	if !ok || method.Invoker == nil {
		return nil, false
	}
	mi, ok := method.Invoker.(*methodInvoker)
	if !ok {
		return nil, false
	}
	return mi.fn, true
}

// RegisterMethod installs fn as class's methodName, wiring a
// methodInvoker into the resolver.Method's Invoker slot so both
// resolver.Class.ResolveMember (name resolution, MRO, access checks) and
// eval's dispatch (resolveMethodBody) share one source of truth.
func RegisterMethod(ctx *Context, class *resolver.Class, methodName string, kind resolver.MethodKind, params []string, body func(ctx *Context) (value.Value, error)) {
	fn := &FuncDef{Name: methodName, Params: params, Body: body}
	class.Methods[methodName] = &resolver.Method{
		Name:      methodName,
		Kind:      kind,
		ClassName: class.Name,
		Invoker:   &methodInvoker{fn: fn, ctx: ctx},
	}
}
