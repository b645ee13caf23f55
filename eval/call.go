package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

func evalArgs(nodes []ast.Node, ctx *Context) ([]value.Value, error) {
	args := make([]value.Value, 0, len(nodes))
	for _, a := range nodes {
		v, err := Eval(a, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// evalCall invokes a registered top-level function. An imported binding
// (FuncDef.Foreign set) is invoked the same way, on the caller's thread
// and Context; Foreign is not consulted and no call is forwarded to
// another program's evaluator.
func evalCall(n *ast.Call, ctx *Context) (value.Value, error) {
	fn, ok := ctx.Registry.Functions[n.Name]
	if !ok {
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-FUNCTION", "no such function "+n.Name, value.Nothing()))
	}
	args, err := evalArgs(n.Args, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return invokeFunc(fn, args, ctx)
}

func invokeFunc(fn *FuncDef, args []value.Value, ctx *Context) (value.Value, error) {
	ctx.Thread.PushCallFrame(exception.Frame{FrameKind: exception.FrameCall, Function: fn.Name})
	defer ctx.Thread.PopCallFrame()

	ctx.Thread.PushLocalScope()
	defer ctx.Thread.PopLocalScope()
	for i, p := range fn.Params {
		if i < len(args) {
			ctx.Thread.DeclareLocal(p, args[i])
		} else {
			ctx.Thread.DeclareLocal(p, value.Nothing())
		}
	}

	v, err := fn.Body(ctx)
	if err != nil {
		if ret, ok := err.(*controlReturn); ok {
			return ret.value, nil
		}
		return value.Nothing(), err
	}
	return v, nil
}

// evalMethodCall dispatches to a class method via the resolver's
// MRO-ordered ResolveMember, binding self to the receiver for the
// method's body (spec §4.4 base-vs-member tie-break: a bare method name
// resolves self-first via ResolveMember).
func evalMethodCall(n *ast.MethodCall, ctx *Context) (value.Value, error) {
	var recv value.Value
	var err error
	if n.Receiver != nil {
		recv, err = Eval(n.Receiver, ctx)
		if err != nil {
			return value.Nothing(), err
		}
	} else if ctx.Self != nil {
		recv = ctx.Self.AsValue()
	} else {
		return value.Nothing(), ctx.raise(exception.System("SELF-OUTSIDE-METHOD", "implicit method call outside a method body", value.Nothing()))
	}
	if recv.Kind() == value.KindList {
		return evalListMethodCall(n, recv, ctx)
	}
	if recv.Kind() != value.KindObject {
		return value.Nothing(), ctx.raise(exception.System("METHOD-CALL-ON-NON-OBJECT", "method call target is not an object", value.Nothing()))
	}

	args, err := evalArgs(n.Args, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	obj := recv.ObjectPayload()
	if obj.Status() != value.ObjectActive {
		return value.Nothing(), ctx.raise(exception.System("OBJECT-ALREADY-DELETED", "method call on a deleted object", value.Nothing()))
	}

	var method *FuncDef
	// Resolver's Class/Method tables hold an opaque value.Invoker wrapping
	// the compiled method body; for this tree-walking core a FuncDef is
	// stored behind that Invoker via methodInvoker (see methodinvoker.go).
	if mi, ok := resolveMethodBody(ctx, obj.ClassName(), n.Method); ok {
		method = mi
	} else {
		return value.Nothing(), ctx.raise(exception.System("METHOD-DOES-NOT-EXIST", "no such method "+n.Method+" on "+obj.ClassName(), value.Nothing()))
	}

	obj.AcquireScope()
	defer obj.ReleaseScope()

	childCtx := *ctx
	childCtx.Self = obj
	return invokeFunc(method, args, &childCtx)
}
