package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/lvalue"
	"github.com/qorelang/qcore/value"
)

// controlReturn unwinds Go's call stack back to the nearest call/method
// boundary carrying Return's value, mirroring the teacher's
// generateDDLs-style type switch but for unwind signals instead of DDL
// node kinds.
type controlReturn struct{ value value.Value }

func (c *controlReturn) Error() string { return "return" }

// Eval dispatches node by concrete Go type (generalized from the
// teacher's `switch desired := ddl.(type) { case *CreateTable: ... }`
// pattern in schema/generator.go's generateDDLs, here switching over
// expression/statement node kinds instead of DDL node kinds).
func Eval(node ast.Node, ctx *Context) (value.Value, error) {
	if ctx.Thread.CancelPending() {
		ctx.Thread.ClearCancel()
		return value.Nothing(), ctx.raise(exception.System("CANCELLED", "evaluation cancelled", value.Nothing()))
	}
	switch n := node.(type) {
	case *ast.Literal:
		return n.Val, nil
	case *ast.VariableRef:
		return evalVariableRef(n, ctx)
	case *ast.ScopedRef:
		return evalScopedRef(n, ctx)
	case *ast.SelfRef:
		return evalSelfRef(ctx)
	case *ast.ImplicitRef:
		return evalImplicitRef(n, ctx)
	case *ast.BinaryOp:
		return evalBinaryOp(n, ctx)
	case *ast.UnaryOp:
		return evalUnaryOp(n, ctx)
	case *ast.Assignment:
		return evalAssignment(n, ctx)
	case *ast.CompoundAssignment:
		return evalCompoundAssignment(n, ctx)
	case *ast.Call:
		return evalCall(n, ctx)
	case *ast.MethodCall:
		return evalMethodCall(n, ctx)
	case *ast.IndexExpr:
		return evalIndex(n, ctx)
	case *ast.MemberAccess:
		return evalMemberAccess(n, ctx)
	case *ast.ListLiteral:
		return evalListLiteral(n, ctx)
	case *ast.HashLiteral:
		return evalHashLiteral(n, ctx)
	case *ast.Ternary:
		return evalTernary(n, ctx)
	case *ast.LogicalAnd:
		return evalLogicalAnd(n, ctx)
	case *ast.LogicalOr:
		return evalLogicalOr(n, ctx)
	case *ast.Switch:
		return evalSwitch(n, ctx)
	case *ast.ForEach:
		return evalForEach(n, ctx)
	case *ast.ContextStmt:
		return evalContext(n, ctx)
	case *ast.Background:
		return evalBackground(n, ctx)
	case *ast.FunctionalOp:
		return evalFunctional(n, ctx)
	case *ast.Block:
		return evalBlock(n, ctx)
	case *ast.Return:
		return evalReturn(n, ctx)
	case *ast.Throw:
		return evalThrow(n, ctx)
	case *ast.Try:
		return evalTry(n, ctx)
	default:
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-NODE", "evaluator has no case for this node kind", value.Nothing()))
	}
}

func evalVariableRef(n *ast.VariableRef, ctx *Context) (value.Value, error) {
	if cell, ok := ctx.Thread.ResolveLocal(n.Name); ok {
		return *cell, nil
	}
	return value.Nothing(), nil
}

func evalSelfRef(ctx *Context) (value.Value, error) {
	if ctx.Self == nil {
		return value.Nothing(), ctx.raise(exception.System("SELF-OUTSIDE-METHOD", "self referenced outside a method body", value.Nothing()))
	}
	return ctx.Self.AsValue(), nil
}

// evalImplicitRef reads a functional operator's $1/$2/$# binding off the
// innermost frame of Context's implicit stack (spec §4.6).
func evalImplicitRef(n *ast.ImplicitRef, ctx *Context) (value.Value, error) {
	switch n.Slot {
	case ast.ImplicitElement:
		return ctx.Element1(), nil
	case ast.ImplicitSecond:
		v, _ := ctx.Element2()
		return v, nil
	case ast.ImplicitIndex:
		return value.Int(int64(ctx.Index())), nil
	default:
		return value.Nothing(), nil
	}
}

// evalBlock evaluates the statements in order inside one pushed local
// scope for the whole block, honoring on_exit/on_success/on_error deferred
// blocks (SPEC_FULL.md §5): on_exit always runs after the rest of the
// block, on_success only if no exception propagated (a return counts as
// success), on_error only if one did.
func evalBlock(n *ast.Block, ctx *Context) (value.Value, error) {
	ctx.Thread.PushLocalScope()
	defer ctx.Thread.PopLocalScope()

	var deferredExit, deferredSuccess, deferredError []ast.Node
	var result value.Value
	var err error

	for _, stmt := range n.Statements {
		switch s := stmt.(type) {
		case *ast.OnExit:
			deferredExit = append(deferredExit, s.Body)
			continue
		case *ast.OnSuccess:
			deferredSuccess = append(deferredSuccess, s.Body)
			continue
		case *ast.OnError:
			deferredError = append(deferredError, s.Body)
			continue
		}
		result, err = Eval(stmt, ctx)
		if err != nil {
			break
		}
	}

	runDeferred := func(nodes []ast.Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			Eval(nodes[i], ctx)
		}
	}
	if err != nil {
		if _, isReturn := err.(*controlReturn); !isReturn {
			runDeferred(deferredError)
		} else {
			runDeferred(deferredSuccess)
		}
	} else {
		runDeferred(deferredSuccess)
	}
	runDeferred(deferredExit)

	return result, err
}

func evalReturn(n *ast.Return, ctx *Context) (value.Value, error) {
	if n.Value == nil {
		return value.Nothing(), &controlReturn{value: value.Nothing()}
	}
	v, err := Eval(n.Value, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return value.Nothing(), &controlReturn{value: v}
}

func evalThrow(n *ast.Throw, ctx *Context) (value.Value, error) {
	errVal, err := Eval(n.ErrValue, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	var desc value.Value
	if n.Desc != nil {
		if desc, err = Eval(n.Desc, ctx); err != nil {
			return value.Nothing(), err
		}
	}
	var arg value.Value
	if n.Arg != nil {
		if arg, err = Eval(n.Arg, ctx); err != nil {
			return value.Nothing(), err
		}
	} else {
		arg = value.Nothing()
	}
	e := exception.User(errVal, desc.AsString(), arg)
	return value.Nothing(), ctx.raise(e)
}

func evalTry(n *ast.Try, ctx *Context) (value.Value, error) {
	v, err := Eval(n.Body, ctx)
	if err == nil {
		return v, nil
	}
	if _, isReturn := err.(*controlReturn); isReturn {
		return v, err
	}
	exc, ok := err.(*exception.Exception)
	if !ok {
		return v, err
	}
	ctx.Thread.PushLocalScope()
	defer ctx.Thread.PopLocalScope()
	if n.CatchVar != "" {
		ctx.Thread.DeclareLocal(n.CatchVar, exceptionToHash(exc))
	}
	ctx.Thread.Sink().Clear()
	return Eval(n.CatchBody, ctx)
}

func exceptionToHash(e *exception.Exception) value.Value {
	h := value.Hash()
	h.HashMap().Set("err", e.ErrValue)
	h.HashMap().Set("desc", value.String(e.Desc, value.EncodingUTF8))
	h.HashMap().Set("arg", e.Arg)
	return h
}

func evalAssignment(n *ast.Assignment, ctx *Context) (value.Value, error) {
	rhs, err := Eval(n.Value, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if err := assignTo(n.Target, rhs, ctx); err != nil {
		return value.Nothing(), err
	}
	return rhs, nil
}

// assignTo resolves Target as an lvalue and writes v into it, covering the
// four lvalue shapes spec §4.3 names: local/closure variable, hash key,
// list index, and object member.
func assignTo(target ast.Node, v value.Value, ctx *Context) error {
	switch t := target.(type) {
	case *ast.VariableRef:
		if cell, ok := ctx.Thread.ResolveLocal(t.Name); ok {
			cell.Release()
			*cell = v
			return nil
		}
		ctx.Thread.DeclareLocal(t.Name, v)
		return nil
	case *ast.MemberAccess:
		recv, err := Eval(t.Target, ctx)
		if err != nil {
			return err
		}
		if recv.Kind() == value.KindObject {
			h, herr := lvalue.ForObjectMember(ctx.Thread.ID(), recv.ObjectPayload(), t.Member)
			if herr != nil {
				return ctx.raise(exception.System("OBJECT-LOCK-DEADLOCK", herr.Error(), value.Nothing()))
			}
			defer h.Close()
			return h.Assign(v)
		}
		if recv.Kind() == value.KindHash {
			recv.HashMap().Set(t.Member, v)
			return nil
		}
		return ctx.raise(exception.System("INVALID-LVALUE", "member assignment target is not an object or hash", value.Nothing()))
	case *ast.IndexExpr:
		recv, err := Eval(t.Target, ctx)
		if err != nil {
			return err
		}
		idxVal, err := Eval(t.Index, ctx)
		if err != nil {
			return err
		}
		if recv.Kind() == value.KindList {
			recv.ListSeq().Set(int(idxVal.AsInt()), v, func() value.Value { return value.Nothing() })
			return nil
		}
		return ctx.raise(exception.System("INVALID-LVALUE", "index assignment target is not a list", value.Nothing()))
	default:
		return ctx.raise(exception.System("INVALID-LVALUE", "expression is not assignable", value.Nothing()))
	}
}
