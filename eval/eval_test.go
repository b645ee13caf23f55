package eval

import (
	"testing"

	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/thread"
	"github.com/qorelang/qcore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	table := thread.NewTable(4)
	slot, err := table.Spawn(nil)
	require.NoError(t, err)
	return &Context{
		Thread:   slot,
		Registry: NewRegistry(),
		Root:     resolver.NewRootNamespace(),
		Classes:  make(map[string]*resolver.Class),
	}
}

func lit(v value.Value) *ast.Literal { return ast.NewLiteral(v, ast.SourceLocation{}) }

func TestArithmeticPromotion(t *testing.T) {
	ctx := newTestContext(t)
	v, err := Eval(&ast.BinaryOp{Op: "+", Left: lit(value.Int(1)), Right: lit(value.Float(2.5))}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v.AsFloat())
}

func TestRelationalCompare(t *testing.T) {
	ctx := newTestContext(t)
	v, err := Eval(&ast.BinaryOp{Op: "<", Left: lit(value.Int(1)), Right: lit(value.Int(2))}, ctx)
	require.NoError(t, err)
	assert.True(t, v.AsBool())
}

func TestDivisionByZeroRaises(t *testing.T) {
	ctx := newTestContext(t)
	_, err := Eval(&ast.BinaryOp{Op: "/", Left: lit(value.Int(1)), Right: lit(value.Int(0))}, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIVISION-BY-ZERO")
}

func TestAssignmentAndVariableRef(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Thread.DeclareLocal("x", value.Nothing())
	_, err := Eval(&ast.Assignment{Target: &ast.VariableRef{Name: "x"}, Value: lit(value.Int(42))}, ctx)
	require.NoError(t, err)
	v, err := Eval(&ast.VariableRef{Name: "x"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestIncDecPrefixPostfix(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Thread.DeclareLocal("i", value.Int(5))

	post, err := Eval(&ast.UnaryOp{Op: "++", Operand: &ast.VariableRef{Name: "i"}, Postfix: true}, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), post.AsInt())

	cur, _ := ctx.Thread.ResolveLocal("i")
	assert.Equal(t, int64(6), cur.AsInt())

	pre, err := Eval(&ast.UnaryOp{Op: "++", Operand: &ast.VariableRef{Name: "i"}, Postfix: false}, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pre.AsInt())
}

func TestCompoundPlusOnList(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Thread.DeclareLocal("l", value.List(value.Int(1)))
	_, err := Eval(&ast.CompoundAssignment{Op: "+=", Target: &ast.VariableRef{Name: "l"}, Value: lit(value.Int(2))}, ctx)
	require.NoError(t, err)
	v, _ := ctx.Thread.ResolveLocal("l")
	assert.Equal(t, 2, v.ListLen())
	assert.Equal(t, int64(2), v.ListAt(1).AsInt())
}

func TestCompoundMinusOnHashRemovesKey(t *testing.T) {
	ctx := newTestContext(t)
	h := value.Hash()
	h.HashMap().Set("a", value.Int(1))
	h.HashMap().Set("b", value.Int(2))
	ctx.Thread.DeclareLocal("h", h)
	_, err := Eval(&ast.CompoundAssignment{Op: "-=", Target: &ast.VariableRef{Name: "h"}, Value: lit(value.String("a", value.EncodingUTF8))}, ctx)
	require.NoError(t, err)
	v, _ := ctx.Thread.ResolveLocal("h")
	_, ok := v.HashGet("a")
	assert.False(t, ok)
	_, ok = v.HashGet("b")
	assert.True(t, ok)
}

func TestTernaryAndLogical(t *testing.T) {
	ctx := newTestContext(t)
	v, err := Eval(&ast.Ternary{Cond: lit(value.Bool(true)), Then: lit(value.Int(1)), Else: lit(value.Int(2))}, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.AsInt())

	v, err = Eval(&ast.LogicalAnd{Left: lit(value.Bool(false)), Right: lit(value.Int(99))}, ctx)
	require.NoError(t, err)
	assert.False(t, v.AsBool())
}

func TestForEachOverList(t *testing.T) {
	ctx := newTestContext(t)
	ctx.Thread.DeclareLocal("sum", value.Int(0))
	body := &ast.Assignment{
		Target: &ast.VariableRef{Name: "sum"},
		Value:  &ast.BinaryOp{Op: "+", Left: &ast.VariableRef{Name: "sum"}, Right: &ast.VariableRef{Name: "x"}},
	}
	n := &ast.ForEach{VarName: "x", Source: lit(value.List(value.Int(1), value.Int(2), value.Int(3))), Body: body}
	_, err := Eval(n, ctx)
	require.NoError(t, err)
	v, _ := ctx.Thread.ResolveLocal("sum")
	assert.Equal(t, int64(6), v.AsInt())
}

func TestSwitchValueAndDefault(t *testing.T) {
	ctx := newTestContext(t)
	sw := &ast.Switch{
		Subject: lit(value.Int(2)),
		Cases: []ast.Case{
			{Kind: ast.CaseValue, ValueExp: lit(value.Int(1)), Body: lit(value.String("one", value.EncodingUTF8))},
			{Kind: ast.CaseValue, ValueExp: lit(value.Int(2)), Body: lit(value.String("two", value.EncodingUTF8))},
		},
		Default: lit(value.String("other", value.EncodingUTF8)),
	}
	v, err := Eval(sw, ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", v.AsString())
}

func TestTryCatchClearsException(t *testing.T) {
	ctx := newTestContext(t)
	tryNode := &ast.Try{
		Body: &ast.Throw{
			ErrValue: lit(value.String("MY-ERROR", value.EncodingUTF8)),
			Desc:     lit(value.String("boom", value.EncodingUTF8)),
		},
		CatchVar:  "ex",
		CatchBody: &ast.MemberAccess{Target: &ast.VariableRef{Name: "ex"}, Member: "desc"},
	}
	v, err := Eval(tryNode, ctx)
	require.NoError(t, err)
	assert.Equal(t, "boom", v.AsString())
	assert.Nil(t, ctx.Thread.Sink().Current())
}

func TestReturnUnwindsThroughCall(t *testing.T) {
	ctx := newTestContext(t)
	fn := &FuncDef{
		Name:   "double",
		Params: []string{"n"},
		Body: func(ctx *Context) (value.Value, error) {
			return Eval(&ast.Return{Value: &ast.BinaryOp{Op: "*", Left: &ast.VariableRef{Name: "n"}, Right: lit(value.Int(2))}}, ctx)
		},
	}
	ctx.Registry.Functions["double"] = fn
	v, err := Eval(&ast.Call{Name: "double", Args: []ast.Node{lit(value.Int(21))}}, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestFunctionalMap(t *testing.T) {
	ctx := newTestContext(t)
	op := &ast.FunctionalOp{
		Op:     "map",
		Source: lit(value.List(value.Int(1), value.Int(2), value.Int(3))),
		Body:   &ast.BinaryOp{Op: "*", Left: &ast.ImplicitRef{Slot: ast.ImplicitElement}, Right: lit(value.Int(10))},
	}
	v, err := Eval(op, ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.ListLen())
	assert.Equal(t, int64(10), v.ListAt(0).AsInt())
	assert.Equal(t, int64(30), v.ListAt(2).AsInt())
}

func TestFunctionalFoldL(t *testing.T) {
	ctx := newTestContext(t)
	op := &ast.FunctionalOp{
		Op:     "foldl",
		Source: lit(value.List(value.Int(1), value.Int(2), value.Int(3))),
		Body:   &ast.BinaryOp{Op: "+", Left: &ast.ImplicitRef{Slot: ast.ImplicitElement}, Right: &ast.ImplicitRef{Slot: ast.ImplicitSecond}},
	}
	v, err := Eval(op, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.AsInt())
}

func TestFunctionalSelect(t *testing.T) {
	ctx := newTestContext(t)
	op := &ast.FunctionalOp{
		Op:     "select",
		Source: lit(value.List(value.Int(1), value.Int(2), value.Int(3), value.Int(4))),
		Predicate: &ast.BinaryOp{
			Op:    "==",
			Left:  &ast.BinaryOp{Op: "%", Left: &ast.ImplicitRef{Slot: ast.ImplicitElement}, Right: lit(value.Int(2))},
			Right: lit(value.Int(0)),
		},
	}
	v, err := Eval(op, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.ListLen())
	assert.Equal(t, int64(2), v.ListAt(0).AsInt())
	assert.Equal(t, int64(4), v.ListAt(1).AsInt())
}

func TestFunctionalMapOverNothingYieldsNothing(t *testing.T) {
	ctx := newTestContext(t)
	op := &ast.FunctionalOp{
		Op:     "map",
		Source: lit(value.Nothing()),
		Body:   &ast.ImplicitRef{Slot: ast.ImplicitElement},
	}
	v, err := Eval(op, ctx)
	require.NoError(t, err)
	assert.Equal(t, value.KindNothing, v.Kind())
}

func TestImplicitIndexBinding(t *testing.T) {
	ctx := newTestContext(t)
	op := &ast.FunctionalOp{
		Op:     "map",
		Source: lit(value.List(value.String("a", value.EncodingUTF8), value.String("b", value.EncodingUTF8))),
		Body:   &ast.ImplicitRef{Slot: ast.ImplicitIndex},
	}
	v, err := Eval(op, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.ListAt(0).AsInt())
	assert.Equal(t, int64(1), v.ListAt(1).AsInt())
}

func TestMethodCallDispatchesViaResolver(t *testing.T) {
	ctx := newTestContext(t)
	class := resolver.NewClass("Counter")
	ctx.Classes["Counter"] = class
	RegisterMethod(ctx, class, "bump", resolver.MethodInstance, []string{"n"}, func(ctx *Context) (value.Value, error) {
		cur, _ := ctx.Self.GetMember("count")
		nArg, _ := ctx.Thread.ResolveLocal("n")
		return value.Nothing(), ctx.Self.SetMember("count", value.Int(cur.AsInt()+nArg.AsInt()))
	})

	obj := value.NewObject("Counter", 0, nil, nil)
	require.NoError(t, obj.ObjectPayload().SetMember("count", value.Int(0)))

	call := &ast.MethodCall{Receiver: lit(obj), Method: "bump", Args: []ast.Node{lit(value.Int(5))}}
	_, err := Eval(call, ctx)
	require.NoError(t, err)

	v, err := obj.ObjectPayload().GetMember("count")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.AsInt())
}

func TestListSortPseudoMethodDefaultOrdering(t *testing.T) {
	ctx := newTestContext(t)
	list := value.List(value.Int(3), value.Int(1), value.Int(2))
	call := &ast.MethodCall{Receiver: lit(list), Method: "sort"}
	v, err := Eval(call, ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, asInts(v))
}

func TestListSortDescendingPseudoMethod(t *testing.T) {
	ctx := newTestContext(t)
	list := value.List(value.Int(3), value.Int(1), value.Int(2))
	call := &ast.MethodCall{Receiver: lit(list), Method: "sort_descending"}
	v, err := Eval(call, ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, asInts(v))
}

func TestListSortWithCallback(t *testing.T) {
	ctx := newTestContext(t)
	fn := &FuncDef{
		Name:   "bylen",
		Params: []string{"a", "b"},
		Body: func(ctx *Context) (value.Value, error) {
			a, _ := ctx.Thread.ResolveLocal("a")
			b, _ := ctx.Thread.ResolveLocal("b")
			return value.Int(int64(len(a.AsString()) - len(b.AsString()))), nil
		},
	}
	cb := value.CallReference("bylen", value.CallableClosure, &methodInvoker{fn: fn, ctx: ctx}, nil)
	list := value.List(
		value.String("ccc", value.EncodingUTF8),
		value.String("a", value.EncodingUTF8),
		value.String("bb", value.EncodingUTF8),
	)
	call := &ast.MethodCall{Receiver: lit(list), Method: "sort", Args: []ast.Node{lit(cb)}}
	v, err := Eval(call, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bb", "ccc"}, []string{
		v.ListAt(0).AsString(), v.ListAt(1).AsString(), v.ListAt(2).AsString(),
	})
}

func TestContextStatementSortsRows(t *testing.T) {
	ctx := newTestContext(t)
	row := func(n int64) value.Value {
		h := value.Hash()
		h.HashMap().Set("n", value.Int(n))
		return h
	}
	rows := value.List(row(3), row(1), row(2))
	var seen []int64
	stmt := &ast.ContextStmt{
		Rows:       lit(rows),
		SortKey:    "n",
		HasSortKey: true,
		Body: &ast.Call{Name: "__test_collect"},
	}
	ctx.Registry.Functions["__test_collect"] = &FuncDef{
		Name: "__test_collect",
		Body: func(ctx *Context) (value.Value, error) {
			v, _ := ctx.Thread.ResolveLocal("%n")
			seen = append(seen, v.AsInt())
			return value.Nothing(), nil
		},
	}
	_, err := Eval(stmt, ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, seen)
}

func asInts(v value.Value) []int64 {
	out := make([]int64, v.ListLen())
	for i := range out {
		out[i] = v.ListAt(i).AsInt()
	}
	return out
}
