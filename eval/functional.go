package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/functional"
	"github.com/qorelang/qcore/value"
)

// evalFunctional dispatches map/map-select/select/foldl/foldr/hashmap
// (spec §4.6) onto the functional package, supplying closures that push
// the thread-local $1/$2/$# bindings around each body/predicate
// evaluation. A raised exception from any body call aborts the whole
// operator: functional.Map et al. return the error immediately and the
// partial result is discarded (spec §4.6 "cancelable by an exception").
func evalFunctional(n *ast.FunctionalOp, ctx *Context) (value.Value, error) {
	srcVal, err := Eval(n.Source, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	// "map e, nothing yields Nothing" (spec §4.6); other operators over an
	// empty/absent source likewise have nothing to do.
	if srcVal.Kind() == value.KindNothing {
		return value.Nothing(), nil
	}

	src := sourceFor(ctx, srcVal)

	body := func(elem value.Value, index int) (value.Value, error) {
		ctx.pushImplicit(elem, index)
		defer ctx.popImplicit()
		return Eval(n.Body, ctx)
	}
	predicate := func(elem value.Value, index int) (value.Value, error) {
		ctx.pushImplicit(elem, index)
		defer ctx.popImplicit()
		return Eval(n.Predicate, ctx)
	}
	combine := func(acc, next value.Value, index int) (value.Value, error) {
		ctx.pushImplicitPair(acc, next)
		defer ctx.popImplicit()
		return Eval(n.Body, ctx)
	}
	keyBody := func(elem value.Value, index int) (string, value.Value, error) {
		ctx.pushImplicit(elem, index)
		defer ctx.popImplicit()
		k, err := Eval(n.KeyBody, ctx)
		if err != nil {
			return "", value.Nothing(), err
		}
		v, err := Eval(n.Body, ctx)
		if err != nil {
			return "", value.Nothing(), err
		}
		return k.AsString(), v, nil
	}

	switch n.Op {
	case "map":
		return functional.Map(src, body)
	case "map-select":
		return functional.MapSelect(src, body, predicate)
	case "select":
		return functional.Select(src, predicate)
	case "foldl":
		return functional.FoldL(src, combine)
	case "foldr":
		return functional.FoldR(src, combine)
	case "hashmap":
		return functional.HashMap(src, keyBody)
	default:
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-FUNCTIONAL-OP", "unknown functional operator "+n.Op, value.Nothing()))
	}
}
