package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

// listSortMode maps a sort pseudo-method name to its descending/stable
// flags (spec §4.2.2's four List sort operations).
var listSortMode = map[string]struct {
	descending bool
	stable     bool
}{
	"sort":                   {descending: false, stable: false},
	"sort_descending":        {descending: true, stable: false},
	"sort_stable":            {descending: false, stable: true},
	"sort_descending_stable": {descending: true, stable: true},
}

// evalListMethodCall handles List's built-in pseudo-methods. Lists have
// no user-defined class hierarchy, so unlike evalMethodCall's Object
// path there is no resolver lookup — the method name is matched directly
// against the fixed set spec §4.2.2 names.
func evalListMethodCall(n *ast.MethodCall, recv value.Value, ctx *Context) (value.Value, error) {
	mode, ok := listSortMode[n.Method]
	if !ok {
		return value.Nothing(), ctx.raise(exception.System("METHOD-DOES-NOT-EXIST", "no such list method "+n.Method, value.Nothing()))
	}

	args, err := evalArgs(n.Args, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	cmp := value.CompareSoft
	if len(args) > 0 && args[0].Kind() == value.KindCallRef {
		cb := args[0]
		cmp = func(a, b value.Value) int {
			result, cerr := cb.Call([]value.Value{a, b})
			if cerr != nil {
				return 0
			}
			return int(result.AsInt())
		}
	}

	unique := recv.EnsureUnique()
	unique.ListSort(cmp, mode.descending, mode.stable)
	return unique, nil
}
