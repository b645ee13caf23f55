package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/thread"
	"github.com/qorelang/qcore/value"
)

// evalBackground spawns Body on a detached thread (SPEC_FULL.md §5): the
// spawned evaluation gets its own thread.Slot (own call stack, own local
// scope) sharing everything else in ctx. Its return value is discarded; an
// escaping exception is logged rather than propagated to any joiner,
// since a detached thread has none.
func evalBackground(n *ast.Background, ctx *Context) (value.Value, error) {
	if ctx.Spawner == nil {
		return value.Nothing(), ctx.raise(exception.System("BACKGROUND-UNAVAILABLE", "no spawner bound to this context", value.Nothing()))
	}
	err := ctx.Spawner.SpawnDetached(ctx.Program, func(slot *thread.Slot) {
		childCtx := *ctx
		childCtx.Thread = slot
		childCtx.implicit = nil
		if _, err := Eval(n.Body, &childCtx); err != nil {
			if exc, ok := err.(*exception.Exception); ok && ctx.Log != nil {
				ctx.Log.Error("background thread exception: %s", exc.Error())
			}
		}
	})
	if err != nil {
		return value.Nothing(), ctx.raise(exception.System("THREAD-CREATION-FAILURE", err.Error(), value.Nothing()))
	}
	return value.Nothing(), nil
}
