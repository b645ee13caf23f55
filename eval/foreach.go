package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/container"
	"github.com/qorelang/qcore/functional"
	"github.com/qorelang/qcore/value"
)

// listSource iterates a value.List in index order, implementing
// functional.Source structurally.
type listSource struct {
	items []value.Value
	i     int
}

func (s *listSource) HasNext() bool             { return s.i < len(s.items) }
func (s *listSource) Kind() functional.SourceKind { return functional.SourceList }
func (s *listSource) Next() (value.Value, error) {
	v := s.items[s.i]
	s.i++
	return v, nil
}

// singleSource yields exactly one value (spec §4.6's "single value — one
// iteration with that value bound").
type singleSource struct {
	v    value.Value
	done bool
}

func (s *singleSource) HasNext() bool               { return !s.done }
func (s *singleSource) Kind() functional.SourceKind { return functional.SourceSingle }
func (s *singleSource) Next() (value.Value, error) {
	s.done = true
	return s.v, nil
}

// objectSource drives an iterator object through its next()/get_value()
// methods (spec §4.6's iterator capability).
type objectSource struct {
	ctx *Context
	obj *value.ObjectPayload
}

func (s *objectSource) HasNext() bool {
	v, err := evalMethodCallOn(s.ctx, s.obj, "next", nil)
	return err == nil && v.AsBool()
}
func (s *objectSource) Kind() functional.SourceKind { return functional.SourceIterator }
func (s *objectSource) Next() (value.Value, error) {
	return evalMethodCallOn(s.ctx, s.obj, "get_value", nil)
}

func evalMethodCallOn(ctx *Context, obj *value.ObjectPayload, method string, args []value.Value) (value.Value, error) {
	fn, ok := resolveMethodBody(ctx, obj.ClassName(), method)
	if !ok {
		return value.Nothing(), nil
	}
	childCtx := *ctx
	childCtx.Self = obj
	return invokeFunc(fn, args, &childCtx)
}

// sourceFor classifies v into one of the three iteration-source kinds
// spec §4.6 names: List, single value, or iterator object.
func sourceFor(ctx *Context, v value.Value) functional.Source {
	switch v.Kind() {
	case value.KindList:
		return &listSource{items: v.ListItems()}
	case value.KindObject:
		return &objectSource{ctx: ctx, obj: v.ObjectPayload()}
	default:
		return &singleSource{v: v}
	}
}

// evalForEach iterates Source (list / single value / iterator object),
// binding VarName to each element for Body. When Source is itself a
// Reference, the final (possibly body-modified) element value is
// re-assigned back through the captured reference on completion (spec
// §4.5 foreach).
func evalForEach(n *ast.ForEach, ctx *Context) (value.Value, error) {
	var isRef bool
	var refTarget value.Value
	srcVal, err := Eval(n.Source, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if srcVal.Kind() == value.KindReference {
		isRef = true
		refTarget = srcVal
		deref, err := srcVal.Deref()
		if err != nil {
			return value.Nothing(), err
		}
		srcVal = deref
	}

	src := sourceFor(ctx, srcVal)
	var last value.Value
	for src.HasNext() {
		elem, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		ctx.Thread.PushLocalScope()
		ctx.Thread.DeclareLocal(n.VarName, elem)
		_, err = Eval(n.Body, ctx)
		if cell, ok := ctx.Thread.ResolveLocal(n.VarName); ok {
			last = *cell
		}
		ctx.Thread.PopLocalScope()
		if err != nil {
			return value.Nothing(), err
		}
	}

	if isRef {
		if err := refTarget.Assign(last); err != nil {
			return value.Nothing(), err
		}
	}
	return value.Nothing(), nil
}

// evalContext implements spec §4.5's context/subcontext statement:
// iterates a list-of-hashes Rows source with an optional Where filter and
// optional sort_ascending/sort_descending key, exposing row-local %name
// bindings for Body.
func evalContext(n *ast.ContextStmt, ctx *Context) (value.Value, error) {
	rowsVal, err := Eval(n.Rows, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if rowsVal.Kind() != value.KindList {
		return value.Nothing(), nil
	}
	rows := append([]value.Value{}, rowsVal.ListItems()...)

	if n.HasSortKey {
		keyOf := func(row int) value.Value {
			v, _ := rows[row].HashGet(n.SortKey)
			return v
		}
		less := func(a, b value.Value) bool { return compareRank(a, b) < 0 }
		idx := container.NewSortedIndex(len(rows), n.SortDesc, less, keyOf)
		sorted := make([]value.Value, 0, len(rows))
		idx.Each(func(row int) bool {
			sorted = append(sorted, rows[row])
			return true
		})
		rows = sorted
	}

	for _, row := range rows {
		ctx.Thread.PushLocalScope()
		for _, k := range row.HashKeys() {
			v, _ := row.HashGet(k)
			ctx.Thread.DeclareLocal("%"+k, v)
		}
		if n.Where != nil {
			pass, err := Eval(n.Where, ctx)
			if err != nil {
				ctx.Thread.PopLocalScope()
				return value.Nothing(), err
			}
			if !pass.AsBool() {
				ctx.Thread.PopLocalScope()
				continue
			}
		}
		_, err := Eval(n.Body, ctx)
		ctx.Thread.PopLocalScope()
		if err != nil {
			return value.Nothing(), err
		}
	}
	return value.Nothing(), nil
}
