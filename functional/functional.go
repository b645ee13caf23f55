// Package functional implements the functional operators (spec §4.6 /
// C6): map, map-select, select, foldl, foldr, hashmap. Each operator runs
// over its whole source when called and returns a finished result;
// nothing is produced lazily. It
// knows nothing of ast or eval — callers supply the per-element body as a
// plain Go closure, the same opaque-callback pattern value.Invoker and
// resolver.Method use to keep this package independent of the tree-walker.
package functional

import "github.com/qorelang/qcore/value"

// SourceKind distinguishes the three iteration-source shapes spec §4.6
// names, since map's single-value short-circuit needs to tell a
// SourceSingle apart from a one-element SourceList.
type SourceKind int

const (
	SourceList SourceKind = iota
	SourceSingle
	SourceIterator
)

// Source is anything a functional operator can walk: a List, a lone
// value, or an iterator object exposing next()/get_value() (spec §4.6's
// "three kinds of right-hand source").
type Source interface {
	HasNext() bool
	Next() (value.Value, error)
	Kind() SourceKind
}

// Body is the per-element callback map/select/map-select evaluate once
// per element, with index the zero-based position (spec §4.6's `$#`).
type Body func(elem value.Value, index int) (value.Value, error)

// Combine is foldl/foldr's accumulator step ($1=acc, $2=next element).
type Combine func(acc, next value.Value, index int) (value.Value, error)

// KVBody produces a key/value pair per element for hashmap.
type KVBody func(elem value.Value, index int) (key string, val value.Value, err error)

// Map evaluates body once per source element, collecting results into a
// list. For a SourceSingle input whose body returns a non-list, the bare
// result is returned instead of a singleton list — spec §4.6's
// single-value short-circuit ("when the input is a single value and the
// body returns a non-list, the whole expression yields that non-list").
func Map(src Source, body Body) (value.Value, error) {
	if src.Kind() == SourceSingle {
		if !src.HasNext() {
			return value.Nothing(), nil
		}
		elem, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		result, err := body(elem, 0)
		if err != nil {
			return value.Nothing(), err
		}
		if result.Kind() != value.KindList {
			return result, nil
		}
		return value.List(result), nil
	}
	var out []value.Value
	i := 0
	for src.HasNext() {
		elem, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		r, err := body(elem, i)
		if err != nil {
			return value.Nothing(), err
		}
		out = append(out, r)
		i++
	}
	return value.List(out...), nil
}

// MapSelect yields e(elem) for every element where p(elem) evaluates
// truthy (spec §4.6 "map-select e, i, p").
func MapSelect(src Source, e Body, p Body) (value.Value, error) {
	var out []value.Value
	i := 0
	for src.HasNext() {
		elem, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		pass, err := p(elem, i)
		if err != nil {
			return value.Nothing(), err
		}
		if pass.AsBool() {
			r, err := e(elem, i)
			if err != nil {
				return value.Nothing(), err
			}
			out = append(out, r)
		}
		i++
	}
	return value.List(out...), nil
}

// Select filters source elements by predicate p (spec §4.6 "select i, p").
func Select(src Source, p Body) (value.Value, error) {
	return MapSelect(src, func(elem value.Value, index int) (value.Value, error) {
		return elem, nil
	}, p)
}

// fold collects every element up front (so foldr can walk it backwards)
// then applies combine pairwise. Fewer than two elements short-circuits
// per spec §4.6 ("if the input has fewer than two elements, returns the
// first element, or Nothing for empty").
func fold(src Source, combine Combine, reverse bool) (value.Value, error) {
	var items []value.Value
	for src.HasNext() {
		v, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return value.Nothing(), nil
	}
	if len(items) == 1 {
		return items[0], nil
	}
	if reverse {
		acc := items[len(items)-1]
		for i := len(items) - 2; i >= 0; i-- {
			r, err := combine(acc, items[i], i)
			if err != nil {
				return value.Nothing(), err
			}
			acc = r
		}
		return acc, nil
	}
	acc := items[0]
	for i := 1; i < len(items); i++ {
		r, err := combine(acc, items[i], i)
		if err != nil {
			return value.Nothing(), err
		}
		acc = r
	}
	return acc, nil
}

// FoldL folds left-to-right: foldl(f, [a,b,c]) == f(f(a,b),c).
func FoldL(src Source, combine Combine) (value.Value, error) { return fold(src, combine, false) }

// FoldR folds right-to-left.
func FoldR(src Source, combine Combine) (value.Value, error) { return fold(src, combine, true) }

// HashMap builds a hash from src via kv; a repeated key keeps its first
// occurrence's position but the later value overwrites it (spec §4.6
// "duplicate keys overwrite earlier values, order = first occurrence").
func HashMap(src Source, kv KVBody) (value.Value, error) {
	h := value.Hash()
	i := 0
	for src.HasNext() {
		elem, err := src.Next()
		if err != nil {
			return value.Nothing(), err
		}
		k, v, err := kv(elem, i)
		if err != nil {
			return value.Nothing(), err
		}
		h.HashMap().Set(k, v)
		i++
	}
	return h, nil
}
