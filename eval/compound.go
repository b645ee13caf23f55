package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

// evalCompoundAssignment implements the type-driven `OP=` dispatch table
// (spec §4.5): for += on list, append; on hash, merge; on string,
// concatenate; on date, add; else numeric add. For -= on hash, remove
// key(s); on object, remove member(s); on date, subtract; else numeric
// subtract. Other operators (*=, /=, %=, &=, |=, ^=, <<=, >>=) always
// apply their scalar arithmetic/bitwise operator.
func evalCompoundAssignment(n *ast.CompoundAssignment, ctx *Context) (value.Value, error) {
	rhs, err := Eval(n.Value, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	cur, err := currentLValue(n.Target, ctx)
	if err != nil {
		return value.Nothing(), err
	}

	var result value.Value
	switch n.Op {
	case "+=":
		result, err = compoundPlus(cur, rhs, ctx)
	case "-=":
		result, err = compoundMinus(cur, rhs, ctx)
	default:
		result, err = applyBinary(n.Op[:len(n.Op)-1], cur, rhs, ctx)
	}
	if err != nil {
		return value.Nothing(), err
	}
	if err := assignTo(n.Target, result, ctx); err != nil {
		return value.Nothing(), err
	}
	return result, nil
}

func currentLValue(target ast.Node, ctx *Context) (value.Value, error) {
	v, err := Eval(target, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return v, nil
}

func compoundPlus(cur, rhs value.Value, ctx *Context) (value.Value, error) {
	switch cur.Kind() {
	case value.KindList:
		unique := cur.EnsureUnique()
		unique.ListSeq().Push(rhs.Acquire())
		return unique, nil
	case value.KindHash:
		unique := cur.EnsureUnique()
		if rhs.Kind() == value.KindHash {
			for _, k := range rhs.HashKeys() {
				v, _ := rhs.HashGet(k)
				unique.HashMap().Set(k, v.Acquire())
			}
		}
		return unique, nil
	case value.KindString:
		return value.String(cur.AsString()+rhs.AsString(), cur.StringEncoding()), nil
	case value.KindDate:
		switch rhs.Kind() {
		case value.KindDate:
			return value.DateAdd(cur, rhs), nil
		case value.KindInt, value.KindFloat, value.KindNumber, value.KindBool, value.KindString:
			return value.DatePlusSeconds(cur, rhs.AsFloat()), nil
		default:
			return value.Nothing(), ctx.raise(exception.System("DATE-ARITHMETIC-ERROR", "cannot add a "+rhs.Kind().String()+" to a date", value.Nothing()))
		}
	default:
		return arithAdd(cur, rhs), nil
	}
}

func compoundMinus(cur, rhs value.Value, ctx *Context) (value.Value, error) {
	switch cur.Kind() {
	case value.KindHash:
		unique := cur.EnsureUnique()
		keys := keysToRemove(rhs)
		for _, k := range keys {
			if old, ok := unique.HashMap().Get(k); ok {
				old.Release()
			}
			unique.HashMap().Delete(k)
		}
		return unique, nil
	case value.KindObject:
		for _, name := range keysToRemove(rhs) {
			if err := cur.ObjectPayload().SetMember(name, value.Nothing()); err != nil {
				return value.Nothing(), ctx.raise(exception.System("OBJECT-ALREADY-DELETED", err.Error(), value.Nothing()))
			}
		}
		return cur, nil
	case value.KindDate:
		return value.DateSub(cur, rhs), nil
	default:
		return arithSub(cur, rhs), nil
	}
}

func keysToRemove(rhs value.Value) []string {
	if rhs.Kind() == value.KindList {
		keys := make([]string, 0, rhs.ListLen())
		for _, item := range rhs.ListItems() {
			keys = append(keys, item.AsString())
		}
		return keys
	}
	return []string{rhs.AsString()}
}

func evalIndex(n *ast.IndexExpr, ctx *Context) (value.Value, error) {
	target, err := Eval(n.Target, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	idx, err := Eval(n.Index, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	switch target.Kind() {
	case value.KindList:
		return target.ListAt(int(idx.AsInt())), nil
	case value.KindHash:
		v, _ := target.HashGet(idx.AsString())
		return v, nil
	default:
		return value.Nothing(), nil
	}
}

func evalMemberAccess(n *ast.MemberAccess, ctx *Context) (value.Value, error) {
	target, err := Eval(n.Target, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	switch target.Kind() {
	case value.KindHash:
		v, _ := target.HashGet(n.Member)
		return v, nil
	case value.KindObject:
		v, err := target.ObjectPayload().GetMember(n.Member)
		if err != nil {
			return value.Nothing(), ctx.raise(exception.System("OBJECT-ALREADY-DELETED", err.Error(), value.Nothing()))
		}
		return v, nil
	default:
		return value.Nothing(), nil
	}
}

func evalListLiteral(n *ast.ListLiteral, ctx *Context) (value.Value, error) {
	items := make([]value.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		v, err := Eval(el, ctx)
		if err != nil {
			return value.Nothing(), err
		}
		items = append(items, v)
	}
	return value.List(items...), nil
}

func evalHashLiteral(n *ast.HashLiteral, ctx *Context) (value.Value, error) {
	h := value.Hash()
	for i, keyNode := range n.Keys {
		k, err := Eval(keyNode, ctx)
		if err != nil {
			return value.Nothing(), err
		}
		v, err := Eval(n.Values[i], ctx)
		if err != nil {
			return value.Nothing(), err
		}
		h.HashMap().Set(k.AsString(), v)
	}
	return h, nil
}

func evalTernary(n *ast.Ternary, ctx *Context) (value.Value, error) {
	cond, err := Eval(n.Cond, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if cond.AsBool() {
		return Eval(n.Then, ctx)
	}
	return Eval(n.Else, ctx)
}

func evalLogicalAnd(n *ast.LogicalAnd, ctx *Context) (value.Value, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if !left.AsBool() {
		return value.Bool(false), nil
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return value.Bool(right.AsBool()), nil
}

func evalLogicalOr(n *ast.LogicalOr, ctx *Context) (value.Value, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	if left.AsBool() {
		return value.Bool(true), nil
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return value.Bool(right.AsBool()), nil
}
