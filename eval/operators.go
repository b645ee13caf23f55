package eval

import (
	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/exception"
	"github.com/qorelang/qcore/value"
)

func evalBinaryOp(n *ast.BinaryOp, ctx *Context) (value.Value, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	right, err := Eval(n.Right, ctx)
	if err != nil {
		return value.Nothing(), err
	}
	return applyBinary(n.Op, left, right, ctx)
}

// applyBinary implements the numeric-promotion-driven arithmetic and
// relational operators (spec §4.1 promotion matrix, §4.5 relational ops).
func applyBinary(op string, left, right value.Value, ctx *Context) (value.Value, error) {
	switch op {
	case "+":
		return arithAdd(left, right), nil
	case "-":
		return arithSub(left, right), nil
	case "*":
		return arithMul(left, right), nil
	case "/":
		return arithDiv(left, right, ctx)
	case "%":
		return arithMod(left, right, ctx)
	case "==":
		return value.Bool(value.SoftEqual(left, right)), nil
	case "!=":
		return value.Bool(!value.SoftEqual(left, right)), nil
	case "===":
		return value.Bool(value.HardEqual(left, right)), nil
	case "!==":
		return value.Bool(!value.HardEqual(left, right)), nil
	case "<":
		return value.Bool(compareRank(left, right) < 0), nil
	case "<=":
		return value.Bool(compareRank(left, right) <= 0), nil
	case ">":
		return value.Bool(compareRank(left, right) > 0), nil
	case ">=":
		return value.Bool(compareRank(left, right) >= 0), nil
	case "&":
		return value.Int(left.AsInt() & right.AsInt()), nil
	case "|":
		return value.Int(left.AsInt() | right.AsInt()), nil
	case "^":
		return value.Int(left.AsInt() ^ right.AsInt()), nil
	case "<<":
		return value.Int(left.AsInt() << uint(right.AsInt())), nil
	case ">>":
		return value.Int(left.AsInt() >> uint(right.AsInt())), nil
	default:
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-OPERATOR", "no such binary operator "+op, value.Nothing()))
	}
}

// compareRank follows spec §4.1's numeric promotion matrix: Number, then
// Float, then Int/Bool, then String, then Date.
func compareRank(a, b value.Value) int {
	switch {
	case a.Kind() == value.KindNumber || b.Kind() == value.KindNumber:
		return value.NumberCmp(a.AsNumber(), b.AsNumber())
	case a.Kind() == value.KindFloat || b.Kind() == value.KindFloat:
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case a.Kind() == value.KindInt || b.Kind() == value.KindInt ||
		a.Kind() == value.KindBool || b.Kind() == value.KindBool:
		ai, bi := a.AsInt(), b.AsInt()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case a.Kind() == value.KindString || b.Kind() == value.KindString:
		as, bs := a.AsString(), b.AsString()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	case a.Kind() == value.KindDate || b.Kind() == value.KindDate:
		at, bt := a.AsDate().AsTime(), b.AsDate().AsTime()
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	default:
		ai, bi := a.AsInt(), b.AsInt()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
}

func arithAdd(a, b value.Value) value.Value {
	if a.Kind() == value.KindNumber || b.Kind() == value.KindNumber {
		return value.NumberAdd(a.AsNumber(), b.AsNumber())
	}
	if a.Kind() == value.KindDate || b.Kind() == value.KindDate {
		return value.DateAdd(a, b)
	}
	if a.Kind() == value.KindFloat || b.Kind() == value.KindFloat {
		return value.Float(a.AsFloat() + b.AsFloat())
	}
	if a.Kind() == value.KindString || b.Kind() == value.KindString {
		return value.String(a.AsString()+b.AsString(), a.StringEncoding())
	}
	return value.Int(a.AsInt() + b.AsInt())
}

func arithSub(a, b value.Value) value.Value {
	if a.Kind() == value.KindNumber || b.Kind() == value.KindNumber {
		return value.NumberSub(a.AsNumber(), b.AsNumber())
	}
	if a.Kind() == value.KindDate || b.Kind() == value.KindDate {
		return value.DateSub(a, b)
	}
	if a.Kind() == value.KindFloat || b.Kind() == value.KindFloat {
		return value.Float(a.AsFloat() - b.AsFloat())
	}
	return value.Int(a.AsInt() - b.AsInt())
}

func arithMul(a, b value.Value) value.Value {
	if a.Kind() == value.KindNumber || b.Kind() == value.KindNumber {
		return value.NumberMul(a.AsNumber(), b.AsNumber())
	}
	if a.Kind() == value.KindFloat || b.Kind() == value.KindFloat {
		return value.Float(a.AsFloat() * b.AsFloat())
	}
	return value.Int(a.AsInt() * b.AsInt())
}

func arithDiv(a, b value.Value, ctx *Context) (value.Value, error) {
	if a.Kind() == value.KindNumber || b.Kind() == value.KindNumber {
		q, ok := value.NumberQuo(a.AsNumber(), b.AsNumber())
		if !ok {
			return value.Nothing(), ctx.raise(exception.System("DIVISION-BY-ZERO", "division by zero", value.Nothing()))
		}
		return q, nil
	}
	if a.Kind() == value.KindFloat || b.Kind() == value.KindFloat {
		if b.AsFloat() == 0 {
			return value.Nothing(), ctx.raise(exception.System("DIVISION-BY-ZERO", "division by zero", value.Nothing()))
		}
		return value.Float(a.AsFloat() / b.AsFloat()), nil
	}
	if b.AsInt() == 0 {
		return value.Nothing(), ctx.raise(exception.System("DIVISION-BY-ZERO", "division by zero", value.Nothing()))
	}
	return value.Int(a.AsInt() / b.AsInt()), nil
}

func arithMod(a, b value.Value, ctx *Context) (value.Value, error) {
	if b.AsInt() == 0 {
		return value.Nothing(), ctx.raise(exception.System("DIVISION-BY-ZERO", "modulo by zero", value.Nothing()))
	}
	return value.Int(a.AsInt() % b.AsInt()), nil
}

func evalUnaryOp(n *ast.UnaryOp, ctx *Context) (value.Value, error) {
	switch n.Op {
	case "-":
		v, err := Eval(n.Operand, ctx)
		if err != nil {
			return value.Nothing(), err
		}
		if v.Kind() == value.KindNumber {
			return value.NumberSub(value.NumberFromInt(0), v), nil
		}
		if v.Kind() == value.KindFloat {
			return value.Float(-v.AsFloat()), nil
		}
		return value.Int(-v.AsInt()), nil
	case "!":
		v, err := Eval(n.Operand, ctx)
		if err != nil {
			return value.Nothing(), err
		}
		return value.Bool(!v.AsBool()), nil
	case "++", "--":
		return evalIncDec(n, ctx)
	default:
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-OPERATOR", "no such unary operator "+n.Op, value.Nothing()))
	}
}

// evalIncDec increments/decrements a local variable in place. Locals are
// not shared across the object lock-ordering discipline (spec §4.3
// applies to object members, hash keys and list indices; a plain local
// cell is only ever touched by its owning thread or, once closed over, by
// the single-mutex Cell path lvalue.Cell models), so no LValueHelper is
// needed here.
func evalIncDec(n *ast.UnaryOp, ctx *Context) (value.Value, error) {
	vr, ok := n.Operand.(*ast.VariableRef)
	if !ok {
		return value.Nothing(), ctx.raise(exception.System("INVALID-LVALUE", "++/-- operand is not a variable", value.Nothing()))
	}
	cell, ok := ctx.Thread.ResolveLocal(vr.Name)
	if !ok {
		return value.Nothing(), ctx.raise(exception.System("UNKNOWN-VARIABLE", "undeclared variable "+vr.Name, value.Nothing()))
	}
	before := *cell
	var after value.Value
	if n.Op == "++" {
		after = arithAdd(before, value.Int(1))
	} else {
		after = arithSub(before, value.Int(1))
	}
	*cell = after
	if n.Postfix {
		// before's reference transfers to the caller as the postfix
		// result; the cell now owns the separate `after` reference.
		return before, nil
	}
	before.Release()
	return after, nil
}
