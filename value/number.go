package value

import "math/big"

// numberPrecision is the working precision (in bits) for the arbitrary
// precision Number variant. See DESIGN.md: modernc.org/mathutil's public
// surface is integer bit-twiddling helpers, not a decimal/rational value
// type, so Number is grounded directly on stdlib math/big.
const numberPrecision = 256

// numberPayload backs KindNumber: an opaque arbitrary-precision number
// that wins numeric promotion against Float/Int (spec §4.1).
type numberPayload struct {
	refCounted
	f *big.Float
}

func (*numberPayload) kind() Kind { return KindNumber }

func NumberFromString(s string) Value {
	f, _, _ := big.ParseFloat(s, 10, numberPrecision, big.ToNearestEven)
	return Value{k: KindNumber, p: &numberPayload{f: f, refCounted: refCounted{count: 1}}}
}

func NumberFromFloat(f float64) Value {
	bf := new(big.Float).SetPrec(numberPrecision).SetFloat64(f)
	return Value{k: KindNumber, p: &numberPayload{f: bf, refCounted: refCounted{count: 1}}}
}

func NumberFromInt(i int64) Value {
	bf := new(big.Float).SetPrec(numberPrecision).SetInt64(i)
	return Value{k: KindNumber, p: &numberPayload{f: bf, refCounted: refCounted{count: 1}}}
}

func (v Value) numberPayload() *numberPayload { return v.p.(*numberPayload) }

func (v Value) BigFloat() *big.Float {
	return v.numberPayload().f
}

func numberAdd(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(numberPrecision).Add(a, b)
}

func numberSub(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(numberPrecision).Sub(a, b)
}

func numberMul(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(numberPrecision).Mul(a, b)
}

func numberQuo(a, b *big.Float) *big.Float {
	return new(big.Float).SetPrec(numberPrecision).Quo(a, b)
}

// NumberAdd/Sub/Mul/Quo implement Number arithmetic, used by eval's
// numeric-promotion dispatch once both operands have been coerced to
// Number.
func NumberAdd(a, b Value) Value {
	return Value{k: KindNumber, p: &numberPayload{f: numberAdd(a.BigFloat(), b.BigFloat()), refCounted: refCounted{count: 1}}}
}

func NumberSub(a, b Value) Value {
	return Value{k: KindNumber, p: &numberPayload{f: numberSub(a.BigFloat(), b.BigFloat()), refCounted: refCounted{count: 1}}}
}

func NumberMul(a, b Value) Value {
	return Value{k: KindNumber, p: &numberPayload{f: numberMul(a.BigFloat(), b.BigFloat()), refCounted: refCounted{count: 1}}}
}

func NumberQuo(a, b Value) (Value, bool) {
	if b.BigFloat().Sign() == 0 {
		return Value{}, false
	}
	return Value{k: KindNumber, p: &numberPayload{f: numberQuo(a.BigFloat(), b.BigFloat()), refCounted: refCounted{count: 1}}}, true
}

func NumberCmp(a, b Value) int {
	return a.BigFloat().Cmp(b.BigFloat())
}
