package value

import "time"

// rank implements the numeric promotion order from spec §4.1:
// Number > Float > Int/Bool > String > Date. Kinds outside this scalar
// ladder (List, Hash, Object, ...) are compared structurally or by
// identity instead and never consult rank.
func rank(k Kind) int {
	switch k {
	case KindNumber:
		return 5
	case KindFloat:
		return 4
	case KindInt, KindBool:
		return 3
	case KindString:
		return 2
	case KindDate:
		return 1
	default:
		return 0
	}
}

// SoftEqual implements Qore-style "==": operands are promoted to the
// higher-ranked operand's type before comparing, so 1 == "1" and
// 1 == 1.0 are both true. Nothing and Null compare soft-equal to each
// other and to nothing else. Non-scalar kinds fall back to HardEqual.
func SoftEqual(a, b Value) bool {
	if (a.k == KindNothing || a.k == KindNull) && (b.k == KindNothing || b.k == KindNull) {
		return true
	}
	ra, rb := rank(a.k), rank(b.k)
	if ra == 0 || rb == 0 {
		return HardEqual(a, b)
	}
	top := ra
	if rb > top {
		top = rb
	}
	switch top {
	case 5:
		return NumberCmp(a.AsNumber(), b.AsNumber()) == 0
	case 4:
		return a.AsFloat() == b.AsFloat()
	case 3:
		return a.AsInt() == b.AsInt()
	case 2:
		return a.AsString() == b.AsString()
	case 1:
		return a.AsDate().AsTime().Equal(b.AsDate().AsTime())
	default:
		return HardEqual(a, b)
	}
}

// CompareSoft implements the default ordering List's sort/sort_descending/
// sort_stable/sort_descending_stable use when no comparator callback is
// given: the same promotion ladder as SoftEqual, generalized to a
// three-way comparison. Number/Float/Int/Bool compare numerically, String
// compares byte-lexicographically after decoding each operand's own
// Encoding to Unicode codepoints (so a Latin1 and a UTF-8 string compare
// by codepoint, not by raw differently-encoded bytes), Date compares by
// instant. Returns -1, 0, or 1.
func CompareSoft(a, b Value) int {
	if (a.k == KindNothing || a.k == KindNull) && (b.k == KindNothing || b.k == KindNull) {
		return 0
	}
	ra, rb := rank(a.k), rank(b.k)
	top := ra
	if rb > top {
		top = rb
	}
	switch top {
	case 5:
		return NumberCmp(a.AsNumber(), b.AsNumber())
	case 4:
		return floatCompare(a.AsFloat(), b.AsFloat())
	case 3:
		return intCompare(a.AsInt(), b.AsInt())
	case 2:
		return runeCompare(decodeRunes(a), decodeRunes(b))
	case 1:
		return timeCompare(a.AsDate().AsTime(), b.AsDate().AsTime())
	default:
		return runeCompare(decodeRunes(a), decodeRunes(b))
	}
}

func floatCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCompare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func timeCompare(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// decodeRunes transcodes v's own Encoding to a Unicode codepoint sequence:
// Latin1's byte values are already identical to the first 256 Unicode
// codepoints, UTF-8/ASCII decode as ordinary Go strings. Non-String kinds
// fall back to their AsString() rendering.
func decodeRunes(v Value) []rune {
	if v.k != KindString {
		return []rune(v.AsString())
	}
	if v.StringEncoding() == EncodingLatin1 {
		b := v.Bytes()
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		return runes
	}
	return []rune(string(v.Bytes()))
}

func runeCompare(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// HardEqual implements Qore-style "===": no type promotion. Operands of
// different kinds are never hard-equal, so Nothing and Null are not
// hard-equal to each other. Object compares by identity; List/Hash
// compare structurally, element-wise with HardEqual; the scalar kinds
// compare their underlying value; any other kind compares by payload
// identity.
func HardEqual(a, b Value) bool {
	if a.k == KindNothing && b.k == KindNothing {
		return true
	}
	if a.k == KindNull && b.k == KindNull {
		return true
	}
	if a.k != b.k {
		return false
	}
	switch a.k {
	case KindBool:
		return a.boolPayload().Bool() == b.boolPayload().Bool()
	case KindInt:
		return a.intPayload().i == b.intPayload().i
	case KindFloat:
		return a.floatPayload().f == b.floatPayload().f
	case KindNumber:
		return NumberCmp(a, b) == 0
	case KindString:
		return string(a.Bytes()) == string(b.Bytes())
	case KindBinary:
		ab, bb := a.binaryPayload().b, b.binaryPayload().b
		if len(ab) != len(bb) {
			return false
		}
		for i := range ab {
			if ab[i] != bb[i] {
				return false
			}
		}
		return true
	case KindDate:
		return a.IsAbsoluteDate() == b.IsAbsoluteDate() && a.AsTime().Equal(b.AsTime())
	case KindList:
		if a.ListLen() != b.ListLen() {
			return false
		}
		for i := 0; i < a.ListLen(); i++ {
			if !HardEqual(a.ListAt(i), b.ListAt(i)) {
				return false
			}
		}
		return true
	case KindHash:
		ak, bk := a.HashKeys(), b.HashKeys()
		if len(ak) != len(bk) {
			return false
		}
		for _, k := range ak {
			av, _ := a.HashGet(k)
			bv, ok := b.HashGet(k)
			if !ok || !HardEqual(av, bv) {
				return false
			}
		}
		return true
	case KindObject:
		return a.ObjectPayload() == b.ObjectPayload()
	default:
		return a.p == b.p
	}
}
