package value

import (
	"math/big"
	"strconv"
	"strings"
	"time"
)

// AsBool implements the as_bool coercion (spec §4.1): every kind has a
// defined truthiness. Nothing/Null are false; numerics are false only at
// zero; String/Binary are false only when empty; List/Hash are false only
// when empty; everything else (Object, CallRef, Reference, Regex family,
// WeakRef) is true.
func (v Value) AsBool() bool {
	switch v.k {
	case KindNothing, KindNull:
		return false
	case KindBool:
		return v.boolPayload().Bool()
	case KindInt:
		return v.intPayload().i != 0
	case KindFloat:
		return v.floatPayload().f != 0
	case KindNumber:
		return v.BigFloat().Sign() != 0
	case KindString:
		return len(v.Bytes()) > 0
	case KindBinary:
		return len(v.binaryPayload().b) > 0
	case KindList:
		return v.ListLen() > 0
	case KindHash:
		return v.HashLen() > 0
	default:
		return true
	}
}

// AsInt implements the as_int coercion.
func (v Value) AsInt() int64 {
	switch v.k {
	case KindNothing, KindNull:
		return 0
	case KindBool:
		if v.boolPayload().Bool() {
			return 1
		}
		return 0
	case KindInt:
		return v.intPayload().i
	case KindFloat:
		return int64(v.floatPayload().f)
	case KindNumber:
		i, _ := v.BigFloat().Int64()
		return i
	case KindString:
		return parseLeadingInt(string(v.Bytes()))
	case KindDate:
		return int64(v.AsTime().Unix())
	default:
		return 0
	}
}

// AsFloat implements the as_float coercion.
func (v Value) AsFloat() float64 {
	switch v.k {
	case KindNothing, KindNull:
		return 0
	case KindBool:
		if v.boolPayload().Bool() {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.intPayload().i)
	case KindFloat:
		return v.floatPayload().f
	case KindNumber:
		f, _ := v.BigFloat().Float64()
		return f
	case KindString:
		return parseLeadingFloat(string(v.Bytes()))
	case KindDate:
		t := v.AsTime()
		return float64(t.Unix()) + float64(t.Nanosecond())/1e9
	default:
		return 0
	}
}

// AsNumber implements the as_number coercion, promoting any scalar into
// the arbitrary-precision Number variant.
func (v Value) AsNumber() Value {
	switch v.k {
	case KindNumber:
		return v
	case KindString:
		s := strings.TrimSpace(string(v.Bytes()))
		f, _, err := big.ParseFloat(s, 10, numberPrecision, big.ToNearestEven)
		if err != nil {
			f = new(big.Float).SetPrec(numberPrecision)
		}
		return Value{k: KindNumber, p: &numberPayload{f: f, refCounted: refCounted{count: 1}}}
	default:
		return NumberFromFloat(v.AsFloat())
	}
}

// AsString implements the as_string coercion (the non-formatted, "give me
// a canonical textual rendering" direction used by implicit string
// concatenation and type coercion, as opposed to Format's user-facing
// %-directives).
func (v Value) AsString() string {
	switch v.k {
	case KindNothing:
		return ""
	case KindNull:
		return ""
	case KindBool:
		if v.boolPayload().Bool() {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.intPayload().i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatPayload().f, 'f', -1, 64)
	case KindNumber:
		return v.BigFloat().Text('f', -1)
	case KindString:
		return string(v.Bytes())
	case KindBinary:
		return string(v.binaryPayload().b)
	case KindDate:
		return v.AsTime().Format("2006-01-02T15:04:05.000000")
	default:
		return ""
	}
}

// AsDate implements the as_date coercion: absolute dates pass through,
// numerics are treated as a relative offset in seconds from the zero
// epoch (consistent with DatePlusSeconds), and strings are parsed as
// RFC3339 timestamps, falling back to the epoch on failure.
func (v Value) AsDate() Value {
	switch v.k {
	case KindDate:
		return v
	case KindInt:
		return DatePlusSeconds(AbsoluteDate(epochTime()), float64(v.intPayload().i))
	case KindFloat:
		return DatePlusSeconds(AbsoluteDate(epochTime()), v.floatPayload().f)
	case KindString:
		t, err := parseDateString(string(v.Bytes()))
		if err != nil {
			return AbsoluteDate(epochTime())
		}
		return AbsoluteDate(t)
	default:
		return AbsoluteDate(epochTime())
	}
}

func epochTime() time.Time { return time.Unix(0, 0).UTC() }

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000000", "2006-01-02 15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	i, _ := strconv.ParseInt(s[:end], 10, 64)
	return i
}

func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	sawDigit := false
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		sawDigit = true
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			sawDigit = true
		}
	}
	if !sawDigit {
		return 0
	}
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}
