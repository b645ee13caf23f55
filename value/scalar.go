package value

// intPayload backs KindInt. A shared singleton is kept for zero per spec.
type intPayload struct {
	refCounted
	i int64
}

func (*intPayload) kind() Kind { return KindInt }

var zeroIntSingleton = &intPayload{i: 0, refCounted: refCounted{count: 1}}

// Int constructs an Int value. Zero reuses the shared zero singleton for
// fast comparisons against zero; it is not counted (see IsRefCounted).
func Int(i int64) Value {
	if i == 0 {
		return Value{k: KindInt, p: zeroIntSingleton}
	}
	return Value{k: KindInt, p: &intPayload{i: i, refCounted: refCounted{count: 1}}}
}

func (v Value) intPayload() *intPayload { return v.p.(*intPayload) }

// floatPayload backs KindFloat.
type floatPayload struct {
	refCounted
	f float64
}

func (*floatPayload) kind() Kind { return KindFloat }

func Float(f float64) Value {
	return Value{k: KindFloat, p: &floatPayload{f: f, refCounted: refCounted{count: 1}}}
}

func (v Value) floatPayload() *floatPayload { return v.p.(*floatPayload) }

// Encoding tags the byte interpretation of a String value.
type Encoding string

const (
	EncodingUTF8    Encoding = "UTF-8"
	EncodingLatin1  Encoding = "ISO-8859-1"
	EncodingASCII   Encoding = "US-ASCII"
)

// stringPayload backs KindString. Copy-on-write: Mutate() checks refs()==1
// before mutating in place, copying otherwise.
type stringPayload struct {
	refCounted
	b   []byte
	enc Encoding
}

func (*stringPayload) kind() Kind { return KindString }

func String(s string, enc Encoding) Value {
	if enc == "" {
		enc = EncodingUTF8
	}
	return Value{k: KindString, p: &stringPayload{b: []byte(s), enc: enc, refCounted: refCounted{count: 1}}}
}

func (v Value) stringPayload() *stringPayload { return v.p.(*stringPayload) }

// Bytes returns the raw bytes backing a String value.
func (v Value) Bytes() []byte {
	if v.k != KindString {
		return nil
	}
	return v.stringPayload().b
}

// StringEncoding returns the encoding tag of a String value.
func (v Value) StringEncoding() Encoding {
	if v.k != KindString {
		return ""
	}
	return v.stringPayload().enc
}

// EnsureUnique returns a Value whose payload is safe to mutate in place:
// if this is the sole reference it is returned as-is, otherwise a private
// copy is made. This is the copy-on-write primitive lvalue.EnsureUnique
// calls before an in-place mutation.
func (v Value) EnsureUnique() Value {
	switch v.k {
	case KindString:
		p := v.stringPayload()
		if p.refs() == 1 {
			return v
		}
		cp := make([]byte, len(p.b))
		copy(cp, p.b)
		return Value{k: KindString, p: &stringPayload{b: cp, enc: p.enc, refCounted: refCounted{count: 1}}}
	case KindBinary:
		p := v.binaryPayload()
		if p.refs() == 1 {
			return v
		}
		cp := make([]byte, len(p.b))
		copy(cp, p.b)
		return Value{k: KindBinary, p: &binaryPayload{b: cp, refCounted: refCounted{count: 1}}}
	case KindList:
		return v.ensureUniqueList()
	case KindHash:
		return v.ensureUniqueHash()
	default:
		return v
	}
}

// binaryPayload backs KindBinary.
type binaryPayload struct {
	refCounted
	b []byte
}

func (*binaryPayload) kind() Kind { return KindBinary }

func Binary(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{k: KindBinary, p: &binaryPayload{b: cp, refCounted: refCounted{count: 1}}}
}

func (v Value) binaryPayload() *binaryPayload { return v.p.(*binaryPayload) }
