package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingletonsAreNotRefCounted(t *testing.T) {
	assert.False(t, Nothing().IsRefCounted())
	assert.False(t, Null().IsRefCounted())
	assert.False(t, Bool(true).IsRefCounted())
	assert.False(t, Bool(false).IsRefCounted())
	assert.False(t, Int(0).IsRefCounted())
}

func TestIntZeroReusesSingleton(t *testing.T) {
	a := Int(0)
	b := Int(0)
	assert.Equal(t, a.intPayload(), b.intPayload())
	assert.Equal(t, int64(1), zeroIntSingleton.refs())
}

func TestNonZeroIntIsCounted(t *testing.T) {
	v := Int(42)
	assert.True(t, v.IsRefCounted())
	v2 := v.Acquire()
	assert.Equal(t, v.intPayload(), v2.intPayload())
}

func TestStringEnsureUniqueCopiesWhenShared(t *testing.T) {
	s := String("hello", EncodingUTF8)
	shared := s.Acquire()
	unique := s.EnsureUnique()
	assert.NotEqual(t, shared.stringPayload(), unique.stringPayload())
	assert.Equal(t, "hello", string(unique.Bytes()))
}

func TestStringEnsureUniqueReturnsSameWhenSole(t *testing.T) {
	s := String("solo", EncodingUTF8)
	unique := s.EnsureUnique()
	assert.Equal(t, s.stringPayload(), unique.stringPayload())
}

func TestListPreservesNothingGaps(t *testing.T) {
	l := List(Int(1), Nothing(), Int(3))
	assert.Equal(t, 3, l.ListLen())
	assert.Equal(t, KindNothing, l.ListAt(1).Kind())
}

func TestHashPreservesInsertionOrderOnOverwrite(t *testing.T) {
	h := Hash()
	h.HashMap().Set("a", Int(1))
	h.HashMap().Set("b", Int(2))
	h.HashMap().Set("a", Int(3))
	assert.Equal(t, []string{"a", "b"}, h.HashKeys())
	v, ok := h.HashGet("a")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt())
}
