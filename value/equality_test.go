package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSoftEqualityPromotesAcrossKinds(t *testing.T) {
	assert.True(t, SoftEqual(Int(1), String("1", EncodingUTF8)))
	assert.True(t, SoftEqual(Int(1), String("1.0", EncodingUTF8)))
	assert.True(t, SoftEqual(String("1", EncodingUTF8), Bool(true)))
}

func TestHardEqualityRejectsCrossKind(t *testing.T) {
	assert.False(t, HardEqual(Int(1), String("1", EncodingUTF8)))
	assert.False(t, HardEqual(Int(1), Float(1.0)))
	assert.True(t, HardEqual(Int(1), Int(1)))
}

func TestHardEqualityStructuralForList(t *testing.T) {
	a := List(Int(1), String("x", EncodingUTF8))
	b := List(Int(1), String("x", EncodingUTF8))
	c := List(Int(1), String("y", EncodingUTF8))
	assert.True(t, HardEqual(a, b))
	assert.False(t, HardEqual(a, c))
}

func TestNothingAndNullSoftEqual(t *testing.T) {
	assert.True(t, SoftEqual(Nothing(), Null()))
}

func TestCompareSoftNumericPromotion(t *testing.T) {
	assert.Equal(t, -1, CompareSoft(Int(1), Int(2)))
	assert.Equal(t, 1, CompareSoft(Float(2.5), Int(2)))
	assert.Equal(t, 0, CompareSoft(Int(3), String("3", EncodingUTF8)))
}

func TestCompareSoftStringTranscodesEncoding(t *testing.T) {
	// 0xE9 in Latin1 is U+00E9 (e-acute); decoded to runes it sorts after
	// plain ASCII "e" the same way the UTF-8 encoded codepoint would.
	latin1 := String(string([]byte{0xE9}), EncodingLatin1)
	assert.Equal(t, 1, CompareSoft(latin1, String("e", EncodingUTF8)))
}

func TestCompareSoftDateByInstant(t *testing.T) {
	early := AbsoluteDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	later := AbsoluteDate(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, -1, CompareSoft(early, later))
	assert.Equal(t, 1, CompareSoft(later, early))
	assert.Equal(t, 0, CompareSoft(early, early))
}
