package functional

import (
	"testing"

	"github.com/qorelang/qcore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listSrc struct {
	items []value.Value
	i     int
	kind  SourceKind
}

func (s *listSrc) HasNext() bool      { return s.i < len(s.items) }
func (s *listSrc) Kind() SourceKind   { return s.kind }
func (s *listSrc) Next() (value.Value, error) {
	v := s.items[s.i]
	s.i++
	return v, nil
}

func newList(kind SourceKind, vs ...value.Value) *listSrc {
	return &listSrc{items: vs, kind: kind}
}

func TestMapOverList(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2), value.Int(3))
	v, err := Map(src, func(e value.Value, i int) (value.Value, error) {
		return value.Int(e.AsInt() * 2), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v.ListLen())
	assert.Equal(t, int64(2), v.ListAt(0).AsInt())
	assert.Equal(t, int64(6), v.ListAt(2).AsInt())
}

func TestMapSingleValueShortCircuit(t *testing.T) {
	src := newList(SourceSingle, value.Int(5))
	v, err := Map(src, func(e value.Value, i int) (value.Value, error) {
		return value.Int(e.AsInt() + 1), nil
	})
	require.NoError(t, err)
	assert.Equal(t, value.KindInt, v.Kind())
	assert.Equal(t, int64(6), v.AsInt())
}

func TestMapSingleValueBodyReturnsListStaysWrapped(t *testing.T) {
	src := newList(SourceSingle, value.Int(5))
	v, err := Map(src, func(e value.Value, i int) (value.Value, error) {
		return value.List(e, e), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v.ListLen())
	assert.Equal(t, 2, v.ListAt(0).ListLen())
}

func TestMapSelect(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2), value.Int(3), value.Int(4))
	v, err := MapSelect(src,
		func(e value.Value, i int) (value.Value, error) { return value.Int(e.AsInt() * 10), nil },
		func(e value.Value, i int) (value.Value, error) { return value.Bool(e.AsInt()%2 == 0), nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 2, v.ListLen())
	assert.Equal(t, int64(20), v.ListAt(0).AsInt())
	assert.Equal(t, int64(40), v.ListAt(1).AsInt())
}

func TestSelect(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2), value.Int(3))
	v, err := Select(src, func(e value.Value, i int) (value.Value, error) {
		return value.Bool(e.AsInt() > 1), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v.ListLen())
}

func TestFoldLEmptyAndSingle(t *testing.T) {
	v, err := FoldL(newList(SourceList), func(acc, next value.Value, i int) (value.Value, error) { return acc, nil })
	require.NoError(t, err)
	assert.Equal(t, value.KindNothing, v.Kind())

	v, err = FoldL(newList(SourceList, value.Int(7)), func(acc, next value.Value, i int) (value.Value, error) { return acc, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.AsInt())
}

func TestFoldLAccumulates(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2), value.Int(3))
	v, err := FoldL(src, func(acc, next value.Value, i int) (value.Value, error) {
		return value.Int(acc.AsInt() + next.AsInt()), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.AsInt())
}

func TestFoldRWalksBackward(t *testing.T) {
	src := newList(SourceList, value.String("a", value.EncodingUTF8), value.String("b", value.EncodingUTF8), value.String("c", value.EncodingUTF8))
	v, err := FoldR(src, func(acc, next value.Value, i int) (value.Value, error) {
		return value.String(next.AsString()+acc.AsString(), value.EncodingUTF8), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", v.AsString())
}

func TestHashMapDuplicateKeyOverwritesKeepsOrder(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2), value.Int(3))
	v, err := HashMap(src, func(e value.Value, i int) (string, value.Value, error) {
		if e.AsInt() == 3 {
			return "a", value.Int(99), nil
		}
		return "a", value.Int(e.AsInt()), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.HashKeys())
	got, _ := v.HashGet("a")
	assert.Equal(t, int64(99), got.AsInt())
}

func TestOperatorPropagatesBodyError(t *testing.T) {
	src := newList(SourceList, value.Int(1), value.Int(2))
	boom := assertErr{}
	_, err := Map(src, func(e value.Value, i int) (value.Value, error) {
		if i == 1 {
			return value.Nothing(), boom
		}
		return e, nil
	})
	assert.ErrorIs(t, err, boom)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
