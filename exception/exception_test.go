package exception

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qorelang/qcore/value"
)

func TestRethrowSharesOriginal(t *testing.T) {
	e := System("TEST-ERROR", "boom", value.Nothing())
	r := Rethrow(e, "file.q:10")
	assert.Same(t, e, r)
	assert.Equal(t, FrameRethrow, r.CallStack[0].FrameKind)
}

func TestSinkRaiseChainsPrevious(t *testing.T) {
	s := NewSink()
	first := System("FIRST", "one", value.Nothing())
	second := System("SECOND", "two", value.Nothing())
	s.Raise(first)
	s.Raise(second)

	assert.Same(t, second, s.Current())
	assert.Same(t, first, s.Current().Next)
}

func TestSinkAssimilateAppendsAfterOwnChain(t *testing.T) {
	a := NewSink()
	a.Raise(System("A", "a", value.Nothing()))

	b := NewSink()
	b.Raise(System("B", "b", value.Nothing()))

	a.Assimilate(b)

	assert.Equal(t, "A", a.Current().Err)
	assert.Equal(t, "B", a.Current().Next.Err)
	assert.Nil(t, b.Current())
}

func TestUnwrapEnablesErrorsIs(t *testing.T) {
	cause := System("CAUSE", "root", value.Nothing())
	wrapped := Wrapf(cause, "WRAP", "context: %s", "extra")
	assert.True(t, errors.Is(wrapped, cause))
}
