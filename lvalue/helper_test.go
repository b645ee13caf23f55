package lvalue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qorelang/qcore/value"
)

func TestCellAssignReplacesValue(t *testing.T) {
	cell := NewCell(value.Int(1))
	h := ForCell(1, cell)
	defer h.Close()

	cur, err := h.CurrentValue()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cur.AsInt())

	require.NoError(t, h.Assign(value.Int(2)))
	cur, err = h.CurrentValue()
	require.NoError(t, err)
	assert.Equal(t, int64(2), cur.AsInt())
}

func TestPlusEqualsBigintFastPath(t *testing.T) {
	cell := NewCell(value.Int(10))
	h := ForCell(1, cell)
	defer h.Close()

	next, err := h.PlusEqualsBigint(5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), next.AsInt())
}

type stubProgram struct{ id value.Identity }

func (p stubProgram) ID() value.Identity { return p.id }

func TestObjectMemberLockReentrantSameThread(t *testing.T) {
	obj := value.NewObject("T", 1, stubProgram{id: value.NewIdentity()}, nil).ObjectPayload()

	h1, err := ForObjectMember(7, obj, "x")
	require.NoError(t, err)
	h2, err := ForObjectMember(7, obj, "y")
	require.NoError(t, err)

	require.NoError(t, h1.Assign(value.Int(1)))
	require.NoError(t, h2.Assign(value.Int(2)))

	h2.Close()
	h1.Close()

	v, _ := obj.GetMember("x")
	assert.Equal(t, int64(1), v.AsInt())
}

func TestObjectMemberLockExcludesOtherThread(t *testing.T) {
	obj := value.NewObject("T", 1, stubProgram{id: value.NewIdentity()}, nil).ObjectPayload()

	h1, err := ForObjectMember(1, obj, "x")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	acquired := make(chan struct{})
	go func() {
		defer wg.Done()
		h2, err := ForObjectMember(2, obj, "x")
		require.NoError(t, err)
		close(acquired)
		h2.Close()
	}()

	select {
	case <-acquired:
		t.Fatal("second thread should not acquire the lock while the first holds it")
	default:
	}

	h1.Close()
	wg.Wait()
}
