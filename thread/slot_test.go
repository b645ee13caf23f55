package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qorelang/qcore/value"
)

func TestSpawnReusesAvailableSlot(t *testing.T) {
	table := NewTable(4)
	s1, err := table.Spawn(nil)
	require.NoError(t, err)
	id1 := s1.ID()
	s1.Exit()

	s2, err := table.Spawn(nil)
	require.NoError(t, err)
	assert.Equal(t, id1, s2.ID())
}

func TestLocalScopeShadowing(t *testing.T) {
	s := &Slot{}
	s.PushLocalScope()
	s.DeclareLocal("x", value.Int(1))
	s.PushLocalScope()
	s.DeclareLocal("x", value.Int(2))

	cell, ok := s.ResolveLocal("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), cell.AsInt())

	s.PopLocalScope()
	cell, ok = s.ResolveLocal("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), cell.AsInt())
}

func TestCancelPendingObservedAtYieldPoint(t *testing.T) {
	s := &Slot{}
	assert.False(t, s.CancelPending())
	s.RequestCancel()
	assert.True(t, s.CancelPending())
}

type stubResource struct{ released bool }

func (r *stubResource) Kind() string   { return "STUB" }
func (r *stubResource) Release() error { r.released = true; return nil }

func TestExitReleasesLeftoverResources(t *testing.T) {
	s := &Slot{}
	r := &stubResource{}
	s.Track(r)
	excs := s.Exit()
	assert.True(t, r.released)
	require.Len(t, excs, 1)
	assert.Equal(t, "STUB-ERROR", excs[0].Err)
}
