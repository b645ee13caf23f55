package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProgram struct{ id Identity }

func (p stubProgram) ID() Identity { return p.id }

func TestObjectDestructorRunsOnceAtScopeZero(t *testing.T) {
	runs := 0
	v := NewObject("Test", 1, stubProgram{id: NewIdentity()}, func(self *ObjectPayload) {
		runs++
	})
	obj := v.ObjectPayload()
	obj.AcquireScope()
	obj.ReleaseScope()
	assert.Equal(t, 0, runs, "destructor must not run while scope count is still positive")
	assert.Equal(t, ObjectActive, obj.Status())

	obj.ReleaseScope()
	assert.Equal(t, 1, runs)
	assert.Equal(t, ObjectDeleted, obj.Status())

	obj.ReleaseScope()
	assert.Equal(t, 1, runs, "destructor runs exactly once even if released again")
}

func TestObjectMemberAccessFailsAfterDelete(t *testing.T) {
	v := NewObject("Test", 1, stubProgram{id: NewIdentity()}, nil)
	obj := v.ObjectPayload()
	assert.NoError(t, obj.SetMember("x", Int(1)))
	obj.ReleaseScope()

	_, err := obj.GetMember("x")
	assert.ErrorIs(t, err, ErrObjectDeleted)
	assert.Error(t, obj.SetMember("x", Int(2)))
}

func TestWeakRefResolvesUntilDeleted(t *testing.T) {
	v := NewObject("Test", 1, stubProgram{id: NewIdentity()}, nil)
	weak := WeakRef(v)

	resolved, ok := weak.Resolve()
	assert.True(t, ok)
	assert.Equal(t, KindObject, resolved.Kind())

	v.ObjectPayload().ReleaseScope()
	_, ok = weak.Resolve()
	assert.False(t, ok)
}
