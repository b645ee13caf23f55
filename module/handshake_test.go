package module

import (
	"testing"

	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandshake struct {
	version      APIVersion
	initCalled   bool
	nsInitCalled bool
	deleted      bool
}

func (s *stubHandshake) APIVersion() APIVersion { return s.version }
func (s *stubHandshake) Init(value.ProgramHandle) error {
	s.initCalled = true
	return nil
}
func (s *stubHandshake) NamespaceInit(*resolver.Namespace) error {
	s.nsInitCalled = true
	return nil
}
func (s *stubHandshake) ParseCommand(line string) ([]string, error) { return SplitCommand(line) }
func (s *stubHandshake) Delete() error                               { s.deleted = true; return nil }

type stubProgram struct{ id value.Identity }

func (p stubProgram) ID() value.Identity { return p.id }

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible(APIVersion{1, 2}, APIVersion{1, 1}))
	assert.False(t, Compatible(APIVersion{1, 0}, APIVersion{1, 1}))
	assert.False(t, Compatible(APIVersion{2, 0}, APIVersion{1, 0}))
}

func TestRegistryLoadRunsHandshakeAndRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	root := resolver.NewRootNamespace()
	m := &stubHandshake{version: CoreVersion}

	require.NoError(t, r.Load("mymod", m, stubProgram{id: value.NewIdentity()}, root))
	assert.True(t, m.initCalled)
	assert.True(t, m.nsInitCalled)

	err := r.Load("mymod", m, stubProgram{id: value.NewIdentity()}, root)
	assert.Error(t, err)
}

func TestRegistryLoadRejectsIncompatibleVersion(t *testing.T) {
	r := NewRegistry()
	root := resolver.NewRootNamespace()
	m := &stubHandshake{version: APIVersion{Major: 99, Minor: 0}}
	err := r.Load("toonew", m, stubProgram{id: value.NewIdentity()}, root)
	assert.Error(t, err)
}

func TestUnloadRunsDelete(t *testing.T) {
	r := NewRegistry()
	root := resolver.NewRootNamespace()
	m := &stubHandshake{version: CoreVersion}
	require.NoError(t, r.Load("mymod", m, stubProgram{id: value.NewIdentity()}, root))
	require.NoError(t, r.Unload("mymod"))
	assert.True(t, m.deleted)
	_, ok := r.Get("mymod")
	assert.False(t, ok)
}

func TestSplitCommandHandlesQuoting(t *testing.T) {
	words, err := SplitCommand(`foo 'bar baz' qux`)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar baz", "qux"}, words)
}
