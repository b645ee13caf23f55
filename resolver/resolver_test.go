package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constDecl(name string, n int) *ConstantDecl {
	return &ConstantDecl{
		Name: name,
		Init: func(resolve func(string) (interface{}, error)) (interface{}, error) {
			return n, nil
		},
	}
}

func TestCommitPromotesPendingClass(t *testing.T) {
	r := NewResolver()
	s := r.BeginParse()
	require.NoError(t, r.Root.DeclareClass(NewClass("Widget")))

	s.ResolveConstants()
	errs := s.Commit()
	assert.Empty(t, errs)

	_, ok := r.Root.ResolveClass("Widget")
	assert.True(t, ok)
}

func TestDuplicateClassNameFailsPass1(t *testing.T) {
	r := NewResolver()
	s := r.BeginParse()
	require.NoError(t, r.Root.DeclareClass(NewClass("Widget")))
	err := r.Root.DeclareClass(NewClass("Widget"))
	assert.Error(t, err)
	s.Rollback()

	_, ok := r.Root.ResolveClass("Widget")
	assert.False(t, ok, "rollback must discard the first pending declaration too")
}

func TestRollbackLeavesCommittedStateUnchanged(t *testing.T) {
	r := NewResolver()

	s1 := r.BeginParse()
	require.NoError(t, r.Root.DeclareClass(NewClass("Base")))
	s1.ResolveConstants()
	require.Empty(t, s1.Commit())

	s2 := r.BeginParse()
	require.NoError(t, r.Root.DeclareClass(NewClass("Other")))
	s2.Fail(nil) // simulate an accumulated parse exception from elsewhere
	s2.Commit()

	_, ok := r.Root.ResolveClass("Base")
	assert.True(t, ok)
	_, ok = r.Root.ResolveClass("Other")
	assert.False(t, ok)
}

func TestConstantCycleDetected(t *testing.T) {
	r := NewResolver()
	s := r.BeginParse()

	require.NoError(t, r.Root.DeclareConstant(&ConstantDecl{
		Name: "A",
		Init: func(resolve func(string) (interface{}, error)) (interface{}, error) {
			return resolve("B")
		},
	}))
	require.NoError(t, r.Root.DeclareConstant(&ConstantDecl{
		Name: "B",
		Init: func(resolve func(string) (interface{}, error)) (interface{}, error) {
			return resolve("A")
		},
	}))

	s.ResolveConstants()
	assert.True(t, s.Failed())
	errs := s.Commit()
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Err, "CONSTANT-CYCLE")
}

func TestConstantDependencyResolvesInOrder(t *testing.T) {
	r := NewResolver()
	s := r.BeginParse()

	require.NoError(t, r.Root.DeclareConstant(constDecl("Base", 10)))
	require.NoError(t, r.Root.DeclareConstant(&ConstantDecl{
		Name: "Derived",
		Init: func(resolve func(string) (interface{}, error)) (interface{}, error) {
			base, err := resolve("Base")
			if err != nil {
				return nil, err
			}
			return base.(int) + 5, nil
		},
	}))

	s.ResolveConstants()
	errs := s.Commit()
	require.Empty(t, errs)
}

func TestClassLinearizationDiamond(t *testing.T) {
	root := NewClass("Root")
	left := NewClass("Left")
	left.Parents = []*Class{root}
	right := NewClass("Right")
	right.Parents = []*Class{root}
	bottom := NewClass("Bottom")
	bottom.Parents = []*Class{left, right}

	mro, err := bottom.Linearize()
	require.NoError(t, err)

	names := make([]string, len(mro))
	for i, c := range mro {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Bottom", "Left", "Right", "Root"}, names)
}

func TestResolveMemberPrefersMostDerived(t *testing.T) {
	base := NewClass("Base")
	base.Methods["greet"] = &Method{Name: "greet", ClassName: "Base"}
	derived := NewClass("Derived")
	derived.Parents = []*Class{base}
	derived.Methods["greet"] = &Method{Name: "greet", ClassName: "Derived"}

	m, owner, ok := derived.ResolveMember("greet")
	require.True(t, ok)
	assert.Equal(t, "Derived", owner.Name)
	assert.Equal(t, "Derived", m.ClassName)

	m, owner, ok = derived.ResolveInBase("Base", "greet")
	require.True(t, ok)
	assert.Equal(t, "Base", owner.Name)
	assert.Equal(t, "Base", m.ClassName)
}

func TestResolveScopedWalksPrefix(t *testing.T) {
	root := NewRootNamespace()
	child, err := root.DeclareChildNamespace("Net")
	require.NoError(t, err)
	require.NoError(t, child.DeclareClass(NewClass("Socket")))
	child.Commit()
	root.children["Net"] = child

	c, ok := ResolveScoped(root, []string{"Net", "Socket"})
	require.True(t, ok)
	assert.Equal(t, "Socket", c.Name)
}
