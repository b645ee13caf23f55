package main

import (
	"testing"

	"github.com/qorelang/qcore/ast"
	"github.com/qorelang/qcore/eval"
	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/thread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtureEvaluatesArithmetic(t *testing.T) {
	doc := []byte(`{
		"type": "binop", "op": "+",
		"left": {"type": "literal", "value": {"kind": "int", "i": 1}},
		"right": {"type": "literal", "value": {"kind": "int", "i": 41}}
	}`)
	root, err := LoadFixture(doc)
	require.NoError(t, err)

	table := thread.NewTable(1)
	slot, err := table.Spawn(nil)
	require.NoError(t, err)
	ctx := &eval.Context{
		Thread:   slot,
		Registry: eval.NewRegistry(),
		Root:     resolver.NewRootNamespace(),
		Classes:  make(map[string]*resolver.Class),
	}

	v, err := eval.Eval(root, ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestLoadFixtureRejectsUnknownType(t *testing.T) {
	_, err := LoadFixture([]byte(`{"type": "nonsense"}`))
	assert.Error(t, err)
}

func TestLoadFixtureImplicitAndFunctional(t *testing.T) {
	doc := []byte(`{
		"type": "functional", "op": "map",
		"source": {"type": "literal", "value": {"kind": "int", "i": 0}},
		"body": {"type": "implicit", "slot": "element"}
	}`)
	root, err := LoadFixture(doc)
	require.NoError(t, err)
	_, ok := root.(*ast.FunctionalOp)
	assert.True(t, ok)
}
