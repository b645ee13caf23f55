package program

import (
	"testing"

	"github.com/qorelang/qcore/resolver"
	"github.com/qorelang/qcore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsDefaultsAndOverrides(t *testing.T) {
	opts, err := ParseOptions([]byte("log_level: DEBUG\n"))
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", opts.LogLevel)
	assert.Equal(t, 16, opts.ThreadCapacity)
}

func TestNewContextSeesCommittedClasses(t *testing.T) {
	p := New(DefaultOptions())

	session := p.Resolver.BeginParse()
	class := resolver.NewClass("Widget")
	require.NoError(t, p.Resolver.Root.DeclareClass(class))
	errs := session.Commit()
	require.Empty(t, errs)

	slot, err := p.Spawn()
	require.NoError(t, err)

	ctx := p.NewContext(slot)
	_, ok := ctx.Classes["Widget"]
	assert.True(t, ok)
	assert.Equal(t, p, ctx.Program)
}

func TestProgramIDIsStableProgramHandle(t *testing.T) {
	p := New(DefaultOptions())
	var handle value.ProgramHandle = p
	assert.Equal(t, p.ID(), handle.ID())
}
