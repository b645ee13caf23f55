package regexutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCachesByKey(t *testing.T) {
	p1, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	p2, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	p3, err := Compile(`\d+`, Options{CaseInsensitive: true})
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
}

func TestMatch(t *testing.T) {
	p, err := Compile(`^[A-Z]+$`, Options{})
	require.NoError(t, err)
	assert.True(t, p.Match("ABC"))
	assert.False(t, p.Match("abc"))
}

func TestExtractSubstringsSingle(t *testing.T) {
	p, err := Compile(`(\w+)@(\w+)`, Options{})
	require.NoError(t, err)
	groups, present := p.ExtractSubstrings("user@host")
	require.Equal(t, []string{"user", "host"}, groups)
	assert.Equal(t, []bool{true, true}, present)
}

func TestExtractSubstringsUnmatchedGroup(t *testing.T) {
	p, err := Compile(`(a)|(b)`, Options{})
	require.NoError(t, err)
	groups, present := p.ExtractSubstrings("b")
	require.Len(t, groups, 2)
	assert.False(t, present[0])
	assert.True(t, present[1])
}

func TestSubstituteFirstOnly(t *testing.T) {
	p, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	out := p.Substitute("a1 b2 c3", "N")
	assert.Equal(t, "aN b2 c3", out)
}

func TestSubstituteGlobal(t *testing.T) {
	p, err := Compile(`\d+`, Options{Global: true})
	require.NoError(t, err)
	out := p.Substitute("a1 b2 c3", "N")
	assert.Equal(t, "aN bN cN", out)
}

func TestSubstituteBackreference(t *testing.T) {
	p, err := Compile(`(\w+)@(\w+)`, Options{})
	require.NoError(t, err)
	out := p.Substitute("user@host", `$2!$1`)
	assert.Equal(t, "host!user", out)
}

func TestSubstituteLiteralDollar(t *testing.T) {
	p, err := Compile(`x`, Options{})
	require.NoError(t, err)
	out := p.Substitute("x", `\$1`)
	assert.Equal(t, "$1", out)
}

func TestTransliterationBasicRange(t *testing.T) {
	ranges := ParseTransliteration("a-z", "A-Z")
	out := Apply(ranges, "hello World")
	assert.Equal(t, "HELLO WORLD", out)
}

func TestTransliterationDeletesWhenTargetShorter(t *testing.T) {
	ranges := ParseTransliteration("abc", "x")
	out := Apply(ranges, "abcdef")
	assert.Equal(t, "xdef", out)
}

func TestTransliterationDeletesWhenTargetEmpty(t *testing.T) {
	ranges := ParseTransliteration("aeiou", "")
	out := Apply(ranges, "hello world")
	assert.Equal(t, "hll wrld", out)
}
