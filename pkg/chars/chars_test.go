/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: chars_test.go
Description: Tests for character classes and positional patterns. Covers set
operations, the subset chain of the well-known digit classes, compact rendering,
and position-wise pattern union.
*/

package chars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassNewDeduplicatesAndSorts(t *testing.T) {
	c := New("cbabca")
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "[abc]", c.String())
	assert.True(t, c.Equal(New("abc")))
}

func TestClassDigitSubsetChain(t *testing.T) {
	assert.True(t, OctDigit.SubsetOf(DecDigit))
	assert.True(t, DecDigit.SubsetOf(HexDigit))
	assert.False(t, DecDigit.SubsetOf(OctDigit))
	assert.False(t, HexDigit.SubsetOf(DecDigit))
}

func TestClassIdentifierSubsetChain(t *testing.T) {
	assert.True(t, IdentFirst.SubsetOf(IdentChar))
	assert.False(t, IdentChar.SubsetOf(IdentFirst))
	assert.True(t, New("x_Y").SubsetOf(IdentFirst))
	assert.False(t, New("9a").SubsetOf(IdentFirst))
}

func TestClassAny(t *testing.T) {
	a := Any()
	assert.True(t, a.IsAny())
	assert.Equal(t, -1, a.Len())
	assert.True(t, a.Contains('ü'))
	assert.True(t, HexDigit.SubsetOf(a))
	assert.False(t, a.SubsetOf(HexDigit))
	assert.True(t, a.Union(DecDigit).IsAny())
	assert.Equal(t, ".", a.String())
}

func TestClassUnion(t *testing.T) {
	u := New("ab").Union(New("bc"))
	assert.True(t, u.Equal(New("abc")))
	assert.True(t, DecDigit.Union(New("abcdefABCDEF")).Equal(HexDigit))
}

func TestClassRange(t *testing.T) {
	c := Range('0', '7')
	assert.True(t, c.Equal(OctDigit))
}

func TestClassStringCodes(t *testing.T) {
	assert.Equal(t, "o", OctDigit.String())
	assert.Equal(t, "d", DecDigit.String())
	assert.Equal(t, "x", HexDigit.String())
	assert.Equal(t, "I", IdentFirst.String())
	assert.Equal(t, "i", IdentChar.String())
	assert.Equal(t, "-", New("-").String())
}

func TestPatternString(t *testing.T) {
	p := Pattern{DecDigit, DecDigit, New("-"), HexDigit}
	assert.Equal(t, "dd-x", p.String())
}

func TestPatternUnion(t *testing.T) {
	a := Pattern{New("a"), DecDigit}
	b := Pattern{New("b"), DecDigit}
	u, ok := a.Union(b)
	require.True(t, ok)
	assert.Equal(t, "[ab]d", u.String())

	_, ok = a.Union(Pattern{New("a")})
	assert.False(t, ok)
}
