/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: values_test.go
Description: Tests for the generic value tree. Covers the container/scalar split,
depth-first traversal with early stop, node counting, key conversion, and the
deterministic scalar ordering used for record keys and statistics.
*/

package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() Value {
	return &Map{Pairs: []Pair{
		{Key: Str("items"), Val: &Seq{Items: []Value{Int(1), Int(2)}}},
		{Key: Str("row"), Val: &Tup{Items: []Value{Str("a"), Null{}}}},
	}}
}

func TestContainerScalarSplit(t *testing.T) {
	assert.True(t, IsContainer(&Map{}))
	assert.True(t, IsContainer(&Seq{}))
	assert.True(t, IsContainer(&Tup{}))
	assert.False(t, IsContainer(Str("x")))

	assert.True(t, IsScalar(Int(1)))
	assert.True(t, IsScalar(Null{}))
	assert.False(t, IsScalar(&Seq{}))
}

func TestWalkOrderAndEarlyStop(t *testing.T) {
	var visited []Value
	Walk(sampleTree(), func(v Value) bool {
		visited = append(visited, v)
		return true
	})
	// Root, two keys, two container values, and their five scalar children.
	require.Len(t, visited, 9)
	_, ok := visited[0].(*Map)
	assert.True(t, ok)
	assert.Equal(t, Str("items"), visited[1])

	n := 0
	done := Walk(sampleTree(), func(v Value) bool {
		n++
		return n < 3
	})
	assert.False(t, done)
	assert.Equal(t, 3, n)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 9, Count(sampleTree()))
	assert.Equal(t, 1, Count(Int(5)))
}

func TestKeyConversion(t *testing.T) {
	assert.Equal(t, "x", Key(Str("x")))
	assert.Equal(t, int64(3), Key(Int(3)))
	assert.Equal(t, 1.5, Key(Float(1.5)))
	assert.Equal(t, true, Key(Bool(true)))
	assert.Nil(t, Key(Null{}))
	assert.Panics(t, func() { Key(&Seq{}) })
}

func TestLess(t *testing.T) {
	assert.True(t, Less(int64(1), int64(2)))
	assert.True(t, Less(int64(1), 1.5))
	assert.True(t, Less(0.5, int64(1)))
	assert.True(t, Less("a", "b"))
	assert.True(t, Less(false, true))
	assert.False(t, Less(true, false))

	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(1, 0, 0)
	assert.True(t, Less(early, late))

	// Mixed kinds fall back to lexical order, but stay deterministic.
	assert.Equal(t, !Less("10", int64(9)), Less(int64(9), "10"))
}
