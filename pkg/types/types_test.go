/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types_test.go
Description: Tests for the inferred type node helpers: record/table predicates,
observation counting, and clone independence.
*/

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/shapely/pkg/stats"
)

func TestRecordTablePredicates(t *testing.T) {
	rec := &Type{Kind: KindDict}
	assert.True(t, rec.IsRecord())
	assert.False(t, rec.IsTable)

	table := &Type{Kind: KindDict, IsTable: true}
	assert.False(t, table.IsRecord())

	assert.False(t, (&Type{Kind: KindList}).IsRecord())
}

func TestCountPrefersValues(t *testing.T) {
	leaf := &Type{Kind: KindInt, Values: &stats.Stats{Count: 7}}
	assert.Equal(t, 7, leaf.Count())

	container := &Type{Kind: KindList, Lengths: &stats.Stats{Count: 3}}
	assert.Equal(t, 3, container.Count())

	assert.Equal(t, 0, (&Type{Kind: KindEmpty}).Count())
}

func TestCloneIndependence(t *testing.T) {
	child := &Type{Kind: KindInt, Values: &stats.Stats{Count: 1}}
	orig := &Type{Kind: KindDict, Fields: []Field{
		{Literal: "a", Count: 1, Value: child},
	}}

	clone := orig.Clone()
	clone.Fields = append(clone.Fields, Field{Literal: "b", Count: 1})
	clone.Fields[0].Optional = true

	require.Len(t, orig.Fields, 1)
	assert.False(t, orig.Fields[0].Optional)
	// Child nodes are shared until a pass replaces them.
	assert.Same(t, child, clone.Fields[0].Value)
}

func TestNewEmptyAndNewValue(t *testing.T) {
	assert.Equal(t, KindEmpty, NewEmpty().Kind)

	v := NewValue(9)
	assert.Equal(t, KindValue, v.Kind)
	assert.Equal(t, 9, v.Count())
}
