/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render_test.go
Description: Tests for the textual rendering of inferred shapes. Covers scalar
leaves with ranges and the unique marker, string patterns, wrapper forms, record
and table braces with optional markers, and line wrapping of long bodies.
*/

package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/shapely/pkg/chars"
	"github.com/kleascm/shapely/pkg/stats"
)

func intLeaf(lo, hi int64, unique bool) *Type {
	return &Type{Kind: KindInt, Values: &stats.Stats{Count: 2, Min: lo, Max: hi, Unique: unique}}
}

func TestRenderScalars(t *testing.T) {
	assert.Equal(t, "int range=1..9", intLeaf(1, 9, false).String())
	assert.Equal(t, "int range=1..9*", intLeaf(1, 9, true).String())
	assert.Equal(t, "bool", (&Type{Kind: KindBool}).String())
	assert.Equal(t, "value", (&Type{Kind: KindValue}).String())
	assert.Equal(t, "", (&Type{Kind: KindEmpty}).String())

	f := &Type{Kind: KindFloat, Values: &stats.Stats{Count: 2, Min: 0.5, Max: 2.25}}
	assert.Equal(t, "float range=0.5..2.25", f.String())
}

func TestRenderDateTimeRange(t *testing.T) {
	lo := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	hi := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)
	d := &Type{Kind: KindDateTime, Values: &stats.Stats{Count: 2, Min: lo, Max: hi}}
	assert.Equal(t, "datetime range=2020-01-02 03:04:05..2021-06-07 08:09:10", d.String())
}

func TestRenderStrPattern(t *testing.T) {
	plain := &Type{Kind: KindStr}
	assert.Equal(t, "str", plain.String())

	patterned := &Type{
		Kind:    KindStr,
		Pattern: chars.Pattern{chars.DecDigit, chars.DecDigit, chars.New("-")},
		Values:  &stats.Stats{Count: 3, Unique: true},
	}
	assert.Equal(t, `str pattern="dd-"*`, patterned.String())
}

func TestRenderWrappers(t *testing.T) {
	strOf := &Type{Kind: KindStrOf, Format: "d", Inner: intLeaf(0, 99, false)}
	assert.Equal(t, "str of int range=0..99 pattern=d", strOf.String())

	numOf := &Type{Kind: KindNumOf, Format: "int", Inner: &Type{
		Kind: KindDateTime,
		Values: &stats.Stats{
			Count: 2,
			Min:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Max:   time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	assert.Equal(t, "int of datetime range=2020-01-01 00:00:00..2021-01-01 00:00:00", numOf.String())
}

func TestRenderRecord(t *testing.T) {
	rec := &Type{Kind: KindDict, Fields: []Field{
		{Literal: "age", Count: 2, Optional: true, Value: intLeaf(25, 30, false)},
		{Literal: "ok", Count: 3, Value: &Type{Kind: KindBool}},
	}}
	assert.Equal(t, `{"age"?: int range=25..30, "ok": bool}`, rec.String())
}

func TestRenderTableKey(t *testing.T) {
	table := &Type{Kind: KindDict, IsTable: true, Fields: []Field{
		{KeyType: &Type{Kind: KindStr}, Count: 100, Value: intLeaf(0, 9, false)},
	}}
	assert.Equal(t, "{<str>: int range=0..9}", table.String())
}

func TestRenderListAndTuple(t *testing.T) {
	list := &Type{Kind: KindList, Elem: intLeaf(1, 3, false)}
	assert.Equal(t, "[int range=1..3]", list.String())

	tup := &Type{Kind: KindTuple, Cols: []*Type{
		{Kind: KindStr},
		intLeaf(0, 5, false),
	}}
	assert.Equal(t, "(str, int range=0..5)", tup.String())
}

func TestRenderWrapsLongBodies(t *testing.T) {
	rec := &Type{Kind: KindDict}
	for _, name := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		rec.Fields = append(rec.Fields, Field{Literal: name, Count: 1, Value: intLeaf(0, 100000, false)})
	}
	out := rec.String()
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "{", lines[0])
	assert.Equal(t, "}", lines[len(lines)-1])
	assert.True(t, strings.HasPrefix(lines[1], `    "alpha": `))
	// All but the last field line end with a comma.
	assert.True(t, strings.HasSuffix(lines[1], ","))
	assert.False(t, strings.HasSuffix(lines[len(lines)-2], ","))
}

func TestRenderNilStatsRange(t *testing.T) {
	bare := &Type{Kind: KindInt}
	assert.Equal(t, "int range=..", bare.String())
}
