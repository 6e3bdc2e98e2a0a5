/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyzer_test.go
Description: Tests for the engine facade. Covers policy validation at
construction, the end-to-end build-then-merge pipeline, folding of multiple
sources with degradation when they cannot be reconciled, report generation,
progress accounting, and context cancellation.
*/

package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/shapely/pkg/config"
	"github.com/kleascm/shapely/pkg/types"
	"github.com/kleascm/shapely/pkg/values"
)

type recordingProgress struct {
	totals []int
	done   []int
}

func (r *recordingProgress) Reset(total int) {
	r.totals = append(r.totals, total)
	r.done = append(r.done, 0)
}

func (r *recordingProgress) Update(n int) {
	r.done[len(r.done)-1] += n
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	p := config.Default()
	p.MergeThreshold = 3
	_, err := New(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge-threshold")
}

func TestNewNilPolicyUsesDefaults(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default().FieldThreshold, a.Policy().FieldThreshold)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)

	root := &values.Seq{Items: []values.Value{
		record(pair("name", values.Str("Alice")), pair("age", values.Int(25))),
		record(pair("name", values.Str("Bob")), pair("age", values.Int(30))),
		record(pair("name", values.Str("Carol")), pair("age", values.Int(35))),
	}}

	shape, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, types.KindList, shape.Kind)
	require.True(t, shape.Elem.IsRecord())
	require.Len(t, shape.Elem.Fields, 2)
	assert.Equal(t, types.KindInt, shape.Elem.Fields[0].Value.Kind)
	assert.Equal(t, int64(25), shape.Elem.Fields[0].Value.Values.Min)
	assert.Equal(t, int64(35), shape.Elem.Fields[0].Value.Values.Max)
}

func TestAnalyzeReportsProgress(t *testing.T) {
	rec := &recordingProgress{}
	a, err := New(testPolicy(), WithProgress(rec))
	require.NoError(t, err)

	root := &values.Seq{Items: []values.Value{
		values.Int(1), values.Int(2), values.Int(3),
	}}
	_, err = a.Analyze(context.Background(), root)
	require.NoError(t, err)

	// One bar per pass: the build pass over value nodes, the merge pass
	// over type nodes. Both run to completion.
	require.Len(t, rec.totals, 2)
	assert.Equal(t, a.Measure(root), rec.totals[0])
	assert.Equal(t, rec.totals[0], rec.done[0])
	assert.Equal(t, rec.totals[1], rec.done[1])
}

func TestAnalyzeProgressCompletesEachPass(t *testing.T) {
	rec := &recordingProgress{}
	a, err := New(testPolicy(), WithProgress(rec))
	require.NoError(t, err)

	// Records of container rows: the merge pass collapses the outer record
	// into a table, and the mixed leaf kinds trigger the value fallback.
	row := func(n int64) values.Value {
		return record(pair("count", values.Int(n)), pair("tags", &values.Seq{Items: []values.Value{
			values.Str("a"), values.Int(1),
		}}))
	}
	root := record(
		pair("2024-01-01", row(1)),
		pair("2024-01-02", row(2)),
		pair("2024-01-03", row(3)),
	)
	_, err = a.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, rec.totals, 2)
	assert.Equal(t, a.Measure(root), rec.totals[0])
	assert.Equal(t, rec.totals[0], rec.done[0])
	assert.Equal(t, rec.totals[1], rec.done[1])
}

func TestAnalyzeAllFoldsCompatibleSources(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)

	first := &values.Seq{Items: []values.Value{
		record(pair("id", values.Int(1)), pair("name", values.Str("ada"))),
		record(pair("id", values.Int(2)), pair("name", values.Str("bee"))),
	}}
	second := &values.Seq{Items: []values.Value{
		record(pair("id", values.Int(9)), pair("name", values.Str("cat"))),
	}}

	shape, err := a.AnalyzeAll(context.Background(), []values.Value{first, second})
	require.NoError(t, err)
	require.Equal(t, types.KindList, shape.Kind)
	require.True(t, shape.Elem.IsRecord())

	byName := map[any]types.Field{}
	for _, f := range shape.Elem.Fields {
		byName[f.Literal] = f
	}
	assert.Equal(t, int64(1), byName["id"].Value.Values.Min)
	assert.Equal(t, int64(9), byName["id"].Value.Values.Max)
}

func TestAnalyzeAllDegradesIncompatibleSources(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)

	list := &values.Seq{Items: []values.Value{values.Int(1), values.Int(2)}}
	scalar := values.Str("loner")

	shape, err := a.AnalyzeAll(context.Background(), []values.Value{list, scalar})
	require.NoError(t, err)
	assert.Equal(t, types.KindValue, shape.Kind)
}

func TestAnalyzeAllNoSources(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)
	shape, err := a.AnalyzeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.KindEmpty, shape.Kind)
}

func TestRunProducesReport(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)

	root := &values.Seq{Items: []values.Value{values.Int(1), values.Int(2)}}
	report, err := a.Run(context.Background(), []values.Value{root})
	require.NoError(t, err)
	assert.Len(t, report.ID, 36)
	assert.Equal(t, 1, report.Sources)
	require.NotNil(t, report.Shape)
	assert.Equal(t, types.KindList, report.Shape.Kind)
	assert.False(t, report.Finished.Before(report.Started))
	assert.GreaterOrEqual(t, report.Duration(), time.Duration(0))
}

func TestRunSurfacesCancellation(t *testing.T) {
	a, err := New(testPolicy())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx, []values.Value{values.Int(1)})
	assert.ErrorIs(t, err, context.Canceled)
}
