/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builder.go
Description: The recursive type builder. Walks a generic value tree bottom-up, pooling
sibling values that occupy the same structural position into one column, classifying
mappings as records or tables by the field threshold, homogenizing sequences, and
dispatching scalar columns to the statistics aggregator and pattern synthesizer.
*/

package analyzer

import (
	"context"

	"github.com/kleascm/shapely/pkg/config"
	"github.com/kleascm/shapely/pkg/pattern"
	"github.com/kleascm/shapely/pkg/stats"
	"github.com/kleascm/shapely/pkg/types"
	"github.com/kleascm/shapely/pkg/values"
)

// builder carries the per-run state of one build pass.
type builder struct {
	ctx      context.Context
	policy   *config.Thresholds
	synth    *pattern.Synthesizer
	progress Progress
}

// build produces the raw Type tree for one input root.
func (b *builder) build(root values.Value) (*types.Type, error) {
	return b.buildSample([]values.Value{root})
}

// buildSample summarizes one column: the pooled values observed at a single
// structural position across repetitions.
func (b *builder) buildSample(sample []values.Value) (*types.Type, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	b.update(len(sample))

	var (
		maps    []*values.Map
		seqs    []*values.Seq
		tups    []*values.Tup
		scalars []values.Value
		nulls   int
	)
	for _, v := range sample {
		switch val := v.(type) {
		case *values.Map:
			maps = append(maps, val)
		case *values.Seq:
			seqs = append(seqs, val)
		case *values.Tup:
			tups = append(tups, val)
		case values.Null:
			nulls++
		default:
			scalars = append(scalars, v)
		}
	}

	total := len(sample)
	switch {
	case total == 0:
		return types.NewEmpty(), nil
	case float64(nulls)/float64(total) > b.policy.NullThreshold:
		b.update(skippedNodes(sample))
		return types.NewValue(total), nil
	case len(maps) == total-nulls && len(maps) > 0:
		return b.buildDict(maps, nulls)
	case len(tups) == total-nulls && len(tups) > 0:
		return b.buildTuple(tups, nulls)
	case len(seqs) == total-nulls && len(seqs) > 0:
		return b.buildList(seqs, nulls)
	case len(scalars) == total-nulls && len(scalars) > 0:
		return b.buildScalarColumn(scalars, nulls)
	}
	b.update(skippedNodes(sample))
	return types.NewValue(total), nil
}

// skippedNodes counts the descendants of a sample that a value fallback
// summarizes without visiting, keeping the pass total exact.
func skippedNodes(sample []values.Value) int {
	n := 0
	for _, v := range sample {
		n += values.Count(v) - 1
	}
	return n
}

// buildDict classifies a pooled sample of mappings as a record (literal
// fields, each possibly optional) or a table (generalized key and value
// columns), driven by the distinct key count against the field threshold.
func (b *builder) buildDict(maps []*values.Map, nulls int) (*types.Type, error) {
	keyCounter := stats.NewCounter()
	allScalarKeys := true
	sizes := make([]int, len(maps))
	for i, m := range maps {
		sizes[i] = len(m.Pairs)
		for _, p := range m.Pairs {
			if values.IsScalar(p.Key) {
				keyCounter.Add(values.Key(p.Key), 1)
			} else {
				allScalarKeys = false
			}
		}
	}
	lengths := stats.FromInts(sizes)
	lengths.NullCount = nulls
	lengths.Count += nulls

	if allScalarKeys && keyCounter.Distinct() <= b.policy.FieldThreshold {
		return b.buildRecord(maps, keyCounter, lengths)
	}
	return b.buildTable(maps, lengths)
}

func (b *builder) buildRecord(maps []*values.Map, keyCounter *stats.Counter, lengths *stats.Stats) (*types.Type, error) {
	// Key nodes never join a pooled sample on the record path, so they are
	// accounted here to keep the pass total exact.
	for _, m := range maps {
		b.update(len(m.Pairs))
	}
	fields := make([]types.Field, 0, keyCounter.Distinct())
	for _, key := range keyCounter.Keys() {
		var vals []values.Value
		present := 0
		for _, m := range maps {
			found := false
			for _, p := range m.Pairs {
				if values.IsScalar(p.Key) && values.Key(p.Key) == key {
					vals = append(vals, p.Val)
					found = true
				}
			}
			if found {
				present++
			}
		}
		value, err := b.buildSample(vals)
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Field{
			Literal:  key,
			Count:    keyCounter.Get(key),
			Optional: present < len(maps),
			Value:    value,
		})
	}
	return &types.Type{Kind: types.KindDict, Fields: fields, Lengths: lengths}, nil
}

func (b *builder) buildTable(maps []*values.Map, lengths *stats.Stats) (*types.Type, error) {
	var keys, vals []values.Value
	for _, m := range maps {
		for _, p := range m.Pairs {
			keys = append(keys, p.Key)
			vals = append(vals, p.Val)
		}
	}
	keyType, err := b.buildSample(keys)
	if err != nil {
		return nil, err
	}
	valType, err := b.buildSample(vals)
	if err != nil {
		return nil, err
	}
	return &types.Type{
		Kind:    types.KindDict,
		IsTable: true,
		Fields:  []types.Field{{KeyType: keyType, Count: len(keys), Value: valType}},
		Lengths: lengths,
	}, nil
}

// buildList homogenizes a pooled sample of sequences into one element
// column. A sample of equal-length short lists that outnumbers its own
// width is promoted to a tuple: table-like input from formats without a
// native tuple kind.
func (b *builder) buildList(seqs []*values.Seq, nulls int) (*types.Type, error) {
	if tups, ok := b.tupleLike(seqs); ok {
		return b.buildTuple(tups, nulls)
	}
	sizes := make([]int, len(seqs))
	var items []values.Value
	for i, s := range seqs {
		sizes[i] = len(s.Items)
		items = append(items, s.Items...)
	}
	lengths := stats.FromInts(sizes)
	lengths.NullCount = nulls
	lengths.Count += nulls
	elem, err := b.buildSample(items)
	if err != nil {
		return nil, err
	}
	return &types.Type{Kind: types.KindList, Elem: elem, Lengths: lengths}, nil
}

func (b *builder) tupleLike(seqs []*values.Seq) ([]*values.Tup, bool) {
	if len(seqs) == 0 {
		return nil, false
	}
	width := len(seqs[0].Items)
	if width == 0 || width > b.policy.FieldThreshold || len(seqs) <= width {
		return nil, false
	}
	tups := make([]*values.Tup, len(seqs))
	for i, s := range seqs {
		if len(s.Items) != width {
			return nil, false
		}
		tups[i] = &values.Tup{Items: s.Items}
	}
	return tups, true
}

// buildTuple builds one column per position. Positions beyond a shorter
// tuple's arity simply contribute fewer samples to their column.
func (b *builder) buildTuple(tups []*values.Tup, nulls int) (*types.Type, error) {
	arity := 0
	sizes := make([]int, len(tups))
	for i, t := range tups {
		sizes[i] = len(t.Items)
		if len(t.Items) > arity {
			arity = len(t.Items)
		}
	}
	lengths := stats.FromInts(sizes)
	lengths.NullCount = nulls
	lengths.Count += nulls
	cols := make([]*types.Type, arity)
	for i := 0; i < arity; i++ {
		var col []values.Value
		for _, t := range tups {
			if i < len(t.Items) {
				col = append(col, t.Items[i])
			}
		}
		colType, err := b.buildSample(col)
		if err != nil {
			return nil, err
		}
		cols[i] = colType
	}
	return &types.Type{Kind: types.KindTuple, Cols: cols, Lengths: lengths}, nil
}

// buildScalarColumn resolves a pooled scalar column, widening through the
// numeric tower (bool ⊂ int ⊂ float) and handing strings to the pattern
// synthesizer. Mixed incompatible kinds degrade to the value fallback.
func (b *builder) buildScalarColumn(scalars []values.Value, nulls int) (*types.Type, error) {
	var bools, ints, floats, strs int
	for _, v := range scalars {
		switch v.(type) {
		case values.Bool:
			bools++
		case values.Int:
			ints++
		case values.Float:
			floats++
		case values.Str:
			strs++
		}
	}
	n := len(scalars)
	var result *types.Type
	switch {
	case bools == n:
		agg := b.newAggregator()
		for _, v := range scalars {
			agg.Observe(values.Key(v))
		}
		result = &types.Type{Kind: types.KindBool, Values: agg.Finalize()}
	case ints == n:
		agg := b.newAggregator()
		for _, v := range scalars {
			agg.Observe(values.Key(v))
		}
		result = b.synth.CheckTimestamp(&types.Type{Kind: types.KindInt, Values: agg.Finalize()})
	case ints+floats == n:
		agg := b.newAggregator()
		for _, v := range scalars {
			switch val := v.(type) {
			case values.Int:
				agg.Observe(float64(val))
			case values.Float:
				agg.Observe(float64(val))
			}
		}
		result = b.synth.CheckTimestamp(&types.Type{Kind: types.KindFloat, Values: agg.Finalize()})
	case strs == n:
		counter := stats.NewCounter()
		for _, v := range scalars {
			counter.Add(values.Key(v), 1)
		}
		result = b.synth.MatchStrings(counter)
	default:
		return types.NewValue(n + nulls), nil
	}
	if nulls > 0 {
		attachNulls(result, nulls)
	}
	return result, nil
}

// attachNulls records discounted null observations on the node's stats.
func attachNulls(t *types.Type, nulls int) {
	switch {
	case t.Values != nil:
		t.Values.NullCount += nulls
		t.Values.Count += nulls
	case t.Inner != nil && t.Inner.Values != nil:
		t.Inner.Values.NullCount += nulls
		t.Inner.Values.Count += nulls
	}
}

// newAggregator binds a scalar-column aggregator to the policy's
// distinct-value cap and sample bound.
func (b *builder) newAggregator() *stats.Aggregator {
	return stats.NewAggregator(b.policy.UniqueCap, b.policy.SampleSize)
}

func (b *builder) update(n int) {
	if b.progress != nil {
		b.progress.Update(n)
	}
}
