/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Streaming statistics for scalar columns. The Aggregator folds observed
values (plus null/empty/bad tallies) into an immutable Stats record carrying exact
rank-based quartiles, a uniqueness flag, and a bounded most/least-frequent sample.
Distinct-value tracking is capped; past the cap min/max stay exact while quartiles
and uniqueness degrade to documented approximations.
*/

package stats

import (
	"sort"

	"github.com/kleascm/shapely/pkg/values"
)

// Freq is one entry of the bounded frequency sample.
type Freq struct {
	Value any
	Count int
}

// Stats is the immutable summary produced by an Aggregator. Count covers
// every observation, including the ones tallied as bad, empty, or null;
// Min through Max describe only the successfully observed values.
type Stats struct {
	Count      int
	BadCount   int
	EmptyCount int
	NullCount  int

	Min, Q1, Median, Q3, Max any

	// Unique is true when every observed value was distinct. Approx marks
	// stats computed after the distinct-value cap was exceeded.
	Unique bool
	Approx bool

	Sample []Freq

	counter *Counter // retained so merged stats recompute exact quartiles
}

// Aggregator incrementally folds a stream of scalar values of one general
// kind. It is not safe for concurrent use.
type Aggregator struct {
	counter    *Counter
	bad        int
	empty      int
	null       int
	cap        int
	sampleSize int

	// Overflow state: once the counter holds cap distinct keys, unseen
	// values are only reflected in count/min/max.
	overflow     bool
	overflowN    int
	overflowMin  any
	overflowMax  any
	dupSeen      bool
}

// NewAggregator returns an Aggregator bounded to cap distinct tracked
// values (0 means unlimited) and sampleSize most/least-frequent entries.
func NewAggregator(cap, sampleSize int) *Aggregator {
	if sampleSize <= 0 {
		sampleSize = 10
	}
	return &Aggregator{counter: NewCounter(), cap: cap, sampleSize: sampleSize}
}

// Observe folds one occurrence of v.
func (a *Aggregator) Observe(v any) {
	a.ObserveN(v, 1)
}

// ObserveN folds n occurrences of v.
func (a *Aggregator) ObserveN(v any, n int) {
	if a.counter.Has(v) {
		a.dupSeen = a.dupSeen || a.counter.Get(v)+n > 1
		a.counter.Add(v, n)
		return
	}
	if a.cap > 0 && a.counter.Distinct() >= a.cap {
		a.overflow = true
		a.overflowN += n
		if a.overflowMin == nil || values.Less(v, a.overflowMin) {
			a.overflowMin = v
		}
		if a.overflowMax == nil || values.Less(a.overflowMax, v) {
			a.overflowMax = v
		}
		return
	}
	a.dupSeen = a.dupSeen || n > 1
	a.counter.Add(v, n)
}

// ObserveNull tallies n null observations without touching min/max.
func (a *Aggregator) ObserveNull(n int) { a.null += n }

// ObserveBad tallies n observations that failed to match the column's
// accepted representation.
func (a *Aggregator) ObserveBad(n int) { a.bad += n }

// ObserveEmpty tallies n blank observations discounted from analysis.
func (a *Aggregator) ObserveEmpty(n int) { a.empty += n }

// Finalize produces the immutable Stats for everything observed so far.
func (a *Aggregator) Finalize() *Stats {
	s := fromCounter(a.counter, a.sampleSize)
	s.Count += a.bad + a.empty + a.null + a.overflowN
	s.BadCount = a.bad
	s.EmptyCount = a.empty
	s.NullCount = a.null
	if a.overflow {
		s.Approx = true
		s.Unique = !a.dupSeen
		if a.overflowMin != nil && (s.Min == nil || values.Less(a.overflowMin, s.Min)) {
			s.Min = a.overflowMin
		}
		if a.overflowMax != nil && (s.Max == nil || values.Less(s.Max, a.overflowMax)) {
			s.Max = a.overflowMax
		}
	}
	return s
}

// FromCounter computes Stats directly from an already-populated counter.
func FromCounter(c *Counter) *Stats {
	return fromCounter(c, 10)
}

// FromCounterWith computes Stats from an already-populated counter under a
// distinct-value cap and sample bound. A counter past the cap is replayed
// through a bounded Aggregator in key order: min and max stay exact while
// quartiles and uniqueness degrade the same way streaming aggregation
// degrades them.
func FromCounterWith(c *Counter, cap, sampleSize int) *Stats {
	if sampleSize <= 0 {
		sampleSize = 10
	}
	if cap <= 0 || c.Distinct() <= cap {
		return fromCounter(c, sampleSize)
	}
	a := NewAggregator(cap, sampleSize)
	for _, k := range c.Keys() {
		a.ObserveN(k, c.Get(k))
	}
	return a.Finalize()
}

// FromLengths computes Stats over the lengths of the string keys of c,
// weighted by their counts.
func FromLengths(c *Counter) *Stats {
	lengths := NewCounter()
	c.Each(func(v any, n int) {
		if s, ok := v.(string); ok {
			lengths.Add(int64(len([]rune(s))), n)
		}
	})
	return FromCounter(lengths)
}

// FromInts computes Stats over a plain slice of ints (container lengths).
func FromInts(ns []int) *Stats {
	c := NewCounter()
	for _, n := range ns {
		c.Add(int64(n), 1)
	}
	return FromCounter(c)
}

// fromCounter implements the rank-based quartile walk: for a population of
// N weighted keys in ascending order, min/q1/median/q3 sit at cumulative
// ranks 0, N/4, N/2, and 3N/4, and max is the last key. Duplicate values
// occupy adjacent ranks, so heavy keys can supply several quartiles.
func fromCounter(c *Counter, sampleSize int) *Stats {
	s := &Stats{counter: c, Count: c.Total()}
	if c.Total() == 0 {
		return s
	}
	keys := c.Keys()
	card := c.Total()
	targets := [4]int{0, card / 4, card / 2, 3 * card / 4}
	summary := make([]any, 0, 5)
	index := 0
walk:
	for _, key := range keys {
		for index >= targets[len(summary)] {
			summary = append(summary, key)
			if len(summary) == len(targets) {
				summary = append(summary, keys[len(keys)-1])
				break walk
			}
		}
		index += c.Get(key)
	}
	for len(summary) < 5 {
		summary = append(summary, keys[len(keys)-1])
	}
	s.Min, s.Q1, s.Median, s.Q3, s.Max = summary[0], summary[1], summary[2], summary[3], summary[4]

	s.Unique = true
	for _, k := range keys {
		if c.Get(k) > 1 {
			s.Unique = false
			break
		}
	}
	s.Sample = boundedSample(c, sampleSize)
	return s
}

// boundedSample keeps the sampleSize most frequent and sampleSize least
// frequent entries, discarding the middle of large distributions.
func boundedSample(c *Counter, sampleSize int) []Freq {
	entries := make([]Freq, 0, c.Distinct())
	c.Each(func(v any, n int) {
		entries = append(entries, Freq{Value: v, Count: n})
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if len(entries) <= 2*sampleSize {
		return entries
	}
	out := make([]Freq, 0, 2*sampleSize)
	out = append(out, entries[:sampleSize]...)
	out = append(out, entries[len(entries)-sampleSize:]...)
	return out
}

// Counter exposes the retained value counter, or nil when the stats were
// produced by a lossy merge.
func (s *Stats) Counter() *Counter {
	return s.counter
}

// Merge combines two Stats records into a fresh one. When both sides
// retain their counters the quartiles of the union are exact; otherwise
// the result keeps exact min/max and approximate quartiles.
func (s *Stats) Merge(other *Stats) *Stats {
	if s == nil {
		return other
	}
	if other == nil {
		return s
	}
	var out *Stats
	if s.counter != nil && other.counter != nil {
		merged := s.counter.Clone()
		merged.Merge(other.counter)
		out = fromCounter(merged, maxInt(len(s.Sample), len(other.Sample))/2+1)
		// Capped inputs hold exact min/max outside their counters.
		out.Min = minOf(out.Min, minOf(s.Min, other.Min))
		out.Max = maxOf(out.Max, maxOf(s.Max, other.Max))
	} else {
		out = &Stats{Approx: true}
		out.Min = minOf(s.Min, other.Min)
		out.Max = maxOf(s.Max, other.Max)
		out.Unique = s.Unique && other.Unique
	}
	out.Count = s.Count + other.Count
	out.BadCount = s.BadCount + other.BadCount
	out.EmptyCount = s.EmptyCount + other.EmptyCount
	out.NullCount = s.NullCount + other.NullCount
	out.Approx = out.Approx || s.Approx || other.Approx
	return out
}

// WidenToFloat converts a Stats over int64 keys into one over float64
// keys, used when an integer column is unified with a float column.
func (s *Stats) WidenToFloat() *Stats {
	if s == nil || s.counter == nil {
		return s
	}
	widened := s.counter.Map(func(v any) any {
		if i, ok := v.(int64); ok {
			return float64(i)
		}
		return v
	})
	out := fromCounter(widened, 10)
	out.Count = s.Count
	out.BadCount = s.BadCount
	out.EmptyCount = s.EmptyCount
	out.NullCount = s.NullCount
	out.Approx = s.Approx
	return out
}

func minOf(a, b any) any {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if values.Less(b, a) {
		return b
	}
	return a
}

func maxOf(a, b any) any {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if values.Less(a, b) {
		return b
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
