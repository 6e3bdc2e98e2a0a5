/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: counter.go
Description: Weighted multiset over comparable scalar keys. Backs the statistics
aggregator and the pattern synthesizer, which both operate on value→count maps rather
than raw value slices so repeated observations cost one entry.
*/

package stats

import (
	"sort"

	"github.com/kleascm/shapely/pkg/values"
)

// Counter is a weighted multiset. Keys must be comparable scalar values of
// one general kind (int64, float64, string, bool, or time.Time).
type Counter struct {
	counts map[any]int
	total  int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[any]int)}
}

// Add folds n occurrences of v into the counter.
func (c *Counter) Add(v any, n int) {
	c.counts[v] += n
	c.total += n
}

// Get returns the count recorded for v.
func (c *Counter) Get(v any) int {
	return c.counts[v]
}

// Has reports whether v has been observed at least once.
func (c *Counter) Has(v any) bool {
	_, ok := c.counts[v]
	return ok
}

// Remove deletes v entirely, returning the count it had.
func (c *Counter) Remove(v any) int {
	n := c.counts[v]
	delete(c.counts, v)
	c.total -= n
	return n
}

// Distinct returns the number of distinct keys.
func (c *Counter) Distinct() int {
	return len(c.counts)
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	return c.total
}

// Keys returns all distinct keys in ascending order.
func (c *Counter) Keys() []any {
	keys := make([]any, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return values.Less(keys[i], keys[j]) })
	return keys
}

// Each calls fn for every key/count pair in ascending key order.
func (c *Counter) Each(fn func(v any, n int)) {
	for _, k := range c.Keys() {
		fn(k, c.counts[k])
	}
}

// Merge folds every entry of other into c.
func (c *Counter) Merge(other *Counter) {
	for k, n := range other.counts {
		c.Add(k, n)
	}
}

// Map applies fn to every key, producing a new Counter. Used to widen a
// counter of int64 keys into float64 when an integer column meets a float.
func (c *Counter) Map(fn func(v any) any) *Counter {
	out := NewCounter()
	for k, n := range c.counts {
		out.Add(fn(k), n)
	}
	return out
}

// Clone returns an independent copy of the counter.
func (c *Counter) Clone() *Counter {
	out := NewCounter()
	out.Merge(c)
	return out
}
