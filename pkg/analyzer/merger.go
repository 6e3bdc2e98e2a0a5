/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: merger.go
Description: The merge pass. Walks a raw Type tree with an explicit worklist, collapsing
records whose field values are structurally similar containers into tables, folding
record pairs whose shared-field proportion clears the merge threshold, and unifying
non-record siblings. Merged nodes are always freshly constructed; input nodes are
never mutated.
*/

package analyzer

import (
	"math"

	"github.com/kleascm/shapely/pkg/config"
	"github.com/kleascm/shapely/pkg/pattern"
	"github.com/kleascm/shapely/pkg/stats"
	"github.com/kleascm/shapely/pkg/types"
	"github.com/kleascm/shapely/pkg/values"
)

type merger struct {
	policy   *config.Thresholds
	synth    *pattern.Synthesizer
	progress Progress
}

// frame is one worklist entry: a node to process and the slot of the fresh
// parent clone that should receive the result.
type frame struct {
	node *types.Type
	out  **types.Type
}

// run applies the merge pass once, top-down. The traversal uses an
// explicit worklist so deeply nested inputs cannot exhaust the stack, and
// every rewritten node is a fresh clone: the input tree stays valid.
func (m *merger) run(root *types.Type) *types.Type {
	var result *types.Type
	work := []frame{{node: root, out: &result}}
	for len(work) > 0 {
		fr := work[len(work)-1]
		work = work[:len(work)-1]
		node := fr.node
		switch node.Kind {
		case types.KindDict:
			if collapsed, ok := m.collapseRecord(node); ok {
				// The collapsed subtree is smaller than the original; the
				// nodes folded away still count toward the pass total.
				m.update(typeNodeCount(node) - typeNodeCount(collapsed))
				node = collapsed
			}
			clone := node.Clone()
			*fr.out = clone
			for i := range clone.Fields {
				work = append(work, frame{node: clone.Fields[i].Value, out: &clone.Fields[i].Value})
			}
		case types.KindList:
			clone := node.Clone()
			*fr.out = clone
			work = append(work, frame{node: clone.Elem, out: &clone.Elem})
		case types.KindTuple:
			clone := node.Clone()
			*fr.out = clone
			for i := range clone.Cols {
				work = append(work, frame{node: clone.Cols[i], out: &clone.Cols[i]})
			}
		default:
			*fr.out = node
		}
		m.update(1)
	}
	return result
}

// boundedStats summarizes a counter under the policy's distinct-value cap
// and sample bound.
func (m *merger) boundedStats(c *stats.Counter) *stats.Stats {
	return stats.FromCounterWith(c, m.policy.UniqueCap, m.policy.SampleSize)
}

func (m *merger) update(n int) {
	if m.progress != nil {
		m.progress.Update(n)
	}
}

// typeNodeCount counts the nodes the merge pass will visit under root:
// the root itself plus record/table values, list elements, and tuple
// columns. Wrapper inners are summarized with their leaf.
func typeNodeCount(t *types.Type) int {
	n := 1
	switch t.Kind {
	case types.KindDict:
		for _, f := range t.Fields {
			n += typeNodeCount(f.Value)
		}
	case types.KindList:
		n += typeNodeCount(t.Elem)
	case types.KindTuple:
		for _, col := range t.Cols {
			n += typeNodeCount(col)
		}
	}
	return n
}

// collapseRecord turns a record whose field values are all mutually
// mergeable containers into a table of generalized key → merged value.
// Records directly containing scalars are left alone: those are genuine
// fixed fields, not repeated rows. The fold is greedy in first-seen field
// order, which makes the (heuristic) outcome deterministic.
func (m *merger) collapseRecord(t *types.Type) (*types.Type, bool) {
	if !t.IsRecord() || len(t.Fields) < 2 {
		return nil, false
	}
	for _, f := range t.Fields {
		if !f.Value.IsContainer() {
			return nil, false
		}
	}
	acc := t.Fields[0].Value
	for _, f := range t.Fields[1:] {
		merged, ok := m.mergePair(acc, f.Value)
		if !ok {
			return nil, false
		}
		acc = merged
	}
	total := 0
	for _, f := range t.Fields {
		total += f.Count
	}
	return &types.Type{
		Kind:    types.KindDict,
		IsTable: true,
		Lengths: t.Lengths,
		Fields:  []types.Field{{KeyType: m.keyTypeFromLiterals(t.Fields), Count: total, Value: acc}},
	}, true
}

// mergePair consolidates two sibling types occupying the same container
// position: record pairs go through the merge-threshold test, everything
// else is unified unconditionally when compatible.
func (m *merger) mergePair(a, b *types.Type) (*types.Type, bool) {
	if a.IsRecord() && b.IsRecord() {
		return m.mergeRecords(a, b)
	}
	if !m.compatible(a, b) {
		return nil, false
	}
	return m.combine(a, b), true
}

// mergeRecords applies the record pair rule: with shortest the smaller
// field count, the pair merges when the number of shared compatible fields
// reaches ceil(merge_threshold * shortest). A zero-field record satisfies
// any proportion of zero and merges with anything.
func (m *merger) mergeRecords(a, b *types.Type) (*types.Type, bool) {
	if !m.recordsQualify(a, b) {
		return nil, false
	}
	return m.fieldUnion(a, b), true
}

func (m *merger) recordsQualify(a, b *types.Type) bool {
	shortest := len(a.Fields)
	if len(b.Fields) < shortest {
		shortest = len(b.Fields)
	}
	if shortest == 0 {
		return true
	}
	required := int(math.Ceil(m.policy.MergeThreshold * float64(shortest)))
	common := 0
	for _, fa := range a.Fields {
		for _, fb := range b.Fields {
			if fa.Literal == fb.Literal && m.compatible(fa.Value, fb.Value) {
				common++
				break
			}
		}
	}
	return common >= required
}

// fieldUnion builds the merged record: the union of both field sets, with
// one-sided fields marked optional and shared fields recursively combined.
func (m *merger) fieldUnion(a, b *types.Type) *types.Type {
	fields := make([]types.Field, 0, len(a.Fields)+len(b.Fields))
	seen := make(map[any]bool, len(a.Fields))
	for _, fa := range a.Fields {
		seen[fa.Literal] = true
		merged := fa
		found := false
		for _, fb := range b.Fields {
			if fb.Literal == fa.Literal {
				merged = types.Field{
					Literal:  fa.Literal,
					Count:    fa.Count + fb.Count,
					Optional: fa.Optional || fb.Optional,
					Value:    m.combine(fa.Value, fb.Value),
				}
				found = true
				break
			}
		}
		if !found {
			merged.Optional = true
		}
		fields = append(fields, merged)
	}
	for _, fb := range b.Fields {
		if !seen[fb.Literal] {
			fb.Optional = true
			fields = append(fields, fb)
		}
	}
	sortFields(fields)
	return &types.Type{
		Kind:    types.KindDict,
		Fields:  fields,
		Lengths: mergeStats(a.Lengths, b.Lengths),
	}
}

// compatible reports whether two types can share one generalized node.
// Scalar compatibility follows the numeric tower (bool ⊂ int ⊂ float);
// containers are compatible when their contents are, with record pairs
// judged by the merge-threshold rule.
func (m *merger) compatible(a, b *types.Type) bool {
	if a.Kind == types.KindEmpty || b.Kind == types.KindEmpty {
		return true
	}
	if a.Kind == types.KindValue || b.Kind == types.KindValue {
		return true
	}
	if numericKind(a.Kind) && numericKind(b.Kind) {
		return true
	}
	if stringKind(a.Kind) && stringKind(b.Kind) {
		return true
	}
	switch {
	case a.Kind == types.KindDateTime && b.Kind == types.KindDateTime:
		return true
	case a.Kind == types.KindStrOf && b.Kind == types.KindStrOf:
		return m.strOfCompatible(a, b)
	case a.Kind == types.KindNumOf && b.Kind == types.KindNumOf:
		return true
	case a.Kind == types.KindList && b.Kind == types.KindList:
		return m.compatible(a.Elem, b.Elem)
	case a.Kind == types.KindTuple && b.Kind == types.KindTuple:
		if len(a.Cols) != len(b.Cols) {
			return false
		}
		for i := range a.Cols {
			if !m.compatible(a.Cols[i], b.Cols[i]) {
				return false
			}
		}
		return true
	case a.Kind == types.KindDict && b.Kind == types.KindDict:
		switch {
		case a.IsTable && b.IsTable:
			return m.compatible(a.Fields[0].KeyType, b.Fields[0].KeyType) &&
				m.compatible(a.Fields[0].Value, b.Fields[0].Value)
		case !a.IsTable && !b.IsTable:
			return m.recordsQualify(a, b)
		case a.IsTable:
			return m.recordTableCompatible(b, a)
		default:
			return m.recordTableCompatible(a, b)
		}
	}
	return false
}

func (m *merger) recordTableCompatible(record, table *types.Type) bool {
	for _, f := range record.Fields {
		if !m.compatible(f.Value, table.Fields[0].Value) {
			return false
		}
	}
	return true
}

// strOfCompatible mirrors the representation compatibility table: integer
// representations of any base merge, ints merge into floats unless hex,
// booleans merge upward only from the 0|1 literal set, and formatted
// timestamps and durations require identical formats.
func (m *merger) strOfCompatible(a, b *types.Type) bool {
	ka, kb := a.Inner.Kind, b.Inner.Kind
	child, parent := a, b
	if scalarRank(ka) > scalarRank(kb) {
		child, parent = b, a
	}
	ck, pk := child.Inner.Kind, parent.Inner.Kind
	if child.Format == "duration" || parent.Format == "duration" {
		return child.Format == parent.Format
	}
	switch {
	case ck == types.KindBool && pk == types.KindBool:
		return child.Format == parent.Format
	case ck == types.KindBool && (pk == types.KindInt || pk == types.KindFloat):
		return child.Format == "0|1"
	case ck == types.KindInt && pk == types.KindInt:
		return true
	case ck == types.KindInt && pk == types.KindFloat:
		return child.Format != "x"
	case ck == types.KindFloat && pk == types.KindFloat:
		return true
	case ck == types.KindDateTime && pk == types.KindDateTime:
		return child.Format == parent.Format
	case ck == types.KindNumOf && pk == types.KindNumOf:
		return true
	}
	return false
}

// combine unifies two compatible types into one fresh node: statistics
// merge, numeric kinds widen, string patterns union position-wise when
// both sides carry one of equal length, and incompatible representation
// details degrade to an unclassified string.
func (m *merger) combine(a, b *types.Type) *types.Type {
	switch {
	case a.Kind == types.KindEmpty:
		return b
	case b.Kind == types.KindEmpty:
		return a
	case a.Kind == types.KindValue || b.Kind == types.KindValue:
		return types.NewValue(a.Count() + b.Count())
	}

	if numericKind(a.Kind) && numericKind(b.Kind) {
		return combineNumeric(a, b)
	}
	if stringKind(a.Kind) && stringKind(b.Kind) {
		return combineStrings(a, b)
	}

	switch {
	case a.Kind == types.KindDateTime && b.Kind == types.KindDateTime:
		out := &types.Type{Kind: types.KindDateTime, Values: mergeStats(a.Values, b.Values)}
		if a.Format == b.Format {
			out.Format = a.Format
		}
		return out
	case a.Kind == types.KindStrOf && b.Kind == types.KindStrOf:
		return m.combineStrOf(a, b)
	case a.Kind == types.KindNumOf && b.Kind == types.KindNumOf:
		format := "int"
		if a.Format == "float" || b.Format == "float" {
			format = "float"
		}
		return &types.Type{
			Kind:   types.KindNumOf,
			Inner:  m.combine(a.Inner, b.Inner),
			Format: format,
		}
	case a.Kind == types.KindList && b.Kind == types.KindList:
		return &types.Type{
			Kind:    types.KindList,
			Elem:    m.combine(a.Elem, b.Elem),
			Lengths: mergeStats(a.Lengths, b.Lengths),
		}
	case a.Kind == types.KindTuple && b.Kind == types.KindTuple && len(a.Cols) == len(b.Cols):
		cols := make([]*types.Type, len(a.Cols))
		for i := range a.Cols {
			cols[i] = m.combine(a.Cols[i], b.Cols[i])
		}
		return &types.Type{Kind: types.KindTuple, Cols: cols, Lengths: mergeStats(a.Lengths, b.Lengths)}
	case a.Kind == types.KindDict && b.Kind == types.KindDict:
		return m.combineDicts(a, b)
	}
	return types.NewValue(a.Count() + b.Count())
}

func (m *merger) combineDicts(a, b *types.Type) *types.Type {
	switch {
	case !a.IsTable && !b.IsTable:
		return m.fieldUnion(a, b)
	case a.IsTable && b.IsTable:
		return &types.Type{
			Kind:    types.KindDict,
			IsTable: true,
			Lengths: mergeStats(a.Lengths, b.Lengths),
			Fields: []types.Field{{
				KeyType: m.combine(a.Fields[0].KeyType, b.Fields[0].KeyType),
				Count:   a.Fields[0].Count + b.Fields[0].Count,
				Value:   m.combine(a.Fields[0].Value, b.Fields[0].Value),
			}},
		}
	case a.IsTable:
		return m.foldRecordIntoTable(b, a)
	default:
		return m.foldRecordIntoTable(a, b)
	}
}

// foldRecordIntoTable generalizes a record's literal keys into a table's
// key column and unifies its field values into the table's value column.
func (m *merger) foldRecordIntoTable(record, table *types.Type) *types.Type {
	keyType := m.combine(m.keyTypeFromLiterals(record.Fields), table.Fields[0].KeyType)
	value := table.Fields[0].Value
	count := table.Fields[0].Count
	for _, f := range record.Fields {
		value = m.combine(value, f.Value)
		count += f.Count
	}
	return &types.Type{
		Kind:    types.KindDict,
		IsTable: true,
		Lengths: mergeStats(record.Lengths, table.Lengths),
		Fields:  []types.Field{{KeyType: keyType, Count: count, Value: value}},
	}
}

// keyTypeFromLiterals re-synthesizes a generalized key type from literal
// record keys, re-running pattern synthesis over the union when the keys
// are strings.
func (m *merger) keyTypeFromLiterals(fields []types.Field) *types.Type {
	counter := stats.NewCounter()
	kinds := map[types.Kind]bool{}
	for _, f := range fields {
		count := f.Count
		if count < 1 {
			count = 1
		}
		counter.Add(f.Literal, count)
		switch f.Literal.(type) {
		case string:
			kinds[types.KindStr] = true
		case int64:
			kinds[types.KindInt] = true
		case float64:
			kinds[types.KindFloat] = true
		case bool:
			kinds[types.KindBool] = true
		}
	}
	if len(kinds) != 1 {
		return types.NewValue(counter.Total())
	}
	switch {
	case kinds[types.KindStr]:
		return m.synth.MatchStrings(counter)
	case kinds[types.KindInt]:
		return m.synth.CheckTimestamp(&types.Type{Kind: types.KindInt, Values: m.boundedStats(counter)})
	case kinds[types.KindFloat]:
		return m.synth.CheckTimestamp(&types.Type{Kind: types.KindFloat, Values: m.boundedStats(counter)})
	default:
		return &types.Type{Kind: types.KindBool, Values: m.boundedStats(counter)}
	}
}

// combineStrOf merges two string-representation wrappers. Integer pairs
// keep the widest base; mixed-width numeric pairs keep the wider side's
// format; incompatible details fall back to a plain string summary.
func (m *merger) combineStrOf(a, b *types.Type) *types.Type {
	if !m.strOfCompatible(a, b) {
		return degradeToStr(a, b)
	}
	child, parent := a, b
	if scalarRank(a.Inner.Kind) > scalarRank(b.Inner.Kind) {
		child, parent = b, a
	}
	format := parent.Format
	if child.Inner.Kind == types.KindInt && parent.Inner.Kind == types.KindInt {
		format = widestBase(child.Format, parent.Format)
	}
	return &types.Type{
		Kind:    types.KindStrOf,
		Inner:   m.combine(child.Inner, parent.Inner),
		Format:  format,
		Lengths: mergeStats(a.Lengths, b.Lengths),
	}
}

var baseOrder = map[string]int{"o": 0, "d": 1, "x": 2}

func widestBase(a, b string) string {
	if baseOrder[a] > baseOrder[b] {
		return a
	}
	return b
}

// combineNumeric widens through the tower: bool+int → int, anything with
// a float → float.
func combineNumeric(a, b *types.Type) *types.Type {
	if scalarRank(a.Kind) > scalarRank(b.Kind) {
		a, b = b, a
	}
	switch b.Kind {
	case types.KindBool:
		return &types.Type{Kind: types.KindBool, Values: mergeStats(a.Values, b.Values)}
	case types.KindInt:
		return &types.Type{Kind: types.KindInt, Values: mergeStats(boolStatsToInt(a.Values, a.Kind), b.Values)}
	default:
		av := boolStatsToInt(a.Values, a.Kind)
		if a.Kind != types.KindFloat {
			av = av.WidenToFloat()
		}
		return &types.Type{Kind: types.KindFloat, Values: mergeStats(av, b.Values)}
	}
}

// combineStrings merges plain string kinds: URLs stay URLs only when both
// sides are, patterns union position-wise when the lengths agree.
func combineStrings(a, b *types.Type) *types.Type {
	kind := types.KindStr
	if a.Kind == types.KindURL && b.Kind == types.KindURL {
		kind = types.KindURL
	}
	out := &types.Type{
		Kind:    kind,
		Values:  mergeStats(a.Values, b.Values),
		Lengths: mergeStats(a.Lengths, b.Lengths),
	}
	if a.Pattern != nil && b.Pattern != nil {
		if union, ok := a.Pattern.Union(b.Pattern); ok {
			out.Pattern = union
		}
	}
	return out
}

// degradeToStr is the fallback when representation details cannot be
// reconciled: an unclassified string carrying only the combined length
// range.
func degradeToStr(a, b *types.Type) *types.Type {
	return &types.Type{
		Kind:    types.KindStr,
		Values:  mergeStats(a.Values, b.Values),
		Lengths: mergeStats(a.Lengths, b.Lengths),
	}
}

func boolStatsToInt(s *stats.Stats, kind types.Kind) *stats.Stats {
	if kind != types.KindBool || s == nil || s.Counter() == nil {
		return s
	}
	mapped := s.Counter().Map(func(v any) any {
		if v.(bool) {
			return int64(1)
		}
		return int64(0)
	})
	out := stats.FromCounter(mapped)
	out.Count = s.Count
	out.BadCount = s.BadCount
	out.EmptyCount = s.EmptyCount
	out.NullCount = s.NullCount
	return out
}

func mergeStats(a, b *stats.Stats) *stats.Stats {
	if a == nil {
		return b
	}
	return a.Merge(b)
}

func numericKind(k types.Kind) bool {
	return k == types.KindBool || k == types.KindInt || k == types.KindFloat
}

func stringKind(k types.Kind) bool {
	return k == types.KindStr || k == types.KindURL
}

func scalarRank(k types.Kind) int {
	switch k {
	case types.KindBool:
		return 0
	case types.KindInt:
		return 1
	case types.KindFloat:
		return 2
	case types.KindDateTime:
		return 3
	case types.KindNumOf:
		return 4
	}
	return 5
}

func sortFields(fields []types.Field) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && values.Less(fields[j].Literal, fields[j-1].Literal); j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
}
