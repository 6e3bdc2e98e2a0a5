/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: synthesizer.go
Description: Pattern synthesis for homogeneous string columns. Attempts family
conversions in priority order (boolean literal sets, octal/decimal/hex integers,
floats, durations, known timestamp layouts), falling back to a fixed-length
positional character-class signature or a plain string summary. Conversion failures
are tolerated up to the configured bad threshold and tallied, never raised.
*/

package pattern

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kleascm/shapely/pkg/config"
	"github.com/kleascm/shapely/pkg/stats"
	"github.com/kleascm/shapely/pkg/types"
)

// Boolean literal sets, tried in order. Each entry is "false|true".
var boolPatterns = []string{
	"0|1",
	"f|t",
	"n|y",
	"false|true",
	"no|yes",
	"off|on",
	"|x",
}

// Integer bases, tried octal first: octal digits are a subset of decimal
// digits (and those of hex), so the narrow bases must get first refusal or
// they can never win.
var intPatterns = []string{"o", "d", "x"}

var intBases = map[string]int{"o": 8, "d": 10, "x": 16}

// Timestamp layouts for variable-length strings (fractions and zone
// offsets make the length vary).
var varDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
}

// Timestamp layouts that produce fixed-length strings.
var fixedDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Mon, 02 Jan 2006 15:04:05",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// Synthesizer derives compact representations for string columns under a
// threshold policy. It holds no mutable state and may be shared.
type Synthesizer struct {
	policy *config.Thresholds
}

// NewSynthesizer returns a Synthesizer bound to the given policy.
func NewSynthesizer(policy *config.Thresholds) *Synthesizer {
	return &Synthesizer{policy: policy}
}

// MatchStrings summarizes a weighted sample of strings as the most
// specific type the policy accepts: a representation wrapper, a
// fixed-length pattern string, a URL, or a plain string summary.
func (s *Synthesizer) MatchStrings(sample *stats.Counter) *types.Type {
	if s.policy.StripWhitespace {
		sample = sample.Map(func(v any) any {
			return strings.TrimSpace(v.(string))
		})
	}
	total := sample.Total()

	// Blank strings: past the empty threshold the column is reported as an
	// unclassified string; below it they are discounted but tallied.
	emptyCount := sample.Get("")
	if emptyCount > 0 {
		sample = sample.Clone()
		sample.Remove("")
		if float64(emptyCount)/float64(total) > s.policy.EmptyThreshold {
			return s.plainStr(sample, emptyCount)
		}
	}
	if sample.Total() == 0 {
		return types.NewEmpty()
	}
	badLimit := int(math.Ceil(float64(total) * s.policy.BadThreshold))

	lengths := stats.FromLengths(sample)
	if lengths.Max.(int64) <= int64(s.policy.MaxNumericLen) {
		if result := s.matchNumeric(sample, badLimit, emptyCount); result != nil {
			return s.CheckTimestamp(result)
		}
	}
	if lengths.Min == lengths.Max {
		return s.matchFixedLen(sample, badLimit, emptyCount)
	}
	if allURLs(sample) {
		url := s.plainStr(sample, emptyCount)
		url.Kind = types.KindURL
		return url
	}
	return s.plainStr(sample, emptyCount)
}

// matchNumeric attempts the numeric and temporal conversions in priority
// order, returning nil when no family is accepted.
func (s *Synthesizer) matchNumeric(sample *stats.Counter, badLimit, emptyCount int) *types.Type {
	for _, pat := range boolPatterns {
		falseLit, trueLit, _ := strings.Cut(pat, "|")
		if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
			return parseBool(str, falseLit, trueLit)
		}); ok {
			return s.wrapStr(types.KindBool, conv, pat, sample, bad, emptyCount)
		}
	}
	for _, pat := range intPatterns {
		base := intBases[pat]
		if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
			return strconv.ParseInt(str, base, 64)
		}); ok {
			return s.wrapStr(types.KindInt, conv, pat, sample, bad, emptyCount)
		}
	}
	if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
		f, err := strconv.ParseFloat(str, 64)
		if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, strconv.ErrSyntax
		}
		return f, err
	}); ok {
		return s.wrapStr(types.KindFloat, conv, "f", sample, bad, emptyCount)
	}
	if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
		span, err := config.ParseSpan(str)
		if err != nil {
			return nil, err
		}
		return span.Seconds(), nil
	}); ok {
		return s.wrapStr(types.KindFloat, conv, "duration", sample, bad, emptyCount)
	}
	for _, layout := range varDateTimeLayouts {
		if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
			return time.Parse(layout, str)
		}); ok {
			return s.wrapStr(types.KindDateTime, conv, layout, sample, bad, emptyCount)
		}
	}
	return nil
}

// matchFixedLen summarizes equal-length strings: known fixed-width
// timestamp layouts first, then a per-position character-class signature.
func (s *Synthesizer) matchFixedLen(sample *stats.Counter, badLimit, emptyCount int) *types.Type {
	for _, layout := range fixedDateTimeLayouts {
		if conv, bad, ok := tryConvert(sample, badLimit, func(str string) (any, error) {
			return time.Parse(layout, str)
		}); ok {
			return s.wrapStr(types.KindDateTime, conv, layout, sample, bad, emptyCount)
		}
	}
	result := s.plainStr(sample, emptyCount)
	result.Pattern = synthesizePattern(sample)
	return result
}

// plainStr builds the unclassified string summary: value stats, length
// stats, no pattern.
func (s *Synthesizer) plainStr(sample *stats.Counter, emptyCount int) *types.Type {
	vals := s.boundedStats(sample)
	vals.Count += emptyCount
	vals.EmptyCount = emptyCount
	return &types.Type{
		Kind:    types.KindStr,
		Values:  vals,
		Lengths: stats.FromLengths(sample),
	}
}

// wrapStr wraps a converted scalar family in a string-representation node.
// Bad strings are excluded from the range stats but tallied on the inner
// stats; the wrapper keeps the length stats of the original strings.
func (s *Synthesizer) wrapStr(kind types.Kind, conv *stats.Counter, format string, original *stats.Counter, bad, emptyCount int) *types.Type {
	vals := s.boundedStats(conv)
	vals.Count += bad + emptyCount
	vals.BadCount = bad
	vals.EmptyCount = emptyCount
	inner := &types.Type{Kind: kind, Values: vals}
	if format == "duration" {
		inner.Format = format
	}
	return &types.Type{
		Kind:    types.KindStrOf,
		Inner:   inner,
		Format:  format,
		Lengths: stats.FromLengths(original),
	}
}

// CheckTimestamp promotes a numeric type whose whole range falls inside
// the configured window into an epoch-based datetime. Accepted inputs are
// bare int/float nodes and string representations of decimal ints or
// floats; everything else passes through unchanged.
func (s *Synthesizer) CheckTimestamp(t *types.Type) *types.Type {
	switch t.Kind {
	case types.KindInt, types.KindFloat:
		if t.Format == "" && s.rangeInWindow(t.Values) {
			return s.numOfDateTime(t)
		}
	case types.KindStrOf:
		inner := t.Inner
		numeric := (inner.Kind == types.KindInt && t.Format == "d") ||
			(inner.Kind == types.KindFloat && t.Format == "f")
		if numeric && s.rangeInWindow(inner.Values) {
			out := t.Clone()
			out.Inner = s.numOfDateTime(inner)
			return out
		}
	}
	return t
}

func (s *Synthesizer) rangeInWindow(vals *stats.Stats) bool {
	if vals == nil || vals.Min == nil {
		return false
	}
	return s.policy.InTimestampWindow(asFloat(vals.Min)) &&
		s.policy.InTimestampWindow(asFloat(vals.Max))
}

// numOfDateTime rebuilds a numeric node's stats in the datetime domain and
// wraps them in a numeric-representation node.
func (s *Synthesizer) numOfDateTime(num *types.Type) *types.Type {
	format := "int"
	if num.Kind == types.KindFloat {
		format = "float"
	}
	converted := stats.NewCounter()
	if c := num.Values.Counter(); c != nil {
		c.Each(func(v any, n int) {
			converted.Add(s.policy.FromEpoch(asFloat(v)), n)
		})
	}
	vals := s.boundedStats(converted)
	vals.Count = num.Values.Count
	vals.BadCount = num.Values.BadCount
	vals.EmptyCount = num.Values.EmptyCount
	vals.NullCount = num.Values.NullCount
	// A capped source keeps exact min/max outside its counter; carry them
	// into the datetime domain along with the approximation mark.
	if num.Values.Approx {
		vals.Approx = true
		vals.Unique = num.Values.Unique
		if num.Values.Min != nil {
			vals.Min = s.policy.FromEpoch(asFloat(num.Values.Min))
		}
		if num.Values.Max != nil {
			vals.Max = s.policy.FromEpoch(asFloat(num.Values.Max))
		}
	}
	return &types.Type{
		Kind:   types.KindNumOf,
		Inner:  &types.Type{Kind: types.KindDateTime, Values: vals},
		Format: format,
	}
}

// boundedStats summarizes a value counter under the policy's distinct-value
// cap and sample bound.
func (s *Synthesizer) boundedStats(c *stats.Counter) *stats.Stats {
	return stats.FromCounterWith(c, s.policy.UniqueCap, s.policy.SampleSize)
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case float64:
		return val
	}
	return math.NaN()
}

// tryConvert runs conv over every distinct string of the sample. It fails
// when the weighted count of conversion errors exceeds limit, or when not
// a single string converts.
func tryConvert(sample *stats.Counter, limit int, conv func(string) (any, error)) (*stats.Counter, int, bool) {
	result := stats.NewCounter()
	bad := 0
	failed := false
	sample.Each(func(v any, n int) {
		if failed {
			return
		}
		converted, err := conv(v.(string))
		if err != nil {
			bad += n
			if bad > limit {
				failed = true
			}
			return
		}
		result.Add(converted, n)
	})
	if failed || result.Total() == 0 {
		return nil, 0, false
	}
	return result, bad, true
}

// parseBool matches s (trimmed, lower-cased) against a false/true literal
// pair.
func parseBool(s, falseLit, trueLit string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case falseLit:
		return false, nil
	case trueLit:
		return true, nil
	}
	return nil, strconv.ErrSyntax
}

func allURLs(sample *stats.Counter) bool {
	ok := true
	sample.Each(func(v any, n int) {
		str := v.(string)
		if !strings.HasPrefix(str, "http://") && !strings.HasPrefix(str, "https://") {
			ok = false
		}
	})
	return ok
}
