/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for threshold validation, the numeric-timestamp window, and
the parsing of human-friendly duration spans and timestamp option values.
*/

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateNamesOffendingOption(t *testing.T) {
	cases := []struct {
		mutate func(*Thresholds)
		want   string
	}{
		{func(p *Thresholds) { p.FieldThreshold = -1 }, "field-threshold"},
		{func(p *Thresholds) { p.BadThreshold = 1.5 }, "bad-threshold"},
		{func(p *Thresholds) { p.EmptyThreshold = -0.1 }, "empty-threshold"},
		{func(p *Thresholds) { p.NullThreshold = 2 }, "null-threshold"},
		{func(p *Thresholds) { p.MergeThreshold = -1 }, "merge-threshold"},
		{func(p *Thresholds) { p.MaxNumericLen = 0 }, "max-numeric-len"},
		{func(p *Thresholds) { p.MinTimestamp, p.MaxTimestamp = p.MaxTimestamp, p.MinTimestamp }, "min-timestamp"},
		{func(p *Thresholds) { p.UniqueCap = -5 }, "unique-cap"},
		{func(p *Thresholds) { p.SampleSize = 0 }, "sample-size"},
	}
	for _, tc := range cases {
		p := Default()
		tc.mutate(p)
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.want)
	}
}

func TestTimestampWindow(t *testing.T) {
	p := Default()
	p.Epoch = time.Unix(0, 0).UTC()
	p.MinTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	p.MaxTimestamp = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	inside := float64(time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC).Unix())
	assert.True(t, p.InTimestampWindow(inside))
	assert.False(t, p.InTimestampWindow(0))    // 1970
	assert.False(t, p.InTimestampWindow(4e9))  // ~2096
}

func TestFromEpoch(t *testing.T) {
	p := Default()
	p.Epoch = time.Unix(0, 0).UTC()
	ts := p.FromEpoch(86400)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), ts)
}

func TestParseSpanSimple(t *testing.T) {
	span, err := ParseSpan("20y")
	require.NoError(t, err)
	assert.Equal(t, 20, span.Years)

	span, err = ParseSpan("3 months")
	require.NoError(t, err)
	assert.Equal(t, 3, span.Months)

	span, err = ParseSpan("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, span.Clock)
}

func TestParseSpanCompound(t *testing.T) {
	span, err := ParseSpan("1y, 2 months, 3d, 4 hours, 5 mins, 6s")
	require.NoError(t, err)
	assert.Equal(t, 1, span.Years)
	assert.Equal(t, 2, span.Months)
	assert.Equal(t, 3, span.Days)
	assert.Equal(t, 4*time.Hour+5*time.Minute+6*time.Second, span.Clock)
}

func TestParseSpanMinutesVersusMonths(t *testing.T) {
	span, err := ParseSpan("5m")
	require.NoError(t, err)
	assert.Equal(t, 5, span.Months)

	span, err = ParseSpan("5min")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, span.Clock)
}

func TestParseSpanRejectsGarbage(t *testing.T) {
	_, err := ParseSpan("shortly")
	assert.Error(t, err)
	assert.False(t, IsSpan("shortly"))
	assert.False(t, IsSpan(""))
	assert.True(t, IsSpan("2 weeks"))
}

func TestSpanSeconds(t *testing.T) {
	span := Span{Years: 1, Months: 1, Days: 1, Clock: time.Hour}
	// Years as 365 days, months as 30 days.
	want := float64(365+30+1)*86400 + 3600
	assert.Equal(t, want, span.Seconds())
}

func TestParseTimestampAbsolute(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ts, err := ParseTimestamp("2020-06-15", now, true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC), ts)
}

func TestParseTimestampRelative(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	back, err := ParseTimestamp("20y", now, true)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(-20, 0, 0), back)

	ahead, err := ParseTimestamp("10y", now, false)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(10, 0, 0), ahead)
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("whenever", time.Now(), true)
	assert.Error(t, err)
}
