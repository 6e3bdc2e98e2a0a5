/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: thresholds.go
Description: Tunable analysis thresholds for the shape inference engine. A Thresholds
value bundles the five proportions/counts that drive classification decisions plus the
numeric-timestamp recognition window, epoch, and resource bounds. Values are immutable
once validated and may be shared between concurrent analyses.
*/

package config

import (
	"fmt"
	"time"
)

// Thresholds is the configuration bundle consulted by every stage of the
// analysis. Construct with Default and adjust fields before calling
// Validate; after validation the value must be treated as read-only.
type Thresholds struct {
	// FieldThreshold is the maximum number of distinct keys for a mapping
	// (or columns for a tuple) to be treated as a record of literal fields
	// rather than a table of generalized keys.
	FieldThreshold int

	// BadThreshold is the maximum proportion of values in a column allowed
	// to mismatch a candidate representation before it is rejected.
	BadThreshold float64

	// EmptyThreshold is the maximum proportion of blank strings in a column
	// before string analysis is skipped entirely.
	EmptyThreshold float64

	// NullThreshold is the maximum proportion of null values in a column
	// before it degrades to a mixed-value type.
	NullThreshold float64

	// MergeThreshold is the minimum proportion of shared fields (relative
	// to the shorter record) required to merge two record shapes.
	MergeThreshold float64

	// MinTimestamp and MaxTimestamp bound the window inside which a bare
	// number is accepted as an epoch-based timestamp.
	MinTimestamp time.Time
	MaxTimestamp time.Time

	// Epoch is the zero point for numeric timestamps.
	Epoch time.Time

	// MaxNumericLen is the maximum string length still considered a
	// candidate for numeric conversion.
	MaxNumericLen int

	// StripWhitespace trims strings before any analysis.
	StripWhitespace bool

	// UniqueCap bounds distinct-value tracking per column; past the cap
	// uniqueness and quartiles become approximate. Zero means unlimited.
	UniqueCap int

	// SampleSize bounds the most/least-frequent sample kept per column.
	SampleSize int
}

// Default returns the documented default thresholds: field 20, bad 1%,
// empty 99%, null 99%, merge 50%, a timestamp window of 20 years back to
// 10 years ahead of now, the UNIX epoch, and whitespace stripping on.
func Default() *Thresholds {
	now := time.Now()
	return &Thresholds{
		FieldThreshold:  20,
		BadThreshold:    0.01,
		EmptyThreshold:  0.99,
		NullThreshold:   0.99,
		MergeThreshold:  0.50,
		MinTimestamp:    now.AddDate(-20, 0, 0),
		MaxTimestamp:    now.AddDate(10, 0, 0),
		Epoch:           time.Unix(0, 0).UTC(),
		MaxNumericLen:   30,
		StripWhitespace: true,
		UniqueCap:       1_000_000,
		SampleSize:      10,
	}
}

// Validate rejects out-of-range settings before any analysis begins. The
// returned error names the offending option.
func (t *Thresholds) Validate() error {
	if t.FieldThreshold < 0 {
		return fmt.Errorf("field-threshold must not be negative: %d", t.FieldThreshold)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"bad-threshold", t.BadThreshold},
		{"empty-threshold", t.EmptyThreshold},
		{"null-threshold", t.NullThreshold},
		{"merge-threshold", t.MergeThreshold},
	} {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1: %g", p.name, p.value)
		}
	}
	if t.MaxNumericLen < 1 {
		return fmt.Errorf("max-numeric-len must be positive: %d", t.MaxNumericLen)
	}
	if t.MinTimestamp.IsZero() || t.MaxTimestamp.IsZero() {
		return fmt.Errorf("min-timestamp and max-timestamp must be set")
	}
	if !t.MinTimestamp.Before(t.MaxTimestamp) {
		return fmt.Errorf("min-timestamp must precede max-timestamp")
	}
	if t.Epoch.IsZero() {
		return fmt.Errorf("epoch must be set")
	}
	if t.UniqueCap < 0 {
		return fmt.Errorf("unique-cap must not be negative: %d", t.UniqueCap)
	}
	if t.SampleSize < 1 {
		return fmt.Errorf("sample-size must be positive: %d", t.SampleSize)
	}
	return nil
}

// InTimestampWindow reports whether the instant ts (seconds relative to
// the configured epoch) falls inside the recognition window.
func (t *Thresholds) InTimestampWindow(seconds float64) bool {
	ts := t.FromEpoch(seconds)
	return !ts.Before(t.MinTimestamp) && !ts.After(t.MaxTimestamp)
}

// FromEpoch converts a number of seconds relative to the configured epoch
// into an absolute time.
func (t *Thresholds) FromEpoch(seconds float64) time.Time {
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * 1e9)
	return t.Epoch.Add(time.Duration(sec)*time.Second + time.Duration(nsec)*time.Nanosecond)
}
