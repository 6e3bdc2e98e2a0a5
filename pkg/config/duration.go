/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: duration.go
Description: Parsing of human-friendly duration and timestamp option values. Supports
compound spans like "5 minutes, 30 seconds" or "20y" and absolute RFC 3339 timestamps,
so the timestamp window and epoch options accept either form on the command line.
*/

package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Span is a calendar-aware duration: years and months apply via AddDate,
// the rest as an exact time.Duration.
type Span struct {
	Years, Months, Days int
	Clock               time.Duration
}

// Add applies the span to t. Negative spans move backwards.
func (s Span) Add(t time.Time) time.Time {
	return t.AddDate(s.Years, s.Months, s.Days).Add(s.Clock)
}

// Neg returns the negated span.
func (s Span) Neg() Span {
	return Span{Years: -s.Years, Months: -s.Months, Days: -s.Days, Clock: -s.Clock}
}

// Seconds approximates the span as seconds, treating months as 30 days and
// years as 365 days. Used only for range statistics over duration strings.
func (s Span) Seconds() float64 {
	days := float64(s.Days) + 30*float64(s.Months) + 365*float64(s.Years)
	return days*86400 + s.Clock.Seconds()
}

// Suffix table: the minutes pattern must be checked before months, since
// "m" alone is a month and "mi"/"min" are minutes.
var spanSuffixes = []struct {
	unit  string
	regex *regexp.Regexp
}{
	{"microseconds", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*m(?:icro)?s(?:ec(?:ond)?s?)?\b)`)},
	{"seconds", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*s(?:ec(?:ond)?s?)?\b)`)},
	{"minutes", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*mi(?:n(?:ute)?s?)?\b)`)},
	{"hours", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*h(?:(?:ou)?rs?)?\b)`)},
	{"days", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*d(?:ays?)?\b)`)},
	{"weeks", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*w(?:(?:ee)?ks?)?\b)`)},
	{"months", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*m(?:on(?:th)?s?)?\b)`)},
	{"years", regexp.MustCompile(`^(?:(?P<num>[+-]?\d+)\s*y(?:(?:ea)?rs?)?\b)`)},
}

// ParseSpan converts a string of white-space/comma separated number+suffix
// terms into a Span. Recognized suffixes include "y", "years", "mon",
// "mins", "s", and the usual variants.
func ParseSpan(s string) (Span, error) {
	var span Span
	t := s
	for {
		t = strings.TrimLeft(t, " \t\n,")
		if t == "" {
			return span, nil
		}
		matched := false
		for _, suffix := range spanSuffixes {
			m := suffix.regex.FindStringSubmatch(t)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Span{}, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			switch suffix.unit {
			case "microseconds":
				span.Clock += time.Duration(n) * time.Microsecond
			case "seconds":
				span.Clock += time.Duration(n) * time.Second
			case "minutes":
				span.Clock += time.Duration(n) * time.Minute
			case "hours":
				span.Clock += time.Duration(n) * time.Hour
			case "days":
				span.Days += n
			case "weeks":
				span.Days += 7 * n
			case "months":
				span.Months += n
			case "years":
				span.Years += n
			}
			t = t[len(m[0]):]
			matched = true
			break
		}
		if !matched {
			return Span{}, fmt.Errorf("invalid duration %q", s)
		}
	}
}

// IsSpan reports whether s parses as a duration span.
func IsSpan(s string) bool {
	_, err := ParseSpan(s)
	return err == nil && strings.TrimSpace(s) != ""
}

// ParseTimestamp accepts either an absolute timestamp (RFC 3339, with or
// without a time component) or a duration span relative to now ("20y"
// meaning twenty years ago when before is true, ahead otherwise).
func ParseTimestamp(s string, now time.Time, before bool) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	span, err := ParseSpan(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp or duration %q", s)
	}
	if before {
		span = span.Neg()
	}
	return span.Add(now), nil
}
