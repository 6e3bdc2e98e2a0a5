/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: signature.go
Description: Fixed-length positional character-class signature synthesis. Transposes a
sample of equal-length strings into per-position rune sets, promotes digit positions
to the widest base observed across the whole string, and promotes identifier-like
signatures to identifier classes; remaining multi-rune positions widen to any-char.
*/

package pattern

import (
	"github.com/kleascm/shapely/pkg/chars"
	"github.com/kleascm/shapely/pkg/stats"
)

// synthesizePattern derives the positional signature of a sample of
// strings that all share one rune length.
func synthesizePattern(sample *stats.Counter) chars.Pattern {
	var strs []string
	sample.Each(func(v any, n int) {
		strs = append(strs, v.(string))
	})
	if len(strs) == 0 {
		return nil
	}
	width := len([]rune(strs[0]))
	if width == 0 {
		return nil
	}

	// Transpose: one rune set per position.
	classes := make([]chars.Class, width)
	for _, str := range strs {
		for i, r := range []rune(str) {
			classes[i] = classes[i].Union(chars.New(string(r)))
		}
	}

	// Digit promotion: every multi-rune position made only of hex digits is
	// widened to the single widest base seen anywhere in the signature, so
	// "7f" and "90" positions agree on one digit alphabet.
	isDigit := make([]bool, width)
	base := 0
	for i, c := range classes {
		if c.Len() > 1 && c.SubsetOf(chars.HexDigit) {
			isDigit[i] = true
			switch {
			case c.SubsetOf(chars.OctDigit):
				base = maxInt(base, 8)
			case c.SubsetOf(chars.DecDigit):
				base = maxInt(base, 10)
			default:
				base = maxInt(base, 16)
			}
		}
	}
	digitClass, haveDigit := chars.Class{}, false
	switch base {
	case 8:
		digitClass, haveDigit = chars.OctDigit, true
	case 10:
		digitClass, haveDigit = chars.DecDigit, true
	case 16:
		digitClass, haveDigit = chars.HexDigit, true
	}
	if haveDigit {
		for i := range classes {
			if isDigit[i] {
				classes[i] = digitClass
			}
		}
	}

	// Identifier promotion: when the whole signature could be an
	// identifier, widen the non-literal, non-digit positions to the
	// identifier classes; otherwise they widen to any-char.
	identLike := classes[0].SubsetOf(chars.IdentFirst)
	for _, c := range classes[1:] {
		if !c.SubsetOf(chars.IdentChar) {
			identLike = false
			break
		}
	}
	out := make(chars.Pattern, width)
	for i, c := range classes {
		switch {
		case c.Len() == 1 || (haveDigit && isDigit[i]):
			out[i] = c
		case identLike && i == 0:
			out[i] = chars.IdentFirst
		case identLike:
			out[i] = chars.IdentChar
		default:
			out[i] = chars.Any()
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
