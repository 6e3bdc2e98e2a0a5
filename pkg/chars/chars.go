/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: chars.go
Description: Character classes for pattern synthesis. A Class is an immutable set of
runes with union/subset operations and a compact textual form; well-known classes
(octal/decimal/hex digits, identifier characters, any character) render as single
letter codes in synthesized patterns.
*/

package chars

import (
	"sort"
	"strings"
)

// Class is an immutable set of runes. The zero value is the empty class.
// The canonical representation is a sorted, deduplicated string of runes,
// which makes equality and map usage cheap. The special "any" class stands
// for the set of all possible runes.
type Class struct {
	any   bool
	runes string // sorted, unique
}

// New builds a Class from the runes of s.
func New(s string) Class {
	set := map[rune]struct{}{}
	for _, r := range s {
		set[r] = struct{}{}
	}
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return Class{runes: string(runes)}
}

// Range returns the class of all runes from start to stop inclusive.
func Range(start, stop rune) Class {
	var sb strings.Builder
	for r := start; r <= stop; r++ {
		sb.WriteRune(r)
	}
	return Class{runes: sb.String()}
}

// Any is the class matching every rune.
func Any() Class {
	return Class{any: true}
}

// Well-known classes. OctDigit ⊂ DecDigit ⊂ HexDigit; IdentFirst ⊂ IdentChar.
var (
	OctDigit   = New("01234567")
	DecDigit   = New("0123456789")
	HexDigit   = DecDigit.Union(New("abcdefABCDEF"))
	IdentFirst = Range('A', 'Z').Union(Range('a', 'z')).Union(New("_"))
	IdentChar  = IdentFirst.Union(DecDigit)
)

// IsAny reports whether c matches every rune.
func (c Class) IsAny() bool { return c.any }

// Len returns the number of runes in the class. The any-class reports -1.
func (c Class) Len() int {
	if c.any {
		return -1
	}
	return len([]rune(c.runes))
}

// Contains reports whether r is a member of the class.
func (c Class) Contains(r rune) bool {
	if c.any {
		return true
	}
	return strings.ContainsRune(c.runes, r)
}

// Equal reports whether two classes contain exactly the same runes.
func (c Class) Equal(other Class) bool {
	return c.any == other.any && c.runes == other.runes
}

// SubsetOf reports whether every rune of c is also in other.
func (c Class) SubsetOf(other Class) bool {
	if other.any {
		return true
	}
	if c.any {
		return false
	}
	for _, r := range c.runes {
		if !strings.ContainsRune(other.runes, r) {
			return false
		}
	}
	return true
}

// Union returns the class containing the runes of both c and other.
func (c Class) Union(other Class) Class {
	if c.any || other.any {
		return Any()
	}
	return New(c.runes + other.runes)
}

// String renders the class in the compact form used by synthesized
// patterns: a literal rune for singletons, a single-letter code for the
// well-known classes, '.' for the any-class, and a bracketed rune list
// otherwise.
func (c Class) String() string {
	if c.any {
		return "."
	}
	switch {
	case c.Len() == 0:
		return "∅"
	case c.Len() == 1:
		return c.runes
	case c.Equal(OctDigit):
		return "o"
	case c.Equal(DecDigit):
		return "d"
	case c.Equal(HexDigit):
		return "x"
	case c.Equal(IdentFirst):
		return "I"
	case c.Equal(IdentChar):
		return "i"
	}
	return "[" + c.runes + "]"
}

// Pattern is a fixed-length positional signature: one class per character
// position of the strings it summarizes.
type Pattern []Class

// String concatenates the rendering of every positional class.
func (p Pattern) String() string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Union merges two patterns of the same length position-wise. It returns
// false when the lengths differ (no common fixed-length signature).
func (p Pattern) Union(other Pattern) (Pattern, bool) {
	if len(p) != len(other) {
		return nil, false
	}
	out := make(Pattern, len(p))
	for i := range p {
		out[i] = p[i].Union(other[i])
	}
	return out, true
}
