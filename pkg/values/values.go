/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: values.go
Description: Generic value tree consumed by the analysis core. Defines the discriminated
union of mappings, sequences, tuples, and scalar kinds produced by the decoders. The
analyzer only ever reads this tree; ownership stays with the caller.
*/

package values

import (
	"fmt"
	"time"
)

// Value is the interface implemented by every node of the input tree.
// The concrete kinds are Map, Seq, Tup, Str, Int, Float, Bool, and Null.
type Value interface {
	isValue()
}

// Pair is a single key/value entry of a Map. Keys are scalar Values,
// typically strings.
type Pair struct {
	Key Value
	Val Value
}

// Map is an ordered mapping. Order is preserved from the source document.
type Map struct {
	Pairs []Pair
}

// Seq is an ordered sequence with no homogeneity requirement.
type Seq struct {
	Items []Value
}

// Tup is a fixed-arity ordered list with positional semantics (e.g. a CSV
// row or an HTML table row).
type Tup struct {
	Items []Value
}

// Scalar kinds.
type (
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Null  struct{}
)

func (*Map) isValue()  {}
func (*Seq) isValue()  {}
func (*Tup) isValue()  {}
func (Str) isValue()   {}
func (Int) isValue()   {}
func (Float) isValue() {}
func (Bool) isValue()  {}
func (Null) isValue()  {}

// IsContainer reports whether v is a Map, Seq, or Tup.
func IsContainer(v Value) bool {
	switch v.(type) {
	case *Map, *Seq, *Tup:
		return true
	}
	return false
}

// IsScalar reports whether v is a scalar kind (including Null).
func IsScalar(v Value) bool {
	return v != nil && !IsContainer(v)
}

// Walk visits every node of the tree rooted at v in depth-first order,
// containers before their children. It stops early if fn returns false.
func Walk(v Value, fn func(Value) bool) bool {
	if !fn(v) {
		return false
	}
	switch val := v.(type) {
	case *Map:
		for _, p := range val.Pairs {
			if !Walk(p.Key, fn) || !Walk(p.Val, fn) {
				return false
			}
		}
	case *Seq:
		for _, item := range val.Items {
			if !Walk(item, fn) {
				return false
			}
		}
	case *Tup:
		for _, item := range val.Items {
			if !Walk(item, fn) {
				return false
			}
		}
	}
	return true
}

// Count returns the total number of nodes in the tree rooted at v.
func Count(v Value) int {
	n := 0
	Walk(v, func(Value) bool {
		n++
		return true
	})
	return n
}

// Key converts a scalar Value into a comparable Go value usable as a map
// key and in sorted statistics. Containers are not valid keys.
func Key(v Value) any {
	switch val := v.(type) {
	case Str:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Null:
		return nil
	}
	panic(fmt.Sprintf("values: %T is not a scalar", v))
}

// Less orders two comparable scalar keys of the same general kind. Mixed
// kinds fall back to string comparison so that record keys always have a
// deterministic order.
func Less(a, b any) bool {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
		if bv, ok := b.(float64); ok {
			return float64(av) < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
		if bv, ok := b.(int64); ok {
			return av < float64(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
