/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: The inferred Type tree. A single tagged union replaces the deep
inheritance hierarchy of classic schema models: every node carries a Kind tag, the
statistics of the values it summarizes, and kind-specific payload (record fields,
list element, tuple columns, string pattern, representation wrapper). Nodes are
write-once; the merger always constructs fresh nodes.
*/

package types

import (
	"github.com/kleascm/shapely/pkg/chars"
	"github.com/kleascm/shapely/pkg/stats"
)

// Kind tags every Type node.
type Kind uint8

const (
	// KindEmpty marks a field or container observed with zero samples.
	KindEmpty Kind = iota
	// KindValue is the fallback for mixed, incompatible scalar kinds.
	KindValue
	KindBool
	KindInt
	KindFloat
	KindDateTime
	KindStr
	KindURL
	// KindStrOf wraps a numeric or temporal type that was observed as its
	// string representation; Format records the encoding (o/d/x/f, a bool
	// literal set, a time layout, or "duration").
	KindStrOf
	// KindNumOf wraps a DateTime observed as a bare number; Format is
	// "int" or "float".
	KindNumOf
	KindDict
	KindList
	KindTuple
)

var kindNames = map[Kind]string{
	KindEmpty:    "empty",
	KindValue:    "value",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindDateTime: "datetime",
	KindStr:      "str",
	KindURL:      "URL",
	KindStrOf:    "strof",
	KindNumOf:    "numof",
	KindDict:     "dict",
	KindList:     "list",
	KindTuple:    "tuple",
}

func (k Kind) String() string { return kindNames[k] }

// Type is one node of the inferred shape tree.
type Type struct {
	Kind Kind

	// Values summarizes the scalar values observed at this node (in the
	// converted domain for representation wrappers). Nil for containers.
	Values *stats.Stats

	// Lengths summarizes container sizes, or string lengths for string
	// kinds.
	Lengths *stats.Stats

	// Fields is the ordered field list of a dict. A table dict has exactly
	// one entry whose KeyType generalizes the keys.
	Fields  []Field
	IsTable bool

	// Elem is the unified element type of a list.
	Elem *Type

	// Cols are the positional column types of a tuple.
	Cols []*Type

	// Pattern is the fixed-length positional signature of a string kind.
	Pattern chars.Pattern

	// Inner is the wrapped type of KindStrOf/KindNumOf.
	Inner *Type

	// Format is the representation tag of a wrapper or formatted scalar.
	Format string
}

// Field is one entry of a dict or the column of a table.
type Field struct {
	// Literal is the record key as a comparable scalar (string, int64,
	// float64, or bool). Nil for table fields.
	Literal any

	// KeyType is the generalized key type of a table field.
	KeyType *Type

	// Count is the number of record instances in which the key appeared.
	Count int

	// Optional marks keys absent from at least one merged instance.
	Optional bool

	Value *Type
}

// IsContainer reports whether t is a dict, list, or tuple.
func (t *Type) IsContainer() bool {
	switch t.Kind {
	case KindDict, KindList, KindTuple:
		return true
	}
	return false
}

// IsScalar reports whether t is a scalar leaf (including wrappers).
func (t *Type) IsScalar() bool {
	return t != nil && !t.IsContainer() && t.Kind != KindEmpty && t.Kind != KindValue
}

// IsRecord reports whether t is a dict of literal fields.
func (t *Type) IsRecord() bool {
	return t.Kind == KindDict && !t.IsTable
}

// Unique reports whether every scalar value observed at this node was
// distinct.
func (t *Type) Unique() bool {
	return t.Values != nil && t.Values.Unique
}

// Count returns the number of observations this node summarizes.
func (t *Type) Count() int {
	switch {
	case t.Values != nil:
		return t.Values.Count
	case t.Lengths != nil:
		return t.Lengths.Count
	}
	return 0
}

// Clone returns a shallow copy of t; field/column slices are copied so the
// clone can be edited without touching the original, while child nodes are
// shared (the merger replaces children with fresh nodes as needed).
func (t *Type) Clone() *Type {
	out := *t
	if t.Fields != nil {
		out.Fields = append([]Field(nil), t.Fields...)
	}
	if t.Cols != nil {
		out.Cols = append([]*Type(nil), t.Cols...)
	}
	if t.Pattern != nil {
		out.Pattern = append(chars.Pattern(nil), t.Pattern...)
	}
	return &out
}

// NewEmpty returns the node for a field observed with zero samples.
func NewEmpty() *Type { return &Type{Kind: KindEmpty} }

// NewValue returns the mixed-kind fallback node summarizing n values.
func NewValue(n int) *Type {
	return &Type{Kind: KindValue, Values: &stats.Stats{Count: n}}
}
