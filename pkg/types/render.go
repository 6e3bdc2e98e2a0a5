/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render.go
Description: Textual rendering of an inferred Type tree. Mappings render as braces,
sequences as brackets, tuples as parentheses; scalar leaves render their kind, value
range, and pattern; optional record fields carry a trailing question mark and unique
leaves an asterisk. Long container bodies wrap with four-space indentation.
*/

package types

import (
	"fmt"
	"strings"
	"time"
)

const wrapWidth = 60

// String renders the tree in the compact human-readable grammar used by
// the command line tool.
func (t *Type) String() string {
	switch t.Kind {
	case KindEmpty:
		return ""
	case KindValue:
		return "value"
	case KindBool:
		return "bool"
	case KindInt:
		return "int range=" + t.rangeString()
	case KindFloat:
		return "float range=" + t.rangeString()
	case KindDateTime:
		return "datetime range=" + t.rangeString()
	case KindStr:
		if len(t.Pattern) == 0 {
			return "str" + t.uniqueMark()
		}
		return fmt.Sprintf("str pattern=%q%s", t.Pattern.String(), t.uniqueMark())
	case KindURL:
		return "URL" + t.uniqueMark()
	case KindStrOf:
		return fmt.Sprintf("str of %s pattern=%s", t.Inner.String(), t.Format)
	case KindNumOf:
		return fmt.Sprintf("%s of %s", t.Format, t.Inner.String())
	case KindDict:
		return t.renderDict()
	case KindList:
		return wrap("[", t.Elem.String(), "]")
	case KindTuple:
		parts := make([]string, len(t.Cols))
		for i, col := range t.Cols {
			parts[i] = col.String()
		}
		return wrap("(", strings.Join(parts, ", "), ")")
	}
	return "?"
}

func (t *Type) renderDict() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		key := f.KeyString()
		if f.Optional {
			key += "?"
		}
		parts[i] = key + ": " + f.Value.String()
	}
	return wrap("{", strings.Join(parts, ", "), "}")
}

// KeyString renders a field's key: the literal for record fields, the
// generalized key type for table fields.
func (f Field) KeyString() string {
	if f.KeyType != nil {
		return "<" + f.KeyType.String() + ">"
	}
	if s, ok := f.Literal.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(f.Literal)
}

func (t *Type) uniqueMark() string {
	if t.Unique() {
		return "*"
	}
	return ""
}

func (t *Type) rangeString() string {
	if t.Values == nil || t.Values.Min == nil {
		return ".."
	}
	return formatSample(t.Values.Min) + ".." + formatSample(t.Values.Max) + t.uniqueMark()
}

func formatSample(v any) string {
	switch val := v.(type) {
	case float64:
		return fmt.Sprintf("%.7g", val)
	case time.Time:
		return val.Truncate(time.Second).Format("2006-01-02 15:04:05")
	case string:
		return fmt.Sprintf("%q", val)
	}
	return fmt.Sprint(v)
}

// wrap joins open+body+close on one line when short, or spreads the comma
// separated body across indented lines when long.
func wrap(open, body, closing string) string {
	if body == "" {
		return open + closing
	}
	if !strings.Contains(body, "\n") && len(body) <= wrapWidth {
		return open + body + closing
	}
	lines := strings.Split(body, ", ")
	var sb strings.Builder
	sb.WriteString(open)
	sb.WriteString("\n")
	for i, line := range lines {
		sb.WriteString(indent(line, "    "))
		if i < len(lines)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(closing)
	return sb.String()
}

func indent(s, prefix string) string {
	parts := strings.Split(s, "\n")
	for i, part := range parts {
		if part != "" {
			parts[i] = prefix + part
		}
	}
	return strings.Join(parts, "\n")
}
