/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yaml.go
Description: YAML decoding onto the generic value tree. Walks the yaml.v3 node
graph directly so mapping key order is preserved and scalar tags resolve to the
matching value kinds; multiple documents in one stream fold into a sequence.
*/

package decode

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kleascm/shapely/pkg/values"
)

func decodeYAML(r io.Reader) (values.Value, error) {
	dec := yaml.NewDecoder(r)
	var docs []values.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		v, err := yamlValue(&node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, v)
	}
	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("empty source")
	case 1:
		return docs[0], nil
	}
	return &values.Seq{Items: docs}, nil
}

func yamlValue(node *yaml.Node) (values.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return values.Null{}, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		m := &values.Map{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := yamlValue(node.Content[i])
			if err != nil {
				return nil, err
			}
			val, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Pairs = append(m.Pairs, values.Pair{Key: key, Val: val})
		}
		return m, nil
	case yaml.SequenceNode:
		s := &values.Seq{}
		for _, item := range node.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, v)
		}
		return s, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	}
	return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
}

func yamlScalar(node *yaml.Node) (values.Value, error) {
	switch node.Tag {
	case "!!null":
		return values.Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, fmt.Errorf("bad bool %q at line %d", node.Value, node.Line)
		}
		return values.Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int %q at line %d", node.Value, node.Line)
		}
		return values.Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q at line %d", node.Value, node.Line)
		}
		return values.Float(f), nil
	}
	// Timestamps and every other tag stay strings; the pattern synthesizer
	// recognizes them downstream.
	return values.Str(node.Value), nil
}
