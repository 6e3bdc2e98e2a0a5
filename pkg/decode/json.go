/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON decoding onto the generic value tree. Uses the streaming token
reader so object key order is preserved, keeps integers exact via json.Number, and
folds concatenated top-level documents (NDJSON style) into one sequence.
*/

package decode

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kleascm/shapely/pkg/values"
)

func decodeJSON(r io.Reader) (values.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var docs []values.Value
	for {
		v, err := decodeJSONValue(dec)
		if err == io.EOF {
			break
		}
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

func decodeJSONValue(dec *json.Decoder) (values.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return values.Str(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return values.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", t, err)
		}
		return values.Float(f), nil
	case bool:
		return values.Bool(t), nil
	case nil:
		return values.Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeJSONObject(dec *json.Decoder) (values.Value, error) {
	m := &values.Map{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string object key %v", keyTok)
		}
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		m.Pairs = append(m.Pairs, values.Pair{Key: values.Str(key), Val: val})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return m, nil
}

func decodeJSONArray(dec *json.Decoder) (values.Value, error) {
	s := &values.Seq{}
	for dec.More() {
		item, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, item)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}
	return s, nil
}
