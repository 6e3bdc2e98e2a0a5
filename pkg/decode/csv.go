/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: csv.go
Description: CSV decoding onto the generic value tree. Every row becomes a tuple of
string cells so the analyzer sees one column per position; typed content (ints,
dates, booleans) is recovered downstream by pattern synthesis, not here.
*/

package decode

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kleascm/shapely/pkg/values"
)

func decodeCSV(r io.Reader) (values.Value, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are the analyzer's problem
	reader.LazyQuotes = true

	s := &values.Seq{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := &values.Tup{Items: make([]values.Value, len(record))}
		for i, cell := range record {
			row.Items[i] = values.Str(cell)
		}
		s.Items = append(s.Items, row)
	}
	if len(s.Items) == 0 {
		return nil, fmt.Errorf("empty source")
	}
	return s, nil
}
