/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: html.go
Description: HTML table extraction onto the generic value tree. Each table element
becomes a sequence of row tuples built from cell text; a page with one table yields
that table directly, several tables yield a sequence of them.
*/

package decode

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kleascm/shapely/pkg/values"
)

func decodeHTML(r io.Reader) (values.Value, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var tables []values.Value
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := &values.Seq{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			row := &values.Tup{}
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				row.Items = append(row.Items, values.Str(strings.TrimSpace(cell.Text())))
			})
			if len(row.Items) > 0 {
				rows.Items = append(rows.Items, row)
			}
		})
		if len(rows.Items) > 0 {
			tables = append(tables, rows)
		}
	})
	switch len(tables) {
	case 0:
		return nil, fmt.Errorf("no tables found")
	case 1:
		return tables[0], nil
	}
	return &values.Seq{Items: tables}, nil
}
