/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sqlite.go
Description: SQLite decoding onto the generic value tree. Opens the database file
read-only, enumerates user tables from sqlite_master, and turns each table into a
sequence of row mappings keyed by column name. A single-table database yields that
table's rows directly.
*/

package decode

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kleascm/shapely/pkg/values"
)

func decodeSQLite(path string) (values.Value, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no tables found")
	}

	root := &values.Map{}
	for _, name := range names {
		table, err := decodeSQLiteTable(db, name)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		root.Pairs = append(root.Pairs, values.Pair{Key: values.Str(name), Val: table})
	}
	if len(root.Pairs) == 1 {
		return root.Pairs[0].Val, nil
	}
	return root, nil
}

func decodeSQLiteTable(db *sql.DB, name string) (values.Value, error) {
	rows, err := db.Query(`SELECT * FROM "` + name + `"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &values.Seq{}
	cells := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := &values.Map{Pairs: make([]values.Pair, len(cols))}
		for i, col := range cols {
			row.Pairs[i] = values.Pair{Key: values.Str(col), Val: sqliteValue(cells[i])}
		}
		out.Items = append(out.Items, row)
	}
	return out, rows.Err()
}

func sqliteValue(v any) values.Value {
	switch val := v.(type) {
	case nil:
		return values.Null{}
	case int64:
		return values.Int(val)
	case float64:
		return values.Float(val)
	case bool:
		return values.Bool(val)
	case string:
		return values.Str(val)
	case []byte:
		return values.Str(string(val))
	case time.Time:
		return values.Str(val.Format(time.RFC3339))
	}
	return values.Str(fmt.Sprint(v))
}
