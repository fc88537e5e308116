package table

import (
	"database/sql"
	"time"
)

// Scan drains rows into a Table. Driver raw bytes are normalized to
// string so cell values stay printable and comparable inside scripts.
func Scan(rows *sql.Rows) (*Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var data [][]any
	for rows.Next() {
		cells := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, val := range cells {
			cells[i] = normalize(val)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return New(cols, data), nil
}

func normalize(val any) any {
	switch v := val.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return val
	}
}
