package table

import (
	"fmt"
	"strings"

	"github.com/avicd/go-utilx/refx"
)

// Table is an immutable rows x named-columns result, the value bound
// into a session namespace for every executed query.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

func New(cols []string, rows [][]any) *Table {
	index := map[string]int{}
	for i, col := range cols {
		index[col] = i
	}
	return &Table{cols: cols, index: index, rows: rows}
}

// Status wraps an execution message into a one-cell table, the shape
// returned for statements that produce no row set.
func Status(msg string) *Table {
	return New([]string{"result"}, [][]any{{msg}})
}

func (it *Table) Columns() []string {
	return it.cols
}

func (it *Table) Len() int {
	return len(it.rows)
}

func (it *Table) Row(i int) []any {
	return it.rows[i]
}

func (it *Table) ColIndex(name string) int {
	if i, ok := it.index[name]; ok {
		return i
	}
	return -1
}

func (it *Table) Col(name string) []any {
	ci := it.ColIndex(name)
	if ci < 0 {
		return nil
	}
	vals := make([]any, 0, len(it.rows))
	for _, row := range it.rows {
		vals = append(vals, row[ci])
	}
	return vals
}

func (it *Table) At(i int, name string) any {
	ci := it.ColIndex(name)
	if ci < 0 || i < 0 || i >= len(it.rows) {
		return nil
	}
	return it.rows[i][ci]
}

func (it *Table) String() string {
	return fmt.Sprintf("table(%d rows x %d cols)", len(it.rows), len(it.cols))
}

// Preview renders up to n rows as tab-separated text with a header
// line, for logs and variable panels.
func (it *Table) Preview(n int) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(it.cols, "\t"))
	for i, row := range it.rows {
		if i >= n {
			sb.WriteString(fmt.Sprintf("\n... %d more rows", len(it.rows)-n))
			break
		}
		cells := make([]string, len(row))
		for ci, val := range row {
			cells[ci] = refx.AsString(val)
		}
		sb.WriteString("\n" + strings.Join(cells, "\t"))
	}
	return sb.String()
}
