package table

import (
	"fmt"
	"strings"

	"github.com/avicd/go-utilx/refx"
	"go.starlark.net/starlark"
)

// Starlark bindings so bound tables behave like small data frames in
// script code: len(t) is the row count, t[0] is a row, t["col"] is a
// column list, t.columns the header.

var (
	_ starlark.Value     = (*Table)(nil)
	_ starlark.Indexable = (*Table)(nil)
	_ starlark.Mapping   = (*Table)(nil)
	_ starlark.HasAttrs  = (*Table)(nil)
)

func (it *Table) Type() string { return "table" }
func (it *Table) Freeze() {}
func (it *Table) Truth() starlark.Bool { return starlark.Bool(it.Len() > 0) }
func (it *Table) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: table") }

func (it *Table) Index(i int) starlark.Value {
	return &Row{tbl: it, i: i}
}

// Get serves both t["col"] and t[0]: the interpreter routes the index
// operator through Mapping whenever a value implements it, so integer
// keys must be handled here rather than in Index.
func (it *Table) Get(key starlark.Value) (starlark.Value, bool, error) {
	if i, isInt, err := indexKey(key, it.Len()); isInt {
		if err != nil {
			return nil, false, err
		}
		return it.Index(i), true, nil
	}
	name, ok := starlark.AsString(key)
	if !ok {
		return nil, false, fmt.Errorf("table key must be a column name or row index, got %s", key.Type())
	}
	ci := it.ColIndex(name)
	if ci < 0 {
		return nil, false, nil
	}
	vals := make([]starlark.Value, 0, len(it.rows))
	for _, row := range it.rows {
		vals = append(vals, cellValue(row[ci]))
	}
	return starlark.NewList(vals), true, nil
}

func (it *Table) Attr(name string) (starlark.Value, error) {
	if name != "columns" {
		return nil, nil
	}
	cols := make([]starlark.Value, 0, len(it.cols))
	for _, col := range it.cols {
		cols = append(cols, starlark.String(col))
	}
	return starlark.NewList(cols), nil
}

func (it *Table) AttrNames() []string {
	return []string{"columns"}
}

// Row is one table row, indexable by position and by column name.
type Row struct {
	tbl *Table
	i   int
}

var (
	_ starlark.Value     = (*Row)(nil)
	_ starlark.Indexable = (*Row)(nil)
	_ starlark.Mapping   = (*Row)(nil)
)

func (it *Row) String() string {
	cells := make([]string, len(it.tbl.cols))
	for ci := range it.tbl.cols {
		cells[ci] = refx.AsString(it.tbl.rows[it.i][ci])
	}
	return "(" + strings.Join(cells, ", ") + ")"
}

func (it *Row) Type() string { return "row" }
func (it *Row) Freeze() {}
func (it *Row) Truth() starlark.Bool { return true }
func (it *Row) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: row") }
func (it *Row) Len() int { return len(it.tbl.cols) }

func (it *Row) Index(ci int) starlark.Value {
	return cellValue(it.tbl.rows[it.i][ci])
}

// Get serves both row["col"] and row[0], for the same dispatch reason
// as [Table.Get].
func (it *Row) Get(key starlark.Value) (starlark.Value, bool, error) {
	if ci, isInt, err := indexKey(key, it.Len()); isInt {
		if err != nil {
			return nil, false, err
		}
		return it.Index(ci), true, nil
	}
	name, ok := starlark.AsString(key)
	if !ok {
		return nil, false, fmt.Errorf("row key must be a column name or index, got %s", key.Type())
	}
	ci := it.tbl.ColIndex(name)
	if ci < 0 {
		return nil, false, nil
	}
	return cellValue(it.tbl.rows[it.i][ci]), true, nil
}

// indexKey resolves an integer key against a length with list
// semantics: negative values count from the end, out-of-range errors.
// isInt is false for non-integer keys.
func indexKey(key starlark.Value, n int) (i int, isInt bool, err error) {
	idx, ok := key.(starlark.Int)
	if !ok {
		return 0, false, nil
	}
	i, err = starlark.AsInt32(idx)
	if err != nil {
		return 0, true, err
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, true, fmt.Errorf("index %d out of range [0:%d)", i, n)
	}
	return i, true, nil
}

func cellValue(val any) starlark.Value {
	switch v := val.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(v)
	case int:
		return starlark.MakeInt(v)
	case int32:
		return starlark.MakeInt64(int64(v))
	case int64:
		return starlark.MakeInt64(v)
	case uint64:
		return starlark.MakeUint64(v)
	case float32:
		return starlark.Float(float64(v))
	case float64:
		return starlark.Float(v)
	case string:
		return starlark.String(v)
	default:
		return starlark.String(refx.AsString(val))
	}
}
