// Package dataset provides the tabular input value passed to diagnostic
// tests, plots, and reports. A Dataset is immutable after construction:
// named columns over rows of loosely typed cells (float64, string, bool,
// or nil for missing values).
package dataset

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
)

// Shape describes the dimensions of a dataset.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

func (s Shape) String() string {
	return fmt.Sprintf("%d rows x %d columns", s.Rows, s.Cols)
}

// Dataset is an ordered collection of named columns over rows.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates a dataset from column names and row cells.
// Every row must have exactly len(columns) cells.
func New(columns []string, rows [][]any) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, exists := index[col]; exists {
			return nil, fmt.Errorf("duplicate column name %q", col)
		}
		index[col] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return &Dataset{columns: columns, index: index, rows: rows}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Shape returns the dataset dimensions.
func (d *Dataset) Shape() Shape {
	return Shape{Rows: len(d.rows), Cols: len(d.columns)}
}

// Value returns the cell at (row, col). The second return value is false
// when the row is out of range or the column does not exist.
func (d *Dataset) Value(row int, col string) (any, bool) {
	i, ok := d.index[col]
	if !ok || row < 0 || row >= len(d.rows) {
		return nil, false
	}
	return d.rows[row][i], true
}

// IsNull reports whether the cell at (row, col) is missing.
// Out-of-range cells count as missing.
func (d *Dataset) IsNull(row int, col string) bool {
	v, ok := d.Value(row, col)
	return !ok || v == nil
}

// Floats returns the named column coerced to float64, one entry per row.
// Missing and non-numeric cells become NaN. Returns nil if the column
// does not exist.
func (d *Dataset) Floats(col string) []float64 {
	i, ok := d.index[col]
	if !ok {
		return nil
	}
	out := make([]float64, len(d.rows))
	for r, row := range d.rows {
		f, ok := asFloat(row[i])
		if !ok {
			out[r] = math.NaN()
			continue
		}
		out[r] = f
	}
	return out
}

// Strings returns the named column rendered as strings, one entry per row
// with "" for missing cells. Returns nil if the column does not exist.
func (d *Dataset) Strings(col string) []string {
	i, ok := d.index[col]
	if !ok {
		return nil
	}
	out := make([]string, len(d.rows))
	for r, row := range d.rows {
		out[r] = asString(row[i])
	}
	return out
}

// NumericColumns returns the names of columns whose non-null cells are all
// numeric, preserving column order. Columns with no non-null cells are
// excluded.
func (d *Dataset) NumericColumns() []string {
	var numeric []string
	for _, col := range d.columns {
		i := d.index[col]
		seen := false
		ok := true
		for _, row := range d.rows {
			if row[i] == nil {
				continue
			}
			seen = true
			if _, isNum := asFloat(row[i]); !isNum {
				ok = false
				break
			}
		}
		if seen && ok {
			numeric = append(numeric, col)
		}
	}
	return numeric
}

// NullCounts returns the number of missing cells per column.
// Columns without missing cells are omitted.
func (d *Dataset) NullCounts() map[string]int {
	counts := make(map[string]int)
	for _, col := range d.columns {
		i := d.index[col]
		n := 0
		for _, row := range d.rows {
			if row[i] == nil {
				n++
			}
		}
		if n > 0 {
			counts[col] = n
		}
	}
	return counts
}

// Fingerprint returns a stable hash of the dataset contents, used for
// cache keying. Two datasets with identical columns and cells share a
// fingerprint.
func (d *Dataset) Fingerprint() string {
	h := fnv.New64a()
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	sort.Strings(cols)
	for _, col := range cols {
		fmt.Fprintf(h, "%s;", col)
		i := d.index[col]
		for _, row := range d.rows {
			fmt.Fprintf(h, "%v,", row[i])
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// asFloat coerces a cell to float64. Bools are excluded: they render as
// strings in reports and should not leak into numeric summaries.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
