package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/zjrosen/diagdash/internal/log"
)

// LoadFile loads a dataset from a file, dispatching on extension.
// Supported: .csv, .json.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a user-supplied data file
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	var ds *Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		ds, err = LoadCSV(f)
	case ".json":
		ds, err = LoadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	log.Info(log.CatData, "Loaded dataset", "path", path, "rows", ds.Len(), "cols", len(ds.Columns()))
	return ds, nil
}

// LoadCSV reads a CSV stream. The first record is the header; cells are
// sniffed to float64 where they parse as numbers, and empty cells become
// nulls.
func LoadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var rows [][]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv record: %w", err)
		}
		row := make([]any, len(record))
		for i, cell := range record {
			row[i] = sniffCell(cell)
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// LoadJSON reads a JSON array of flat objects. Column order is the sorted
// union of keys, since JSON objects carry no field order of their own.
func LoadJSON(r io.Reader) (*Dataset, error) {
	var records []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	colSet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			colSet[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(colSet))
	for k := range colSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = normalizeJSON(rec[col])
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// sniffCell converts a raw CSV cell into a typed value.
func sniffCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	// "Inf" and "NaN" parse too; keep them numeric so range checks see them
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}

// normalizeJSON flattens decoded JSON values into dataset cell types.
// Nested objects and arrays are rendered as their JSON text.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case nil, float64, string, bool:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
