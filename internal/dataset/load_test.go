package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	input := `sensor_id,temperature,battery_level
s-1,21.5,87
s-2,48.2,
s-3,,9.5
`
	ds, err := LoadCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Equal(t, []string{"sensor_id", "temperature", "battery_level"}, ds.Columns())
	require.Equal(t, 3, ds.Len())

	// Numeric cells are sniffed to float64
	v, ok := ds.Value(0, "temperature")
	require.True(t, ok)
	require.Equal(t, 21.5, v)

	// Empty cells become nulls
	require.True(t, ds.IsNull(1, "battery_level"))
	require.True(t, ds.IsNull(2, "temperature"))

	// Non-numeric cells stay strings
	v, _ = ds.Value(0, "sensor_id")
	require.Equal(t, "s-1", v)
}

func TestLoadCSV_InfStaysNumeric(t *testing.T) {
	ds, err := LoadCSV(strings.NewReader("value\nInf\n-2.5\n"))
	require.NoError(t, err)

	vals := ds.Floats("value")
	require.True(t, math.IsInf(vals[0], 1))
	require.Equal(t, -2.5, vals[1])
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestLoadJSON(t *testing.T) {
	input := `[
		{"sensor_id": "s-1", "temperature": 21.5, "ok": true},
		{"sensor_id": "s-2", "battery_level": 12}
	]`
	ds, err := LoadJSON(strings.NewReader(input))

	require.NoError(t, err)
	// Columns are the sorted union of keys
	require.Equal(t, []string{"battery_level", "ok", "sensor_id", "temperature"}, ds.Columns())
	require.Equal(t, 2, ds.Len())

	// Keys absent from a record are nulls
	require.True(t, ds.IsNull(0, "battery_level"))
	require.True(t, ds.IsNull(1, "temperature"))

	v, _ := ds.Value(1, "battery_level")
	require.Equal(t, float64(12), v)
}

func TestLoadJSON_NestedValuesFlattenToText(t *testing.T) {
	input := `[{"id": "a", "tags": ["x", "y"]}]`
	ds, err := LoadJSON(strings.NewReader(input))
	require.NoError(t, err)

	v, _ := ds.Value(0, "tags")
	require.Equal(t, `["x","y"]`, v)
}

func TestLoadJSON_Invalid(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readings.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	_, err := LoadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
