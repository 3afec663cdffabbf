// Package generic bundles template diagnostics for arbitrary tabular
// data. Copy this package to build diagnostics for a new system.
package generic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/zjrosen/diagdash/internal/dataset"
	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/plot"
)

// Name is the registry key for this system.
const Name = "generic_example"

// Register wires the generic example system into the registry.
func Register(reg *diag.Registry) error {
	if err := reg.AddSystem(Name, "Generic example system for tabular data", "0.1.0"); err != nil {
		return err
	}

	if err := reg.AddTest(Name, "check_not_empty", "Verify the data is not empty", checkNotEmpty); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_no_nulls", "Check for null or missing values", checkNoNulls); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_numeric_ranges", "Validate numeric columns have finite values", checkNumericRanges); err != nil {
		return err
	}

	if err := reg.AddPlot(Name, "data_overview", "Distribution histograms for numeric columns", dataOverview); err != nil {
		return err
	}
	if err := reg.AddPlot(Name, "null_counts", "Missing values per column", nullCountsPlot); err != nil {
		return err
	}

	return reg.AddReport(Name, "summary_report", "Text summary of the dataset", summaryReport)
}

func checkNotEmpty(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	if ds.Len() == 0 {
		return diag.NewResult("check_not_empty", diag.StatusFail, "Data is empty."), nil
	}
	return diag.NewResult("check_not_empty", diag.StatusPass,
		fmt.Sprintf("Data has %d records.", ds.Len())).
		WithDetails(map[string]any{"record_count": ds.Len()}), nil
}

func checkNoNulls(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	nulls := ds.NullCounts()
	if len(nulls) == 0 {
		return diag.NewResult("check_no_nulls", diag.StatusPass, "No null values found."), nil
	}

	total := 0
	for _, n := range nulls {
		total += n
	}
	status := diag.StatusWarning
	if total >= ds.Len() {
		status = diag.StatusFail
	}
	return diag.NewResult("check_no_nulls", status,
		fmt.Sprintf("Found %d null value(s) across %d column(s).", total, len(nulls))).
		WithDetails(map[string]any{"columns_with_nulls": nulls}), nil
}

func checkNumericRanges(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return diag.NewResult("check_numeric_ranges", diag.StatusWarning, "No numeric columns found to check."), nil
	}

	issues := map[string]any{}
	for _, col := range numeric {
		infCount := 0
		for _, v := range ds.Floats(col) {
			if math.IsInf(v, 0) {
				infCount++
			}
		}
		if infCount > 0 {
			issues[col] = map[string]any{"infinite_values": infCount}
		}
	}

	if len(issues) > 0 {
		return diag.NewResult("check_numeric_ranges", diag.StatusFail,
			fmt.Sprintf("Found infinite values in %d column(s).", len(issues))).
			WithDetails(map[string]any{"columns_with_issues": issues}), nil
	}
	return diag.NewResult("check_numeric_ranges", diag.StatusPass,
		fmt.Sprintf("All %d numeric column(s) have finite values.", len(numeric))).
		WithDetails(map[string]any{"numeric_columns": numeric}), nil
}

func dataOverview(ds *dataset.Dataset) (*plot.Figure, error) {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return plot.NewNote("Numeric Column Distributions", "No numeric columns to plot"), nil
	}
	figures := make([]*plot.Figure, len(numeric))
	for i, col := range numeric {
		figures[i] = plot.NewHistogram(col, ds.Floats(col), 8)
	}
	return plot.NewGrid("Numeric Column Distributions", figures...), nil
}

func nullCountsPlot(ds *dataset.Dataset) (*plot.Figure, error) {
	nulls := ds.NullCounts()
	if len(nulls) == 0 {
		return plot.NewNote("Missing Values", "No null values found"), nil
	}
	labels := make([]string, 0, len(nulls))
	for col := range nulls {
		labels = append(labels, col)
	}
	sort.Strings(labels)
	values := make([]float64, len(labels))
	for i, col := range labels {
		values[i] = float64(nulls[col])
	}
	return plot.NewBarChart("Missing Values per Column", labels, values), nil
}

func summaryReport(ds *dataset.Dataset) (string, error) {
	var b strings.Builder
	shape := ds.Shape()
	b.WriteString("# Data Summary Report\n\n")
	b.WriteString(fmt.Sprintf("**Rows:** %d\n", shape.Rows))
	b.WriteString(fmt.Sprintf("**Columns:** %d\n\n", shape.Cols))

	b.WriteString("## Column Types\n")
	numericSet := make(map[string]struct{})
	for _, col := range ds.NumericColumns() {
		numericSet[col] = struct{}{}
	}
	for _, col := range ds.Columns() {
		kind := "text"
		if _, ok := numericSet[col]; ok {
			kind = "numeric"
		}
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", col, kind))
	}

	b.WriteString("\n## Null Counts\n")
	nulls := ds.NullCounts()
	if len(nulls) == 0 {
		b.WriteString("- No null values found.\n")
	} else {
		cols := make([]string, 0, len(nulls))
		for col := range nulls {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			pct := float64(nulls[col]) / float64(ds.Len()) * 100
			b.WriteString(fmt.Sprintf("- **%s**: %d nulls (%.1f%%)\n", col, nulls[col], pct))
		}
	}

	if numeric := ds.NumericColumns(); len(numeric) > 0 {
		b.WriteString("\n## Numeric Summary\n")
		for _, col := range numeric {
			values := finite(ds.Floats(col))
			if len(values) == 0 {
				continue
			}
			lo, hi := minMax(values)
			b.WriteString(fmt.Sprintf("- **%s**: min=%.4g, max=%.4g, mean=%.4g, std=%.4g\n",
				col, lo, hi, mean(values), stddev(values)))
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
