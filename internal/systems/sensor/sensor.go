// Package sensor bundles diagnostics for IoT/environmental sensor data:
// time series, battery health, and reading validity checks.
package sensor

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
const Name = "sensor_monitoring"

// Battery thresholds in percent.
const (
	lowBattery      = 20.0
	criticalBattery = 10.0
)

// Expected temperature range.
const (
	minTemperature = -10.0
	maxTemperature = 50.0
)

// Register wires the sensor monitoring system into the registry.
func Register(reg *diag.Registry) error {
	if err := reg.AddSystem(Name, "IoT sensor monitoring diagnostics", "0.1.0"); err != nil {
		return err
	}

	if err := reg.AddTest(Name, "check_not_empty", "Verify sensor data is not empty", checkNotEmpty); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_missing_readings", "Check for missing sensor readings", checkMissingReadings); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_battery_health", "Flag sensors with low battery levels", checkBatteryHealth); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_temperature_range", "Validate temperature readings are within expected range", checkTemperatureRange); err != nil {
		return err
	}
	if err := reg.AddTest(Name, "check_sensor_status", "Check for sensors in warning or critical status", checkSensorStatus); err != nil {
		return err
	}

	if err := reg.AddPlot(Name, "temperature_timeseries", "Temperature over time per sensor", temperatureTimeseries); err != nil {
		return err
	}
	if err := reg.AddPlot(Name, "battery_levels", "Battery level per sensor over time", batteryLevels); err != nil {
		return err
	}
	if err := reg.AddPlot(Name, "correlation_matrix", "Pairwise correlation of numeric columns", correlationMatrix); err != nil {
		return err
	}
	if err := reg.AddPlot(Name, "status_breakdown", "Bar chart of sensor status counts", statusBreakdown); err != nil {
		return err
	}

	return reg.AddReport(Name, "sensor_health_report", "Full health report across all sensors", healthReport)
}

func checkNotEmpty(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	if ds.Len() == 0 {
		return diag.NewResult("check_not_empty", diag.StatusFail, "No data found."), nil
	}
	shape := ds.Shape()
	return diag.NewResult("check_not_empty", diag.StatusPass,
		fmt.Sprintf("Dataset has %d rows and %d columns.", shape.Rows, shape.Cols)).
		WithDetails(map[string]any{"rows": shape.Rows, "columns": ds.Columns()}), nil
}

func checkMissingReadings(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	nulls := ds.NullCounts()
	total := 0
	for _, n := range nulls {
		total += n
	}
	if total == 0 {
		return diag.NewResult("check_missing_readings", diag.StatusPass, "No missing readings."), nil
	}

	shape := ds.Shape()
	cells := shape.Rows * shape.Cols
	pct := 0.0
	if cells > 0 {
		pct = float64(total) / float64(cells) * 100
	}
	status := diag.StatusFail
	if pct < 5 {
		status = diag.StatusWarning
	}
	return diag.NewResult("check_missing_readings", status,
		fmt.Sprintf("%d missing values (%.1f%% of all cells) across %d column(s).", total, pct, len(nulls))).
		WithDetails(map[string]any{
			"missing_by_column": nulls,
			"total_missing":     total,
			"percent_missing":   math.Round(pct*100) / 100,
		}), nil
}

func checkBatteryHealth(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	if !ds.HasColumn("battery_level") {
		return diag.NewResult("check_battery_health", diag.StatusWarning, "No battery_level column found."), nil
	}

	_, latest := latestBatteryPerSensor(ds)
	critical := map[string]any{}
	low := map[string]any{}
	for sensor, level := range latest {
		switch {
		case level < criticalBattery:
			critical[sensor] = level
		case level < lowBattery:
			low[sensor] = level
		}
	}

	if len(critical) > 0 {
		return diag.NewResult("check_battery_health", diag.StatusFail,
			fmt.Sprintf("%d sensor(s) at CRITICAL battery level (<%.0f%%).", len(critical), criticalBattery)).
			WithDetails(map[string]any{"critical_sensors": critical, "low_sensors": low}), nil
	}
	if len(low) > 0 {
		return diag.NewResult("check_battery_health", diag.StatusWarning,
			fmt.Sprintf("%d sensor(s) with low battery (<%.0f%%).", len(low), lowBattery)).
			WithDetails(map[string]any{"low_sensors": low}), nil
	}
	return diag.NewResult("check_battery_health", diag.StatusPass, "All sensors have healthy battery levels."), nil
}

func checkTemperatureRange(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	if !ds.HasColumn("temperature") {
		return diag.NewResult("check_temperature_range", diag.StatusWarning, "No temperature column found."), nil
	}

	temps := dropNaN(ds.Floats("temperature"))
	if len(temps) == 0 {
		return diag.NewResult("check_temperature_range", diag.StatusWarning, "No temperature readings to check."), nil
	}

	outOfRange := 0
	for _, v := range temps {
		if v < minTemperature || v > maxTemperature {
			outOfRange++
		}
	}
	lo, hi := minMax(temps)

	if outOfRange > 0 {
		return diag.NewResult("check_temperature_range", diag.StatusFail,
			fmt.Sprintf("%d readings outside expected range [%.0f, %.0f].", outOfRange, minTemperature, maxTemperature)).
			WithDetails(map[string]any{
				"out_of_range_count": outOfRange,
				"min_observed":       lo,
				"max_observed":       hi,
			}), nil
	}
	return diag.NewResult("check_temperature_range", diag.StatusPass,
		fmt.Sprintf("All %d temperature readings within [%.0f, %.0f]. Range: %.1f to %.1f.",
			len(temps), minTemperature, maxTemperature, lo, hi)).
		WithDetails(map[string]any{"min": lo, "max": hi, "mean": mean(temps)}), nil
}

func checkSensorStatus(ctx context.Context, ds *dataset.Dataset) (diag.Result, error) {
	if !ds.HasColumn("status") {
		return diag.NewResult("check_sensor_status", diag.StatusWarning, "No status column found."), nil
	}

	order, counts := statusCounts(ds)
	breakdown := make(map[string]any, len(order))
	for _, s := range order {
		breakdown[s] = counts[s]
	}
	criticalCount := counts["critical"]
	warningCount := counts["warning"]

	if criticalCount > 0 {
		return diag.NewResult("check_sensor_status", diag.StatusFail,
			fmt.Sprintf("%d readings in 'critical' status, %d in 'warning'.", criticalCount, warningCount)).
			WithDetails(map[string]any{"status_breakdown": breakdown}), nil
	}
	if warningCount > 0 {
		return diag.NewResult("check_sensor_status", diag.StatusWarning,
			fmt.Sprintf("%d readings in 'warning' status.", warningCount)).
			WithDetails(map[string]any{"status_breakdown": breakdown}), nil
	}
	return diag.NewResult("check_sensor_status", diag.StatusPass, "All sensors reporting normal status.").
		WithDetails(map[string]any{"status_breakdown": breakdown}), nil
}

func temperatureTimeseries(ds *dataset.Dataset) (*plot.Figure, error) {
	if !ds.HasColumn("temperature") {
		return plot.NewNote("Temperature Over Time", "Requires 'temperature' column"), nil
	}
	return plot.NewLineChart("Temperature Over Time", perSensorSeries(ds, "temperature")...), nil
}

func batteryLevels(ds *dataset.Dataset) (*plot.Figure, error) {
	if !ds.HasColumn("battery_level") {
		return plot.NewNote("Battery Level Over Time", "Requires 'battery_level' column"), nil
	}
	return plot.NewLineChart("Battery Level Over Time (%)", perSensorSeries(ds, "battery_level")...), nil
}

func correlationMatrix(ds *dataset.Dataset) (*plot.Figure, error) {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return plot.NewNote("Correlation Matrix", "Requires at least two numeric columns"), nil
	}

	var labels []string
	var values []float64
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, ok := pearson(ds.Floats(numeric[i]), ds.Floats(numeric[j]))
			if !ok {
				continue
			}
			labels = append(labels, numeric[i]+" ~ "+numeric[j])
			values = append(values, math.Round(r*100)/100)
		}
	}
	if len(labels) == 0 {
		return plot.NewNote("Correlation Matrix", "Not enough overlapping readings to correlate"), nil
	}
	return plot.NewBarChart("Correlation Matrix", labels, values), nil
}

func statusBreakdown(ds *dataset.Dataset) (*plot.Figure, error) {
	if !ds.HasColumn("status") {
		return plot.NewNote("Sensor Status Breakdown", "Requires 'status' column"), nil
	}
	order, counts := statusCounts(ds)
	values := make([]float64, len(order))
	for i, s := range order {
		values[i] = float64(counts[s])
	}
	return plot.NewBarChart("Sensor Status Breakdown", order, values), nil
}

func healthReport(ds *dataset.Dataset) (string, error) {
	var b strings.Builder
	b.WriteString("# Sensor Health Report\n\n")
	b.WriteString(fmt.Sprintf("**Total readings:** %d\n", ds.Len()))

	sensors, latest := latestBatteryPerSensor(ds)
	if ds.HasColumn("sensor_id") {
		ids := uniqueSorted(ds.Strings("sensor_id"))
		b.WriteString(fmt.Sprintf("**Unique sensors:** %d\n", len(ids)))
		b.WriteString(fmt.Sprintf("**Sensors:** %s\n", strings.Join(ids, ", ")))
	}
	b.WriteString("\n")

	b.WriteString("## Data Completeness\n")
	nulls := ds.NullCounts()
	if len(nulls) == 0 {
		b.WriteString("All readings complete - no missing values.\n")
	} else {
		total := 0
		for _, n := range nulls {
			total += n
		}
		b.WriteString(fmt.Sprintf("**%d missing values** detected:\n", total))
		cols := make([]string, 0, len(nulls))
		for col := range nulls {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			pct := float64(nulls[col]) / float64(ds.Len()) * 100
			b.WriteString(fmt.Sprintf("- %s: %d missing (%.1f%%)\n", col, nulls[col], pct))
		}
	}
	b.WriteString("\n")

	if ds.HasColumn("battery_level") && ds.HasColumn("sensor_id") {
		b.WriteString("## Battery Status\n")
		for _, sensor := range sensors {
			level, ok := latest[sensor]
			if !ok {
				b.WriteString(fmt.Sprintf("- **%s**: N/A [unknown]\n", sensor))
				continue
			}
			label := "OK"
			switch {
			case level < criticalBattery:
				label = "CRITICAL"
			case level < lowBattery:
				label = "LOW"
			}
			b.WriteString(fmt.Sprintf("- **%s**: %.1f%% [%s]\n", sensor, level, label))
		}
		b.WriteString("\n")
	}

	if ds.HasColumn("temperature") {
		temps := dropNaN(ds.Floats("temperature"))
		if len(temps) > 0 {
			lo, hi := minMax(temps)
			b.WriteString("## Temperature Summary\n")
			b.WriteString(fmt.Sprintf("- Min: %.1f\n", lo))
			b.WriteString(fmt.Sprintf("- Max: %.1f\n", hi))
			b.WriteString(fmt.Sprintf("- Mean: %.1f\n", mean(temps)))
			b.WriteString(fmt.Sprintf("- Std Dev: %.1f\n", stddev(temps)))
			b.WriteString("\n")
		}
	}

	if ds.HasColumn("status") {
		b.WriteString("## Status Summary\n")
		order, counts := statusCounts(ds)
		for _, s := range order {
			pct := float64(counts[s]) / float64(ds.Len()) * 100
			b.WriteString(fmt.Sprintf("- **%s**: %d readings (%.0f%%)\n", s, counts[s], pct))
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// latestBatteryPerSensor returns sensor ids in first-seen order and the
// last non-null battery reading for each. Without a sensor_id column all
// readings are attributed to "unknown".
func latestBatteryPerSensor(ds *dataset.Dataset) ([]string, map[string]float64) {
	latest := make(map[string]float64)
	var order []string
	if !ds.HasColumn("battery_level") {
		return order, latest
	}

	hasID := ds.HasColumn("sensor_id")
	levels := ds.Floats("battery_level")
	ids := ds.Strings("sensor_id")
	for i := 0; i < ds.Len(); i++ {
		sensor := "unknown"
		if hasID && ids[i] != "" {
			sensor = ids[i]
		}
		if _, seen := latest[sensor]; !seen {
			order = append(order, sensor)
			latest[sensor] = math.NaN()
		}
		if !math.IsNaN(levels[i]) {
			latest[sensor] = levels[i]
		}
	}
	// Sensors that never reported a level drop out of the map
	for sensor, level := range latest {
		if math.IsNaN(level) {
			delete(latest, sensor)
		}
	}
	return order, latest
}

// perSensorSeries splits a numeric column into one series per sensor id,
// or a single series when no sensor_id column exists.
func perSensorSeries(ds *dataset.Dataset, col string) []plot.Series {
	values := ds.Floats(col)
	if !ds.HasColumn("sensor_id") {
		return []plot.Series{{Name: col, Values: values}}
	}

	ids := ds.Strings("sensor_id")
	grouped := make(map[string][]float64)
	var order []string
	for i, id := range ids {
		if id == "" {
			id = "unknown"
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], values[i])
	}

	series := make([]plot.Series, len(order))
	for i, id := range order {
		series[i] = plot.Series{Name: id, Values: grouped[id]}
	}
	return series
}

// statusCounts tallies the status column, preserving first-seen order.
func statusCounts(ds *dataset.Dataset) ([]string, map[string]int) {
	counts := make(map[string]int)
	var order []string
	for _, s := range ds.Strings("status") {
		if s == "" {
			continue
		}
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}
	return order, counts
}

// pearson correlates x and y over rows where both have a value. Returns
// false when fewer than two such rows exist or either side is constant.
func pearson(x, y []float64) (float64, bool) {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return 0, false
	}

	mx, my := mean(xs), mean(ys)
	var num, dx, dy float64
	for i := range xs {
		num += (xs[i] - mx) * (ys[i] - my)
		dx += (xs[i] - mx) * (xs[i] - mx)
		dy += (ys[i] - my) * (ys[i] - my)
	}
	if dx == 0 || dy == 0 {
		return 0, false
	}
	return num / math.Sqrt(dx*dy), true
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
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

func uniqueSorted(values []string) []string {
	set := make(map[string]struct{})
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
