// Package plot renders diagnostic figures as styled terminal output.
// A Figure is the opaque plot object produced by registered plot
// functions; the dashboard and CLI render it with Render.
package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// sparks are the block glyphs used for line series, lowest to highest.
var sparks = []rune("▁▂▃▄▅▆▇█")

// palette cycles across series and bars.
var palette = []lipgloss.Color{
	"#00BFFF", // blue
	"#00FF87", // green
	"#FFD700", // gold
	"#FF6B6B", // red
	"#C792EA", // purple
	"#FF9E64", // orange
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Italic(true)
)

type kind int

const (
	kindLine kind = iota
	kindBar
	kindHistogram
	kindNote
	kindGrid
)

// Series is one named sequence of values in a line chart.
// NaN entries are treated as gaps.
type Series struct {
	Name   string
	Values []float64
}

// Figure is a terminal-renderable chart.
type Figure struct {
	title  string
	kind   kind
	series []Series
	labels []string
	values []float64
	bins   int
	note   string
	subs   []*Figure
}

// NewLineChart creates a figure drawing one sparkline row per series.
func NewLineChart(title string, series ...Series) *Figure {
	return &Figure{title: title, kind: kindLine, series: series}
}

// NewBarChart creates a figure with one horizontal bar per label.
// labels and values must have equal length.
func NewBarChart(title string, labels []string, values []float64) *Figure {
	return &Figure{title: title, kind: kindBar, labels: labels, values: values}
}

// NewHistogram creates a figure bucketing values into bins and drawing
// the counts as horizontal bars. NaN values are excluded.
func NewHistogram(title string, values []float64, bins int) *Figure {
	if bins < 1 {
		bins = 10
	}
	return &Figure{title: title, kind: kindHistogram, values: values, bins: bins}
}

// NewNote creates a figure that renders a single message instead of a
// chart, used when the dataset lacks the columns a plot needs.
func NewNote(title, message string) *Figure {
	return &Figure{title: title, kind: kindNote, note: message}
}

// NewGrid creates a composite figure stacking sub-figures vertically,
// each rendered with its own title at the full width.
func NewGrid(title string, figures ...*Figure) *Figure {
	return &Figure{title: title, kind: kindGrid, subs: figures}
}

// Title returns the figure title.
func (f *Figure) Title() string {
	return f.title
}

// Render draws the figure into a string no wider than width columns.
func (f *Figure) Render(width int) string {
	if width < 20 {
		width = 20
	}

	var body string
	switch f.kind {
	case kindLine:
		body = f.renderLine(width)
	case kindBar:
		body = f.renderBars(width, f.labels, f.values)
	case kindHistogram:
		body = f.renderHistogram(width)
	case kindNote:
		body = noteStyle.Render(f.note)
	case kindGrid:
		body = f.renderGrid(width)
	}

	return titleStyle.Render(f.title) + "\n" + body
}

func (f *Figure) renderLine(width int) string {
	if len(f.series) == 0 {
		return noteStyle.Render("no series to plot")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range f.series {
		for _, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return noteStyle.Render("no numeric values to plot")
	}

	nameWidth := 0
	for _, s := range f.series {
		if w := runewidth.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}
	plotWidth := width - nameWidth - 2
	if plotWidth < 8 {
		plotWidth = 8
	}

	var b strings.Builder
	for i, s := range f.series {
		color := palette[i%len(palette)]
		line := sparkline(resample(s.Values, plotWidth), lo, hi)
		b.WriteString(runewidth.FillRight(s.Name, nameWidth))
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(line))
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("min %.2f  max %.2f  n=%d", lo, hi, seriesLen(f.series))))
	return b.String()
}

func (f *Figure) renderBars(width int, labels []string, values []float64) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return noteStyle.Render("nothing to plot")
	}

	maxVal := 0.0
	labelWidth := 0
	for i, label := range labels {
		if w := runewidth.StringWidth(label); w > labelWidth {
			labelWidth = w
		}
		if !math.IsNaN(values[i]) && values[i] > maxVal {
			maxVal = values[i]
		}
	}
	barWidth := width - labelWidth - 12
	if barWidth < 8 {
		barWidth = 8
	}

	var b strings.Builder
	for i, label := range labels {
		v := values[i]
		if math.IsNaN(v) {
			v = 0
		}
		n := 0
		if maxVal > 0 {
			n = int(math.Round(v / maxVal * float64(barWidth)))
		}
		if v > 0 && n == 0 {
			n = 1
		}
		color := palette[i%len(palette)]
		b.WriteString(runewidth.FillRight(label, labelWidth))
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n)))
		b.WriteString(axisStyle.Render(fmt.Sprintf(" %g", values[i])))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Figure) renderGrid(width int) string {
	if len(f.subs) == 0 {
		return noteStyle.Render("nothing to plot")
	}
	parts := make([]string, len(f.subs))
	for i, sub := range f.subs {
		parts[i] = sub.Render(width)
	}
	return strings.Join(parts, "\n\n")
}

func (f *Figure) renderHistogram(width int) string {
	clean := make([]float64, 0, len(f.values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range f.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(clean) == 0 {
		return noteStyle.Render("no numeric values to plot")
	}
	if lo == hi {
		hi = lo + 1
	}

	counts := make([]float64, f.bins)
	labels := make([]string, f.bins)
	step := (hi - lo) / float64(f.bins)
	for _, v := range clean {
		i := int((v - lo) / step)
		if i >= f.bins {
			i = f.bins - 1
		}
		counts[i]++
	}
	for i := range labels {
		labels[i] = fmt.Sprintf("%.4g–%.4g", lo+float64(i)*step, lo+float64(i+1)*step)
	}
	return f.renderBars(width, labels, counts)
}

// sparkline maps values onto block glyphs scaled between lo and hi.
func sparkline(values []float64, lo, hi float64) string {
	span := hi - lo
	var b strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		level := 0
		if span > 0 {
			level = int((v - lo) / span * float64(len(sparks)-1))
		}
		if level < 0 {
			level = 0
		}
		if level >= len(sparks) {
			level = len(sparks) - 1
		}
		b.WriteRune(sparks[level])
	}
	return b.String()
}

// resample squeezes or pads values to exactly n points by averaging
// buckets, so long series still fit the terminal width.
func resample(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := (i + 1) * len(values) / n
		if end <= start {
			end = start + 1
		}
		sum, count := 0.0, 0
		for _, v := range values[start:end] {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

func seriesLen(series []Series) int {
	n := 0
	for _, s := range series {
		n += len(s.Values)
	}
	return n
}
