// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

func clampChart(width, height int) (int, int) {
	return max(width, minChartWidth), max(height, minChartHeight)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampChart(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	)
}

// RenderForecastChart plots the estimate of each day between its lower and
// upper bound.
func RenderForecastChart(series models.RawSeries, width, height int) string {
	if len(series) == 0 {
		return styles.HelpStyle.Render("No forecast yet")
	}
	width, height = clampChart(width, height)

	lower, upper := series.Bounds()
	caption := fmt.Sprintf("%s to %s",
		series[0].Date.Format(models.DateLayout),
		series[len(series)-1].Date.Format(models.DateLayout))

	// A single point cannot be drawn as a line.
	yhat := series.Values()
	if len(yhat) == 1 {
		yhat = append(yhat, yhat[0])
		lower = append(lower, lower[0])
		upper = append(upper, upper[0])
	}

	graph := asciigraph.PlotMany([][]float64{lower, yhat, upper},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Gray,
			asciigraph.Blue,
			asciigraph.Gray,
		),
	)

	legend := RenderLegend([]LegendItem{
		{Label: "Prediction", Color: styles.Forecast},
		{Label: "Range", Color: styles.Interval},
	})
	return graph + "\n" + legend
}

// RenderHistoryChart plots daily demand of a product's history.
func RenderHistoryChart(obs []models.Observation, width, height int) string {
	if len(obs) == 0 {
		return styles.HelpStyle.Render("No history available")
	}

	data := make([]float64, len(obs))
	for i, o := range obs {
		data[i] = o.QtyOut
	}
	caption := fmt.Sprintf("%s to %s",
		obs[0].Date.Format(models.DateLayout),
		obs[len(obs)-1].Date.Format(models.DateLayout))
	return RenderLineChart(data, width, height, caption)
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-14, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Forecast).Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, localize.Number(v, 0)))
	}

	return strings.Join(lines, "\n")
}

// WeekdayNames are the short day names in ISO order, Monday first.
var WeekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayMeans averages the demand of each weekday, Monday first.
func WeekdayMeans(obs []models.Observation) []float64 {
	sums := make([]float64, 7)
	counts := make([]int, 7)
	for _, o := range obs {
		i := (int(o.Date.Weekday()) + 6) % 7
		sums[i] += o.QtyOut
		counts[i]++
	}
	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}
	return sums
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func sparkIndex(v, maxVal float64) int {
	if maxVal <= 0 {
		return 0
	}
	return min(max(int((v/maxVal)*float64(len(sparkChars)-1)), 0), len(sparkChars)-1)
}

// RenderWeeklyPattern creates a weekday demand visualization.
func RenderWeeklyPattern(patterns []float64, dayNames []string) string {
	if len(patterns) != 7 {
		padded := make([]float64, 7)
		copy(padded, patterns)
		patterns = padded
	}
	if len(dayNames) != 7 {
		dayNames = WeekdayNames
	}

	maxVal := 0.0
	for _, v := range patterns {
		maxVal = max(maxVal, v)
	}

	parts := make([]string, 0, 7)
	for i, v := range patterns {
		parts = append(parts, fmt.Sprintf("%s %s", dayNames[i], string(sparkChars[sparkIndex(v, maxVal)])))
	}
	return strings.Join(parts, " ")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		result.WriteRune(sparkChars[sparkIndex(values[int(float64(i)*step)], maxVal)])
	}
	return result.String()
}

// RecentValues returns the demand of the observations within days of the
// last one.
func RecentValues(obs []models.Observation, days int) []float64 {
	if len(obs) == 0 {
		return nil
	}
	cutoff := obs[len(obs)-1].Date.Add(-time.Duration(days-1) * 24 * time.Hour)

	var out []float64
	for _, o := range obs {
		if !o.Date.Before(cutoff) {
			out = append(out, o.QtyOut)
		}
	}
	return out
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
