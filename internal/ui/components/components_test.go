package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC)
}

func TestSpinner(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Forecasting")
	if s.Label() != "Forecasting" {
		t.Errorf("Label = %s, want Forecasting", s.Label())
	}
	if !strings.Contains(s.View(), "Forecasting") {
		t.Error("View should include the label")
	}
	if s.Tick() == nil {
		t.Error("Tick should return command")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
	if RenderSpinnerCentered(s, 30, 5) == "" {
		t.Error("RenderSpinnerCentered returned empty")
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart(nil, 20, 5, "x"); !strings.Contains(s, "No data") {
		t.Errorf("empty chart = %q", s)
	}
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Test"); !strings.Contains(s, "Test") {
		t.Error("chart should include its caption")
	}
}

func TestRenderForecastChart(t *testing.T) {
	if s := RenderForecastChart(nil, 40, 8); !strings.Contains(s, "No forecast") {
		t.Errorf("empty chart = %q", s)
	}

	series := models.RawSeries{
		{Date: day(1), Yhat: 10, YhatLower: 8, YhatUpper: 12},
		{Date: day(2), Yhat: 20, YhatLower: 15, YhatUpper: 25},
		{Date: day(3), Yhat: 15, YhatLower: 11, YhatUpper: 19},
	}
	s := RenderForecastChart(series, 40, 8)
	if !strings.Contains(s, "2025-12-01 to 2025-12-03") {
		t.Error("chart should caption its date range")
	}
	if !strings.Contains(s, "Prediction") {
		t.Error("chart should include the legend")
	}

	single := RenderForecastChart(series[:1], 40, 8)
	if !strings.Contains(single, "2025-12-01 to 2025-12-01") {
		t.Error("single day chart should render")
	}
}

func TestRenderHistoryChart(t *testing.T) {
	if s := RenderHistoryChart(nil, 40, 8); !strings.Contains(s, "No history") {
		t.Errorf("empty chart = %q", s)
	}
	obs := []models.Observation{{Date: day(1), QtyOut: 3}, {Date: day(2), QtyOut: 5}}
	if s := RenderHistoryChart(obs, 40, 8); !strings.Contains(s, "2025-12-01 to 2025-12-02") {
		t.Error("chart should caption its date range")
	}
}

func TestRenderBarChart(t *testing.T) {
	if RenderBarChart(nil, nil, 20) != "" {
		t.Error("empty bar chart should render nothing")
	}
	s := RenderBarChart([]float64{1234, 20}, []string{"W1", "W2"}, 40)
	if !strings.Contains(s, "1.234") {
		t.Errorf("bar chart should use localized values, got %q", s)
	}
	if strings.Count(s, "\n") != 1 {
		t.Error("bar chart should have one line per value")
	}
}

func TestWeekdayMeans(t *testing.T) {
	// 2025-12-01 is a Monday.
	obs := []models.Observation{
		{Date: day(1), QtyOut: 10},
		{Date: day(8), QtyOut: 20},
		{Date: day(7), QtyOut: 7},
	}
	means := WeekdayMeans(obs)
	if means[0] != 15 {
		t.Errorf("Monday mean = %v, want 15", means[0])
	}
	if means[6] != 7 {
		t.Errorf("Sunday mean = %v, want 7", means[6])
	}
	if means[3] != 0 {
		t.Errorf("Thursday mean = %v, want 0", means[3])
	}

	if s := RenderWeeklyPattern(means, nil); !strings.HasPrefix(s, "Mon") {
		t.Errorf("pattern should start on Monday, got %q", s)
	}
}

func TestRenderSparkline(t *testing.T) {
	if RenderSparkline(nil, 10) != "" {
		t.Error("empty sparkline should render nothing")
	}
	s := RenderSparkline([]float64{0, 4, 8}, 10)
	if []rune(s)[0] != '▁' || []rune(s)[2] != '█' {
		t.Errorf("sparkline = %q", s)
	}
}

func TestRecentValues(t *testing.T) {
	obs := []models.Observation{
		{Date: day(1), QtyOut: 1},
		{Date: day(5), QtyOut: 5},
		{Date: day(10), QtyOut: 10},
	}
	got := RecentValues(obs, 6)
	if len(got) != 2 || got[0] != 5 || got[1] != 10 {
		t.Errorf("RecentValues = %v, want [5 10]", got)
	}
	if RecentValues(nil, 6) != nil {
		t.Error("RecentValues(nil) should be nil")
	}
}

func TestRenderLegend(t *testing.T) {
	s := RenderLegend([]LegendItem{{Label: "A", Color: lipgloss.Color("#ffffff")}})
	if !strings.Contains(s, "A") {
		t.Error("legend should include the label")
	}
}
