package models

import "time"

// DateLayout is the calendar date format used on every surface.
const DateLayout = "2006-01-02"

// Prediction is one forecast day: the point estimate and its interval.
type Prediction struct {
	Date      time.Time `json:"ds"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// RawSeries is a chronologically ordered forecast, one entry per day.
type RawSeries []Prediction

// Values returns the point estimates.
func (s RawSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Yhat
	}
	return out
}

// Bounds returns the lower and upper interval bounds.
func (s RawSeries) Bounds() (lower, upper []float64) {
	lower = make([]float64, len(s))
	upper = make([]float64, len(s))
	for i, p := range s {
		lower[i] = p.YhatLower
		upper[i] = p.YhatUpper
	}
	return lower, upper
}

// IntervalViolations returns the indexes where the point estimate lies
// outside its own interval. Model output is trusted, so this is informational.
func (s RawSeries) IntervalViolations() []int {
	var idx []int
	for i, p := range s {
		if p.YhatLower > p.Yhat || p.Yhat > p.YhatUpper {
			idx = append(idx, i)
		}
	}
	return idx
}

// SummaryStats aggregates the point estimates of a series.
type SummaryStats struct {
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Days  int     `json:"days"`
}

// DisplayRow is one day of the daily table, rounded for display.
type DisplayRow struct {
	Date       string  `json:"date"`
	Weekday    string  `json:"weekday"`
	Prediction float64 `json:"prediction"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
}

// WeekRollup aggregates the forecast days falling in one ISO week.
type WeekRollup struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
	Total float64   `json:"total"`
	Mean  float64   `json:"mean"`
}

// ExportTable is the flat, string-only table written to CSV.
type ExportTable struct {
	Header []string
	Rows   [][]string
}
