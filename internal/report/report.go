// Package report derives the display and export artifacts of a forecast.
// Every function here is pure: the same series always yields the same output.
package report

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// ErrEmptySeries is returned when a series has no days to aggregate.
var ErrEmptySeries = errors.New("forecast series is empty")

// WeeklyMinDays is the shortest range that gets a weekly rollup.
const WeeklyMinDays = 7

// Summarize computes total, mean, min and max of the point estimates.
func Summarize(series models.RawSeries) (models.SummaryStats, error) {
	if len(series) == 0 {
		return models.SummaryStats{}, ErrEmptySeries
	}

	vals := series.Values()
	total := floats.Sum(vals)

	return models.SummaryStats{
		Total: total,
		Mean:  total / float64(len(vals)),
		Min:   floats.Min(vals),
		Max:   floats.Max(vals),
		Days:  len(vals),
	}, nil
}

// DailyTable returns one rounded row per forecast day.
func DailyTable(series models.RawSeries) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(series))
	for _, p := range series {
		rows = append(rows, models.DisplayRow{
			Date:       p.Date.Format(models.DateLayout),
			Weekday:    p.Date.Weekday().String(),
			Prediction: localize.Round(p.Yhat, 2),
			Lower:      localize.Round(p.YhatLower, 2),
			Upper:      localize.Round(p.YhatUpper, 2),
		})
	}
	return rows
}

type isoWeek struct {
	year, week int
}

// WeeklyRollup groups the series by ISO week (Monday to Sunday). It returns
// nil for series shorter than WeeklyMinDays. Weeks cut by the range
// boundaries are kept with fewer days.
func WeeklyRollup(series models.RawSeries) []models.WeekRollup {
	if len(series) < WeeklyMinDays {
		return nil
	}

	var (
		out  []models.WeekRollup
		last isoWeek
	)
	for _, p := range series {
		y, w := p.Date.ISOWeek()
		key := isoWeek{y, w}

		if len(out) == 0 || key != last {
			monday := weekStart(p.Date)
			sunday := monday.AddDate(0, 0, 6)
			out = append(out, models.WeekRollup{
				Label: monday.Format(models.DateLayout) + "/" + sunday.Format(models.DateLayout),
				Start: monday,
				End:   sunday,
			})
			last = key
		}

		wk := &out[len(out)-1]
		wk.Days++
		wk.Total += p.Yhat
	}

	for i := range out {
		out[i].Mean = out[i].Total / float64(out[i].Days)
	}
	return out
}

// weekStart returns the Monday of the ISO week containing d.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	y, m, day := d.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}
