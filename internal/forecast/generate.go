package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/report"
)

// Result holds a generated forecast and every artifact derived from it.
type Result struct {
	Request
	Series  models.RawSeries
	Summary models.SummaryStats
	Daily   []models.DisplayRow
	// Weekly is nil for ranges shorter than report.WeeklyMinDays.
	Weekly []models.WeekRollup
	Export models.ExportTable
	Advice Advice
	// IntervalViolations lists days whose estimate lies outside its interval.
	IntervalViolations []int
}

// Filename returns the CSV export file name of the result.
func (r *Result) Filename() string {
	return report.Filename(r.Product, r.Start, r.End)
}

// Generate runs the entry's forecaster over every day of req. Any failure,
// including a malformed series, is returned as *PredictionError.
func Generate(entry catalog.Entry, req Request) (series models.RawSeries, err error) {
	fail := func(err error) (models.RawSeries, error) {
		return nil, &PredictionError{Product: req.Product, Err: err}
	}

	if entry.Forecaster == nil {
		return fail(errors.New("no forecaster for product"))
	}

	defer func() {
		if r := recover(); r != nil {
			series, err = fail(fmt.Errorf("forecaster panicked: %v", r))
		}
	}()

	dates := Dates(req.Start, req.End)
	series, err = entry.Forecaster.Predict(dates)
	if err != nil {
		return fail(err)
	}

	if len(series) != len(dates) {
		return fail(fmt.Errorf("forecaster returned %d days, want %d", len(series), len(dates)))
	}
	for i, p := range series {
		if !civil(p.Date).Equal(dates[i]) {
			return fail(fmt.Errorf("day %d is %s, want %s", i, p.Date.Format(models.DateLayout), dates[i].Format(models.DateLayout)))
		}
		if !finite(p.Yhat) || !finite(p.YhatLower) || !finite(p.YhatUpper) {
			return fail(fmt.Errorf("non-finite prediction on %s", dates[i].Format(models.DateLayout)))
		}
	}
	return series, nil
}

// Build derives the report artifacts of a generated series. An empty series
// is reported as a PredictionError.
func Build(req Request, series models.RawSeries) (*Result, error) {
	summary, err := report.Summarize(series)
	if err != nil {
		return nil, &PredictionError{Product: req.Product, Err: err}
	}

	return &Result{
		Request:            req,
		Series:             series,
		Summary:            summary,
		Daily:              report.DailyTable(series),
		Weekly:             report.WeeklyRollup(series),
		Export:             report.ExportTable(series),
		Advice:             RangeAdvice(req.Days),
		IntervalViolations: series.IntervalViolations(),
	}, nil
}

// Run validates, generates and reports a forecast for product over the
// inclusive range start to end.
func Run(c *catalog.Catalog, product string, start, end time.Time) (*Result, error) {
	req, err := Validate(product, start, end, c.Keys())
	if err != nil {
		return nil, err
	}

	entry, err := c.Get(product)
	if err != nil {
		return nil, &ValidationError{Field: "product", Value: product, Err: err}
	}

	series, err := Generate(entry, req)
	if err != nil {
		logger.Warn("forecast failed", "product", product, "error", err)
		return nil, err
	}

	res, err := Build(req, series)
	if err != nil {
		return nil, err
	}

	if req.Warning != nil {
		logger.Warn("large forecast range", "product", product, "days", req.Days)
	}
	if n := len(res.IntervalViolations); n > 0 {
		logger.Debug("estimates outside interval", "product", product, "days", n)
	}
	logger.Info("forecast generated", "product", product, "days", req.Days, "total", res.Summary.Total)
	return res, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
