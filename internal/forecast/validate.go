// Package forecast validates forecast requests, runs the product's
// forecaster over the requested days and assembles the report.
package forecast

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// MaxRecommendedDays is the longest range accepted without a warning.
const MaxRecommendedDays = 365

// Request is a validated forecast request over whole calendar days.
type Request struct {
	Product string
	Start   time.Time
	End     time.Time
	Days    int
	// Warning is set when the range is accepted but unusually long.
	Warning *LargeRangeWarning
}

// Validate checks a request against the catalog keys. Rules apply in
// order: the product must exist, the end must be strictly after the start,
// and ranges over MaxRecommendedDays are accepted with a warning.
func Validate(product string, start, end time.Time, keys []string) (Request, error) {
	if !slices.Contains(keys, product) {
		return Request{}, &ValidationError{Field: "product", Value: product, Err: ErrUnknownProduct}
	}

	start, end = civil(start), civil(end)
	if !start.Before(end) {
		return Request{}, &ValidationError{
			Field: "range",
			Value: start.Format(models.DateLayout) + " to " + end.Format(models.DateLayout),
			Err:   ErrInvalidRange,
		}
	}

	req := Request{Product: product, Start: start, End: end, Days: DayCount(start, end)}
	if req.Days > MaxRecommendedDays {
		req.Warning = &LargeRangeWarning{DayCount: req.Days}
	}
	return req, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Value: s, Err: ErrInvalidDate}
	}
	return d, nil
}

// DayCount returns the number of days from start to end, both included.
func DayCount(start, end time.Time) int {
	return int(math.Round(civil(end).Sub(civil(start)).Hours()/24)) + 1
}

// Dates returns every calendar day from start to end inclusive.
func Dates(start, end time.Time) []time.Time {
	start, end = civil(start), civil(end)
	if end.Before(start) {
		return nil
	}

	out := make([]time.Time, 0, DayCount(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Advice grades a range length for forecast reliability.
type Advice string

// Range advice levels.
const (
	AdviceShort   Advice = "short"
	AdviceOptimal Advice = "optimal"
	AdviceFair    Advice = "fair"
	AdviceLong    Advice = "long"
)

// RangeAdvice grades a range of days: up to a week is short, up to 30 days
// is optimal, up to 90 fair, and anything longer less accurate.
func RangeAdvice(days int) Advice {
	switch {
	case days < 7:
		return AdviceShort
	case days <= 30:
		return AdviceOptimal
	case days <= 90:
		return AdviceFair
	default:
		return AdviceLong
	}
}

// Text returns an operator-facing description of the advice.
func (a Advice) Text() string {
	switch a {
	case AdviceShort:
		return "Short range: no weekly rollup"
	case AdviceOptimal:
		return "7-30 days: optimal accuracy"
	case AdviceFair:
		return "31-90 days: fair accuracy"
	case AdviceLong:
		return "Over 90 days: accuracy decreases"
	default:
		return ""
	}
}

// civil truncates t to midnight UTC of its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
