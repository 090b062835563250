package forecaster

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// YearLength is the period of the yearly seasonal terms, in days.
const YearLength = 365.25

// DefaultIntervalWidth is the coverage of the uncertainty interval.
const DefaultIntervalWidth = 0.8

// Fourier holds the coefficients of one yearly harmonic.
type Fourier struct {
	Sin float64 `json:"sin"`
	Cos float64 `json:"cos"`
}

// Additive is a trend plus seasonality model:
//
//	yhat(t) = intercept + slope*t + weekly[dow] + sum_k sin_k*sin(2πkt/P) + cos_k*cos(2πkt/P)
//
// where t counts days since Origin. The interval is yhat ± z*sigma with z
// the standard normal quantile for IntervalWidth.
type Additive struct {
	Origin        string     `json:"origin"`
	Intercept     float64    `json:"intercept"`
	Slope         float64    `json:"slope"`
	Weekly        [7]float64 `json:"weekly"`
	Yearly        []Fourier  `json:"yearly"`
	Sigma         float64    `json:"sigma"`
	IntervalWidth float64    `json:"interval_width"`

	origin time.Time
	z      float64
}

// Kind implements Model.
func (a *Additive) Kind() string { return KindAdditive }

// Predict implements Forecaster.
func (a *Additive) Predict(dates []time.Time) (models.RawSeries, error) {
	if err := a.prepare(); err != nil {
		return nil, err
	}

	out := make(models.RawSeries, len(dates))
	for i, d := range dates {
		yhat := a.point(d)
		out[i] = models.Prediction{
			Date:      civil(d),
			Yhat:      yhat,
			YhatLower: yhat - a.z*a.Sigma,
			YhatUpper: yhat + a.z*a.Sigma,
		}
	}
	return out, nil
}

func (a *Additive) point(d time.Time) float64 {
	t := daysBetween(a.origin, d)
	y := a.Intercept + a.Slope*t + a.Weekly[weekdayIndex(d)]
	for k, f := range a.Yearly {
		x := 2 * math.Pi * float64(k+1) * t / YearLength
		y += f.Sin*math.Sin(x) + f.Cos*math.Cos(x)
	}
	return y
}

// prepare parses the origin and caches the interval quantile.
func (a *Additive) prepare() error {
	if a.z != 0 && !a.origin.IsZero() {
		return nil
	}

	origin, err := time.Parse(models.DateLayout, a.Origin)
	if err != nil {
		return fmt.Errorf("%w: origin %q: %w", ErrInvalidParams, a.Origin, err)
	}
	width := a.IntervalWidth
	if width == 0 {
		width = DefaultIntervalWidth
	}
	if width <= 0 || width >= 1 {
		return fmt.Errorf("%w: interval width %v outside (0, 1)", ErrInvalidParams, width)
	}
	if a.Sigma < 0 || math.IsNaN(a.Sigma) {
		return fmt.Errorf("%w: sigma %v", ErrInvalidParams, a.Sigma)
	}

	a.origin = origin
	a.z = distuv.UnitNormal.Quantile(0.5 + width/2)
	return nil
}

func decodeAdditive(params []byte) (Model, error) {
	var a Additive
	if err := json.Unmarshal(params, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if err := a.prepare(); err != nil {
		return nil, err
	}
	return &a, nil
}
