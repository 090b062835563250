package forecaster

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// ErrInsufficientHistory is returned when there are too few distinct days
// to fit a model.
var ErrInsufficientHistory = errors.New("insufficient history to fit model")

// FitOptions configures Fit.
type FitOptions struct {
	// YearlyOrder is the number of yearly harmonics.
	YearlyOrder int
	// IntervalWidth is the coverage of the predicted interval.
	IntervalWidth float64
	// Ridge is added to the diagonal of the normal equations.
	Ridge float64
}

// DefaultFitOptions returns the options used for demo bundles.
func DefaultFitOptions() FitOptions {
	return FitOptions{YearlyOrder: 3, IntervalWidth: DefaultIntervalWidth, Ridge: 1e-6}
}

// minFitDays is the least number of distinct days Fit accepts.
const minFitDays = 14

// Fit estimates an additive model from daily observations by regularized
// least squares. Observations on the same day are summed. It also returns
// the in-sample accuracy of the fit.
func Fit(obs []models.Observation, opts FitOptions) (*Additive, models.Metrics, error) {
	days, y := aggregateDaily(obs)
	if len(days) < minFitDays {
		return nil, models.Metrics{}, fmt.Errorf("%w: %d days, need %d", ErrInsufficientHistory, len(days), minFitDays)
	}

	origin := days[0]
	p := 2 + 6 + 2*opts.YearlyOrder
	n := len(days)

	x := mat.NewDense(n, p, nil)
	for i, d := range days {
		x.SetRow(i, designRow(d, origin, opts.YearlyOrder))
	}
	yv := mat.NewVecDense(n, y)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < p; i++ {
		xtx.Set(i, i, xtx.At(i, i)+opts.Ridge)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, models.Metrics{}, fmt.Errorf("failed to solve normal equations: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	resid := make([]float64, n)
	absErr := make([]float64, n)
	var pctErr []float64
	for i := range y {
		resid[i] = y[i] - fitted.AtVec(i)
		absErr[i] = math.Abs(resid[i])
		if y[i] != 0 {
			pctErr = append(pctErr, math.Abs(resid[i]/y[i])*100)
		}
	}

	m := &Additive{
		Origin:        origin.Format(models.DateLayout),
		Intercept:     beta.AtVec(0),
		Slope:         beta.AtVec(1),
		Sigma:         stat.StdDev(resid, nil),
		IntervalWidth: opts.IntervalWidth,
	}
	for w := 1; w < 7; w++ {
		m.Weekly[w] = beta.AtVec(1 + w)
	}
	for k := 0; k < opts.YearlyOrder; k++ {
		m.Yearly = append(m.Yearly, Fourier{
			Sin: beta.AtVec(8 + 2*k),
			Cos: beta.AtVec(9 + 2*k),
		})
	}
	if err := m.prepare(); err != nil {
		return nil, models.Metrics{}, err
	}

	metrics := models.Metrics{MAE: stat.Mean(absErr, nil)}
	if len(pctErr) > 0 {
		metrics.MAPE = stat.Mean(pctErr, nil)
	}
	return m, metrics, nil
}

// designRow lays out intercept, trend, six weekday dummies (Monday is the
// baseline) and the yearly harmonics for one day.
func designRow(d, origin time.Time, order int) []float64 {
	t := daysBetween(origin, d)
	row := make([]float64, 2+6+2*order)
	row[0] = 1
	row[1] = t
	if w := weekdayIndex(d); w > 0 {
		row[1+w] = 1
	}
	for k := 0; k < order; k++ {
		x := 2 * math.Pi * float64(k+1) * t / YearLength
		row[8+2*k] = math.Sin(x)
		row[9+2*k] = math.Cos(x)
	}
	return row
}

func aggregateDaily(obs []models.Observation) ([]time.Time, []float64) {
	sums := make(map[time.Time]float64)
	for _, o := range obs {
		sums[civil(o.Date)] += o.QtyOut
	}

	days := make([]time.Time, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	y := make([]float64, len(days))
	for i, d := range days {
		y[i] = sums[d]
	}
	return days, y
}
