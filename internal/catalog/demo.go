package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/db"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecaster"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// demoProduct describes the synthetic demand of one demo product.
type demoProduct struct {
	key      string
	base     float64
	trend    float64 // units per day
	weekend  float64 // added on Saturday and Sunday
	seasonal float64 // amplitude of the yearly cycle
	noise    float64
	constant bool
}

var demoProducts = []demoProduct{
	{key: "Beras Premium 5kg", base: 120, trend: 0.05, weekend: 35, seasonal: 15, noise: 8},
	{key: "Gula Pasir 1kg", base: 80, trend: 0.02, weekend: 10, seasonal: 25, noise: 6},
	{key: "Kopi Bubuk 200g", base: 45, trend: 0.01, weekend: -5, seasonal: 4, noise: 4},
	{key: "Minyak Goreng 2L", base: 60, trend: -0.01, weekend: 15, seasonal: 10, noise: 5},
	{key: "Teh Celup 25s", base: 30, trend: 0, weekend: 3, seasonal: 6, noise: 3},
	{key: "Air Mineral 600ml", base: 200, constant: true, noise: 20},
}

// DemoHistoryDays is the length of the synthetic history of each product.
const DemoHistoryDays = 730

// WriteDemo writes a bundle of synthetic products to path, with histories
// ending the day before end. Generation is seeded so the same end date
// always yields the same bundle. It returns the product keys written.
func WriteDemo(path string, end time.Time) ([]string, error) {
	bundle, err := db.New(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = bundle.Close() }()

	y, m, d := end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	first := last.AddDate(0, 0, -(DemoHistoryDays - 1))

	keys := make([]string, 0, len(demoProducts))
	for i, p := range demoProducts {
		rng := rand.New(rand.NewPCG(uint64(last.Unix()), uint64(i)))
		obs := p.history(rng, first)

		model, metrics, err := p.fit(obs)
		if err != nil {
			return nil, fmt.Errorf("failed to fit %s: %w", p.key, err)
		}
		kind, params, err := forecaster.Encode(model)
		if err != nil {
			return nil, err
		}

		if err := bundle.InsertProduct(p.key, metrics); err != nil {
			return nil, err
		}
		if err := bundle.InsertObservations(p.key, obs); err != nil {
			return nil, err
		}
		if err := bundle.InsertModel(p.key, kind, params); err != nil {
			return nil, err
		}
		keys = append(keys, p.key)
	}

	if err := bundle.SetMeta(db.MetaCreatedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	if err := bundle.SetMeta(db.MetaSource, "demo"); err != nil {
		return nil, err
	}
	return keys, bundle.Vacuum()
}

func (p demoProduct) history(rng *rand.Rand, first time.Time) []models.Observation {
	obs := make([]models.Observation, 0, DemoHistoryDays)
	for i := 0; i < DemoHistoryDays; i++ {
		// Some days have no outgoing documents.
		if rng.Float64() < 0.03 {
			continue
		}

		d := first.AddDate(0, 0, i)
		qty := p.base + p.trend*float64(i) + p.noise*rng.NormFloat64()
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			qty += p.weekend
		}
		qty += p.seasonal * math.Sin(2*math.Pi*float64(d.YearDay())/forecaster.YearLength)

		obs = append(obs, models.Observation{Date: d, QtyOut: math.Max(0, math.Round(qty))})
	}
	return obs
}

func (p demoProduct) fit(obs []models.Observation) (forecaster.Model, models.Metrics, error) {
	if !p.constant {
		return forecaster.Fit(obs, forecaster.DefaultFitOptions())
	}

	qty := make([]float64, len(obs))
	for i, o := range obs {
		qty[i] = o.QtyOut
	}
	mean := stat.Mean(qty, nil)

	absDev := make([]float64, len(qty))
	var pct []float64
	for i, q := range qty {
		absDev[i] = math.Abs(q - mean)
		if q != 0 {
			pct = append(pct, absDev[i]/q*100)
		}
	}
	metrics := models.Metrics{MAE: stat.Mean(absDev, nil)}
	if len(pct) > 0 {
		metrics.MAPE = stat.Mean(pct, nil)
	}

	c := &forecaster.Constant{Level: mean, Lower: mean - 1.28*p.noise, Upper: mean + 1.28*p.noise}
	return c, metrics, nil
}
