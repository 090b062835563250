package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// History summarizes the observations and accuracy of a trained model.
// An empty history yields zero stats with the metrics still populated.
func History(obs []models.Observation, metrics models.Metrics) models.HistoricalStats {
	hs := models.HistoricalStats{
		Records: len(obs),
		Metrics: metrics,
		Quality: models.QualityFor(metrics.MAPE),
	}
	if len(obs) == 0 {
		return hs
	}

	qty := make([]float64, len(obs))
	hs.First, hs.Last = obs[0].Date, obs[0].Date
	for i, o := range obs {
		qty[i] = o.QtyOut
		if o.Date.Before(hs.First) {
			hs.First = o.Date
		}
		if o.Date.After(hs.Last) {
			hs.Last = o.Date
		}
	}

	hs.Total = floats.Sum(qty)
	hs.Mean = stat.Mean(qty, nil)
	return hs
}
