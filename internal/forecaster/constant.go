package forecaster

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// Constant predicts the same level and interval for every day.
type Constant struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Kind implements Model.
func (c *Constant) Kind() string { return KindConstant }

// Predict implements Forecaster.
func (c *Constant) Predict(dates []time.Time) (models.RawSeries, error) {
	out := make(models.RawSeries, len(dates))
	for i, d := range dates {
		out[i] = models.Prediction{Date: civil(d), Yhat: c.Level, YhatLower: c.Lower, YhatUpper: c.Upper}
	}
	return out, nil
}

func decodeConstant(params []byte) (Model, error) {
	var c Constant
	if err := json.Unmarshal(params, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	for _, v := range []float64{c.Level, c.Lower, c.Upper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite constant", ErrInvalidParams)
		}
	}
	return &c, nil
}
