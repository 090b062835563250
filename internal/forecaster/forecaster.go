// Package forecaster defines the prediction capability stored in a model
// bundle and the concrete model kinds that implement it.
package forecaster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// Forecaster predicts demand for each requested calendar day.
type Forecaster interface {
	Predict(dates []time.Time) (models.RawSeries, error)
}

// Model is a Forecaster that can be stored in a bundle.
type Model interface {
	Forecaster
	Kind() string
}

// Model kinds.
const (
	KindAdditive = "additive"
	KindConstant = "constant"
)

var (
	// ErrUnknownKind is returned when a bundle names a model kind this
	// build cannot decode.
	ErrUnknownKind = errors.New("unknown model kind")
	// ErrInvalidParams is returned when model parameters fail validation.
	ErrInvalidParams = errors.New("invalid model parameters")
)

type decoder func(params []byte) (Model, error)

var decoders = map[string]decoder{
	KindAdditive: decodeAdditive,
	KindConstant: decodeConstant,
}

// Decode builds a model from its stored kind and JSON parameters.
func Decode(kind string, params []byte) (Model, error) {
	dec, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return dec(params)
}

// Encode returns the stored form of a model.
func Encode(m Model) (string, []byte, error) {
	params, err := json.Marshal(m)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode %s model: %w", m.Kind(), err)
	}
	return m.Kind(), params, nil
}

// civil truncates t to midnight UTC of its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) float64 {
	return math.Round(civil(b).Sub(civil(a)).Hours() / 24)
}

// weekdayIndex maps Monday to 0 and Sunday to 6.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
