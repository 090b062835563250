package forecaster

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateRange(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestConstant_Predict(t *testing.T) {
	c := &Constant{Level: 5, Lower: 4, Upper: 6}

	got, err := c.Predict(dateRange(day(2025, 12, 1), 3))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(got))
	}
	for i, p := range got {
		if !p.Date.Equal(day(2025, 12, 1+i)) || p.Yhat != 5 || p.YhatLower != 4 || p.YhatUpper != 6 {
			t.Errorf("unexpected prediction %d: %+v", i, p)
		}
	}
}

func TestAdditive_Predict(t *testing.T) {
	a := &Additive{
		Origin:        "2025-01-01",
		Intercept:     10,
		Slope:         1,
		Sigma:         2,
		IntervalWidth: 0.8,
	}
	a.Weekly[5] = 5

	got, err := a.Predict([]time.Time{day(2025, 1, 4)})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	p := got[0]
	if p.Yhat != 18 {
		t.Errorf("expected yhat 18, got %v", p.Yhat)
	}
	z := 1.2815515655446004
	if math.Abs(p.YhatLower-(18-2*z)) > 1e-6 || math.Abs(p.YhatUpper-(18+2*z)) > 1e-6 {
		t.Errorf("unexpected interval [%v, %v]", p.YhatLower, p.YhatUpper)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		params  string
		wantErr error
	}{
		{"constant", KindConstant, `{"level":1,"lower":0,"upper":2}`, nil},
		{"additive", KindAdditive, `{"origin":"2024-01-01","intercept":3,"sigma":1}`, nil},
		{"unknown kind", "prophet", `{}`, ErrUnknownKind},
		{"malformed json", KindConstant, `{"level":`, ErrInvalidParams},
		{"bad origin", KindAdditive, `{"origin":"01/01/2024"}`, ErrInvalidParams},
		{"bad width", KindAdditive, `{"origin":"2024-01-01","interval_width":1.5}`, ErrInvalidParams},
		{"negative sigma", KindAdditive, `{"origin":"2024-01-01","sigma":-1}`, ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.kind, []byte(tt.params))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if m.Kind() != tt.kind {
					t.Errorf("kind = %s, want %s", m.Kind(), tt.kind)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEncodeDecode_SamePredictions(t *testing.T) {
	orig := &Additive{
		Origin:    "2024-06-01",
		Intercept: 50,
		Slope:     0.25,
		Yearly:    []Fourier{{Sin: 3, Cos: -1}},
		Sigma:     4,
	}
	orig.Weekly[6] = -7

	kind, params, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(kind, params)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	dates := dateRange(day(2025, 12, 1), 10)
	want, _ := orig.Predict(dates)
	got, _ := decoded.Predict(dates)
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("day %d: %+v != %+v", i, got[i], want[i])
		}
	}
}

func TestFit_RecoversTrendAndWeekday(t *testing.T) {
	start := day(2024, 1, 1)
	var obs []models.Observation
	for i := 0; i < 120; i++ {
		d := start.AddDate(0, 0, i)
		y := 100 + 2*float64(i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			y += 20
		}
		obs = append(obs, models.Observation{Date: d, QtyOut: y})
	}

	opts := DefaultFitOptions()
	opts.YearlyOrder = 0
	m, metrics, err := Fit(obs, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(m.Intercept-100) > 1e-3 || math.Abs(m.Slope-2) > 1e-3 {
		t.Errorf("unexpected trend: intercept=%v slope=%v", m.Intercept, m.Slope)
	}
	if math.Abs(m.Weekly[5]-20) > 1e-3 || math.Abs(m.Weekly[2]) > 1e-3 {
		t.Errorf("unexpected weekly effects: %v", m.Weekly)
	}
	if metrics.MAE > 1e-3 || metrics.MAPE > 1e-3 {
		t.Errorf("expected near-perfect fit, got %+v", metrics)
	}

	pred, err := m.Predict([]time.Time{day(2024, 5, 4)})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	// 2024-05-04 is a Saturday, 124 days after the origin.
	if want := 100 + 2*124.0 + 20; math.Abs(pred[0].Yhat-want) > 1e-2 {
		t.Errorf("yhat = %v, want %v", pred[0].Yhat, want)
	}
}

func TestFit_SumsSameDayObservations(t *testing.T) {
	start := day(2024, 1, 1)
	var obs []models.Observation
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, 0, i)
		obs = append(obs,
			models.Observation{Date: d, QtyOut: 5},
			models.Observation{Date: d.Add(3 * time.Hour), QtyOut: 5},
		)
	}

	opts := DefaultFitOptions()
	opts.YearlyOrder = 0
	m, _, err := Fit(obs, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(m.Intercept-10) > 1e-3 {
		t.Errorf("expected level 10, got %v", m.Intercept)
	}
}

func TestFit_InsufficientHistory(t *testing.T) {
	obs := []models.Observation{{Date: day(2024, 1, 1), QtyOut: 1}}
	if _, _, err := Fit(obs, DefaultFitOptions()); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}
