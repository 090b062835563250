package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/db"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecaster"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

func writeBundle(t *testing.T, path string, products map[string]string) {
	t.Helper()
	b, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to create bundle: %v", err)
	}
	defer b.Close()

	for key, params := range products {
		kind := forecaster.KindConstant
		if strings.Contains(params, "origin") {
			kind = forecaster.KindAdditive
		}
		if err := b.InsertProduct(key, models.Metrics{MAPE: 10, MAE: 2}); err != nil {
			t.Fatal(err)
		}
		obs := []models.Observation{{Date: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), QtyOut: 7}}
		if err := b.InsertObservations(key, obs); err != nil {
			t.Fatal(err)
		}
		if err := b.InsertModel(key, kind, []byte(params)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	writeBundle(t, path, map[string]string{
		"Widget": `{"level":10,"lower":8,"upper":12}`,
		"Gadget": `{"origin":"2025-01-01","intercept":5,"sigma":1}`,
	})

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := c.Keys(); !reflect.DeepEqual(got, []string{"Gadget", "Widget"}) {
		t.Errorf("Keys = %v", got)
	}
	if c.Len() != 2 || c.Info().Path != path {
		t.Errorf("unexpected info %+v", c.Info())
	}

	e, err := c.Get("Widget")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if e.Kind != forecaster.KindConstant || e.Metrics.MAPE != 10 || len(e.History) != 1 {
		t.Errorf("unexpected entry %+v", e)
	}

	series, err := e.Forecaster.Predict([]time.Time{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil || series[0].Yhat != 10 {
		t.Errorf("unexpected prediction %v (%v)", series, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(garbage, []byte(strings.Repeat("pickle bytes\n", 200)), 0o600); err != nil {
		t.Fatal(err)
	}

	badKind := filepath.Join(dir, "badkind.db")
	writeBundle(t, badKind, map[string]string{"Widget": `{"level":1}`})
	b, err := db.New(badKind)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.InsertModel("Widget", "prophet", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	_ = b.Close()

	tests := []struct {
		name string
		path string
		want LoadErrorKind
	}{
		{"missing", filepath.Join(dir, "missing.db"), NotFound},
		{"directory", dir, Unreadable},
		{"not sqlite", garbage, Corrupt},
		{"unknown model kind", badKind, Corrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)

			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %v", err)
			}
			if le.Kind != tt.want {
				t.Errorf("kind = %s, want %s (%v)", le.Kind, tt.want, err)
			}
			if le.Path != tt.path {
				t.Errorf("path = %s, want %s", le.Path, tt.path)
			}
			if !IsLoadError(err, tt.want) {
				t.Error("IsLoadError should match")
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "missing.db")); !os.IsNotExist(err) {
		t.Error("loading a missing bundle must not create it")
	}
}

func TestShared_LoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")
	writeBundle(t, path, map[string]string{"Widget": `{"level":1}`})

	first, err := Shared(path)
	if err != nil {
		t.Fatalf("Shared failed: %v", err)
	}

	// The cached instance survives the file disappearing.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := Shared(path)
	if err != nil {
		t.Fatalf("second Shared failed: %v", err)
	}
	if first != second {
		t.Error("Shared should return the same instance")
	}
}

func TestShared_FailureNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.db")

	if _, err := Shared(path); !IsLoadError(err, NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	writeBundle(t, path, map[string]string{"Widget": `{"level":1}`})
	c, err := Shared(path)
	if err != nil {
		t.Fatalf("Shared after fix failed: %v", err)
	}
	if !c.Has("Widget") {
		t.Error("expected Widget after reload")
	}
}

func TestGet_Unknown(t *testing.T) {
	c := New(Entry{Key: "Widget", Forecaster: &forecaster.Constant{}})

	_, err := c.Get("Gizmo")
	if !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
	if !strings.Contains(err.Error(), "Gizmo") {
		t.Errorf("error should name the product: %v", err)
	}
}

func TestGet_HistoryIsCopy(t *testing.T) {
	c := New(Entry{Key: "Widget", History: []models.Observation{{QtyOut: 1}}})

	e, _ := c.Get("Widget")
	e.History[0].QtyOut = 99

	again, _ := c.Get("Widget")
	if again.History[0].QtyOut != 1 {
		t.Error("catalog history was mutated through Get")
	}
}

func TestFilter(t *testing.T) {
	keys := []string{"Beras Premium", "Gula Pasir", "Kopi Bubuk", "beras merah"}

	tests := []struct {
		name     string
		query    string
		want     []string
		fellBack bool
	}{
		{"empty query", "", keys, false},
		{"case insensitive", "BERAS", []string{"Beras Premium", "beras merah"}, false},
		{"substring", "pasi", []string{"Gula Pasir"}, false},
		{"no match falls back", "zzz", keys, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := Filter(keys, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
			if fellBack != tt.fellBack {
				t.Errorf("fellBack = %v, want %v", fellBack, tt.fellBack)
			}
		})
	}
}

func TestWriteDemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.db")
	end := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	keys, err := WriteDemo(path, end)
	if err != nil {
		t.Fatalf("WriteDemo failed: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != len(keys) || c.Info().Source != "demo" {
		t.Fatalf("unexpected catalog info %+v", c.Info())
	}

	dates := []time.Time{end, end.AddDate(0, 0, 1)}
	for _, k := range c.Keys() {
		e, _ := c.Get(k)
		if len(e.History) == 0 {
			t.Errorf("%s: empty history", k)
		}
		if last := e.History[len(e.History)-1].Date; !last.Before(end) {
			t.Errorf("%s: history reaches %v", k, last)
		}
		series, err := e.Forecaster.Predict(dates)
		if err != nil {
			t.Fatalf("%s: predict failed: %v", k, err)
		}
		for _, p := range series {
			if math.IsNaN(p.Yhat) || p.YhatLower > p.YhatUpper {
				t.Errorf("%s: bad prediction %+v", k, p)
			}
		}
	}
}
