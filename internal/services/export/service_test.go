package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecaster"
)

func testResult(t *testing.T) *forecast.Result {
	t.Helper()
	c := catalog.New(catalog.Entry{
		Key:        "Widget",
		Forecaster: &forecaster.Constant{Level: 1000.5, Lower: 900, Upper: 1100},
	})
	res, err := forecast.Run(c, "Widget",
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return res
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	var title, msg string
	svc := New(dir, WithNotifier(func(ti, m string) error {
		title, msg = ti, m
		return nil
	}))

	path, err := svc.Write(testResult(t))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if filepath.Base(path) != "prediksi_Widget_2025-12-01_to_2025-12-03.csv" {
		t.Errorf("unexpected file name %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[4] != `TOTAL,,"3.001,50",,` {
		t.Errorf("unexpected total line %q", lines[4])
	}

	if title != "Forecast exported" || !strings.Contains(msg, "3 days") {
		t.Errorf("unexpected notification %q %q", title, msg)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWrite_NoNotifier(t *testing.T) {
	svc := New(t.TempDir(), WithNotifier(nil))
	if _, err := svc.Write(testResult(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
}

func TestWrite_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	svc := New(filepath.Join(file, "sub"))
	if _, err := svc.Write(testResult(t)); err == nil {
		t.Error("expected error when export dir is under a file")
	}
}
