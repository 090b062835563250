package dashboard

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

var products = []string{"Beras Premium 5kg", "Gula Pasir 1kg", "Kopi Bubuk 200g"}

func testConfig() *config.Config {
	return &config.Config{
		DefaultStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		DefaultEnd:   time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC),
	}
}

// readyModel returns a sized tab over a loaded catalog.
func readyModel(t *testing.T) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.SetCatalog(&catalog.Info{Path: "models.db", Products: len(products)}, products, nil)
	state.SetLoading(app.ResourceInitial, false)

	m := New(state, testConfig())
	m.SetSize(120, 40)
	return m, state
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// msgOf runs cmd and returns its first message, unwrapping batches.
func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				return msgOf(t, c)
			}
		}
	}
	return msg
}

func testResult(t *testing.T, days int) *forecast.Result {
	t.Helper()
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	series := make(models.RawSeries, days)
	for i := range series {
		series[i] = models.Prediction{
			Date:      start.AddDate(0, 0, i),
			Yhat:      10,
			YhatLower: 8,
			YhatUpper: 12,
		}
	}
	req := forecast.Request{
		Product: "Gula Pasir 1kg",
		Start:   start,
		End:     start.AddDate(0, 0, days-1),
		Days:    days,
	}
	res, err := forecast.Build(req, series)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m.startInput.Value() != "2025-12-01" || m.endInput.Value() != "2025-12-05" {
		t.Errorf("default range = %s..%s", m.startInput.Value(), m.endInput.Value())
	}
	if m.CapturingInput() {
		t.Error("new tab should not capture input")
	}
	if m.SelectedProduct() != "" {
		t.Error("no product should be selected without a catalog")
	}

	if New(app.NewState(), nil).startInput.Value() != "" {
		t.Error("nil config should leave the dates empty")
	}
}

func TestModel_CatalogState(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())

	state.SetCatalog(&catalog.Info{Path: "models.db", Products: 3}, products, nil)
	_, cmd := m.Update(app.CatalogStateMsg{Products: products})

	if got := len(m.table.Rows()); got != len(products) {
		t.Fatalf("rows = %d, want %d", got, len(products))
	}
	msg, ok := msgOf(t, cmd).(app.ProductSelectedMsg)
	if !ok || msg.Product != products[0] {
		t.Errorf("msg = %#v, want ProductSelectedMsg for %q", msg, products[0])
	}

	m.Update(app.CatalogStateMsg{Products: products})
	if m.announceSelection() != nil {
		t.Error("an unchanged selection should not be announced again")
	}
}

func TestModel_Search(t *testing.T) {
	m, _ := readyModel(t)

	m.Update(runes("/"))
	if m.focus != focusSearch || !m.CapturingInput() {
		t.Fatal("/ should focus the search field")
	}

	m.Update(runes("kopi"))
	if rows := m.table.Rows(); len(rows) != 1 || rows[0][1] != "Kopi Bubuk 200g" {
		t.Errorf("rows = %v, want only Kopi", rows)
	}
	if m.SelectedProduct() != "Kopi Bubuk 200g" {
		t.Errorf("selected = %q", m.SelectedProduct())
	}

	m.Update(runes("zzz"))
	if len(m.table.Rows()) != len(products) || !m.fellBack {
		t.Error("a search without matches should fall back to every product")
	}
	if !strings.Contains(m.View(), "showing all") {
		t.Error("fallback notice missing from view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusProducts || m.CapturingInput() {
		t.Error("esc should return focus to the product list")
	}
}

func TestModel_FocusCycle(t *testing.T) {
	m, _ := readyModel(t)

	want := []focus{focusSearch, focusStart, focusEnd, focusResults, focusProducts}
	for _, f := range want {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != f {
			t.Fatalf("focus = %d, want %d", m.focus, f)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusResults {
		t.Errorf("shift+tab focus = %d, want %d", m.focus, focusResults)
	}
}

func TestModel_RunForecast(t *testing.T) {
	m, _ := readyModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := msgOf(t, cmd)
	req, ok := msg.(app.ForecastRequestMsg)
	if !ok {
		t.Fatalf("msg = %T, want ForecastRequestMsg", msg)
	}
	want := app.ForecastRequestMsg{Product: products[0], Start: "2025-12-01", End: "2025-12-05"}
	if req != want {
		t.Errorf("request = %+v, want %+v", req, want)
	}

	empty := New(app.NewState(), testConfig())
	if empty.requestForecast() != nil {
		t.Error("a forecast needs a selected product")
	}
}

func TestModel_Export(t *testing.T) {
	m, _ := readyModel(t)

	_, cmd := m.Update(runes("e"))
	if _, ok := msgOf(t, cmd).(app.ExportRequestMsg); !ok {
		t.Error("e should emit ExportRequestMsg")
	}

	m.setFocus(focusStart)
	m.startInput.SetValue("")
	m.Update(runes("e"))
	if m.startInput.Value() != "e" {
		t.Errorf("typing in a date field should not export, value = %q", m.startInput.Value())
	}
}

func TestModel_RangeStatus(t *testing.T) {
	tests := []struct {
		name, start, end, want string
	}{
		{"valid", "2025-12-01", "2025-12-05", "5 days"},
		{"optimal", "2025-12-01", "2025-12-20", "optimal"},
		{"bad start", "2025-13-01", "2025-12-05", "Start is not"},
		{"bad end", "2025-12-01", "soon", "End is not"},
		{"reversed", "2025-12-05", "2025-12-01", "End must be after start"},
		{"equal", "2025-12-05", "2025-12-05", "End must be after start"},
		{"large", "2025-01-01", "2026-06-01", "longer than 365"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := readyModel(t)
			m.startInput.SetValue(tt.start)
			m.endInput.SetValue(tt.end)

			got := strings.Join(m.rangeStatus(), "\n")
			if !strings.Contains(got, tt.want) {
				t.Errorf("status = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestModel_Report(t *testing.T) {
	m, state := readyModel(t)
	res := testResult(t, 10)

	state.SetResult(res)
	state.SetLastExport("/tmp/prediksi_x.csv")
	m.Update(app.ForecastReadyMsg{Result: res})

	report := m.renderReport()
	for _, want := range []string{
		"Gula Pasir 1kg",
		"2025-12-01 to 2025-12-10",
		"TOTAL (10 days)",
		"100,00",
		"Weekly rollup",
		"2025-12-08/2025-12-14",
		"Last export: /tmp/prediksi_x.csv",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	short := testResult(t, 3)
	state.SetResult(short)
	m.Update(app.ForecastReadyMsg{Result: short})
	if strings.Contains(m.renderReport(), "Weekly rollup") {
		t.Error("ranges under a week should have no weekly rollup")
	}
}

func TestRenderDailyTable(t *testing.T) {
	res := testResult(t, 15)
	table := renderDailyTable(res.Daily, res.Summary)

	// Header underline, rules after day 7 and day 14, footer rule.
	if got := strings.Count(table, "───"); got < 4 {
		t.Errorf("table has %d rules, want 4", got)
	}
	lines := strings.Split(table, "\n")
	if last := lines[len(lines)-1]; !strings.Contains(last, "TOTAL (15 days)") || !strings.Contains(last, "150,00") {
		t.Errorf("footer = %q", last)
	}
	// Header and its underline, 15 days, 2 week rules, footer rule, footer.
	if len(lines) != 21 {
		t.Errorf("lines = %d, want 21", len(lines))
	}
}

func TestModel_ErrorPanel(t *testing.T) {
	m, state := readyModel(t)

	state.SetForecastError(&forecast.PredictionError{Product: "Gula Pasir 1kg", Err: errors.New("boom")})
	m.Update(app.ForecastErrorMsg{Product: "Gula Pasir 1kg"})
	report := m.renderReport()
	if !strings.Contains(report, "Prediction failed") || !strings.Contains(report, "Try again") {
		t.Errorf("prediction error panel = %q", report)
	}

	state.SetForecastError(&forecast.ValidationError{Field: "start date", Value: "x", Err: forecast.ErrInvalidDate})
	if !strings.Contains(m.renderReport(), "Invalid input") {
		t.Error("validation errors should be labelled as invalid input")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	m := New(state, testConfig())
	m.SetSize(100, 30)

	if m.View() == "" {
		t.Error("loading view should not be empty")
	}

	state.SetCatalog(nil, nil, &catalog.LoadError{Kind: catalog.NotFound, Path: "missing.db", Err: errors.New("no such file")})
	state.SetLoading(app.ResourceInitial, false)
	if v := m.View(); !strings.Contains(v, "bundle demo missing.db") {
		t.Errorf("load error view should explain how to create a bundle, got %q", v)
	}

	m, state = readyModel(t)
	v := m.View()
	if !strings.Contains(v, "Demand Forecast") || !strings.Contains(v, "Beras Premium 5kg") {
		t.Error("view should show the title and the products")
	}
	if !strings.Contains(v, "Pick a product") {
		t.Error("view should hint at running a forecast")
	}

	state.SetLoading(app.ResourceForecast, true)
	if !strings.Contains(m.View(), "Forecasting") {
		t.Error("view should show the spinner while forecasting")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
	var _ app.InputCapturer = m
}
