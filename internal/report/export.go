package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// TotalLabel marks the synthetic trailing row of an export.
const TotalLabel = "TOTAL"

// ExportHeader is the CSV header row.
var ExportHeader = []string{"Tanggal", "Hari", "Prediksi (unit)", "Range Min", "Range Max"}

// ExportTable renders the daily rows as localized strings and appends a
// TOTAL row carrying only the grand total.
func ExportTable(series models.RawSeries) models.ExportTable {
	header := make([]string, len(ExportHeader))
	copy(header, ExportHeader)

	rows := make([][]string, 0, len(series)+1)
	var total float64
	for _, r := range DailyTable(series) {
		rows = append(rows, []string{
			r.Date,
			r.Weekday,
			localize.Format2(r.Prediction),
			localize.Format2(r.Lower),
			localize.Format2(r.Upper),
		})
	}
	for _, p := range series {
		total += p.Yhat
	}
	rows = append(rows, []string{TotalLabel, "", localize.Format2(total), "", ""})

	return models.ExportTable{Header: header, Rows: rows}
}

// WriteCSV encodes table as UTF-8 CSV.
func WriteCSV(w io.Writer, table models.ExportTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// Filename returns the export file name for a product and date range.
// Path separators in the product key are replaced so the name stays a
// single path element.
func Filename(product string, start, end time.Time) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(product)
	return fmt.Sprintf("prediksi_%s_%s_to_%s.csv", safe, start.Format(models.DateLayout), end.Format(models.DateLayout))
}
