package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/styles"
)

// formHeight is the number of lines above the report viewport.
const formHeight = 18

const (
	colDate   = 10
	colDay    = 9
	colNumber = 12
)

// View renders the forecast tab.
func (m *Model) View() string {
	if m.state.IsLoading(app.ResourceInitial) && !m.state.CatalogReady() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if err := m.state.GetLoadError(); err != nil && !m.state.CatalogReady() {
		return styles.DocStyle.Render(m.renderErrorPanel(err))
	}

	form := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderProducts(),
		m.renderRangeForm(),
	)

	var report string
	if m.state.IsLoading(app.ResourceForecast) {
		report = m.spinner.View()
	} else {
		report = m.viewport.View()
	}

	return styles.DocStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		form,
		report,
	))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Demand Forecast")

	subtitle := "No model bundle loaded"
	if info := m.state.GetCatalogInfo(); info != nil {
		subtitle = fmt.Sprintf("%s products from %s", localize.Integer(info.Products), info.Path)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle))
}

func (m *Model) renderProducts() string {
	var rows []string
	rows = append(rows, m.search.View())

	if len(m.table.Rows()) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No products in the bundle."))
	} else {
		rows = append(rows, m.table.View())
	}

	if m.fellBack {
		rows = append(rows, styles.WarningTextStyle.Render(
			fmt.Sprintf("No product matches %q, showing all.", m.search.Value())))
	}

	return m.border(m.focus == focusProducts || m.focus == focusSearch).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRangeForm() string {
	rows := []string{
		styles.CardTitleStyle.Render("Forecast range"),
		"",
		styles.LabelStyle.Render("Start") + m.startInput.View(),
		styles.LabelStyle.Render("End") + m.endInput.View(),
		"",
	}
	rows = append(rows, m.rangeStatus()...)
	rows = append(rows, "", styles.HelpStyle.Render("enter to run, e to export"))

	return m.border(m.focus == focusStart || m.focus == focusEnd).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// rangeStatus describes the typed range before it is submitted.
func (m *Model) rangeStatus() []string {
	start, err := forecast.ParseDate("start date", m.startInput.Value())
	if err != nil {
		return []string{styles.ErrorTextStyle.Render("Start is not a YYYY-MM-DD date")}
	}
	end, err := forecast.ParseDate("end date", m.endInput.Value())
	if err != nil {
		return []string{styles.ErrorTextStyle.Render("End is not a YYYY-MM-DD date")}
	}
	if !start.Before(end) {
		return []string{styles.ErrorTextStyle.Render("End must be after start")}
	}

	days := forecast.DayCount(start, end)
	lines := []string{
		styles.CardValueStyle.Render(localize.Integer(days)+" days") + " " +
			styles.HelpStyle.Render(forecast.RangeAdvice(days).Text()),
	}
	if days > forecast.MaxRecommendedDays {
		w := forecast.LargeRangeWarning{DayCount: days}
		lines = append(lines, styles.WarningTextStyle.Render(w.Error()))
	}
	return lines
}

func (m *Model) border(focused bool) lipgloss.Style {
	if focused {
		return styles.FocusedBorderStyle.MarginRight(1)
	}
	return styles.BlurredBorderStyle.MarginRight(1)
}

// refreshReport re-renders the report into the viewport.
func (m *Model) refreshReport() {
	m.viewport.SetContent(m.renderReport())
}

func (m *Model) renderReport() string {
	if err := m.state.GetForecastError(); err != nil {
		return m.renderErrorPanel(err)
	}

	res := m.state.GetResult()
	if res == nil {
		return styles.HelpStyle.Render("Pick a product and a range, then press enter.")
	}

	sections := []string{
		m.renderReportHeader(res),
		renderSummaryCards(res.Summary),
		components.RenderForecastChart(res.Series, m.viewport.Width-10, 10),
		"",
		styles.SubTitleStyle.Render("Daily forecast"),
		renderDailyTable(res.Daily, res.Summary),
	}

	if len(res.Weekly) > 0 {
		sections = append(sections,
			"",
			styles.SubTitleStyle.Render("Weekly rollup"),
			renderWeeklyTable(res.Weekly),
			"",
			components.RenderBarChart(weeklyTotals(res.Weekly), weeklyLabels(res.Weekly), m.viewport.Width),
		)
	}

	if path := m.state.GetLastExport(); path != "" {
		sections = append(sections, "", styles.SuccessTextStyle.Render("Last export: "+path))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderReportHeader(res *forecast.Result) string {
	lines := []string{
		styles.SubTitleStyle.Render(res.Product) + " " + styles.HelpStyle.Render(fmt.Sprintf("%s to %s, %s days",
			res.Start.Format(models.DateLayout), res.End.Format(models.DateLayout), localize.Integer(res.Days))),
		styles.HelpStyle.Render(res.Advice.Text()),
	}
	if res.Warning != nil {
		lines = append(lines, styles.WarningTextStyle.Render(res.Warning.Error()))
	}
	if n := len(res.IntervalViolations); n > 0 {
		lines = append(lines, styles.InfoTextStyle.Render(
			fmt.Sprintf("%d days have an estimate outside their range", n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderErrorPanel(err error) string {
	category, headline, hint := app.Describe(err)

	rows := []string{
		styles.ErrorTextStyle.Bold(true).Render(headline),
		styles.HelpStyle.Render(category.String()),
		"",
		err.Error(),
	}
	if hint != "" {
		rows = append(rows, "", styles.InfoTextStyle.Render(hint))
	}
	return styles.CardStyle.BorderForeground(styles.Error).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderSummaryCards(s models.SummaryStats) string {
	card := func(title, value string) string {
		return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render(title),
			styles.CardValueStyle.Render(value),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", localize.Format2(s.Total)),
		card("Mean / day", localize.Format2(s.Mean)),
		card("Min", localize.Format2(s.Min)),
		card("Max", localize.Format2(s.Max)),
		card("Days", localize.Integer(s.Days)),
	)
}

// renderDailyTable lays out one row per day with a rule after every full
// week and a total footer.
func renderDailyTable(rows []models.DisplayRow, summary models.SummaryStats) string {
	width := colDate + colDay + 3*colNumber + 4
	rule := strings.Repeat("─", width)

	lines := []string{
		styles.TableHeaderStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s %*s",
			colDate, "Date", colDay, "Day", colNumber, "Prediction", colNumber, "Min", colNumber, "Max")),
	}
	for i, r := range rows {
		if i > 0 && i%7 == 0 {
			lines = append(lines, styles.WeekSeparatorStyle.Render(rule))
		}
		lines = append(lines, fmt.Sprintf("%-*s %-*s %*s %*s %*s",
			colDate, r.Date, colDay, r.Weekday,
			colNumber, localize.Format2(r.Prediction),
			colNumber, localize.Format2(r.Lower),
			colNumber, localize.Format2(r.Upper)))
	}

	lines = append(lines,
		styles.WeekSeparatorStyle.Render(rule),
		styles.TotalRowStyle.Render(fmt.Sprintf("%-*s %*s",
			colDate+colDay+1, fmt.Sprintf("TOTAL (%d days)", len(rows)),
			colNumber, localize.Format2(summary.Total))),
	)
	return strings.Join(lines, "\n")
}

func renderWeeklyTable(weeks []models.WeekRollup) string {
	const colWeek = 23

	lines := []string{
		styles.TableHeaderStyle.Render(fmt.Sprintf("%-*s %4s %*s %*s",
			colWeek, "Week", "Days", colNumber, "Total", colNumber, "Mean")),
	}
	for _, w := range weeks {
		lines = append(lines, fmt.Sprintf("%-*s %4d %*s %*s",
			colWeek, w.Label, w.Days,
			colNumber, localize.Format2(w.Total),
			colNumber, localize.Format2(w.Mean)))
	}
	return strings.Join(lines, "\n")
}

func weeklyTotals(weeks []models.WeekRollup) []float64 {
	out := make([]float64, len(weeks))
	for i, w := range weeks {
		out[i] = w.Total
	}
	return out
}

func weeklyLabels(weeks []models.WeekRollup) []string {
	out := make([]string, len(weeks))
	for i, w := range weeks {
		out[i] = w.Start.Format("02 Jan")
	}
	return out
}
