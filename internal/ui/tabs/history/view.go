package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/styles"
)

// View renders the history tab.
func (m *Model) View() string {
	product := m.state.GetSelectedProduct()

	var content string
	switch {
	case product == "":
		content = m.renderEmpty()
	case m.state.IsLoading(app.ResourceHistory):
		content = styles.HelpStyle.Render(fmt.Sprintf("Loading history of %s...", product))
	default:
		content = m.viewport.View()
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		styles.HelpStyle.Render("Select a product in the Forecast tab to see its history."),
	)
}

// renderContent renders the loaded history into the scrollable body.
func (m *Model) renderContent() string {
	h, err := m.state.GetHistory()
	if err != nil {
		_, headline, hint := app.Describe(err)
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorTextStyle.Bold(true).Render(headline),
			err.Error(),
			styles.InfoTextStyle.Render(hint),
		)
	}
	if h == nil {
		return m.renderEmpty()
	}

	chartWidth := max(m.viewport.Width-12, 20)
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(h.Product),
		renderStats(h.Stats),
		"",
		styles.SubTitleStyle.Render("Daily demand"),
		components.RenderHistoryChart(h.Observations, chartWidth, 10),
		"",
		styles.SubTitleStyle.Render(fmt.Sprintf("Last %d days", recentDays)),
		components.RenderSparkline(components.RecentValues(h.Observations, recentDays), recentDays),
		"",
		styles.SubTitleStyle.Render("Weekday pattern"),
		components.RenderWeeklyPattern(components.WeekdayMeans(h.Observations), nil),
	)
}

func renderStats(s models.HistoricalStats) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			styles.CardTitleStyle.Width(16).Render(label),
			styles.CardValueStyle.Render(value),
		)
	}

	dates := "-"
	if s.Records > 0 {
		dates = s.First.Format(models.DateLayout) + " to " + s.Last.Format(models.DateLayout)
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		row("Mean / day", localize.Format2(s.Mean)),
		row("Total", localize.Format2(s.Total)),
		row("Records", localize.Integer(s.Records)),
		row("Dates", dates),
		row("MAPE", localize.Format2(s.Metrics.MAPE)+"%"),
		row("MAE", localize.Format2(s.Metrics.MAE)),
		row("Model quality", styles.GetQualityStyle(s.Quality).Render(string(s.Quality))),
	))
}
