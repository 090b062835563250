package info

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderBundleCard(),
		m.renderConfigCard(),
		m.renderHelpCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Model bundle, configuration and usage")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) card(title string, rows ...string) string {
	rows = append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderBundleCard() string {
	info := m.state.GetCatalogInfo()
	if info == nil {
		err := m.state.GetLoadError()
		if err == nil {
			return m.card("Model Bundle", styles.HelpStyle.Render("Loading..."))
		}
		_, headline, hint := app.Describe(err)
		return m.card("Model Bundle",
			styles.ErrorTextStyle.Render(headline),
			err.Error(),
			"",
			styles.InfoTextStyle.Render(hint),
		)
	}

	return m.card("Model Bundle",
		renderRow("Path", info.Path),
		renderRow("Created", orDash(info.CreatedAt)),
		renderRow("Source", orDash(info.Source)),
		renderRow("Products", localize.Integer(info.Products)),
	)
}

func (m *Model) renderConfigCard() string {
	if m.config == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	notify := "off"
	if m.config.DesktopNotify {
		notify = "on"
	}
	return m.card("Configuration",
		renderRow("Bundle", m.config.BundlePath),
		renderRow("Export Dir", m.config.ExportDir),
		renderRow("HTTP Address", m.config.HTTPAddr),
		renderRow("Log File", m.config.LogPath),
		renderRow("Log Level", m.config.LogLevel),
		renderRow("Default Range", m.config.DefaultStart.Format(models.DateLayout)+" to "+m.config.DefaultEnd.Format(models.DateLayout)),
		renderRow("Notifications", notify),
		renderRow("Watch Debounce", m.config.WatchDebounce.String()),
	)
}

func (m *Model) renderHelpCard() string {
	steps := []string{
		"1. Pick a product in the Forecast tab (/ to search).",
		"2. Type the start and end dates as YYYY-MM-DD.",
		"3. Press enter to run the forecast.",
		"4. Press e to export the daily table as CSV.",
		"5. See the product's history in the History tab.",
	}

	rows := make([]string, 0, len(steps)+6)
	for _, s := range steps {
		rows = append(rows, styles.HelpDescStyle.Render(s))
	}
	rows = append(rows, "", styles.SubTitleStyle.Render("Range tips"))
	for _, a := range []forecast.Advice{forecast.AdviceOptimal, forecast.AdviceFair, forecast.AdviceLong} {
		rows = append(rows, styles.HelpDescStyle.Render("- "+a.Text()))
	}

	return m.card("How to use", rows...)
}

func (m *Model) renderAboutCard() string {
	return m.card("About prediksi",
		renderRow("Version", version.GetVersion()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Build Date", version.GetDate()),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
