// Package dashboard provides the Forecast tab: product search and selection,
// the date range form and the rendered forecast report.
package dashboard

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/styles"
)

// focus is the part of the tab receiving keys.
type focus int

const (
	focusProducts focus = iota
	focusSearch
	focusStart
	focusEnd
	focusResults
	focusCount
)

// keyMap defines the key bindings specific to the forecast tab.
type keyMap struct {
	Run     key.Binding
	Export  key.Binding
	Search  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Escape  key.Binding
	Results key.Binding
}

// defaultKeyMap returns the default key bindings for the forecast tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run forecast"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export CSV"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave field"),
		),
		Results: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "scroll report"),
		),
	}
}

// Model represents the forecast tab state.
type Model struct {
	state      *app.State
	table      table.Model
	search     textinput.Model
	startInput textinput.Model
	endInput   textinput.Model
	viewport   viewport.Model
	spinner    components.LoadingSpinner
	keys       keyMap
	focus      focus
	// selected is the product last announced with ProductSelectedMsg.
	selected string
	fellBack bool
	width    int
	height   int
}

// New creates the forecast tab with the configured default date range.
func New(state *app.State, cfg *config.Config) *Model {
	search := textinput.New()
	search.Placeholder = "Search products..."
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 30

	start := newDateInput()
	end := newDateInput()
	if cfg != nil {
		start.SetValue(cfg.DefaultStart.Format(models.DateLayout))
		end.SetValue(cfg.DefaultEnd.Format(models.DateLayout))
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Product", Width: 30},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	m := &Model{
		state:      state,
		table:      t,
		search:     search,
		startInput: start,
		endInput:   end,
		viewport:   viewport.New(0, 0),
		spinner:    components.NewSpinner("Forecasting..."),
		keys:       defaultKeyMap(),
		focus:      focusProducts,
	}
	m.refreshProducts()
	return m
}

func newDateInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = models.DateLayout
	ti.Prompt = ""
	ti.CharLimit = len(models.DateLayout)
	ti.Width = len(models.DateLayout) + 1
	return ti
}

// Init initializes the forecast tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick())
}

// CapturingInput reports whether a text field has focus.
func (m *Model) CapturingInput() bool {
	switch m.focus {
	case focusSearch, focusStart, focusEnd:
		return true
	}
	return false
}

// Update handles messages for the forecast tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case app.CatalogStateMsg:
		m.refreshProducts()
		cmds = append(cmds, m.announceSelection())

	case app.ForecastReadyMsg, app.ForecastErrorMsg, app.ExportResultMsg:
		m.refreshReport()
		m.viewport.GotoTop()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus - 1 + focusCount) % focusCount)

	case key.Matches(msg, m.keys.Escape):
		if m.focus != focusProducts {
			return m.setFocus(focusProducts)
		}
		return nil

	case key.Matches(msg, m.keys.Run):
		return m.requestForecast()
	}

	if !m.CapturingInput() {
		switch {
		case key.Matches(msg, m.keys.Search):
			return m.setFocus(focusSearch)
		case key.Matches(msg, m.keys.Results):
			return m.setFocus(focusResults)
		case key.Matches(msg, m.keys.Export):
			return func() tea.Msg { return app.ExportRequestMsg{} }
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
		m.refreshProducts()
		return tea.Batch(cmd, m.announceSelection())
	case focusStart:
		m.startInput, cmd = m.startInput.Update(msg)
	case focusEnd:
		m.endInput, cmd = m.endInput.Update(msg)
	case focusResults:
		m.viewport, cmd = m.viewport.Update(msg)
	default:
		m.table, cmd = m.table.Update(msg)
		return tea.Batch(cmd, m.announceSelection())
	}
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.search.Blur()
	m.startInput.Blur()
	m.endInput.Blur()
	m.table.Blur()

	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusStart:
		return m.startInput.Focus()
	case focusEnd:
		return m.endInput.Focus()
	case focusProducts:
		m.table.Focus()
	}
	return nil
}

func (m *Model) requestForecast() tea.Cmd {
	product := m.SelectedProduct()
	if product == "" {
		return nil
	}
	req := app.ForecastRequestMsg{
		Product: product,
		Start:   m.startInput.Value(),
		End:     m.endInput.Value(),
	}
	return func() tea.Msg { return req }
}

// refreshProducts rebuilds the table rows from the catalog and the search.
func (m *Model) refreshProducts() {
	var matches []string
	matches, m.fellBack = catalog.Filter(m.state.GetProducts(), m.search.Value())

	rows := make([]table.Row, len(matches))
	for i, p := range matches {
		rows[i] = table.Row{strconv.Itoa(i + 1), p}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// announceSelection emits ProductSelectedMsg when the highlighted product
// differs from the last one announced.
func (m *Model) announceSelection() tea.Cmd {
	product := m.SelectedProduct()
	if product == "" || product == m.selected {
		return nil
	}
	m.selected = product
	return func() tea.Msg { return app.ProductSelectedMsg{Product: product} }
}

// SelectedProduct returns the highlighted product, or "" when the list is
// empty.
func (m *Model) SelectedProduct() string {
	row := m.table.SelectedRow()
	if len(row) < 2 {
		return ""
	}
	return row[1]
}

// SetSize sets the available size for the forecast tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(min(max(width/3, 30), 44))
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-formHeight, 3)
	m.refreshReport()
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Run, m.keys.Export, m.keys.Search, m.keys.Next}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Run, m.keys.Export},
		{m.keys.Search, m.keys.Results, m.keys.Next, m.keys.Prev, m.keys.Escape},
	}
}
