package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

var errNoForecast = errors.New("no forecast to export, run one first")

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadCatalogCmd reports the manager's current catalog state.
func loadCatalogCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return catalogState(mgr)
	}
}

// reloadCatalogCmd retries the bundle load and reports the new state.
func reloadCatalogCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		_ = mgr.Reload()
		return catalogState(mgr)
	}
}

func catalogState(mgr *services.Manager) CatalogStateMsg {
	c, err := mgr.Catalog()
	if err != nil {
		return CatalogStateMsg{Err: err}
	}
	info := c.Info()
	return CatalogStateMsg{Info: &info, Products: c.Keys()}
}

// runForecastCmd parses the typed dates and runs the forecast.
func runForecastCmd(mgr *services.Manager, req ForecastRequestMsg) tea.Cmd {
	return func() tea.Msg {
		start, err := forecast.ParseDate("start date", req.Start)
		if err != nil {
			return ForecastErrorMsg{Product: req.Product, Err: err}
		}
		end, err := forecast.ParseDate("end date", req.End)
		if err != nil {
			return ForecastErrorMsg{Product: req.Product, Err: err}
		}

		res, err := mgr.Forecast(req.Product, start, end)
		if err != nil {
			return ForecastErrorMsg{Product: req.Product, Err: err}
		}
		return ForecastReadyMsg{Result: res}
	}
}

// exportCmd writes res as CSV.
func exportCmd(mgr *services.Manager, res *forecast.Result) tea.Cmd {
	return func() tea.Msg {
		if res == nil {
			return ExportResultMsg{Error: errNoForecast}
		}
		path, err := mgr.Export(res)
		return ExportResultMsg{Path: path, Error: err}
	}
}

// loadHistoryCmd loads the historical stats of product.
func loadHistoryCmd(mgr *services.Manager, product string) tea.Cmd {
	return func() tea.Msg {
		stats, obs, err := mgr.History(product)
		if err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		return HistoryLoadedMsg{History: &HistoryView{Product: product, Stats: stats, Observations: obs}}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadCatalog returns a command that reports the catalog state.
func (c *Commands) LoadCatalog() tea.Cmd {
	return loadCatalogCmd(c.manager)
}

// Reload returns a command that retries the bundle load.
func (c *Commands) Reload() tea.Cmd {
	return reloadCatalogCmd(c.manager)
}

// RunForecast returns a command that runs a forecast.
func (c *Commands) RunForecast(req ForecastRequestMsg) tea.Cmd {
	return runForecastCmd(c.manager, req)
}

// Export returns a command that writes res as CSV.
func (c *Commands) Export(res *forecast.Result) tea.Cmd {
	return exportCmd(c.manager, res)
}

// LoadHistory returns a command that loads a product's history.
func (c *Commands) LoadHistory(product string) tea.Cmd {
	return loadHistoryCmd(c.manager, product)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}
