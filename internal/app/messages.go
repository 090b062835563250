package app

import (
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// CatalogStateMsg carries the outcome of loading the model bundle.
type CatalogStateMsg struct {
	Info     *catalog.Info
	Products []string
	Err      error
}

// ReloadMsg requests another attempt at loading the model bundle.
type ReloadMsg struct{}

// ProductSelectedMsg signals that the highlighted product changed.
type ProductSelectedMsg struct {
	Product string
}

// ForecastRequestMsg asks for a forecast of Product over the raw date
// strings Start and End, exactly as the user typed them.
type ForecastRequestMsg struct {
	Product string
	Start   string
	End     string
}

// ForecastReadyMsg carries a successful forecast.
type ForecastReadyMsg struct {
	Result *forecast.Result
}

// ForecastErrorMsg carries a failed forecast.
type ForecastErrorMsg struct {
	Product string
	Err     error
}

// ExportRequestMsg asks for the current forecast to be written as CSV.
type ExportRequestMsg struct{}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Path  string
	Error error
}

// HistoryLoadedMsg carries the history of a product.
type HistoryLoadedMsg struct {
	History *HistoryView
	Err     error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
