// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// Loading resources.
const (
	ResourceInitial  = "initial"
	ResourceForecast = "forecast"
	ResourceExport   = "export"
	ResourceHistory  = "history"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Forecast bool
	Export   bool
	History  bool
}

// HistoryView is the loaded history of one product.
type HistoryView struct {
	Product      string
	Stats        models.HistoricalStats
	Observations []models.Observation
}

// State is the application state shared between the model and its tabs.
type State struct {
	mu sync.RWMutex

	catalogInfo *catalog.Info
	products    []string
	loadErr     error

	selected    string
	result      *forecast.Result
	forecastErr error
	history     *HistoryView
	historyErr  error
	lastExport  string

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceForecast:
		s.Loading.Forecast = loading
	case ResourceExport:
		s.Loading.Export = loading
	case ResourceHistory:
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Forecast ||
		s.Loading.Export ||
		s.Loading.History
}

// IsLoading reports whether resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceInitial:
		return s.Loading.Initial
	case ResourceForecast:
		return s.Loading.Forecast
	case ResourceExport:
		return s.Loading.Export
	case ResourceHistory:
		return s.Loading.History
	}
	return false
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Forecast {
		resources = append(resources, ResourceForecast)
	}
	if s.Loading.Export {
		resources = append(resources, ResourceExport)
	}
	if s.Loading.History {
		resources = append(resources, ResourceHistory)
	}
	return resources
}

// SetCatalog records the outcome of a bundle load. A nil info with a
// non-nil err means no catalog is available.
func (s *State) SetCatalog(info *catalog.Info, products []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalogInfo = info
	s.products = products
	s.loadErr = err
	s.LastUpdated = time.Now()
}

// GetCatalogInfo returns the loaded bundle's info, or nil.
func (s *State) GetCatalogInfo() *catalog.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogInfo
}

// GetProducts returns a copy of the product keys of the loaded catalog.
func (s *State) GetProducts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]string, len(s.products))
	copy(products, s.products)
	return products
}

// GetLoadError returns the bundle load error, if any.
func (s *State) GetLoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// CatalogReady reports whether a catalog is loaded.
func (s *State) CatalogReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogInfo != nil
}

// SetSelectedProduct records the product picked in the forecast tab.
func (s *State) SetSelectedProduct(product string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = product
}

// GetSelectedProduct returns the selected product key.
func (s *State) GetSelectedProduct() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetResult stores a successful forecast and clears the previous error.
func (s *State) SetResult(res *forecast.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = res
	s.forecastErr = nil
	s.LastUpdated = time.Now()
}

// SetForecastError stores a failed forecast. The previous result is
// dropped so a stale forecast is never shown next to the error.
func (s *State) SetForecastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = nil
	s.forecastErr = err
}

// GetResult returns the last successful forecast, or nil.
func (s *State) GetResult() *forecast.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// GetForecastError returns the error of the last forecast attempt.
func (s *State) GetForecastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forecastErr
}

// SetHistory stores the loaded history of a product.
func (s *State) SetHistory(h *HistoryView, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = h
	s.historyErr = err
}

// GetHistory returns the loaded history and its load error.
func (s *State) GetHistory() (*HistoryView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history, s.historyErr
}

// SetLastExport records the path of the last written CSV.
func (s *State) SetLastExport(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastExport = path
}

// GetLastExport returns the path of the last written CSV.
func (s *State) GetLastExport() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastExport
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
