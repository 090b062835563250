// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/report"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services/bundle"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services/export"
)

type (
	// CatalogLoadedEvent is emitted when the model catalog becomes available.
	CatalogLoadedEvent struct {
		Info catalog.Info
	}

	// BundleChangedEvent is emitted when the bundle file changes on disk.
	// The loaded catalog is frozen, so the change takes effect on restart.
	BundleChangedEvent struct {
		Path    string
		Removed bool
	}

	// ExportedEvent is emitted after a forecast has been written to CSV.
	ExportedEvent struct {
		Product string
		Path    string
		Rows    int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (CatalogLoadedEvent) isServiceEvent() {}
func (BundleChangedEvent) isServiceEvent() {}
func (ExportedEvent) isServiceEvent()      {}
func (ErrorEvent) isServiceEvent()         {}

// ErrCatalogUnavailable is returned by operations that need a catalog while
// none is loaded.
var ErrCatalogUnavailable = errors.New("model catalog is not loaded")

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	catalog     *catalog.Catalog
	loadErr     error
	watcher     *bundle.Watcher
	exporter    *export.Service
	stopChan    chan struct{}
	closeOnce   sync.Once
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager. A bundle that fails to load
// does not fail the manager: the error is kept and reported through
// LoadError so the UI can show it.
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}

	var opts []export.Option
	if cfg.DesktopNotify {
		opts = append(opts, export.WithNotifier(export.DesktopNotifier))
	}
	m.exporter = export.New(cfg.ExportDir, opts...)

	m.catalog, m.loadErr = catalog.Shared(cfg.BundlePath)
	if m.loadErr != nil {
		logger.Error("failed to load model bundle", "path", cfg.BundlePath, "error", m.loadErr)
	}

	w, err := bundle.New(cfg.BundlePath, cfg.WatchDebounce)
	if err != nil {
		logger.Warn("bundle watcher disabled", "error", err)
	} else {
		m.watcher = w
		go m.routeEvents()
	}

	return m, nil
}

// routeEvents routes events from the bundle watcher to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event, ok := <-m.watcher.Events():
			if !ok {
				return
			}
			m.handleBundleEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleBundleEvent(event bundle.Event) {
	switch event.Type {
	case bundle.EventChanged, bundle.EventRemoved:
		m.broadcast(BundleChangedEvent{Path: event.Path, Removed: event.Type == bundle.EventRemoved})

	case bundle.EventError:
		m.broadcast(ErrorEvent{Service: "bundle", Error: event.Error})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Catalog returns the loaded catalog, or the load error.
func (m *Manager) Catalog() (*catalog.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		if m.loadErr != nil {
			return nil, m.loadErr
		}
		return nil, ErrCatalogUnavailable
	}
	return m.catalog, nil
}

// LoadError returns the error of the last failed bundle load, if any.
func (m *Manager) LoadError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadErr
}

// Reload retries loading the bundle when no catalog is loaded yet. Once a
// catalog is loaded it stays for the life of the process.
func (m *Manager) Reload() error {
	m.mu.Lock()
	if m.catalog != nil {
		m.mu.Unlock()
		return nil
	}
	c, err := catalog.Shared(m.cfg.BundlePath)
	m.catalog, m.loadErr = c, err
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.broadcast(CatalogLoadedEvent{Info: c.Info()})
	return nil
}

// Products returns the catalog keys matching query. See catalog.Filter.
func (m *Manager) Products(query string) ([]string, bool, error) {
	c, err := m.Catalog()
	if err != nil {
		return nil, false, err
	}
	matches, fellBack := catalog.Filter(c.Keys(), query)
	return matches, fellBack, nil
}

// Forecast runs the forecast pipeline for product over start to end.
func (m *Manager) Forecast(product string, start, end time.Time) (*forecast.Result, error) {
	c, err := m.Catalog()
	if err != nil {
		return nil, err
	}
	return forecast.Run(c, product, start, end)
}

// History returns the historical stats and observations of product.
func (m *Manager) History(product string) (models.HistoricalStats, []models.Observation, error) {
	c, err := m.Catalog()
	if err != nil {
		return models.HistoricalStats{}, nil, err
	}

	e, err := c.Get(product)
	if err != nil {
		return models.HistoricalStats{}, nil, err
	}
	return report.History(e.History, e.Metrics), e.History, nil
}

// Export writes the CSV export of res and broadcasts an ExportedEvent.
func (m *Manager) Export(res *forecast.Result) (string, error) {
	path, err := m.exporter.Write(res)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "export", Error: err})
		return "", err
	}

	m.broadcast(ExportedEvent{Product: res.Product, Path: path, Rows: len(res.Export.Rows)})
	return path, nil
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		if m.watcher != nil {
			err = m.watcher.Close()
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()
	})
	return err
}
