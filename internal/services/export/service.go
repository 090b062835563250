// Package export writes forecast reports to CSV files.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/report"
)

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

// Service writes exports into a directory.
type Service struct {
	dir    string
	notify Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the desktop notifier. Passing nil disables notifications.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notify = n
	}
}

// DesktopNotifier sends notifications through the platform notifier.
func DesktopNotifier(title, message string) error {
	return beeep.Notify(title, message, "")
}

// New creates an export service writing into dir.
func New(dir string, opts ...Option) *Service {
	s := &Service{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write saves the CSV export of res and returns the file path. The file is
// written to a temporary name first so readers never see a partial export.
func (s *Service) Write(res *forecast.Result) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(s.dir, res.Filename())
	tmp, err := os.CreateTemp(s.dir, ".prediksi-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := report.WriteCSV(tmp, res.Export); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	logger.Info("forecast exported", "product", res.Product, "path", path, "rows", len(res.Export.Rows))

	if s.notify != nil {
		msg := fmt.Sprintf("%s: %d days saved to %s", res.Product, res.Days, filepath.Base(path))
		if err := s.notify("Forecast exported", msg); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
	return path, nil
}
