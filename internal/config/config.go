// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	BundlePath    string
	ExportDir     string
	HTTPAddr      string
	LogPath       string
	LogLevel      string
	DefaultStart  time.Time
	DefaultEnd    time.Time
	DesktopNotify bool
	WatchDebounce time.Duration
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		BundlePath:    getEnvString(envPrefix+"BUNDLE_PATH", getDefaultBundlePath()),
		ExportDir:     getEnvString(envPrefix+"EXPORT_DIR", getDefaultExportDir()),
		HTTPAddr:      getEnvString(envPrefix+"HTTP_ADDR", defaultHTTPAddr),
		LogPath:       getEnvString(envPrefix+"LOG_PATH", getDefaultLogPath()),
		LogLevel:      getEnvString(envPrefix+"LOG_LEVEL", defaultLogLevel),
		DesktopNotify: getEnvBool(envPrefix+"NOTIFY", true),
		WatchDebounce: getEnvDuration(envPrefix+"WATCH_DEBOUNCE", defaultWatchDebounce),
	}

	var err error
	cfg.DefaultStart, err = getEnvDate(envPrefix+"DEFAULT_START", defaultStartDate)
	if err != nil {
		return nil, err
	}
	cfg.DefaultEnd, err = getEnvDate(envPrefix+"DEFAULT_END", defaultEndDate)
	if err != nil {
		return nil, err
	}
	if !cfg.DefaultStart.Before(cfg.DefaultEnd) {
		return nil, fmt.Errorf("%sDEFAULT_START (%s) must be before %sDEFAULT_END (%s)",
			envPrefix, cfg.DefaultStart.Format(dateLayout), envPrefix, cfg.DefaultEnd.Format(dateLayout))
	}

	return cfg, nil
}

// EnsureExportDir creates the export directory if it doesn't exist.
func (c *Config) EnsureExportDir() error {
	return ensureDir(c.ExportDir)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDir, ".env"),
			filepath.Join(home, "."+appDir, ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultBundlePath returns models_pkl/models.db relative to the working
// directory, where bundles are produced by the training pipeline.
func getDefaultBundlePath() string {
	return filepath.Join(defaultBundleDir, defaultBundleFile)
}

// getDefaultExportDir returns the default directory for CSV exports.
func getDefaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(home, "Downloads")
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDir + ".log"
	}
	return filepath.Join(home, ".config", appDir, appDir+".log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms understood by strconv.ParseBool plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvDate retrieves a YYYY-MM-DD environment variable or parses the default.
func getEnvDate(key, defaultValue string) (time.Time, error) {
	value := getEnvString(key, defaultValue)
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", key, value)
	}
	return d, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
