package config

import "time"

const (
	envPrefix = "PREDIKSI_"
	appDir    = "prediksi"

	defaultBundleDir  = "models_pkl"
	defaultBundleFile = "models.db"

	defaultHTTPAddr      = "127.0.0.1:8080"
	defaultLogLevel      = "info"
	defaultWatchDebounce = 250 * time.Millisecond

	defaultStartDate = "2025-12-01"
	defaultEndDate   = "2025-12-05"

	dateLayout = "2006-01-02"
)
