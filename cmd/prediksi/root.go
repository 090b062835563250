package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/version"
)

// options holds the global flags and the configuration they override.
type options struct {
	bundlePath string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "prediksi",
		Short: "Demand forecast dashboard",
		Long: `prediksi forecasts daily product demand from a model bundle.

Without a subcommand it opens the terminal dashboard. Configuration is read
from .env files and PREDIKSI_* environment variables.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts.cfg)
		},
	}

	root.PersistentFlags().StringVarP(&opts.bundlePath, "bundle", "b", "", "model bundle path (overrides PREDIKSI_BUNDLE_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		productsCmd(opts),
		forecastCmd(opts),
		exportCmd(opts),
		serveCmd(opts),
		bundleCmd(),
		versionCmd(),
	)
	return root
}

// load reads the configuration and applies the global flags. Subcommands
// log to stderr; the dashboard redirects logging to a file.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.bundlePath != "" {
		cfg.BundlePath = o.bundlePath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	o.cfg = cfg

	logger.SetOutput(cmd.ErrOrStderr(), logger.ParseLevel(cfg.LogLevel))
	return nil
}

// manager starts the services and fails fast when the bundle did not load.
func (o *options) manager() (*services.Manager, error) {
	mgr, err := services.NewManager(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if _, err := mgr.Catalog(); err != nil {
		_ = mgr.Close()
		var le *catalog.LoadError
		if errors.As(err, &le) && le.Kind == catalog.NotFound {
			return nil, fmt.Errorf("%w (create one with `prediksi bundle demo %s`)", err, le.Path)
		}
		return nil, err
	}
	return mgr, nil
}
