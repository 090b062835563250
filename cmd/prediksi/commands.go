package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/httpapi"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/localize"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/report"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/version"
)

const shutdownTimeout = 5 * time.Second

// productsCmd lists the products of the bundle.
func productsCmd(opts *options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products of the model bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := opts.manager()
			if err != nil {
				return err
			}
			defer mgr.Close()

			products, fellBack, err := mgr.Products(search)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if fellBack {
				fmt.Fprintf(cmd.ErrOrStderr(), "No product matches %q, listing all %d.\n", search, len(products))
			}
			for _, p := range products {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring filter")
	return cmd
}

// rangeFlags are the product and date flags shared by forecast and export.
type rangeFlags struct {
	product string
	start   string
	end     string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.product, "product", "p", "", "product key (required)")
	cmd.Flags().StringVar(&f.start, "start", "", "first day, YYYY-MM-DD (default PREDIKSI_DEFAULT_START)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day, YYYY-MM-DD (default PREDIKSI_DEFAULT_END)")
	_ = cmd.MarkFlagRequired("product")
}

// run validates the flags and runs the forecast.
func (f *rangeFlags) run(opts *options, mgr *services.Manager) (*forecast.Result, error) {
	startText, endText := f.start, f.end
	if startText == "" {
		startText = opts.cfg.DefaultStart.Format(models.DateLayout)
	}
	if endText == "" {
		endText = opts.cfg.DefaultEnd.Format(models.DateLayout)
	}

	start, err := forecast.ParseDate("start date", startText)
	if err != nil {
		return nil, err
	}
	end, err := forecast.ParseDate("end date", endText)
	if err != nil {
		return nil, err
	}
	return mgr.Forecast(f.product, start, end)
}

// forecastCmd prints a forecast report, or its CSV export with --csv.
func forecastCmd(opts *options) *cobra.Command {
	var (
		flags rangeFlags
		asCSV bool
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast daily demand of a product",
		Example: `  prediksi forecast --product "Gula Pasir 1kg" --start 2025-12-01 --end 2025-12-31
  prediksi forecast -p "Gula Pasir 1kg" --csv > gula.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := opts.manager()
			if err != nil {
				return err
			}
			defer mgr.Close()

			res, err := flags.run(opts, mgr)
			if err != nil {
				return err
			}

			if res.Warning != nil {
				logger.Warn("large forecast range", "days", res.Days, "max", forecast.MaxRecommendedDays)
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", res.Warning.Error())
			}
			if asCSV {
				return report.WriteCSV(cmd.OutOrStdout(), res.Export)
			}
			printReport(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write the CSV export to stdout instead of the report")
	return cmd
}

// exportCmd writes the CSV export into the export directory.
func exportCmd(opts *options) *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a forecast as CSV into the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := opts.manager()
			if err != nil {
				return err
			}
			defer mgr.Close()

			res, err := flags.run(opts, mgr)
			if err != nil {
				return err
			}

			path, err := mgr.Export(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// serveCmd runs the HTTP API until interrupted.
func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve products, history and forecasts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = opts.cfg.HTTPAddr
			}

			mgr, err := opts.manager()
			if err != nil {
				return err
			}
			defer mgr.Close()

			srv := httpapi.New(mgr, opts.cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down http api")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default PREDIKSI_HTTP_ADDR)")
	return cmd
}

// bundleCmd groups model bundle maintenance.
func bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Manage model bundles",
	}
	cmd.AddCommand(bundleDemoCmd())
	return cmd
}

func bundleDemoCmd() *cobra.Command {
	var end string

	cmd := &cobra.Command{
		Use:   "demo <path>",
		Short: "Write a bundle of synthetic products fitted on generated history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endDate := time.Now().UTC()
			if end != "" {
				d, err := forecast.ParseDate("end date", end)
				if err != nil {
					return err
				}
				endDate = d
			}

			keys, err := catalog.WriteDemo(args[0], endDate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d products to %s\n", len(keys), args[0])
			for _, k := range keys {
				fmt.Fprintln(out, "  "+k)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "day after the last day of history, YYYY-MM-DD (default today)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// printReport writes the forecast report as plain tables.
func printReport(w io.Writer, res *forecast.Result) {
	fmt.Fprintf(w, "%s, %s to %s (%d days)\n%s\n\n",
		res.Product, res.Start.Format(models.DateLayout), res.End.Format(models.DateLayout),
		res.Days, res.Advice.Text())

	fmt.Fprintf(w, "Total %s  Mean %s  Min %s  Max %s\n\n",
		localize.Format2(res.Summary.Total), localize.Format2(res.Summary.Mean),
		localize.Format2(res.Summary.Min), localize.Format2(res.Summary.Max))

	daily := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Day", "Prediction", "Min", "Max")
	for _, r := range res.Daily {
		daily.Row(r.Date, r.Weekday,
			localize.Format2(r.Prediction), localize.Format2(r.Lower), localize.Format2(r.Upper))
	}
	daily.Row(fmt.Sprintf("TOTAL (%d days)", res.Days), "", localize.Format2(res.Summary.Total), "", "")
	fmt.Fprintln(w, daily.Render())

	if len(res.Weekly) == 0 {
		return
	}

	weekly := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Week", "Days", "Total", "Mean")
	for _, wk := range res.Weekly {
		weekly.Row(wk.Label, localize.Integer(wk.Days), localize.Format2(wk.Total), localize.Format2(wk.Mean))
	}
	fmt.Fprintln(w, weekly.Render())
}
