// Package cli is the evdash command line: the HTTP server plus one-shot
// commands that print the dashboard to the terminal.
package cli

import (
	"context"
	"fmt"
	"os"

	"ev-dashboard/internal/config"
	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/model"

	"github.com/spf13/cobra"
)

// app carries the global flags and the loaded configuration for one
// invocation of the root command.
type app struct {
	cfgFile    string
	flagSource string

	cfg *config.Global
}

// NewRootCmd builds the evdash command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "evdash",
		Short: "EV registration dashboard",
		Long: `evdash loads an electric vehicle registration CSV and serves it as a
filterable dashboard over HTTP, or prints the same summaries, tables and
charts from the command line.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.evdash/config.yaml)")
	root.PersistentFlags().StringVar(&a.flagSource, "source", "", "CSV path or URL (overrides config)")

	root.AddCommand(
		a.serveCmd(),
		a.summaryCmd(),
		a.tableCmd(),
		a.optionsCmd(),
		a.detailCmd(),
		a.chartsCmd(),
		a.exportCmd(),
		a.loadsCmd(),
		a.configCmd(),
	)
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("source") && a.flagSource != "" {
		c.Source = a.flagSource
	}
	a.cfg = c
	return nil
}

// loadDashboard builds a dashboard and waits for its one-shot load.
func (a *app) loadDashboard(ctx context.Context, log dashboard.LoadLog) (*dashboard.Dashboard, error) {
	d, err := a.newDashboard(log)
	if err != nil {
		return nil, err
	}
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (a *app) newDashboard(log dashboard.LoadLog) (*dashboard.Dashboard, error) {
	return dashboard.New(dashboard.Options{
		Source:    a.cfg.Source,
		Timeout:   a.cfg.HTTPTimeout(),
		CacheSize: a.cfg.CacheSize,
		LoadLog:   log,
	})
}

// filterFlags are the per-command selection flags.
type filterFlags struct {
	city    string
	county  string
	company string
	model   string
	year    string
	page    int
}

func (f *filterFlags) bind(cmd *cobra.Command, withPage bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.city, "city", "", "filter by city")
	fl.StringVar(&f.county, "county", "", "filter by county")
	fl.StringVar(&f.company, "company", "", "filter by company (make)")
	fl.StringVar(&f.model, "model", "", "filter by model")
	fl.StringVar(&f.year, "year", "", "filter by model year")
	if withPage {
		fl.IntVar(&f.page, "page", 1, "table page (clamped to the available pages)")
	}
}

func (f *filterFlags) filters() model.FilterState {
	return model.FilterState{
		City:    f.city,
		County:  f.county,
		Company: f.company,
		Model:   f.model,
		Year:    f.year,
	}
}

func (f *filterFlags) state() model.SessionState {
	page := f.page
	if page == 0 {
		page = 1
	}
	return model.SessionState{Filters: f.filters(), Page: page}
}
