package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"ev-dashboard/internal/api"
	"ev-dashboard/internal/api/handler"
	"ev-dashboard/internal/chart"
	"ev-dashboard/internal/dashboard"
	"ev-dashboard/internal/metrics"
	"ev-dashboard/internal/metrics/prom"
	"ev-dashboard/internal/store"
	"ev-dashboard/pkg/router"

	"github.com/spf13/cobra"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API, websocket and Swagger UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") && addr != "" {
				a.cfg.Addr = addr
			}
			st, err := store.Open(a.cfg.DBDriver, a.cfg.DBDSN)
			if err != nil {
				return err
			}
			defer st.Close()

			var metricsHandler http.Handler
			if a.cfg.MetricsEnabled {
				b, err := prom.NewBackend()
				if err != nil {
					return fmt.Errorf("metrics: %w", err)
				}
				metrics.SetBackend(b)
				defer metrics.SetBackend(nil)
				metricsHandler = b.Handler()
			}

			d, err := a.newDashboard(st)
			if err != nil {
				return err
			}
			// Requests are served while the dataset loads; views report
			// "loading" until it is ready.
			go func() {
				if err := d.Load(context.Background()); err != nil {
					fmt.Fprintf(os.Stderr, "⚠ Warning: dataset unavailable: %v\n", err)
				}
			}()

			r := router.New()
			api.RegisterRoutes(r, a.dashboardHandler(d, st), metricsHandler)
			return r.Start(a.cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) dashboardHandler(d *dashboard.Dashboard, loads handler.LoadLister) *handler.DashboardHandler {
	opts := chart.Options{
		Width:  a.cfg.ChartWidth,
		Height: a.cfg.ChartHeight,
		TopN:   a.cfg.ChartTopN,
	}
	return handler.NewDashboardHandler(d, loads, opts, a.cfg.PingInterval())
}
