package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"ev-dashboard/internal/chart"
	"ev-dashboard/internal/pipeline"
	"ev-dashboard/pkg/utils"

	"github.com/spf13/cobra"
)

func (a *app) chartsCmd() *cobra.Command {
	var (
		ff     filterFlags
		kind   string
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the dashboard charts to files",
		Long: `Renders the top companies bar chart (make), the registrations per model
year line chart (year) and the company share pie chart (pie) for the filtered
registrations. Files are written to <out>/<load id>/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := chart.Kinds
			if kind != "" && kind != "all" {
				k, err := chart.ParseKind(kind)
				if err != nil {
					return err
				}
				kinds = []chart.Kind{k}
			}
			f, err := chart.ParseFormat(format)
			if err != nil {
				return err
			}
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			v := d.ViewFor(ff.state())
			opts := chart.Options{Width: a.cfg.ChartWidth, Height: a.cfg.ChartHeight, TopN: a.cfg.ChartTopN}
			om := utils.NewOutputManager(a.exportDir(outDir))
			out := cmd.OutOrStdout()

			for _, k := range kinds {
				var buf bytes.Buffer
				err := chart.Render(&buf, k, f, v, opts)
				if errors.Is(err, chart.ErrNoData) {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s chart skipped: %v\n", k, err)
					continue
				}
				if err != nil {
					return fmt.Errorf("render %s chart: %w", k, err)
				}
				path, err := om.GetOutputFilePath(d.LoadInfo().ID, string(k)+"."+string(f))
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "✓ %s chart: %s\n", k, path)
			}
			return nil
		},
	}
	ff.bind(cmd, false)
	cmd.Flags().StringVar(&kind, "kind", "all", "make, year, pie or all")
	cmd.Flags().StringVar(&format, "format", "svg", "svg or png")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default is export_dir from config)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		ff       filterFlags
		format   string
		outDir   string
		toStdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered registrations as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "json" {
				return fmt.Errorf("%w: %q", pipeline.ErrUnknownFormat, format)
			}
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			filters := ff.filters()
			records, err := d.Filtered(filters)
			if err != nil {
				return err
			}
			meta := pipeline.ExportMeta{LoadID: d.LoadInfo().ID, Filters: filters}

			if toStdout {
				_, err := pipeline.Export(cmd.OutOrStdout(), format, records, meta)
				return err
			}
			om := utils.NewOutputManager(a.exportDir(outDir))
			res, err := pipeline.ExportToFile(om, "ev_registrations."+format, records, meta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s records to %s\n", pipeline.FormatCount(res.RecordCount), res.Path)
			return nil
		},
	}
	ff.bind(cmd, false)
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default is export_dir from config)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write to standard output instead of a file")
	return cmd
}

func (a *app) exportDir(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.ExportDir
}
