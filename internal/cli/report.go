package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"ev-dashboard/internal/model"
	"ev-dashboard/internal/pipeline"

	"github.com/spf13/cobra"
)

func (a *app) summaryCmd() *cobra.Command {
	var (
		ff        filterFlags
		breakdown bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total vehicles, top company and top model year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			v := d.ViewFor(ff.state())
			out := cmd.OutOrStdout()

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total Vehicles:\t%s\n", v.Summary.TotalText)
			fmt.Fprintf(tw, "Top Company:\t%s\n", v.Summary.TopMakeText)
			fmt.Fprintf(tw, "Top Year:\t%s\n", v.Summary.TopYearText)
			if peak := v.Summary.PeakYear; peak != nil {
				fmt.Fprintf(tw, "Peak Year:\t%s\n", peak.Text())
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if stats := d.LoadInfo().Stats; stats.Dropped() > 0 || stats.RangeDefaulted > 0 {
				fmt.Fprintf(out, "\nRows: %d read, %d kept, %d dropped (missing %d, bad year %d), %d ranges defaulted\n",
					stats.Raw, stats.Kept, stats.Dropped(), stats.DroppedMissing, stats.DroppedYear, stats.RangeDefaulted)
			}
			if breakdown {
				fmt.Fprintln(out, "\nTop Companies")
				if err := writeBuckets(out, v.TopMakes); err != nil {
					return err
				}
				fmt.Fprintln(out, "\nRegistrations by Year")
				if err := writeBuckets(out, v.ByYear); err != nil {
					return err
				}
			}
			return nil
		},
	}
	ff.bind(cmd, false)
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "also print the top companies and the per-year counts")
	return cmd
}

func writeBuckets(w io.Writer, buckets []model.AggregateBucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, model.NoDataText)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\t%s\t\n", b.Name, pipeline.FormatCount(b.Value))
	}
	return tw.Flush()
}

func (a *app) tableCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print one page of the filtered registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			page := d.ViewFor(ff.state()).Page
			out := cmd.OutOrStdout()

			if page.TotalRecords == 0 {
				fmt.Fprintln(out, model.NoDataText)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SL No.\tCompany\tModel\tYear\tRange\tCity\tCounty")
			for i, r := range page.Records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
					page.StartIndex+i+1, r.Make, r.Model, r.ModelYear, r.Range, r.City, r.County)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nPage %d of %d (%s records)\n",
				page.Number, page.TotalPages, pipeline.FormatCount(page.TotalRecords))
			return nil
		},
	}
	ff.bind(cmd, true)
	return cmd
}

func (a *app) optionsCmd() *cobra.Command {
	var (
		ff  filterFlags
		key string
	)
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the selectable values of each filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := model.FilterKeys
			if key != "" {
				k, err := model.ParseFilterKey(key)
				if err != nil {
					return err
				}
				keys = []model.FilterKey{k}
			}
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			opts := d.ViewFor(ff.state()).Options
			out := cmd.OutOrStdout()

			if len(keys) == 1 {
				for _, o := range opts.For(keys[0]) {
					fmt.Fprintln(out, o)
				}
				return nil
			}
			for _, k := range keys {
				values := opts.For(k)
				fmt.Fprintf(out, "%s (%d): %s\n", k, len(values), strings.Join(values, ", "))
			}
			return nil
		},
	}
	ff.bind(cmd, false)
	cmd.Flags().StringVar(&key, "key", "", "print only this filter's values, one per line")
	return cmd
}

func (a *app) detailCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "detail <sl>",
		Short: "Print every field of the record at row SL of the filtered table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row number %q", args[0])
			}
			d, err := a.loadDashboard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			s := d.NewSession()
			defer d.CloseSession(s.ID)
			s.SetFilters(ff.filters())

			detail, err := s.Detail(sl)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, f := range detail.Fields {
				fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
			}
			return tw.Flush()
		},
	}
	ff.bind(cmd, false)
	return cmd
}
