package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"ev-dashboard/internal/store"

	"github.com/spf13/cobra"
)

func (a *app) loadsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "loads [id]",
		Short: "Show the dataset load log",
		Long: `Without arguments, lists the most recent load attempts recorded by
"evdash serve". With a load ID, prints that load and its errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(a.cfg.DBDriver, a.cfg.DBDSN)
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				info, err := st.GetLoad(ctx, args[0])
				if err != nil {
					return err
				}
				errs, err := st.LoadErrors(ctx, info.ID)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "ID:\t%s\n", info.ID)
				fmt.Fprintf(tw, "Source:\t%s\n", info.Source)
				fmt.Fprintf(tw, "Status:\t%s\n", info.Status)
				fmt.Fprintf(tw, "Checksum:\t%s\n", info.Checksum)
				fmt.Fprintf(tw, "Started:\t%s\n", formatTime(info.StartedAt))
				fmt.Fprintf(tw, "Finished:\t%s\n", formatTime(info.FinishedAt))
				fmt.Fprintf(tw, "Rows:\t%d read, %d kept, %d dropped, %d ranges defaulted\n",
					info.Stats.Raw, info.Stats.Kept, info.Stats.Dropped(), info.Stats.RangeDefaulted)
				for _, e := range errs {
					fmt.Fprintf(tw, "Error:\t%s\n", e)
				}
				return tw.Flush()
			}

			loads, err := st.ListLoads(ctx, limit)
			if err != nil {
				return err
			}
			if len(loads) == 0 {
				fmt.Fprintln(out, "No loads recorded")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tRECORDS\tSTARTED\tSOURCE")
			for _, l := range loads {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.ID, l.Status, l.Stats.Kept, formatTime(l.StartedAt), l.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of loads to list")
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
