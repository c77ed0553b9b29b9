package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded scan runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.cfg.Cache.Enabled = true
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.Runs(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tROOT\tFILES\tFAILED\tCACHED\tIMPORTS\tEXPORTS\tDURATION")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					r.Root,
					r.FileCount,
					r.FailedCount,
					r.CacheHits,
					r.ImportCount,
					r.ExportCount,
					r.Duration,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
