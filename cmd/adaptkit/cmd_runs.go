package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsFlags struct {
	limit  int
	dbPath string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored extraction runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVarP(&runsFlags.limit, "limit", "n", 20, "Maximum runs to list (0 = all)")
	f.StringVar(&runsFlags.dbPath, "db", "", "Run store path (default from config)")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, appOptions{dbPath: runsFlags.dbPath, persist: true})
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.service.Runs(cmd.Context(), runsFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tUNITS\tELEMENTS\tSTATUS\tSTARTED\tDURATION")
	for _, r := range runs {
		status := "complete"
		if r.Canceled {
			status = "canceled"
		}
		duration := "-"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.ID, r.Model, r.Units, r.Elements, status,
			r.StartedAt.Local().Format(time.DateTime), duration)
	}
	return tw.Flush()
}
