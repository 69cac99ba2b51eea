package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List registered adapters and the element kinds they own",
	Args:  cobra.NoArgs,
	RunE:  runAdapters,
}

func runAdapters(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKINDS\tENABLED\tICON")
	for _, info := range a.registry.ListAdapters() {
		kinds := make([]string, 0, len(info.Kinds))
		for _, k := range info.Kinds {
			kinds = append(kinds, string(k))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n",
			info.ID, info.Name, strings.Join(kinds, ","), info.Enabled, info.Icon)
	}
	return tw.Flush()
}
