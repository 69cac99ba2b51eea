package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"adaptkit/internal/codec"
)

var showFlags struct {
	format string
	dbPath string
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored run with the adapter that owns each element",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	f := showCmd.Flags()
	f.StringVarP(&showFlags.format, "format", "f", "text", "Output format: text, json, yaml")
	f.StringVar(&showFlags.dbPath, "db", "", "Run store path (default from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	a, err := newApp(cfg, appOptions{dbPath: showFlags.dbPath, persist: true})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.service.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showFlags.format != "text" {
		exporter, err := codec.ExporterFor(showFlags.format)
		if err != nil {
			return err
		}
		return exporter.Export(report, out)
	}

	status := "complete"
	if report.Canceled {
		status = "canceled"
	}
	fmt.Fprintf(out, "Run:      #%d\n", report.ID)
	fmt.Fprintf(out, "Model:    %s\n", report.Model)
	fmt.Fprintf(out, "Status:   %s\n", status)
	fmt.Fprintf(out, "Adapters: %v\n", report.Adapters)
	fmt.Fprintf(out, "Elements: %d\n", report.ElementCount())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, u := range report.Units {
		fmt.Fprintf(tw, "\n[%s]\n", u.Variant)
		for _, el := range u.Elements {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", a.ownerName(el), el.Type, el.Value)
		}
	}
	return tw.Flush()
}
