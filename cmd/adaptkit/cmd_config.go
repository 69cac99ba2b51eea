package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adaptkit/internal/config"
)

var configInitFlags struct {
	path  string
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and where it came from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	f := configInitCmd.Flags()
	f.StringVar(&configInitFlags.path, "path", "", "Destination (default: XDG config dir)")
	f.BoolVar(&configInitFlags.force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	source := cfgPath
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(out, "Config: %s\n", source)
	fmt.Fprintln(out, cfg.Summary())
	fmt.Fprintln(out, "Search paths:")
	for _, p := range config.SearchPaths() {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configInitFlags.path
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !configInitFlags.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
