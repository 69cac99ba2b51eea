package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"adaptkit/internal/config"
	"adaptkit/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is loaded once per invocation by setup
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "adaptkit",
	Short: "Resolve and run artifact adapters over a variants model",
	Long: "adaptkit finds the adapters that apply to the artifacts of a variants model\n" +
		"and extracts the elements they recognize, one unit per active root variant.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "Config file (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG and /etc)")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level override: debug, info, warn, error")
	f.StringVar(&rootFlags.logFormat, "log-format", "", "Log format override: text, json")

	rootCmd.AddCommand(adaptersCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	var (
		loaded *config.Config
		path   string
		err    error
	)
	if rootFlags.configPath != "" {
		loaded, path, err = config.LoadFromPath(rootFlags.configPath)
	} else {
		loaded, path, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if rootFlags.logLevel != "" {
		loaded.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		loaded.Log.Format = rootFlags.logFormat
		if err := loaded.Validate(); err != nil {
			return err
		}
	}

	logging.Init(loaded.LogLevel(), loaded.Log.Format, cmd.ErrOrStderr())
	if path != "" {
		slog.Debug("config loaded", "path", path)
	}

	cfg = loaded
	cfgPath = path
	return nil
}

// cfgPath is the file cfg was read from, empty when defaults are in use
var cfgPath string
