package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"adaptkit/internal/codec"
	"adaptkit/internal/domain"
	"adaptkit/internal/watcher"
)

var extractFlags struct {
	format  string
	dbPath  string
	noSave  bool
	watch   bool
	workers int
}

var extractCmd = &cobra.Command{
	Use:   "extract <model.yaml|dir>",
	Short: "Extract elements from every active root variant of a model",
	Long: "Extract runs the applicable adapters over the model and prints one unit per\n" +
		"active root variant. Interrupting stops after the current unit; the partial\n" +
		"report is still printed and stored as canceled.",
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVarP(&extractFlags.format, "format", "f", "text", "Output format: text, json, yaml")
	f.StringVar(&extractFlags.dbPath, "db", "", "Run store path (default from config)")
	f.BoolVar(&extractFlags.noSave, "no-save", false, "Do not store the run")
	f.BoolVarP(&extractFlags.watch, "watch", "w", false, "Re-extract when the model or its files change")
	f.IntVar(&extractFlags.workers, "workers", 0, "Parallel leaves per unit (default from config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	exporter, err := codec.ExporterFor(extractFlags.format)
	if err != nil {
		return err
	}

	modelPath := args[0]
	model, err := loadModel(modelPath)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, appOptions{
		dbPath:  extractFlags.dbPath,
		persist: !extractFlags.noSave,
		workers: extractFlags.workers,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	status := &lockedWriter{w: cmd.ErrOrStderr()}
	stopProgress := a.followProgress(status)
	defer stopProgress()

	ctx := cmd.Context()
	if err := extractOnce(ctx, a, model, exporter, cmd.OutOrStdout(), status); err != nil {
		return err
	}
	if !extractFlags.watch || ctx.Err() != nil {
		return nil
	}

	w := watchModel(modelPath, model, func(ctx context.Context, model *domain.VariantsModel) {
		a.source.Purge()
		if err := extractOnce(ctx, a, model, exporter, cmd.OutOrStdout(), status); err != nil {
			slog.Error("re-extraction failed", "error", err)
		}
	})
	if !extractFlags.noSave {
		db := storePath()
		w.Ignore(db, db+"-wal", db+"-shm", db+"-journal")
	}
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// watchModel calls rerun with the current model whenever the model or one of its
// local files changes. The model is reloaded when its file, or anything under a
// directory model, changes, and the watched file set follows the reloaded leaves.
func watchModel(modelPath string, model *domain.VariantsModel, rerun func(context.Context, *domain.VariantsModel)) *watcher.Watcher {
	file := modelFile(modelPath)
	var w *watcher.Watcher
	w = watcher.New(watcher.ModelPaths(file, model), func(ctx context.Context, path string) {
		if file == "" || samePath(path, file) {
			reloaded, err := loadModel(modelPath)
			if err != nil {
				slog.Warn("model reload failed, keeping previous model", "error", err)
				return
			}
			model = reloaded
			w.SetFiles(watcher.ModelPaths(file, model))
		}
		rerun(ctx, model)
	})
	if file == "" {
		w.WatchTree(modelPath)
	}
	return w
}

// extractOnce runs the model and prints the report, even when the run was canceled
func extractOnce(ctx context.Context, a *app, model *domain.VariantsModel, exporter codec.Exporter, out, status io.Writer) error {
	report, err := a.service.Run(ctx, model)
	if report != nil {
		if exportErr := exporter.Export(report, out); exportErr != nil {
			return exportErr
		}
		if report.Canceled {
			fmt.Fprintf(status, "extraction canceled after %d of %d units\n", len(report.Units), model.ActiveCount())
		}
		if report.ID != 0 {
			fmt.Fprintf(status, "saved run #%d\n", report.ID)
		}
	}
	return err
}

// storePath is the run store the extract command writes to
func storePath() string {
	if extractFlags.dbPath != "" {
		return extractFlags.dbPath
	}
	return cfg.Database.Path
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
