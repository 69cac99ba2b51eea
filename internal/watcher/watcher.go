// Package watcher re-triggers work when a model or its artifacts change on disk.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"adaptkit/internal/adapter"
	"adaptkit/internal/domain"
	"adaptkit/internal/logging"
)

// DefaultDebounce coalesces bursts of writes into one change
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of files and directory trees and reports changes, debounced
type Watcher struct {
	mu       sync.Mutex
	files    map[string]bool
	trees    []string
	ignored  map[string]bool
	dirs     map[string]bool
	fw       *fsnotify.Watcher
	onChange func(ctx context.Context, path string)
	debounce time.Duration
	log      *slog.Logger
}

// New creates a watcher for paths. onChange runs on the Watch goroutine,
// so changes arriving while it runs are folded into the next call.
func New(paths []string, onChange func(ctx context.Context, path string)) *Watcher {
	return &Watcher{
		files:    absSet(paths),
		ignored:  map[string]bool{},
		dirs:     map[string]bool{},
		onChange: onChange,
		debounce: DefaultDebounce,
		log:      logging.New("watcher"),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WatchTree reports changes to any non-hidden file under root, including
// files and subdirectories created after watching starts.
func (w *Watcher) WatchTree(root string) *Watcher {
	abs, err := filepath.Abs(root)
	if err != nil {
		return w
	}
	w.mu.Lock()
	w.trees = append(w.trees, abs)
	if w.fw != nil {
		w.addTreeLocked(abs)
	}
	w.mu.Unlock()
	return w
}

// Ignore excludes paths from change reports
func (w *Watcher) Ignore(paths ...string) *Watcher {
	w.mu.Lock()
	for p := range absSet(paths) {
		w.ignored[p] = true
	}
	w.mu.Unlock()
	return w
}

// SetFiles replaces the watched file set. It may be called from onChange;
// directories of new files are watched immediately.
func (w *Watcher) SetFiles(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files = absSet(paths)
	if w.fw != nil {
		w.addFileDirsLocked()
	}
}

// Files returns the watched absolute paths in sorted order
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Watch blocks until the context is cancelled or the fsnotify watcher fails to start.
// Parent directories are watched so files replaced by editors keep being tracked.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w.mu.Lock()
	w.fw = fw
	w.dirs = map[string]bool{}
	w.addFileDirsLocked()
	for _, root := range w.trees {
		w.addTreeLocked(root)
	}
	w.log.Info("watching for changes", "files", len(w.files), "trees", len(w.trees), "dirs", len(w.dirs))
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.fw = nil
		w.mu.Unlock()
	}()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending = filepath.Clean(event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.log.Info("file changed", "path", pending)
			w.onChange(ctx, pending)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ignored[abs] {
		return false
	}

	root := w.treeOf(abs)
	if root != "" {
		if hiddenBelow(root, abs) {
			return false
		}
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(abs); err == nil && info.IsDir() {
				w.addTreeLocked(abs)
			}
		}
		return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) treeOf(path string) string {
	for _, root := range w.trees {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func (w *Watcher) addFileDirsLocked() {
	for f := range w.files {
		w.addDirLocked(filepath.Dir(f))
	}
}

func (w *Watcher) addTreeLocked(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.addDirLocked(path)
		return nil
	})
	if err != nil {
		w.log.Warn("failed to walk directory", "dir", root, "error", err)
	}
}

func (w *Watcher) addDirLocked(dir string) {
	if w.dirs[dir] {
		return
	}
	if err := w.fw.Add(dir); err != nil {
		w.log.Warn("failed to watch directory", "dir", dir, "error", err)
		return
	}
	w.dirs[dir] = true
}

func hiddenBelow(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}

func absSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = true
		}
	}
	return set
}

// ModelPaths returns the model file plus every local file its leaves point at.
// Non-file URIs and malformed URIs are skipped.
func ModelPaths(modelPath string, model *domain.VariantsModel) []string {
	paths := []string{}
	if modelPath != "" {
		paths = append(paths, modelPath)
	}
	for _, root := range model.Variants {
		for _, leaf := range root.Leaves(false) {
			uri, err := adapter.ParseURI(leaf.URI)
			if err != nil {
				continue
			}
			if p, err := adapter.LocalPath(uri); err == nil {
				paths = append(paths, p)
			}
		}
	}
	return paths
}
