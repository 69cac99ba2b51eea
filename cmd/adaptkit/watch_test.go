package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptkit/internal/domain"
)

// runWatch starts watchModel and returns the models passed to each rerun
func runWatch(t *testing.T, modelPath string) <-chan *domain.VariantsModel {
	t.Helper()
	model, err := loadModel(modelPath)
	require.NoError(t, err)

	reruns := make(chan *domain.VariantsModel, 8)
	w := watchModel(modelPath, model, func(_ context.Context, m *domain.VariantsModel) {
		reruns <- m
	}).WithDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Watch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give fsnotify time to register the directories
	time.Sleep(100 * time.Millisecond)
	return reruns
}

func nextRun(t *testing.T, reruns <-chan *domain.VariantsModel) *domain.VariantsModel {
	t.Helper()
	select {
	case m := <-reruns:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("no re-extraction")
		return nil
	}
}

func leafNames(m *domain.VariantsModel) []string {
	var names []string
	for _, root := range m.Variants {
		for _, l := range root.Leaves(false) {
			names = append(names, l.Label())
		}
	}
	return names
}

func TestWatchModel_FollowsNewLeaves(t *testing.T) {
	modelPath, _ := workspace(t)
	dir := filepath.Dir(modelPath)
	reruns := runWatch(t, modelPath)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "v3"), 0o755))
	model := `
name: demo
variants:
  - name: v1
    variants:
      - path: v1/notes.txt
  - name: v3
    variants:
      - name: fresh
        path: v3/fresh.txt
`
	require.NoError(t, os.WriteFile(modelPath, []byte(model), 0o644))
	m := nextRun(t, reruns)
	assert.Equal(t, []string{"v1", "v3"}, []string{m.Variants[0].Label(), m.Variants[1].Label()})

	// The leaf added by the reload is now watched
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v3", "fresh.txt"), []byte("new\n"), 0o644))
	m = nextRun(t, reruns)
	assert.Contains(t, leafNames(m), "fresh")
}

func TestWatchModel_DirectoryPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	reruns := runWatch(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0o644))
	m := nextRun(t, reruns)
	assert.Equal(t, []string{"a.txt", "b.txt"}, leafNames(m))
}
