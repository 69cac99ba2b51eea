package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"adaptkit/internal/adapter"
	"adaptkit/internal/config"
	"adaptkit/internal/domain"
	"adaptkit/internal/loader"
	"adaptkit/internal/repository"
	"adaptkit/internal/repository/sqlite"
	"adaptkit/internal/service"
)

// app wires the registry, the run store and the extraction service for one command
type app struct {
	registry *adapter.Registry
	source   *adapter.SourceReader
	repo     repository.Repository
	bus      *service.EventBus
	service  *service.ExtractionService
}

type appOptions struct {
	dbPath  string // overrides the configured database path
	persist bool   // open the run store
	workers int    // overrides the configured worker count
}

func newApp(c *config.Config, opts appOptions) (*app, error) {
	src, err := adapter.NewSourceReader(c.Cache.Entries)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}

	registry := adapter.NewRegistry()
	if err := adapter.RegisterBuiltins(registry, src, c.AdapterConfigs()); err != nil {
		return nil, err
	}

	a := &app{
		registry: registry,
		source:   src,
		bus:      service.NewEventBus(),
	}

	if opts.persist {
		path := c.Database.Path
		if opts.dbPath != "" {
			path = opts.dbPath
		}
		repo, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
		a.repo = repo
	}

	workers := c.Extraction.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	a.service = service.NewExtractionService(registry, a.repo, a.bus, service.Options{
		Workers:         workers,
		LegacyFirstRoot: c.Extraction.LegacyFirstRoot,
		Timeout:         c.ExtractionTimeout(),
	})
	return a, nil
}

func (a *app) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// followProgress prints unit events to w until the returned func is called
func (a *app) followProgress(w io.Writer) func() {
	events := make(chan service.Event, 32)
	a.bus.Subscribe(events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			if ev.Type != service.EventUnitStarted {
				continue
			}
			if p, ok := ev.Payload.(service.UnitProgress); ok {
				fmt.Fprintf(w, "[%d/%d] %s%s\n", p.Done+1, p.Total, adapter.SubTaskPrefix, p.Label)
			}
		}
	}()

	return func() {
		a.bus.Unsubscribe(events)
		close(events)
		wg.Wait()
	}
}

// lockedWriter serializes writes shared by the progress printer and the command
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// ownerName renders the display name of the adapter owning el
func (a *app) ownerName(el domain.Element) string {
	owner, ok := a.service.Owner(el)
	if !ok {
		return "(unknown)"
	}
	return a.registry.Name(owner)
}

// loadModel reads a model file, or builds a model from a directory
func loadModel(path string) (*domain.VariantsModel, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if info.IsDir() {
		return loader.FromDirectory(path)
	}
	return loader.LoadYAML(path)
}

// modelFile returns path when it names a model file, empty for directories
func modelFile(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}
