package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"adaptkit/internal/handler"
	"adaptkit/internal/hub"
	"adaptkit/internal/service"
)

var serveFlags struct {
	addr   string
	dbPath string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the adapter and run API over HTTP",
	Long: "Serve exposes resolution, extraction and stored runs as a JSON API and\n" +
		"streams run progress to /events as Server-Sent Events.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.addr, "addr", ":3000", "Listen address")
	f.StringVar(&serveFlags.dbPath, "db", "", "Run store path (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, appOptions{dbPath: serveFlags.dbPath, persist: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	eventHub := hub.New()
	go eventHub.Run(ctx)
	stopForward := forwardEvents(a.bus, eventHub)
	defer stopForward()

	srv := &http.Server{
		Addr:              serveFlags.addr,
		Handler:           newServeMux(a, eventHub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", serveFlags.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newServeMux(a *app, eventHub *hub.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	handler.NewRunHandler(a.service, a.registry).Routes(mux)
	mux.Handle("GET /events", eventHub)
	return mux
}

// forwardEvents relays bus events to the hub until the returned func is called
func forwardEvents(bus *service.EventBus, eventHub *hub.Hub) func() {
	events := make(chan service.Event, 64)
	bus.Subscribe(events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			eventHub.Broadcast(string(ev.Type), ev.Payload)
		}
	}()

	return func() {
		bus.Unsubscribe(events)
		close(events)
		<-done
	}
}
