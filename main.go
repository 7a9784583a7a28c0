package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/bale-scorer/cliparse"
	"github.com/danielhkuo/bale-scorer/live"
	"github.com/danielhkuo/bale-scorer/metrics"
	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/router"
	"github.com/danielhkuo/bale-scorer/session"
	"github.com/danielhkuo/bale-scorer/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the remote document store
	remote, closeRemote, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("remote store unavailable", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer closeRemote()

	// Local fallback
	local, err := store.OpenSQLite(cfg.LocalDir)
	if err != nil {
		slog.Error("local store unavailable", "dir", cfg.LocalDir, "error", err)
		os.Exit(1)
	}
	defer local.Close()
	slog.Info("Local store ready", "path", local.Path())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	persister := persist.New(remote, local, persist.Options{
		Retries:   cfg.WriteRetries,
		WriteRate: cfg.WriteRate,
	}, m)

	// The writer outlives ctx so queued snapshots can be flushed on shutdown
	writerCtx, stopWriter := context.WithCancel(context.Background())
	writer := persist.NewWriter(persister)
	writerDone := make(chan struct{})
	go func() {
		writer.Run(writerCtx)
		close(writerDone)
	}()

	hub := live.NewHub(m)
	go hub.Run(ctx)

	manager := session.NewManager(persister, writer, hub, session.Options{
		CollapseTensToX: cfg.CollapseTensToX,
		ViewSlugSalt:    cfg.ViewSlugSalt,
	}, m)

	// Create router
	mux := router.NewRouter(router.Deps{
		Sessions:  manager,
		Persister: persister,
		Live:      live.NewServer(ctx, hub, middleware.OriginAllowed(cfg.AllowedOrigins)),
		Gatherer:  reg,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "database", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := writer.Flush(flushCtx); err != nil {
		slog.Warn("pending writes not flushed", "pending", writer.Pending(), "error", err)
	}
	stopWriter()
	<-writerDone
}
