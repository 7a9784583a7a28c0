// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/bale-scorer/handlers"
	"github.com/danielhkuo/bale-scorer/live"
	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/session"
)

// Deps are the long-lived services the routes are served from.
type Deps struct {
	Sessions  *session.Manager
	Persister *persist.Persister
	Live      *live.Server
	Gatherer  prometheus.Gatherer // nil uses the default registry
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	baleHandler := handlers.NewBaleHandler(deps.Sessions)
	profileHandler := handlers.NewProfileHandler(deps.Persister)
	liveHandler := handlers.NewLiveHandler(deps.Sessions, deps.Live)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Bale setup and state
	mux.HandleFunc("POST /bales", middleware.WithLogging(baleHandler.StartBale))
	mux.HandleFunc("GET /bale", middleware.WithLogging(baleHandler.GetBale))
	mux.HandleFunc("GET /bale/restore", middleware.WithLogging(baleHandler.Restore))
	mux.HandleFunc("PUT /bale/app-state", middleware.WithLogging(baleHandler.SaveAppState))
	mux.HandleFunc("POST /bale/end", middleware.WithLogging(baleHandler.ChangeEnd))

	// Score entry
	mux.HandleFunc("POST /bale/keypad/focus", middleware.WithLogging(baleHandler.Focus))
	mux.HandleFunc("POST /bale/keypad/enter", middleware.WithLogging(baleHandler.Enter))
	mux.HandleFunc("POST /bale/keypad/close", middleware.WithLogging(baleHandler.CloseKeypad))
	mux.HandleFunc("PUT /bale/scores", middleware.WithLogging(baleHandler.SetScore))

	// Scorecards and exports
	mux.HandleFunc("GET /bale/archers/{id}", middleware.WithLogging(baleHandler.GetScorecard))
	mux.HandleFunc("GET /bale/archers/{id}/chart.png", middleware.WithLogging(baleHandler.GetChart))
	mux.HandleFunc("GET /bale/export.xlsx", middleware.WithLogging(baleHandler.ExportScorecard))

	// Live view (read-only)
	mux.HandleFunc("GET /live/{slug}", middleware.WithLogging(liveHandler.Watch))

	// Profiles
	mux.HandleFunc("POST /profiles", middleware.WithLogging(profileHandler.CreateProfile))
	mux.HandleFunc("GET /profiles", middleware.WithLogging(profileHandler.ListProfiles))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bale-scorer API v1"))
	})

	return mux
}
