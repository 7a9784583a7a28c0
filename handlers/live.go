// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/bale-scorer/live"
	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/scoring"
	"github.com/danielhkuo/bale-scorer/session"
)

type LiveHandler struct {
	sessions *session.Manager
	server   *live.Server
}

func NewLiveHandler(sessions *session.Manager, server *live.Server) *LiveHandler {
	return &LiveHandler{sessions: sessions, server: server}
}

// Watch handles GET /live/{slug}
// Viewers are read-only; the slug is the only credential.
func (h *LiveHandler) Watch(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	s, ok := h.sessions.BySlug(r.Context(), slug)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Live view not found")
		return
	}
	h.server.Serve(w, r, slug, scoring.View(s.Bale()))
}
