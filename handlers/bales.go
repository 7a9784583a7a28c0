// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/scoring"
	"github.com/danielhkuo/bale-scorer/session"
)

// BaleResponse is a bale with its aggregates and the keypad state.
type BaleResponse struct {
	scoring.BaleView
	Focus    models.FocusState `json:"focus"`
	ViewSlug string            `json:"view_slug"`
}

func baleResponse(s *session.Session) BaleResponse {
	return BaleResponse{
		BaleView: scoring.View(s.Bale()),
		Focus:    s.FocusState(),
		ViewSlug: s.Slug(),
	}
}

type BaleHandler struct {
	sessions *session.Manager
}

func NewBaleHandler(sessions *session.Manager) *BaleHandler {
	return &BaleHandler{sessions: sessions}
}

// current resolves the caller's session, writing the error response when
// there is none.
func (h *BaleHandler) current(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	profile, ok := requireProfile(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return s, true
}

// StartBale handles POST /bales
func (h *BaleHandler) StartBale(w http.ResponseWriter, r *http.Request) {
	profile, ok := requireProfile(w, r)
	if !ok {
		return
	}

	var req models.StartBaleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, err := h.sessions.Start(r.Context(), profile, req)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.StartBaleResponse{
		Bale:     s.Bale(),
		ViewSlug: s.Slug(),
	})
}

// GetBale handles GET /bale
func (h *BaleHandler) GetBale(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, baleResponse(s))
}

// Restore handles GET /bale/restore
// Always 200: a profile with nothing stored restores to setup.
func (h *BaleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	profile, ok := requireProfile(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.sessions.Restore(r.Context(), profile))
}

// SaveAppState handles PUT /bale/app-state
func (h *BaleHandler) SaveAppState(w http.ResponseWriter, r *http.Request) {
	profile, ok := requireProfile(w, r)
	if !ok {
		return
	}

	var req models.SaveAppStateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	st, err := h.sessions.SaveView(r.Context(), profile, req)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, st)
}

// ChangeEnd handles POST /bale/end
func (h *BaleHandler) ChangeEnd(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeEndRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	if _, err := s.ChangeEnd(req.End); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, baleResponse(s))
}
