// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/models"
)

// Focus handles POST /bale/keypad/focus
// The returned epoch must accompany the entry for that slot.
func (h *BaleHandler) Focus(w http.ResponseWriter, r *http.Request) {
	var req models.FocusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	st, err := s.Focus(req.ArcherID, req.Arrow)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, st)
}

// Enter handles POST /bale/keypad/enter
func (h *BaleHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req models.KeypadEntryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	if _, err := s.Enter(req.Epoch, req.Token); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, baleResponse(s))
}

// CloseKeypad handles POST /bale/keypad/close
func (h *BaleHandler) CloseKeypad(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s.CloseKeypad())
}

// SetScore handles PUT /bale/scores
func (h *BaleHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	var req models.SetScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, ok := h.current(w, r)
	if !ok {
		return
	}
	if err := s.SetScore(req.ArcherID, req.End, req.Arrow, req.Token); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, baleResponse(s))
}
