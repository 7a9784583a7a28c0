// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/bale-scorer/auth"
	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/persist"
)

type ProfileHandler struct {
	persister *persist.Persister
}

func NewProfileHandler(p *persist.Persister) *ProfileHandler {
	return &ProfileHandler{persister: p}
}

// CreateProfile handles POST /profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := auth.GenerateID()
	if err != nil {
		slog.Error("failed to generate profile ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	prof := models.Profile{
		ID:             id,
		Name:           name,
		Classification: strings.TrimSpace(req.Classification),
		DefaultTarget:  strings.TrimSpace(req.DefaultTarget),
		CreatedAt:      time.Now().UTC(),
	}

	// a failed save is logged by the persister; the profile is still usable
	// for this bale
	h.persister.SaveProfile(r.Context(), prof)

	slog.Info("profile created", "profile_id", prof.ID)
	middleware.JSONResponse(w, http.StatusCreated, prof)
}

// ListProfiles handles GET /profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.persister.ListProfiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	middleware.JSONResponse(w, http.StatusOK, profiles)
}
