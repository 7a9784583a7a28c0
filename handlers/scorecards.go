// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/report"
	"github.com/danielhkuo/bale-scorer/scoring"
	"github.com/danielhkuo/bale-scorer/session"
)

func (h *BaleHandler) archer(w http.ResponseWriter, r *http.Request) (models.Archer, bool) {
	s, ok := h.current(w, r)
	if !ok {
		return models.Archer{}, false
	}

	id := r.PathValue("id")
	b := s.Bale()
	a := b.Archer(id)
	if a == nil {
		writeError(w, fmt.Errorf("%w: %s", session.ErrArcherNotFound, id))
		return models.Archer{}, false
	}
	return *a, true
}

// GetScorecard handles GET /bale/archers/{id}
func (h *BaleHandler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	a, ok := h.archer(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, scoring.Card(a))
}

// GetChart handles GET /bale/archers/{id}/chart.png
func (h *BaleHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	a, ok := h.archer(w, r)
	if !ok {
		return
	}

	png, err := report.RunningTotalChart(a)
	if err != nil {
		slog.Error("failed to render chart", "archer_id", a.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ExportScorecard handles GET /bale/export.xlsx
func (h *BaleHandler) ExportScorecard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}
	b := s.Bale()

	// buffer so a failed render can still become a JSON error
	var buf bytes.Buffer
	if err := report.WriteScorecard(&buf, b); err != nil {
		slog.Error("failed to write scorecard", "bale_id", b.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export scorecard")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bale-%d-scorecard.xlsx"`, b.BaleNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
