// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/bale-scorer/middleware"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/session"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrNoArchers),
		errors.Is(err, session.ErrInvalidSetup),
		errors.Is(err, session.ErrInvalidEnd),
		errors.Is(err, session.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrArcherNotFound),
		errors.Is(err, session.ErrNoBale):
		return http.StatusNotFound
	case errors.Is(err, session.ErrStaleInput):
		return http.StatusConflict
	case errors.Is(err, persist.ErrListUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}

// requireProfile writes a 400 and returns false when the profile header
// is missing or malformed.
func requireProfile(w http.ResponseWriter, r *http.Request) (string, bool) {
	profile, err := middleware.ProfileKey(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return profile, true
}
