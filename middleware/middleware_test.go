// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bale-scorer/models"
)

func TestWithLogging(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusCreated, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			h := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				w.Write([]byte("scored"))
			})

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest("PUT", "/bale/scores", nil))

			assert.Equal(t, code, w.Code)
			assert.Equal(t, "scored", w.Body.String())
		})
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, models.FocusState{Focused: true, ArcherID: "a1", End: 2, Arrow: 1, Epoch: 4})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"focused":true,"archer_id":"a1","end":2,"arrow":1,"epoch":4}`, w.Body.String())
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "input no longer applies to the open end")

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Conflict", resp.Error)
	assert.Equal(t, "input no longer applies to the open end", resp.Message)
}

func TestParseJSONBody(t *testing.T) {
	t.Run("score edit", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/bale/scores", strings.NewReader(`{"archer_id":"a1","end":3,"arrow":2,"token":"X","extra":1}`))

		var parsed models.SetScoreRequest
		require.NoError(t, ParseJSONBody(req, &parsed))
		assert.Equal(t, models.SetScoreRequest{ArcherID: "a1", End: 3, Arrow: 2, Token: "X"}, parsed)

		rest, _ := io.ReadAll(req.Body)
		assert.Empty(t, rest)
	})

	for name, body := range map[string]string{"malformed": `{end:}`, "empty": ""} {
		t.Run(name, func(t *testing.T) {
			var parsed models.ChangeEndRequest
			assert.Error(t, ParseJSONBody(httptest.NewRequest("POST", "/bale/end", strings.NewReader(body)), &parsed))
		})
	}
}

func TestProfileKey(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "coach-kim", "coach-kim", false},
		{"trimmed", "  coach  ", "coach", false},
		{"missing", "", "", true},
		{"path separator", "a/b", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/bale", nil)
			if tc.header != "" {
				req.Header.Set(ProfileHeader, tc.header)
			}

			got, err := ProfileKey(req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ProfileKey() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ProfileKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})

	t.Run("preflight allowed origin", func(t *testing.T) {
		corsHandler := CORS([]string{"http://localhost:5173"})(nextHandler)

		req := httptest.NewRequest("OPTIONS", "/bale/scores", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Profile-ID")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		// Should return 200 OK without calling next handler
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}

		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be 'true'")
		}
		if w.Header().Get("Access-Control-Allow-Methods") != "PUT" {
			t.Errorf("Expected PUT to be allowed, got '%s'", w.Header().Get("Access-Control-Allow-Methods"))
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Profile-Id") {
			t.Errorf("Expected profile header to be allowed, got '%s'", w.Header().Get("Access-Control-Allow-Headers"))
		}
	})

	t.Run("preflight disallowed origin", func(t *testing.T) {
		corsHandler := CORS([]string{"http://localhost:5173"})(nextHandler)

		req := httptest.NewRequest("OPTIONS", "/bale/scores", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no Access-Control-Allow-Origin for a foreign origin")
		}
	})

	t.Run("regular request with origin", func(t *testing.T) {
		corsHandler := CORS([]string{"https://example.com"})(nextHandler)

		req := httptest.NewRequest("GET", "/bale", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "https://example.com" {
			t.Error("Expected Access-Control-Allow-Origin to reflect request origin")
		}
	})

	t.Run("no configured origins allows any", func(t *testing.T) {
		corsHandler := CORS(nil)(nextHandler)

		req := httptest.NewRequest("GET", "/bale", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("Expected wildcard origin, got '%s'", w.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}

func TestOriginAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"no list", nil, "https://a.example", true},
		{"wildcard", []string{"*"}, "https://a.example", true},
		{"listed", []string{"https://a.example"}, "https://A.example", true},
		{"not listed", []string{"https://a.example"}, "https://b.example", false},
		{"no origin header", []string{"https://a.example"}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/live/abc", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if got := OriginAllowed(tc.origins)(req); got != tc.want {
				t.Errorf("OriginAllowed() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "127.0.0.1:1", "203.0.113.7"},
		{"forwarded beats real ip", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.2"}, "127.0.0.1:1", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "127.0.0.1:1", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.10:5173", "192.0.2.10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/live/abc", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, GetClientIP(req))
		})
	}
}
