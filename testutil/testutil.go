// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/danielhkuo/bale-scorer/cliparse"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/store"
)

// ProfileHeader carries the caller's profile key
const ProfileHeader = "X-Profile-ID"

// TestProfile is the default profile key used by handler tests
const TestProfile = "test-profile"

// ErrRemoteDown is returned by FlakyRemote while it is failing.
var ErrRemoteDown = errors.New("remote store unavailable")

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseMemory,
		LocalDir:     ".",
		ViewSlugSalt: "test-slug-salt",
		WriteRetries: 0,
	}
}

// FlakyRemote is a MemoryRemote whose writes can be made to fail. Every
// attempted write is recorded whether or not it succeeded.
type FlakyRemote struct {
	*store.MemoryRemote

	mu        sync.Mutex
	failing   bool
	failReads bool
	attempts  map[string][]store.Document
}

func NewFlakyRemote() *FlakyRemote {
	return &FlakyRemote{
		MemoryRemote: store.NewMemoryRemote(),
		attempts:     make(map[string][]store.Document),
	}
}

// SetFailing makes every following write (and optionally read) fail.
func (f *FlakyRemote) SetFailing(writes, reads bool) {
	f.mu.Lock()
	f.failing = writes
	f.failReads = reads
	f.mu.Unlock()
}

func (f *FlakyRemote) Get(ctx context.Context, key string) (store.Document, bool, error) {
	f.mu.Lock()
	fail := f.failReads
	f.mu.Unlock()
	if fail {
		return nil, false, ErrRemoteDown
	}
	return f.MemoryRemote.Get(ctx, key)
}

func (f *FlakyRemote) Set(ctx context.Context, key string, doc store.Document, merge bool) error {
	cp, err := store.ToDocument(doc)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.attempts[key] = append(f.attempts[key], cp)
	fail := f.failing
	f.mu.Unlock()

	if fail {
		return ErrRemoteDown
	}
	return f.MemoryRemote.Set(ctx, key, doc, merge)
}

// Attempts returns every document written to key, in order.
func (f *FlakyRemote) Attempts(key string) []store.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Document(nil), f.attempts[key]...)
}

// LastAttempt returns the most recent document written to key, or nil.
func (f *FlakyRemote) LastAttempt(key string) store.Document {
	a := f.Attempts(key)
	if len(a) == 0 {
		return nil
	}
	return a[len(a)-1]
}

// ArcherSetups returns n archers with fake names on targets 1A, 1B, ...
func ArcherSetups(n int) []models.ArcherSetup {
	out := make([]models.ArcherSetup, n)
	for i := range out {
		out[i] = models.ArcherSetup{
			Name:           gofakeit.Name(),
			Target:         strconv.Itoa(1+i/4) + string(rune('A'+i%4)),
			Classification: gofakeit.RandomString([]string{"U15", "U18", "Senior", "Masters"}),
		}
	}
	return out
}

// NewTestBale builds a bale with n empty archers.
func NewTestBale(n int) models.Bale {
	b := models.Bale{
		ID:         "bale-" + strconv.Itoa(n),
		BaleNumber: 1,
		CurrentEnd: 1,
		TotalEnds:  models.TotalEnds,
		CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	for i, s := range ArcherSetups(n) {
		b.Archers = append(b.Archers, models.Archer{
			ID:             "archer-" + strconv.Itoa(i+1),
			Name:           s.Name,
			Target:         s.Target,
			Classification: s.Classification,
			Scores:         models.NewScorecard(),
		})
	}
	return b
}

// FillEnds sets every arrow of ends 1..through to token for archer a.
func FillEnds(a *models.Archer, through int, token string) {
	for n := 1; n <= through; n++ {
		a.Scores[n] = models.End{token, token, token}
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsProfile returns request headers identifying profile
func AsProfile(profile string) map[string]string {
	return map[string]string{ProfileHeader: profile}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
