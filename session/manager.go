// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/bale-scorer/auth"
	"github.com/danielhkuo/bale-scorer/metrics"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/scoring"
)

// Publisher fans bale updates out to live viewers.
type Publisher interface {
	Publish(slug string, payload any)
}

type Options struct {
	CollapseTensToX bool
	ViewSlugSalt    string
}

// Manager maps profile keys to their live sessions.
type Manager struct {
	persister *persist.Persister
	writer    *persist.Writer
	publisher Publisher
	opts      Options
	metrics   *metrics.Metrics
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	slugs    map[string]string // view slug -> profile
}

func NewManager(p *persist.Persister, w *persist.Writer, pub Publisher, opts Options, m *metrics.Metrics) *Manager {
	return &Manager{
		persister: p,
		writer:    w,
		publisher: pub,
		opts:      opts,
		metrics:   m,
		now:       time.Now,
		sessions:  make(map[string]*Session),
		slugs:     make(map[string]string),
	}
}

// Start sets up a new bale for profile. The previous bale, if any, is
// archived. A rejected setup leaves the existing session untouched.
func (m *Manager) Start(ctx context.Context, profile string, req models.StartBaleRequest) (*Session, error) {
	bale, err := m.buildBale(req)
	if err != nil {
		return nil, err
	}

	if prev, err := m.Get(ctx, profile); err == nil {
		old := prev.retire()
		m.persister.Archive(ctx, profile, old)
		slog.Info("bale archived", "profile", profile, "bale_id", old.ID)
	}

	s := m.register(profile, bale)
	st := models.AppState{View: models.ViewScoring, BaleID: bale.ID, SavedAt: m.now().UTC()}
	s.setAppState(st)

	m.writer.EnqueueBale(profile, bale)
	m.writer.EnqueueAppState(profile, st)
	m.writer.EnqueueViewLink(s.slug, profile, bale.ID)
	m.publish(s.slug, bale)

	slog.Info("bale started", "profile", profile, "bale_id", bale.ID, "archers", len(bale.Archers))
	return s, nil
}

// Get returns the profile's live session, restoring it from storage when
// the server has not seen the profile since it started.
func (m *Manager) Get(ctx context.Context, profile string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[profile]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	restored := m.persister.Restore(ctx, profile)
	if restored.Bale == nil {
		return nil, ErrNoBale
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another request may have won the race
	if s, ok := m.sessions[profile]; ok {
		return s, nil
	}
	s = m.newSession(profile, *restored.Bale)
	s.appState = models.AppState{View: restored.View, BaleID: restored.Bale.ID, ArcherID: restored.ArcherID}
	m.sessions[profile] = s
	m.slugs[s.slug] = profile
	return s, nil
}

// Restore reports what a restarted client should show for profile.
func (m *Manager) Restore(ctx context.Context, profile string) models.RestoreResponse {
	s, err := m.Get(ctx, profile)
	if err != nil {
		return models.RestoreResponse{View: models.ViewSetup}
	}

	st := s.AppState()
	b := s.Bale()
	view := st.View
	if st.BaleID != b.ID || !models.IsValidView(view) {
		view = models.ViewScoring
	}
	return models.RestoreResponse{View: view, ArcherID: st.ArcherID, Bale: &b}
}

// SaveView records which screen the client is on.
func (m *Manager) SaveView(ctx context.Context, profile string, req models.SaveAppStateRequest) (models.AppState, error) {
	if !models.IsValidView(req.View) {
		return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidView, req.View)
	}

	st := models.AppState{View: req.View, ArcherID: req.ArcherID, SavedAt: m.now().UTC()}
	if s, err := m.Get(ctx, profile); err == nil {
		b := s.Bale()
		if req.ArcherID != "" && b.Archer(req.ArcherID) == nil {
			return models.AppState{}, fmt.Errorf("%w: %s", ErrArcherNotFound, req.ArcherID)
		}
		st.BaleID = b.ID
		s.setAppState(st)
	} else if req.View != models.ViewSetup {
		return models.AppState{}, ErrNoBale
	}

	m.writer.EnqueueAppState(profile, st)
	return st, nil
}

// BySlug finds the session behind a live view slug. Slugs this server has
// not seen are looked up in storage so links outlive a restart; a slug
// for a replaced bale never resolves.
func (m *Manager) BySlug(ctx context.Context, slug string) (*Session, bool) {
	m.mu.Lock()
	profile, ok := m.slugs[slug]
	s, live := m.sessions[profile]
	m.mu.Unlock()
	if ok && live {
		return s, true
	}

	profile, _, ok = m.persister.LookupViewLink(ctx, slug)
	if !ok {
		return nil, false
	}
	s, err := m.Get(ctx, profile)
	if err != nil || s.Slug() != slug {
		return nil, false
	}
	return s, true
}

func (m *Manager) buildBale(req models.StartBaleRequest) (models.Bale, error) {
	if len(req.Archers) == 0 {
		return models.Bale{}, ErrNoArchers
	}
	if req.BaleNumber < 0 {
		return models.Bale{}, fmt.Errorf("%w: bale number %d", ErrInvalidSetup, req.BaleNumber)
	}

	baleID, err := auth.GenerateID()
	if err != nil {
		return models.Bale{}, err
	}
	now := m.now().UTC()
	bale := models.Bale{
		ID:          baleID,
		BaleNumber:  req.BaleNumber,
		CurrentEnd:  1,
		TotalEnds:   models.TotalEnds,
		CreatedAt:   now,
		LastUpdated: now,
	}

	seen := make(map[string]bool)
	for i, a := range req.Archers {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return models.Bale{}, fmt.Errorf("%w: archer %d has no name", ErrInvalidSetup, i+1)
		}

		id := a.ProfileID
		if id == "" {
			if id, err = auth.GenerateID(); err != nil {
				return models.Bale{}, err
			}
		}
		if seen[id] {
			return models.Bale{}, fmt.Errorf("%w: archer %s listed twice", ErrInvalidSetup, id)
		}
		seen[id] = true

		bale.Archers = append(bale.Archers, models.Archer{
			ID:             id,
			Name:           name,
			Target:         strings.TrimSpace(a.Target),
			Classification: a.Classification,
			Scores:         models.NewScorecard(),
		})
	}
	return bale, nil
}

func (m *Manager) register(profile string, bale models.Bale) *Session {
	s := m.newSession(profile, bale)

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.sessions[profile]; ok {
		prev.retire()
		delete(m.slugs, prev.slug)
	}
	m.sessions[profile] = s
	m.slugs[s.slug] = profile
	return s
}

func (m *Manager) newSession(profile string, bale models.Bale) *Session {
	slug := auth.GenerateViewSlug(profile, bale.ID, m.opts.ViewSlugSalt)
	s := newSession(profile, slug, bale)
	s.collapseTens = m.opts.CollapseTensToX
	s.metrics = m.metrics
	s.now = m.now
	s.onChange = func(b models.Bale) {
		m.writer.EnqueueBale(profile, b)
		m.publish(slug, b)
	}
	return s
}

func (m *Manager) publish(slug string, b models.Bale) {
	if m.publisher != nil {
		m.publisher.Publish(slug, scoring.View(b))
	}
}
