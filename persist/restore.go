// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/bale-scorer/models"
)

// Restored is what a restarted client should show.
type Restored struct {
	View     string
	ArcherID string
	Bale     *models.Bale
}

// Restore loads the profile's last app state and bale. App state is read
// from the local store first; the bale is whichever copy is newer. A
// saved app state wins over a bare bale; with neither the view is setup.
func (p *Persister) Restore(ctx context.Context, profile string) Restored {
	st, haveState := p.loadAppState(ctx, profile)
	bale := p.loadBale(ctx, profile)

	switch {
	case haveState && bale != nil && st.BaleID == bale.ID && models.IsValidView(st.View):
		return Restored{View: st.View, ArcherID: st.ArcherID, Bale: bale}
	case bale != nil:
		return Restored{View: models.ViewScoring, Bale: bale}
	default:
		return Restored{View: models.ViewSetup}
	}
}

func (p *Persister) loadAppState(ctx context.Context, profile string) (models.AppState, bool) {
	var st models.AppState

	ok, err := p.local.Load(localAppState(profile), &st)
	if err != nil {
		slog.Warn("failed to read local app state", "profile", profile, "error", err)
	}
	if ok && err == nil {
		return st, true
	}

	doc, ok, err := p.remote.Get(ctx, AppStateKey(profile))
	if err != nil {
		slog.Warn("failed to read remote app state", "profile", profile, "error", err)
		return models.AppState{}, false
	}
	if !ok {
		return models.AppState{}, false
	}
	st = models.AppState{}
	if err := doc.Decode(&st); err != nil {
		slog.Warn("unreadable remote app state", "profile", profile, "error", err)
		return models.AppState{}, false
	}
	return st, true
}

// loadBale reads both copies and keeps the newer one. The local copy wins
// ties: every remote write refreshes it, and fallback writes only reach it.
func (p *Persister) loadBale(ctx context.Context, profile string) *models.Bale {
	remote := p.remoteBale(ctx, profile)
	local := p.localBale(profile)

	switch {
	case local == nil:
		return remote
	case remote == nil:
		return local
	case remote.ID == local.ID && remote.LastUpdated.After(local.LastUpdated):
		return remote
	case remote.ID != local.ID && remote.CreatedAt.After(local.CreatedAt):
		return remote
	default:
		return local
	}
}

func (p *Persister) remoteBale(ctx context.Context, profile string) *models.Bale {
	doc, ok, err := p.remote.Get(ctx, BaleKey(profile))
	if err != nil {
		slog.Warn("failed to read remote bale", "profile", profile, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var b models.Bale
	if err := doc.Decode(&b); err != nil {
		slog.Warn("unreadable remote bale", "profile", profile, "error", err)
		return nil
	}
	if !usable(&b) {
		return nil
	}
	return &b
}

func (p *Persister) localBale(profile string) *models.Bale {
	var b models.Bale
	ok, err := p.local.Load(localBale(profile), &b)
	if err != nil {
		slog.Warn("failed to read local bale", "profile", profile, "error", err)
		return nil
	}
	if !ok || !usable(&b) {
		return nil
	}
	return &b
}

// usable normalizes b and reports whether it holds a bale worth resuming.
func usable(b *models.Bale) bool {
	if b.ID == "" || len(b.Archers) == 0 {
		return false
	}
	b.Normalize()
	return true
}
