// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/danielhkuo/bale-scorer/metrics"
	"github.com/danielhkuo/bale-scorer/models"
	"github.com/danielhkuo/bale-scorer/store"
)

// Result reports where a snapshot ended up.
type Result string

const (
	ResultRemote Result = "remote"
	ResultLocal  Result = "local"
	ResultLost   Result = "lost"
)

var ErrListUnsupported = errors.New("remote store cannot list documents")

type Options struct {
	// Retries after the first failed remote attempt.
	Retries int
	// WriteRate caps remote writes per second; 0 means unlimited.
	WriteRate float64
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps any single backoff delay.
	MaxInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		Retries:         2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// Persister writes snapshots to the remote store and falls back to the
// local store when the remote write fails. Failures are logged, never
// returned.
type Persister struct {
	remote  store.RemoteStore
	local   store.LocalStore
	limiter *rate.Limiter
	opts    Options
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(remote store.RemoteStore, local store.LocalStore, opts Options, m *metrics.Metrics) *Persister {
	limit := rate.Inf
	burst := 1
	if opts.WriteRate > 0 {
		limit = rate.Limit(opts.WriteRate)
		burst = max(1, int(opts.WriteRate))
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = DefaultOptions().InitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = DefaultOptions().MaxInterval
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	return &Persister{
		remote:  remote,
		local:   local,
		limiter: rate.NewLimiter(limit, burst),
		opts:    opts,
		metrics: m,
		now:     time.Now,
	}
}

// SaveBale writes the full bale snapshot for profile, stamping LastUpdated.
func (p *Persister) SaveBale(ctx context.Context, profile string, bale models.Bale) Result {
	bale.LastUpdated = p.now().UTC()
	return p.save(ctx, BaleKey(profile), localBale(profile), bale)
}

func (p *Persister) SaveAppState(ctx context.Context, profile string, st models.AppState) Result {
	if st.SavedAt.IsZero() {
		st.SavedAt = p.now().UTC()
	}
	return p.save(ctx, AppStateKey(profile), localAppState(profile), st)
}

func (p *Persister) SaveProfile(ctx context.Context, prof models.Profile) Result {
	return p.save(ctx, ProfileKey(prof.ID), localProfile(prof.ID), prof)
}

// viewLink ties a live view slug to the profile that owns it.
type viewLink struct {
	Profile string `json:"profile"`
	BaleID  string `json:"bale_id"`
}

// SaveViewLink records which profile serves slug so live links survive a
// restart.
func (p *Persister) SaveViewLink(ctx context.Context, slug, profile, baleID string) Result {
	return p.save(ctx, ViewLinkKey(slug), localViewLink(slug), viewLink{Profile: profile, BaleID: baleID})
}

// LookupViewLink returns the profile and bale behind slug.
func (p *Persister) LookupViewLink(ctx context.Context, slug string) (profile, baleID string, ok bool) {
	var link viewLink
	found, err := p.local.Load(localViewLink(slug), &link)
	if err != nil {
		slog.Warn("failed to read local view link", "slug", slug, "error", err)
	}
	if found && err == nil && link.Profile != "" {
		return link.Profile, link.BaleID, true
	}

	doc, found, err := p.remote.Get(ctx, ViewLinkKey(slug))
	if err != nil {
		slog.Warn("failed to read remote view link", "slug", slug, "error", err)
		return "", "", false
	}
	if !found {
		return "", "", false
	}
	link = viewLink{}
	if err := doc.Decode(&link); err != nil || link.Profile == "" {
		return "", "", false
	}
	return link.Profile, link.BaleID, true
}

// Archive copies bale to the archive and clears the local bale copy.
func (p *Persister) Archive(ctx context.Context, profile string, bale models.Bale) Result {
	res := p.save(ctx, ArchivedBaleKey(profile, bale.ID), localArchivedBale(profile, bale.ID), bale)
	p.ClearLocal(profile)
	return res
}

// ClearLocal drops the profile's local bale copy.
func (p *Persister) ClearLocal(profile string) {
	if err := p.local.Clear(localBale(profile)); err != nil {
		slog.Warn("failed to clear local bale", "profile", profile, "error", err)
	}
}

// ListProfiles returns every stored profile sorted by name.
func (p *Persister) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	lister, ok := p.remote.(store.Lister)
	if !ok {
		return nil, ErrListUnsupported
	}

	docs, err := lister.List(ctx, ProfilePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]models.Profile, 0, len(docs))
	for key, doc := range docs {
		var prof models.Profile
		if err := doc.Decode(&prof); err != nil {
			slog.Warn("skipping unreadable profile", "key", key, "error", err)
			continue
		}
		profiles = append(profiles, prof)
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name != profiles[j].Name {
			return profiles[i].Name < profiles[j].Name
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

func (p *Persister) save(ctx context.Context, key, namespace string, value any) Result {
	doc, err := store.ToDocument(value)
	if err == nil {
		err = p.writeRemote(ctx, key, doc)
	}

	if err == nil {
		p.metrics.RemoteWrite(metrics.ResultOK)
		// keep the local copy current for resume
		if lerr := p.local.Save(namespace, value); lerr != nil {
			slog.Warn("failed to refresh local copy", "namespace", namespace, "error", lerr)
		}
		return ResultRemote
	}

	p.metrics.RemoteWrite(metrics.ResultError)
	slog.Warn("remote write failed, saving locally", "key", key, "error", err)

	if lerr := p.local.Save(namespace, value); lerr != nil {
		p.metrics.FallbackWrite(metrics.ResultError)
		slog.Error("local fallback write failed", "namespace", namespace, "error", lerr)
		return ResultLost
	}
	p.metrics.FallbackWrite(metrics.ResultOK)
	return ResultLocal
}

func (p *Persister) writeRemote(ctx context.Context, key string, doc store.Document) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.opts.InitialInterval
	eb.MaxInterval = p.opts.MaxInterval
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.opts.Retries)), ctx)

	return backoff.Retry(func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		// snapshots replace the stored document; a merge would keep
		// fields the snapshot omits
		return p.remote.Set(ctx, key, doc, false)
	}, b)
}
