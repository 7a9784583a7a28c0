// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package persist

import (
	"context"
	"sync"

	"github.com/danielhkuo/bale-scorer/models"
)

// Writer queues snapshots for a background goroutine so callers never wait
// on the network. Only the newest pending snapshot per key is written.
type Writer struct {
	p *Persister

	mu      sync.Mutex
	pending map[string]func(context.Context) Result
	order   []string
	busy    bool
	drained chan struct{}

	wake chan struct{}
}

func NewWriter(p *Persister) *Writer {
	return &Writer{
		p:       p,
		pending: make(map[string]func(context.Context) Result),
		drained: make(chan struct{}),
		wake:    make(chan struct{}, 1),
	}
}

func (w *Writer) EnqueueBale(profile string, bale models.Bale) {
	snap := bale.Clone()
	w.enqueue(BaleKey(profile), func(ctx context.Context) Result {
		return w.p.SaveBale(ctx, profile, snap)
	})
}

func (w *Writer) EnqueueAppState(profile string, st models.AppState) {
	w.enqueue(AppStateKey(profile), func(ctx context.Context) Result {
		return w.p.SaveAppState(ctx, profile, st)
	})
}

func (w *Writer) EnqueueViewLink(slug, profile, baleID string) {
	w.enqueue(ViewLinkKey(slug), func(ctx context.Context) Result {
		return w.p.SaveViewLink(ctx, slug, profile, baleID)
	})
}

func (w *Writer) enqueue(key string, write func(context.Context) Result) {
	w.mu.Lock()
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = write
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is cancelled.
func (w *Writer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
			w.drain(ctx)
		}
	}
}

func (w *Writer) drain(ctx context.Context) {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.busy = false
			close(w.drained)
			w.drained = make(chan struct{})
			w.mu.Unlock()
			return
		}
		key := w.order[0]
		w.order = w.order[1:]
		write := w.pending[key]
		delete(w.pending, key)
		w.busy = true
		w.mu.Unlock()

		write(ctx)
	}
}

// Pending reports the number of keys waiting to be written.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Flush blocks until everything queued so far has been written or ctx ends.
// Run must be active for Flush to make progress.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.order) == 0 && !w.busy {
		w.mu.Unlock()
		return nil
	}
	ch := w.drained
	w.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
