// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/bale-scorer/metrics"
)

const MessageTypeBaleUpdate = "bale_update"

// Message is what viewers receive.
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type update struct {
	slug    string
	payload any
}

// Hub maintains the set of connected viewers and fans bale updates out to
// the ones watching that bale.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	metrics *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    m,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	slog.Info("live hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case u := <-h.broadcast:
			h.broadcastUpdate(u)
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues payload for every viewer of slug. It never blocks; when
// the queue is full the update is dropped.
func (h *Hub) Publish(slug string, payload any) {
	select {
	case h.broadcast <- update{slug: slug, payload: payload}:
	default:
		slog.Warn("live broadcast buffer full, dropping update", "slug", slug)
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	h.metrics.SetLiveClients(n)
	slog.Info("live viewer connected", "client_id", c.ID, "slug", c.Slug, "total", n)
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.Send)
	}
	n := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		h.metrics.SetLiveClients(n)
		slog.Info("live viewer disconnected", "client_id", c.ID, "total", n)
	}
}

func (h *Hub) broadcastUpdate(u update) {
	h.clientsMu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.Slug == u.slug {
			targets = append(targets, c)
		}
	}
	h.clientsMu.RUnlock()

	msg := Message{Type: MessageTypeBaleUpdate, Payload: u.payload, Timestamp: time.Now()}
	for _, c := range targets {
		if !c.TrySend(msg) {
			// too slow to keep up, disconnect
			slog.Warn("live viewer buffer full, disconnecting", "client_id", c.ID)
			h.unregisterClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	slog.Info("shutting down live hub", "clients", len(h.clients))
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
	h.metrics.SetLiveClients(0)
}
