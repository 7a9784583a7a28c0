// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Viewers only send control frames
	maxMessageSize = 512

	sendBufferSize = 64
)

// Client is one read-only viewer of a bale.
type Client struct {
	ID   string
	Slug string
	conn *websocket.Conn
	Send chan Message
	hub  *Hub
}

func NewClient(id, slug string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		Slug: slug,
		conn: conn,
		Send: make(chan Message, sendBufferSize),
		hub:  hub,
	}
}

// TrySend queues msg without blocking. Returns false if the buffer is full.
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// readPump discards anything the viewer sends; it exists to process
// control frames and notice disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("live viewer closed unexpectedly", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				slog.Warn("live write failed", "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Server upgrades HTTP requests into viewers of a hub.
type Server struct {
	hub      *Hub
	ctx      context.Context
	upgrader websocket.Upgrader
}

// NewServer builds a Server. Pumps run on ctx rather than the request
// context so they outlive the handler. checkOrigin may be nil to accept
// any origin.
func NewServer(ctx context.Context, hub *Hub, checkOrigin func(*http.Request) bool) *Server {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		hub: hub,
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Serve upgrades the connection and subscribes it to slug. initial, if
// not nil, is sent before any later update.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, slug string, initial any) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := NewClient(uuid.NewString(), slug, conn, s.hub)
	if initial != nil {
		c.TrySend(Message{Type: MessageTypeBaleUpdate, Payload: initial, Timestamp: time.Now()})
	}
	s.hub.Register(c)

	go c.writePump(s.ctx)
	go c.readPump()
}
