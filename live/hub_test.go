// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bale-scorer/metrics"
)

type payload struct {
	Total int `json:"total"`
}

func startHub(t *testing.T, m *metrics.Metrics) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(m)
	go hub.Run(ctx)

	srv := NewServer(ctx, hub, nil)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimPrefix(r.URL.Path, "/live/")
		var initial any
		if r.URL.Query().Get("initial") != "" {
			initial = payload{Total: 1}
		}
		srv.Serve(w, r, slug, initial)
	}))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return hub, ts
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 5*time.Millisecond)
}

type received struct {
	Type    string  `json:"type"`
	Payload payload `json:"payload"`
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PublishReachesViewersOfSlug(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	hub, ts := startHub(t, m)

	a := dial(t, ts, "/live/abc")
	b := dial(t, ts, "/live/xyz")
	waitForClients(t, hub, 2)
	assert.Equal(t, 2.0, promtest.ToFloat64(m.LiveClients))

	hub.Publish("abc", payload{Total: 29})

	msg := read(t, a)
	assert.Equal(t, MessageTypeBaleUpdate, msg.Type)
	assert.Equal(t, 29, msg.Payload.Total)

	// the other bale's viewer gets nothing
	b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
}

func TestHub_InitialSnapshotFirst(t *testing.T) {
	hub, ts := startHub(t, nil)

	conn := dial(t, ts, "/live/abc?initial=1")
	waitForClients(t, hub, 1)
	hub.Publish("abc", payload{Total: 2})

	assert.Equal(t, 1, read(t, conn).Payload.Total)
	assert.Equal(t, 2, read(t, conn).Payload.Total)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, ts := startHub(t, nil)

	conn := dial(t, ts, "/live/abc")
	waitForClients(t, hub, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_SlowClientDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)

	// a client with no pump never drains its buffer
	c := &Client{ID: "slow", Slug: "abc", Send: make(chan Message, 1), hub: hub}
	hub.Register(c)
	waitForClients(t, hub, 1)

	hub.Publish("abc", payload{Total: 1})
	hub.Publish("abc", payload{Total: 2})
	waitForClients(t, hub, 0)

	// the buffered message is still there, then the channel is closed
	<-c.Send
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHub_RegisterAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	c := &Client{ID: "late", Slug: "abc", Send: make(chan Message, 1), hub: hub}
	hub.Register(c)
	_, ok := <-c.Send
	assert.False(t, ok)
	hub.Unregister(c)
}
