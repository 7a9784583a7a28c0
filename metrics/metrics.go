// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultRejected = "rejected"
	ResultStale    = "stale"
)

// Metrics is the set of collectors the server exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RemoteWrites   *prometheus.CounterVec
	FallbackWrites *prometheus.CounterVec
	ScoreEntries   *prometheus.CounterVec
	LiveClients    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RemoteWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bale_remote_writes_total",
			Help: "Writes to the remote document store by result.",
		}, []string{"result"}),
		FallbackWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bale_fallback_writes_total",
			Help: "Writes to the local fallback store by result.",
		}, []string{"result"}),
		ScoreEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bale_score_entries_total",
			Help: "Keypad and direct score entries by result.",
		}, []string{"result"}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bale_live_clients",
			Help: "Connected live scoreboard viewers.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.RemoteWrites, m.FallbackWrites, m.ScoreEntries, m.LiveClients)
	}
	return m
}

func (m *Metrics) RemoteWrite(result string) {
	if m == nil {
		return
	}
	m.RemoteWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) FallbackWrite(result string) {
	if m == nil {
		return
	}
	m.FallbackWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) ScoreEntry(result string) {
	if m == nil {
		return
	}
	m.ScoreEntries.WithLabelValues(result).Inc()
}

func (m *Metrics) SetLiveClients(n int) {
	if m == nil {
		return
	}
	m.LiveClients.Set(float64(n))
}
