package server

import (
	"sync/atomic"
	"time"
)

// Metrics tracks server statistics using atomic operations for thread-safety
type Metrics struct {
	RequestsTotal  atomic.Int64
	RequestErrors  atomic.Int64
	CardsCreated   atomic.Int64
	CardsDeleted   atomic.Int64
	PatchesApplied atomic.Int64
	StartTime      time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncRequests increments the request counter
func (m *Metrics) IncRequests() {
	m.RequestsTotal.Add(1)
}

// IncRequestErrors increments the counter of responses with status >= 400
func (m *Metrics) IncRequestErrors() {
	m.RequestErrors.Add(1)
}

// IncCardsCreated increments the created cards counter
func (m *Metrics) IncCardsCreated() {
	m.CardsCreated.Add(1)
}

// IncCardsDeleted increments the deleted cards counter
func (m *Metrics) IncCardsDeleted() {
	m.CardsDeleted.Add(1)
}

// IncPatchesApplied increments the applied order patches counter
func (m *Metrics) IncPatchesApplied() {
	m.PatchesApplied.Add(1)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	RequestsTotal  int64     `json:"requests_total"`
	RequestErrors  int64     `json:"request_errors"`
	CardsCreated   int64     `json:"cards_created"`
	CardsDeleted   int64     `json:"cards_deleted"`
	PatchesApplied int64     `json:"patches_applied"`
	StartTime      time.Time `json:"start_time"`
	Uptime         string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:  m.RequestsTotal.Load(),
		RequestErrors:  m.RequestErrors.Load(),
		CardsCreated:   m.CardsCreated.Load(),
		CardsDeleted:   m.CardsDeleted.Load(),
		PatchesApplied: m.PatchesApplied.Load(),
		StartTime:      m.StartTime,
		Uptime:         time.Since(m.StartTime).String(),
	}
}
