// Package metrics provides an in-memory implementation of
// types.MetricsCollector suitable for tests, examples, and applications that
// poll aggregate counters instead of exporting to a metrics backend.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/cecil-the-coder/fallback-kit/pkg/types"
)

// MemoryCollector aggregates metric events in memory.
// All methods are safe for concurrent use.
type MemoryCollector struct {
	mu sync.RWMutex

	totalRequests    int64
	totalSuccesses   int64
	totalErrors      int64
	providerSwitches int64

	perProvider map[string]*ProviderStats

	events []types.MetricEvent
	// keepEvents bounds the retained event log; 0 disables retention
	keepEvents int

	lastUpdated time.Time
}

// ProviderStats holds aggregate counters for one provider name.
type ProviderStats struct {
	Requests     int64         `json:"requests"`
	Successes    int64         `json:"successes"`
	Errors       int64         `json:"errors"`
	Switches     int64         `json:"switches"`
	TotalLatency time.Duration `json:"total_latency"`
	LastError    string        `json:"last_error,omitempty"`
}

// Snapshot is a point-in-time copy of all aggregate counters.
type Snapshot struct {
	TotalRequests    int64                    `json:"total_requests"`
	TotalSuccesses   int64                    `json:"total_successes"`
	TotalErrors      int64                    `json:"total_errors"`
	ProviderSwitches int64                    `json:"provider_switches"`
	Providers        map[string]ProviderStats `json:"providers"`
	LastUpdated      time.Time                `json:"last_updated"`
}

// NewMemoryCollector creates a collector that retains the most recent
// keepEvents events alongside the counters. Pass 0 to keep counters only.
func NewMemoryCollector(keepEvents int) *MemoryCollector {
	return &MemoryCollector{
		perProvider: make(map[string]*ProviderStats),
		keepEvents:  keepEvents,
	}
}

// RecordEvent implements types.MetricsCollector.
func (c *MemoryCollector) RecordEvent(_ context.Context, event types.MetricEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.perProvider[event.ProviderName]
	if stats == nil {
		stats = &ProviderStats{}
		c.perProvider[event.ProviderName] = stats
	}

	switch event.Type {
	case types.MetricEventRequest:
		c.totalRequests++
		stats.Requests++
	case types.MetricEventSuccess:
		c.totalSuccesses++
		stats.Successes++
		stats.TotalLatency += event.Latency
	case types.MetricEventError:
		c.totalErrors++
		stats.Errors++
		stats.LastError = event.ErrorMessage
	case types.MetricEventProviderSwitch:
		c.providerSwitches++
		stats.Switches++
		stats.TotalLatency += event.Latency
		if event.ErrorMessage != "" {
			stats.LastError = event.ErrorMessage
		}
	}

	if c.keepEvents > 0 {
		c.events = append(c.events, event)
		if len(c.events) > c.keepEvents {
			c.events = c.events[len(c.events)-c.keepEvents:]
		}
	}

	c.lastUpdated = event.Timestamp
	return nil
}

// GetSnapshot returns a point-in-time copy of all counters.
func (c *MemoryCollector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	providers := make(map[string]ProviderStats, len(c.perProvider))
	for name, stats := range c.perProvider {
		providers[name] = *stats
	}
	return Snapshot{
		TotalRequests:    c.totalRequests,
		TotalSuccesses:   c.totalSuccesses,
		TotalErrors:      c.totalErrors,
		ProviderSwitches: c.providerSwitches,
		Providers:        providers,
		LastUpdated:      c.lastUpdated,
	}
}

// Events returns a copy of the retained event log, oldest first.
func (c *MemoryCollector) Events() []types.MetricEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.MetricEvent(nil), c.events...)
}
