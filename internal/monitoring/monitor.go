package monitoring

import (
	"sync"
	"time"
)

// BatchSnapshot describes the outcome of one suggestion batch.
type BatchSnapshot struct {
	RequestID   string
	Suggestions int
	Skipped     int
	Duration    time.Duration
	Partial     bool
	CompletedAt time.Time
}

// Monitor keeps an in-memory snapshot of the most recent batch for the
// CLI and scenario surfaces. Prometheus covers time series; this answers
// "what did the last run do" without scraping.
type Monitor struct {
	mu        sync.RWMutex
	last      *BatchSnapshot
	batches   int
	startTime time.Time
}

// NewMonitor creates a monitor anchored at the current time.
func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// RecordBatchResult stores the outcome of one suggestion batch,
// replacing any previous snapshot.
func (m *Monitor) RecordBatchResult(requestID string, suggestions, skipped int, duration time.Duration, partial bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches++
	m.last = &BatchSnapshot{
		RequestID:   requestID,
		Suggestions: suggestions,
		Skipped:     skipped,
		Duration:    duration,
		Partial:     partial,
		CompletedAt: time.Now(),
	}
}

// LastBatch returns the most recent batch snapshot, or false when no
// batch has completed yet.
func (m *Monitor) LastBatch() (BatchSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return BatchSnapshot{}, false
	}
	return *m.last, true
}

// Snapshot flattens the monitor state into a map for logs and JSON
// output. The last_* keys appear only after a batch has completed.
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := map[string]interface{}{
		"uptime_seconds":    time.Since(m.startTime).Seconds(),
		"batches_completed": m.batches,
	}
	if m.last != nil {
		snapshot["last_request_id"] = m.last.RequestID
		snapshot["last_suggestion_count"] = m.last.Suggestions
		snapshot["last_skipped_count"] = m.last.Skipped
		snapshot["last_duration_ms"] = m.last.Duration.Milliseconds()
		snapshot["last_partial"] = m.last.Partial
		snapshot["last_completed_at"] = m.last.CompletedAt.Format(time.RFC3339)
	}
	return snapshot
}

// Reset discards recorded batches, keeping the start time.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = nil
	m.batches = 0
}
