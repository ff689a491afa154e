package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	eventsGenerated atomic.Uint64
	trialsRun       atomic.Uint64
	degenerateSkips atomic.Uint64
	runsCompleted   atomic.Uint64

	// Run duration tracking
	runDurationSumNs atomic.Int64
	runCount         atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordRun records a completed simulation run with its duration and
// the events it generated.
func (m *Metrics) RecordRun(events, skipped int, d time.Duration) {
	m.eventsGenerated.Add(uint64(events))
	m.degenerateSkips.Add(uint64(skipped))
	m.runsCompleted.Add(1)
	m.runDurationSumNs.Add(int64(d))
	m.runCount.Add(1)
}

// RecordTrials records Monte Carlo trials executed by an estimator.
func (m *Metrics) RecordTrials(n int) {
	m.trialsRun.Add(uint64(n))
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	EventsGenerated uint64
	TrialsRun       uint64
	DegenerateSkips uint64
	RunsCompleted   uint64
	AvgRunDuration  time.Duration
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avg time.Duration
	count := m.runCount.Load()
	if count > 0 {
		avg = time.Duration(m.runDurationSumNs.Load() / int64(count))
	}

	return MetricsSnapshot{
		EventsGenerated: m.eventsGenerated.Load(),
		TrialsRun:       m.trialsRun.Load(),
		DegenerateSkips: m.degenerateSkips.Load(),
		RunsCompleted:   m.runsCompleted.Load(),
		AvgRunDuration:  avg,
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.eventsGenerated.Store(0)
	m.trialsRun.Store(0)
	m.degenerateSkips.Store(0)
	m.runsCompleted.Store(0)
	m.runDurationSumNs.Store(0)
	m.runCount.Store(0)
}
