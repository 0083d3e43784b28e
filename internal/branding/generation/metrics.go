package generation

import (
	"sync/atomic"
	"time"
)

// Metrics tracks model client calls. The zero value is ready to use.
type Metrics struct {
	attempts  int64
	failures  int64
	successes int64
	exhausted int64
	latency   int64 // total attempt latency in nanoseconds
}

// MetricsSnapshot is a point-in-time copy of Metrics, safe to serialize.
type MetricsSnapshot struct {
	Attempts         int64   `json:"attempts"`
	FailedAttempts   int64   `json:"failedAttempts"`
	Successes        int64   `json:"successes"`
	Exhausted        int64   `json:"exhausted"`
	AverageLatencyMs float64 `json:"averageLatencyMs"`
}

func (m *Metrics) recordAttempt(d time.Duration, err error) {
	atomic.AddInt64(&m.attempts, 1)
	atomic.AddInt64(&m.latency, d.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&m.failures, 1)
	}
}

func (m *Metrics) recordSuccess() {
	atomic.AddInt64(&m.successes, 1)
}

func (m *Metrics) recordExhausted() {
	atomic.AddInt64(&m.exhausted, 1)
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	attempts := atomic.LoadInt64(&m.attempts)
	s := MetricsSnapshot{
		Attempts:       attempts,
		FailedAttempts: atomic.LoadInt64(&m.failures),
		Successes:      atomic.LoadInt64(&m.successes),
		Exhausted:      atomic.LoadInt64(&m.exhausted),
	}
	if attempts > 0 {
		s.AverageLatencyMs = float64(atomic.LoadInt64(&m.latency)) / float64(attempts) / 1e6
	}
	return s
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.attempts, 0)
	atomic.StoreInt64(&m.failures, 0)
	atomic.StoreInt64(&m.successes, 0)
	atomic.StoreInt64(&m.exhausted, 0)
	atomic.StoreInt64(&m.latency, 0)
}
