package cloudalign

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordPair is called after each registration pair completes.
	// duration covers load plus pipeline time; err is nil on success.
	RecordPair(duration time.Duration, err error)

	// RecordBatch is called once per batch run.
	// total is the number of scheduled pairs, failed the number that failed.
	RecordBatch(total, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPair(time.Duration, error)     {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PairCount       atomic.Int64
	PairErrors      atomic.Int64
	PairTotalNanos  atomic.Int64
	BatchCount      atomic.Int64
	BatchPairs      atomic.Int64
	BatchFailed     atomic.Int64
	BatchTotalNanos atomic.Int64
}

// RecordPair implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPair(duration time.Duration, err error) {
	b.PairCount.Add(1)
	b.PairTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PairErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(total, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchPairs.Add(int64(total))
	b.BatchFailed.Add(int64(failed))
	b.BatchTotalNanos.Add(duration.Nanoseconds())
}
