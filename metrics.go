package semvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives build telemetry.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordDocument is called once per document folded into the term vectors.
	RecordDocument(superpositions int)

	// RecordLookupMisses is called with the number of index terms of a
	// document that have no term vector.
	RecordLookupMisses(n int)

	// RecordStreamExhausted is called when the doc-vector stream ends after
	// read of expected documents.
	RecordStreamExhausted(read, expected int)

	// RecordBuild is called after each build. err is nil if successful.
	RecordBuild(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDocument(int)               {}
func (NoopMetricsCollector) RecordLookupMisses(int)           {}
func (NoopMetricsCollector) RecordStreamExhausted(int, int)   {}
func (NoopMetricsCollector) RecordBuild(time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	Documents        atomic.Int64
	Superpositions   atomic.Int64
	LookupMisses     atomic.Int64
	ShortStreams     atomic.Int64
	MissingDocuments atomic.Int64
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
}

// RecordDocument implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDocument(superpositions int) {
	b.Documents.Add(1)
	b.Superpositions.Add(int64(superpositions))
}

// RecordLookupMisses implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookupMisses(n int) {
	b.LookupMisses.Add(int64(n))
}

// RecordStreamExhausted implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStreamExhausted(read, expected int) {
	b.ShortStreams.Add(1)
	b.MissingDocuments.Add(int64(expected - read))
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Documents:        b.Documents.Load(),
		Superpositions:   b.Superpositions.Load(),
		LookupMisses:     b.LookupMisses.Load(),
		ShortStreams:     b.ShortStreams.Load(),
		MissingDocuments: b.MissingDocuments.Load(),
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildAvgNanos:    b.avgBuildNanos(),
	}
}

func (b *BasicMetricsCollector) avgBuildNanos() int64 {
	count := b.BuildCount.Load()
	if count == 0 {
		return 0
	}
	return b.BuildTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Documents        int64
	Superpositions   int64
	LookupMisses     int64
	ShortStreams     int64
	MissingDocuments int64
	BuildCount       int64
	BuildErrors      int64
	BuildAvgNanos    int64
}
