package distilgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    extractCounter   prometheus.Counter
//	    extractHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordExtract(pixels, entries int, duration time.Duration, err error) {
//	    p.extractCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordExtract is called after each palette extraction.
	// pixels is the input size, entries the resulting palette size,
	// duration the total time taken. err is nil if successful.
	RecordExtract(pixels, entries int, duration time.Duration, err error)

	// RecordDecode is called after each image decode.
	// format is "jpeg" or "png" ("" if sniffing failed).
	RecordDecode(format string, duration time.Duration, err error)

	// RecordBatch is called after each multi-file extraction.
	// total is the number of files attempted, failed the number that failed,
	// duration is the total time taken.
	RecordBatch(total, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExtract(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDecode(string, time.Duration, error)    {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExtractCount      atomic.Int64
	ExtractErrors     atomic.Int64
	ExtractPixels     atomic.Int64
	ExtractTotalNanos atomic.Int64
	DecodeCount       atomic.Int64
	DecodeErrors      atomic.Int64
	BatchCount        atomic.Int64
	BatchFiles        atomic.Int64
	BatchFailed       atomic.Int64
}

// RecordExtract implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtract(pixels, entries int, duration time.Duration, err error) {
	b.ExtractCount.Add(1)
	b.ExtractPixels.Add(int64(pixels))
	b.ExtractTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExtractErrors.Add(1)
	}
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(format string, duration time.Duration, err error) {
	b.DecodeCount.Add(1)
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(total, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchFiles.Add(int64(total))
	b.BatchFailed.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExtractCount:    b.ExtractCount.Load(),
		ExtractErrors:   b.ExtractErrors.Load(),
		ExtractPixels:   b.ExtractPixels.Load(),
		ExtractAvgNanos: b.getAvgExtractNanos(),
		DecodeCount:     b.DecodeCount.Load(),
		DecodeErrors:    b.DecodeErrors.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchFiles:      b.BatchFiles.Load(),
		BatchFailed:     b.BatchFailed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgExtractNanos() int64 {
	count := b.ExtractCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExtractTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExtractCount    int64
	ExtractErrors   int64
	ExtractPixels   int64
	ExtractAvgNanos int64
	DecodeCount     int64
	DecodeErrors    int64
	BatchCount      int64
	BatchFiles      int64
	BatchFailed     int64
}
