package segy

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Every MetricsCollector is also a scan.Metrics.
type MetricsCollector interface {
	// RecordFileScan is called after each file's trace headers were walked.
	// traces is the number of traces seen, bytes the file size.
	RecordFileScan(traces int, bytes int64, duration time.Duration, err error)

	// RecordShotRead is called after each Index.Shot.
	RecordShotRead(traces int, duration time.Duration, err error)

	// RecordRead is called after each whole-file read.
	RecordRead(traces int, bytes int64, duration time.Duration, err error)

	// RecordWrite is called after each whole-file write.
	RecordWrite(traces int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFileScan(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordShotRead(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordRead(int, int64, time.Duration, error)     {}
func (NoopMetricsCollector) RecordWrite(int, int64, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	FileScanCount      atomic.Int64
	FileScanErrors     atomic.Int64
	FileScanTraces     atomic.Int64
	FileScanBytes      atomic.Int64
	FileScanTotalNanos atomic.Int64
	ShotReadCount      atomic.Int64
	ShotReadErrors     atomic.Int64
	ShotReadTraces     atomic.Int64
	ShotReadTotalNanos atomic.Int64
	ReadCount          atomic.Int64
	ReadErrors         atomic.Int64
	ReadBytes          atomic.Int64
	WriteCount         atomic.Int64
	WriteErrors        atomic.Int64
	WriteBytes         atomic.Int64
}

// RecordFileScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFileScan(traces int, bytes int64, duration time.Duration, err error) {
	b.FileScanCount.Add(1)
	b.FileScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FileScanErrors.Add(1)
		return
	}
	b.FileScanTraces.Add(int64(traces))
	b.FileScanBytes.Add(bytes)
}

// RecordShotRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShotRead(traces int, duration time.Duration, err error) {
	b.ShotReadCount.Add(1)
	b.ShotReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ShotReadErrors.Add(1)
		return
	}
	b.ShotReadTraces.Add(int64(traces))
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(_ int, bytes int64, _ time.Duration, err error) {
	b.ReadCount.Add(1)
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadBytes.Add(bytes)
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(_ int, bytes int64, _ time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FileScanCount:    b.FileScanCount.Load(),
		FileScanErrors:   b.FileScanErrors.Load(),
		FileScanTraces:   b.FileScanTraces.Load(),
		FileScanBytes:    b.FileScanBytes.Load(),
		FileScanAvgNanos: avg(b.FileScanTotalNanos.Load(), b.FileScanCount.Load()),
		ShotReadCount:    b.ShotReadCount.Load(),
		ShotReadErrors:   b.ShotReadErrors.Load(),
		ShotReadTraces:   b.ShotReadTraces.Load(),
		ShotReadAvgNanos: avg(b.ShotReadTotalNanos.Load(), b.ShotReadCount.Load()),
		ReadCount:        b.ReadCount.Load(),
		ReadErrors:       b.ReadErrors.Load(),
		ReadBytes:        b.ReadBytes.Load(),
		WriteCount:       b.WriteCount.Load(),
		WriteErrors:      b.WriteErrors.Load(),
		WriteBytes:       b.WriteBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FileScanCount    int64
	FileScanErrors   int64
	FileScanTraces   int64
	FileScanBytes    int64
	FileScanAvgNanos int64
	ShotReadCount    int64
	ShotReadErrors   int64
	ShotReadTraces   int64
	ShotReadAvgNanos int64
	ReadCount        int64
	ReadErrors       int64
	ReadBytes        int64
	WriteCount       int64
	WriteErrors      int64
	WriteBytes       int64
}
