package segy

import (
	"encoding/binary"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/resource"
	"github.com/hupe1980/segy/scan"
)

type options struct {
	logger       *Logger
	metrics      MetricsCollector
	order        binary.ByteOrder
	headerFields []header.TraceField
	rc           *resource.Controller
	scanOpts     []scan.Option
}

// Option configures reads, writes and scans.
type Option func(*options)

func newOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		order:   binary.BigEndian,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// scanOptions translates o for the scan package. Options passed through
// WithScanOptions come last and win.
func (o options) scanOptions() []scan.Option {
	opts := []scan.Option{
		scan.WithLogger(o.logger.Logger),
		scan.WithMetrics(o.metrics),
		scan.WithByteOrder(o.order),
		scan.WithResourceController(o.rc),
	}
	return append(opts, o.scanOpts...)
}

// WithLogger sets the logger. Default discards.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithByteOrder sets the byte order of the files. Default big-endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) { o.order = order }
}

// WithHeaderFields restricts which trace header fields Read decodes.
// The others read as 0. Default decodes all fields.
func WithHeaderFields(fields ...header.TraceField) Option {
	return func(o *options) { o.headerFields = append([]header.TraceField(nil), fields...) }
}

// WithResourceController bounds memory, read concurrency and IO bandwidth.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

// WithWorkers sets the number of files scanned at once.
func WithWorkers(n int) Option {
	return WithScanOptions(scan.WithWorkers(n))
}

// WithScanOptions passes options through to the scan package.
func WithScanOptions(opts ...scan.Option) Option {
	return func(o *options) { o.scanOpts = append(o.scanOpts, opts...) }
}
