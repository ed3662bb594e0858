package scan

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/pmap"
	"github.com/hupe1980/segy/resource"
)

const (
	// DefaultChunkTraces is the number of trace headers read per chunk.
	DefaultChunkTraces = 1024

	// MaxKeyFields is the largest number of key fields a scan can group on.
	MaxKeyFields = 8
)

// DefaultKeyFields group traces by source position.
var DefaultKeyFields = []header.TraceField{header.SourceX, header.SourceY, header.SourceDepth}

// ReceiverKeyFields group traces by receiver position.
var ReceiverKeyFields = []header.TraceField{header.GroupX, header.GroupY, header.RecGroupElevation}

// Metrics receives scan and read measurements.
type Metrics interface {
	RecordFileScan(traces int, bytes int64, duration time.Duration, err error)
	RecordShotRead(traces int, duration time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordFileScan(int, int64, time.Duration, error) {}
func (noopMetrics) RecordShotRead(int, time.Duration, error)        {}

type options struct {
	chunkTraces   int
	keyFields     []header.TraceField
	receiver      bool
	scaledKeys    bool
	summaryFields []header.TraceField
	mergeSegments bool
	variable      bool
	order         binary.ByteOrder
	workers       int
	pool          *pmap.Pool
	tolerate      bool
	logger        *slog.Logger
	metrics       Metrics
	rc            *resource.Controller
}

// Option configures a scan.
type Option func(*options)

func newOptions(optFns []Option) (options, error) {
	o := options{
		chunkTraces: DefaultChunkTraces,
		order:       binary.BigEndian,
		metrics:     noopMetrics{},
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.chunkTraces <= 0 {
		return o, fmt.Errorf("%w: chunk size %d", ErrInvalidOption, o.chunkTraces)
	}
	if o.keyFields == nil {
		o.keyFields = DefaultKeyFields
		if o.receiver {
			o.keyFields = ReceiverKeyFields
		}
	} else if o.receiver {
		o.keyFields = receiverFields(o.keyFields)
	}
	if len(o.keyFields) == 0 || len(o.keyFields) > MaxKeyFields {
		return o, fmt.Errorf("%w: %d key fields, want 1..%d", ErrInvalidOption, len(o.keyFields), MaxKeyFields)
	}
	for _, f := range append(append([]header.TraceField(nil), o.keyFields...), o.summaryFields...) {
		if !f.Valid() {
			return o, fmt.Errorf("%w: trace field %d", ErrInvalidOption, f)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = noopMetrics{}
	}
	return o, nil
}

// receiverFields swaps source fields for their receiver counterparts.
func receiverFields(fields []header.TraceField) []header.TraceField {
	swap := map[header.TraceField]header.TraceField{
		header.SourceX:                header.GroupX,
		header.SourceY:                header.GroupY,
		header.SourceDepth:            header.RecGroupElevation,
		header.SourceSurfaceElevation: header.RecGroupElevation,
		header.SourceDatumElevation:   header.RecDatumElevation,
		header.SourceWaterDepth:       header.GroupWaterDepth,
	}
	out := make([]header.TraceField, len(fields))
	for i, f := range fields {
		if r, ok := swap[f]; ok {
			f = r
		}
		out[i] = f
	}
	return out
}

// WithChunkTraces sets how many trace headers are read per chunk. It
// bounds memory only; results do not depend on it.
func WithChunkTraces(n int) Option {
	return func(o *options) { o.chunkTraces = n }
}

// WithKeyFields sets the fields whose values identify a shot.
func WithKeyFields(fields ...header.TraceField) Option {
	return func(o *options) { o.keyFields = append([]header.TraceField(nil), fields...) }
}

// WithReceiverGrouping groups by receiver instead of source position. It
// only changes the key fields.
func WithReceiverGrouping() Option {
	return func(o *options) { o.receiver = true }
}

// WithScaledKeys groups on scaled key values instead of raw ones.
func WithScaledKeys() Option {
	return func(o *options) { o.scaledKeys = true }
}

// WithSummaryFields records the (min, max) of fields for every shot.
func WithSummaryFields(fields ...header.TraceField) Option {
	return func(o *options) { o.summaryFields = append([]header.TraceField(nil), fields...) }
}

// WithMergeSegments folds non-contiguous runs with equal keys within one
// file into a single record.
func WithMergeSegments() Option {
	return func(o *options) { o.mergeSegments = true }
}

// WithVariableTraceLength walks files using each trace's own ns. Records
// are split where ns changes.
func WithVariableTraceLength() Option {
	return func(o *options) { o.variable = true }
}

// WithByteOrder sets the byte order of the files. Default big-endian.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) { o.order = order }
}

// WithWorkers sets the number of files scanned at once. Default GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPool runs file scans on an existing pool. It overrides WithWorkers.
func WithPool(p *pmap.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithTolerateFailures keeps scanning when a file fails. Failed files are
// reported by Index.Failures.
func WithTolerateFailures() Option {
	return func(o *options) { o.tolerate = true }
}

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithResourceController applies read-concurrency and IO limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}
