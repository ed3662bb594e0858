package scan

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/internal/segyio"
	"github.com/hupe1980/segy/pmap"
	"github.com/hupe1980/segy/resource"
)

// File is a scanned file and its global header.
type File struct {
	Path   string
	Header header.FileHeader
}

// Index is an ordered list of shot descriptors over one or more files.
// It is immutable once built and safe for concurrent use.
type Index struct {
	store      blobstore.BlobStore
	files      []File
	byPath     map[string]int
	keyFields  []header.TraceField
	scaledKeys bool
	order      binary.ByteOrder
	records    []ShotRecord
	failures   []Failure

	pool    *pmap.Pool
	logger  *slog.Logger
	metrics Metrics
	rc      *resource.Controller
}

func newIndex(store blobstore.BlobStore, o *options) *Index {
	pool := o.pool
	if pool == nil {
		pool = pmap.NewPool(o.workers)
	}
	return &Index{
		store:      store,
		byPath:     make(map[string]int),
		keyFields:  o.keyFields,
		scaledKeys: o.scaledKeys,
		order:      o.order,
		records:    []ShotRecord{},
		pool:       pool,
		logger:     o.logger,
		metrics:    o.metrics,
		rc:         o.rc,
	}
}

func (idx *Index) add(name string, fs fileScan) {
	idx.addFile(File{Path: name, Header: fs.fh})
	idx.records = append(idx.records, fs.records...)
}

func (idx *Index) addFile(f File) {
	if _, ok := idx.byPath[f.Path]; ok {
		return
	}
	idx.byPath[f.Path] = len(idx.files)
	idx.files = append(idx.files, f)
}

// IndexConfig is the content of a previously built index.
type IndexConfig struct {
	Files      []File
	KeyFields  []header.TraceField
	ScaledKeys bool
	ByteOrder  binary.ByteOrder
	Records    []ShotRecord
}

// NewIndex rebuilds an index over store from its content. Only the
// logging, metrics, pool and resource options apply.
func NewIndex(store blobstore.BlobStore, cfg IndexConfig, optFns ...Option) (*Index, error) {
	o, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	if len(cfg.KeyFields) > 0 {
		o.keyFields = cfg.KeyFields
	}
	if cfg.ByteOrder != nil {
		o.order = cfg.ByteOrder
	}
	o.scaledKeys = cfg.ScaledKeys

	idx := newIndex(store, &o)
	for _, f := range cfg.Files {
		idx.addFile(f)
	}
	for i := range cfg.Records {
		rec := &cfg.Records[i]
		if _, ok := idx.byPath[rec.Path]; !ok {
			return nil, fmt.Errorf("%w: shot %d references unknown file %q", ErrIncompatibleIndex, i, rec.Path)
		}
		idx.records = append(idx.records, rec.clone())
	}
	return idx, nil
}

// Len returns the number of shots.
func (idx *Index) Len() int { return len(idx.records) }

func (idx *Index) check(i int) error {
	if i < 0 || i >= len(idx.records) {
		return &ShotIndexError{Index: i, Len: len(idx.records)}
	}
	return nil
}

// Record returns a copy of shot i's descriptor.
func (idx *Index) Record(i int) (ShotRecord, error) {
	if err := idx.check(i); err != nil {
		return ShotRecord{}, err
	}
	return idx.records[i].clone(), nil
}

// Records returns copies of all descriptors.
func (idx *Index) Records() []ShotRecord {
	out := make([]ShotRecord, len(idx.records))
	for i := range idx.records {
		out[i] = idx.records[i].clone()
	}
	return out
}

// Paths returns the file of every shot.
func (idx *Index) Paths() []string {
	out := make([]string, len(idx.records))
	for i := range idx.records {
		out[i] = idx.records[i].Path
	}
	return out
}

// Offsets returns the byte offset of every shot's first trace.
func (idx *Index) Offsets() []int64 {
	out := make([]int64, len(idx.records))
	for i := range idx.records {
		out[i] = idx.records[i].Offset()
	}
	return out
}

// Counts returns the trace count of every shot.
func (idx *Index) Counts() []int {
	out := make([]int, len(idx.records))
	for i := range idx.records {
		out[i] = idx.records[i].Count()
	}
	return out
}

// Keys returns the scaled key values of every shot.
func (idx *Index) Keys() [][]float64 {
	out := make([][]float64, len(idx.records))
	for i := range idx.records {
		out[i] = append([]float64(nil), idx.records[i].ScaledKeys...)
	}
	return out
}

// RawKeys returns the raw key values of every shot.
func (idx *Index) RawKeys() [][]int32 {
	out := make([][]int32, len(idx.records))
	for i := range idx.records {
		out[i] = append([]int32(nil), idx.records[i].RawKeys...)
	}
	return out
}

// TotalTraces returns the sum of all shot trace counts.
func (idx *Index) TotalTraces() int {
	n := 0
	for i := range idx.records {
		n += idx.records[i].Count()
	}
	return n
}

// Summary returns the header summaries of shot i.
func (idx *Index) Summary(i int) ([]FieldSummary, error) {
	if err := idx.check(i); err != nil {
		return nil, err
	}
	return append([]FieldSummary(nil), idx.records[i].Summary...), nil
}

// KeyFields returns the fields shots were grouped on.
func (idx *Index) KeyFields() []header.TraceField {
	return append([]header.TraceField(nil), idx.keyFields...)
}

// ScaledKeys reports whether grouping used scaled key values.
func (idx *Index) ScaledKeys() bool { return idx.scaledKeys }

// ByteOrder returns the byte order of the indexed files.
func (idx *Index) ByteOrder() binary.ByteOrder { return idx.order }

// Files returns the scanned files in scan order.
func (idx *Index) Files() []File { return append([]File(nil), idx.files...) }

// FileHeader returns the global header of a scanned file.
func (idx *Index) FileHeader(path string) (header.FileHeader, bool) {
	i, ok := idx.byPath[path]
	if !ok {
		return header.FileHeader{}, false
	}
	return idx.files[i].Header, true
}

// Failures returns the files skipped under WithTolerateFailures.
func (idx *Index) Failures() []Failure { return append([]Failure(nil), idx.failures...) }

// Select returns the indices of the shots for which keep returns true.
func (idx *Index) Select(keep func(*ShotRecord) bool) *roaring.Bitmap {
	sel := roaring.New()
	for i := range idx.records {
		rec := idx.records[i].clone()
		if keep(&rec) {
			sel.Add(uint32(i))
		}
	}
	return sel
}

func (idx *Index) traces(rec *ShotRecord) []segyio.Traces {
	out := make([]segyio.Traces, len(rec.Segments))
	for i, s := range rec.Segments {
		out[i] = segyio.Traces{Offset: s.Offset, Count: s.Count, NS: rec.NS, Format: rec.Format}
	}
	return out
}

// Shot reads shot i into a new block. Only the shot's traces are read.
// When fields are given, only those trace header fields are decoded and
// the rest read as 0. Shot never modifies the index, and repeated calls
// return equal blocks.
func (idx *Index) Shot(ctx context.Context, i int, fields ...header.TraceField) (blk *block.Block, err error) {
	if err := idx.check(i); err != nil {
		return nil, err
	}
	rec := &idx.records[i]
	start := time.Now()
	defer func() {
		idx.metrics.RecordShotRead(rec.Count(), time.Since(start), err)
		if err != nil {
			idx.logger.ErrorContext(ctx, "shot read failed", "shot", i, "path", rec.Path, "error", err)
		}
	}()

	if err := idx.rc.AcquireRead(ctx); err != nil {
		return nil, err
	}
	defer idx.rc.ReleaseRead()

	runs := idx.traces(rec)
	var size int64
	for _, t := range runs {
		size += t.Size()
	}
	if err := idx.rc.AcquireMemory(size); err != nil {
		return nil, err
	}
	defer idx.rc.ReleaseMemory(size)
	if err := idx.rc.AcquireIO(ctx, int(size)); err != nil {
		return nil, err
	}

	b, err := openBlob(ctx, idx.store, rec.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	headers := make([]header.TraceHeader, 0, rec.Count())
	data := make([]float32, 0, rec.Count()*rec.NS)
	for _, t := range runs {
		hs, d, err := segyio.ReadTraces(ctx, b, rec.Path, t, fields, idx.order)
		if err != nil {
			return nil, err
		}
		headers = append(headers, hs...)
		data = append(data, d...)
	}

	fh, _ := idx.FileHeader(rec.Path)
	fh.Binary.Set(header.FileNS, int32(rec.NS))
	fh.Binary.Set(header.FileNumberOfExtTextualHeaders, 0)
	idx.logger.DebugContext(ctx, "shot read", "shot", i, "path", rec.Path, "traces", len(headers))
	return block.New(fh, headers, data)
}

// ReadHeaders reads only the trace headers of shot i.
func (idx *Index) ReadHeaders(ctx context.Context, i int, fields ...header.TraceField) ([]header.TraceHeader, error) {
	if err := idx.check(i); err != nil {
		return nil, err
	}
	rec := &idx.records[i]
	if err := idx.rc.AcquireRead(ctx); err != nil {
		return nil, err
	}
	defer idx.rc.ReleaseRead()

	b, err := openBlob(ctx, idx.store, rec.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	out := make([]header.TraceHeader, 0, rec.Count())
	for _, t := range idx.traces(rec) {
		hs, err := segyio.ReadHeaders(ctx, b, rec.Path, t, fields, idx.order)
		if err != nil {
			return nil, err
		}
		out = append(out, hs...)
	}
	return out, nil
}

// ReadSelection reads the selected shots in parallel and merges them in
// ascending shot order. All selected shots must share ns.
func (idx *Index) ReadSelection(ctx context.Context, sel *roaring.Bitmap, fields ...header.TraceField) (*block.Block, error) {
	shots := make([]int, 0, sel.GetCardinality())
	it := sel.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if err := idx.check(i); err != nil {
			return nil, err
		}
		shots = append(shots, i)
	}
	if len(shots) == 0 {
		return nil, block.ErrEmptyMerge
	}
	blocks, err := pmap.Map(ctx, idx.pool, shots, func(ctx context.Context, i int) (*block.Block, error) {
		return idx.Shot(ctx, i, fields...)
	})
	if err != nil {
		return nil, err
	}
	return block.Merge(blocks...)
}

func (idx *Index) String() string {
	var sb strings.Builder
	sb.WriteString("Index:\n")
	fmt.Fprintf(&sb, "    files: %d\n", len(idx.files))
	fmt.Fprintf(&sb, "    shots: %d\n", len(idx.records))
	fmt.Fprintf(&sb, "    traces: %d\n", idx.TotalTraces())
	names := make([]string, len(idx.keyFields))
	for i, f := range idx.keyFields {
		names[i] = f.String()
	}
	fmt.Fprintf(&sb, "    keys: %s", strings.Join(names, ", "))
	if len(idx.failures) > 0 {
		fmt.Fprintf(&sb, "\n    failures: %d", len(idx.failures))
	}
	return sb.String()
}
