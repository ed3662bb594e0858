package scan

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/delim"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/internal/segyio"
)

// ScanFile scans one file and returns its shots in order of first
// appearance.
func ScanFile(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) ([]ShotRecord, error) {
	o, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	fs, err := scanFile(ctx, store, name, &o)
	if err != nil {
		return nil, err
	}
	return fs.records, nil
}

type fileScan struct {
	fh      header.FileHeader
	records []ShotRecord
	traces  int
}

func openBlob(ctx context.Context, store blobstore.BlobStore, name string) (blobstore.Blob, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, &blobstore.IOError{Name: name, Err: err}
	}
	return b, nil
}

func scanFile(ctx context.Context, store blobstore.BlobStore, name string, o *options) (res fileScan, err error) {
	start := time.Now()
	var size int64
	defer func() {
		o.metrics.RecordFileScan(res.traces, size, time.Since(start), err)
		if err != nil {
			o.logger.ErrorContext(ctx, "file scan failed", "path", name, "error", err)
		}
	}()

	if err := o.rc.AcquireRead(ctx); err != nil {
		return res, err
	}
	defer o.rc.ReleaseRead()

	b, err := openBlob(ctx, store, name)
	if err != nil {
		return res, err
	}
	defer func() { _ = b.Close() }()
	size = b.Size()

	fh, err := segyio.ReadFileHeader(ctx, b, name, o.order)
	if err != nil {
		return res, err
	}
	o.logger.DebugContext(ctx, "file header read", "path", name, "ns", fh.NS(), "dt", fh.DT(), "format", fh.SampleFormat().String())

	w, err := newWalker(b, name, fh, o)
	if err != nil {
		return res, err
	}
	g := newGrouper(name, fh, o)
	for {
		chunk, err := w.next(ctx)
		if err != nil {
			return res, err
		}
		if len(chunk) == 0 {
			break
		}
		g.add(chunk)
		o.logger.DebugContext(ctx, "chunk scanned", "path", name, "traces", w.walked)
	}

	res = fileScan{fh: fh, records: g.finish(), traces: w.walked}
	o.logger.InfoContext(ctx, "file scanned",
		"path", name,
		"traces", res.traces,
		"shots", len(res.records),
		"size", humanize.Bytes(uint64(size)),
	)
	return res, nil
}

type traceInfo struct {
	offset int64
	ns     int
	hdr    header.TraceHeader
}

// walker reads trace headers in chunks. Each chunk is fetched with one
// ranged read spanning its traces; the window is refilled early only when
// a change of ns moves the stride in variable-length files.
type walker struct {
	blob   blobstore.Blob
	name   string
	fh     header.FileHeader
	o      *options
	fields []header.TraceField
	width  int64
	off    int64
	end    int64
	stride int64
	walked int

	// window holds the bytes at [winOff, winOff+len(window)).
	buf    []byte
	window []byte
	winOff int64
}

func newWalker(b blobstore.Blob, name string, fh header.FileHeader, o *options) (*walker, error) {
	w := &walker{
		blob:   b,
		name:   name,
		fh:     fh,
		o:      o,
		fields: decodeFields(o),
		width:  int64(fh.SampleFormat().Width()),
		off:    fh.DataOffset(),
		end:    b.Size(),
		stride: fh.TraceSize(fh.NS()),
	}
	if w.off > w.end {
		return nil, &blobstore.IOError{Name: name, Offset: w.end, Length: w.off - w.end, Err: io.ErrUnexpectedEOF}
	}
	return w, nil
}

// decodeFields lists every trace field the scan needs.
func decodeFields(o *options) []header.TraceField {
	fields := []header.TraceField{header.NS}
	add := func(f header.TraceField) {
		if !slices.Contains(fields, f) {
			fields = append(fields, f)
		}
	}
	for _, f := range o.keyFields {
		add(f)
		if s, ok := f.Scalar(); ok {
			add(s)
		}
	}
	for _, f := range o.summaryFields {
		add(f)
	}
	return fields
}

// headerAt returns the header bytes at w.off. When the window does not
// cover them it is refilled to span up to n traces at the current stride.
// Only the bytes read are charged to the IO budget.
func (w *walker) headerAt(ctx context.Context, n int) ([]byte, error) {
	if rel := w.off - w.winOff; w.window != nil && rel >= 0 && rel+header.TraceHeaderSize <= int64(len(w.window)) {
		return w.window[rel : rel+header.TraceHeaderSize], nil
	}
	if w.end-w.off < header.TraceHeaderSize {
		return nil, &blobstore.IOError{Name: w.name, Offset: w.off, Length: header.TraceHeaderSize, Err: io.ErrUnexpectedEOF}
	}
	span := min(int64(n-1)*w.stride+header.TraceHeaderSize, w.end-w.off)
	if int64(cap(w.buf)) < span {
		w.buf = make([]byte, span)
	}
	w.window = w.buf[:span]
	w.winOff = w.off
	if err := w.o.rc.AcquireIO(ctx, int(span)); err != nil {
		w.window = nil
		return nil, err
	}
	if err := blobstore.ReadFull(ctx, w.blob, w.name, w.window, w.off); err != nil {
		w.window = nil
		return nil, err
	}
	return w.window[:header.TraceHeaderSize], nil
}

func (w *walker) next(ctx context.Context) ([]traceInfo, error) {
	if w.off >= w.end {
		return nil, nil
	}

	chunk := make([]traceInfo, 0, w.o.chunkTraces)
	for len(chunk) < w.o.chunkTraces && w.off < w.end {
		buf, err := w.headerAt(ctx, w.o.chunkTraces-len(chunk))
		if err != nil {
			return nil, err
		}
		h, err := header.DecodeTraceFields(buf, w.o.order, w.fields)
		if err != nil {
			return nil, err
		}

		ns := int(h.Get(header.NS))
		switch {
		case ns == 0:
			ns = w.fh.NS()
		case !w.o.variable && ns != w.fh.NS():
			return nil, &header.MalformedHeaderError{
				Path:   w.name,
				Offset: w.off,
				Field:  header.NS.String(),
				Reason: fmt.Sprintf("trace has %d samples, file header has %d", ns, w.fh.NS()),
			}
		}

		size := header.TraceHeaderSize + int64(ns)*w.width
		if w.off+size > w.end {
			return nil, &blobstore.IOError{Name: w.name, Offset: w.off, Length: size, Err: io.ErrUnexpectedEOF}
		}
		chunk = append(chunk, traceInfo{offset: w.off, ns: ns, hdr: h})
		w.off += size
		w.stride = size
		w.walked++
	}
	return chunk, nil
}

// traceKey is the grouping identity of a trace.
type traceKey struct {
	v  [MaxKeyFields]float64
	ns int
}

type run struct {
	key     traceKey
	first   traceInfo
	count   int
	summary []FieldSummary
}

// grouper turns a stream of trace chunks into shot records. A run open at
// the end of one chunk continues into the next when the keys match.
type grouper struct {
	name    string
	fh      header.FileHeader
	o       *options
	records []ShotRecord
	byKey   map[traceKey]int
	cur     *run
	keys    []traceKey
}

func newGrouper(name string, fh header.FileHeader, o *options) *grouper {
	return &grouper{name: name, fh: fh, o: o, byKey: make(map[traceKey]int)}
}

func (g *grouper) keyOf(t *traceInfo) traceKey {
	var k traceKey
	for i, f := range g.o.keyFields {
		if g.o.scaledKeys {
			k.v[i] = t.hdr.Scaled(f)
		} else {
			k.v[i] = float64(t.hdr.Get(f))
		}
	}
	if g.o.variable {
		k.ns = t.ns
	}
	return k
}

func (g *grouper) add(chunk []traceInfo) {
	g.keys = g.keys[:0]
	for i := range chunk {
		g.keys = append(g.keys, g.keyOf(&chunk[i]))
	}

	for _, r := range delim.Runs(g.keys, 1) {
		key := g.keys[r.Start]
		if g.cur == nil || g.cur.key != key {
			g.flush()
			g.cur = &run{
				key:     key,
				first:   chunk[r.Start],
				summary: make([]FieldSummary, len(g.o.summaryFields)),
			}
		}
		for i := r.Start; i < r.End; i++ {
			summarize(g.cur.summary, g.o.summaryFields, &chunk[i].hdr, g.cur.count == 0)
			g.cur.count++
		}
	}
}

func (g *grouper) flush() {
	r := g.cur
	if r == nil {
		return
	}
	g.cur = nil
	seg := Segment{Offset: r.first.offset, Count: r.count}

	if g.o.mergeSegments {
		if i, ok := g.byKey[r.key]; ok {
			rec := &g.records[i]
			rec.Segments = append(rec.Segments, seg)
			mergeSummary(rec.Summary, r.summary)
			return
		}
		g.byKey[r.key] = len(g.records)
	}

	rec := ShotRecord{
		Path:       g.name,
		Segments:   []Segment{seg},
		NS:         r.first.ns,
		DT:         g.fh.DT(),
		Format:     g.fh.SampleFormat(),
		RawKeys:    make([]int32, len(g.o.keyFields)),
		ScaledKeys: make([]float64, len(g.o.keyFields)),
		Summary:    r.summary,
	}
	for i, f := range g.o.keyFields {
		rec.RawKeys[i] = r.first.hdr.Get(f)
		rec.ScaledKeys[i] = r.first.hdr.Scaled(f)
	}
	if len(rec.Summary) == 0 {
		rec.Summary = nil
	}
	g.records = append(g.records, rec)
}

func (g *grouper) finish() []ShotRecord {
	g.flush()
	if g.records == nil {
		return []ShotRecord{}
	}
	return g.records
}
