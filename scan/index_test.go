package scan

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/internal/cache"
	"github.com/hupe1980/segy/pmap"
	"github.com/hupe1980/segy/resource"
	"github.com/hupe1980/segy/testutil"
)

// expectedShot builds the block Index.Shot should return for shot s.
func expectedShot(t *testing.T, spec testutil.FileSpec, shots ...int) *block.Block {
	t.Helper()
	ns := spec.NS
	if n := spec.Shots[shots[0]].NS; n > 0 {
		ns = n
	}
	fh := spec.FileHeader()
	fh.Binary.Set(header.FileNS, int32(ns))
	fh.Binary.Set(header.FileNumberOfExtTextualHeaders, 0)

	var headers []header.TraceHeader
	var data []float32
	for _, s := range shots {
		for tr := 0; tr < spec.Shots[s].Traces; tr++ {
			headers = append(headers, spec.TraceHeader(s, tr))
			data = append(data, spec.Trace(s, tr)...)
		}
	}
	blk, err := block.New(fh, headers, data)
	require.NoError(t, err)
	return blk
}

func survey(t *testing.T) (*blobstore.MemoryStore, []testutil.FileSpec) {
	t.Helper()
	store := blobstore.NewMemoryStore()
	rng := testutil.NewRNG(3)
	specs := make([]testutil.FileSpec, 3)
	for i := range specs {
		specs[i] = testutil.FileSpec{NS: 50, DT: 4000, ExtTextHeaders: i, Shots: rng.Shots(4, 2, 9)}
		put(t, store, fmt.Sprintf("raw/line-%d.sgy", i), specs[i])
	}
	require.NoError(t, store.Put(context.Background(), "raw/notes.txt", []byte("x")))
	require.NoError(t, store.Put(context.Background(), "raw/nested/line-9.sgy", specs[0].Bytes()))
	return store, specs
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)

	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"}, WithWorkers(2))
	require.NoError(t, err)
	require.Empty(t, idx.Failures())

	var want []ShotRecord
	total := 0
	for i, spec := range specs {
		recs, err := ScanFile(ctx, store, fmt.Sprintf("raw/line-%d.sgy", i))
		require.NoError(t, err)
		want = append(want, recs...)
		total += spec.TraceCount()
	}
	assert.Equal(t, want, idx.Records())
	assert.Equal(t, 12, idx.Len())
	assert.Equal(t, total, idx.TotalTraces())
	assert.Len(t, idx.Files(), 3)
	assert.Equal(t, "raw/line-0.sgy", idx.Paths()[0])
	assert.Equal(t, "raw/line-2.sgy", idx.Paths()[11])
	assert.Equal(t, specs[1].ShotOffsets()[0], idx.Offsets()[4])
	assert.Equal(t, specs[2].Shots[3].Traces, idx.Counts()[11])
	assert.Equal(t, float64(specs[0].Shots[1].SourceX), idx.Keys()[1][0])
	assert.Equal(t, specs[0].Shots[1].SourceX, idx.RawKeys()[1][0])
	assert.Equal(t, DefaultKeyFields, idx.KeyFields())
	assert.Contains(t, idx.String(), "shots: 12")

	fh, ok := idx.FileHeader("raw/line-2.sgy")
	require.True(t, ok)
	assert.Equal(t, int32(2), fh.Binary.Get(header.FileNumberOfExtTextualHeaders))
	_, ok = idx.FileHeader("raw/notes.txt")
	assert.False(t, ok)
}

func TestScan_ExplicitNamesKeepOrder(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)

	idx, err := Scan(ctx, store, Request{Names: []string{"raw/line-2.sgy", "raw/line-0.sgy"}})
	require.NoError(t, err)
	assert.Equal(t, len(specs[2].Shots)+len(specs[0].Shots), idx.Len())
	assert.Equal(t, "raw/line-2.sgy", idx.Paths()[0])
	assert.Equal(t, "raw/line-0.sgy", idx.Paths()[idx.Len()-1])
}

func TestScan_DuplicateNamesScannedOnce(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)

	names := []string{"raw/line-1.sgy", "raw/line-0.sgy", "raw/line-1.sgy"}
	idx, err := Scan(ctx, store, Request{Names: names})
	require.NoError(t, err)
	assert.Equal(t, len(specs[1].Shots)+len(specs[0].Shots), idx.Len())
	require.Len(t, idx.Files(), 2)
	assert.Equal(t, "raw/line-1.sgy", idx.Files()[0].Path)
	assert.Equal(t, "raw/line-0.sgy", idx.Files()[1].Path)
}

func TestScan_NoFiles(t *testing.T) {
	store, _ := survey(t)
	_, err := Scan(context.Background(), store, Request{Dir: "raw", Pattern: "*.segy"})
	require.ErrorIs(t, err, ErrNoFiles)

	_, err = Scan(context.Background(), store, Request{Dir: "raw", Pattern: "["})
	require.Error(t, err)
}

func TestScan_FailureAbortsScan(t *testing.T) {
	store, _ := survey(t)
	require.NoError(t, store.Truncate("raw/line-1.sgy", 3000))

	_, err := Scan(context.Background(), store, Request{Dir: "raw", Pattern: "line-*.sgy"})
	require.ErrorIs(t, err, pmap.ErrWorkerFailure)
	require.ErrorIs(t, err, header.ErrMalformedHeader)
	var we *pmap.WorkerError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, 1, we.Index)
}

func TestScan_TolerateFailures(t *testing.T) {
	store, specs := survey(t)
	require.NoError(t, store.Truncate("raw/line-1.sgy", 3000))

	idx, err := Scan(context.Background(), store, Request{Dir: "raw", Pattern: "line-*.sgy"}, WithTolerateFailures())
	require.NoError(t, err)
	assert.Equal(t, len(specs[0].Shots)+len(specs[2].Shots), idx.Len())
	require.Len(t, idx.Failures(), 1)
	f := idx.Failures()[0]
	assert.Equal(t, "raw/line-1.sgy", f.Path)
	assert.ErrorIs(t, f.Err, header.ErrMalformedHeader)
	assert.Contains(t, f.String(), "raw/line-1.sgy")
	assert.Len(t, idx.Files(), 2)
}

func TestIndex_Shot(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)

	blk, err := idx.Shot(ctx, 5)
	require.NoError(t, err)
	assert.True(t, block.Equal(expectedShot(t, specs[1], 1), blk))

	again, err := idx.Shot(ctx, 5)
	require.NoError(t, err)
	assert.True(t, block.Equal(blk, again))
	assert.NotSame(t, blk, again)

	for i := 0; i < idx.Len(); i++ {
		blk, err := idx.Shot(ctx, i)
		require.NoError(t, err)
		assert.True(t, block.Equal(expectedShot(t, specs[i/4], i%4), blk), "shot %d", i)
	}
}

func TestIndex_ShotSelectedFields(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)
	idx, err := Scan(ctx, store, Request{Names: []string{"raw/line-0.sgy"}})
	require.NoError(t, err)

	blk, err := idx.Shot(ctx, 2, header.GroupX)
	require.NoError(t, err)
	want := expectedShot(t, specs[0], 2)
	assert.Equal(t, want.RawHeader(header.GroupX), blk.RawHeader(header.GroupX))
	assert.Equal(t, want.Data(), blk.Data())
	for _, v := range blk.RawHeader(header.SourceX) {
		assert.Zero(t, v)
	}
}

func TestIndex_ShotErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := survey(t)
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)

	for _, i := range []int{-1, idx.Len()} {
		_, err := idx.Shot(ctx, i)
		require.ErrorIs(t, err, ErrShotIndexOutOfRange)
		var se *ShotIndexError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, i, se.Index)
	}
	_, err = idx.Record(99)
	require.ErrorIs(t, err, ErrShotIndexOutOfRange)
	_, err = idx.Summary(99)
	require.ErrorIs(t, err, ErrShotIndexOutOfRange)
	_, err = idx.ReadHeaders(ctx, 99)
	require.ErrorIs(t, err, ErrShotIndexOutOfRange)

	// Truncated after scanning.
	require.NoError(t, store.Truncate("raw/line-2.sgy", 4000))
	_, err = idx.Shot(ctx, 11)
	require.ErrorIs(t, err, blobstore.ErrIOFailure)

	// Deleted after scanning.
	require.NoError(t, store.Delete(ctx, "raw/line-1.sgy"))
	_, err = idx.Shot(ctx, 4)
	require.ErrorIs(t, err, blobstore.ErrIOFailure)

	// Other shots stay readable.
	_, err = idx.Shot(ctx, 0)
	require.NoError(t, err)
}

func TestIndex_ReadHeaders(t *testing.T) {
	ctx := context.Background()
	mem, specs := survey(t)
	store := testutil.NewFaultyStore(mem)
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)

	reads := store.Reads()
	hs, err := idx.ReadHeaders(ctx, 6)
	require.NoError(t, err)
	require.Len(t, hs, specs[1].Shots[2].Traces)
	for tr, h := range hs {
		assert.Equal(t, specs[1].TraceHeader(2, tr), h)
	}
	// One ranged read for the shot's single segment.
	assert.Equal(t, reads+1, store.Reads())
}

func TestIndex_SelectAndReadSelection(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)
	idx, err := Scan(ctx, store, Request{Names: []string{"raw/line-0.sgy"}},
		WithSummaryFields(header.Offset))
	require.NoError(t, err)

	// Shots with more than 4 traces reach offset 100.
	sel := idx.Select(func(r *ShotRecord) bool {
		s, _ := r.FieldSummary(header.Offset)
		return s.Max >= 100
	})
	var want []int
	for i, s := range specs[0].Shots {
		if s.Traces > 4 {
			want = append(want, i)
		}
	}
	require.Equal(t, len(want), int(sel.GetCardinality()))
	if len(want) == 0 {
		t.Skip("seed produced no long shots")
	}

	blk, err := idx.ReadSelection(ctx, sel)
	require.NoError(t, err)
	assert.True(t, block.Equal(expectedShot(t, specs[0], want...), blk))

	_, err = idx.ReadSelection(ctx, roaring.New())
	require.ErrorIs(t, err, block.ErrEmptyMerge)
	_, err = idx.ReadSelection(ctx, roaring.BitmapOf(100))
	require.ErrorIs(t, err, ErrShotIndexOutOfRange)
}

func TestIndex_MergedSegmentsShot(t *testing.T) {
	ctx := context.Background()
	shots := testutil.Shots(3, 2)
	shots[2].SourceX = shots[0].SourceX
	spec := testutil.FileSpec{NS: 7, Shots: shots}
	store := blobstore.NewMemoryStore()
	put(t, store, "f.sgy", spec)

	idx, err := Scan(ctx, store, Request{Names: []string{"f.sgy"}}, WithMergeSegments())
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	blk, err := idx.Shot(ctx, 0)
	require.NoError(t, err)
	assert.True(t, block.Equal(expectedShot(t, spec, 0, 2), blk))
}

func TestIndex_VariableLengthShot(t *testing.T) {
	ctx := context.Background()
	shots := testutil.Shots(3, 3)
	shots[1].NS = 30
	spec := testutil.FileSpec{NS: 10, Shots: shots}
	store := blobstore.NewMemoryStore()
	put(t, store, "var.sgy", spec)

	idx, err := Scan(ctx, store, Request{Names: []string{"var.sgy"}}, WithVariableTraceLength())
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	for i := range shots {
		blk, err := idx.Shot(ctx, i)
		require.NoError(t, err)
		assert.True(t, block.Equal(expectedShot(t, spec, i), blk), "shot %d", i)
	}
}

func TestIndex_ResourceLimits(t *testing.T) {
	ctx := context.Background()
	store, _ := survey(t)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1024, MaxConcurrentReads: 1})
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"}, WithResourceController(rc))
	require.NoError(t, err)

	_, err = idx.Shot(ctx, 0)
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Zero(t, rc.MemoryUsage())
}

func TestIndex_MetricsAndLogger(t *testing.T) {
	ctx := context.Background()
	store, specs := survey(t)
	m := &recordingMetrics{}
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"}, WithMetrics(m))
	require.NoError(t, err)
	_, err = idx.Shot(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, m.scans)
	assert.Equal(t, specs[0].TraceCount()+specs[1].TraceCount()+specs[2].TraceCount(), m.traces)
	assert.Equal(t, 1, m.reads)
}

func TestNewIndex(t *testing.T) {
	ctx := context.Background()
	store, _ := survey(t)
	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"}, WithScaledKeys())
	require.NoError(t, err)

	rebuilt, err := NewIndex(store, IndexConfig{
		Files:      idx.Files(),
		KeyFields:  idx.KeyFields(),
		ScaledKeys: idx.ScaledKeys(),
		ByteOrder:  idx.ByteOrder(),
		Records:    idx.Records(),
	})
	require.NoError(t, err)
	assert.Equal(t, idx.Records(), rebuilt.Records())
	assert.True(t, rebuilt.ScaledKeys())

	a, err := idx.Shot(ctx, 3)
	require.NoError(t, err)
	b, err := rebuilt.Shot(ctx, 3)
	require.NoError(t, err)
	assert.True(t, block.Equal(a, b))

	_, err = NewIndex(store, IndexConfig{Records: idx.Records()})
	require.ErrorIs(t, err, ErrIncompatibleIndex)
}

func TestMergeIndexes(t *testing.T) {
	ctx := context.Background()
	store, _ := survey(t)
	a, err := Scan(ctx, store, Request{Names: []string{"raw/line-0.sgy"}})
	require.NoError(t, err)
	b, err := Scan(ctx, store, Request{Names: []string{"raw/line-1.sgy", "raw/line-2.sgy"}})
	require.NoError(t, err)
	all, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)

	merged, err := MergeIndexes(a, b)
	require.NoError(t, err)
	assert.Equal(t, all.Records(), merged.Records())
	assert.Equal(t, all.Files(), merged.Files())

	c, err := Scan(ctx, store, Request{Names: []string{"raw/line-0.sgy"}}, WithReceiverGrouping())
	require.NoError(t, err)
	_, err = MergeIndexes(a, c)
	require.ErrorIs(t, err, ErrIncompatibleIndex)
	_, err = MergeIndexes()
	require.ErrorIs(t, err, ErrIncompatibleIndex)
}

func TestIndex_ShotReadFault(t *testing.T) {
	ctx := context.Background()
	mem, specs := survey(t)
	store := testutil.NewFaultyStore(mem)

	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)

	// Shots of line-1 fail once their samples are touched; line-0 still reads.
	store.AddRule("line-1", testutil.Fault{FailReadsFrom: specs[1].ShotOffsets()[0], FailAfterBytes: -1})
	_, err = idx.Shot(ctx, 0)
	require.NoError(t, err)
	_, err = idx.Shot(ctx, 4)
	assert.ErrorIs(t, err, blobstore.ErrIOFailure)
	assert.ErrorIs(t, err, testutil.ErrInjected)

	store.AddRule("line-2", testutil.Fault{FailOnOpen: true, FailReadsFrom: -1, FailAfterBytes: -1})
	_, err = idx.Shot(ctx, 8)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Positive(t, store.Reads())
}

func TestIndex_ThroughCachingStore(t *testing.T) {
	ctx := context.Background()
	mem, _ := survey(t)
	counted := testutil.NewFaultyStore(mem)
	store := blobstore.NewCachingStore(counted, cache.NewLRUBlockCache(16<<20, nil), 0)

	idx, err := Scan(ctx, store, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)
	reads := counted.Reads()
	assert.Positive(t, reads)

	direct, err := Scan(ctx, mem, Request{Dir: "raw", Pattern: "*.sgy"})
	require.NoError(t, err)
	assert.Equal(t, direct.Records(), idx.Records())

	// Every file fits in one cache block, so shots are served from the cache.
	for i := 0; i < idx.Len(); i++ {
		got, err := idx.Shot(ctx, i)
		require.NoError(t, err)
		want, err := direct.Shot(ctx, i)
		require.NoError(t, err)
		assert.True(t, block.Equal(want, got))
	}
	assert.Equal(t, reads, counted.Reads())
}
