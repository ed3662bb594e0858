package segyio

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
	"github.com/hupe1980/segy/testutil"
)

func open(t *testing.T, data []byte) blobstore.Blob {
	t.Helper()
	s := blobstore.NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "f.sgy", data))
	b, err := s.Open(context.Background(), "f.sgy")
	require.NoError(t, err)
	return b
}

func TestReadBlock(t *testing.T) {
	for _, format := range []sample.Format{sample.IBMFloat32, sample.Int32, sample.Int16, sample.IEEEFloat32, sample.Int8} {
		t.Run(format.String(), func(t *testing.T) {
			spec := testutil.FileSpec{NS: 25, DT: 4000, Format: format, ExtTextHeaders: 1, Shots: testutil.Shots(3, 5)}
			blk, err := ReadBlock(context.Background(), open(t, spec.Bytes()), "f.sgy", nil, binary.BigEndian)
			require.NoError(t, err)

			assert.Equal(t, 15, blk.Len())
			assert.Equal(t, 25, blk.NS())
			fh := blk.FileHeader()
			assert.Equal(t, int32(0), fh.Binary.Get(header.FileNumberOfExtTextualHeaders))

			tr, err := blk.Trace(7)
			require.NoError(t, err)
			assert.Equal(t, spec.Trace(1, 2), tr)

			th, err := blk.TraceHeader(7)
			require.NoError(t, err)
			assert.Equal(t, spec.TraceHeader(1, 2), th)
		})
	}
}

func TestReadBlock_SelectedFields(t *testing.T) {
	spec := testutil.FileSpec{NS: 4, Order: binary.LittleEndian, Shots: testutil.Shots(2, 2)}
	blk, err := ReadBlock(context.Background(), open(t, spec.Bytes()), "f.sgy",
		[]header.TraceField{header.SourceX}, binary.LittleEndian)
	require.NoError(t, err)

	th, err := blk.TraceHeader(3)
	require.NoError(t, err)
	assert.Equal(t, spec.Shots[1].SourceX, th.Get(header.SourceX))
	assert.Zero(t, th.Get(header.SourceY))
	assert.Equal(t, int32(4), th.Get(header.NS))
}

func TestReadFileHeader_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := ReadFileHeader(ctx, open(t, make([]byte, 1000)), "short.sgy", binary.BigEndian)
	require.ErrorIs(t, err, header.ErrMalformedHeader)
	var me *header.MalformedHeaderError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "short.sgy", me.Path)

	spec := testutil.FileSpec{NS: 4, Shots: testutil.Shots(1, 1)}
	data := spec.Bytes()
	data[3200+24], data[3200+25] = 0, 4 // format 4 is not supported
	_, err = ReadFileHeader(ctx, open(t, data), "bad.sgy", binary.BigEndian)
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "DataSampleFormat", me.Field)
	assert.Equal(t, "bad.sgy", me.Path)
}

func TestReadBlock_Truncated(t *testing.T) {
	spec := testutil.FileSpec{NS: 10, Shots: testutil.Shots(2, 3)}
	data := spec.Bytes()
	_, err := ReadBlock(context.Background(), open(t, data[:len(data)-7]), "cut.sgy", nil, binary.BigEndian)
	require.ErrorIs(t, err, blobstore.ErrIOFailure)
}

func TestReadTraces_NSMismatch(t *testing.T) {
	spec := testutil.FileSpec{NS: 10, Shots: testutil.Shots(1, 2)}
	spec.Header = func(_, trace int, h *header.TraceHeader) {
		if trace == 1 {
			h.Set(header.NS, 11)
		}
	}
	_, err := ReadBlock(context.Background(), open(t, spec.Bytes()), "f.sgy", nil, binary.BigEndian)
	require.ErrorIs(t, err, header.ErrMalformedHeader)
	assert.Contains(t, err.Error(), "f.sgy")
}

func TestReadHeaders(t *testing.T) {
	spec := testutil.FileSpec{NS: 100, Shots: testutil.Shots(3, 4)}
	b := open(t, spec.Bytes())
	off := spec.ShotOffsets()[1]

	hs, err := ReadHeaders(context.Background(), b, "f.sgy", Traces{Offset: off, Count: 4, NS: 100, Format: sample.IEEEFloat32}, nil, binary.BigEndian)
	require.NoError(t, err)
	require.Len(t, hs, 4)
	for i, h := range hs {
		assert.Equal(t, spec.TraceHeader(1, i), h)
	}

	_, err = ReadHeaders(context.Background(), b, "f.sgy", Traces{Offset: off, Count: 20, NS: 100, Format: sample.IEEEFloat32}, nil, binary.BigEndian)
	require.ErrorIs(t, err, blobstore.ErrIOFailure)
}

func TestWriteBlock_RoundTrip(t *testing.T) {
	spec := testutil.FileSpec{NS: 12, DT: 1000, Format: sample.IBMFloat32, Shots: testutil.Shots(2, 3)}
	blk, err := ReadBlock(context.Background(), open(t, spec.Bytes()), "f.sgy", nil, binary.BigEndian)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBlock(&buf, blk, binary.BigEndian))
	assert.Equal(t, spec.Bytes(), buf.Bytes())

	var le bytes.Buffer
	require.NoError(t, WriteBlock(&le, blk, binary.LittleEndian))
	again, err := ReadBlock(context.Background(), open(t, le.Bytes()), "le.sgy", nil, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, blk.Data(), again.Data())
	assert.Equal(t, blk.TraceHeaders(), again.TraceHeaders())
}
