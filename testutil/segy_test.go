package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
)

func TestFileSpec_Bytes(t *testing.T) {
	spec := FileSpec{NS: 10, DT: 2000, Format: sample.Int16, Shots: Shots(3, 4)}
	data := spec.Bytes()

	assert.Len(t, data, header.FileHeaderSize+12*(header.TraceHeaderSize+10*2))
	assert.Equal(t, 12, spec.TraceCount())

	fh, err := header.DecodeFileHeader(data, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, 10, fh.NS())
	assert.Equal(t, sample.Int16, fh.SampleFormat())
	require.NoError(t, fh.Validate())

	offsets := spec.ShotOffsets()
	require.Len(t, offsets, 3)
	assert.Equal(t, int64(header.FileHeaderSize), offsets[0])

	th, err := header.DecodeTraceHeader(data[offsets[2]:], binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, spec.Shots[2].SourceX, th.Get(header.SourceX))
	assert.Equal(t, int32(9), th.Get(header.TraceNumWithinFile))
	assert.Equal(t, int32(10), th.Get(header.NS))

	got := make([]float32, 10)
	start := offsets[2] + header.TraceHeaderSize
	require.NoError(t, sample.Decode(got, data[start:start+20], sample.Int16, binary.BigEndian))
	assert.Equal(t, spec.Trace(2, 0), got)
}

func TestFileSpec_VariableAndExtended(t *testing.T) {
	shots := Shots(2, 2)
	shots[1].NS = 7
	spec := FileSpec{NS: 5, Order: binary.LittleEndian, ExtTextHeaders: 1, Shots: shots}
	data := spec.Bytes()

	fh, err := header.DecodeFileHeader(data, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(0), fh.Binary.Get(header.FileFixedLengthTraceFlag))
	assert.Equal(t, int64(header.FileHeaderSize+header.ExtTextHeaderSize), fh.DataOffset())

	offsets := spec.ShotOffsets()
	assert.Equal(t, fh.DataOffset()+2*(header.TraceHeaderSize+5*4), offsets[1])
	assert.Len(t, data, int(offsets[1]+2*(header.TraceHeaderSize+7*4)))
}

func TestRNG_Keys(t *testing.T) {
	rng := NewRNG(4711)
	keys := rng.Keys(100, 5, 8)
	assert.Len(t, keys, 100)
	for _, k := range keys {
		assert.GreaterOrEqual(t, k, int32(0))
		assert.Less(t, k, int32(5))
	}

	shots := rng.Shots(10, 2, 6)
	for _, s := range shots {
		assert.GreaterOrEqual(t, s.Traces, 2)
		assert.LessOrEqual(t, s.Traces, 6)
	}
	assert.Equal(t, int64(4711), rng.Seed())
}
