package testutil

import (
	"encoding/binary"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
)

// ShotSpec describes one synthetic shot.
type ShotSpec struct {
	Traces      int
	SourceX     int32
	SourceY     int32
	SourceDepth int32
	// Scalar is written to RecSourceScalar of every trace.
	Scalar int16
	// NS overrides the file's sample count for this shot's traces.
	NS int
}

// FileSpec describes a synthetic SEG-Y file.
type FileSpec struct {
	NS     int
	DT     int
	Format sample.Format
	// Order defaults to big-endian.
	Order          binary.ByteOrder
	ExtTextHeaders int
	Shots          []ShotSpec
	// Header, if set, is called for every trace after the defaults are set.
	Header func(shot, trace int, h *header.TraceHeader)
}

// Shots returns n shots of tracesPerShot traces on a regular source grid.
func Shots(n, tracesPerShot int) []ShotSpec {
	out := make([]ShotSpec, n)
	for i := range out {
		out[i] = ShotSpec{
			Traces:      tracesPerShot,
			SourceX:     int32(100000 + 50*i),
			SourceY:     200000,
			SourceDepth: 10,
		}
	}
	return out
}

// SampleValue is the value stored at sample s of the given trace. All
// values are small integers, exact in every sample format.
func SampleValue(shot, trace, s int) float32 {
	return float32((shot*7+trace*3+s)%200 - 100)
}

func (f FileSpec) order() binary.ByteOrder {
	if f.Order == nil {
		return binary.BigEndian
	}
	return f.Order
}

func (f FileSpec) format() sample.Format {
	if f.Format == 0 {
		return sample.IEEEFloat32
	}
	return f.Format
}

func (f FileSpec) shotNS(s ShotSpec) int {
	if s.NS > 0 {
		return s.NS
	}
	return f.NS
}

func (f FileSpec) variable() bool {
	for _, s := range f.Shots {
		if s.NS > 0 && s.NS != f.NS {
			return true
		}
	}
	return false
}

// FileHeader returns the global header written by Bytes.
func (f FileSpec) FileHeader() header.FileHeader {
	fh := header.NewFileHeader(f.NS, f.DT, f.format())
	copy(fh.Text[:], "C 1 SYNTHETIC SEG-Y")
	fh.Binary.Set(header.FileNumberOfExtTextualHeaders, int32(f.ExtTextHeaders))
	if f.variable() {
		fh.Binary.Set(header.FileFixedLengthTraceFlag, 0)
	}
	return fh
}

// TraceCount returns the number of traces in the file.
func (f FileSpec) TraceCount() int {
	n := 0
	for _, s := range f.Shots {
		n += s.Traces
	}
	return n
}

// ShotOffsets returns the byte offset of each shot's first trace header.
func (f FileSpec) ShotOffsets() []int64 {
	fh := f.FileHeader()
	off := fh.DataOffset()
	out := make([]int64, len(f.Shots))
	for i, s := range f.Shots {
		out[i] = off
		off += int64(s.Traces) * fh.TraceSize(f.shotNS(s))
	}
	return out
}

// TraceHeader returns the header written for trace t of shot s.
func (f FileSpec) TraceHeader(s, t int) header.TraceHeader {
	shot := f.Shots[s]
	global := t
	for i := 0; i < s; i++ {
		global += f.Shots[i].Traces
	}

	var h header.TraceHeader
	h.Set(header.TraceNumWithinLine, int32(global+1))
	h.Set(header.TraceNumWithinFile, int32(global+1))
	h.Set(header.FieldRecord, int32(s+1))
	h.Set(header.TraceNumber, int32(t+1))
	h.Set(header.EnergySourcePoint, int32(s+1))
	h.Set(header.TraceIDCode, 1)
	h.Set(header.Offset, int32(t*25))
	h.Set(header.SourceDepth, shot.SourceDepth)
	h.Set(header.ElevationScalar, 1)
	h.Set(header.RecSourceScalar, int32(shot.Scalar))
	h.Set(header.SourceX, shot.SourceX)
	h.Set(header.SourceY, shot.SourceY)
	h.Set(header.GroupX, shot.SourceX+int32(t*25))
	h.Set(header.GroupY, shot.SourceY)
	h.Set(header.CoordUnits, 1)
	h.Set(header.NS, int32(f.shotNS(shot)))
	h.Set(header.DT, int32(f.DT))
	if f.Header != nil {
		f.Header(s, t, &h)
	}
	return h
}

// Trace returns the samples written for trace t of shot s.
func (f FileSpec) Trace(s, t int) []float32 {
	ns := f.shotNS(f.Shots[s])
	out := make([]float32, ns)
	for i := range out {
		out[i] = SampleValue(s, t, i)
	}
	return out
}

// Bytes encodes the file.
func (f FileSpec) Bytes() []byte {
	order := f.order()
	format := f.format()
	fh := f.FileHeader()

	size := fh.DataOffset()
	for _, s := range f.Shots {
		size += int64(s.Traces) * fh.TraceSize(f.shotNS(s))
	}
	buf := make([]byte, size)
	fh.Encode(buf, order)
	for i := int64(header.FileHeaderSize); i < fh.DataOffset(); i++ {
		buf[i] = ' '
	}

	off := fh.DataOffset()
	for s, shot := range f.Shots {
		ns := f.shotNS(shot)
		for t := 0; t < shot.Traces; t++ {
			h := f.TraceHeader(s, t)
			h.Encode(buf[off:], order)
			off += header.TraceHeaderSize
			n := int64(ns * format.Width())
			if err := sample.Encode(buf[off:off+n], f.Trace(s, t), format, order); err != nil {
				panic(err)
			}
			off += n
		}
	}
	return buf
}
