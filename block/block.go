// Package block holds SEG-Y data in memory.
//
// A Block owns one file header, one trace header per trace and an
// ns x n sample matrix stored column-major, so each trace is a contiguous
// slice of ns samples. Every trace has exactly the file header's ns
// samples.
//
// Blocks are not safe for concurrent mutation. Concurrent readers of a
// block nobody mutates are safe.
package block

import (
	"fmt"
	"math"

	"github.com/hupe1980/segy/header"
)

// Block is an in-memory collection of traces sharing one file header.
type Block struct {
	fh      header.FileHeader
	headers []header.TraceHeader
	data    []float32
	ns      int
}

// New builds a block from a file header, per-trace headers and
// column-major samples. The block takes ownership of headers and data.
//
// Trace headers with ns 0 are set to the file header's ns; any other
// mismatch, or len(data) != ns*len(headers), fails with ErrInvalidShape.
func New(fh header.FileHeader, headers []header.TraceHeader, data []float32) (*Block, error) {
	ns := fh.NS()
	if ns < 0 {
		return nil, fmt.Errorf("%w: negative ns %d", ErrInvalidShape, ns)
	}
	if len(data) != ns*len(headers) {
		return nil, fmt.Errorf("%w: %d samples for %d traces of ns=%d", ErrInvalidShape, len(data), len(headers), ns)
	}
	for i := range headers {
		switch tns := int(headers[i].Get(header.NS)); tns {
		case 0:
			headers[i].Set(header.NS, int32(ns))
		case ns:
		default:
			return nil, fmt.Errorf("%w: trace %d has ns=%d, file header has %d", ErrInvalidShape, i, tns, ns)
		}
	}
	if headers == nil {
		headers = []header.TraceHeader{}
	}
	if data == nil {
		data = []float32{}
	}
	return &Block{fh: fh, headers: headers, data: data, ns: ns}, nil
}

// FromColumns builds a block from one sample slice per trace. Columns
// are copied.
func FromColumns(fh header.FileHeader, headers []header.TraceHeader, columns [][]float32) (*Block, error) {
	if len(columns) != len(headers) {
		return nil, fmt.Errorf("%w: %d columns for %d trace headers", ErrInvalidShape, len(columns), len(headers))
	}
	ns := fh.NS()
	data := make([]float32, 0, ns*len(columns))
	for i, c := range columns {
		if len(c) != ns {
			return nil, fmt.Errorf("%w: column %d has %d samples, want %d", ErrInvalidShape, i, len(c), ns)
		}
		data = append(data, c...)
	}
	return New(fh, headers, data)
}

// NS returns the number of samples per trace.
func (b *Block) NS() int { return b.ns }

// Len returns the number of traces.
func (b *Block) Len() int { return len(b.headers) }

// FileHeader returns a copy of the file header.
func (b *Block) FileHeader() header.FileHeader { return b.fh }

// Trace returns the samples of trace i. The slice aliases the block.
func (b *Block) Trace(i int) ([]float32, error) {
	if err := b.check(i); err != nil {
		return nil, err
	}
	return b.data[i*b.ns : (i+1)*b.ns : (i+1)*b.ns], nil
}

// Data returns the column-major sample matrix. The slice aliases the block.
func (b *Block) Data() []float32 { return b.data }

// TraceHeader returns a copy of the header of trace i.
func (b *Block) TraceHeader(i int) (header.TraceHeader, error) {
	if err := b.check(i); err != nil {
		return header.TraceHeader{}, err
	}
	return b.headers[i], nil
}

// TraceHeaders returns a copy of all trace headers.
func (b *Block) TraceHeaders() []header.TraceHeader {
	out := make([]header.TraceHeader, len(b.headers))
	copy(out, b.headers)
	return out
}

// RawHeader returns the unscaled value of f for every trace.
func (b *Block) RawHeader(f header.TraceField) []int32 {
	out := make([]int32, len(b.headers))
	for i := range b.headers {
		out[i] = b.headers[i].Get(f)
	}
	return out
}

// Header returns the value of f for every trace. With scaled set, each
// value is decoded with its own trace's scalar field; otherwise the raw
// values are returned unchanged.
func (b *Block) Header(f header.TraceField, scaled bool) []float64 {
	out := make([]float64, len(b.headers))
	for i := range b.headers {
		if scaled {
			out[i] = b.headers[i].Scaled(f)
		} else {
			out[i] = float64(b.headers[i].Get(f))
		}
	}
	return out
}

// SetHeader stores raw value v in field f of every trace. The scalar
// field is not touched.
func (b *Block) SetHeader(f header.TraceField, v int32) {
	for i := range b.headers {
		b.headers[i].Set(f, v)
	}
}

// SetHeaderValues stores one raw value per trace in field f.
func (b *Block) SetHeaderValues(f header.TraceField, values []int32) error {
	if len(values) != len(b.headers) {
		return fmt.Errorf("%w: %d values for %d traces", ErrInvalidShape, len(values), len(b.headers))
	}
	for i, v := range values {
		b.headers[i].Set(f, v)
	}
	return nil
}

// Clone returns a deep copy of b.
func (b *Block) Clone() *Block {
	return &Block{
		fh:      b.fh,
		headers: b.TraceHeaders(),
		data:    append([]float32(nil), b.data...),
		ns:      b.ns,
	}
}

// Equal reports whether a and b hold identical headers and bit-identical samples.
func Equal(a, b *Block) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ns != b.ns || a.fh != b.fh || len(a.headers) != len(b.headers) || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.headers {
		if a.headers[i] != b.headers[i] {
			return false
		}
	}
	for i := range a.data {
		if math.Float32bits(a.data[i]) != math.Float32bits(b.data[i]) {
			return false
		}
	}
	return true
}

func (b *Block) check(i int) error {
	if i < 0 || i >= len(b.headers) {
		return &IndexError{Index: i, Len: len(b.headers)}
	}
	return nil
}
