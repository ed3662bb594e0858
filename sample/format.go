// Package sample decodes and encodes SEG-Y trace sample payloads.
//
// Supported data sample formats are the Rev 1 codes 1 (IBM float32),
// 2 (int32), 3 (int16), 5 (IEEE float32) and 8 (int8). Samples are
// always exposed as float32.
package sample

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedFormat is returned for data sample format codes outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// Format is a SEG-Y data sample format code (binary header bytes 3225-3226).
type Format int16

const (
	IBMFloat32  Format = 1
	Int32       Format = 2
	Int16       Format = 3
	IEEEFloat32 Format = 5
	Int8        Format = 8
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool { return f.Width() > 0 }

// Width returns the size of one sample in bytes, or 0 for unsupported formats.
func (f Format) Width() int {
	switch f {
	case IBMFloat32, Int32, IEEEFloat32:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case IBMFloat32:
		return "ibm-float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case IEEEFloat32:
		return "ieee-float32"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("Format(%d)", int16(f))
	}
}

// FormatError reports an unsupported format code.
type FormatError struct {
	Format Format
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported sample format code %d", int16(e.Format))
}

func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// Decode converts len(dst) samples from src into dst.
func Decode(dst []float32, src []byte, f Format, order binary.ByteOrder) error {
	w := f.Width()
	if w == 0 {
		return &FormatError{Format: f}
	}
	if len(src) < len(dst)*w {
		return fmt.Errorf("sample: need %d bytes for %d samples, got %d", len(dst)*w, len(dst), len(src))
	}
	switch f {
	case IBMFloat32:
		for i := range dst {
			dst[i] = IBMToIEEE(order.Uint32(src[i*4:]))
		}
	case IEEEFloat32:
		for i := range dst {
			dst[i] = math.Float32frombits(order.Uint32(src[i*4:]))
		}
	case Int32:
		for i := range dst {
			dst[i] = float32(int32(order.Uint32(src[i*4:])))
		}
	case Int16:
		for i := range dst {
			dst[i] = float32(int16(order.Uint16(src[i*2:])))
		}
	case Int8:
		for i := range dst {
			dst[i] = float32(int8(src[i]))
		}
	}
	return nil
}

// Encode converts src into dst using format f. Integer formats round to
// the nearest value and saturate at the type limits.
func Encode(dst []byte, src []float32, f Format, order binary.ByteOrder) error {
	w := f.Width()
	if w == 0 {
		return &FormatError{Format: f}
	}
	if len(dst) < len(src)*w {
		return fmt.Errorf("sample: need %d bytes for %d samples, got %d", len(src)*w, len(src), len(dst))
	}
	switch f {
	case IBMFloat32:
		for i, v := range src {
			order.PutUint32(dst[i*4:], IEEEToIBM(v))
		}
	case IEEEFloat32:
		for i, v := range src {
			order.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	case Int32:
		for i, v := range src {
			order.PutUint32(dst[i*4:], uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
		}
	case Int16:
		for i, v := range src {
			order.PutUint16(dst[i*2:], uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
		}
	case Int8:
		for i, v := range src {
			dst[i] = byte(int8(saturate(v, math.MinInt8, math.MaxInt8)))
		}
	}
	return nil
}

func saturate(v float32, lo, hi float64) float64 {
	r := math.Round(float64(v))
	switch {
	case math.IsNaN(r):
		return 0
	case r < lo:
		return lo
	case r > hi:
		return hi
	default:
		return r
	}
}
