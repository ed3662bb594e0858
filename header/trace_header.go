package header

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/segy/scalar"
)

// TraceHeader holds the decoded values of one 240-byte trace header.
//
// Values are stored raw (unscaled). Every field is widened to int32;
// Uint16 fields keep their unsigned value.
type TraceHeader struct {
	values [NumTraceFields]int32
}

// Get returns the raw value of f.
func (h *TraceHeader) Get(f TraceField) int32 { return h.values[f] }

// Set stores a raw value for f. The value is truncated to the field
// width on encode.
func (h *TraceHeader) Set(f TraceField, v int32) { h.values[f] = v }

// Scaled returns f with its scalar applied. Fields without a scalar are
// returned unchanged.
func (h *TraceHeader) Scaled(f TraceField) float64 {
	s, ok := f.Scalar()
	if !ok {
		return float64(h.values[f])
	}
	return scalar.Decode(h.values[f], int16(h.values[s]))
}

// SetScaled stores the raw value that decodes to v under the current scalar.
func (h *TraceHeader) SetScaled(f TraceField, v float64) {
	s, ok := f.Scalar()
	if !ok {
		h.values[f] = int32(v)
		return
	}
	h.values[f] = scalar.Encode(v, int16(h.values[s]))
}

// DecodeTraceHeader parses a raw trace header. buf must hold at least
// TraceHeaderSize bytes.
func DecodeTraceHeader(buf []byte, order binary.ByteOrder) (TraceHeader, error) {
	var h TraceHeader
	if len(buf) < TraceHeaderSize {
		return h, &MalformedHeaderError{
			Offset: -1,
			Reason: fmt.Sprintf("trace header needs %d bytes, got %d", TraceHeaderSize, len(buf)),
		}
	}
	for i := range traceSchema {
		h.values[i] = traceSchema[i].decode(buf, order)
	}
	return h, nil
}

// DecodeTraceFields parses only the listed fields; all others stay zero.
func DecodeTraceFields(buf []byte, order binary.ByteOrder, fields []TraceField) (TraceHeader, error) {
	var h TraceHeader
	if len(buf) < TraceHeaderSize {
		return h, &MalformedHeaderError{
			Offset: -1,
			Reason: fmt.Sprintf("trace header needs %d bytes, got %d", TraceHeaderSize, len(buf)),
		}
	}
	for _, f := range fields {
		h.values[f] = traceSchema[f].decode(buf, order)
	}
	return h, nil
}

// Encode writes h into buf, which must hold at least TraceHeaderSize bytes.
// Bytes not covered by the schema are zeroed.
func (h *TraceHeader) Encode(buf []byte, order binary.ByteOrder) {
	clear(buf[:TraceHeaderSize])
	for i := range traceSchema {
		traceSchema[i].encode(buf, order, h.values[i])
	}
}
