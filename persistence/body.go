package persistence

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
	"github.com/hupe1980/segy/scan"
)

// Byte order codes stored in the body.
const (
	orderBig    = 0
	orderLittle = 1
)

type encoder struct {
	buf []byte
}

func (e *encoder) uvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }
func (e *encoder) varint(v int64)   { e.buf = binary.AppendVarint(e.buf, v) }
func (e *encoder) u8(b byte)        { e.buf = append(e.buf, b) }

func (e *encoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) f64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func encodeBody(cfg scan.IndexConfig) []byte {
	e := &encoder{buf: make([]byte, 0, 64*len(cfg.Records)+header.FileHeaderSize*len(cfg.Files))}
	if cfg.ByteOrder == binary.LittleEndian {
		e.u8(orderLittle)
	} else {
		e.u8(orderBig)
	}
	if cfg.ScaledKeys {
		e.u8(1)
	} else {
		e.u8(0)
	}

	e.uvarint(uint64(len(cfg.KeyFields)))
	for _, f := range cfg.KeyFields {
		e.uvarint(uint64(f))
	}

	files := make(map[string]int, len(cfg.Files))
	fh := make([]byte, header.FileHeaderSize)
	e.uvarint(uint64(len(cfg.Files)))
	for i, f := range cfg.Files {
		files[f.Path] = i
		e.str(f.Path)
		f.Header.Encode(fh, binary.BigEndian)
		e.buf = append(e.buf, fh...)
	}

	e.uvarint(uint64(len(cfg.Records)))
	for i := range cfg.Records {
		r := &cfg.Records[i]
		e.uvarint(uint64(files[r.Path]))
		e.uvarint(uint64(r.NS))
		e.varint(int64(r.DT))
		e.varint(int64(r.Format))
		e.uvarint(uint64(len(r.Segments)))
		for _, s := range r.Segments {
			e.uvarint(uint64(s.Offset))
			e.uvarint(uint64(s.Count))
		}
		e.uvarint(uint64(len(r.RawKeys)))
		for _, k := range r.RawKeys {
			e.varint(int64(k))
		}
		e.uvarint(uint64(len(r.ScaledKeys)))
		for _, k := range r.ScaledKeys {
			e.f64(k)
		}
		e.uvarint(uint64(len(r.Summary)))
		for _, s := range r.Summary {
			e.uvarint(uint64(s.Field))
			e.varint(int64(s.Min))
			e.varint(int64(s.Max))
		}
	}
	return e.buf
}

// decoder reads the body. The first error sticks; later reads return
// zero values.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) fail(what string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: truncated %s at body offset %d", ErrCorrupt, what, d.off)
	}
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf[d.off:])
	if n <= 0 {
		d.fail("uvarint")
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) varint() int64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Varint(d.buf[d.off:])
	if n <= 0 {
		d.fail("varint")
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) bytes(n int, what string) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf)-d.off {
		d.fail(what)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() byte {
	b := d.bytes(1, "byte")
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) str() string { return string(d.bytes(d.length(), "string")) }

func (d *decoder) f64() float64 {
	b := d.bytes(8, "float64")
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// length reads a count and bounds it by the remaining bytes, so corrupt
// counts cannot force huge allocations.
func (d *decoder) length() int {
	n := d.uvarint()
	if n > uint64(len(d.buf)-d.off) {
		d.fail("length")
		return 0
	}
	return int(n)
}

func (d *decoder) field() header.TraceField {
	f := header.TraceField(d.uvarint())
	if d.err == nil && !f.Valid() {
		d.err = fmt.Errorf("%w: unknown trace field %d", ErrCorrupt, f)
	}
	return f
}

func decodeBody(buf []byte) (scan.IndexConfig, error) {
	d := &decoder{buf: buf}
	var cfg scan.IndexConfig

	switch d.u8() {
	case orderLittle:
		cfg.ByteOrder = binary.LittleEndian
	default:
		cfg.ByteOrder = binary.BigEndian
	}
	cfg.ScaledKeys = d.u8() == 1

	cfg.KeyFields = make([]header.TraceField, d.length())
	for i := range cfg.KeyFields {
		cfg.KeyFields[i] = d.field()
	}

	cfg.Files = make([]scan.File, d.length())
	for i := range cfg.Files {
		cfg.Files[i].Path = d.str()
		raw := d.bytes(header.FileHeaderSize, "file header")
		if raw == nil {
			break
		}
		fh, err := header.DecodeFileHeader(raw, binary.BigEndian)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		cfg.Files[i].Header = fh
	}

	cfg.Records = make([]scan.ShotRecord, d.length())
	for i := range cfg.Records {
		r := &cfg.Records[i]
		fi := d.uvarint()
		if d.err == nil && fi >= uint64(len(cfg.Files)) {
			return cfg, fmt.Errorf("%w: shot %d references file %d of %d", ErrCorrupt, i, fi, len(cfg.Files))
		}
		if d.err != nil {
			break
		}
		r.Path = cfg.Files[fi].Path
		r.NS = int(d.uvarint())
		r.DT = int(d.varint())
		r.Format = sample.Format(d.varint())
		r.Segments = make([]scan.Segment, d.length())
		for j := range r.Segments {
			r.Segments[j] = scan.Segment{Offset: int64(d.uvarint()), Count: int(d.uvarint())}
		}
		r.RawKeys = make([]int32, d.length())
		for j := range r.RawKeys {
			r.RawKeys[j] = int32(d.varint())
		}
		r.ScaledKeys = make([]float64, d.length())
		for j := range r.ScaledKeys {
			r.ScaledKeys[j] = d.f64()
		}
		if n := d.length(); n > 0 {
			r.Summary = make([]scan.FieldSummary, n)
			for j := range r.Summary {
				r.Summary[j] = scan.FieldSummary{Field: d.field(), Min: int32(d.varint()), Max: int32(d.varint())}
			}
		}
	}
	if d.err != nil {
		return cfg, d.err
	}
	if d.off != len(buf) {
		return cfg, fmt.Errorf("%w: %d trailing body bytes", ErrCorrupt, len(buf)-d.off)
	}
	return cfg, nil
}
