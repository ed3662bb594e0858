package segyio

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
)

// ReadFileHeader reads and validates the 3600-byte global header.
func ReadFileHeader(ctx context.Context, b blobstore.Blob, name string, order binary.ByteOrder) (header.FileHeader, error) {
	if size := b.Size(); size < header.FileHeaderSize {
		return header.FileHeader{}, &header.MalformedHeaderError{
			Path:   name,
			Offset: -1,
			Reason: fmt.Sprintf("file is %d bytes, shorter than the %d-byte file header", size, header.FileHeaderSize),
		}
	}
	buf := make([]byte, header.FileHeaderSize)
	if err := blobstore.ReadFull(ctx, b, name, buf, 0); err != nil {
		return header.FileHeader{}, err
	}
	fh, err := header.DecodeFileHeader(buf, order)
	if err != nil {
		return fh, withPath(err, name)
	}
	if err := fh.Validate(); err != nil {
		return fh, withPath(err, name)
	}
	return fh, nil
}

func withPath(err error, name string) error {
	if me, ok := err.(*header.MalformedHeaderError); ok {
		me.Path = name
	}
	return err
}

// Traces describes a contiguous run of traces of equal length.
type Traces struct {
	Offset int64
	Count  int
	NS     int
	Format sample.Format
}

// Size returns the byte length of the run.
func (t Traces) Size() int64 {
	return int64(t.Count) * (header.TraceHeaderSize + int64(t.NS)*int64(t.Format.Width()))
}

// ReadHeaders reads the trace headers of t with one ranged read spanning
// the run. Only fields are decoded when fields is non-empty; the others
// read as 0.
func ReadHeaders(ctx context.Context, b blobstore.Blob, name string, t Traces, fields []header.TraceField, order binary.ByteOrder) ([]header.TraceHeader, error) {
	if t.Count <= 0 {
		return nil, nil
	}
	traceSize := header.TraceHeaderSize + int64(t.NS)*int64(t.Format.Width())
	raw := make([]byte, int64(t.Count-1)*traceSize+header.TraceHeaderSize)
	if err := blobstore.ReadFull(ctx, b, name, raw, t.Offset); err != nil {
		return nil, err
	}
	out := make([]header.TraceHeader, t.Count)
	for i := range out {
		off := int64(i) * traceSize
		h, err := decodeHeader(raw[off:off+header.TraceHeaderSize], fields, order)
		if err != nil {
			return nil, withPath(err, name)
		}
		out[i] = h
	}
	return out, nil
}

// ReadTraces reads t with one ranged read and decodes headers and samples.
// Trace headers whose ns contradicts t.NS fail with ErrMalformedHeader.
func ReadTraces(ctx context.Context, b blobstore.Blob, name string, t Traces, fields []header.TraceField, order binary.ByteOrder) ([]header.TraceHeader, []float32, error) {
	if !t.Format.Valid() {
		return nil, nil, &sample.FormatError{Format: t.Format}
	}
	raw := make([]byte, t.Size())
	if err := blobstore.ReadFull(ctx, b, name, raw, t.Offset); err != nil {
		return nil, nil, err
	}

	width := t.Format.Width()
	traceSize := header.TraceHeaderSize + t.NS*width
	headers := make([]header.TraceHeader, t.Count)
	data := make([]float32, t.Count*t.NS)
	for i := range headers {
		rec := raw[i*traceSize : (i+1)*traceSize]
		if ns := int(header.ReadTraceField(rec, header.NS, order)); ns != 0 && ns != t.NS {
			return nil, nil, &header.MalformedHeaderError{
				Path:   name,
				Offset: t.Offset + int64(i*traceSize),
				Field:  header.NS.String(),
				Reason: fmt.Sprintf("trace has %d samples, expected %d", ns, t.NS),
			}
		}
		h, err := decodeHeader(rec, fields, order)
		if err != nil {
			return nil, nil, withPath(err, name)
		}
		headers[i] = h
		if err := sample.Decode(data[i*t.NS:(i+1)*t.NS], rec[header.TraceHeaderSize:], t.Format, order); err != nil {
			return nil, nil, err
		}
	}
	return headers, data, nil
}

func decodeHeader(buf []byte, fields []header.TraceField, order binary.ByteOrder) (header.TraceHeader, error) {
	if len(fields) == 0 {
		return header.DecodeTraceHeader(buf, order)
	}
	return header.DecodeTraceFields(buf, order, fields)
}

// ReadBlock reads a whole fixed-length file into a block.
func ReadBlock(ctx context.Context, b blobstore.Blob, name string, fields []header.TraceField, order binary.ByteOrder) (*block.Block, error) {
	fh, err := ReadFileHeader(ctx, b, name, order)
	if err != nil {
		return nil, err
	}
	start := fh.DataOffset()
	traceSize := fh.TraceSize(fh.NS())
	payload := b.Size() - start
	if payload < 0 {
		payload = 0
	}
	count := payload / traceSize
	if rem := payload % traceSize; rem != 0 {
		// A trailing partial trace means the file was cut short.
		return nil, &blobstore.IOError{
			Name:   name,
			Offset: start + count*traceSize,
			Length: traceSize,
			Err:    fmt.Errorf("trailing partial trace of %d bytes", rem),
		}
	}

	headers, data, err := ReadTraces(ctx, b, name, Traces{
		Offset: start,
		Count:  int(count),
		NS:     fh.NS(),
		Format: fh.SampleFormat(),
	}, fields, order)
	if err != nil {
		return nil, err
	}
	// Extended textual headers are not kept.
	fh.Binary.Set(header.FileNumberOfExtTextualHeaders, 0)
	return block.New(fh, headers, data)
}
