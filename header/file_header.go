package header

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/segy/sample"
)

// BinaryFileHeader holds the decoded values of the 400-byte binary file header.
type BinaryFileHeader struct {
	values [NumFileFields]int32
}

// Get returns the raw value of f.
func (h *BinaryFileHeader) Get(f FileField) int32 { return h.values[f] }

// Set stores a raw value for f.
func (h *BinaryFileHeader) Set(f FileField, v int32) { h.values[f] = v }

// FileHeader is the 3600-byte global header of a SEG-Y file.
type FileHeader struct {
	// Text is the EBCDIC or ASCII textual header, kept verbatim.
	Text   [TextHeaderSize]byte
	Binary BinaryFileHeader
}

// NewFileHeader returns a Rev 1 header for fixed-length traces of ns
// samples at interval dt (microseconds) in the given format.
func NewFileHeader(ns int, dt int, format sample.Format) FileHeader {
	var h FileHeader
	for i := range h.Text {
		h.Text[i] = ' '
	}
	h.Binary.Set(FileNS, int32(ns))
	h.Binary.Set(FileNSOrig, int32(ns))
	h.Binary.Set(FileDT, int32(dt))
	h.Binary.Set(FileDTOrig, int32(dt))
	h.Binary.Set(FileDataSampleFormat, int32(format))
	h.Binary.Set(FileSegyFormatRevisionNumber, 0x0100)
	h.Binary.Set(FileFixedLengthTraceFlag, 1)
	return h
}

// NS returns the number of samples per trace.
func (h *FileHeader) NS() int { return int(h.Binary.Get(FileNS)) }

// DT returns the sample interval in microseconds.
func (h *FileHeader) DT() int { return int(h.Binary.Get(FileDT)) }

// SampleFormat returns the data sample format code.
func (h *FileHeader) SampleFormat() sample.Format {
	return sample.Format(h.Binary.Get(FileDataSampleFormat))
}

// DataOffset returns the byte offset of the first trace header, which
// follows any extended textual headers.
func (h *FileHeader) DataOffset() int64 {
	ext := int64(h.Binary.Get(FileNumberOfExtTextualHeaders))
	if ext < 0 {
		ext = 0
	}
	return FileHeaderSize + ext*ExtTextHeaderSize
}

// TraceSize returns the on-disk length of a trace with ns samples.
func (h *FileHeader) TraceSize(ns int) int64 {
	return TraceHeaderSize + int64(ns)*int64(h.SampleFormat().Width())
}

// Validate checks the fields needed to walk the trace stream.
func (h *FileHeader) Validate() error {
	if h.NS() <= 0 {
		return &MalformedHeaderError{Offset: TextHeaderSize + int64(fileSchema[FileNS].Offset),
			Field: "ns", Reason: fmt.Sprintf("invalid sample count %d", h.NS())}
	}
	if !h.SampleFormat().Valid() {
		return &MalformedHeaderError{Offset: TextHeaderSize + int64(fileSchema[FileDataSampleFormat].Offset),
			Field: "DataSampleFormat", Reason: fmt.Sprintf("unsupported sample format %d", h.SampleFormat())}
	}
	if h.Binary.Get(FileNumberOfExtTextualHeaders) < 0 {
		return &MalformedHeaderError{Offset: TextHeaderSize + int64(fileSchema[FileNumberOfExtTextualHeaders].Offset),
			Field: "NumberOfExtTextualHeaders", Reason: "variable number of extended headers is not supported"}
	}
	return nil
}

// DecodeFileHeader parses the textual and binary file headers.
// buf must hold at least FileHeaderSize bytes.
func DecodeFileHeader(buf []byte, order binary.ByteOrder) (FileHeader, error) {
	var h FileHeader
	if len(buf) < FileHeaderSize {
		return h, &MalformedHeaderError{
			Offset: -1,
			Reason: fmt.Sprintf("file header needs %d bytes, got %d", FileHeaderSize, len(buf)),
		}
	}
	copy(h.Text[:], buf[:TextHeaderSize])
	bin := buf[TextHeaderSize:FileHeaderSize]
	for i := range fileSchema {
		h.Binary.values[i] = fileSchema[i].decode(bin, order)
	}
	return h, nil
}

// Encode writes h into buf, which must hold at least FileHeaderSize bytes.
// Unassigned binary header bytes are zeroed.
func (h *FileHeader) Encode(buf []byte, order binary.ByteOrder) {
	copy(buf, h.Text[:])
	bin := buf[TextHeaderSize:FileHeaderSize]
	clear(bin)
	for i := range fileSchema {
		fileSchema[i].encode(bin, order, h.Binary.values[i])
	}
}
