package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies index files (ASCII "SGYI").
	MagicNumber = 0x53475949
	// Version is the current file format version.
	Version = 1

	headerSize  = 24
	trailerSize = 4
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	// ErrCorrupt is returned when an index file fails its checksum or
	// cannot be decoded.
	ErrCorrupt = errors.New("corrupt index file")
)

// fileHeader is the fixed 24-byte prefix of an index file. All integers
// are little-endian.
type fileHeader struct {
	Magic       uint32
	Version     uint16
	Compression Compression
	_           uint8
	RawLen      uint64 // body length before compression
	BodyLen     uint64 // body length as stored
}

func (h *fileHeader) encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	buf[6] = byte(h.Compression)
	buf[7] = 0
	binary.LittleEndian.PutUint64(buf[8:], h.RawLen)
	binary.LittleEndian.PutUint64(buf[16:], h.BodyLen)
}

func decodeFileHeader(buf []byte) (fileHeader, error) {
	var h fileHeader
	if len(buf) < headerSize {
		return h, fmt.Errorf("%w: %d bytes, shorter than the header", ErrCorrupt, len(buf))
	}
	h.Magic = binary.LittleEndian.Uint32(buf[0:])
	if h.Magic != MagicNumber {
		return h, fmt.Errorf("%w: %#x", ErrInvalidMagic, h.Magic)
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:])
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = Compression(buf[6])
	h.RawLen = binary.LittleEndian.Uint64(buf[8:])
	h.BodyLen = binary.LittleEndian.Uint64(buf[16:])
	return h, nil
}
