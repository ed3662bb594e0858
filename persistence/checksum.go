package persistence

import (
	"hash"
	"io"

	ihash "github.com/hupe1980/segy/internal/hash"
)

// checksumWriter wraps an io.Writer and keeps a running CRC32C of
// everything written.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w, hash: ihash.NewCRC32C()}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	_, _ = cw.hash.Write(p)
	return cw.w.Write(p)
}

func (cw *checksumWriter) Sum() uint32 { return cw.hash.Sum32() }
