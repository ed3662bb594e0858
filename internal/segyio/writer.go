package segyio

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
)

// WriteBlock encodes blk as a SEG-Y file. The file header's ns is set
// from the block; extended textual headers are not written.
func WriteBlock(w io.Writer, blk *block.Block, order binary.ByteOrder) error {
	fh := blk.FileHeader()
	format := fh.SampleFormat()
	if !format.Valid() {
		return &sample.FormatError{Format: format}
	}
	fh.Binary.Set(header.FileNS, int32(blk.NS()))
	fh.Binary.Set(header.FileNumberOfExtTextualHeaders, 0)

	bw := bufio.NewWriterSize(w, 1<<20)
	buf := make([]byte, header.FileHeaderSize)
	fh.Encode(buf, order)
	if _, err := bw.Write(buf); err != nil {
		return err
	}

	rec := make([]byte, fh.TraceSize(blk.NS()))
	for i, th := range blk.TraceHeaders() {
		th.Set(header.NS, int32(blk.NS()))
		th.Encode(rec, order)
		tr, err := blk.Trace(i)
		if err != nil {
			return err
		}
		if err := sample.Encode(rec[header.TraceHeaderSize:], tr, format, order); err != nil {
			return err
		}
		if _, err := bw.Write(rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}
