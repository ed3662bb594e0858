package segy

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/internal/segyio"
	"github.com/hupe1980/segy/resource"
	"github.com/hupe1980/segy/scan"
)

func localFile(path string) (*blobstore.LocalStore, string) {
	return blobstore.NewLocalStore(filepath.Dir(path)), filepath.Base(path)
}

// ReadFile reads a whole SEG-Y file from the local file system.
func ReadFile(ctx context.Context, path string, optFns ...Option) (*block.Block, error) {
	store, name := localFile(path)
	return Read(ctx, store, name, optFns...)
}

// Read reads a whole fixed-length SEG-Y file into a block. The block's
// file header has its extended textual header count cleared.
func Read(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (blk *block.Block, err error) {
	o := newOptions(optFns)
	start := time.Now()
	var size int64
	defer func() {
		traces := 0
		if blk != nil {
			traces = blk.Len()
		}
		o.metrics.RecordRead(traces, size, time.Since(start), err)
		o.logger.LogRead(ctx, name, traces, size, err)
	}()

	if err := o.rc.AcquireRead(ctx); err != nil {
		return nil, err
	}
	defer o.rc.ReleaseRead()

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, &blobstore.IOError{Name: name, Err: err}
	}
	defer func() { _ = b.Close() }()
	size = b.Size()

	if err := o.rc.AcquireMemory(size); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer o.rc.ReleaseMemory(size)
	if err := o.rc.AcquireIO(ctx, int(size)); err != nil {
		return nil, err
	}
	return segyio.ReadBlock(ctx, b, name, o.headerFields, o.order)
}

// WriteFile writes blk as a SEG-Y file on the local file system. The
// file appears atomically.
func WriteFile(ctx context.Context, path string, blk *block.Block, optFns ...Option) error {
	store, name := localFile(path)
	return Write(ctx, store, name, blk, optFns...)
}

// Write encodes blk as a SEG-Y file. Every trace header's ns and the
// file header's ns are set from the block.
func Write(ctx context.Context, store blobstore.BlobStore, name string, blk *block.Block, optFns ...Option) (err error) {
	o := newOptions(optFns)
	start := time.Now()
	fh := blk.FileHeader()
	size := header.FileHeaderSize + int64(blk.Len())*fh.TraceSize(blk.NS())
	defer func() {
		o.metrics.RecordWrite(blk.Len(), size, time.Since(start), err)
		o.logger.LogWrite(ctx, name, blk.Len(), size, err)
	}()

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := segyio.WriteBlock(resource.NewRateLimitedWriter(ctx, w, o.rc), blk, o.order); err != nil {
		if a, ok := w.(blobstore.Aborter); ok {
			_ = a.Abort()
		} else {
			_ = w.Close()
			_ = store.Delete(ctx, name)
		}
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Close()
}

// ScanFile scans one file's trace headers into shot records.
func ScanFile(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) ([]scan.ShotRecord, error) {
	o := newOptions(optFns)
	return scan.ScanFile(ctx, store, name, o.scanOptions()...)
}

// Scan scans the files of req in parallel into an index.
func Scan(ctx context.Context, store blobstore.BlobStore, req scan.Request, optFns ...Option) (*scan.Index, error) {
	o := newOptions(optFns)
	idx, err := scan.Scan(ctx, store, req, o.scanOptions()...)
	if err != nil {
		o.logger.LogScan(ctx, 0, 0, 0, 0, err)
		return nil, err
	}
	o.logger.LogScan(ctx, len(idx.Files()), idx.Len(), idx.TotalTraces(), len(idx.Failures()), nil)
	return idx, nil
}

// ScanDir scans the files directly under a local directory whose names
// match pattern. Index paths are relative to dir.
func ScanDir(ctx context.Context, dir, pattern string, optFns ...Option) (*scan.Index, error) {
	return Scan(ctx, blobstore.NewLocalStore(dir), scan.Request{Pattern: pattern}, optFns...)
}
