package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned when a blob does not exist. It is os.ErrNotExist,
	// so errors.Is works across local and remote stores.
	ErrNotFound = os.ErrNotExist

	// ErrIOFailure is returned when a byte range cannot be read.
	ErrIOFailure = errors.New("io failure")
)

// BlobStore gives access to named, immutable blobs (SEG-Y files, index files).
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create opens a blob for writing; it becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a whole blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only, seekable handle to a blob.
type Blob interface {
	// ReadAt follows io.ReaderAt semantics and honours ctx.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange streams length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the blob size in bytes.
	Size() int64
	io.Closer
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered data to durable storage where supported.
	Sync() error
}

// Aborter is implemented by writable blobs that can discard an
// unfinished write. Nothing becomes visible after Abort.
type Aborter interface {
	Abort() error
}

// Mappable is implemented by blobs that expose their bytes without copying.
type Mappable interface {
	// Bytes returns the blob contents. The slice is valid until Close.
	Bytes() ([]byte, error)
}

// IOError locates a failed byte-range access.
type IOError struct {
	Name   string
	Offset int64
	Length int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s [%d, %d): %v", e.Name, e.Offset, e.Offset+e.Length, e.Err)
}

// Unwrap exposes both ErrIOFailure and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrIOFailure, e.Err} }

// ReadFull reads exactly len(p) bytes at off. A short read, including
// one caused by a truncated blob, is reported as an *IOError.
func ReadFull(ctx context.Context, b Blob, name string, p []byte, off int64) error {
	n, err := b.ReadAt(ctx, p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Name: name, Offset: off, Length: int64(len(p)), Err: err}
}

// Glob returns the blobs directly under dir whose base name matches
// pattern (path.Match syntax), sorted by name. An empty dir lists the
// store root.
func Glob(ctx context.Context, s BlobStore, dir, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	prefix := strings.Trim(dir, "/")
	if prefix != "" {
		prefix += "/"
	}
	names, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		rest := strings.TrimPrefix(name, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		if ok, _ := path.Match(pattern, rest); ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}

// sectionReader streams a byte range through Blob.ReadAt.
type sectionReader struct {
	ctx   context.Context
	blob  Blob
	off   int64
	limit int64
}

func newRangeReader(ctx context.Context, b Blob, off, length int64) io.ReadCloser {
	end := off + length
	if size := b.Size(); end > size {
		end = size
	}
	return io.NopCloser(&sectionReader{ctx: ctx, blob: b, off: off, limit: end})
}

func (r *sectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if rem := r.limit - r.off; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}
