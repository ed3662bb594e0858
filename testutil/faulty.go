package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/segy/blobstore"
)

// ErrInjected is returned by FaultyStore unless a Fault sets its own error.
var ErrInjected = errors.New("injected fault")

// Fault defines the failure behavior of one blob.
type Fault struct {
	// FailReadsFrom fails every read touching a byte at or past this
	// offset. -1 disables.
	FailReadsFrom int64
	// FailAfterBytes fails writes once this many bytes were written. -1 disables.
	FailAfterBytes int64
	FailOnOpen     bool
	FailOnClose    bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyStore wraps a BlobStore and injects errors for blobs whose name
// contains a rule's pattern.
type FaultyStore struct {
	blobstore.BlobStore

	mu    sync.Mutex
	rules map[string]Fault
	reads int64
}

// NewFaultyStore wraps s.
func NewFaultyStore(s blobstore.BlobStore) *FaultyStore {
	return &FaultyStore{BlobStore: s, rules: make(map[string]Fault)}
}

// AddRule sets the fault for blobs whose name contains pattern.
func (f *FaultyStore) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Reads returns the number of ReadAt calls served so far.
func (f *FaultyStore) Reads() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *FaultyStore) fault(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			return rule
		}
	}
	return Fault{FailReadsFrom: -1, FailAfterBytes: -1}
}

func (f *FaultyStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	fault := f.fault(name)
	if fault.FailOnOpen {
		return nil, fault.err()
	}
	b, err := f.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &faultyBlob{Blob: b, store: f, fault: fault}, nil
}

func (f *FaultyStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	fault := f.fault(name)
	w, err := f.BlobStore.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &faultyWriter{WritableBlob: w, fault: fault}, nil
}

func (f *FaultyStore) Put(ctx context.Context, name string, data []byte) error {
	fault := f.fault(name)
	if fault.FailAfterBytes >= 0 && int64(len(data)) > fault.FailAfterBytes {
		return fault.err()
	}
	return f.BlobStore.Put(ctx, name, data)
}

type faultyBlob struct {
	blobstore.Blob
	store *FaultyStore
	fault Fault
}

func (b *faultyBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.store.mu.Lock()
	b.store.reads++
	b.store.mu.Unlock()
	if b.fault.FailReadsFrom >= 0 && off+int64(len(p)) > b.fault.FailReadsFrom {
		return 0, b.fault.err()
	}
	return b.Blob.ReadAt(ctx, p, off)
}

// ReadRange goes through ReadAt so read faults apply.
func (b *faultyBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if end := b.Size(); off+length > end {
		length = end - off
	}
	buf := make([]byte, length)
	n, err := b.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(string(buf[:n]))), nil
}

type faultyWriter struct {
	blobstore.WritableBlob
	fault   Fault
	written int64
}

func (w *faultyWriter) Write(p []byte) (int, error) {
	if w.fault.FailAfterBytes >= 0 && w.written+int64(len(p)) > w.fault.FailAfterBytes {
		return 0, w.fault.err()
	}
	n, err := w.WritableBlob.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *faultyWriter) Close() error {
	if w.fault.FailOnClose {
		if a, ok := w.WritableBlob.(blobstore.Aborter); ok {
			_ = a.Abort()
		}
		return w.fault.err()
	}
	return w.WritableBlob.Close()
}

// Abort forwards to the wrapped writer when it supports aborting.
func (w *faultyWriter) Abort() error {
	if a, ok := w.WritableBlob.(blobstore.Aborter); ok {
		return a.Abort()
	}
	return nil
}
