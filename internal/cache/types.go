package cache

import "context"

// Key identifies one fixed-size block of a blob.
type Key struct {
	// Blob is the blob name within its store.
	Blob string
	// Block is the block index (byte offset / block size).
	Block int64
}

// BlockCache caches immutable byte blocks. Returned slices are read-only.
type BlockCache interface {
	// Get returns a cached block; ok is false on a miss.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches b. Callers must not modify b afterwards.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate drops every entry for which predicate returns true.
	Invalidate(predicate func(key Key) bool)
	// Close releases held resources.
	Close() error
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
}
