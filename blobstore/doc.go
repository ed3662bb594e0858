// Package blobstore abstracts seekable byte-range storage for SEG-Y files
// and persisted scan indexes.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads served from a memory mapping
//   - MemoryStore: in-process maps, used in tests
//   - CachingStore: block cache in front of any store
//   - s3.Store: Amazon S3 range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
// A store only needs ranged reads and listing to be scanned:
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    ReadRange(ctx, off, length) (io.ReadCloser, error)
//	    Size() int64
//	    Close() error
//	}
//
// Names use forward slashes regardless of platform. Glob resolves a
// directory and a path.Match pattern to a sorted list of names.
package blobstore
