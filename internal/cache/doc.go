// Package cache provides an in-memory LRU for fixed-size blob blocks.
//
// Remote stores (S3, MinIO) pay a round trip per range request. Scanning
// reads trace headers in chunks and shot reads often revisit the same
// regions, so blobstore.CachingStore keeps recently read blocks here.
// Memory held by the cache can be charged to a resource.Controller.
package cache
