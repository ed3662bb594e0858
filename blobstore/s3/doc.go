// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "survey-bucket",
//	    s3.WithPrefix("north-sea/2024/"),
//	    s3.WithRegion("eu-west-1"),
//	)
//
//	idx, err := segy.ScanDir(ctx, store, "raw", "*.sgy")
//
// # Features
//
//   - Range reads, so trace headers are fetched without downloading samples
//   - Multipart uploads for large SEG-Y files
//   - Automatic pagination for listing
//   - Configurable prefix for multi-survey isolation
//   - DynamoDB-backed CURRENT pointers for published scan indexes
package s3
