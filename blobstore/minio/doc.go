// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems (Ceph, SeaweedFS,
// Garage) that field crews and on-prem processing centres tend to run
// next to their SEG-Y archives.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "surveys", "north-sea/")
//	idx, err := segy.ScanDir(ctx, store, "raw", "*.sgy")
//
// # Features
//
//   - Ranged GETs so only trace headers are transferred during a scan
//   - Streaming uploads for large files
//   - No AWS SDK dependency
package minio
