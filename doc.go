// Package segy reads, writes and indexes SEG-Y Rev 1 seismic files.
//
// # Reading and writing
//
// Read loads a whole file into a block.Block: the file header, one trace
// header per trace and the samples as float32, whatever the on-disk
// sample format. Write encodes a block back to SEG-Y.
//
//	blk, err := segy.ReadFile(ctx, "line-7.sgy", segy.WithHeaderFields(header.SourceX, header.GroupX))
//	if err != nil {
//	    return err
//	}
//	offsets := blk.Header(header.Offset, true)
//
// # Scanning
//
// For surveys too large to load, Scan walks trace headers only and
// builds a scan.Index with one ShotRecord per shot. Shots are read on
// demand:
//
//	idx, err := segy.ScanDir(ctx, "/data/raw", "*.sgy", segy.WithWorkers(8))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < idx.Len(); i++ {
//	    shot, err := idx.Shot(ctx, i)
//	    ...
//	}
//
// Files may live in any blobstore.BlobStore: a local directory, memory,
// S3 (blobstore/s3) or MinIO (blobstore/minio). Remote scans benefit
// from blobstore.CachingStore when shots are small.
//
// Indexes are saved and published with the persistence package.
//
// # Errors
//
// Errors wrap the sentinels re-exported here, so callers can match them
// with errors.Is without importing the sub-packages.
package segy
