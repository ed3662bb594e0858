// Package segyio reads and writes SEG-Y records through blobstore blobs.
//
// It is shared by the eager whole-file path and by the scan index's lazy
// per-shot reads, so both decode headers and samples the same way.
package segyio
