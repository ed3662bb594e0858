package segy

import (
	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/block"
	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/persistence"
	"github.com/hupe1980/segy/pmap"
	"github.com/hupe1980/segy/sample"
	"github.com/hupe1980/segy/scan"
)

var (
	// ErrMalformedHeader is returned when a file or trace header cannot describe a valid file.
	ErrMalformedHeader = header.ErrMalformedHeader

	// ErrUnknownField is returned when a header field name is not in the schema.
	ErrUnknownField = header.ErrUnknownField

	// ErrUnsupportedFormat is returned for sample formats outside 1, 2, 3, 5 and 8.
	ErrUnsupportedFormat = sample.ErrUnsupportedFormat

	// ErrIOFailure is returned when a byte range cannot be read.
	ErrIOFailure = blobstore.ErrIOFailure

	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrIndexOutOfRange is returned for a trace index outside a block.
	ErrIndexOutOfRange = block.ErrIndexOutOfRange

	// ErrIncompatibleBlocks is returned when merging blocks with different ns.
	ErrIncompatibleBlocks = block.ErrIncompatibleBlocks

	// ErrEmptyMerge is returned when merging zero blocks.
	ErrEmptyMerge = block.ErrEmptyMerge

	// ErrShotIndexOutOfRange is returned for a shot index outside a scan index.
	ErrShotIndexOutOfRange = scan.ErrShotIndexOutOfRange

	// ErrNoFiles is returned when a scan request matches no files.
	ErrNoFiles = scan.ErrNoFiles

	// ErrIncompatibleIndex is returned when indexes with different key fields are merged.
	ErrIncompatibleIndex = scan.ErrIncompatibleIndex

	// ErrWorkerFailure is wrapped by errors from parallel scans.
	ErrWorkerFailure = pmap.ErrWorkerFailure

	// ErrCorrupt is returned for index files that fail their checksum.
	ErrCorrupt = persistence.ErrCorrupt
)

// Typed errors, for errors.As.
type (
	MalformedHeaderError = header.MalformedHeaderError
	IOError              = blobstore.IOError
	ShotIndexError       = scan.ShotIndexError
	WorkerError          = pmap.WorkerError
)
