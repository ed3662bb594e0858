package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrShotIndexOutOfRange is returned for a shot index outside [0, Len()).
	ErrShotIndexOutOfRange = errors.New("shot index out of range")

	// ErrNoFiles is returned when a request resolves to no files.
	ErrNoFiles = errors.New("no matching SEG-Y files")

	// ErrIncompatibleIndex is returned when merging indexes built with
	// different key fields or byte order.
	ErrIncompatibleIndex = errors.New("incompatible scan index")

	// ErrInvalidOption is returned for an unusable option value.
	ErrInvalidOption = errors.New("invalid option")
)

// ShotIndexError reports an out-of-range shot index.
type ShotIndexError struct {
	Index int
	Len   int
}

func (e *ShotIndexError) Error() string {
	return fmt.Sprintf("shot %d out of range [0, %d)", e.Index, e.Len)
}

func (e *ShotIndexError) Unwrap() error { return ErrShotIndexOutOfRange }

// Failure is a file that could not be scanned.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) String() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }
