package block

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a trace index is outside [0, Len()).
	ErrIndexOutOfRange = errors.New("trace index out of range")

	// ErrIncompatibleBlocks is returned when merging blocks with different sample counts.
	ErrIncompatibleBlocks = errors.New("incompatible blocks")

	// ErrEmptyMerge is returned when Merge is called without blocks.
	ErrEmptyMerge = errors.New("merge of zero blocks")

	// ErrInvalidShape is returned when headers and sample data disagree in size.
	ErrInvalidShape = errors.New("invalid block shape")
)

// IndexError reports a trace index outside the block.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("trace index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// IncompatibleError reports the first block of a merge whose ns differs
// from the first block's.
type IncompatibleError struct {
	Block int
	NS    int
	Want  int
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("block %d has ns=%d, want %d", e.Block, e.NS, e.Want)
}

func (e *IncompatibleError) Unwrap() error { return ErrIncompatibleBlocks }
