package block

import (
	"fmt"

	"github.com/hupe1980/segy/header"
)

// Merge concatenates the traces of blocks in order into a new block.
// The file header is taken from the first block. All blocks must share
// the same ns. A nil block fails with ErrInvalidShape. Inputs are never
// modified.
func Merge(blocks ...*Block) (*Block, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyMerge
	}
	for k, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("%w: block %d is nil", ErrInvalidShape, k)
		}
	}
	ns := blocks[0].ns
	total := 0
	for k, b := range blocks {
		if b.ns != ns {
			return nil, &IncompatibleError{Block: k, NS: b.ns, Want: ns}
		}
		total += len(b.headers)
	}

	out := &Block{
		fh:      blocks[0].fh,
		headers: make([]header.TraceHeader, 0, total),
		data:    make([]float32, 0, total*ns),
		ns:      ns,
	}
	for _, b := range blocks {
		out.headers = append(out.headers, b.headers...)
		out.data = append(out.data, b.data...)
	}
	return out, nil
}
