package block

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/segy/header"
)

// Split returns a new block with the traces at indices, in the given
// order. Headers and samples are copied; b is never modified.
func Split(b *Block, indices []int) (*Block, error) {
	for _, i := range indices {
		if err := b.check(i); err != nil {
			return nil, err
		}
	}
	out := &Block{
		fh:      b.fh,
		headers: make([]header.TraceHeader, len(indices)),
		data:    make([]float32, len(indices)*b.ns),
		ns:      b.ns,
	}
	for k, i := range indices {
		out.headers[k] = b.headers[i]
		copy(out.data[k*b.ns:(k+1)*b.ns], b.data[i*b.ns:(i+1)*b.ns])
	}
	return out, nil
}

// SplitRange returns a new block with traces [from, to).
func SplitRange(b *Block, from, to int) (*Block, error) {
	if from < 0 || from > len(b.headers) {
		return nil, &IndexError{Index: from, Len: len(b.headers)}
	}
	if to < from || to > len(b.headers) {
		return nil, &IndexError{Index: to - 1, Len: len(b.headers)}
	}
	out := &Block{
		fh:      b.fh,
		headers: append([]header.TraceHeader(nil), b.headers[from:to]...),
		data:    append([]float32(nil), b.data[from*b.ns:to*b.ns]...),
		ns:      b.ns,
	}
	if out.headers == nil {
		out.headers = []header.TraceHeader{}
		out.data = []float32{}
	}
	return out, nil
}

// SplitBitmap returns a new block with the traces whose indices are set
// in sel, in ascending order.
func SplitBitmap(b *Block, sel *roaring.Bitmap) (*Block, error) {
	indices := make([]int, 0, sel.GetCardinality())
	it := sel.Iterator()
	for it.HasNext() {
		indices = append(indices, int(it.Next()))
	}
	return Split(b, indices)
}
