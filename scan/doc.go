// Package scan builds a shot index over SEG-Y files by reading trace
// headers only.
//
// ScanFile walks one file's trace headers in chunks, extracts the key
// fields (source position by default), and groups contiguous traces with
// equal keys into ShotRecords. Each record keeps the byte offsets of its
// traces, so Index.Shot can later read one shot without touching the rest
// of the file.
//
// Grouping relies on traces of one shot being contiguous in file order.
// Files sorted by shot satisfy this; receiver grouping on a shot-sorted
// file does not, and yields one record per receiver run. Traces are never
// re-sorted. WithMergeSegments folds runs with equal keys that reappear
// later in the same file into one record.
//
//	idx, err := scan.Scan(ctx, store, scan.Request{Dir: "raw", Pattern: "*.sgy"},
//	    scan.WithSummaryFields(header.GroupX, header.Offset),
//	)
//	if err != nil {
//	    return err
//	}
//	blk, err := idx.Shot(ctx, 0)
package scan
