// Package pmap runs one task per input on a bounded worker pool and
// returns the results in input order, whatever order the tasks finish in.
//
// Tasks must not share mutable state. Each task writes only its own result
// slot, and the slots are read after every worker has returned.
//
//	pool := pmap.NewPool(4)
//	records, err := pmap.Map(ctx, pool, names, func(ctx context.Context, name string) ([]scan.ShotRecord, error) {
//	    return scan.ScanFile(ctx, store, name)
//	})
package pmap
