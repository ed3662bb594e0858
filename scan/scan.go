package scan

import (
	"context"
	"time"

	"github.com/hupe1980/segy/blobstore"
	"github.com/hupe1980/segy/pmap"
)

// Request selects the files to scan. Names, when set, are scanned in the
// given order; a name listed twice is scanned once, at its first position.
// Otherwise the blobs directly under Dir matching Pattern
// (path.Match syntax, default "*") are scanned in name order.
type Request struct {
	Names   []string
	Dir     string
	Pattern string
}

func (r Request) resolve(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	if len(r.Names) > 0 {
		seen := make(map[string]struct{}, len(r.Names))
		names := make([]string, 0, len(r.Names))
		for _, n := range r.Names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
		return names, nil
	}
	pattern := r.Pattern
	if pattern == "" {
		pattern = "*"
	}
	names, err := blobstore.Glob(ctx, store, r.Dir, pattern)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoFiles
	}
	return names, nil
}

// Scan scans every file of req in parallel and returns the combined index.
// Shots appear file by file in request order, and within a file in order
// of first appearance.
//
// The first failing file fails the whole scan with a *pmap.WorkerError
// unless WithTolerateFailures is set.
func Scan(ctx context.Context, store blobstore.BlobStore, req Request, optFns ...Option) (*Index, error) {
	o, err := newOptions(optFns)
	if err != nil {
		return nil, err
	}
	names, err := req.resolve(ctx, store)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pool := o.pool
	if pool == nil {
		pool = pmap.NewPool(o.workers)
	}
	scanOne := func(ctx context.Context, name string) (fileScan, error) {
		return scanFile(ctx, store, name, &o)
	}

	idx := newIndex(store, &o)
	if o.tolerate {
		for i, r := range pmap.MapAll(ctx, pool, names, scanOne) {
			if r.Err != nil {
				idx.failures = append(idx.failures, Failure{Path: names[i], Err: r.Err})
				continue
			}
			idx.add(names[i], r.Value)
		}
	} else {
		results, err := pmap.Map(ctx, pool, names, scanOne)
		if err != nil {
			return nil, err
		}
		for i, r := range results {
			idx.add(names[i], r)
		}
	}

	o.logger.InfoContext(ctx, "scan complete",
		"files", len(names),
		"failed", len(idx.failures),
		"shots", idx.Len(),
		"traces", idx.TotalTraces(),
		"duration", time.Since(start),
	)
	return idx, nil
}
