package scan

import (
	"fmt"
	"slices"
)

// MergeIndexes appends the shots of indexes in order into a new index.
// All indexes must share key fields and byte order. The result reads
// through the first index's store and takes its logger, metrics and pool.
// Failures are concatenated.
func MergeIndexes(indexes ...*Index) (*Index, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrIncompatibleIndex)
	}
	first := indexes[0]
	out := &Index{
		store:      first.store,
		byPath:     make(map[string]int),
		keyFields:  first.keyFields,
		scaledKeys: first.scaledKeys,
		order:      first.order,
		records:    []ShotRecord{},
		pool:       first.pool,
		logger:     first.logger,
		metrics:    first.metrics,
		rc:         first.rc,
	}
	for k, idx := range indexes {
		if !slices.Equal(idx.keyFields, first.keyFields) || idx.order != first.order || idx.scaledKeys != first.scaledKeys {
			return nil, fmt.Errorf("%w: index %d was built with different keys or byte order", ErrIncompatibleIndex, k)
		}
		for _, f := range idx.files {
			out.addFile(f)
		}
		for i := range idx.records {
			out.records = append(out.records, idx.records[i].clone())
		}
		out.failures = append(out.failures, idx.failures...)
	}
	return out, nil
}
