// Package delim finds the boundaries of runs of equal values in a sequence.
//
// A run is a maximal stretch of consecutive identical values. Trace
// streams are split into shots by running Vector over the per-trace key.
//
// With step > 1 the search probes every step-th element and then refines
// linearly inside the last stride. This is exact only when each distinct
// value occupies a single contiguous run (the traces of a shot are
// contiguous); a value that disappears and reappears inside one stride is
// not detected. Step 1 is exact for any sequence.
package delim

// FindNext returns the index of the first element at or after from that
// differs from seq[from], or len(seq) if there is none. Every element in
// [from, result) equals seq[from]. Steps below 1 are treated as 1.
func FindNext[T comparable](seq []T, from, step int) int {
	n := len(seq)
	if from < 0 {
		from = 0
	}
	if from >= n {
		return n
	}
	if step < 1 {
		step = 1
	}

	v := seq[from]
	last := from // last probe known to equal v
	i := from + step
	for i < n && seq[i] == v {
		last = i
		i += step
	}
	if i > n {
		i = n
	}
	for j := last + 1; j < i; j++ {
		if seq[j] != v {
			return j
		}
	}
	return i
}

// Vector returns the start index of every run in seq, in order.
// An empty sequence yields an empty result.
func Vector[T comparable](seq []T, step int) []int {
	if len(seq) == 0 {
		return []int{}
	}
	starts := []int{0}
	for i := FindNext(seq, 0, step); i < len(seq); i = FindNext(seq, i, step) {
		starts = append(starts, i)
	}
	return starts
}

// Run is a half-open interval [Start, End) of equal values.
type Run struct {
	Start int
	End   int
}

// Len returns the number of elements in r.
func (r Run) Len() int { return r.End - r.Start }

// Runs returns the runs of seq as intervals.
func Runs[T comparable](seq []T, step int) []Run {
	starts := Vector(seq, step)
	runs := make([]Run, len(starts))
	for k, s := range starts {
		end := len(seq)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		runs[k] = Run{Start: s, End: end}
	}
	return runs
}
