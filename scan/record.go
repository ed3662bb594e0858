package scan

import (
	"fmt"
	"strings"

	"github.com/hupe1980/segy/header"
	"github.com/hupe1980/segy/sample"
)

// Segment is a contiguous run of traces.
type Segment struct {
	// Offset is the byte offset of the first trace header.
	Offset int64
	Count  int
}

// FieldSummary is the value range of one header field over a shot.
type FieldSummary struct {
	Field header.TraceField
	Min   int32
	Max   int32
}

// ShotRecord describes one shot. It never holds sample data.
type ShotRecord struct {
	Path string
	// Segments are in file order of first appearance. There is exactly one
	// unless segments were merged.
	Segments []Segment
	NS       int
	DT       int
	Format   sample.Format
	// RawKeys and ScaledKeys hold the key field values of the first trace,
	// in key field order.
	RawKeys    []int32
	ScaledKeys []float64
	Summary    []FieldSummary
}

// Offset returns the byte offset of the first trace header.
func (r *ShotRecord) Offset() int64 {
	if len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[0].Offset
}

// Count returns the number of traces.
func (r *ShotRecord) Count() int {
	n := 0
	for _, s := range r.Segments {
		n += s.Count
	}
	return n
}

// FieldSummary returns the summary of f, if recorded.
func (r *ShotRecord) FieldSummary(f header.TraceField) (FieldSummary, bool) {
	for _, s := range r.Summary {
		if s.Field == f {
			return s, true
		}
	}
	return FieldSummary{}, false
}

func (r *ShotRecord) clone() ShotRecord {
	c := *r
	c.Segments = append([]Segment(nil), r.Segments...)
	c.RawKeys = append([]int32(nil), r.RawKeys...)
	c.ScaledKeys = append([]float64(nil), r.ScaledKeys...)
	c.Summary = append([]FieldSummary(nil), r.Summary...)
	return c
}

func (r *ShotRecord) String() string {
	var sb strings.Builder
	sb.WriteString("ShotRecord:\n")
	fmt.Fprintf(&sb, "    path: %s\n", r.Path)
	fmt.Fprintf(&sb, "    keys: %v\n", r.ScaledKeys)
	fmt.Fprintf(&sb, "    traces: %d in %d segment(s)\n", r.Count(), len(r.Segments))
	fmt.Fprintf(&sb, "    ns: %d, dt: %d, format: %s", r.NS, r.DT, r.Format)
	for _, s := range r.Summary {
		fmt.Fprintf(&sb, "\n    %-30s: %d..%d", s.Field, s.Min, s.Max)
	}
	return sb.String()
}

// summarize widens dst with the values of h.
func summarize(dst []FieldSummary, fields []header.TraceField, h *header.TraceHeader, first bool) {
	for i, f := range fields {
		v := h.Get(f)
		if first {
			dst[i] = FieldSummary{Field: f, Min: v, Max: v}
			continue
		}
		dst[i].Min = min(dst[i].Min, v)
		dst[i].Max = max(dst[i].Max, v)
	}
}

func mergeSummary(dst, src []FieldSummary) {
	for i := range dst {
		dst[i].Min = min(dst[i].Min, src[i].Min)
		dst[i].Max = max(dst[i].Max, src[i].Max)
	}
}
