// Package scalar implements the SEG-Y coordinate scalar convention.
//
// A scalar k > 1 multiplies the stored value, k < -1 divides it by |k|,
// and k in {-1, 0, 1} leaves it unchanged. Zero is not defined by the
// standard; it is treated as 1.
package scalar

import "math"

// Decode applies scalar k to a raw header value.
func Decode(raw int32, k int16) float64 {
	switch {
	case k > 1:
		return float64(raw) * float64(k)
	case k < -1:
		return float64(raw) / -float64(k)
	default:
		return float64(raw)
	}
}

// Encode returns the raw value that Decode maps back to v under k,
// rounded to the nearest integer and clamped to the int32 range.
func Encode(v float64, k int16) int32 {
	switch {
	case k > 1:
		v /= float64(k)
	case k < -1:
		v *= -float64(k)
	}
	return clampInt32(math.Round(v))
}

// IsNoop reports whether k leaves values unchanged.
func IsNoop(k int16) bool { return k >= -1 && k <= 1 }

func clampInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
