package sample

import "math"

const (
	ibmSignMask = 0x80000000
	ibmMaxMag   = 0x7fffffff
)

// IBMToIEEE converts a System/360 single precision value to float32.
// The value is sign * 0.fraction * 16^(exponent-64).
func IBMToIEEE(v uint32) float32 {
	frac := v & 0x00ffffff
	if frac == 0 {
		return 0
	}
	exp := int((v >> 24) & 0x7f)
	f := math.Ldexp(float64(frac), 4*(exp-64)-24)
	if v&ibmSignMask != 0 {
		f = -f
	}
	return float32(f)
}

// IEEEToIBM converts f to System/360 single precision, rounding the
// fraction to nearest. Every finite float32 fits the IBM exponent range;
// infinities saturate and NaN encodes as zero.
func IEEEToIBM(f float32) uint32 {
	if f == 0 || f != f {
		return 0
	}
	var sign uint32
	a := float64(f)
	if a < 0 {
		sign = ibmSignMask
		a = -a
	}
	if math.IsInf(a, 0) {
		return sign | ibmMaxMag
	}

	// a = fr * 2^e with fr in [0.5, 1); rewrite as F * 16^E with F in [1/16, 1).
	fr, e := math.Frexp(a)
	exp := (e + 3) >> 2
	mant := uint32(math.Round(math.Ldexp(fr, 24-(4*exp-e))))
	return sign | uint32(exp+64)<<24 | mant
}
