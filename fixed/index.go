package fixed

import "math/big"

// Len returns I + F, the width of the two's-complement field (spec.md §4.5).
func (r *Real) Len() int64 { return r.IntBits() + r.FracBits() }

// Bit returns the boolean value of the bit at position k of the two's-
// complement representation; bit 0 is the LSB of the fractional part.
// big.Int.Bit implements infinite-precision two's complement for negative
// receivers, which is exactly the semantics spec.md §4.5 wants.
func (r *Real) Bit(k int64) (bool, error) {
	if k < 0 || k >= r.Len() {
		return false, &ValueError{Msg: "fixed: bit index out of range"}
	}
	return r.ScaledBig().Bit(int(k)) == 1, nil
}

// Slice returns the end-exclusive bit range [lo, hi) as a fresh unsigned
// Real of format (hi-lo, 0) (spec.md §4.5). lo and hi are swapped if
// lo > hi; an out-of-range hi is railed to Len(); step, if given, must be
// 1 or the call fails with TypeError.
func (r *Real) Slice(lo, hi int64, step ...int64) (*Real, error) {
	if len(step) > 0 && step[0] != 1 {
		return nil, &TypeError{Msg: "fixed: slice step must be 1"}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	total := r.Len()
	if hi > total {
		hi = total
	}
	if lo < 0 {
		lo = 0
	}
	width := hi - lo
	if width <= 0 {
		return nil, &ValueError{Msg: "fixed: empty slice range"}
	}

	scaled := r.ScaledBig()
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	bits := new(big.Int).Rsh(scaled, uint(lo))
	bits.And(bits, mask)

	return wrap(width, 0, false, bits), nil
}
