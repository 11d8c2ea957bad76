package fixed

import "math/big"

// largeValue is the arbitrary-precision engine (component C3): the same
// contract as smallValue, but scaled is a *big.Int with no bit-width
// ceiling. Used whenever a format's total bits exceed the native word, or
// whenever an operation on two Small operands would.
type largeValue struct {
	intBits  int64
	fracBits int64
	signed   bool
	scaled   *big.Int
}

func (v *largeValue) total() int64 { return v.intBits + v.fracBits }

func newLarge(intBits, fracBits int64, signed bool, scaled *big.Int) *largeValue {
	if intBits+fracBits < 1 {
		panic("fixed: large engine value total out of range")
	}
	return &largeValue{intBits: intBits, fracBits: fracBits, signed: signed, scaled: new(big.Int).Set(scaled)}
}

func (v *largeValue) magnitude() (*big.Int, bool) {
	if v.scaled.Sign() < 0 {
		return new(big.Int).Abs(v.scaled), true
	}
	return new(big.Int).Set(v.scaled), false
}

func (v *largeValue) isNegative() bool { return v.signed && v.scaled.Sign() < 0 }

func (v *largeValue) add(o *largeValue) *largeValue {
	resI := maxI64(v.intBits, o.intBits) + 1
	resF := maxI64(v.fracBits, o.fracBits)
	a := new(big.Int).Lsh(v.scaled, uint(resF-v.fracBits))
	b := new(big.Int).Lsh(o.scaled, uint(resF-o.fracBits))
	return newLarge(resI, resF, v.signed, a.Add(a, b))
}

func (v *largeValue) sub(o *largeValue) *largeValue {
	resI := maxI64(v.intBits, o.intBits) + 1
	resF := maxI64(v.fracBits, o.fracBits)
	a := new(big.Int).Lsh(v.scaled, uint(resF-v.fracBits))
	b := new(big.Int).Lsh(o.scaled, uint(resF-o.fracBits))
	return newLarge(resI, resF, v.signed, a.Sub(a, b))
}

func (v *largeValue) mul(o *largeValue) *largeValue {
	resI := v.intBits + o.intBits
	resF := v.fracBits + o.fracBits
	p := new(big.Int).Mul(v.scaled, o.scaled)
	return newLarge(resI, resF, v.signed, p)
}

// div mirrors smallValue.div: magnitudes floor-divided (which, since both
// are non-negative, is the same as truncation), then the sign reapplied.
func (v *largeValue) div(o *largeValue) (*largeValue, error) {
	var resI, resF int64
	if v.signed {
		resI = v.intBits + o.fracBits + 1
		resF = v.fracBits + o.intBits
	} else {
		resI = v.intBits + o.fracBits
		resF = v.fracBits + o.intBits
	}
	denMag, denNeg := o.magnitude()
	if denMag.Sign() == 0 {
		return nil, &ValueError{Msg: "fixed: division by zero"}
	}
	numMag, numNeg := v.magnitude()
	shifted := new(big.Int).Lsh(numMag, uint(o.intBits+o.fracBits))
	quot := new(big.Int).Quo(shifted, denMag)
	if numNeg != denNeg {
		quot.Neg(quot)
	}
	return newLarge(resI, resF, v.signed, quot), nil
}

func (v *largeValue) neg() *largeValue {
	resI := v.intBits + 1
	return newLarge(resI, v.fracBits, true, new(big.Int).Neg(v.scaled))
}

func (v *largeValue) abs() *largeValue {
	resI := v.intBits
	if v.isNegative() {
		resI++
	}
	mag, _ := v.magnitude()
	return newLarge(resI, v.fracBits, v.signed, mag)
}

// shiftLeft re-masks to total_mask and re-sign-extends after the shift
// (spec.md §4.2), the same discipline newSmall applies on every Small
// shiftLeft: a plain Lsh can otherwise push the bit pattern past the
// declared (I, F) field.
func (v *largeValue) shiftLeft(n int64) *largeValue {
	shifted := new(big.Int).Lsh(v.scaled, uint(n))
	masked := wrapToRange(shifted, v.total(), v.signed)
	return newLarge(v.intBits, v.fracBits, v.signed, masked)
}

func (v *largeValue) shiftRight(n int64) *largeValue {
	// big.Int.Rsh is an arithmetic (sign-preserving) shift for negative
	// receivers, matching the two's-complement semantics spec.md requires.
	return newLarge(v.intBits, v.fracBits, v.signed, new(big.Int).Rsh(v.scaled, uint(n)))
}
