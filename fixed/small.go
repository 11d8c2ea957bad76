package fixed

import (
	"math/big"

	"github.com/sarchlab/m2fixed/bitfield"
)

// smallValue is the native-word engine (component C2): every operation
// runs on a plain uint64. Go defines integer arithmetic to wrap modulo
// 2^64, which is exactly two's-complement arithmetic, so add/sub/mul can
// be computed directly on the raw word and then masked/sign-extended down
// to the result format — as long as the result format's total bit width
// never exceeds the word ceiling. The dispatcher (real.go) is responsible
// for promoting to the Large engine before that would happen; if it is
// ever violated here, that is a dispatcher bug (spec.md §7) and the
// methods below return OverflowError rather than silently truncate.
type smallValue struct {
	intBits  int64
	fracBits int64
	signed   bool
	scaled   uint64
}

func (v *smallValue) total() int64 { return v.intBits + v.fracBits }

// newSmall builds a normalized small value: scaled is masked/sign-extended
// to the declared (intBits, fracBits) width.
func newSmall(intBits, fracBits int64, signed bool, scaled uint64) *smallValue {
	total := intBits + fracBits
	if total < 1 || total > bitfield.WordWidth {
		panic("fixed: small engine value total out of range")
	}
	if signed {
		scaled = bitfield.SignExtend(scaled, int(total))
	} else {
		scaled = bitfield.MaskUnsigned(scaled, int(total))
	}
	return &smallValue{intBits: intBits, fracBits: fracBits, signed: signed, scaled: scaled}
}

// toBig returns the true signed integer value of v as a big.Int.
func (v *smallValue) toBig() *big.Int {
	if v.signed {
		return big.NewInt(int64(v.scaled))
	}
	return new(big.Int).SetUint64(v.scaled)
}

// magnitude returns (|value|, negative) for v's true integer value.
func (v *smallValue) magnitude() (uint64, bool) {
	if !v.signed {
		return v.scaled, false
	}
	sv := int64(v.scaled)
	if sv < 0 {
		return uint64(-sv), true
	}
	return uint64(sv), false
}

func (v *smallValue) isNegative() bool {
	return v.signed && int64(v.scaled) < 0
}

func (v *smallValue) add(o *smallValue) (*smallValue, error) {
	resI := maxI64(v.intBits, o.intBits) + 1
	resF := maxI64(v.fracBits, o.fracBits)
	if resI+resF > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine add exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+resF)
	}
	a := bitfield.SafeShiftLeft(v.scaled, int(resF-v.fracBits))
	b := bitfield.SafeShiftLeft(o.scaled, int(resF-o.fracBits))
	return newSmall(resI, resF, v.signed, a+b), nil
}

func (v *smallValue) sub(o *smallValue) (*smallValue, error) {
	resI := maxI64(v.intBits, o.intBits) + 1
	resF := maxI64(v.fracBits, o.fracBits)
	if resI+resF > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine sub exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+resF)
	}
	a := bitfield.SafeShiftLeft(v.scaled, int(resF-v.fracBits))
	b := bitfield.SafeShiftLeft(o.scaled, int(resF-o.fracBits))
	return newSmall(resI, resF, v.signed, a-b), nil
}

func (v *smallValue) mul(o *smallValue) (*smallValue, error) {
	resI := v.intBits + o.intBits
	resF := v.fracBits + o.fracBits
	if resI+resF > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine mul exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+resF)
	}
	return newSmall(resI, resF, v.signed, v.scaled*o.scaled), nil
}

// div implements spec.md §4.2's bit-accurate truncate-toward-zero divide:
// shift the numerator magnitude left by the denominator's total width,
// floor-divide the magnitudes (both non-negative, so floor == truncate),
// then reapply the XOR of the operand signs.
func (v *smallValue) div(o *smallValue) (*smallValue, error) {
	var resI, resF int64
	if v.signed {
		resI = v.intBits + o.fracBits + 1
		resF = v.fracBits + o.intBits
	} else {
		resI = v.intBits + o.fracBits
		resF = v.fracBits + o.intBits
	}
	if resI+resF > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine div exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+resF)
	}
	denMag, denNeg := o.magnitude()
	if denMag == 0 {
		return nil, &ValueError{Msg: "fixed: division by zero"}
	}
	numMag, numNeg := v.magnitude()
	shift := int(o.intBits + o.fracBits)
	quot := bitfield.SafeShiftLeft(numMag, shift) / denMag
	if numNeg != denNeg {
		quot = -quot
	}
	return newSmall(resI, resF, v.signed, quot), nil
}

func (v *smallValue) neg() (*smallValue, error) {
	resI := v.intBits + 1
	if resI+v.fracBits > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine neg exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+v.fracBits)
	}
	return newSmall(resI, v.fracBits, true, -v.scaled), nil
}

func (v *smallValue) abs() (*smallValue, error) {
	resI := v.intBits
	if v.isNegative() {
		resI++
	}
	if resI+v.fracBits > bitfield.WordWidth {
		return nil, newOverflowErrorf("small engine abs exceeded the word ceiling (%d bits); dispatcher should have promoted to Large", resI+v.fracBits)
	}
	mag, _ := v.magnitude()
	return newSmall(resI, v.fracBits, v.signed, mag), nil
}

func (v *smallValue) shiftLeft(n int64) *smallValue {
	return newSmall(v.intBits, v.fracBits, v.signed, bitfield.SafeShiftLeft(v.scaled, int(n)))
}

func (v *smallValue) shiftRight(n int64) *smallValue {
	if v.signed {
		return newSmall(v.intBits, v.fracBits, true, bitfield.SafeShiftRightArithmetic(v.scaled, int(n)))
	}
	return newSmall(v.intBits, v.fracBits, false, bitfield.SafeShiftRight(v.scaled, int(n)))
}
