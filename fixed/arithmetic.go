package fixed

import "github.com/sarchlab/m2fixed/bitfield"

// prepareSign implements spec.md §4.4 steps 1-2: sign normalization. (Engine
// promotion, step 3, and the growth-rule word-ceiling check, step 4, are
// op-specific and handled by each operation below, since the growth rule
// — and therefore the ceiling — differs per operator.)
func prepareSign(a, b *Real) (*Real, *Real) {
	if a.Signed() != b.Signed() {
		a = a.promoteToSigned()
		b = b.promoteToSigned()
	}
	return a, b
}

// addSubCeiling is the post-op total width for add/sub (spec.md §4.2).
func addSubCeiling(a, b *Real) int64 {
	return maxI64(a.IntBits(), b.IntBits()) + 1 + maxI64(a.FracBits(), b.FracBits())
}

func mulCeiling(a, b *Real) int64 {
	return a.IntBits() + b.IntBits() + a.FracBits() + b.FracBits()
}

// divCeiling is the "more conservative" ceiling spec.md §4.4 step 5 uses
// for divide: a Small pair is promoted iff Ia+Fa+Ib+Fb+1 > W.
func divCeiling(a, b *Real) int64 {
	return a.IntBits() + a.FracBits() + b.IntBits() + b.FracBits() + 1
}

// promoteForOp implements spec.md §4.4 steps 3-4: if either operand is
// already Large, or the other is Small and the other a Large, promote the
// Small one; if both are Small but the growth-rule ceiling would exceed
// the word width, promote both.
func promoteForOp(a, b *Real, ceiling int64) (*Real, *Real) {
	if a.large != nil || b.large != nil {
		return a.promoteToLarge(), b.promoteToLarge()
	}
	if ceiling > bitfield.WordWidth {
		return a.promoteToLarge(), b.promoteToLarge()
	}
	return a, b
}

// Add returns a+b with format (max(Ia,Ib)+1, max(Fa,Fb)) (spec.md §4.2).
func Add(a, b *Real) (*Real, error) {
	a, b = prepareSign(a, b)
	a, b = promoteForOp(a, b, addSubCeiling(a, b))
	if a.small != nil {
		res, err := a.small.add(b.small)
		if err != nil {
			return nil, err
		}
		return &Real{small: res}, nil
	}
	return &Real{large: a.large.add(b.large)}, nil
}

// Sub returns a-b with format (max(Ia,Ib)+1, max(Fa,Fb)) (spec.md §4.2).
func Sub(a, b *Real) (*Real, error) {
	a, b = prepareSign(a, b)
	a, b = promoteForOp(a, b, addSubCeiling(a, b))
	if a.small != nil {
		res, err := a.small.sub(b.small)
		if err != nil {
			return nil, err
		}
		return &Real{small: res}, nil
	}
	return &Real{large: a.large.sub(b.large)}, nil
}

// Mul returns a*b with format (Ia+Ib, Fa+Fb) (spec.md §4.2).
func Mul(a, b *Real) (*Real, error) {
	a, b = prepareSign(a, b)
	a, b = promoteForOp(a, b, mulCeiling(a, b))
	if a.small != nil {
		res, err := a.small.mul(b.small)
		if err != nil {
			return nil, err
		}
		return &Real{small: res}, nil
	}
	return &Real{large: a.large.mul(b.large)}, nil
}

// Div returns a/b, truncated toward zero, with the signed/unsigned
// formats of spec.md §4.2's divide row.
func Div(a, b *Real) (*Real, error) {
	a, b = prepareSign(a, b)
	a, b = promoteForOp(a, b, divCeiling(a, b))
	if a.small != nil {
		res, err := a.small.div(b.small)
		if err != nil {
			return nil, err
		}
		return &Real{small: res}, nil
	}
	res, err := a.large.div(b.large)
	if err != nil {
		return nil, err
	}
	return &Real{large: res}, nil
}

// Neg returns -a with format (Ia+1, Fa) (spec.md §4.2); always signed.
func Neg(a *Real) (*Real, error) {
	if a.small != nil {
		if a.IntBits()+1+a.FracBits() > bitfield.WordWidth {
			a = a.promoteToLarge()
		} else {
			res, err := a.small.neg()
			if err != nil {
				return nil, err
			}
			return &Real{small: res}, nil
		}
	}
	return &Real{large: a.large.neg()}, nil
}

// Abs returns |a| with format (Ia+1, Fa) if a<0 else (Ia, Fa).
func Abs(a *Real) (*Real, error) {
	if a.small != nil {
		needed := a.IntBits() + a.FracBits()
		if a.small.isNegative() {
			needed++
		}
		if needed > bitfield.WordWidth {
			a = a.promoteToLarge()
		} else {
			res, err := a.small.abs()
			if err != nil {
				return nil, err
			}
			return &Real{small: res}, nil
		}
	}
	return &Real{large: a.large.abs()}, nil
}

// ShiftLeft preserves (I, F) and shifts the underlying bit pattern,
// re-masking and re-sign-extending (spec.md §4.2).
func (r *Real) ShiftLeft(n int64) *Real {
	if r.small != nil {
		return &Real{small: r.small.shiftLeft(n)}
	}
	return &Real{large: r.large.shiftLeft(n)}
}

// ShiftRight preserves (I, F) and shifts, preserving sign.
func (r *Real) ShiftRight(n int64) *Real {
	if r.small != nil {
		return &Real{small: r.small.shiftRight(n)}
	}
	return &Real{large: r.large.shiftRight(n)}
}
