// Package complexfp implements the fixed-point complex number (component
// C6): a pair of Real values sharing one (I, F) format, the same way
// the teacher's paired-lane SIMD unit drives two register files in
// lock-step through a shared operation.
package complexfp

import (
	"math"

	"github.com/sarchlab/m2fixed/fixed"
)

// Complex holds a real and imaginary Real sharing format and signedness;
// both are always signed (spec.md V6).
type Complex struct {
	real, imag *fixed.Real
}

// New builds a Complex from the given real/imaginary Reals, promoting
// either to signed and resizing both to their combined growth ceiling
// if their raw formats differ, so (V6)'s shared-format invariant holds
// from construction onward.
func New(re, im *fixed.Real) (*Complex, error) {
	if re == nil || im == nil {
		return nil, &fixed.TypeError{Msg: "complexfp: real and imag must not be nil"}
	}
	re, im, err := unifyFormat(re, im)
	if err != nil {
		return nil, err
	}
	return &Complex{real: re, imag: im}, nil
}

// unifyFormat brings re and im to a common signed format: the wider of
// the two (I, F) pairs, so neither component silently loses range. An
// unsigned input is first resized to one extra integer bit and re-read as
// signed before the shared-format resize, so its magnitude is preserved
// exactly.
func unifyFormat(re, im *fixed.Real) (*fixed.Real, *fixed.Real, error) {
	if !re.Signed() {
		if err := re.Resize(fixed.Format{IntBits: re.IntBits() + 1, FracBits: re.FracBits()}, fixed.OverflowSat, fixed.RoundNearPosInf); err != nil {
			return nil, nil, err
		}
		signedRe, err := fixed.New(fixed.WithIntBits(re.IntBits()), fixed.WithFracBits(re.FracBits()), fixed.WithSigned(true), fixed.WithBitField(re.ScaledBig()))
		if err != nil {
			return nil, nil, err
		}
		re = signedRe
	}
	if !im.Signed() {
		if err := im.Resize(fixed.Format{IntBits: im.IntBits() + 1, FracBits: im.FracBits()}, fixed.OverflowSat, fixed.RoundNearPosInf); err != nil {
			return nil, nil, err
		}
		signedIm, err := fixed.New(fixed.WithIntBits(im.IntBits()), fixed.WithFracBits(im.FracBits()), fixed.WithSigned(true), fixed.WithBitField(im.ScaledBig()))
		if err != nil {
			return nil, nil, err
		}
		im = signedIm
	}

	format := fixed.Format{
		IntBits:  maxI64(re.IntBits(), im.IntBits()),
		FracBits: maxI64(re.FracBits(), im.FracBits()),
	}
	if re.Format() != format {
		if err := re.Resize(format, fixed.OverflowSat, fixed.RoundNearPosInf); err != nil {
			return nil, nil, err
		}
	}
	if im.Format() != format {
		if err := im.Resize(format, fixed.OverflowSat, fixed.RoundNearPosInf); err != nil {
			return nil, nil, err
		}
	}
	return re, im, nil
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Real and Imag return the two component Reals.
func (c *Complex) Real() *fixed.Real { return c.real }
func (c *Complex) Imag() *fixed.Real { return c.imag }

// Format returns the shared (I, F) of both components.
func (c *Complex) Format() fixed.Format { return c.real.Format() }

// Add returns a+b, componentwise (spec.md §4.7).
func Add(a, b *Complex) (*Complex, error) {
	re, err := fixed.Add(a.real, b.real)
	if err != nil {
		return nil, err
	}
	im, err := fixed.Add(a.imag, b.imag)
	if err != nil {
		return nil, err
	}
	return New(re, im)
}

// Sub returns a-b, componentwise.
func Sub(a, b *Complex) (*Complex, error) {
	re, err := fixed.Sub(a.real, b.real)
	if err != nil {
		return nil, err
	}
	im, err := fixed.Sub(a.imag, b.imag)
	if err != nil {
		return nil, err
	}
	return New(re, im)
}

// Mul returns a*b via (ac - bd) + (ad + bc)i, four real multiplies and
// two add/subs at full growth (spec.md §4.7).
func Mul(a, b *Complex) (*Complex, error) {
	ac, err := fixed.Mul(a.real, b.real)
	if err != nil {
		return nil, err
	}
	bd, err := fixed.Mul(a.imag, b.imag)
	if err != nil {
		return nil, err
	}
	ad, err := fixed.Mul(a.real, b.imag)
	if err != nil {
		return nil, err
	}
	bc, err := fixed.Mul(a.imag, b.real)
	if err != nil {
		return nil, err
	}

	re, err := fixed.Sub(ac, bd)
	if err != nil {
		return nil, err
	}
	im, err := fixed.Add(ad, bc)
	if err != nil {
		return nil, err
	}
	return New(re, im)
}

// Conjugate returns a complex with the imaginary part negated.
func Conjugate(a *Complex) (*Complex, error) {
	negIm, err := fixed.Neg(a.imag)
	if err != nil {
		return nil, err
	}
	return New(a.real, negIm)
}

// Divide returns a/b = (a+bi)(c-di) / (c²+d²): the denominator is the
// real-valued energy of b, and each numerator component is divided by
// it using the Real divide (spec.md §4.7).
func Divide(a, b *Complex) (*Complex, error) {
	conjB, err := Conjugate(b)
	if err != nil {
		return nil, err
	}
	numerator, err := Mul(a, conjB)
	if err != nil {
		return nil, err
	}

	energy, err := Energy(b)
	if err != nil {
		return nil, err
	}

	re, err := fixed.Div(numerator.real, energy)
	if err != nil {
		return nil, err
	}
	im, err := fixed.Div(numerator.imag, energy)
	if err != nil {
		return nil, err
	}
	return New(re, im)
}

// Energy returns c² + d² for a = c + di, as a non-negative real Real
// (spec.md's glossary entry for "Energy").
func Energy(a *Complex) (*fixed.Real, error) {
	cc, err := fixed.Mul(a.real, a.real)
	if err != nil {
		return nil, err
	}
	dd, err := fixed.Mul(a.imag, a.imag)
	if err != nil {
		return nil, err
	}
	return fixed.Add(cc, dd)
}

// Abs returns the square root of the energy, rendered as a fixed-point
// value of the same format as the energy, using a floating-point sqrt
// intermediate. This is a documented approximation, not bit-exact
// (spec.md §4.7, Open Question: float sqrt is the source's choice).
func Abs(a *Complex) (*fixed.Real, error) {
	energy, err := Energy(a)
	if err != nil {
		return nil, err
	}
	root := math.Sqrt(energy.Value())

	format := energy.Format()
	result, err := fixed.New(
		fixed.WithIntBits(format.IntBits),
		fixed.WithFracBits(format.FracBits),
		fixed.WithSigned(energy.Signed()),
		fixed.WithValue(root),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Resize resizes both components in place with the same arguments
// (spec.md §4.7). It returns only an error, not c, so calls do not chain;
// if the imaginary resize fails, the real part stays resized.
func (c *Complex) Resize(newFormat fixed.Format, ovf fixed.OverflowMode, rnd fixed.RoundMode) error {
	if err := c.real.Resize(newFormat, ovf, rnd); err != nil {
		return err
	}
	if err := c.imag.Resize(newFormat, ovf, rnd); err != nil {
		return err
	}
	return nil
}

// ToDict renders c as a pickle-equivalent dictionary: {"re": ..., "im": ...}.
func (c *Complex) ToDict() map[string]any {
	return map[string]any{
		"re": c.real.ToDict(),
		"im": c.imag.ToDict(),
	}
}

// FromDict reconstructs a Complex from a pickle-equivalent dictionary.
func FromDict(d map[string]any) (*Complex, error) {
	reRaw, ok1 := d["re"]
	imRaw, ok2 := d["im"]
	if !ok1 || !ok2 {
		return nil, &fixed.KeyError{Msg: "complexfp: pickle dict missing 're' or 'im'"}
	}
	reDict, ok := reRaw.(map[string]any)
	if !ok {
		return nil, &fixed.TypeError{Msg: "complexfp: pickle dict 're' must be a nested dict"}
	}
	imDict, ok := imRaw.(map[string]any)
	if !ok {
		return nil, &fixed.TypeError{Msg: "complexfp: pickle dict 'im' must be a nested dict"}
	}

	re, err := fixed.FromDict(reDict)
	if err != nil {
		return nil, err
	}
	im, err := fixed.FromDict(imDict)
	if err != nil {
		return nil, err
	}
	return New(re, im)
}
