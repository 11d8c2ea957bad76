package bitfield

import (
	"math"
	"math/big"
	"strings"
)

// FPParams is an (I, F) format plus the scaled integer value that represent
// a number exactly, as computed by DoubleToFPParams/IntToFPParams
// (spec.md §4.1).
type FPParams struct {
	IntBits  int64
	FracBits int64
	Scaled   *big.Int
}

// bitsNeededSigned returns the number of two's-complement bits required to
// hold n, including the sign bit.
func bitsNeededSigned(n *big.Int) int64 {
	switch n.Sign() {
	case 0:
		return 1
	case 1:
		return int64(n.BitLen()) + 1
	default:
		m := new(big.Int).Add(n, big.NewInt(1))
		m.Neg(m)
		return int64(m.BitLen()) + 1
	}
}

// IntToFPParams computes the signed format for an integer operand, per
// spec.md §4.1: scaled = n, I = bitlength(|n|) + 1, F = 0.
func IntToFPParams(n *big.Int) FPParams {
	scaled := new(big.Int).Set(n)
	return FPParams{
		IntBits:  int64(new(big.Int).Abs(scaled).BitLen()) + 1,
		FracBits: 0,
		Scaled:   scaled,
	}
}

// doubleMantissaBits bounds the precision-discovery loop in
// DoubleToFPParams at the IEEE-754 double mantissa width (52 explicit bits
// plus the implicit leading one).
const doubleMantissaBits = 53

// DoubleToFPParams computes the minimal (I, F) format and exact scaled
// integer representing the finite float x, per spec.md §4.1: frexp x into
// (mantissa, exp), then repeatedly double the mantissa and subtract off its
// integer part until the remainder is exactly zero; the iteration count is
// the precision bit count, from which F and I are derived.
func DoubleToFPParams(x float64) FPParams {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		panic("bitfield: DoubleToFPParams requires a finite value")
	}
	if x == 0 {
		return FPParams{IntBits: 1, FracBits: 0, Scaled: big.NewInt(0)}
	}

	mantissa, exp := math.Frexp(x) // x == mantissa * 2^exp, |mantissa| in [0.5, 1)

	m := mantissa
	var precision int64
	for m != 0 && precision < doubleMantissaBits {
		m *= 2
		if m >= 1 {
			m -= 1
		} else if m <= -1 {
			m += 1
		}
		precision++
	}

	fracBits := precision - int64(exp)

	// mantissa * 2^precision is an exact integer by construction of
	// precision above (no remainder survives doubleMantissaBits doublings).
	scaledF := mantissa * math.Ldexp(1, int(precision))
	scaled, _ := big.NewFloat(scaledF).Int(nil)

	return FPParams{
		IntBits:  bitsNeededSigned(scaled) - fracBits,
		FracBits: fracBits,
		Scaled:   scaled,
	}
}

// ScaledLongToFloatString renders scaled/2^F as an exact decimal string, no
// scientific notation, per spec.md §4.1. intBits does not change the
// rendered value; a negative F first left-shifts the magnitude by |F|
// (the value is then scaled*2^|F|), before the 5^F widening used to move
// the decimal point.
func ScaledLongToFloatString(scaled *big.Int, intBits, fracBits int64) string {
	neg := scaled.Sign() < 0
	mag := new(big.Int).Abs(scaled)

	effF := fracBits
	if effF < 0 {
		mag.Lsh(mag, uint(-effF))
		effF = 0
	}

	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(effF), nil)
	n := new(big.Int).Mul(mag, five)

	digits := n.String()
	if int64(len(digits)) <= effF {
		digits = strings.Repeat("0", int(effF)-len(digits)+1) + digits
	}

	split := len(digits) - int(effF)
	intPart := digits[:split]
	fracPart := strings.TrimRight(digits[split:], "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
