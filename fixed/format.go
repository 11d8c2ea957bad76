// Package fixed implements the dual-precision fixed-point engine:
// components C2 (Small), C3 (Large), and C4 (Real, the dispatcher) of the
// specification. A Real wraps exactly one of the two engines and chooses
// between them at construction and after every resize, so that growth-rule
// arithmetic never silently truncates (spec.md §3 V4, §4.4).
package fixed

// OverflowMode selects how Resize handles a rescaled value that falls
// outside the new format's representable range (spec.md §6).
type OverflowMode int

const (
	OverflowWrap  OverflowMode = 0
	OverflowSat   OverflowMode = 1
	OverflowExcep OverflowMode = 2
)

func (m OverflowMode) String() string {
	switch m {
	case OverflowWrap:
		return "wrap"
	case OverflowSat:
		return "sat"
	case OverflowExcep:
		return "excep"
	default:
		return "invalid"
	}
}

// RoundMode selects how Resize rounds away fractional bits (spec.md §6).
type RoundMode int

const (
	RoundNearPosInf   RoundMode = 1
	RoundDirectNegInf RoundMode = 2
	RoundNearZero     RoundMode = 3
	RoundDirectZero   RoundMode = 4
	RoundNearEven     RoundMode = 5
)

func (m RoundMode) String() string {
	switch m {
	case RoundNearPosInf:
		return "near_pos_inf"
	case RoundDirectNegInf:
		return "direct_neg_inf"
	case RoundNearZero:
		return "near_zero"
	case RoundDirectZero:
		return "direct_zero"
	case RoundNearEven:
		return "near_even"
	default:
		return "invalid"
	}
}

// DefaultOverflowMode and DefaultRoundMode are spec.md §6's resize defaults.
const (
	DefaultOverflowMode = OverflowWrap
	DefaultRoundMode    = RoundDirectNegInf
)

// Format is the (I, F) pair spec.md §3 describes: I integer bits (including
// any sign bit) and F fractional bits. Either may be negative; only their
// sum must be at least 1.
type Format struct {
	IntBits  int64
	FracBits int64
}

// Total is I + F, the width of the two's-complement field.
func (f Format) Total() int64 { return f.IntBits + f.FracBits }

// Validate enforces spec.md V1: I + F >= 1.
func (f Format) Validate() error {
	if f.Total() < 1 {
		return &ValueError{Msg: "fixed: int_bits + frac_bits must be >= 1"}
	}
	return nil
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
