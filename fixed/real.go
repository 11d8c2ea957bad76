package fixed

import (
	"math"
	"math/big"

	"github.com/rs/xid"

	"github.com/sarchlab/m2fixed/bitfield"
)

// Real is the dispatcher (component C4): it owns exactly one engine
// instance, Small or Large, and routes every operation to it, re-wrapping
// the result. Real values are immutable except through Resize.
type Real struct {
	small    *smallValue
	large    *largeValue
	debugTag string
}

// RealOption configures New, mirroring spec.md §6's constructor
// parameters. Options are applied in the order given, the same way the
// teacher's EmulatorOption functional options compose.
type RealOption func(*realConfig)

type realConfig struct {
	intBits    int64
	fracBits   int64
	signed     bool
	value      float64
	bitField   *big.Int
	formatFrom *Real
}

// WithIntBits sets the format's integer bit count (default 1).
func WithIntBits(n int64) RealOption { return func(c *realConfig) { c.intBits = n } }

// WithFracBits sets the format's fractional bit count (default 0).
func WithFracBits(n int64) RealOption { return func(c *realConfig) { c.fracBits = n } }

// WithSigned sets the signedness (default true).
func WithSigned(signed bool) RealOption { return func(c *realConfig) { c.signed = signed } }

// WithValue sets the initial value, quantized with overflow=sat,
// round=near_pos_inf (spec.md §4.3).
func WithValue(v float64) RealOption { return func(c *realConfig) { c.value = v } }

// WithBitField overrides WithValue: it is the raw two's-complement bit
// pattern, masked to int_bits+frac_bits bits.
func WithBitField(bf *big.Int) RealOption { return func(c *realConfig) { c.bitField = bf } }

// WithFormatFrom copies (I, F, signed) from another Real.
func WithFormatFrom(r *Real) RealOption { return func(c *realConfig) { c.formatFrom = r } }

// New constructs a Real per spec.md §6.
func New(opts ...RealOption) (*Real, error) {
	cfg := &realConfig{intBits: 1, fracBits: 0, signed: true, value: 0.0}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.formatFrom != nil {
		cfg.intBits = cfg.formatFrom.IntBits()
		cfg.fracBits = cfg.formatFrom.FracBits()
		cfg.signed = cfg.formatFrom.Signed()
	}

	format := Format{IntBits: cfg.intBits, FracBits: cfg.fracBits}
	if err := format.Validate(); err != nil {
		return nil, err
	}

	var scaled *big.Int
	if cfg.bitField != nil {
		scaled = maskAndSignExtendBig(cfg.bitField, format.Total(), cfg.signed)
	} else {
		if math.IsNaN(cfg.value) || math.IsInf(cfg.value, 0) {
			return nil, &TypeError{Msg: "fixed: construction value must be finite"}
		}
		scaledF := cfg.value * math.Ldexp(1, int(cfg.fracBits))
		raw := bigFromRoundedFloat(scaledF, RoundNearPosInf)
		var err error
		scaled, err = applyOverflow(raw, format.Total(), cfg.signed, OverflowSat)
		if err != nil {
			return nil, err
		}
	}

	r := wrap(cfg.intBits, cfg.fracBits, cfg.signed, scaled)
	r.debugTag = xid.New().String()
	return r, nil
}

// bigFromRoundedFloat rounds a float to the nearest integer and returns it
// as a big.Int: ties go toward +inf for RoundNearPosInf, and away from zero
// for every other mode. Only used at construction time, always with
// RoundNearPosInf (spec.md §4.3's "construction from a float uses ...
// round=near_pos_inf").
func bigFromRoundedFloat(x float64, rnd RoundMode) *big.Int {
	switch rnd {
	case RoundNearPosInf:
		return bigFromExactFloat(math.Floor(x + 0.5))
	default:
		return bigFromExactFloat(math.Round(x))
	}
}

func bigFromExactFloat(x float64) *big.Int {
	r, _ := big.NewFloat(x).Int(nil)
	return r
}

// maskAndSignExtendBig masks bf to `total` bits and, if signed, reinterprets
// it as a negative value when the sign bit is set — the bit-field
// construction path of spec.md §4.3 ("store the bit pattern verbatim,
// masked to the declared width, then sign-extended if signed").
func maskAndSignExtendBig(bf *big.Int, total int64, signed bool) *big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(total)), big.NewInt(1))
	scaled := new(big.Int).And(bf, mask)
	if signed {
		signBit := new(big.Int).Lsh(big.NewInt(1), uint(total-1))
		if scaled.Cmp(signBit) >= 0 {
			pow := new(big.Int).Lsh(big.NewInt(1), uint(total))
			scaled.Sub(scaled, pow)
		}
	}
	return scaled
}

// wrap builds a Real around the engine appropriate for the given format
// (Small if it fits the word ceiling, Large otherwise).
func wrap(intBits, fracBits int64, signed bool, scaled *big.Int) *Real {
	total := intBits + fracBits
	if bitfield.FitsWord(total) {
		var raw uint64
		if signed {
			raw = uint64(scaled.Int64())
		} else {
			raw = scaled.Uint64()
		}
		return &Real{small: newSmall(intBits, fracBits, signed, raw)}
	}
	return &Real{large: newLarge(intBits, fracBits, signed, scaled)}
}

// IntBits, FracBits, Signed report the Real's current format.
func (r *Real) IntBits() int64 {
	if r.small != nil {
		return r.small.intBits
	}
	return r.large.intBits
}

func (r *Real) FracBits() int64 {
	if r.small != nil {
		return r.small.fracBits
	}
	return r.large.fracBits
}

func (r *Real) Signed() bool {
	if r.small != nil {
		return r.small.signed
	}
	return r.large.signed
}

// IsSmall reports whether the dispatcher currently holds a Small engine
// instance (spec.md V5).
func (r *Real) IsSmall() bool { return r.small != nil }

// Format returns the current (I, F) pair.
func (r *Real) Format() Format { return Format{IntBits: r.IntBits(), FracBits: r.FracBits()} }

// ScaledBig returns the true signed integer value scaled/2^F=value, i.e.
// scaled itself, as a big.Int regardless of which engine backs r.
func (r *Real) ScaledBig() *big.Int {
	if r.small != nil {
		return r.small.toBig()
	}
	return new(big.Int).Set(r.large.scaled)
}

// Value returns the float64 approximation of the represented value.
func (r *Real) Value() float64 {
	scaled := r.ScaledBig()
	f := new(big.Float).SetInt(scaled)
	scale := new(big.Float).SetMantExp(big.NewFloat(1), int(-r.FracBits()))
	f.Mul(f, scale)
	v, _ := f.Float64()
	return v
}

// String renders the exact decimal value (spec.md §4.1).
func (r *Real) String() string {
	return bitfield.ScaledLongToFloatString(r.ScaledBig(), r.IntBits(), r.FracBits())
}

// DebugTag returns r's trace-correlation tag: a globally unique, sortable
// id assigned at construction (github.com/rs/xid), or a caller-supplied
// override from WithDebugTag.
func (r *Real) DebugTag() string { return r.debugTag }

// WithDebugTag overrides r's default xid-generated debug tag with a
// caller-chosen one and returns r for chaining (spec.md §5 permits
// "shared string interning ... not semantically observable"; a debug tag
// is the same class of non-semantic bookkeeping).
func (r *Real) WithDebugTag(tag string) *Real {
	r.debugTag = tag
	return r
}

// FromInt builds a signed Real sized by IntToFPParams from an integer operand,
// per spec.md §4.1's int_to_fp_params and §4.4 step 1.
func FromInt(n int64) *Real {
	p := bitfield.IntToFPParams(big.NewInt(n))
	r := wrap(p.IntBits, p.FracBits, true, p.Scaled)
	r.debugTag = xid.New().String()
	return r
}

// FromFloat builds a minimally-sized signed Real from a float operand,
// per spec.md §4.1's double_to_fp_params and §4.4 step 1.
func FromFloat(x float64) *Real {
	p := bitfield.DoubleToFPParams(x)
	r := wrap(p.IntBits, p.FracBits, true, p.Scaled)
	r.debugTag = xid.New().String()
	return r
}

// promoteToSigned implements spec.md §4.4 step 2: an unsigned operand is
// promoted to signed by adding one int bit, which always suffices since
// the unsigned magnitude fits in one extra signed bit.
func (r *Real) promoteToSigned() *Real {
	if r.Signed() {
		return r
	}
	return wrap(r.IntBits()+1, r.FracBits(), true, r.ScaledBig())
}

// promoteToLarge implements spec.md §4.4 step 3.
func (r *Real) promoteToLarge() *Real {
	if r.large != nil {
		return r
	}
	return &Real{large: newLarge(r.IntBits(), r.FracBits(), r.Signed(), r.ScaledBig())}
}

func bigToUint64(v *big.Int, signed bool) uint64 {
	if signed {
		return uint64(v.Int64())
	}
	return v.Uint64()
}

// Resize is the only quantization operator (spec.md §4.3): it mutates r's
// (I, F) and scaled in place.
func (r *Real) Resize(newFormat Format, ovf OverflowMode, rnd RoundMode) error {
	if err := newFormat.Validate(); err != nil {
		return err
	}
	scaled, err := rescaleAndCheck(r.ScaledBig(), r.FracBits(), newFormat.IntBits, newFormat.FracBits, r.Signed(), ovf, rnd)
	if err != nil {
		return err
	}

	signed := r.Signed()
	total := newFormat.Total()
	if bitfield.FitsWord(total) {
		r.small = newSmall(newFormat.IntBits, newFormat.FracBits, signed, bigToUint64(scaled, signed))
		r.large = nil
	} else {
		r.small = nil
		r.large = newLarge(newFormat.IntBits, newFormat.FracBits, signed, scaled)
	}
	return nil
}

// ResizeDefault resizes with spec.md §6's default modes (wrap,
// direct_neg_inf).
func (r *Real) ResizeDefault(newFormat Format) error {
	return r.Resize(newFormat, DefaultOverflowMode, DefaultRoundMode)
}
