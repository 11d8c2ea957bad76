// Package switchable implements the mode-switchable numeric wrapper
// (component C5): a value that routes arithmetic to either the fixed-
// point engine or a floating-point shadow depending on a construction-
// time flag, tracking the excursions of the double path the same way a
// timing simulation tracks latency statistics alongside a functional
// model.
package switchable

import (
	"fmt"
	"math"

	"github.com/sarchlab/m2fixed/fixed"
)

// Switchable wraps either a *fixed.Real or a native float64, routing
// every operation to whichever side is active (spec.md §4.8).
type Switchable struct {
	fpMode   bool
	fpValue  *fixed.Real
	dblValue float64
	dblMin   float64
	dblMax   float64
}

// NewFixed builds a Switchable permanently pinned to fp_mode, backed by v.
func NewFixed(v *fixed.Real) (*Switchable, error) {
	if v == nil {
		return nil, &fixed.TypeError{Msg: "switchable: fp_value must not be nil in fp_mode"}
	}
	return &Switchable{fpMode: true, fpValue: v}, nil
}

// NewDouble builds a Switchable in double mode with an initial value.
func NewDouble(v float64) *Switchable {
	return &Switchable{fpMode: false, dblValue: v, dblMin: v, dblMax: v}
}

// FPMode reports whether s routes through the fixed-point engine.
func (s *Switchable) FPMode() bool { return s.fpMode }

// FPValue returns the backing Real, or nil in double mode.
func (s *Switchable) FPValue() *fixed.Real { return s.fpValue }

// DoubleValue, DoubleMin, DoubleMax report the double-path tracking
// state (meaningful only in double mode, per spec.md §4.8).
func (s *Switchable) DoubleValue() float64 { return s.dblValue }
func (s *Switchable) DoubleMin() float64   { return s.dblMin }
func (s *Switchable) DoubleMax() float64   { return s.dblMax }

// SetValue mutates the active representation. In fp_mode it requires a
// *fixed.Real or another fp_mode Switchable; in double mode it accepts
// anything convertible to a double and folds it into dbl_min/dbl_max.
func (s *Switchable) SetValue(v any) error {
	if s.fpMode {
		switch x := v.(type) {
		case *fixed.Real:
			s.fpValue = x
		case *Switchable:
			if !x.fpMode {
				return &fixed.TypeError{Msg: "switchable: fp_mode value setter requires a fixed value"}
			}
			s.fpValue = x.fpValue
		default:
			return &fixed.TypeError{Msg: "switchable: fp_mode value setter requires a Real or fp_mode Switchable"}
		}
		return nil
	}

	d, err := toDouble(v)
	if err != nil {
		return err
	}
	s.dblValue = d
	if d < s.dblMin {
		s.dblMin = d
	}
	if d > s.dblMax {
		s.dblMax = d
	}
	return nil
}

func toDouble(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case *fixed.Real:
		return x.Value(), nil
	case *Switchable:
		return x.asDouble(), nil
	default:
		return 0, &fixed.TypeError{Msg: "switchable: value not convertible to double"}
	}
}

func (s *Switchable) asDouble() float64 {
	if s.fpMode {
		return s.fpValue.Value()
	}
	return s.dblValue
}

// asFixed extracts the fixed-point view of s: its own fp_value in
// fp_mode, else a freshly minted Real from its current double.
func (s *Switchable) asFixed() *fixed.Real {
	if s.fpMode {
		return s.fpValue
	}
	return fixed.FromFloat(s.dblValue)
}

func eitherFPMode(a, b *Switchable) bool { return a.fpMode || b.fpMode }

func wrapFixedResult(r *fixed.Real) *Switchable {
	return &Switchable{fpMode: true, fpValue: r}
}

func wrapDoubleResult(v float64) *Switchable {
	return &Switchable{fpMode: false, dblValue: v, dblMin: v, dblMax: v}
}

// Add routes to the fixed-point engine if either operand is in
// fp_mode, else performs a native double add (spec.md §4.8).
func Add(a, b *Switchable) (*Switchable, error) {
	if eitherFPMode(a, b) {
		r, err := fixed.Add(a.asFixed(), b.asFixed())
		if err != nil {
			return nil, err
		}
		return wrapFixedResult(r), nil
	}
	return wrapDoubleResult(a.dblValue + b.dblValue), nil
}

// Sub mirrors Add for subtraction.
func Sub(a, b *Switchable) (*Switchable, error) {
	if eitherFPMode(a, b) {
		r, err := fixed.Sub(a.asFixed(), b.asFixed())
		if err != nil {
			return nil, err
		}
		return wrapFixedResult(r), nil
	}
	return wrapDoubleResult(a.dblValue - b.dblValue), nil
}

// Mul mirrors Add for multiplication.
func Mul(a, b *Switchable) (*Switchable, error) {
	if eitherFPMode(a, b) {
		r, err := fixed.Mul(a.asFixed(), b.asFixed())
		if err != nil {
			return nil, err
		}
		return wrapFixedResult(r), nil
	}
	return wrapDoubleResult(a.dblValue * b.dblValue), nil
}

// Div mirrors Add for division.
func Div(a, b *Switchable) (*Switchable, error) {
	if eitherFPMode(a, b) {
		r, err := fixed.Div(a.asFixed(), b.asFixed())
		if err != nil {
			return nil, err
		}
		return wrapFixedResult(r), nil
	}
	return wrapDoubleResult(a.dblValue / b.dblValue), nil
}

// ShiftLeft shifts s by n bits: delegates to the Real shift in fp_mode,
// or multiplies the double by 2^n otherwise (spec.md §4.8).
func (s *Switchable) ShiftLeft(n int64) *Switchable {
	if s.fpMode {
		return wrapFixedResult(s.fpValue.ShiftLeft(n))
	}
	return wrapDoubleResult(s.dblValue * math.Pow(2, float64(n)))
}

// ShiftRight mirrors ShiftLeft for the opposite direction.
func (s *Switchable) ShiftRight(n int64) *Switchable {
	if s.fpMode {
		return wrapFixedResult(s.fpValue.ShiftRight(n))
	}
	return wrapDoubleResult(s.dblValue / math.Pow(2, float64(n)))
}

// Resize is a no-op in double mode; in fp_mode it delegates to the
// backing Real's resize (spec.md §4.8).
func (s *Switchable) Resize(newFormat fixed.Format, ovf fixed.OverflowMode, rnd fixed.RoundMode) error {
	if !s.fpMode {
		return nil
	}
	return s.fpValue.Resize(newFormat, ovf, rnd)
}

// String renders the active representation.
func (s *Switchable) String() string {
	if s.fpMode {
		return s.fpValue.String()
	}
	return fmt.Sprintf("%v", s.dblValue)
}

// ToDict renders s as the pickle-equivalent dictionary of spec.md §6:
// {fpm, dv, dmax, dmin, fpv?}.
func (s *Switchable) ToDict() map[string]any {
	d := map[string]any{
		"fpm":  s.fpMode,
		"dv":   s.dblValue,
		"dmax": s.dblMax,
		"dmin": s.dblMin,
	}
	if s.fpMode {
		d["fpv"] = s.fpValue.ToDict()
	}
	return d
}

// FromDict reconstructs a Switchable from a pickle-equivalent dictionary.
func FromDict(d map[string]any) (*Switchable, error) {
	fpmRaw, ok := d["fpm"]
	if !ok {
		return nil, &fixed.KeyError{Msg: "switchable: pickle dict missing 'fpm'"}
	}
	fpm, ok := fpmRaw.(bool)
	if !ok {
		return nil, &fixed.TypeError{Msg: "switchable: pickle dict 'fpm' must be bool"}
	}

	s := &Switchable{fpMode: fpm}
	if dv, ok := d["dv"].(float64); ok {
		s.dblValue = dv
	}
	if dmax, ok := d["dmax"].(float64); ok {
		s.dblMax = dmax
	}
	if dmin, ok := d["dmin"].(float64); ok {
		s.dblMin = dmin
	}

	if fpm {
		fpvRaw, ok := d["fpv"]
		if !ok {
			return nil, &fixed.KeyError{Msg: "switchable: pickle dict missing 'fpv' for fp_mode"}
		}
		fpvDict, ok := fpvRaw.(map[string]any)
		if !ok {
			return nil, &fixed.TypeError{Msg: "switchable: pickle dict 'fpv' must be a nested dict"}
		}
		r, err := fixed.FromDict(fpvDict)
		if err != nil {
			return nil, err
		}
		s.fpValue = r
	}
	return s, nil
}
