package fixed

import (
	"fmt"
	"math/big"
)

// Dict tag values for the Small/Large record discriminator (spec.md §6).
const (
	DictBidSmall = 1
	DictBidLarge = 2
)

// ToDict renders r as the pickle-equivalent dictionary of spec.md §6.
func (r *Real) ToDict() map[string]any {
	if r.small != nil {
		return map[string]any{
			"bid": DictBidSmall,
			"ib":  r.IntBits(),
			"fb":  r.FracBits(),
			"sv":  r.small.scaled,
			"sgn": r.Signed(),
		}
	}
	return map[string]any{
		"bid": DictBidLarge,
		"ib":  r.IntBits(),
		"fb":  r.FracBits(),
		"sv":  new(big.Int).Set(r.large.scaled),
		"sgn": r.Signed(),
	}
}

// FromDict reconstructs a Real from a pickle-equivalent dictionary. A
// Small record (bid=1) whose declared width exceeds the local word width
// is rebuilt via the Large engine from its raw bit field, per spec.md §6.
func FromDict(d map[string]any) (*Real, error) {
	bidRaw, ok := d["bid"]
	if !ok {
		return nil, &KeyError{Msg: "fixed: pickle dict missing 'bid'"}
	}
	ibRaw, ok1 := d["ib"]
	fbRaw, ok2 := d["fb"]
	svRaw, ok3 := d["sv"]
	sgnRaw, ok4 := d["sgn"]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, &KeyError{Msg: "fixed: pickle dict missing 'ib', 'fb', 'sv', or 'sgn'"}
	}

	bid, err := asInt64(bidRaw)
	if err != nil {
		return nil, err
	}
	intBits, err := asInt64(ibRaw)
	if err != nil {
		return nil, err
	}
	fracBits, err := asInt64(fbRaw)
	if err != nil {
		return nil, err
	}
	signed, ok := sgnRaw.(bool)
	if !ok {
		return nil, &TypeError{Msg: "fixed: pickle dict 'sgn' must be bool"}
	}

	switch bid {
	case DictBidSmall:
		total := intBits + fracBits
		if fitsLocalWord(total) {
			u, err := asUint64(svRaw)
			if err != nil {
				return nil, err
			}
			var scaled *big.Int
			if signed {
				scaled = big.NewInt(int64(u))
			} else {
				scaled = new(big.Int).SetUint64(u)
			}
			return wrap(intBits, fracBits, signed, scaled), nil
		}
		// A field wider than the local word cannot round-trip through a
		// uint64: the payload must already carry the full-width bit
		// pattern as a *big.Int (spec.md §8 S6).
		bf, ok := svRaw.(*big.Int)
		if !ok {
			return nil, &TypeError{Msg: "fixed: pickle dict 'sv' must be *big.Int when int_bits+frac_bits exceeds the local word width"}
		}
		scaled := maskAndSignExtendBig(bf, total, signed)
		return &Real{large: newLarge(intBits, fracBits, signed, scaled)}, nil
	case DictBidLarge:
		big0, ok := svRaw.(*big.Int)
		if !ok {
			return nil, &TypeError{Msg: "fixed: pickle dict 'sv' must be *big.Int for a Large record"}
		}
		return wrap(intBits, fracBits, signed, new(big.Int).Set(big0)), nil
	default:
		return nil, &KeyError{Msg: fmt.Sprintf("fixed: unrecognized pickle 'bid' %d", bid)}
	}
}

func fitsLocalWord(total int64) bool { return total >= 1 && total <= 64 }

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case *big.Int:
		return n.Int64(), nil
	default:
		return 0, &TypeError{Msg: "fixed: pickle dict field must be an integer"}
	}
}

func asUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	case *big.Int:
		return n.Uint64(), nil
	default:
		return 0, &TypeError{Msg: "fixed: pickle dict 'sv' must be an integer for a Small record"}
	}
}
