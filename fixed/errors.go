package fixed

import "fmt"

// TypeError mirrors spec.md's TypeError taxonomy entry: a constructor
// argument type mismatch, an unsupported operand, or a non-sequence passed
// to an array helper.
type TypeError struct{ Msg string }

func (e *TypeError) Error() string { return e.Msg }

// ValueError mirrors spec.md's ValueError entry: int_bits+frac_bits < 1, or
// an arity violation.
type ValueError struct{ Msg string }

func (e *ValueError) Error() string { return e.Msg }

// OverflowError is the defensive error raised when a growth-rule result
// would exceed the Small engine's word ceiling without having been
// promoted to Large first. Reaching this indicates a dispatcher bug
// (spec.md §7), not a user error.
type OverflowError struct{ Msg string }

func (e *OverflowError) Error() string { return e.Msg }

// OverflowException is raised by Resize when overflow_mode is Excep and
// the rescaled value does not fit the requested format.
type OverflowException struct{ Msg string }

func (e *OverflowException) Error() string { return e.Msg }

// KeyError mirrors spec.md's pickle-dict taxonomy entry: a missing
// required key, or an unrecognized engine tag (bid).
type KeyError struct{ Msg string }

func (e *KeyError) Error() string { return e.Msg }

func newOverflowErrorf(format string, args ...any) *OverflowError {
	return &OverflowError{Msg: fmt.Sprintf("fixed: "+format, args...)}
}

func newOverflowExceptionf(format string, args ...any) *OverflowException {
	return &OverflowException{Msg: fmt.Sprintf("fixed: "+format, args...)}
}
