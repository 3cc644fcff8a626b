package whirlpool

import "errors"

// ErrInvalidArgument is returned when a buffer is too small for the requested operation,
// or when more bits are requested than the input holds.
var ErrInvalidArgument = errors.New("whirlpool: invalid argument")

// ErrInputTooLarge is returned when the total input would exceed 2^64 - 1 bits.
var ErrInputTooLarge = errors.New("whirlpool: input too large")
