// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
)

// Integer is the set of integer types the conversions accept, named types included.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

func magnitude[T Integer](v T) (negative bool, abs uint64) {
	if v < 0 {
		return true, 0
	}
	return false, uint64(v)
}

// Uint32 converts v to uint32 with range validation.
func Uint32[T Integer](v T) (uint32, error) {
	negative, abs := magnitude(v)
	if negative || abs > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(abs), nil
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	negative, abs := magnitude(v)
	if negative {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return abs, nil
}

// Int64 converts v to int64, rejecting unsigned values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	negative, abs := magnitude(v)
	if negative {
		return int64(v), nil
	}
	if abs > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(abs), nil
}
