// Package mathx holds small generic numeric helpers.
package mathx

import "golang.org/x/exp/constraints"

// Wrap returns i reduced into [0, n). Negative i wraps from the top, so
// Wrap(-1, 4) == 3. n must be positive; Wrap returns 0 otherwise.
func Wrap[T constraints.Signed](i, n T) T {
	if n <= 0 {
		return 0
	}
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
