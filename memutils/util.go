package memutils

import (
	"math"
	"math/bits"

	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

func AlignDown(value int, alignment uint) int {
	return value & int(^(alignment - 1))
}

// MulChecked multiplies two non-negative sizes and reports whether the
// product stayed within the int range.
func MulChecked(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}

	return int(lo), true
}

// AddChecked adds two non-negative sizes and reports whether the sum stayed
// within the int range.
func AddChecked(a, b int) (int, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}

	return sum, true
}

// AlignUpChecked behaves like AlignUp but reports whether rounding up stayed
// within the int range. alignment must be a power of two.
func AlignUpChecked(value int, alignment uint) (int, bool) {
	bumped, ok := AddChecked(value, int(alignment)-1)
	if !ok {
		return 0, false
	}

	return bumped & int(^(alignment - 1)), true
}
