package ledger

import (
	"math"

	"github.com/solstice-labs/ledger/errors"
)

// Native balances are summed in several places. Unchecked fixed-width
// arithmetic is a bug class this package eliminates by construction: all
// balance math must go through these helpers.

// CheckedAdd returns a+b, or ErrOverflow if the sum does not fit in uint64.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// CheckedSub returns a-b, or ErrInsufficientFunds if b exceeds a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientFunds, "%d - %d", a, b)
	}
	return a - b, nil
}

// CheckedMul returns a*b, or ErrOverflow if the product does not fit in
// uint64.
func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return a * b, nil
}
