package value

import (
	"fmt"
	"math"
	"strconv"
)

// Int is a 64-bit signed integer value.
type Int int64

// Kind implements Value.
func (Int) Kind() Kind { return KindInt }

// Equals implements Value. Per spec section 4.A, numeric equality treats 1
// and 1.0 as equal, so an Int compares equal to a Float of the same
// magnitude as well as to another Int.
func (i Int) Equals(other Value) bool {
	switch o := other.(type) {
	case Int:
		return i == o
	case Float:
		return float64(i) == float64(o)
	default:
		return false
	}
}

// Hash implements Value. Hash is defined so that Int(1) and Float(1.0) hash
// identically, matching their Equals relationship.
func (i Int) Hash() uint64 { return hashNumeric(float64(i)) }

// String implements Value.
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func hashNumeric(f float64) uint64 {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return hashCombine(0x1, uint64(int64(f)))
	}

	return hashCombine(0x1, math.Float64bits(f))
}

// AddInt adds two Ints, raising IntegerOverflow per spec section 4.D when
// the mathematical result does not fit in 64 bits.
func AddInt(a, b Int) (Int, error) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, fmt.Errorf("%w: %d + %d", ErrIntegerOverflow, a, b)
	}

	return r, nil
}

// SubInt subtracts two Ints, raising IntegerOverflow on overflow.
func SubInt(a, b Int) (Int, error) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, fmt.Errorf("%w: %d - %d", ErrIntegerOverflow, a, b)
	}

	return r, nil
}

// MulInt multiplies two Ints, raising IntegerOverflow on overflow.
func MulInt(a, b Int) (Int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}

	r := a * b
	if r/b != a {
		return 0, fmt.Errorf("%w: %d * %d", ErrIntegerOverflow, a, b)
	}

	return r, nil
}

// PowInt raises base to a non-negative exponent, raising IntegerOverflow on
// overflow. Per spec section 4.D, a negative exponent must be handled by the
// caller (it yields a Float, not an error).
func PowInt(base Int, exp int64) (Int, error) {
	if exp < 0 {
		panic("PowInt: negative exponent must be handled by caller")
	}

	result := Int(1)

	for i := int64(0); i < exp; i++ {
		var err error

		result, err = MulInt(result, base)
		if err != nil {
			return 0, err
		}
	}

	return result, nil
}

// ErrIntegerOverflow is wrapped by the arithmetic helpers above; see
// internal/diag for the full diag.Kind taxonomy.
var ErrIntegerOverflow = fmt.Errorf("integer overflow")
