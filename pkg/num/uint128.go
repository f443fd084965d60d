// Package num provides the fixed-point and rate primitives that every
// economic computation in this module routes through: Uint128 for raw
// balances, U256 for overflow-safe intermediates, FixedU256 for Q128.128
// fractional accumulators (the Sum Payment Ratio, slashed ratios, weights),
// and Rate plus the basis-point newtypes (MaxLtv, AdvanceFee, ...) for
// bounded percentages.
//
// None of these are hardware-native types in Go, so they are built on
// math/big the same way Filecoin's abi/big wraps a big integer: a value
// type carrying an invariant (non-negative, bounded width) that every
// constructor and checked operation re-verifies.
package num

import "math/big"

var (
	uint128Bound = new(big.Int).Lsh(big.NewInt(1), 128) // 2^128
	uint256Bound = new(big.Int).Lsh(big.NewInt(1), 256) // 2^256
)

// Uint128 is an unsigned 128-bit integer: the representation for every raw
// economic quantity (DepositAmount, SharesAmount, Collateral, Debt, ...).
type Uint128 struct {
	i big.Int
}

// ZeroUint128 is the additive identity.
func ZeroUint128() Uint128 { return Uint128{} }

// NewUint128FromUint64 builds a Uint128 from a native integer.
func NewUint128FromUint64(v uint64) Uint128 {
	var u Uint128
	u.i.SetUint64(v)
	return u
}

// NewUint128FromBigInt copies v, panicking if it does not fit in [0, 2^128).
func NewUint128FromBigInt(v *big.Int) Uint128 {
	u, ok := CheckedUint128FromBigInt(v)
	if !ok {
		panic("num: value does not fit in a Uint128: " + v.String())
	}
	return u
}

// CheckedUint128FromBigInt copies v if it fits in [0, 2^128).
func CheckedUint128FromBigInt(v *big.Int) (Uint128, bool) {
	if v.Sign() < 0 || v.Cmp(uint128Bound) >= 0 {
		return Uint128{}, false
	}
	var u Uint128
	u.i.Set(v)
	return u, true
}

// BigInt returns a defensive copy of the underlying value.
func (u Uint128) BigInt() *big.Int {
	return new(big.Int).Set(&u.i)
}

func (u Uint128) IsZero() bool { return u.i.Sign() == 0 }

func (u Uint128) Cmp(v Uint128) int { return u.i.Cmp(&v.i) }

func (u Uint128) String() string { return u.i.String() }

// CheckedAdd returns u+v and whether the result still fits in a Uint128.
func (u Uint128) CheckedAdd(v Uint128) (Uint128, bool) {
	r := new(big.Int).Add(&u.i, &v.i)
	return CheckedUint128FromBigInt(r)
}

// Add panics on overflow; use only at call sites where the surrounding
// invariant guarantees the result always fits ("always/never overflows").
func (u Uint128) Add(v Uint128) Uint128 {
	r, ok := u.CheckedAdd(v)
	if !ok {
		panic("num: overflow adding " + v.String() + " to " + u.String())
	}
	return r
}

// CheckedSub returns u-v and whether the result is non-negative.
func (u Uint128) CheckedSub(v Uint128) (Uint128, bool) {
	r := new(big.Int).Sub(&u.i, &v.i)
	return CheckedUint128FromBigInt(r)
}

func (u Uint128) Sub(v Uint128) Uint128 {
	r, ok := u.CheckedSub(v)
	if !ok {
		panic("num: underflow subtracting " + v.String() + " from " + u.String())
	}
	return r
}

// SaturatingSub returns u-v, floored at zero.
func (u Uint128) SaturatingSub(v Uint128) Uint128 {
	r, ok := u.CheckedSub(v)
	if !ok {
		return ZeroUint128()
	}
	return r
}

// AbsDiff returns |u-v|.
func (u Uint128) AbsDiff(v Uint128) Uint128 {
	if u.Cmp(v) >= 0 {
		return u.Sub(v)
	}
	return v.Sub(u)
}

func (u Uint128) CheckedMul(v Uint128) (Uint128, bool) {
	r := new(big.Int).Mul(&u.i, &v.i)
	return CheckedUint128FromBigInt(r)
}

func (u Uint128) Mul(v Uint128) Uint128 {
	r, ok := u.CheckedMul(v)
	if !ok {
		panic("num: overflow multiplying " + u.String() + " by " + v.String())
	}
	return r
}

// CheckedDiv performs floored division; fails (false) only when v is zero.
func (u Uint128) CheckedDiv(v Uint128) (Uint128, bool) {
	if v.IsZero() {
		return Uint128{}, false
	}
	r := new(big.Int).Quo(&u.i, &v.i)
	return CheckedUint128FromBigInt(r)
}

func (u Uint128) Div(v Uint128) Uint128 {
	r, ok := u.CheckedDiv(v)
	if !ok {
		panic("num: division by zero")
	}
	return r
}

func (u Uint128) Max(v Uint128) Uint128 {
	if u.Cmp(v) >= 0 {
		return u
	}
	return v
}

func (u Uint128) Min(v Uint128) Uint128 {
	if u.Cmp(v) <= 0 {
		return u
	}
	return v
}

// MulDiv computes floor(u*v/denom) using a 256-bit intermediate so that the
// multiplication itself never overflows a 128-bit domain value; this is the
// operation that underlies RedemptionRate's shares<->deposits conversions.
// It fails only if the final result does not fit back into a Uint128
// (denom == 0 always fails, matching the Rust `checked_mul_div`).
func (u Uint128) MulDiv(v Uint128, denom Uint128) (Uint128, bool) {
	if denom.IsZero() {
		return Uint128{}, false
	}
	wide := new(big.Int).Mul(&u.i, &v.i)
	wide.Quo(wide, &denom.i)
	return CheckedUint128FromBigInt(wide)
}

// Pow10Uint128 returns 10^exp, failing if it does not fit in 128 bits. Used
// to build the decimal-scaling factor between an underlying asset's
// decimals and the fixed 18-decimal shares representation.
func Pow10Uint128(exp uint) (Uint128, bool) {
	r := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(exp)), nil)
	return CheckedUint128FromBigInt(r)
}
