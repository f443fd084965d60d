package num

import "math/big"

// fixedScale is 2^128: FixedU256 stores value*2^128 in a U256, giving a
// Q128.128 fixed-point number with 128 bits of integer range and 128 bits
// of fractional precision. This is the representation for the Sum Payment
// Ratio, slashed ratios, and weight fractions.
var fixedScale = new(big.Int).Lsh(big.NewInt(1), 128)

// FixedU256 is a non-negative Q128.128 fixed-point value.
type FixedU256 struct {
	raw U256
}

func ZeroFixedU256() FixedU256 { return FixedU256{} }

// OneFixedU256 is the fixed-point representation of 1.
func OneFixedU256() FixedU256 {
	return FixedU256{raw: NewU256FromBigInt(fixedScale)}
}

// NewU256FromBigInt is a package-internal convenience used only where the
// caller already knows the value fits (fixedScale, fixed-point constants).
func NewU256FromBigInt(v *big.Int) U256 {
	u, ok := CheckedU256FromBigInt(v)
	if !ok {
		panic("num: value does not fit in a U256: " + v.String())
	}
	return u
}

// FixedFromU128 lifts an integral Uint128 into fixed-point (multiplies by
// 2^128 internally); it is exact and cannot overflow since a Uint128 shifted
// left by 128 bits still fits in 256 bits.
func FixedFromU128(v Uint128) FixedU256 {
	wide := new(big.Int).Lsh(v.BigInt(), 128)
	return FixedU256{raw: NewU256FromBigInt(wide)}
}

// FixedFromRaw wraps an already-scaled U256 (value*2^128) directly.
func FixedFromRaw(raw U256) FixedU256 { return FixedU256{raw: raw} }

func (f FixedU256) Raw() U256 { return f.raw }

func (f FixedU256) IsZero() bool { return f.raw.IsZero() }

func (f FixedU256) Cmp(g FixedU256) int { return f.raw.Cmp(g.raw) }

func (f FixedU256) String() string {
	return new(big.Rat).SetFrac(f.raw.BigInt(), fixedScale).FloatString(18)
}

func (f FixedU256) CheckedAdd(g FixedU256) (FixedU256, bool) {
	r, ok := f.raw.CheckedAdd(g.raw)
	return FixedU256{raw: r}, ok
}

func (f FixedU256) Add(g FixedU256) FixedU256 {
	r, ok := f.CheckedAdd(g)
	if !ok {
		panic("num: overflow adding fixed-point values")
	}
	return r
}

func (f FixedU256) CheckedSub(g FixedU256) (FixedU256, bool) {
	r, ok := f.raw.CheckedSub(g.raw)
	return FixedU256{raw: r}, ok
}

func (f FixedU256) Sub(g FixedU256) FixedU256 {
	r, ok := f.CheckedSub(g)
	if !ok {
		panic("num: underflow subtracting fixed-point values")
	}
	return r
}

// CheckedMul multiplies two Q128.128 values, rescaling the 256.256
// intermediate back down by 2^128. Fails if the rescaled result overflows
// 256 bits (extremely large products only).
func (f FixedU256) CheckedMul(g FixedU256) (FixedU256, bool) {
	wide := new(big.Int).Mul(f.raw.BigInt(), g.raw.BigInt())
	wide.Rsh(wide, 128)
	r, ok := CheckedU256FromBigInt(wide)
	return FixedU256{raw: r}, ok
}

func (f FixedU256) Mul(g FixedU256) FixedU256 {
	r, ok := f.CheckedMul(g)
	if !ok {
		panic("num: overflow multiplying fixed-point values")
	}
	return r
}

// CheckedDiv computes f/g by rescaling f up by 2^128 before dividing so the
// quotient stays in Q128.128.
func (f FixedU256) CheckedDiv(g FixedU256) (FixedU256, bool) {
	if g.raw.IsZero() {
		return FixedU256{}, false
	}
	wide := new(big.Int).Lsh(f.raw.BigInt(), 128)
	wide.Quo(wide, g.raw.BigInt())
	r, ok := CheckedU256FromBigInt(wide)
	return FixedU256{raw: r}, ok
}

func (f FixedU256) Div(g FixedU256) FixedU256 {
	r, ok := f.CheckedDiv(g)
	if !ok {
		panic("num: division by zero or overflow in fixed-point division")
	}
	return r
}

// MulU128 multiplies a fixed-point value by an integral Uint128 and floors
// the result back down to a Uint128 — the core of "apply this rate to this
// amount" (e.g. a Rate applied to a DepositAmount).
func (f FixedU256) MulU128(v Uint128) (Uint128, bool) {
	wide := new(big.Int).Mul(f.raw.BigInt(), v.BigInt())
	wide.Rsh(wide, 128)
	return CheckedUint128FromBigInt(wide)
}

// Floor truncates the fractional part, returning the integral part as a
// Uint128. Fails only if the integral part itself does not fit (f >= 2^128).
func (f FixedU256) Floor() (Uint128, bool) {
	whole := new(big.Int).Rsh(f.raw.BigInt(), 128)
	return CheckedUint128FromBigInt(whole)
}
