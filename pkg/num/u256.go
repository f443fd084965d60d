package num

import "math/big"

// U256 is an unsigned 256-bit integer. It exists solely to host the raw
// mantissa of a FixedU256 (a Q128.128 fixed-point number needs up to 256
// bits of integer storage) and as the overflow-safe intermediate for
// products of two such mantissas.
type U256 struct {
	i big.Int
}

func ZeroU256() U256 { return U256{} }

func NewU256FromUint64(v uint64) U256 {
	var u U256
	u.i.SetUint64(v)
	return u
}

func NewU256FromUint128(v Uint128) U256 {
	var u U256
	u.i.Set(&v.i)
	return u
}

func CheckedU256FromBigInt(v *big.Int) (U256, bool) {
	if v.Sign() < 0 || v.Cmp(uint256Bound) >= 0 {
		return U256{}, false
	}
	var u U256
	u.i.Set(v)
	return u, true
}

func (u U256) BigInt() *big.Int { return new(big.Int).Set(&u.i) }

func (u U256) IsZero() bool { return u.i.Sign() == 0 }

func (u U256) Cmp(v U256) int { return u.i.Cmp(&v.i) }

func (u U256) String() string { return u.i.String() }

func (u U256) CheckedAdd(v U256) (U256, bool) {
	r := new(big.Int).Add(&u.i, &v.i)
	return CheckedU256FromBigInt(r)
}

func (u U256) Add(v U256) U256 {
	r, ok := u.CheckedAdd(v)
	if !ok {
		panic("num: overflow adding " + v.String() + " to " + u.String())
	}
	return r
}

func (u U256) CheckedSub(v U256) (U256, bool) {
	r := new(big.Int).Sub(&u.i, &v.i)
	return CheckedU256FromBigInt(r)
}

func (u U256) Sub(v U256) U256 {
	r, ok := u.CheckedSub(v)
	if !ok {
		panic("num: underflow subtracting " + v.String() + " from " + u.String())
	}
	return r
}

func (u U256) CheckedMul(v U256) (U256, bool) {
	r := new(big.Int).Mul(&u.i, &v.i)
	return CheckedU256FromBigInt(r)
}

func (u U256) Mul(v U256) U256 {
	r, ok := u.CheckedMul(v)
	if !ok {
		panic("num: overflow multiplying " + u.String() + " by " + v.String())
	}
	return r
}

func (u U256) CheckedDiv(v U256) (U256, bool) {
	if v.IsZero() {
		return U256{}, false
	}
	r := new(big.Int).Quo(&u.i, &v.i)
	return CheckedU256FromBigInt(r)
}

func (u U256) Rsh(bits uint) U256 {
	var r U256
	r.i.Rsh(&u.i, bits)
	return r
}

func (u U256) Lsh(bits uint) U256 {
	r := new(big.Int).Lsh(&u.i, bits)
	v, ok := CheckedU256FromBigInt(r)
	if !ok {
		panic("num: overflow shifting " + u.String() + " left by shift")
	}
	return v
}

func (u U256) Max(v U256) U256 {
	if u.Cmp(v) >= 0 {
		return u
	}
	return v
}

// TryIntoUint128 narrows u back down to 128 bits, failing if it does not fit.
func (u U256) TryIntoUint128() (Uint128, bool) {
	return CheckedUint128FromBigInt(&u.i)
}
