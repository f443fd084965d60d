package num

// Rate is a FixedU256 constrained to [0, 1]: slashed ratios, fee and
// allocation percentages, and any other "fraction of a whole" value
// that must never exceed unity. Construction is the only place the
// invariant is checked; every subsequent operation stays within [0, 1]
// because callers only combine Rates in ways that preserve the bound
// (RateFromRatio is the only checked constructor, mirroring the Rust
// reference's `Decimal::checked_div` + bounds assertion at the call site;
// ZeroRate and OneRate return the two fixed end points).
type Rate struct {
	v FixedU256
}

func ZeroRate() Rate { return Rate{} }

func OneRate() Rate { return Rate{v: OneFixedU256()} }

// RateFromRatio builds num/denom as a Rate, failing if denom is zero or the
// ratio exceeds 1.
func RateFromRatio(numerator, denom Uint128) (Rate, bool) {
	n := FixedFromU128(numerator)
	d := FixedFromU128(denom)
	q, ok := n.CheckedDiv(d)
	if !ok || q.Cmp(OneFixedU256()) > 0 {
		return Rate{}, false
	}
	return Rate{v: q}, true
}

func (r Rate) Fixed() FixedU256 { return r.v }

func (r Rate) IsZero() bool { return r.v.IsZero() }

func (r Rate) Cmp(s Rate) int { return r.v.Cmp(s.v) }

func (r Rate) String() string { return r.v.String() }

// ApplyU128 scales x by this rate, flooring. Never fails: r <= 1 and x fits
// in 128 bits, so r*x fits in 256 bits and the floored result fits back in
// 128 bits.
func (r Rate) ApplyU128(x Uint128) Uint128 {
	out, ok := r.v.MulU128(x)
	if !ok {
		panic("num: rate application overflowed despite r<=1 invariant")
	}
	return out
}
