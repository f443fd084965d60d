package num

// bpsBase is the denominator every basis-point rate is expressed over.
const bpsBase = uint32(10000)

// bpsRate is the shared representation behind every bounded-percentage
// newtype below: an integral basis-point count, validated against a
// type-specific maximum at construction. Concrete types embed it rather
// than share a generic BpsRate[T], matching the pre-generics newtype
// style (ChainEpoch, TokenAmount, SectorNumber: distinct named types
// wrapping a common primitive, not generic parameters) — see DESIGN.md.
type bpsRate struct {
	bps uint32
}

func newBpsRate(bps, max uint32) (bpsRate, bool) {
	if bps > max {
		return bpsRate{}, false
	}
	return bpsRate{bps: bps}, true
}

// Bps returns the raw basis-point count.
func (b bpsRate) Bps() uint32 { return b.bps }

// Rate converts the basis-point count to a Rate in [0, 1].
func (b bpsRate) Rate() Rate {
	r, ok := RateFromRatio(NewUint128FromUint64(uint64(b.bps)), NewUint128FromUint64(uint64(bpsBase)))
	if !ok {
		panic("num: basis-point value exceeds its own representable range")
	}
	return r
}

// MaxLtv bounds the loan-to-value ratio a CDP may be opened or left at.
type MaxLtv struct{ bpsRate }

const (
	MaxLtvMaxBps     = uint32(10000)
	MaxLtvDefaultBps = uint32(5000)
)

func NewMaxLtv(bps uint32) (MaxLtv, bool) {
	b, ok := newBpsRate(bps, MaxLtvMaxBps)
	return MaxLtv{b}, ok
}

func DefaultMaxLtv() MaxLtv { return MaxLtv{bpsRate{MaxLtvDefaultBps}} }

// CollateralYieldFee is the cut of collateral-side yield routed to the
// treasury on every UpdateVault.
type CollateralYieldFee struct{ bpsRate }

const (
	CollateralYieldFeeMaxBps     = uint32(10000)
	CollateralYieldFeeDefaultBps = uint32(1000)
)

func NewCollateralYieldFee(bps uint32) (CollateralYieldFee, bool) {
	b, ok := newBpsRate(bps, CollateralYieldFeeMaxBps)
	return CollateralYieldFee{b}, ok
}

func DefaultCollateralYieldFee() CollateralYieldFee {
	return CollateralYieldFee{bpsRate{CollateralYieldFeeDefaultBps}}
}

// ReserveYieldFee is the cut of reserve-side yield routed to the treasury.
type ReserveYieldFee struct{ bpsRate }

const (
	ReserveYieldFeeMaxBps     = uint32(10000)
	ReserveYieldFeeDefaultBps = uint32(10000)
)

func NewReserveYieldFee(bps uint32) (ReserveYieldFee, bool) {
	b, ok := newBpsRate(bps, ReserveYieldFeeMaxBps)
	return ReserveYieldFee{b}, ok
}

func DefaultReserveYieldFee() ReserveYieldFee {
	return ReserveYieldFee{bpsRate{ReserveYieldFeeDefaultBps}}
}

// AdvanceFee is charged against the synthetic minted out on Advance.
type AdvanceFee struct{ bpsRate }

const (
	AdvanceFeeMaxBps     = uint32(5000)
	AdvanceFeeDefaultBps = uint32(25)
)

func NewAdvanceFee(bps uint32) (AdvanceFee, bool) {
	b, ok := newBpsRate(bps, AdvanceFeeMaxBps)
	return AdvanceFee{b}, ok
}

func DefaultAdvanceFee() AdvanceFee { return AdvanceFee{bpsRate{AdvanceFeeDefaultBps}} }

// AmoAllocation is the share of each pool's yield surplus, left after the
// treasury fee, that UpdateVault routes to the AMO (automated market
// operations) bucket.
type AmoAllocation struct{ bpsRate }

const (
	AmoAllocationMaxBps     = uint32(10000)
	AmoAllocationDefaultBps = uint32(0)
)

func NewAmoAllocation(bps uint32) (AmoAllocation, bool) {
	b, ok := newBpsRate(bps, AmoAllocationMaxBps)
	return AmoAllocation{b}, ok
}

func DefaultAmoAllocation() AmoAllocation {
	return AmoAllocation{bpsRate{AmoAllocationDefaultBps}}
}
