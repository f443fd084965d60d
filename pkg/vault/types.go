// Package vault implements share-issuance accounting for a single yield
// strategy: the redemption rate between issued shares and the strategy's
// deposit asset, a per-recipient threaded unbonding log, and the iterator
// that walks that log to derive a claimable amount. It is deliberately
// ignorant of collateral, debt, or the hub's pool bookkeeping — see
// pkg/hub/positions for the layer that sits on top of shares.
package vault

import (
	"github.com/ipfs/go-cid"

	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/num"
)

// SharesDecimalPlaces is the fixed decimal precision every vault's shares
// are denominated in, regardless of the underlying asset's own decimals.
const SharesDecimalPlaces common.Decimals = 18

// Instant is a strategy-defined unbonding clock (typically unix seconds).
type Instant = uint64

// Now is the current reading of that clock.
type Now = uint64

// Hint is an opaque strategy-supplied content identifier describing when
// an unbond might become startable — e.g. a reference to a validator-set
// snapshot the strategy is waiting to roll over.
type Hint = cid.Cid

// BatchId indexes the unbonding log's append-only batch sequence.
type BatchId = uint64

// DepositAmount is a raw quantity of the strategy's deposit asset.
type DepositAmount struct{ v num.Uint128 }

func NewDepositAmount(v num.Uint128) DepositAmount { return DepositAmount{v: v} }
func (d DepositAmount) Value() num.Uint128         { return d.v }
func (d DepositAmount) IsZero() bool               { return d.v.IsZero() }

// DepositValue is a deposit quantity re-expressed in terms of the
// strategy's underlying asset (equal to DepositAmount for a 1:1 strategy).
type DepositValue struct{ v num.Uint128 }

func NewDepositValue(v num.Uint128) DepositValue { return DepositValue{v: v} }
func (d DepositValue) Value() num.Uint128        { return d.v }
func (d DepositValue) IsZero() bool              { return d.v.IsZero() }
func (d DepositValue) Add(o DepositValue) (DepositValue, bool) {
	r, ok := d.v.CheckedAdd(o.v)
	return DepositValue{v: r}, ok
}
func (d DepositValue) Sub(o DepositValue) (DepositValue, bool) {
	r, ok := d.v.CheckedSub(o.v)
	return DepositValue{v: r}, ok
}

// SharesAmount is a quantity of vault share units (18 decimal places).
type SharesAmount struct{ v num.Uint128 }

func NewSharesAmount(v num.Uint128) SharesAmount { return SharesAmount{v: v} }
func (s SharesAmount) Value() num.Uint128        { return s.v }
func (s SharesAmount) IsZero() bool              { return s.v.IsZero() }

// ClaimAmount is a quantity of deposit-asset units claimable from a
// finished unbonding.
type ClaimAmount struct{ v num.Uint128 }

func NewClaimAmount(v num.Uint128) ClaimAmount { return ClaimAmount{v: v} }
func (c ClaimAmount) Value() num.Uint128       { return c.v }

// TotalSharesIssued is the running total of shares minted and not yet burned.
type TotalSharesIssued struct{ v num.Uint128 }

func NewTotalSharesIssued(v num.Uint128) TotalSharesIssued { return TotalSharesIssued{v: v} }
func (t TotalSharesIssued) Value() num.Uint128             { return t.v }

// TotalDepositsValue is the strategy's total deposits, valued in the
// underlying asset.
type TotalDepositsValue struct{ v num.Uint128 }

func NewTotalDepositsValue(v num.Uint128) TotalDepositsValue { return TotalDepositsValue{v: v} }
func (t TotalDepositsValue) Value() num.Uint128              { return t.v }

// UnbondEpoch is the unix-second interval a committed batch unbonds over.
type UnbondEpoch struct {
	Start Instant
	End   Instant
}

// UnbondReadyStatusKind discriminates UnbondReadyStatus's two cases.
type UnbondReadyStatusKind int

const (
	UnbondReady UnbondReadyStatusKind = iota
	UnbondLater
)

// UnbondReadyStatus is the strategy's answer to "can this value unbond now".
type UnbondReadyStatus struct {
	Kind UnbondReadyStatusKind

	// Populated when Kind == UnbondReady.
	Amount ClaimAmount
	Epoch  UnbondEpoch

	// Optionally populated when Kind == UnbondLater.
	Hint    Hint
	HasHint bool
}

func ReadyUnbondStatus(amount ClaimAmount, epoch UnbondEpoch) UnbondReadyStatus {
	return UnbondReadyStatus{Kind: UnbondReady, Amount: amount, Epoch: epoch}
}

func LaterUnbondStatus(hint Hint, hasHint bool) UnbondReadyStatus {
	return UnbondReadyStatus{Kind: UnbondLater, Hint: hint, HasHint: hasHint}
}
