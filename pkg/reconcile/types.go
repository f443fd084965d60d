// Package reconcile implements the ordered, resumable reconciliation phase
// machine that drives a remote proof-of-stake staking lifecycle: delegate,
// redelegate, undelegate, transfer, reward harvest, and fee payment. It is a
// pure function of (Config, Repository, Env) that never mutates the
// repository directly — every round emits a Response the host adapter
// applies as a single transaction.
package reconcile

import (
	"github.com/ipfs/go-cid"

	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/num"
)

// Phase is one stage of the reconciliation cycle. Phases advance strictly in
// this order and wrap back to StartReconcile.
type Phase int

const (
	SetupRewardsAddress Phase = iota
	SetupAuthz
	StartReconcile
	Redelegate
	Undelegate
	TransferUndelegated
	TransferPendingDeposits
	Delegate
)

// Next returns the phase that follows p, or false once the cycle reaches its
// end (the caller loops back to StartReconcile explicitly rather than via
// Next, since that transition also stamps LastReconcileHeight).
func (p Phase) Next() (Phase, bool) {
	switch p {
	case SetupRewardsAddress:
		return SetupAuthz, true
	case SetupAuthz:
		return StartReconcile, true
	case StartReconcile:
		return Redelegate, true
	case Redelegate:
		return Undelegate, true
	case Undelegate:
		return TransferUndelegated, true
	case TransferUndelegated:
		return TransferPendingDeposits, true
	case TransferPendingDeposits:
		return Delegate, true
	default: // Delegate
		return StartReconcile, false
	}
}

// State is a phase's own progress within a round.
type State int

const (
	Idle State = iota
	Pending
	Failed
)

func (s State) IsIdle() bool    { return s == Idle }
func (s State) IsPending() bool { return s == Pending }
func (s State) IsFailed() bool  { return s == Failed }

// ValidatorSetSlot indexes a position in the validator set the reconciler
// spreads delegations across.
type ValidatorSetSlot int

// ValidatorSetSize is the number of slots in the validator set.
type ValidatorSetSize int

// Weight is a FixedU256 in [0, 1]: one validator slot's share of the total
// delegation.
type Weight struct{ v num.FixedU256 }

func ZeroWeight() Weight { return Weight{} }

func WeightFromFixed(v num.FixedU256) Weight { return Weight{v: v} }

func (w Weight) Fixed() num.FixedU256 { return w.v }

func (w Weight) IsZero() bool { return w.v.IsZero() }

// CheckedFromFraction builds a Weight as numerator/denominator, failing if
// denominator is zero or the ratio would exceed 1.
func CheckedFromFraction(numerator, denominator num.Uint128) (Weight, bool) {
	n := num.FixedFromU128(numerator)
	d := num.FixedFromU128(denominator)
	q, ok := n.CheckedDiv(d)
	if !ok || q.Cmp(num.OneFixedU256()) > 0 {
		return Weight{}, false
	}
	return Weight{v: q}, true
}

// Apply scales x by this weight, flooring.
func (w Weight) Apply(x num.Uint128) num.Uint128 {
	out, ok := w.v.MulU128(x)
	if !ok {
		panic("reconcile: weight application overflowed despite w<=1 invariant")
	}
	return out
}

// Weights is a per-slot distribution with invariant sum == 1.0, enforced by
// New; NewUnchecked trusts the caller (used by code paths that have already
// verified the sum via a different route, e.g. renormalization).
type Weights struct{ slots []Weight }

// New builds a Weights, failing unless the slots sum to exactly 1.0.
func New(slots []Weight) (Weights, bool) {
	if len(slots) == 0 {
		return Weights{}, false
	}
	sum := num.ZeroFixedU256()
	for _, w := range slots {
		var ok bool
		sum, ok = sum.CheckedAdd(w.v)
		if !ok {
			return Weights{}, false
		}
	}
	if sum.Cmp(num.OneFixedU256()) != 0 {
		return Weights{}, false
	}
	cp := make([]Weight, len(slots))
	copy(cp, slots)
	return Weights{slots: cp}, true
}

// NewUnchecked trusts the caller that slots already sum to 1.0.
func NewUnchecked(slots []Weight) Weights {
	cp := make([]Weight, len(slots))
	copy(cp, slots)
	return Weights{slots: cp}
}

func (w Weights) AsSlice() []Weight { return w.slots }

func (w Weights) Len() int { return len(w.slots) }

// Amount newtypes: balances carried across phases.
type Delegated struct{ v num.Uint128 }

func NewDelegated(v num.Uint128) Delegated { return Delegated{v: v} }
func (d Delegated) Value() num.Uint128     { return d.v }

type PendingDeposit struct{ v num.Uint128 }

func NewPendingDeposit(v num.Uint128) PendingDeposit { return PendingDeposit{v: v} }
func (p PendingDeposit) Value() num.Uint128          { return p.v }

type PendingUnbond struct{ v num.Uint128 }

func NewPendingUnbond(v num.Uint128) PendingUnbond { return PendingUnbond{v: v} }
func (p PendingUnbond) Value() num.Uint128         { return p.v }

type InflightDeposit struct{ v num.Uint128 }

func NewInflightDeposit(v num.Uint128) InflightDeposit { return InflightDeposit{v: v} }
func (i InflightDeposit) Value() num.Uint128           { return i.v }

type InflightDelegation struct{ v num.Uint128 }

func NewInflightDelegation(v num.Uint128) InflightDelegation { return InflightDelegation{v: v} }
func (i InflightDelegation) Value() num.Uint128              { return i.v }

type InflightUnbond struct{ v num.Uint128 }

func NewInflightUnbond(v num.Uint128) InflightUnbond { return InflightUnbond{v: v} }
func (i InflightUnbond) Value() num.Uint128          { return i.v }

type InflightRewardsReceivable struct{ v num.Uint128 }

func NewInflightRewardsReceivable(v num.Uint128) InflightRewardsReceivable {
	return InflightRewardsReceivable{v: v}
}
func (i InflightRewardsReceivable) Value() num.Uint128 { return i.v }

type InflightFeePayable struct{ v num.Uint128 }

func NewInflightFeePayable(v num.Uint128) InflightFeePayable { return InflightFeePayable{v: v} }
func (i InflightFeePayable) Value() num.Uint128              { return i.v }

// Progress cursors.
type MsgIssuedCount struct{ n int }

func NewMsgIssuedCount(n int) MsgIssuedCount { return MsgIssuedCount{n: n} }
func (m MsgIssuedCount) Int() int            { return m.n }

type MsgSuccessCount struct{ n int }

func NewMsgSuccessCount(n int) MsgSuccessCount { return MsgSuccessCount{n: n} }
func (m MsgSuccessCount) Int() int             { return m.n }

type DelegateStartSlot struct{ idx int }

func NewDelegateStartSlot(idx int) DelegateStartSlot { return DelegateStartSlot{idx: idx} }
func (d DelegateStartSlot) Int() int                 { return d.idx }

type UndelegateStartSlot struct{ idx int }

func NewUndelegateStartSlot(idx int) UndelegateStartSlot { return UndelegateStartSlot{idx: idx} }
func (u UndelegateStartSlot) Int() int                   { return u.idx }

type LastReconcileHeight struct{ h uint64 }

func NewLastReconcileHeight(h uint64) LastReconcileHeight { return LastReconcileHeight{h: h} }
func (l LastReconcileHeight) Uint64() uint64              { return l.h }

type RedelegationSlot struct{ slot ValidatorSetSlot }

func NewRedelegationSlot(slot ValidatorSetSlot) RedelegationSlot { return RedelegationSlot{slot: slot} }
func (r RedelegationSlot) Slot() ValidatorSetSlot                { return r.slot }

type CurrentHeight struct{ h uint64 }

func NewCurrentHeight(h uint64) CurrentHeight { return CurrentHeight{h: h} }
func (c CurrentHeight) Uint64() uint64        { return c.h }

// RemoteBalance is a raw amount reported by a remote-chain query.
type RemoteBalance struct{ v num.Uint128 }

func NewRemoteBalance(v num.Uint128) RemoteBalance { return RemoteBalance{v: v} }
func (r RemoteBalance) Value() num.Uint128         { return r.v }

// RemoteBalanceReport pairs a remote-chain balance reading with the height
// it was observed at, so a stale report (height <= last_reconcile_height)
// can be ignored.
type RemoteBalanceReport struct {
	Height uint64
	Amount RemoteBalance
}

// UndelegatedBalanceReport is the same shape, kept as a distinct name since
// it reports a logically different balance (undelegated, not rewards).
type UndelegatedBalanceReport = RemoteBalanceReport

// DelegationsReport is a snapshot of per-slot delegation amounts from the
// remote validator chain, used to detect slashing.
type DelegationsReport struct {
	Height         uint64
	TotalDelegated num.Uint128
	PerSlot        []num.Uint128
}

// Id returns a content identifier for this report: a stable, content-
// addressed reference a host adapter can use to dedupe repeated slashing
// evaluations of the same underlying report, or to attach as an off-band
// evidence pointer alongside a SlashDetected event.
func (r DelegationsReport) Id() cid.Cid {
	return reportCid(r)
}

// FeeMetadata describes the reconciler-fee policy applied to harvested
// rewards: fee ramps by BpsBlockIncrement per block since the last
// reconcile, capped at MaxFeeBps, and only charged once PayoutCooldown
// blocks have elapsed.
type FeeMetadata struct {
	Recipient         addr.Recipient
	HasRecipient      bool
	PayoutCooldown    uint64
	BpsBlockIncrement uint64
	MaxFeeBps         uint64
}

// FeeBps is a resolved fee rate for one harvest, gated by cooldown.
type FeeBps struct{ bps uint64 }

// Resolve computes the fee rate applicable between lastReconcileHeight and
// currentHeight, or false if the payout cooldown has not yet elapsed.
func (m FeeMetadata) Resolve(lastReconcileHeight, currentHeight uint64) (FeeBps, bool) {
	elapsed := currentHeight - lastReconcileHeight
	if elapsed < m.PayoutCooldown {
		return FeeBps{}, false
	}
	bps := m.BpsBlockIncrement * elapsed
	if bps > m.MaxFeeBps {
		bps = m.MaxFeeBps
	}
	return FeeBps{bps: bps}, true
}

// ApplyTo splits totalRewards into the post-fee receivable amount and the
// fee amount. hasFee is false, and the whole amount is receivable, when the
// bps do not form a valid rate or the floored fee comes to zero.
func (f FeeBps) ApplyTo(totalRewards num.Uint128) (receivable num.Uint128, fee num.Uint128, hasFee bool) {
	rate, ok := num.RateFromRatio(num.NewUint128FromUint64(f.bps), num.NewUint128FromUint64(10_000))
	if !ok {
		return totalRewards, num.ZeroUint128(), false
	}
	feeAmount := rate.ApplyU128(totalRewards)
	if feeAmount.IsZero() {
		return totalRewards, num.ZeroUint128(), false
	}
	return totalRewards.Sub(feeAmount), feeAmount, true
}
