package reconcile

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/num"
)

// Config is the fixed, per-deployment reconciliation policy: validator set
// shape, batching limits, and fee ramp parameters.
type Config interface {
	UnbondingTimeSecs() uint64
	MaxMsgCount() int
	FeePayoutCooldownBlocks() uint64
	FeeBpsBlockIncrement() uint64
	MaxFeeBps() uint64
	StartingWeights() Weights
	ValidatorSetSize() ValidatorSetSize
}

// Repository is the reconciler's own mutable progress state. It is never
// mutated in place by the pure phase handlers below — see intermediateRepo.
type Repository interface {
	Delegated() Delegated
	DelegateStartSlot() DelegateStartSlot
	InflightDelegation() InflightDelegation
	InflightDeposit() InflightDeposit
	InflightFeePayable() InflightFeePayable
	InflightRewardsReceivable() InflightRewardsReceivable
	InflightUnbond() InflightUnbond
	LastReconcileHeight() (LastReconcileHeight, bool)
	MsgIssuedCount() MsgIssuedCount
	MsgSuccessCount() MsgSuccessCount
	PendingDeposit() PendingDeposit
	PendingUnbond() PendingUnbond
	Phase() Phase
	State() State
	RedelegationSlot() (RedelegationSlot, bool)
	UndelegateStartSlot() UndelegateStartSlot
	Weights() Weights
}

// Env is the read-only remote-chain environment: current height, ICA
// addresses once provisioned, and the latest reports the FSM reacts to.
type Env interface {
	CurrentHeight() CurrentHeight
	Now() uint64
	DelegationAccountAddress() (addr.Account, bool)
	RewardsAccountAddress() (addr.Account, bool)
	FeeRecipient() (addr.Recipient, bool)
	DelegationsReport() (DelegationsReport, bool)
	RewardsBalanceReport() (RemoteBalanceReport, bool)
	UndelegatedBalanceReport() (UndelegatedBalanceReport, bool)
}

// rewardsBalance mirrors the Rust reference's EnvExt extension trait: a
// derived read (the rewards balance since the last reconcile, or none if
// the report is missing, zero, or stale) built purely from Env's narrow
// capability surface.
func rewardsBalance(env Env, last LastReconcileHeight) (num.Uint128, bool) {
	report, ok := env.RewardsBalanceReport()
	if !ok || report.Height <= last.Uint64() {
		return num.Uint128{}, false
	}
	if report.Amount.Value().IsZero() {
		return num.Uint128{}, false
	}
	return report.Amount.Value(), true
}
