// Package hub implements the orchestration layer that sits above
// pkg/hub/positions: input validation, proxy gating, and command emission
// around the pure economic functions. It never mutates state directly —
// every operation returns the commands a host adapter must apply.
package hub

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
)

// VaultId names a registered vault within the hub.
type VaultId = common.Identifier

// VaultConfig is a vault's static registration record: the assets it
// bridges, its fee schedule, and the per-operation proxies and enable
// flags that gate access to it.
type VaultConfig struct {
	DepositAsset       common.Asset
	SharesAsset        common.Asset
	SyntheticAsset     common.Asset
	UnderlyingDecimals common.Decimals
	SyntheticDecimals  common.Decimals

	DepositsEnabled bool
	AdvanceEnabled  bool

	MaxLtv             num.MaxLtv
	CollateralYieldFee num.CollateralYieldFee
	ReserveYieldFee    num.ReserveYieldFee

	AdvanceFee      num.AdvanceFee
	HasAdvanceFee   bool
	AdvanceFeeOracle VaultId
	HasFeeOracle     bool

	AdvanceFeeRecipient    addr.Recipient
	HasAdvanceFeeRecipient bool

	Amo           addr.Recipient
	HasAmo        bool
	AmoAllocation num.AmoAllocation

	DepositProxy    addr.Account
	HasDepositProxy bool
	AdvanceProxy    addr.Account
	HasAdvanceProxy bool
	RedeemProxy     addr.Account
	HasRedeemProxy  bool
}

// proxyMatches reports whether sender may invoke an operation gated by an
// optional proxy: unset proxies admit anyone.
func proxyMatches(proxy addr.Account, has bool, sender addr.Account) bool {
	if !has {
		return true
	}
	return proxy.Equals(sender)
}

// VaultState bundles a vault's current economic bookkeeping, the
// redemption rate derived from its strategy's latest report, and whether
// that rate exists at all (no shares or no deposits yet).
type VaultState struct {
	Config   VaultConfig
	Economic positions.Vault
	Rate     RedemptionRateInput
}

// RedemptionRateInput carries the strategy-reported numbers an orchestration
// call needs to derive a vault.RedemptionRate, or indicates none exists yet.
type RedemptionRateInput struct {
	TotalSharesIssued  num.Uint128
	TotalDepositsValue num.Uint128
	HaveRate           bool
}

// CallbackReason distinguishes the three ways a vault-deposit callback's
// proceeds are applied once the strategy confirms the deposit.
type CallbackReason int

const (
	CallbackDeposit CallbackReason = iota
	CallbackRepayUnderlying
	CallbackMint
)

// PendingDeposit is what the hub must remember between emitting a
// VaultCmd::Deposit and receiving the strategy's deposit callback.
type PendingDeposit struct {
	Vault             VaultId
	Account           addr.Account
	CallbackRecipient addr.Recipient
	Reason            CallbackReason
}
