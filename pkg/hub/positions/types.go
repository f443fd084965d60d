// Package positions implements the pure economic functions that sit on top
// of a vault's share accounting: yield attribution between a collateral
// pool, a reserve pool, treasury shares, and an AMO allocation; and
// per-account CDP evolution driven by a Sum Payment Ratio. Every function
// here is pure — no capability reads, no command emission — so the
// orchestration layer in pkg/hub can compose them freely and test them in
// isolation.
package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// LossError reports that a pool's shares are worth less than the deposit
// value it is owed (its quota): an unrecoverable, protocol-wide condition
// that must abort the mutation rather than silently spread the loss.
type LossError struct{}

func (LossError) Error() string { return "vault shares have suffered a loss in value" }

// SharesPool is one side of the hub's share bookkeeping: a quantity of
// vault shares and the deposit-value "quota" they are owed.
type SharesPool struct {
	Shares vault.SharesAmount
	Quota  num.Uint128
}

// SumPaymentRatio is a monotonically increasing accumulator of
// debt_payment / collateral_quota across every UpdateVault call; an
// account's accrued debt repayment since its last update is
// (vault.SPR - cdp.SPR) * cdp.Collateral.
type SumPaymentRatio struct {
	f num.FixedU256
}

func ZeroSumPaymentRatio() SumPaymentRatio { return SumPaymentRatio{f: num.ZeroFixedU256()} }

func SumPaymentRatioFromRaw(raw num.U256) SumPaymentRatio {
	return SumPaymentRatio{f: num.FixedFromRaw(raw)}
}

func (s SumPaymentRatio) Fixed() num.FixedU256 { return s.f }
func (s SumPaymentRatio) Raw() num.U256        { return s.f.Raw() }
func (s SumPaymentRatio) Equal(o SumPaymentRatio) bool { return s.f.Cmp(o.f) == 0 }

// Vault is the hub's economic view of a strategy-backed vault: pool
// bookkeeping plus the two unclaimed-share buckets and the running SPR.
// Distinct from pkg/vault.Vault, which is the unbonding/deposit façade —
// see the module-level design notes on why the two "vault" concepts stay
// namespaced apart.
type Vault struct {
	CollateralPool SharesPool
	ReservePool    SharesPool
	TreasuryShares vault.SharesAmount
	AmoShares      vault.SharesAmount
	Spr            SumPaymentRatio
}

// Cdp is a per-(vault, account) collateralized debt position.
type Cdp struct {
	Collateral num.Uint128
	Debt       num.Uint128
	Credit     num.Uint128
	Spr        SumPaymentRatio
}
