package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

type surplus struct {
	shares vault.SharesAmount
}

// sharesPoolSurplus reports the shares-denominated excess value a pool has
// accrued above its quota, or a LossError if the pool's shares are now
// worth less than the quota they are owed.
func sharesPoolSurplus(pool SharesPool, rr vault.RedemptionRate) (*surplus, error) {
	if pool.Shares.IsZero() {
		return nil, nil
	}

	poolSharesValue := rr.SharesToDeposits(pool.Shares)

	if poolSharesValue.Value().Cmp(pool.Quota) < 0 {
		return nil, LossError{}
	}
	if poolSharesValue.Value().Cmp(pool.Quota) == 0 {
		return nil, nil
	}

	value := poolSharesValue.Value().Sub(pool.Quota)
	shares := rr.DepositsToShares(vault.NewDepositValue(value))

	return &surplus{shares: shares}, nil
}

type payments struct {
	treasuryShares vault.SharesAmount
	amoShares      vault.SharesAmount
	reserveShares  vault.SharesAmount
}

func computePayments(s surplus, treasuryFee, amoAllocation num.Rate) payments {
	treasuryShares := treasuryFee.ApplyU128(s.shares.Value())
	leftover := s.shares.Value().Sub(treasuryShares)
	amoShares := amoAllocation.ApplyU128(leftover)
	reserveShares := leftover.Sub(amoShares)

	return payments{
		treasuryShares: vault.NewSharesAmount(treasuryShares),
		amoShares:      vault.NewSharesAmount(amoShares),
		reserveShares:  vault.NewSharesAmount(reserveShares),
	}
}

func (p payments) add(o payments) payments {
	return payments{
		treasuryShares: vault.NewSharesAmount(p.treasuryShares.Value().Add(o.treasuryShares.Value())),
		amoShares:      vault.NewSharesAmount(p.amoShares.Value().Add(o.amoShares.Value())),
		reserveShares:  vault.NewSharesAmount(p.reserveShares.Value().Add(o.reserveShares.Value())),
	}
}

// applyPayments folds the computed payments into the vault's balances and
// returns the total debt payment (before the AMO/reserve split is
// distinguished) that feeds the SPR increase.
func applyPayments(v Vault, p payments, rr vault.RedemptionRate) (Vault, num.Uint128) {
	treasuryShares := v.TreasuryShares.Value().Add(p.treasuryShares.Value())
	amoShares := v.AmoShares.Value().Add(p.amoShares.Value())
	reservePoolShares := v.ReservePool.Shares.Value().Add(p.reserveShares.Value())

	reserveSharePaymentValue := rr.SharesToDeposits(p.reserveShares)
	reservePoolQuota := v.ReservePool.Quota.Add(reserveSharePaymentValue.Value())

	amoSharesPaymentValue := rr.SharesToDeposits(p.amoShares)
	totalDebtPayment := reserveSharePaymentValue.Value().Add(amoSharesPaymentValue.Value())

	v.ReservePool = SharesPool{Shares: vault.NewSharesAmount(reservePoolShares), Quota: reservePoolQuota}
	v.TreasuryShares = vault.NewSharesAmount(treasuryShares)
	v.AmoShares = vault.NewSharesAmount(amoShares)

	return v, totalDebtPayment
}

type statusKind int

const (
	statusCollateralYieldOnly statusKind = iota
	statusReserveYieldOnly
	statusBoth
)

// status is the explicit case split the original computation derives from
// two optional surpluses at every call site; materializing it once keeps
// update_vault's branches legible.
type status struct {
	kind       statusKind
	collateral surplus
	reserve    surplus
}

func subtractCollateralPoolSurplus(v Vault, s surplus) Vault {
	remaining, ok := v.CollateralPool.Shares.Value().CheckedSub(s.shares.Value())
	if !ok {
		panic("positions: surplus shares exceed collateral pool shares")
	}
	v.CollateralPool.Shares = vault.NewSharesAmount(remaining)
	return v
}

func subtractReservePoolSurplus(v Vault, s surplus) Vault {
	remaining, ok := v.ReservePool.Shares.Value().CheckedSub(s.shares.Value())
	if !ok {
		panic("positions: surplus shares exceed reserve pool shares")
	}
	v.ReservePool.Shares = vault.NewSharesAmount(remaining)
	return v
}

func increaseSumPaymentRatio(spr SumPaymentRatio, payment, collateral num.Uint128) SumPaymentRatio {
	increase, ok := num.FixedFromU128(payment).CheckedDiv(num.FixedFromU128(collateral))
	if !ok {
		panic("positions: sum payment ratio increase requires collateral > 0")
	}
	sum, ok := spr.f.CheckedAdd(increase)
	if !ok {
		panic("positions: sum payment ratio overflow")
	}
	return SumPaymentRatio{f: sum}
}

func increaseVaultSpr(v Vault, payment num.Uint128) Vault {
	if payment.IsZero() || v.CollateralPool.Quota.IsZero() {
		return v
	}
	v.Spr = increaseSumPaymentRatio(v.Spr, payment, v.CollateralPool.Quota)
	return v
}

// UpdateVault is the yield-attribution core: given the vault's current
// redemption rate (nil/ok=false when no shares or no deposits exist),
// split any increase in share value between the treasury, the AMO, and
// the reserve pool, and advance the collateral pool's Sum Payment Ratio
// by the resulting debt payment.
//
// Returns (nil, nil) when there is nothing to attribute, (nil, LossError)
// when a pool's shares are worth less than their quota, and the updated
// vault otherwise.
func UpdateVault(
	v Vault,
	rr vault.RedemptionRate,
	haveRate bool,
	amoAllocation num.AmoAllocation,
	collateralTreasuryFee num.CollateralYieldFee,
	reserveTreasuryFee num.ReserveYieldFee,
) (*Vault, error) {
	if !haveRate {
		return nil, nil
	}

	collateralSurplus, err := sharesPoolSurplus(v.CollateralPool, rr)
	if err != nil {
		return nil, err
	}
	reserveSurplus, err := sharesPoolSurplus(v.ReservePool, rr)
	if err != nil {
		return nil, err
	}

	var st status
	switch {
	case collateralSurplus == nil && reserveSurplus == nil:
		return nil, nil
	case collateralSurplus == nil:
		st = status{kind: statusReserveYieldOnly, reserve: *reserveSurplus}
	case reserveSurplus == nil:
		st = status{kind: statusCollateralYieldOnly, collateral: *collateralSurplus}
	default:
		st = status{kind: statusBoth, collateral: *collateralSurplus, reserve: *reserveSurplus}
	}

	amo := amoAllocation.Rate()

	var pmts payments
	switch st.kind {
	case statusCollateralYieldOnly:
		pmts = computePayments(st.collateral, collateralTreasuryFee.Rate(), amo)
	case statusReserveYieldOnly:
		// No collateral-pool surplus this call means no CDP owners to
		// credit, so the reserve's yield goes entirely to the treasury.
		pmts = computePayments(st.reserve, num.OneRate(), amo)
	case statusBoth:
		pmts = computePayments(st.collateral, collateralTreasuryFee.Rate(), amo).
			add(computePayments(st.reserve, reserveTreasuryFee.Rate(), amo))
	}

	switch st.kind {
	case statusCollateralYieldOnly:
		v = subtractCollateralPoolSurplus(v, st.collateral)
	case statusReserveYieldOnly:
		v = subtractReservePoolSurplus(v, st.reserve)
	case statusBoth:
		v = subtractCollateralPoolSurplus(v, st.collateral)
		v = subtractReservePoolSurplus(v, st.reserve)
	}

	v, totalDebtPayment := applyPayments(v, pmts, rr)
	v = increaseVaultSpr(v, totalDebtPayment)

	return &v, nil
}
