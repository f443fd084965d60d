package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// withdrawVaultCollateral converts amount of deposit value into shares at
// the current redemption rate and removes them from the collateral pool.
// Fails (ok=false) if the rate can't express the conversion or the pool
// doesn't hold enough shares/quota.
func withdrawVaultCollateral(v Vault, rr vault.RedemptionRate, amount num.Uint128) (Vault, vault.SharesAmount, bool) {
	shares, ok := rr.CheckedDepositsToShares(vault.NewDepositValue(amount))
	if !ok {
		return v, vault.SharesAmount{}, false
	}

	remainingShares, ok := v.CollateralPool.Shares.Value().CheckedSub(shares.Value())
	if !ok {
		return v, vault.SharesAmount{}, false
	}
	remainingQuota, ok := v.CollateralPool.Quota.CheckedSub(amount)
	if !ok {
		return v, vault.SharesAmount{}, false
	}

	v.CollateralPool = SharesPool{Shares: vault.NewSharesAmount(remainingShares), Quota: remainingQuota}
	return v, shares, true
}

// addVaultReserves credits the reserve pool with amount/shares already
// known to be consistent with the current redemption rate.
func addVaultReserves(v Vault, amount num.Uint128, shares vault.SharesAmount) Vault {
	v.ReservePool.Shares = vault.NewSharesAmount(v.ReservePool.Shares.Value().Add(shares.Value()))
	v.ReservePool.Quota = v.ReservePool.Quota.Add(amount)
	return v
}

// withdrawVaultReserves is the reserve-pool analogue of
// withdrawVaultCollateral.
func withdrawVaultReserves(v Vault, rr vault.RedemptionRate, amount num.Uint128) (Vault, vault.SharesAmount, bool) {
	shares, ok := rr.CheckedDepositsToShares(vault.NewDepositValue(amount))
	if !ok {
		return v, vault.SharesAmount{}, false
	}

	remainingShares, ok := v.ReservePool.Shares.Value().CheckedSub(shares.Value())
	if !ok {
		return v, vault.SharesAmount{}, false
	}
	remainingQuota, ok := v.ReservePool.Quota.CheckedSub(amount)
	if !ok {
		return v, vault.SharesAmount{}, false
	}

	v.ReservePool = SharesPool{Shares: vault.NewSharesAmount(remainingShares), Quota: remainingQuota}
	return v, shares, true
}

// addVaultCollateral credits the collateral pool with amount/shares
// already known to be consistent with the current redemption rate.
func addVaultCollateral(v Vault, amount num.Uint128, shares vault.SharesAmount) Vault {
	v.CollateralPool.Shares = vault.NewSharesAmount(v.CollateralPool.Shares.Value().Add(shares.Value()))
	v.CollateralPool.Quota = v.CollateralPool.Quota.Add(amount)
	return v
}

// DepositCollateral credits a fresh vault deposit to both the collateral
// pool and the CDP's collateral balance — the hub's reply handler for the
// Deposit callback reason.
func DepositCollateral(v Vault, cdp Cdp, amount num.Uint128, shares vault.SharesAmount) (Vault, Cdp) {
	cdp.Collateral = cdp.Collateral.Add(amount)
	v = addVaultCollateral(v, amount, shares)
	return v, cdp
}
