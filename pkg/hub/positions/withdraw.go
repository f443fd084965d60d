package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// WithdrawCollateralError distinguishes the two ways a withdrawal can fail.
type WithdrawCollateralError struct {
	NotEnoughCollateral bool
	Loss                bool
}

func (e WithdrawCollateralError) Error() string {
	if e.NotEnoughCollateral {
		return "not enough collateral"
	}
	return "vault shares have suffered a loss in value"
}

func withdrawCdpCollateral(cdp Cdp, maxLtv num.MaxLtv, amount num.Uint128) (Cdp, bool) {
	if amount.Cmp(cdp.Collateral) > 0 {
		return Cdp{}, false
	}

	collateral, ok := cdp.Collateral.CheckedSub(amount)
	if !ok {
		panic("positions: amount must not exceed collateral balance")
	}
	cdp.Collateral = collateral

	if cdp.Debt.IsZero() {
		return cdp, true
	}

	if collateral.Cmp(cdp.Debt) < 0 {
		return Cdp{}, false
	}

	proposedLtv, ok := num.RateFromRatio(cdp.Debt, collateral)
	if !ok {
		panic("positions: collateral must be > 0 here")
	}
	if proposedLtv.Cmp(maxLtv.Rate()) > 0 {
		return Cdp{}, false
	}

	return cdp, true
}

// WithdrawCollateral removes amount of collateral from both a CDP and the
// vault's collateral pool, rejecting any withdrawal that would leave the
// CDP above max LTV.
func WithdrawCollateral(v Vault, cdp Cdp, amount num.Uint128, maxLtv num.MaxLtv, rr vault.RedemptionRate, haveRate bool) (Vault, Cdp, vault.SharesAmount, error) {
	updatedCdp, ok := withdrawCdpCollateral(cdp, maxLtv, amount)
	if !ok {
		return Vault{}, Cdp{}, vault.SharesAmount{}, WithdrawCollateralError{NotEnoughCollateral: true}
	}

	if !haveRate {
		return Vault{}, Cdp{}, vault.SharesAmount{}, WithdrawCollateralError{Loss: true}
	}

	updatedVault, shares, ok := withdrawVaultCollateral(v, rr, amount)
	if !ok {
		return Vault{}, Cdp{}, vault.SharesAmount{}, WithdrawCollateralError{Loss: true}
	}

	return updatedVault, updatedCdp, shares, nil
}
