package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// RedeemReservesError distinguishes why a reserve redemption could not run.
type RedeemReservesError struct {
	InsufficientReserves bool
	Loss                 bool
}

func (e RedeemReservesError) Error() string {
	if e.InsufficientReserves {
		return "insufficient reserves"
	}
	return "vault shares have suffered a loss in value"
}

// RedeemReserves withdraws amount of deposit value worth of shares from
// the reserve pool, e.g. to back a synthetic redemption against reserves
// rather than against a CDP.
func RedeemReserves(v Vault, amount num.Uint128, rr vault.RedemptionRate, haveRate bool) (Vault, vault.SharesAmount, error) {
	if v.ReservePool.Quota.Cmp(amount) < 0 {
		return Vault{}, vault.SharesAmount{}, RedeemReservesError{InsufficientReserves: true}
	}

	if !haveRate {
		return Vault{}, vault.SharesAmount{}, RedeemReservesError{Loss: true}
	}

	v, shares, ok := withdrawVaultReserves(v, rr, amount)
	if !ok {
		return Vault{}, vault.SharesAmount{}, RedeemReservesError{Loss: true}
	}

	return v, shares, nil
}
