package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// SelfLiquidateError distinguishes why a self-liquidation could not run.
type SelfLiquidateError struct {
	NothingToLiquidate bool
	Loss               bool
}

func (e SelfLiquidateError) Error() string {
	if e.NothingToLiquidate {
		return "nothing to liquidate"
	}
	return "vault shares have suffered a loss in value"
}

// SelfLiquidation is the outcome of zeroing out a CDP: any credit is
// returned to be minted back to the owner, and any remaining collateral
// shares are marked for redemption.
type SelfLiquidation struct {
	Vault         Vault
	Cdp           Cdp
	MintCredit    num.Uint128
	HasMintCredit bool
	RedeemShares  vault.SharesAmount
	HasRedeem     bool
}

// SelfLiquidate zeroes a CDP out entirely: it returns any credit to the
// owner, moves debt-equivalent collateral into the reserve pool (so the
// protocol, not other CDP owners, backs the forgone debt), and withdraws
// whatever collateral remains.
func SelfLiquidate(v Vault, cdp Cdp, rr vault.RedemptionRate, haveRate bool) (*SelfLiquidation, error) {
	if cdp.Collateral.IsZero() && cdp.Credit.IsZero() {
		return nil, SelfLiquidateError{NothingToLiquidate: true}
	}

	zeroed := Cdp{Spr: ZeroSumPaymentRatio()}

	if !haveRate {
		return nil, SelfLiquidateError{Loss: true}
	}

	if !cdp.Credit.IsZero() {
		if !cdp.Debt.IsZero() {
			panic("positions: there can be no debt when there is credit")
		}

		if cdp.Collateral.IsZero() {
			return &SelfLiquidation{Vault: v, Cdp: zeroed, MintCredit: cdp.Credit, HasMintCredit: true}, nil
		}

		updatedVault, shares, ok := withdrawVaultCollateral(v, rr, cdp.Collateral)
		if !ok {
			return nil, SelfLiquidateError{Loss: true}
		}

		return &SelfLiquidation{
			Vault: updatedVault, Cdp: zeroed,
			MintCredit: cdp.Credit, HasMintCredit: true,
			RedeemShares: shares, HasRedeem: true,
		}, nil
	}

	if cdp.Debt.IsZero() {
		updatedVault, shares, ok := withdrawVaultCollateral(v, rr, cdp.Collateral)
		if !ok {
			return nil, SelfLiquidateError{Loss: true}
		}
		return &SelfLiquidation{Vault: updatedVault, Cdp: zeroed, RedeemShares: shares, HasRedeem: true}, nil
	}

	withdrawAmount := cdp.Collateral.AbsDiff(cdp.Debt)

	v, debtShares, ok := withdrawVaultCollateral(v, rr, cdp.Debt)
	if !ok {
		return nil, SelfLiquidateError{Loss: true}
	}
	v = addVaultReserves(v, cdp.Debt, debtShares)

	v, remainingShares, ok := withdrawVaultCollateral(v, rr, withdrawAmount)
	if !ok {
		return nil, SelfLiquidateError{Loss: true}
	}

	return &SelfLiquidation{Vault: v, Cdp: zeroed, RedeemShares: remainingShares, HasRedeem: true}, nil
}
