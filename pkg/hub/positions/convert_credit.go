package positions

import (
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// ConvertCreditError distinguishes the three ways converting credit back
// into collateral can fail.
type ConvertCreditError struct {
	NotEnoughCredit      bool
	InsufficientReserves bool
	Loss                 bool
}

func (e ConvertCreditError) Error() string {
	switch {
	case e.NotEnoughCredit:
		return "not enough credit"
	case e.InsufficientReserves:
		return "insufficient reserves"
	default:
		return "vault shares have suffered a loss in value"
	}
}

// ConvertCredit moves amount of credit from the reserve pool back into the
// collateral pool, crediting the CDP's collateral balance with the
// deposit-value-equivalent of the shares withdrawn.
func ConvertCredit(v Vault, cdp Cdp, amount num.Uint128, rr vault.RedemptionRate, haveRate bool) (Vault, Cdp, error) {
	if cdp.Credit.Cmp(amount) < 0 {
		return Vault{}, Cdp{}, ConvertCreditError{NotEnoughCredit: true}
	}

	if !haveRate {
		return Vault{}, Cdp{}, ConvertCreditError{Loss: true}
	}

	v, shares, ok := withdrawVaultReserves(v, rr, amount)
	if !ok {
		return Vault{}, Cdp{}, ConvertCreditError{InsufficientReserves: true}
	}

	sharesValue := rr.SharesToDeposits(shares)
	v = addVaultCollateral(v, sharesValue.Value(), shares)

	credit, ok := cdp.Credit.CheckedSub(amount)
	if !ok {
		panic("positions: credit must be >= amount")
	}
	cdp.Credit = credit
	cdp.Collateral = cdp.Collateral.Add(sharesValue.Value())

	return v, cdp, nil
}
