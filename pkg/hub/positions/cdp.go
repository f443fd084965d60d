package positions

import "github.com/vaulthub/core/pkg/num"

// Repay applies a debt payment to a CDP: it tops up credit when there is
// no outstanding debt, reduces debt otherwise, and converts any excess
// payment beyond the outstanding debt into credit.
func Repay(cdp Cdp, amount num.Uint128) Cdp {
	if cdp.Debt.IsZero() {
		cdp.Credit = cdp.Credit.Add(amount)
		return cdp
	}

	if amount.Cmp(cdp.Debt) <= 0 {
		cdp.Debt = cdp.Debt.SaturatingSub(amount)
		return cdp
	}

	creditIncrease := cdp.Debt.AbsDiff(amount)
	cdp.Credit = cdp.Credit.Add(creditIncrease)
	cdp.Debt = num.ZeroUint128()
	return cdp
}

// UpdateCdp advances cdp to the vault's current Sum Payment Ratio,
// crediting any accrued debt payment. It is idempotent: calling it again
// with an already-current CDP is a no-op.
func UpdateCdp(v Vault, cdp Cdp) Cdp {
	if v.Spr.Equal(cdp.Spr) {
		return cdp
	}

	diff, ok := v.Spr.f.CheckedSub(cdp.Spr.f)
	if !ok {
		panic("positions: vault spr must be >= account spr")
	}

	product, ok := diff.CheckedMul(num.FixedFromU128(cdp.Collateral))
	if !ok {
		panic("positions: account debt payment overflow")
	}
	debtPayment, ok := product.Floor()
	if !ok {
		panic("positions: account debt payment overflow")
	}

	cdp = Repay(cdp, debtPayment)
	cdp.Spr = v.Spr
	return cdp
}
