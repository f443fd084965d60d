package positions

import "github.com/vaulthub/core/pkg/num"

// Advance is the outcome of a successful Advance call: the updated CDP,
// the amount to mint to the CDP owner, and an optional fee to mint to the
// fee recipient.
type Advance struct {
	Cdp    Cdp
	Amount num.Uint128
	Fee    num.Uint128
	HasFee bool
}

// AdvanceCdp lets a CDP owner borrow against their collateral, consuming
// any outstanding credit first. Returns (nil, false) if the requested
// amount would push debt above the collateral balance or the max LTV.
//
// advanceFee, hasAdvanceFee let the caller omit a fee entirely (hasAdvanceFee
// == false), matching the original's Option<AdvanceFee>.
func AdvanceCdp(cdp Cdp, amount num.Uint128, maxLtv num.MaxLtv, advanceFee num.AdvanceFee, hasAdvanceFee bool) (*Advance, bool) {
	if amount.Cmp(cdp.Credit) <= 0 {
		credit, ok := cdp.Credit.CheckedSub(amount)
		if !ok {
			panic("positions: credit >= amount")
		}
		cdp.Credit = credit
		return &Advance{Cdp: cdp, Amount: amount}, true
	}

	debtIncrease := cdp.Credit.AbsDiff(amount)

	debt, ok := cdp.Debt.CheckedAdd(debtIncrease)
	if !ok {
		return nil, false
	}

	if cdp.Collateral.Cmp(debt) < 0 {
		return nil, false
	}

	maxDebt := maxLtv.Rate().ApplyU128(cdp.Collateral)

	if debt.Cmp(maxDebt) > 0 {
		return nil, false
	}

	if !hasAdvanceFee {
		cdp.Credit = num.ZeroUint128()
		cdp.Debt = debt
		return &Advance{Cdp: cdp, Amount: amount}, true
	}

	fee := advanceFee.Rate().ApplyU128(debtIncrease)
	buffer := debt.AbsDiff(maxDebt)

	if fee.Cmp(buffer) <= 0 {
		cdp.Credit = num.ZeroUint128()
		cdp.Debt = debt.Add(fee)
		return &Advance{Cdp: cdp, Amount: amount, Fee: fee, HasFee: true}, true
	}

	feeRemainder := buffer.AbsDiff(fee)
	reducedAmount, ok := amount.CheckedSub(feeRemainder)
	if !ok {
		panic("positions: amount must exceed fee remainder")
	}

	cdp.Credit = num.ZeroUint128()
	cdp.Debt = maxDebt
	return &Advance{Cdp: cdp, Amount: reducedAmount, Fee: fee, HasFee: true}, true
}
