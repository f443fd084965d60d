package vault

import "golang.org/x/xerrors"

// Error is the closed taxonomy of failures a Vault operation can return.
// Each name states the invariant it reports, mirroring the Rust
// reference's thiserror enum; callers switch on identity (errors.Is), not
// on message text.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrInvalidDepositAsset          = &Error{"invalid deposit asset"}
	ErrCannotDepositZero            = &Error{"cannot deposit zero"}
	ErrDepositTooSmall              = &Error{"deposit too small"}
	ErrDepositTooLarge              = &Error{"deposit too large"}
	ErrCannotDepositInTotalLossState = &Error{"cannot deposit in total loss state"}
	ErrInvalidDonationAsset         = &Error{"invalid donation asset"}
	ErrCannotDonateZero             = &Error{"cannot donate zero"}
	ErrCannotRedeemZero             = &Error{"cannot redeem zero"}
	ErrInvalidRedemptionAsset       = &Error{"invalid redemption asset"}
	ErrNoDepositsToRedeem           = &Error{"no deposits to redeem"}
	ErrRedemptionTooSmall           = &Error{"redemption too small"}
	ErrNothingToClaim               = &Error{"nothing to claim"}
	ErrNothingToUnbond              = &Error{"nothing to unbond"}
	ErrUnbondNotReady               = &Error{"unbond not ready"}
)

// wrap annotates err with the operation name that produced it, using
// xerrors. The Vault methods in vault.go return their sentinels directly
// and do not call it.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.Errorf("vault: %s: %w", op, err)
}
