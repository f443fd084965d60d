package hub

import (
	"github.com/pkg/errors"

	"github.com/vaulthub/core/pkg/hub/positions"
)

// Error is the hub's validation/registration/authorization error taxonomy:
// simple, named sentinels that surface to callers unwrapped.
type Error struct{ msg string }

func (e Error) Error() string { return e.msg }

var (
	ErrUnauthorized          = Error{"unauthorized"}
	ErrInvalidDepositAsset   = Error{"invalid deposit asset"}
	ErrInvalidSyntheticAsset = Error{"invalid synthetic asset"}
	ErrCannotDepositZero     = Error{"cannot deposit zero"}
	ErrCannotRedeemZero      = Error{"cannot redeem zero"}
	ErrCannotAdvanceZero     = Error{"cannot advance zero"}
	ErrCannotRepayZero       = Error{"cannot repay zero"}
	ErrCannotWithdrawZero    = Error{"cannot withdraw zero"}
	ErrCannotMintZero        = Error{"cannot mint zero"}
	ErrCannotConvertZero     = Error{"cannot convert zero"}
	ErrCannotDonateZero      = Error{"cannot donate zero"}
	ErrDecimalsMismatch      = Error{"decimals mismatch"}
	ErrInvalidRate           = Error{"invalid rate"}

	ErrVaultAlreadyRegistered = Error{"vault already registered"}
	ErrVaultNotRegistered     = Error{"vault not registered"}
	ErrVaultNotFound          = Error{"vault not found"}
	ErrSyntheticNotFound      = Error{"synthetic not found"}
	ErrNoTreasurySet          = Error{"no treasury set"}
	ErrNoAmoSet               = Error{"no amo set"}

	ErrNotEnoughCollateral       = Error{"not enough collateral"}
	ErrMaxLtvExceeded            = Error{"max ltv exceeded"}
	ErrNotEnoughCredit           = Error{"not enough credit"}
	ErrInsufficientReserveBalance = Error{"insufficient reserve balance"}
	ErrNothingToLiquidate        = Error{"nothing to liquidate"}
	ErrNothingToClaim            = Error{"nothing to claim"}
	ErrDepositTooSmall           = Error{"deposit too small"}
	ErrDepositTooLarge           = Error{"deposit too large"}
	ErrCannotDepositInTotalLoss  = Error{"cannot deposit in total loss state"}
	ErrNoDepositsToRedeem        = Error{"no deposits to redeem"}
	ErrRedemptionTooSmall        = Error{"redemption too small"}
	ErrNothingToUnbond           = Error{"nothing to unbond"}
	ErrUnbondNotReady            = Error{"unbond not ready"}
)

// translatePositionsError maps a pkg/hub/positions error into the hub's own
// taxonomy, collapsing every shape of "loss" into SharesValueLoss so a loss
// always aborts the mutation rather than spreading across users. The
// result is wrapped with a stack trace via pkg/errors (op names the
// orchestration call site) for adapter debugging; callers that need to
// distinguish the underlying sentinel use errors.Is/errors.As, which
// pkg/errors.Wrap supports via Unwrap.
func translatePositionsError(op string, err error) error {
	var translated error
	switch e := err.(type) {
	case positions.LossError:
		translated = SharesValueLoss{}
	case positions.WithdrawCollateralError:
		if e.Loss {
			translated = SharesValueLoss{}
		} else {
			translated = ErrNotEnoughCollateral
		}
	case positions.SelfLiquidateError:
		if e.Loss {
			translated = SharesValueLoss{}
		} else {
			translated = ErrNothingToLiquidate
		}
	case positions.ConvertCreditError:
		switch {
		case e.Loss:
			translated = SharesValueLoss{}
		case e.NotEnoughCredit:
			translated = ErrNotEnoughCredit
		default:
			translated = ErrInsufficientReserveBalance
		}
	case positions.RedeemReservesError:
		if e.Loss {
			translated = SharesValueLoss{}
		} else {
			translated = ErrInsufficientReserveBalance
		}
	case positions.ErrNothingToClaim:
		translated = ErrNothingToClaim
	default:
		translated = err
	}
	return errors.Wrap(translated, op)
}

// SharesValueLoss reports that a vault's pool shares are worth less than
// the deposit value they are owed. It aborts the mutation that discovered
// it rather than letting the loss spread across users; a read-only
// position query instead catches it and returns the last-known CDP with a
// VaultLossDetected flag set.
type SharesValueLoss struct{}

func (SharesValueLoss) Error() string { return "vault shares have suffered a loss in value" }
