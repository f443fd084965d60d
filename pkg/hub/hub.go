package hub

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// loadVault resolves a registered vault's config, economic bookkeeping and
// redemption rate, failing with the hub's own not-found/not-registered
// errors rather than letting a missing lookup panic.
func loadVault(vaults Vaults, id VaultId) (VaultConfig, positions.Vault, vault.RedemptionRate, bool, error) {
	cfg, ok := vaults.Config(id)
	if !ok {
		return VaultConfig{}, positions.Vault{}, vault.RedemptionRate{}, false, ErrVaultNotFound
	}
	econ, ok := vaults.Economic(id)
	if !ok {
		return VaultConfig{}, positions.Vault{}, vault.RedemptionRate{}, false, ErrVaultNotRegistered
	}
	rr, haveRate := vaults.Rate(id).rate()
	return cfg, econ, rr, haveRate, nil
}

// syncVault runs update_vault against the freshest redemption rate and
// folds the result into econ, translating any LossError into the hub's
// SharesValueLoss so it propagates unchanged per §7's propagation policy.
func syncVault(econ positions.Vault, rr vault.RedemptionRate, haveRate bool, cfg VaultConfig) (positions.Vault, error) {
	updated, err := positions.UpdateVault(econ, rr, haveRate, cfg.AmoAllocation, cfg.CollateralYieldFee, cfg.ReserveYieldFee)
	if err != nil {
		return positions.Vault{}, translatePositionsError("hub: sync vault", err)
	}
	if updated != nil {
		econ = *updated
	}
	return econ, nil
}

// RegisterVault admits a new vault into the hub. The underlying asset's
// decimals must equal the synthetic's, per the registration invariant.
func RegisterVault(vaults Vaults, synth SyntheticMint, id VaultId, cfg VaultConfig) (Cmd, error) {
	if _, ok := vaults.Config(id); ok {
		return Cmd{}, ErrVaultAlreadyRegistered
	}
	decimals, ok := synth.SyntheticDecimals(cfg.SyntheticAsset)
	if !ok {
		return Cmd{}, ErrSyntheticNotFound
	}
	if decimals != cfg.UnderlyingDecimals {
		return Cmd{}, ErrDecimalsMismatch
	}
	cfg.SyntheticDecimals = decimals
	return Cmd{Kind: CmdRegisterVault, Vault: id, Config: cfg}, nil
}

// DepositRequest is the operation-specific input to BeginDeposit.
type DepositRequest struct {
	Vault     VaultId
	Sender    addr.Account
	Account   addr.Account
	Recipient addr.Recipient
	Amount    vault.DepositAmount
	Reason    CallbackReason
}

// BeginDeposit validates a vault-deposit request and emits the first half
// of the two-phase operation described in the orchestration design: a
// VaultCmd::Deposit for the strategy to fulfill, plus the PendingDeposit the
// host must persist and return on the strategy's callback.
func BeginDeposit(vaults Vaults, req DepositRequest) ([]Cmd, PendingDeposit, error) {
	cfg, _, _, _, err := loadVault(vaults, req.Vault)
	if err != nil {
		return nil, PendingDeposit{}, err
	}
	if !cfg.DepositsEnabled {
		return nil, PendingDeposit{}, ErrVaultNotRegistered
	}
	if !proxyMatches(cfg.DepositProxy, cfg.HasDepositProxy, req.Sender) {
		return nil, PendingDeposit{}, ErrUnauthorized
	}
	if req.Amount.IsZero() {
		return nil, PendingDeposit{}, ErrCannotDepositZero
	}

	pending := PendingDeposit{Vault: req.Vault, Account: req.Account, CallbackRecipient: req.Recipient, Reason: req.Reason}
	cmd := Cmd{
		Kind:              CmdVaultDeposit,
		Vault:             req.Vault,
		DepositAsset:      cfg.DepositAsset,
		DepositAmount:     req.Amount,
		CallbackRecipient: req.Recipient,
		CallbackReason:    req.Reason,
	}
	return []Cmd{cmd}, pending, nil
}

// CompleteDeposit applies a strategy's deposit callback once it reports the
// shares issued and the deposit's value: add to the collateral pool and CDP
// collateral (Deposit), repay debt from the reserve pool (RepayUnderlying),
// or mint synthetic funded by the reserve pool (Mint).
func CompleteDeposit(
	vaults Vaults, bs BalanceSheet, pending PendingDeposit,
	issuedShares vault.SharesAmount, depositValue vault.DepositValue,
) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, pending.Vault)
	if err != nil {
		return nil, err
	}
	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := bs.Cdp(pending.Vault, pending.Account)
	cdp = positions.UpdateCdp(econ, cdp)

	switch pending.Reason {
	case CallbackDeposit:
		econ, cdp = positions.DepositCollateral(econ, cdp, depositValue.Value(), issuedShares)
		return []Cmd{setEconomicCmd(pending.Vault, econ), setCdpCmd(pending.Vault, pending.Account, cdp)}, nil

	case CallbackRepayUnderlying:
		econ = addReserve(econ, depositValue.Value(), issuedShares)
		cdp = positions.Repay(cdp, depositValue.Value())
		return []Cmd{setEconomicCmd(pending.Vault, econ), setCdpCmd(pending.Vault, pending.Account, cdp)}, nil

	default: // CallbackMint
		econ = addReserve(econ, depositValue.Value(), issuedShares)
		mint := mintCmd(cfg.SyntheticAsset, depositValue.Value(), pending.CallbackRecipient)
		return []Cmd{setEconomicCmd(pending.Vault, econ), mint}, nil
	}
}

// addReserve is the orchestration-layer mirror of pools.go's unexported
// addVaultReserves, needed here because CompleteDeposit folds proceeds
// straight into the reserve pool rather than through a positions.go entry
// point that takes a CDP.
func addReserve(v positions.Vault, amount num.Uint128, shares vault.SharesAmount) positions.Vault {
	v.ReservePool.Quota = v.ReservePool.Quota.Add(amount)
	v.ReservePool.Shares = vault.NewSharesAmount(v.ReservePool.Shares.Value().Add(shares.Value()))
	return v
}

// Advance lets an account borrow synthetic against their collateral.
func Advance(vaults Vaults, bs BalanceSheet, oracle AdvanceFeeOracle, id VaultId, sender, account addr.Account, recipient addr.Recipient, amount num.Uint128) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if !cfg.AdvanceEnabled {
		return nil, ErrVaultNotRegistered
	}
	if !proxyMatches(cfg.AdvanceProxy, cfg.HasAdvanceProxy, sender) {
		return nil, ErrUnauthorized
	}
	if amount.IsZero() {
		return nil, ErrCannotAdvanceZero
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := positions.UpdateCdp(econ, bs.Cdp(id, account))

	fee, hasFee := cfg.AdvanceFee, cfg.HasAdvanceFee
	if cfg.HasFeeOracle {
		if recipientFee, ok := oracle.AdvanceFee(cfg.AdvanceFeeOracle, recipient); ok {
			fee, hasFee = recipientFee, true
		}
	}

	adv, ok := positions.AdvanceCdp(cdp, amount, cfg.MaxLtv, fee, hasFee)
	if !ok {
		return nil, ErrMaxLtvExceeded
	}

	cmds := []Cmd{setEconomicCmd(id, econ), setCdpCmd(id, account, adv.Cdp), mintCmd(cfg.SyntheticAsset, adv.Amount, recipient)}
	if adv.HasFee && cfg.HasAdvanceFeeRecipient {
		cmds = append(cmds, mintCmd(cfg.SyntheticAsset, adv.Fee, cfg.AdvanceFeeRecipient))
	}
	return cmds, nil
}

// Repay applies a synthetic payment against an account's debt.
func Repay(vaults Vaults, bs BalanceSheet, id VaultId, sender, account addr.Account, amount num.Uint128) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrCannotRepayZero
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := positions.UpdateCdp(econ, bs.Cdp(id, account))
	cdp = positions.Repay(cdp, amount)

	return []Cmd{
		setEconomicCmd(id, econ),
		setCdpCmd(id, account, cdp),
		burnCmd(cfg.SyntheticAsset, amount, sender),
	}, nil
}

// WithdrawCollateral lets an account pull collateral out of their CDP,
// subject to the vault's max LTV.
func WithdrawCollateral(vaults Vaults, bs BalanceSheet, id VaultId, account addr.Account, recipient addr.Recipient, amount num.Uint128) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrCannotWithdrawZero
	}
	if !haveRate {
		return nil, SharesValueLoss{}
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := positions.UpdateCdp(econ, bs.Cdp(id, account))

	newEcon, newCdp, shares, perr := positions.WithdrawCollateral(econ, cdp, amount, cfg.MaxLtv, rr, haveRate)
	if perr != nil {
		return nil, translatePositionsError("hub: withdraw collateral", perr)
	}

	return []Cmd{
		setEconomicCmd(id, newEcon),
		setCdpCmd(id, account, newCdp),
		vaultRedeemCmd(id, shares, recipient),
	}, nil
}

// SelfLiquidate zeroes an account's CDP out entirely: any credit mints
// back to the account, and any remaining collateral is queued for
// redemption.
func SelfLiquidate(vaults Vaults, bs BalanceSheet, id VaultId, account addr.Account, recipient addr.Recipient) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := positions.UpdateCdp(econ, bs.Cdp(id, account))

	result, perr := positions.SelfLiquidate(econ, cdp, rr, haveRate)
	if perr != nil {
		return nil, translatePositionsError("hub: self liquidate", perr)
	}

	cmds := []Cmd{setEconomicCmd(id, result.Vault), setCdpCmd(id, account, result.Cdp)}
	if result.HasMintCredit {
		cmds = append(cmds, mintCmd(cfg.SyntheticAsset, result.MintCredit, recipient))
	}
	if result.HasRedeem {
		cmds = append(cmds, vaultRedeemCmd(id, result.RedeemShares, recipient))
	}
	return cmds, nil
}

// ConvertCredit moves an account's accrued credit back into collateral.
func ConvertCredit(vaults Vaults, bs BalanceSheet, id VaultId, account addr.Account, amount num.Uint128) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrCannotConvertZero
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}
	cdp := positions.UpdateCdp(econ, bs.Cdp(id, account))

	newEcon, newCdp, perr := positions.ConvertCredit(econ, cdp, amount, rr, haveRate)
	if perr != nil {
		return nil, translatePositionsError("hub: convert credit", perr)
	}

	return []Cmd{setEconomicCmd(id, newEcon), setCdpCmd(id, account, newCdp)}, nil
}

// RedeemSynthetic burns synthetic directly against the reserve pool
// (scenario: "redeem synthetic against reserve" rather than against a
// specific CDP), emitting a vault-level share redemption for the proceeds.
func RedeemSynthetic(vaults Vaults, id VaultId, sender addr.Account, recipient addr.Recipient, amount num.Uint128) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrCannotRedeemZero
	}
	if !proxyMatches(cfg.RedeemProxy, cfg.HasRedeemProxy, sender) {
		return nil, ErrUnauthorized
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}

	newEcon, shares, perr := positions.RedeemReserves(econ, amount, rr, haveRate)
	if perr != nil {
		return nil, translatePositionsError("hub: redeem synthetic", perr)
	}

	return []Cmd{
		setEconomicCmd(id, newEcon),
		burnCmd(cfg.SyntheticAsset, amount, sender),
		vaultRedeemCmd(id, shares, recipient),
	}, nil
}

// ClaimTreasuryShares pays out a vault's accrued treasury shares to the
// protocol-wide treasury recipient.
func ClaimTreasuryShares(vaults Vaults, bs BalanceSheet, id VaultId) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	recipient, ok := bs.Treasury()
	if !ok {
		return nil, ErrNoTreasurySet
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}

	newEcon, shares, perr := positions.ClaimTreasuryShares(econ)
	if perr != nil {
		return nil, translatePositionsError("hub: claim treasury shares", perr)
	}

	return []Cmd{setEconomicCmd(id, newEcon), vaultRedeemCmd(id, shares, recipient)}, nil
}

// ClaimAmoShares pays out a vault's accrued AMO shares to its configured
// AMO recipient.
func ClaimAmoShares(vaults Vaults, id VaultId) ([]Cmd, error) {
	cfg, econ, rr, haveRate, err := loadVault(vaults, id)
	if err != nil {
		return nil, err
	}
	if !cfg.HasAmo {
		return nil, ErrNoAmoSet
	}

	econ, err = syncVault(econ, rr, haveRate, cfg)
	if err != nil {
		return nil, err
	}

	newEcon, shares, perr := positions.ClaimAmoShares(econ)
	if perr != nil {
		return nil, translatePositionsError("hub: claim amo shares", perr)
	}

	return []Cmd{setEconomicCmd(id, newEcon), vaultRedeemCmd(id, shares, cfg.Amo)}, nil
}
