package hub

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

// CmdKind discriminates Cmd's variants: a synthetic mint/burn, a vault-level
// deposit/redeem dispatch, a balance-sheet write, or a registration/config
// change. This mirrors the host-adapter command pattern pkg/vault already
// uses, extended with the hub's own command families.
type CmdKind int

const (
	CmdMint CmdKind = iota
	CmdBurn
	CmdRegisterVault
	CmdSetVaultConfig
	CmdVaultDeposit
	CmdVaultRedeem
	CmdSetEconomic
	CmdSetCdp
)

// Cmd is the hub's host-adapter instruction: the host inspects Kind and
// reads the populated field(s).
type Cmd struct {
	Kind CmdKind

	// CmdMint / CmdBurn
	Asset    common.Asset
	Amount   num.Uint128
	To       addr.Recipient
	From     addr.Account
	HasTo    bool
	HasFrom  bool

	// CmdRegisterVault / CmdSetVaultConfig
	Vault  VaultId
	Config VaultConfig

	// CmdVaultDeposit
	DepositAsset      common.Asset
	DepositAmount     vault.DepositAmount
	CallbackRecipient addr.Recipient
	CallbackReason    CallbackReason

	// CmdVaultRedeem
	RedeemShares    vault.SharesAmount
	RedeemRecipient addr.Recipient

	// CmdSetEconomic
	Economic positions.Vault

	// CmdSetCdp
	Account addr.Account
	Cdp     positions.Cdp
}

func mintCmd(asset common.Asset, amount num.Uint128, to addr.Recipient) Cmd {
	return Cmd{Kind: CmdMint, Asset: asset, Amount: amount, To: to, HasTo: true}
}

func burnCmd(asset common.Asset, amount num.Uint128, from addr.Account) Cmd {
	return Cmd{Kind: CmdBurn, Asset: asset, Amount: amount, From: from, HasFrom: true}
}

func setEconomicCmd(id VaultId, v positions.Vault) Cmd {
	return Cmd{Kind: CmdSetEconomic, Vault: id, Economic: v}
}

func setCdpCmd(id VaultId, account addr.Account, cdp positions.Cdp) Cmd {
	return Cmd{Kind: CmdSetCdp, Vault: id, Account: account, Cdp: cdp}
}

func vaultRedeemCmd(id VaultId, shares vault.SharesAmount, recipient addr.Recipient) Cmd {
	return Cmd{Kind: CmdVaultRedeem, Vault: id, RedeemShares: shares, RedeemRecipient: recipient}
}
