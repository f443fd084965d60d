package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
	"github.com/vaulthub/core/pkg/vault"
)

func u128(v uint64) num.Uint128 { return num.NewUint128FromUint64(v) }

type fakeVaults struct {
	configs  map[VaultId]VaultConfig
	economic map[VaultId]positions.Vault
	rate     map[VaultId]RedemptionRateInput
}

func newFakeVaults() *fakeVaults {
	return &fakeVaults{configs: map[VaultId]VaultConfig{}, economic: map[VaultId]positions.Vault{}, rate: map[VaultId]RedemptionRateInput{}}
}

func (f *fakeVaults) Config(id VaultId) (VaultConfig, bool) {
	c, ok := f.configs[id]
	return c, ok
}
func (f *fakeVaults) Economic(id VaultId) (positions.Vault, bool) {
	v, ok := f.economic[id]
	return v, ok
}
func (f *fakeVaults) Rate(id VaultId) RedemptionRateInput { return f.rate[id] }

type fakeSyntheticMint struct{ decimals map[common.Asset]common.Decimals }

func (f fakeSyntheticMint) SyntheticDecimals(asset common.Asset) (common.Decimals, bool) {
	d, ok := f.decimals[asset]
	return d, ok
}

type fakeBalanceSheet struct {
	treasury    addr.Recipient
	hasTreasury bool
	cdps        map[string]positions.Cdp
}

func cdpKey(id VaultId, account addr.Account) string { return string(id) + "/" + account.String() }

func (f *fakeBalanceSheet) Treasury() (addr.Recipient, bool) { return f.treasury, f.hasTreasury }
func (f *fakeBalanceSheet) Cdp(id VaultId, account addr.Account) positions.Cdp {
	return f.cdps[cdpKey(id, account)]
}
func (f *fakeBalanceSheet) setCdp(id VaultId, account addr.Account, cdp positions.Cdp) {
	f.cdps[cdpKey(id, account)] = cdp
}

type fakeOracle struct{}

func (fakeOracle) AdvanceFee(VaultId, addr.Recipient) (num.AdvanceFee, bool) { return num.AdvanceFee{}, false }

func defaultConfig() VaultConfig {
	return VaultConfig{
		DepositAsset:       "usdc",
		SharesAsset:        "vault-shares",
		SyntheticAsset:     "usdv",
		UnderlyingDecimals: 6,
		SyntheticDecimals:  6,
		DepositsEnabled:    true,
		AdvanceEnabled:     true,
		MaxLtv:             num.DefaultMaxLtv(),
		CollateralYieldFee: num.DefaultCollateralYieldFee(),
		ReserveYieldFee:    num.DefaultReserveYieldFee(),
	}
}

func TestRegisterVault(t *testing.T) {
	vaults := newFakeVaults()
	synth := fakeSyntheticMint{decimals: map[common.Asset]common.Decimals{"usdv": 6}}

	cmd, err := RegisterVault(vaults, synth, "vault-1", defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, CmdRegisterVault, cmd.Kind)

	t.Run("rejects decimals mismatch", func(t *testing.T) {
		synth := fakeSyntheticMint{decimals: map[common.Asset]common.Decimals{"usdv": 8}}
		_, err := RegisterVault(vaults, synth, "vault-2", defaultConfig())
		assert.Equal(t, ErrDecimalsMismatch, err)
	})

	t.Run("rejects double registration", func(t *testing.T) {
		vaults.configs["vault-1"] = defaultConfig()
		_, err := RegisterVault(vaults, synth, "vault-1", defaultConfig())
		assert.Equal(t, ErrVaultAlreadyRegistered, err)
	})
}

func TestBeginAndCompleteDeposit(t *testing.T) {
	vaults := newFakeVaults()
	cfg := defaultConfig()
	vaults.configs["vault-1"] = cfg
	vaults.economic["vault-1"] = positions.Vault{Spr: positions.ZeroSumPaymentRatio()}
	vaults.rate["vault-1"] = RedemptionRateInput{}

	sender, _ := addr.ParseAccount("f01")
	recipient, _ := addr.ParseRecipient("f01")

	cmds, pending, err := BeginDeposit(vaults, DepositRequest{
		Vault: "vault-1", Sender: sender, Account: sender, Recipient: recipient,
		Amount: vault.NewDepositAmount(u128(1000)), Reason: CallbackDeposit,
	})
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, CmdVaultDeposit, cmds[0].Kind)

	bs := &fakeBalanceSheet{cdps: map[string]positions.Cdp{}}
	issuedShares := vault.NewSharesAmount(u128(1000).Mul(num.NewUint128FromUint64(1_000_000_000_000)))
	depositValue := vault.NewDepositValue(u128(1000))

	completeCmds, err := CompleteDeposit(vaults, bs, pending, issuedShares, depositValue)
	require.NoError(t, err)
	require.Len(t, completeCmds, 2)
	assert.Equal(t, CmdSetEconomic, completeCmds[0].Kind)
	assert.Equal(t, "1000000000000000", completeCmds[0].Economic.CollateralPool.Shares.Value().String())
	assert.Equal(t, "1000", completeCmds[0].Economic.CollateralPool.Quota.String())
	assert.Equal(t, CmdSetCdp, completeCmds[1].Kind)
	assert.Equal(t, "1000", completeCmds[1].Cdp.Collateral.String())
}

func TestAdvanceRepayWithdraw(t *testing.T) {
	vaults := newFakeVaults()
	cfg := defaultConfig()
	vaults.configs["vault-1"] = cfg
	vaults.economic["vault-1"] = positions.Vault{
		CollateralPool: positions.SharesPool{Shares: vault.NewSharesAmount(u128(1_000_000_000_000_000_000)), Quota: u128(1000)},
		Spr:            positions.ZeroSumPaymentRatio(),
	}
	vaults.rate["vault-1"] = RedemptionRateInput{TotalSharesIssued: u128(1_000_000_000_000_000_000), TotalDepositsValue: u128(1000), HaveRate: true}

	account, _ := addr.ParseAccount("f01")
	recipient, _ := addr.ParseRecipient("f01")
	bs := &fakeBalanceSheet{cdps: map[string]positions.Cdp{}}
	bs.setCdp("vault-1", account, positions.Cdp{Collateral: u128(1000), Spr: positions.ZeroSumPaymentRatio()})

	cmds, err := Advance(vaults, bs, fakeOracle{}, "vault-1", account, account, recipient, u128(400))
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, CmdMint, cmds[2].Kind)
	assert.Equal(t, "400", cmds[2].Amount.String())

	t.Run("rejects over max ltv", func(t *testing.T) {
		_, err := Advance(vaults, bs, fakeOracle{}, "vault-1", account, account, recipient, u128(999))
		assert.Equal(t, ErrMaxLtvExceeded, err)
	})

	bs.setCdp("vault-1", account, positions.Cdp{Collateral: u128(1000), Debt: u128(400), Spr: positions.ZeroSumPaymentRatio()})

	repayCmds, err := Repay(vaults, bs, "vault-1", account, account, u128(150))
	require.NoError(t, err)
	require.Len(t, repayCmds, 3)
	assert.Equal(t, CmdBurn, repayCmds[2].Kind)
	assert.Equal(t, "250", repayCmds[1].Cdp.Debt.String())

	bs.setCdp("vault-1", account, positions.Cdp{Collateral: u128(1000), Spr: positions.ZeroSumPaymentRatio()})

	withdrawCmds, err := WithdrawCollateral(vaults, bs, "vault-1", account, recipient, u128(500))
	require.NoError(t, err)
	require.Len(t, withdrawCmds, 3)
	assert.Equal(t, CmdVaultRedeem, withdrawCmds[2].Kind)

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := WithdrawCollateral(vaults, bs, "vault-1", account, recipient, num.ZeroUint128())
		assert.Equal(t, ErrCannotWithdrawZero, err)
	})
}

func TestSelfLiquidateAndClaims(t *testing.T) {
	vaults := newFakeVaults()
	cfg := defaultConfig()
	cfg.HasAmo = true
	amoRecipient, _ := addr.ParseRecipient("f01")
	cfg.Amo = amoRecipient
	vaults.configs["vault-1"] = cfg
	vaults.economic["vault-1"] = positions.Vault{
		CollateralPool: positions.SharesPool{Shares: vault.NewSharesAmount(u128(1_000_000_000_000_000_000)), Quota: u128(1000)},
		TreasuryShares: vault.NewSharesAmount(u128(5)),
		AmoShares:      vault.NewSharesAmount(u128(7)),
		Spr:            positions.ZeroSumPaymentRatio(),
	}
	vaults.rate["vault-1"] = RedemptionRateInput{TotalSharesIssued: u128(1_000_000_000_000_000_000), TotalDepositsValue: u128(1000), HaveRate: true}

	account, _ := addr.ParseAccount("f01")
	recipient, _ := addr.ParseRecipient("f01")
	bs := &fakeBalanceSheet{treasury: recipient, hasTreasury: true, cdps: map[string]positions.Cdp{}}
	bs.setCdp("vault-1", account, positions.Cdp{Collateral: u128(1000), Debt: u128(500), Spr: positions.ZeroSumPaymentRatio()})

	liquidateCmds, err := SelfLiquidate(vaults, bs, "vault-1", account, recipient)
	require.NoError(t, err)
	require.Len(t, liquidateCmds, 3)
	assert.Equal(t, CmdVaultRedeem, liquidateCmds[2].Kind)

	treasuryCmds, err := ClaimTreasuryShares(vaults, bs, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, CmdVaultRedeem, treasuryCmds[1].Kind)
	assert.Equal(t, "5", treasuryCmds[1].RedeemShares.Value().String())

	amoCmds, err := ClaimAmoShares(vaults, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, "7", amoCmds[1].RedeemShares.Value().String())
	assert.True(t, amoCmds[1].RedeemRecipient.Equals(amoRecipient))

	t.Run("rejects claim with no amo set", func(t *testing.T) {
		cfg := vaults.configs["vault-1"]
		cfg.HasAmo = false
		vaults.configs["vault-1"] = cfg
		_, err := ClaimAmoShares(vaults, "vault-1")
		assert.Equal(t, ErrNoAmoSet, err)
	})
}
