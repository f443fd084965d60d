package memstore

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
)

// HubStore is a map-backed Vaults, BalanceSheet, AdvanceFeeOracle, and
// SyntheticMint all at once, plus the ledger of minted synthetic-asset
// balances those capabilities don't otherwise expose — enough to drive a
// full register/deposit/advance/repay/redeem cycle against the hub
// package without a real chain underneath it.
type HubStore struct {
	configs  map[hub.VaultId]hub.VaultConfig
	economic map[hub.VaultId]positions.Vault
	rates    map[hub.VaultId]hub.RedemptionRateInput

	treasury    addr.Recipient
	hasTreasury bool
	cdps        map[hub.VaultId]map[string]positions.Cdp

	advanceFees map[string]num.AdvanceFee // oracle.String()+"|"+recipient.String()
	hasFee      map[string]bool

	syntheticDecimals map[string]common.Decimals

	balances map[string]map[string]uint64 // asset.String() -> account.String() -> balance
}

func NewHubStore() *HubStore {
	return &HubStore{
		configs:           map[hub.VaultId]hub.VaultConfig{},
		economic:          map[hub.VaultId]positions.Vault{},
		rates:             map[hub.VaultId]hub.RedemptionRateInput{},
		cdps:              map[hub.VaultId]map[string]positions.Cdp{},
		advanceFees:       map[string]num.AdvanceFee{},
		hasFee:            map[string]bool{},
		syntheticDecimals: map[string]common.Decimals{},
		balances:          map[string]map[string]uint64{},
	}
}

func (s *HubStore) SetTreasury(r addr.Recipient) { s.treasury = r; s.hasTreasury = true }

func (s *HubStore) SetRate(id hub.VaultId, r hub.RedemptionRateInput) { s.rates[id] = r }

func (s *HubStore) SetSyntheticDecimals(asset common.Asset, d common.Decimals) {
	s.syntheticDecimals[string(asset)] = d
}

// Vaults

func (s *HubStore) Config(id hub.VaultId) (hub.VaultConfig, bool) {
	c, ok := s.configs[id]
	return c, ok
}
func (s *HubStore) Economic(id hub.VaultId) (positions.Vault, bool) {
	e, ok := s.economic[id]
	return e, ok
}
func (s *HubStore) Rate(id hub.VaultId) hub.RedemptionRateInput { return s.rates[id] }

// BalanceSheet

func (s *HubStore) Treasury() (addr.Recipient, bool) { return s.treasury, s.hasTreasury }
func (s *HubStore) Cdp(id hub.VaultId, account addr.Account) positions.Cdp {
	m, ok := s.cdps[id]
	if !ok {
		return positions.Cdp{}
	}
	return m[account.String()]
}

// AdvanceFeeOracle

func (s *HubStore) AdvanceFee(oracle hub.VaultId, recipient addr.Recipient) (num.AdvanceFee, bool) {
	key := string(oracle) + "|" + recipient.String()
	return s.advanceFees[key], s.hasFee[key]
}

// SetAdvanceFee seeds a dynamic oracle-resolved advance fee for a
// (oracle, recipient) pair.
func (s *HubStore) SetAdvanceFee(oracle hub.VaultId, recipient addr.Recipient, fee num.AdvanceFee) {
	key := string(oracle) + "|" + recipient.String()
	s.advanceFees[key] = fee
	s.hasFee[key] = true
}

// SyntheticMint

func (s *HubStore) SyntheticDecimals(asset common.Asset) (common.Decimals, bool) {
	d, ok := s.syntheticDecimals[string(asset)]
	return d, ok
}

// RegisterVault seeds a vault's static config directly, mirroring what
// applying a CmdRegisterVault would do against a real host.
func (s *HubStore) RegisterVault(id hub.VaultId, cfg hub.VaultConfig) {
	s.configs[id] = cfg
	s.economic[id] = positions.Vault{}
}

// Apply commits a hub operation's Cmds: mint/burn ledger entries, vault
// registration/config writes, and balance-sheet economic/CDP updates.
func (s *HubStore) Apply(cmds []hub.Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case hub.CmdMint:
			if c.HasTo {
				s.credit(c.Asset, c.To.String(), c.Amount.BigInt().Uint64())
			}
		case hub.CmdBurn:
			if c.HasFrom {
				s.debit(c.Asset, c.From.String(), c.Amount.BigInt().Uint64())
			}
		case hub.CmdRegisterVault, hub.CmdSetVaultConfig:
			s.configs[c.Vault] = c.Config
		case hub.CmdSetEconomic:
			s.economic[c.Vault] = c.Economic
		case hub.CmdSetCdp:
			m, ok := s.cdps[c.Vault]
			if !ok {
				m = map[string]positions.Cdp{}
				s.cdps[c.Vault] = m
			}
			m[c.Account.String()] = c.Cdp
		}
	}
}

func (s *HubStore) credit(asset common.Asset, account string, amount uint64) {
	m, ok := s.balances[string(asset)]
	if !ok {
		m = map[string]uint64{}
		s.balances[string(asset)] = m
	}
	m[account] += amount
}

func (s *HubStore) debit(asset common.Asset, account string, amount uint64) {
	m, ok := s.balances[string(asset)]
	if !ok {
		return
	}
	m[account] -= amount
}

// Balance reports a synthetic or shares balance credited/debited by Apply,
// for tests to assert the ledger side of a mint/burn.
func (s *HubStore) Balance(asset common.Asset, account string) uint64 {
	m, ok := s.balances[string(asset)]
	if !ok {
		return 0
	}
	return m[account]
}
