package hub

import (
	"github.com/vaulthub/core/pkg/addr"
	"github.com/vaulthub/core/pkg/common"
	"github.com/vaulthub/core/pkg/hub/positions"
	"github.com/vaulthub/core/pkg/num"
)

// Vaults is the hub-side read capability over vault registration and
// economic state. Orchestration functions never write through it — every
// mutation is expressed as a returned Cmd for the host to apply.
type Vaults interface {
	Config(id VaultId) (VaultConfig, bool)
	Economic(id VaultId) (positions.Vault, bool)
	Rate(id VaultId) RedemptionRateInput
}

// BalanceSheet reads per-(vault,account) CDPs and the protocol treasury
// recipient.
type BalanceSheet interface {
	Treasury() (addr.Recipient, bool)
	Cdp(id VaultId, account addr.Account) positions.Cdp
}

// AdvanceFeeOracle resolves a dynamic advance fee override for a given
// oracle/recipient pair, when a vault defers its fee to one instead of
// carrying a fixed rate.
type AdvanceFeeOracle interface {
	AdvanceFee(oracle VaultId, recipient addr.Recipient) (num.AdvanceFee, bool)
}

// SyntheticMint resolves a synthetic asset's configured decimal places at
// registration time, used to enforce the decimals-match invariant.
type SyntheticMint interface {
	SyntheticDecimals(asset common.Asset) (common.Decimals, bool)
}
