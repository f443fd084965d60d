package hub

import "github.com/vaulthub/core/pkg/vault"

// rate derives a vault.RedemptionRate from a RedemptionRateInput, returning
// ok=false when no shares or no deposit value exist yet (mirrors the
// positions package's (rr, haveRate) convention throughout this package).
func (r RedemptionRateInput) rate() (vault.RedemptionRate, bool) {
	if !r.HaveRate {
		return vault.RedemptionRate{}, false
	}
	return vault.NewRedemptionRate(
		vault.NewTotalSharesIssued(r.TotalSharesIssued),
		vault.NewTotalDepositsValue(r.TotalDepositsValue),
	)
}
