package positions

import "github.com/vaulthub/core/pkg/vault"

// ErrNothingToClaim reports an attempt to claim a zero-balance share bucket.
type ErrNothingToClaim struct{}

func (ErrNothingToClaim) Error() string { return "nothing to claim" }

// ClaimTreasuryShares zeroes and returns the vault's unclaimed treasury
// shares.
func ClaimTreasuryShares(v Vault) (Vault, vault.SharesAmount, error) {
	shares := v.TreasuryShares
	if shares.IsZero() {
		return Vault{}, vault.SharesAmount{}, ErrNothingToClaim{}
	}
	v.TreasuryShares = vault.SharesAmount{}
	return v, shares, nil
}

// ClaimAmoShares zeroes and returns the vault's unclaimed AMO shares. This
// reads vault.AmoShares, not vault.TreasuryShares — see DESIGN.md for why
// that's the correct field here.
func ClaimAmoShares(v Vault) (Vault, vault.SharesAmount, error) {
	shares := v.AmoShares
	if shares.IsZero() {
		return Vault{}, vault.SharesAmount{}, ErrNothingToClaim{}
	}
	v.AmoShares = vault.SharesAmount{}
	return v, shares, nil
}
