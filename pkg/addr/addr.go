// Package addr distinguishes the two address roles this module moves value
// between: a remote validator-chain Account (an ICA/bech32 address on the
// staking chain) and a local Recipient (an address on the chain this module
// runs on). The teacher distinguishes address roles by field name
// (Owner/Worker/NewWorker, all addr.Address); we distinguish them by type
// instead so a Recipient can never be passed where an Account is expected.
package addr

import (
	"github.com/filecoin-project/go-address"
)

// Account identifies a party on the remote validator chain: the ICA that
// holds delegations, receives rewards, and is the source of a
// DelegationsReport.
type Account struct {
	a address.Address
}

// Recipient identifies a party on the local chain: a vault depositor, a CDP
// owner, the treasury, or the AMO.
type Recipient struct {
	a address.Address
}

// Undef matches address.Undef: the zero value, never a valid address.
func UndefAccount() Account     { return Account{a: address.Undef} }
func UndefRecipient() Recipient { return Recipient{a: address.Undef} }

func NewAccount(a address.Address) Account     { return Account{a: a} }
func NewRecipient(a address.Address) Recipient { return Recipient{a: a} }

func ParseAccount(s string) (Account, error) {
	a, err := address.NewFromString(s)
	if err != nil {
		return Account{}, err
	}
	return Account{a: a}, nil
}

func ParseRecipient(s string) (Recipient, error) {
	a, err := address.NewFromString(s)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{a: a}, nil
}

func (a Account) Address() address.Address     { return a.a }
func (r Recipient) Address() address.Address    { return r.a }
func (a Account) String() string                { return a.a.String() }
func (r Recipient) String() string              { return r.a.String() }
func (a Account) Empty() bool                   { return a.a == address.Undef }
func (r Recipient) Empty() bool                 { return r.a == address.Undef }
func (a Account) Equals(other Account) bool     { return a.a == other.a }
func (r Recipient) Equals(other Recipient) bool { return r.a == other.a }
