// Package common holds the small set of primitive types shared across the
// vault, hub, and reconciliation packages — akin to a top-level abi
// package (ChainEpoch, TokenAmount, ...): plain named types with no
// behavior beyond equality and string rendering.
package common

// Asset identifies a fungible denomination (a deposit asset, a vault's
// shares asset, or a synthetic asset) by its on-chain denom string.
type Asset string

// Decimals is the number of decimal places a denomination is displayed with.
type Decimals uint8

// Identifier is a generic string handle used for vault ids, treasury ids,
// oracle ids, and AMO ids — anywhere the hub needs to name a thing that
// isn't itself an on-chain address.
type Identifier string
