// Package state persists the contract's storage entities on a key-value
// database. Every piece of durable state the engine owns (issuance phase,
// collection config, per-address counters, whitelist and freeze sets) goes
// through the Store; the engine never touches raw keys.
package state

import "fmt"

// IssuanceState tracks the collection-issuance lifecycle. The phases driven
// by asynchronous platform callbacks are modeled explicitly rather than as
// the absence of flags, so a crashed or failed round-trip is visible.
type IssuanceState uint8

const (
	Uninitialized IssuanceState = iota
	IssuancePending
	Issued
	RolesPending
	Ready
)

// String returns a human-readable phase name.
func (s IssuanceState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case IssuancePending:
		return "issuance-pending"
	case Issued:
		return "issued"
	case RolesPending:
		return "roles-pending"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// MintRecord holds the per-address mint counters. Created on first mint,
// monotonically incremented, never deleted.
type MintRecord struct {
	Minted       uint64 `json:"minted"`
	LastMintTime int64  `json:"last_mint_time"` // unix seconds
}
