// Package ledger defines the call contract with the host platform's token
// registry. The registry owns all token state: it issues collections,
// creates and burns unit instances, moves balances, and enforces freeze and
// wipe restrictions. The engine only ever talks to it through this
// interface; synchronous calls fail the enclosing operation, asynchronous
// dispatches terminate it and resume the engine later through a callback.
package ledger

import (
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// Role is a local token capability grantable to a contract.
type Role string

// Capabilities requested by the minter for its own address.
const (
	RoleNFTCreate      Role = "ESDTRoleNFTCreate"
	RoleNFTBurn        Role = "ESDTRoleNFTBurn"
	RoleNFTAddQuantity Role = "ESDTRoleNFTAddQuantity"
)

// IssueResult is delivered by the host after an asynchronous Issue. On
// failure the issuance fee travels back with the callback so the contract
// can refund it.
type IssueResult struct {
	OK       bool
	TokenID  types.TokenIdentifier
	Returned types.Payment
}

// CallResult is delivered by the host after any other asynchronous call.
type CallResult struct {
	OK bool
}

// Service is the registry's call surface as seen by the minter contract.
//
// Synchronous methods block the current transaction and report failure as
// an error, which the engine propagates as a full abort. Asynchronous
// methods only dispatch a request; an error means the dispatch itself was
// rejected, while the operation's outcome arrives later via the engine's
// callback entry points.
type Service interface {
	// CreateUnit mints a new unit instance of the collection to the
	// contract's own account and returns its nonce.
	CreateUnit(token types.TokenIdentifier, supply uint64, royalties uint64,
		hash types.Hash, attributes []byte, uris []string) (uint64, error)

	// Transfer moves an amount of (token, nonce) from the contract's
	// account to the destination. Nonce 0 addresses fungible balances and
	// the native currency.
	Transfer(to types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) error

	// Burn destroys a quantity of (token, nonce) held by the contract.
	Burn(token types.TokenIdentifier, nonce uint64, quantity *uint256.Int) error

	// Balance returns the contract account's balance of (token, nonce).
	Balance(token types.TokenIdentifier, nonce uint64) (*uint256.Int, error)

	// Issue requests a new semi-fungible collection, paying the issuance
	// fee. Resolves via Callbacks.OnIssueResult.
	Issue(name, ticker string, fee *uint256.Int) error

	// SetSpecialRoles requests local roles for the contract's own address.
	// Resolves via Callbacks.OnSetRolesResult.
	SetSpecialRoles(token types.TokenIdentifier, roles []Role) error

	// PauseCollection / UnpauseCollection suspend and resume all registry
	// operations on the collection. Dispatched without a callback
	// continuation.
	PauseCollection(token types.TokenIdentifier) error
	UnpauseCollection(token types.TokenIdentifier) error

	// FreezeAddress / UnfreezeAddress restrict an address for the whole
	// collection. Dispatched without a callback continuation.
	FreezeAddress(token types.TokenIdentifier, addr types.Address) error
	UnfreezeAddress(token types.TokenIdentifier, addr types.Address) error

	// FreezeSingleNFT / UnfreezeSingleNFT / WipeSingleNFT restrict or
	// destroy one unit nonce held by an address. Dispatched without a
	// callback continuation.
	FreezeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error
	UnfreezeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error
	WipeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error
}

// Callbacks are the engine entry points the host invokes, in a fresh
// transaction, when an asynchronous call resolves.
type Callbacks interface {
	OnIssueResult(res IssueResult) error
	OnSetRolesResult(res CallResult) error
}
