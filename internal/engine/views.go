package engine

import (
	"github.com/datadex-tech/datamint/internal/state"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// UserDataOut is the all-in-one projection the dashboard reads with a
// single call.
type UserDataOut struct {
	AntiSpamTaxValue *uint256.Int `json:"anti_spam_tax_value"`
	IsPaused         bool         `json:"is_paused"`
	MinRoyalties     uint64       `json:"min_royalties"`
	MaxRoyalties     uint64       `json:"max_royalties"`
	MaxSupply        uint64       `json:"max_supply"`
	MintTimeLimit    uint64       `json:"mint_time_limit"`
	LastMintTime     int64        `json:"last_mint_time"`
	WhitelistEnabled bool         `json:"whitelist_enabled"`
	IsWhitelisted    bool         `json:"is_whitelisted"`
	CollectionFrozen bool         `json:"collection_frozen"`
	FrozenNonces     []uint64     `json:"frozen_nonces"`
}

// UserData aggregates everything the frontend needs about one address.
func (e *Engine) UserData(addr types.Address, taxToken types.TokenIdentifier) (UserDataOut, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out UserDataOut
	var err error

	if out.AntiSpamTaxValue, err = e.store.Tax(taxToken); err != nil {
		return out, err
	}
	if out.IsPaused, err = e.store.IsPaused(); err != nil {
		return out, err
	}
	if out.MinRoyalties, out.MaxRoyalties, err = e.store.RoyaltyLimits(); err != nil {
		return out, err
	}
	if out.MaxSupply, err = e.store.MaxSupply(); err != nil {
		return out, err
	}
	if out.MintTimeLimit, err = e.store.MintCooldown(); err != nil {
		return out, err
	}
	rec, err := e.store.MintRecord(addr)
	if err != nil {
		return out, err
	}
	out.LastMintTime = rec.LastMintTime
	if out.WhitelistEnabled, err = e.store.WhitelistEnabled(); err != nil {
		return out, err
	}
	if out.IsWhitelisted, err = e.store.WhitelistHas(addr); err != nil {
		return out, err
	}
	if out.CollectionFrozen, err = e.store.CollectionFreezeHas(addr); err != nil {
		return out, err
	}
	if out.FrozenNonces, err = e.store.UnitFreezeNonces(addr); err != nil {
		return out, err
	}
	return out, nil
}

// TokenID returns the issued collection identifier, empty until
// issuance completes.
func (e *Engine) TokenID() (types.TokenIdentifier, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.TokenID()
}

// IssuanceState returns the current lifecycle phase.
func (e *Engine) IssuanceState() (state.IssuanceState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.IssuanceState()
}

// IsPaused returns the mint pause flag.
func (e *Engine) IsPaused() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.IsPaused()
}

// MintedTotal returns the global count of minted units.
func (e *Engine) MintedTotal() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.MintedTotal()
}

// MintedForAddress returns one address's mint counters.
func (e *Engine) MintedForAddress(addr types.Address) (state.MintRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.MintRecord(addr)
}

// FrozenCount returns the cached frozen-nonce count for an address.
func (e *Engine) FrozenCount(addr types.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.FrozenCount(addr)
}

// FrozenAddresses lists every collection-frozen address.
func (e *Engine) FrozenAddresses() ([]types.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.CollectionFreezeList()
}
