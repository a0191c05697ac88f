package engine

import (
	"github.com/datadex-tech/datamint/pkg/types"
)

// Freeze restricts an address for the whole collection. Owner-only.
// The set insert is durable before the asynchronous platform call, per
// the platform's dispatch semantics.
func (e *Engine) Freeze(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	present, err := e.store.CollectionFreezeHas(addr)
	if err != nil {
		return err
	}
	if present {
		return ErrAddressInCollectionFreezeList
	}
	if err := e.store.CollectionFreezeAdd(addr); err != nil {
		return err
	}

	if err := e.ledger.FreezeAddress(tokenID, addr); err != nil {
		return err
	}
	e.logger.Info().Str("address", addr.String()).Msg("collection freeze dispatched")
	return nil
}

// Unfreeze lifts a collection-wide restriction. Owner-only.
func (e *Engine) Unfreeze(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	present, err := e.store.CollectionFreezeHas(addr)
	if err != nil {
		return err
	}
	if !present {
		return ErrAddressNotInCollectionFreezeList
	}
	if err := e.store.CollectionFreezeRemove(addr); err != nil {
		return err
	}

	if err := e.ledger.UnfreezeAddress(tokenID, addr); err != nil {
		return err
	}
	e.logger.Info().Str("address", addr.String()).Msg("collection unfreeze dispatched")
	return nil
}

// PauseCollection suspends all registry operations on the collection.
// Owner-only. Distinct from SetIsPaused, which only gates the engine's
// own endpoints; this dispatches the platform-level suspension.
func (e *Engine) PauseCollection(caller types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	if err := e.ledger.PauseCollection(tokenID); err != nil {
		return err
	}
	e.logger.Info().Str("token", string(tokenID)).Msg("collection pause dispatched")
	return nil
}

// UnpauseCollection resumes registry operations on the collection.
// Owner-only.
func (e *Engine) UnpauseCollection(caller types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	if err := e.ledger.UnpauseCollection(tokenID); err != nil {
		return err
	}
	e.logger.Info().Str("token", string(tokenID)).Msg("collection unpause dispatched")
	return nil
}

// FreezeSingleNFT restricts one unit nonce for an address. Owner or
// administrator.
func (e *Engine) FreezeSingleNFT(caller types.Address, nonce uint64, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	present, err := e.store.UnitFreezeHas(addr, nonce)
	if err != nil {
		return err
	}
	if present {
		return ErrNonceInFreezeList
	}
	if err := e.store.UnitFreezeAdd(addr, nonce); err != nil {
		return err
	}
	if err := e.refreshFrozenCount(addr); err != nil {
		return err
	}

	if err := e.ledger.FreezeSingleNFT(tokenID, nonce, addr); err != nil {
		return err
	}
	e.logger.Info().Str("address", addr.String()).Uint64("nonce", nonce).Msg("unit freeze dispatched")
	return nil
}

// UnfreezeSingleNFT lifts a single-unit restriction. Owner or
// administrator.
func (e *Engine) UnfreezeSingleNFT(caller types.Address, nonce uint64, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	if err := e.removeFrozenNonce(addr, nonce); err != nil {
		return err
	}

	if err := e.ledger.UnfreezeSingleNFT(tokenID, nonce, addr); err != nil {
		return err
	}
	e.logger.Info().Str("address", addr.String()).Uint64("nonce", nonce).Msg("unit unfreeze dispatched")
	return nil
}

// WipeSingleNFT destroys a frozen unit held by an address. Owner or
// administrator; the nonce must already be frozen for the address.
func (e *Engine) WipeSingleNFT(caller types.Address, nonce uint64, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	tokenID, err := e.issuedTokenID()
	if err != nil {
		return err
	}
	if err := e.removeFrozenNonce(addr, nonce); err != nil {
		return err
	}

	if err := e.ledger.WipeSingleNFT(tokenID, nonce, addr); err != nil {
		return err
	}
	e.logger.Info().Str("address", addr.String()).Uint64("nonce", nonce).Msg("unit wipe dispatched")
	return nil
}

// issuedTokenID returns the collection token, failing while unissued.
func (e *Engine) issuedTokenID() (types.TokenIdentifier, error) {
	tokenID, err := e.store.TokenID()
	if err != nil {
		return "", err
	}
	if tokenID.IsEmpty() {
		return "", ErrTokenNotIssued
	}
	return tokenID, nil
}

// removeFrozenNonce drops a nonce from the address's freeze set and
// refreshes the denormalized count.
func (e *Engine) removeFrozenNonce(addr types.Address, nonce uint64) error {
	present, err := e.store.UnitFreezeHas(addr, nonce)
	if err != nil {
		return err
	}
	if !present {
		return ErrNonceNotFoundInFreezeList
	}
	if err := e.store.UnitFreezeRemove(addr, nonce); err != nil {
		return err
	}
	return e.refreshFrozenCount(addr)
}

// refreshFrozenCount recomputes the cached count from the set
// cardinality. Kept as a recount rather than an increment so the cache
// can never drift from the set.
func (e *Engine) refreshFrozenCount(addr types.Address) error {
	nonces, err := e.store.UnitFreezeNonces(addr)
	if err != nil {
		return err
	}
	return e.store.SetFrozenCount(addr, uint64(len(nonces)))
}
