package engine

import (
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

const maxBasisPoints = 10_000

// Owner-only address configuration.

// SetTreasuryAddress sets the anti-spam tax destination.
func (e *Engine) SetTreasuryAddress(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	return e.store.SetTreasuryAddress(addr)
}

// SetDonationTreasuryAddress sets the donation-split destination.
func (e *Engine) SetDonationTreasuryAddress(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	return e.store.SetDonationTreasuryAddress(addr)
}

// SetWithdrawalAddress sets the only address allowed to withdraw.
func (e *Engine) SetWithdrawalAddress(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	return e.store.SetWithdrawalAddress(addr)
}

// SetBondContractAddress sets the escrow vault's address.
func (e *Engine) SetBondContractAddress(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	return e.store.SetBondContractAddress(addr)
}

// SetAdministrator delegates the privileged operations to a second
// address. The owner stays privileged regardless.
func (e *Engine) SetAdministrator(caller, addr types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	return e.store.SetAdministrator(addr)
}

// Privileged (owner or administrator) collection tuning.

// SetIsPaused toggles minting and burning.
func (e *Engine) SetIsPaused(caller types.Address, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	return e.store.SetPaused(paused)
}

// SetWhiteListEnabled toggles whitelist enforcement.
func (e *Engine) SetWhiteListEnabled(caller types.Address, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	return e.store.SetWhitelistEnabled(enabled)
}

// SetAntiSpamTax sets the per-token mint tax.
func (e *Engine) SetAntiSpamTax(caller types.Address, token types.TokenIdentifier, amount *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	return e.store.SetTax(token, amount)
}

// SetMintTimeLimit sets the per-address cooldown in seconds.
func (e *Engine) SetMintTimeLimit(caller types.Address, cooldown uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	return e.store.SetMintCooldown(cooldown)
}

// SetRoyaltiesLimits sets the per-mint royalty bounds in basis points.
func (e *Engine) SetRoyaltiesLimits(caller types.Address, min, max uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if min >= max {
		return ErrMinRoyaltiesBiggerThanMax
	}
	if max > maxBasisPoints {
		return ErrMaxRoyaltiesTooHigh
	}
	return e.store.SetRoyaltyLimits(min, max)
}

// SetMaxSupply sets the per-mint supply cap.
func (e *Engine) SetMaxSupply(caller types.Address, maxSupply uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if maxSupply == 0 {
		return ErrValueMustBePositive
	}
	return e.store.SetMaxSupply(maxSupply)
}

// SetMaxDonationPercentage caps the donation split in basis points.
func (e *Engine) SetMaxDonationPercentage(caller types.Address, bp uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if bp > maxBasisPoints {
		return ErrMaxDonationExceeded
	}
	return e.store.SetMaxDonationBP(bp)
}

// SetWhiteListSpots inserts addresses into the whitelist. The list must
// be non-empty and none of the addresses may already be present; the
// first duplicate aborts the call.
func (e *Engine) SetWhiteListSpots(caller types.Address, addrs []types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if len(addrs) == 0 {
		return ErrWhitelistEmpty
	}
	for _, addr := range addrs {
		present, err := e.store.WhitelistHas(addr)
		if err != nil {
			return err
		}
		if present {
			return ErrAlreadyInWhitelist
		}
	}
	for _, addr := range addrs {
		if err := e.store.WhitelistAdd(addr); err != nil {
			return err
		}
	}
	e.logger.Info().Int("count", len(addrs)).Msg("whitelist spots added")
	return nil
}

// RemoveWhiteListSpots removes addresses from the whitelist. Every
// address must be present; the first absent one aborts the call.
func (e *Engine) RemoveWhiteListSpots(caller types.Address, addrs []types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requirePrivileged(caller); err != nil {
		return err
	}
	if len(addrs) == 0 {
		return ErrWhitelistEmpty
	}
	for _, addr := range addrs {
		present, err := e.store.WhitelistHas(addr)
		if err != nil {
			return err
		}
		if !present {
			return ErrNotInWhitelist
		}
	}
	for _, addr := range addrs {
		if err := e.store.WhitelistRemove(addr); err != nil {
			return err
		}
	}
	e.logger.Info().Int("count", len(addrs)).Msg("whitelist spots removed")
	return nil
}
