package engine

import (
	"strings"
	"time"

	"github.com/datadex-tech/datamint/pkg/types"
)

const urlScheme = "https://"

// requireOwner passes only for the deploying owner.
func (e *Engine) requireOwner(caller types.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	return nil
}

// requirePrivileged passes for the owner or the configured administrator.
func (e *Engine) requirePrivileged(caller types.Address) error {
	if caller == e.owner {
		return nil
	}
	admin, err := e.store.Administrator()
	if err != nil {
		return err
	}
	if !admin.IsZero() && caller == admin {
		return nil
	}
	return ErrNotPrivileged
}

// requireReady gates both the mint and burn paths: not paused, token
// issued, treasury configured, roles granted. Any failing conjunct maps
// to the same user-facing error.
func (e *Engine) requireReady() error {
	paused, err := e.store.IsPaused()
	if err != nil {
		return err
	}
	tokenID, err := e.store.TokenID()
	if err != nil {
		return err
	}
	treasury, err := e.store.TreasuryAddress()
	if err != nil {
		return err
	}
	roles, err := e.store.RolesSet()
	if err != nil {
		return err
	}
	if paused || tokenID.IsEmpty() || treasury.IsZero() || !roles {
		return ErrMintingAndBurningNotAllowed
	}
	return nil
}

// requireMintingAllowed enforces the per-address cooldown and, when
// enabled, whitelist membership.
func (e *Engine) requireMintingAllowed(caller types.Address, now time.Time) error {
	rec, err := e.store.MintRecord(caller)
	if err != nil {
		return err
	}
	cooldown, err := e.store.MintCooldown()
	if err != nil {
		return err
	}
	if now.Unix()-rec.LastMintTime < int64(cooldown) {
		return ErrWaitMoreTime
	}

	enabled, err := e.store.WhitelistEnabled()
	if err != nil {
		return err
	}
	if enabled {
		ok, err := e.store.WhitelistHas(caller)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotWhitelisted
		}
	}
	return nil
}

// requireValidRoyaltiesSupply bounds royalties to the configured limits
// and supply to (0, maxSupply].
func (e *Engine) requireValidRoyaltiesSupply(royalties, supply uint64) error {
	min, max, err := e.store.RoyaltyLimits()
	if err != nil {
		return err
	}
	if royalties < min {
		return ErrRoyaltiesTooSmall
	}
	if royalties > max {
		return ErrRoyaltiesTooBig
	}
	if supply == 0 {
		return ErrSupplyMustBePositive
	}
	maxSupply, err := e.store.MaxSupply()
	if err != nil {
		return err
	}
	if supply > maxSupply {
		return ErrMaxSupplyExceeded
	}
	return nil
}

// requireValidURL checks scheme, policy length bounds and character set.
// Printable ASCII only, no spaces.
func (e *Engine) requireValidURL(url string) error {
	if url == "" {
		return ErrURLIsEmpty
	}
	if len(url) < e.policy.MinURLLength {
		return ErrURLTooSmall
	}
	if len(url) > e.policy.MaxURLLength {
		return ErrURLTooBig
	}
	if !strings.HasPrefix(url, urlScheme) {
		return ErrNotURL
	}
	for i := 0; i < len(url); i++ {
		c := url[i]
		if c <= ' ' || c > '~' {
			return ErrURLInvalidCharacters
		}
	}
	return nil
}

// requireValidTitleDescription bounds the unit's content fields.
func (e *Engine) requireValidTitleDescription(title, description string) error {
	if title == "" || description == "" {
		return ErrFieldEmpty
	}
	if len(title) > e.policy.MaxTitleLength {
		return ErrTooManyChars
	}
	if len(description) > e.policy.MaxDescriptionLength {
		return ErrTooManyChars
	}
	return nil
}
