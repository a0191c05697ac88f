package engine

import (
	"github.com/datadex-tech/datamint/internal/ledger"
	"github.com/datadex-tech/datamint/internal/state"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// InitializeContract starts the collection issuance. Owner-only, once.
// The call must carry the platform's exact issuance fee in native
// currency. Cooldown, anti-spam tax and treasury are persisted before
// the asynchronous issue dispatch, so they survive an issuance failure.
func (e *Engine) InitializeContract(caller types.Address, name, ticker string,
	taxToken types.TokenIdentifier, taxAmount *uint256.Int, cooldown uint64,
	treasury types.Address, payment types.Payment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	st, err := e.store.IssuanceState()
	if err != nil {
		return err
	}
	if st != state.Uninitialized {
		return ErrContractAlreadyInitialized
	}
	fee := uint256.NewInt(e.policy.IssueFee)
	if !payment.Token.IsNative() || payment.Amount == nil || !payment.Amount.Eq(fee) {
		return ErrIssueCost
	}

	if err := e.store.SetMintCooldown(cooldown); err != nil {
		return err
	}
	if err := e.store.SetTax(taxToken, taxAmount); err != nil {
		return err
	}
	if err := e.store.SetTreasuryAddress(treasury); err != nil {
		return err
	}
	if err := e.store.SetIssuanceState(state.IssuancePending); err != nil {
		return err
	}

	if err := e.ledger.Issue(name, ticker, fee); err != nil {
		return err
	}
	e.logger.Info().Str("name", name).Str("ticker", ticker).Msg("collection issuance dispatched")
	return nil
}

// OnIssueResult is the platform callback resolving the issuance. On
// success the token identifier is stored write-once. On failure the
// returned fee goes back to the owner and the state machine rewinds so
// the owner can retry.
func (e *Engine) OnIssueResult(res ledger.IssueResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.store.IssuanceState()
	if err != nil {
		return err
	}
	if st != state.IssuancePending {
		return ErrTokenAlreadyIssued
	}

	if !res.OK {
		if err := e.sendTokens(e.owner, res.Returned.Token, res.Returned.Nonce, res.Returned.Amount); err != nil {
			return err
		}
		if err := e.store.SetIssuanceState(state.Uninitialized); err != nil {
			return err
		}
		e.logger.Warn().Msg("collection issuance failed, fee refunded")
		return nil
	}

	if err := e.store.SetTokenID(res.TokenID); err != nil {
		return err
	}
	if err := e.store.SetIssuanceState(state.Issued); err != nil {
		return err
	}
	e.logger.Info().Str("token", string(res.TokenID)).Msg("collection issued")
	return nil
}

// SetLocalRoles requests the contract's create/burn/add-quantity
// capabilities from the platform. Owner-only, requires an issued token.
func (e *Engine) SetLocalRoles(caller types.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	st, err := e.store.IssuanceState()
	if err != nil {
		return err
	}
	if st != state.Issued {
		return ErrTokenNotIssued
	}
	tokenID, err := e.store.TokenID()
	if err != nil {
		return err
	}

	if err := e.store.SetIssuanceState(state.RolesPending); err != nil {
		return err
	}
	roles := []ledger.Role{ledger.RoleNFTCreate, ledger.RoleNFTBurn, ledger.RoleNFTAddQuantity}
	if err := e.ledger.SetSpecialRoles(tokenID, roles); err != nil {
		return err
	}
	e.logger.Info().Str("token", string(tokenID)).Msg("role grant dispatched")
	return nil
}

// OnSetRolesResult resolves the role grant. Failure is not compensated;
// the operator retries SetLocalRoles.
func (e *Engine) OnSetRolesResult(res ledger.CallResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.store.IssuanceState()
	if err != nil {
		return err
	}
	if st != state.RolesPending {
		return ErrTokenNotIssued
	}

	if !res.OK {
		if err := e.store.SetIssuanceState(state.Issued); err != nil {
			return err
		}
		e.logger.Warn().Msg("role grant failed, retry required")
		return nil
	}

	if err := e.store.SetIssuanceState(state.Ready); err != nil {
		return err
	}
	e.logger.Info().Msg("roles granted, minting enabled")
	return nil
}
