package engine

import (
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// sendTokens forwards an amount from the contract's balance, skipping
// zero transfers.
func (e *Engine) sendTokens(to types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	return e.ledger.Transfer(to, token, nonce, amount)
}

// Withdraw moves accrued third-party royalties out of the contract's
// own balance. Only the configured withdrawal address may call it.
func (e *Engine) Withdraw(caller types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	withdrawal, err := e.store.WithdrawalAddress()
	if err != nil {
		return err
	}
	if withdrawal.IsZero() {
		return ErrWithdrawalAddressNotSet
	}
	if caller != withdrawal {
		return ErrOnlyWithdrawalAddress
	}
	if amount == nil || amount.IsZero() {
		return ErrValueMustBePositive
	}

	balance, err := e.ledger.Balance(token, nonce)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return ErrNotEnoughFunds
	}

	if err := e.sendTokens(caller, token, nonce, amount); err != nil {
		return err
	}
	e.logger.Info().
		Str("token", string(token)).
		Uint64("nonce", nonce).
		Str("amount", amount.Dec()).
		Msg("withdrawal executed")
	return nil
}
