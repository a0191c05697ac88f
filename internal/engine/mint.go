package engine

import (
	"encoding/json"
	"fmt"

	"github.com/datadex-tech/datamint/pkg/crypto"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// MintRequest carries everything a mint call supplies besides the
// payment: content locations, unit metadata, and the bond terms.
type MintRequest struct {
	DataStreamURL  string
	DataPreviewURL string
	DataMarshalURL string
	MediaURL       string
	MetadataURL    string
	ExtraAssets    []string

	Title       string
	Description string
	Royalties   uint64 // Basis points.
	Supply      uint64
	LockPeriod  uint64
	DonationBP  uint64 // Basis points of supply diverted to the donation treasury.
}

// DataUnitAttributes is the immutable metadata attached to a unit at
// mint time. It is persisted by the platform as part of the unit, never
// by the contract's own storage.
type DataUnitAttributes struct {
	DataStreamURL  string        `json:"data_stream_url"`
	DataPreviewURL string        `json:"data_preview_url"`
	DataMarshalURL string        `json:"data_marshal_url"`
	Creator        types.Address `json:"creator"`
	CreationTime   int64         `json:"creation_time"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
}

// Mint validates the caller's entitlement, splits the payment into tax
// and bond, creates the unit and routes the supply. Validation strictly
// precedes mutation; the engine's own counter writes are staged and
// committed only after every external call has succeeded, so a failure
// anywhere leaves no engine state behind.
func (e *Engine) Mint(caller types.Address, req MintRequest, payment types.Payment) (DataUnitAttributes, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var none DataUnitAttributes
	now := e.now()

	// 1. Entitlement and content validation.
	if err := e.requireReady(); err != nil {
		return none, 0, err
	}
	if req.DataStreamURL == "" {
		return none, 0, ErrDataStreamEmpty
	}
	for _, url := range e.contentURLs(req) {
		if err := e.requireValidURL(url); err != nil {
			return none, 0, err
		}
	}
	if err := e.requireValidTitleDescription(req.Title, req.Description); err != nil {
		return none, 0, err
	}
	if err := e.requireValidRoyaltiesSupply(req.Royalties, req.Supply); err != nil {
		return none, 0, err
	}
	if err := e.requireMintingAllowed(caller, now); err != nil {
		return none, 0, err
	}

	// 2. Donation split.
	var donationSupply uint64
	if req.DonationBP > 0 {
		maxBP, err := e.store.MaxDonationBP()
		if err != nil {
			return none, 0, err
		}
		if req.DonationBP > maxBP {
			return none, 0, ErrMaxDonationExceeded
		}
		// Supply times basis points can exceed 64 bits, so the split
		// is computed in 256-bit space. The quotient fits: bp <= 10000.
		d := new(uint256.Int).Mul(uint256.NewInt(req.Supply), uint256.NewInt(req.DonationBP))
		donationSupply = d.Div(d, uint256.NewInt(10_000)).Uint64()
	}

	// 3. Bond quote for the lock period.
	bondAmount, err := e.bond.BondAmount(req.LockPeriod)
	if err != nil {
		return none, 0, err
	}
	if bondAmount.IsZero() {
		return none, 0, ErrWrongBondPeriod
	}

	// 4. Exact payment: tax + bond, no change-giving. A token with no
	// configured tax is not an accepted payment token.
	tax, err := e.store.Tax(payment.Token)
	if err != nil {
		return none, 0, err
	}
	if tax.IsZero() {
		return none, 0, ErrCannotBuyWithToken
	}
	required := new(uint256.Int).Add(tax, bondAmount)
	if payment.Amount == nil || !payment.Amount.Eq(required) {
		return none, 0, ErrWrongAmountOfFunds
	}

	// 5. Payment destinations. Both are resolved before any funds move
	// so a missing address cannot strand a half-routed payment.
	treasury, err := e.store.TreasuryAddress()
	if err != nil {
		return none, 0, err
	}
	bondAddr, err := e.store.BondContractAddress()
	if err != nil {
		return none, 0, err
	}
	if bondAddr.IsZero() {
		return none, 0, ErrBondContractNotSet
	}
	if err := e.sendTokens(treasury, payment.Token, payment.Nonce, tax); err != nil {
		return none, 0, err
	}

	// 6. Stage the counter updates.
	rec, err := e.store.MintRecord(caller)
	if err != nil {
		return none, 0, err
	}
	rec.Minted += req.Supply
	rec.LastMintTime = now.Unix()
	total, err := e.store.MintedTotal()
	if err != nil {
		return none, 0, err
	}
	writer := e.store.Writer()
	if err := writer.SetMintRecord(caller, rec); err != nil {
		return none, 0, err
	}
	if err := writer.SetMintedTotal(total + req.Supply); err != nil {
		return none, 0, err
	}

	// 7. Immutable attributes.
	attrs := DataUnitAttributes{
		DataStreamURL:  req.DataStreamURL,
		DataPreviewURL: req.DataPreviewURL,
		DataMarshalURL: req.DataMarshalURL,
		Creator:        caller,
		CreationTime:   now.Unix(),
		Title:          req.Title,
		Description:    req.Description,
	}
	blob, err := json.Marshal(&attrs)
	if err != nil {
		return none, 0, fmt.Errorf("attributes marshal: %w", err)
	}

	// 8. Create the unit.
	tokenID, err := e.store.TokenID()
	if err != nil {
		return none, 0, err
	}
	uris := append([]string{req.MediaURL, req.MetadataURL}, req.ExtraAssets...)
	nonce, err := e.ledger.CreateUnit(tokenID, req.Supply, req.Royalties, crypto.Hash(blob), blob, uris)
	if err != nil {
		return none, 0, err
	}

	// 9. Bond principal leaves for the escrow vault and the deposit is
	// recorded against the new unit. A failure reverts the mint.
	if err := e.sendTokens(bondAddr, payment.Token, payment.Nonce, bondAmount); err != nil {
		return none, 0, err
	}
	bondPayment := types.NewPayment(payment.Token, payment.Nonce, bondAmount)
	if err := e.bond.Deposit(caller, tokenID, nonce, req.LockPeriod, bondPayment); err != nil {
		return none, 0, err
	}

	// 10. Route the supply.
	if donationSupply > 0 {
		donationTreasury, err := e.store.DonationTreasuryAddress()
		if err != nil {
			return none, 0, err
		}
		if err := e.sendTokens(donationTreasury, tokenID, nonce, uint256.NewInt(donationSupply)); err != nil {
			return none, 0, err
		}
	}
	if err := e.sendTokens(caller, tokenID, nonce, uint256.NewInt(req.Supply-donationSupply)); err != nil {
		return none, 0, err
	}

	// 11. Commit the staged counters.
	if err := writer.Commit(); err != nil {
		return none, 0, err
	}

	e.logger.Info().
		Str("caller", caller.String()).
		Uint64("nonce", nonce).
		Uint64("supply", req.Supply).
		Uint64("donation", donationSupply).
		Msg("unit minted")
	return attrs, nonce, nil
}

// Burn destroys caller-supplied quantity of an issued unit.
func (e *Engine) Burn(caller types.Address, payment types.Payment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireReady(); err != nil {
		return err
	}
	tokenID, err := e.store.TokenID()
	if err != nil {
		return err
	}
	if payment.Token != tokenID {
		return ErrWrongPayment
	}
	if payment.Amount == nil || payment.Amount.IsZero() {
		return ErrValueMustBePositive
	}

	if err := e.ledger.Burn(payment.Token, payment.Nonce, payment.Amount); err != nil {
		return err
	}
	e.logger.Info().
		Str("caller", caller.String()).
		Uint64("nonce", payment.Nonce).
		Str("quantity", payment.Amount.Dec()).
		Msg("unit quantity burned")
	return nil
}

// contentURLs lists every URL a mint request must validate.
func (e *Engine) contentURLs(req MintRequest) []string {
	urls := []string{
		req.DataStreamURL,
		req.DataPreviewURL,
		req.DataMarshalURL,
		req.MediaURL,
		req.MetadataURL,
	}
	return append(urls, req.ExtraAssets...)
}
