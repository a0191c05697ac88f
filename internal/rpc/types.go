package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeUnauthorized   = -32001
	CodeReverted       = -32002
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Auth envelope ───────────────────────────────────────────────────────

// SignedParam is the params envelope of every mutating method. The
// signature is Schnorr over BLAKE3(method || canonical call JSON); the
// caller address is derived from the public key.
type SignedParam struct {
	Call      json.RawMessage `json:"call"`
	PubKey    string          `json:"pubkey"`    // hex, compressed 33 bytes
	Signature string          `json:"signature"` // hex, 64 bytes
}

// ── Shared param pieces ─────────────────────────────────────────────────

// PaymentParam is an attached transfer in wire form.
type PaymentParam struct {
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce,omitempty"`
	Amount string `json:"amount"` // decimal
}

// Payment converts the wire form, rejecting malformed amounts.
func (p PaymentParam) Payment() (types.Payment, error) {
	amount, err := uint256.FromDecimal(p.Amount)
	if err != nil {
		return types.Payment{}, fmt.Errorf("invalid amount %q", p.Amount)
	}
	return types.NewPayment(types.TokenIdentifier(p.Token), p.Nonce, amount), nil
}

// ── Mutating call types ─────────────────────────────────────────────────

// InitializeCall is the call body of minter_initializeContract.
type InitializeCall struct {
	Name      string       `json:"name"`
	Ticker    string       `json:"ticker"`
	TaxToken  string       `json:"tax_token"`
	TaxAmount string       `json:"tax_amount"` // decimal
	Cooldown  uint64       `json:"cooldown"`   // seconds
	Treasury  string       `json:"treasury"`
	Payment   PaymentParam `json:"payment"`
}

// MintCall is the call body of minter_mint.
type MintCall struct {
	DataStreamURL  string       `json:"data_stream_url"`
	DataPreviewURL string       `json:"data_preview_url"`
	DataMarshalURL string       `json:"data_marshal_url"`
	MediaURL       string       `json:"media_url"`
	MetadataURL    string       `json:"metadata_url"`
	ExtraAssets    []string     `json:"extra_assets,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Royalties      uint64       `json:"royalties"`
	Supply         uint64       `json:"supply"`
	LockPeriod     uint64       `json:"lock_period"`
	DonationBP     uint64       `json:"donation_bp,omitempty"`
	Payment        PaymentParam `json:"payment"`
}

// BurnCall is the call body of minter_burn.
type BurnCall struct {
	Payment PaymentParam `json:"payment"`
}

// WithdrawCall is the call body of minter_withdraw.
type WithdrawCall struct {
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce,omitempty"`
	Amount string `json:"amount"` // decimal
}

// AddressCall is the call body of the single-address admin setters and
// the collection freeze endpoints.
type AddressCall struct {
	Address string `json:"address"`
}

// AddressListCall is the call body of the whitelist batch endpoints.
type AddressListCall struct {
	Addresses []string `json:"addresses"`
}

// BoolCall is the call body of the toggle setters.
type BoolCall struct {
	Value bool `json:"value"`
}

// UintCall is the call body of the numeric setters.
type UintCall struct {
	Value uint64 `json:"value"`
}

// TaxCall is the call body of admin_setAntiSpamTax.
type TaxCall struct {
	Token  string `json:"token"`
	Amount string `json:"amount"` // decimal
}

// RoyaltiesLimitsCall is the call body of admin_setRoyaltiesLimits.
type RoyaltiesLimitsCall struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

// NonceAddressCall is the call body of the single-unit freeze endpoints.
type NonceAddressCall struct {
	Nonce   uint64 `json:"nonce"`
	Address string `json:"address"`
}

// ── View param/result types ─────────────────────────────────────────────

// UserDataParam is used by view_getUserData.
type UserDataParam struct {
	Address  string `json:"address"`
	TaxToken string `json:"tax_token"`
}

// AddressParam is used by the per-address views.
type AddressParam struct {
	Address string `json:"address"`
}

// AckResult is returned by mutating calls with no other payload.
type AckResult struct {
	OK bool `json:"ok"`
}

// MintResult is returned by minter_mint.
type MintResult struct {
	Nonce      uint64 `json:"nonce"`
	Attributes any    `json:"attributes"`
}

// StatusResult is returned by minter_getStatus.
type StatusResult struct {
	IssuanceState string `json:"issuance_state"`
	TokenID       string `json:"token_id"`
	IsPaused      bool   `json:"is_paused"`
	MintedTotal   uint64 `json:"minted_total"`
	Owner         string `json:"owner"`
}

// FrozenResult is returned by view_getFrozen.
type FrozenResult struct {
	Address     string   `json:"address"`
	FrozenCount uint64   `json:"frozen_count"`
	Nonces      []uint64 `json:"nonces"`
}

// FrozenAddressesResult is returned by view_getFrozenAddresses.
type FrozenAddressesResult struct {
	Count     int      `json:"count"`
	Addresses []string `json:"addresses"`
}
