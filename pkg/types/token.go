package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// NativeToken is the identifier of the platform's native currency.
// Ledger-issued tokens carry identifiers of the form "TICKER-xxxxxx".
const NativeToken TokenIdentifier = "DDX"

// TokenIdentifier identifies either the native currency or a ledger-issued
// token collection.
type TokenIdentifier string

// IsNative returns true if the identifier names the native currency.
func (t TokenIdentifier) IsNative() bool {
	return t == NativeToken
}

// IsEmpty returns true if no identifier is set.
func (t TokenIdentifier) IsEmpty() bool {
	return t == ""
}

// Ticker returns the ticker portion of an issued-token identifier
// ("DATASFT-4af9b2" -> "DATASFT"). For the native currency it returns the
// identifier itself.
func (t TokenIdentifier) Ticker() string {
	s := string(t)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// Payment is a single attached transfer accompanying a contract call:
// an amount of either native currency (nonce 0) or a ledger-issued token.
type Payment struct {
	Token  TokenIdentifier `json:"token"`
	Nonce  uint64          `json:"nonce"`
	Amount *uint256.Int    `json:"amount"`
}

// NewPayment builds a payment. A nil amount is normalized to zero.
func NewPayment(token TokenIdentifier, nonce uint64, amount *uint256.Int) Payment {
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	return Payment{Token: token, Nonce: nonce, Amount: amount}
}

// NativePayment builds a native-currency payment.
func NativePayment(amount *uint256.Int) Payment {
	return NewPayment(NativeToken, 0, amount)
}

// IsZero returns true if the payment carries no value.
func (p Payment) IsZero() bool {
	return p.Amount == nil || p.Amount.IsZero()
}

// String renders the payment for logs.
func (p Payment) String() string {
	amount := "0"
	if p.Amount != nil {
		amount = p.Amount.Dec()
	}
	if p.Nonce == 0 {
		return fmt.Sprintf("%s %s", amount, p.Token)
	}
	return fmt.Sprintf("%s %s-%d", amount, p.Token, p.Nonce)
}
