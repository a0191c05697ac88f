package keystore

import (
	"fmt"

	"github.com/datadex-tech/datamint/pkg/crypto"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Operator key path: m/44'/7171'/0'/0/0
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeDatamint is our (placeholder) coin type (hardened).
	CoinTypeDatamint = bip32.FirstHardenedChild + 7171
)

// OperatorKey is the derived signing key of the collection operator.
type OperatorKey struct {
	signer *crypto.PrivateKey
}

// DeriveOperatorKey derives the operator key from a 64-byte seed at
// m/44'/7171'/0'/0/0.
func DeriveOperatorKey(seed []byte) (*OperatorKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	path := []uint32{PurposeBIP44, CoinTypeDatamint, bip32.FirstHardenedChild, 0, 0}
	for _, idx := range path {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}

	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := key.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	signer, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("operator key: %w", err)
	}
	return &OperatorKey{signer: signer}, nil
}

// Signer returns the underlying signing key.
func (k *OperatorKey) Signer() *crypto.PrivateKey {
	return k.signer
}

// Address returns the operator's address, the first 20 bytes of
// BLAKE3(compressed pubkey).
func (k *OperatorKey) Address() types.Address {
	return crypto.AddressFromPubKey(k.signer.PublicKey())
}

// Zero wipes the private key material.
func (k *OperatorKey) Zero() {
	k.signer.Zero()
}
