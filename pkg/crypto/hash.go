// Package crypto provides hashing and signature primitives.
package crypto

import (
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashConcat computes a BLAKE3-256 hash over the concatenation of the inputs.
func HashConcat(parts ...[]byte) types.Hash {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPubKey derives an address from a compressed public key.
// Address = first 20 bytes of BLAKE3(compressed_pubkey).
func AddressFromPubKey(pubKey []byte) types.Address {
	hash := Hash(pubKey)
	var addr types.Address
	copy(addr[:], hash[:types.AddressSize])
	return addr
}
