package rpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/datadex-tech/datamint/pkg/crypto"
	"github.com/datadex-tech/datamint/pkg/types"
)

const (
	pubKeySize    = 33
	signatureSize = 64
)

// SigningDigest is the message a caller signs for a mutating method:
// BLAKE3(method || canonical call JSON). The call JSON must be in
// canonical form (sorted keys, no insignificant whitespace), which is
// what encoding/json produces for maps and structs.
func SigningDigest(method string, call []byte) types.Hash {
	return crypto.HashConcat([]byte(method), call)
}

// authenticate verifies the signed envelope of a mutating request and
// returns the caller address derived from the public key. The call
// body is unmarshaled into target.
func (s *Server) authenticate(req *Request, target interface{}) (types.Address, *Error) {
	var signed SignedParam
	if err := parseParams(req, &signed); err != nil {
		return types.Address{}, err
	}
	if len(signed.Call) == 0 {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "call is required"}
	}

	pubKey, err := hex.DecodeString(signed.PubKey)
	if err != nil || len(pubKey) != pubKeySize {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "pubkey must be 33-byte hex"}
	}
	sig, err := hex.DecodeString(signed.Signature)
	if err != nil || len(sig) != signatureSize {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "signature must be 64-byte hex"}
	}

	// Re-marshal to the canonical form before hashing so that clients
	// sending semantically equal JSON verify identically. Numbers stay
	// as json.Number; a float64 round trip loses integers above 2^53.
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(signed.Call))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "call is not valid JSON"}
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return types.Address{}, &Error{Code: CodeInternalError, Message: "canonicalize call"}
	}

	digest := SigningDigest(req.Method, canonical)
	if !crypto.VerifySignature(digest[:], sig, pubKey) {
		return types.Address{}, &Error{Code: CodeUnauthorized, Message: "invalid signature"}
	}

	if target != nil {
		if err := json.Unmarshal(signed.Call, target); err != nil {
			return types.Address{}, &Error{Code: CodeInvalidParams, Message: "invalid call body"}
		}
	}
	return crypto.AddressFromPubKey(pubKey), nil
}
