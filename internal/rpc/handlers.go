package rpc

import (
	"github.com/datadex-tech/datamint/internal/engine"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// parseAddr converts a bech32 or hex wire address.
func parseAddr(s string) (types.Address, *Error) {
	addr, err := types.ParseAddress(s)
	if err != nil {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "invalid address: " + s}
	}
	return addr, nil
}

// revert maps an engine failure to the JSON-RPC revert error.
func revert(err error) *Error {
	return &Error{Code: CodeReverted, Message: err.Error()}
}

// fund credits the attached payment to the contract account in dev
// mode, simulating the platform's transfer-with-call.
func (s *Server) fund(p types.Payment) {
	if s.funder == nil || p.IsZero() {
		return
	}
	s.funder.Credit(p.Token, p.Nonce, p.Amount)
}

// ── Minter endpoints ────────────────────────────────────────────────────

func (s *Server) handleInitializeContract(req *Request) (interface{}, *Error) {
	var call InitializeCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	treasury, rpcErr := parseAddr(call.Treasury)
	if rpcErr != nil {
		return nil, rpcErr
	}
	taxAmount, err := uint256.FromDecimal(call.TaxAmount)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid tax_amount"}
	}
	payment, err := call.Payment.Payment()
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	s.fund(payment)
	if err := s.engine.InitializeContract(caller, call.Name, call.Ticker,
		types.TokenIdentifier(call.TaxToken), taxAmount, call.Cooldown, treasury, payment); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetLocalRoles(req *Request) (interface{}, *Error) {
	caller, rpcErr := s.authenticate(req, nil)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetLocalRoles(caller); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleMint(req *Request) (interface{}, *Error) {
	var call MintCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payment, err := call.Payment.Payment()
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	s.fund(payment)
	attrs, nonce, err := s.engine.Mint(caller, engineMintRequest(call), payment)
	if err != nil {
		return nil, revert(err)
	}
	return MintResult{Nonce: nonce, Attributes: attrs}, nil
}

func (s *Server) handleBurn(req *Request) (interface{}, *Error) {
	var call BurnCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payment, err := call.Payment.Payment()
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	s.fund(payment)
	if err := s.engine.Burn(caller, payment); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleWithdraw(req *Request) (interface{}, *Error) {
	var call WithdrawCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	amount, err := uint256.FromDecimal(call.Amount)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid amount"}
	}
	if err := s.engine.Withdraw(caller, types.TokenIdentifier(call.Token), call.Nonce, amount); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleGetStatus(req *Request) (interface{}, *Error) {
	st, err := s.engine.IssuanceState()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	tokenID, err := s.engine.TokenID()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	paused, err := s.engine.IsPaused()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	total, err := s.engine.MintedTotal()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return StatusResult{
		IssuanceState: st.String(),
		TokenID:       string(tokenID),
		IsPaused:      paused,
		MintedTotal:   total,
		Owner:         s.engine.Owner().String(),
	}, nil
}

// ── Admin setters ───────────────────────────────────────────────────────

// handleAddressSetter factors the shared shape of the address setters.
func (s *Server) handleAddressSetter(req *Request, apply func(caller, addr types.Address) error) (interface{}, *Error) {
	var call AddressCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAddr(call.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := apply(caller, addr); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetTreasuryAddress(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.SetTreasuryAddress)
}

func (s *Server) handleSetDonationTreasuryAddress(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.SetDonationTreasuryAddress)
}

func (s *Server) handleSetWithdrawalAddress(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.SetWithdrawalAddress)
}

func (s *Server) handleSetBondContractAddress(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.SetBondContractAddress)
}

func (s *Server) handleSetAdministrator(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.SetAdministrator)
}

func (s *Server) handleSetIsPaused(req *Request) (interface{}, *Error) {
	var call BoolCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetIsPaused(caller, call.Value); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetWhiteListEnabled(req *Request) (interface{}, *Error) {
	var call BoolCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetWhiteListEnabled(caller, call.Value); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetAntiSpamTax(req *Request) (interface{}, *Error) {
	var call TaxCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	amount, err := uint256.FromDecimal(call.Amount)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid amount"}
	}
	if err := s.engine.SetAntiSpamTax(caller, types.TokenIdentifier(call.Token), amount); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetMintTimeLimit(req *Request) (interface{}, *Error) {
	var call UintCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetMintTimeLimit(caller, call.Value); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetRoyaltiesLimits(req *Request) (interface{}, *Error) {
	var call RoyaltiesLimitsCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetRoyaltiesLimits(caller, call.Min, call.Max); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetMaxSupply(req *Request) (interface{}, *Error) {
	var call UintCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetMaxSupply(caller, call.Value); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetMaxDonationPercentage(req *Request) (interface{}, *Error) {
	var call UintCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.SetMaxDonationPercentage(caller, call.Value); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

// handleWhitelistBatch factors the two whitelist batch endpoints.
func (s *Server) handleWhitelistBatch(req *Request, apply func(caller types.Address, addrs []types.Address) error) (interface{}, *Error) {
	var call AddressListCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	addrs := make([]types.Address, 0, len(call.Addresses))
	for _, raw := range call.Addresses {
		addr, rpcErr := parseAddr(raw)
		if rpcErr != nil {
			return nil, rpcErr
		}
		addrs = append(addrs, addr)
	}
	if err := apply(caller, addrs); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleSetWhiteListSpots(req *Request) (interface{}, *Error) {
	return s.handleWhitelistBatch(req, s.engine.SetWhiteListSpots)
}

func (s *Server) handleRemoveWhiteListSpots(req *Request) (interface{}, *Error) {
	return s.handleWhitelistBatch(req, s.engine.RemoveWhiteListSpots)
}

// ── Compliance endpoints ────────────────────────────────────────────────

func (s *Server) handlePauseCollection(req *Request) (interface{}, *Error) {
	caller, rpcErr := s.authenticate(req, nil)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.PauseCollection(caller); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleUnpauseCollection(req *Request) (interface{}, *Error) {
	caller, rpcErr := s.authenticate(req, nil)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.engine.UnpauseCollection(caller); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleFreeze(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.Freeze)
}

func (s *Server) handleUnfreeze(req *Request) (interface{}, *Error) {
	return s.handleAddressSetter(req, s.engine.Unfreeze)
}

// handleUnitFreeze factors the three single-unit restriction endpoints.
func (s *Server) handleUnitFreeze(req *Request, apply func(caller types.Address, nonce uint64, addr types.Address) error) (interface{}, *Error) {
	var call NonceAddressCall
	caller, rpcErr := s.authenticate(req, &call)
	if rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAddr(call.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := apply(caller, call.Nonce, addr); err != nil {
		return nil, revert(err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleFreezeSingleNFT(req *Request) (interface{}, *Error) {
	return s.handleUnitFreeze(req, s.engine.FreezeSingleNFT)
}

func (s *Server) handleUnfreezeSingleNFT(req *Request) (interface{}, *Error) {
	return s.handleUnitFreeze(req, s.engine.UnfreezeSingleNFT)
}

func (s *Server) handleWipeSingleNFT(req *Request) (interface{}, *Error) {
	return s.handleUnitFreeze(req, s.engine.WipeSingleNFT)
}

// ── Views ───────────────────────────────────────────────────────────────

func (s *Server) handleGetUserData(req *Request) (interface{}, *Error) {
	var params UserDataParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, rpcErr := parseAddr(params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	out, err := s.engine.UserData(addr, types.TokenIdentifier(params.TaxToken))
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return out, nil
}

func (s *Server) handleGetFrozen(req *Request) (interface{}, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	addr, rpcErr := parseAddr(params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	count, err := s.engine.FrozenCount(addr)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	out, err := s.engine.UserData(addr, types.NativeToken)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return FrozenResult{Address: addr.String(), FrozenCount: count, Nonces: out.FrozenNonces}, nil
}

func (s *Server) handleGetFrozenAddresses(req *Request) (interface{}, *Error) {
	addrs, err := s.engine.FrozenAddresses()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return FrozenAddressesResult{Count: len(out), Addresses: out}, nil
}

// engineMintRequest converts the wire call into the engine's request.
func engineMintRequest(call MintCall) engine.MintRequest {
	return engine.MintRequest{
		DataStreamURL:  call.DataStreamURL,
		DataPreviewURL: call.DataPreviewURL,
		DataMarshalURL: call.DataMarshalURL,
		MediaURL:       call.MediaURL,
		MetadataURL:    call.MetadataURL,
		ExtraAssets:    call.ExtraAssets,
		Title:          call.Title,
		Description:    call.Description,
		Royalties:      call.Royalties,
		Supply:         call.Supply,
		LockPeriod:     call.LockPeriod,
		DonationBP:     call.DonationBP,
	}
}
