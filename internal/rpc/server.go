// Package rpc implements the JSON-RPC 2.0 API server. Mutating
// methods are Schnorr-authenticated: the caller address is derived
// from the public key in the signed params envelope.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/engine"
	"github.com/datadex-tech/datamint/internal/log"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Funder simulates the platform's attached-payment transfer in dev
// mode; nil means payments are taken at face value without crediting.
type Funder interface {
	Credit(token types.TokenIdentifier, nonce uint64, amount *uint256.Int)
}

// Server is the JSON-RPC 2.0 HTTP server.
type Server struct {
	addr        string
	engine      *engine.Engine
	funder      Funder
	server      *http.Server
	logger      zerolog.Logger
	ln          net.Listener
	allowedNets []*net.IPNet // Empty = allow all.
}

// New creates a new RPC server over the engine. The rpcCfg parameter
// controls IP filtering; a zero-value RPCConfig allows all IPs.
func New(addr string, eng *engine.Engine, rpcCfg ...config.RPCConfig) *Server {
	s := &Server{
		addr:   addr,
		engine: eng,
		logger: log.RPC,
	}

	if len(rpcCfg) > 0 {
		s.allowedNets = parseAllowedIPs(rpcCfg[0].AllowedIPs)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// SetFunder installs the dev-mode payment funder.
func (s *Server) SetFunder(f Funder) {
	s.funder = f
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		_, ipNet, err := net.ParseCIDR(entry)
		if err == nil {
			nets = append(nets, ipNet)
			continue
		}
		// Try as a single IP (add /32 or /128).
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("rpc listen: %w", err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("RPC server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// handleRequest is the main HTTP handler for JSON-RPC requests.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	// IP filtering.
	if len(s.allowedNets) > 0 {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ip := net.ParseIP(host)
		if ip == nil || !s.isIPAllowed(ip) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	if r.Method != http.MethodPost {
		writeError(w, nil, CodeInvalidRequest, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, nil, CodeParseError, "failed to read request body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, nil, CodeInvalidRequest, "request body too large")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, nil, CodeParseError, "invalid JSON")
		return
	}

	if req.JSONRPC != "2.0" {
		writeError(w, req.ID, CodeInvalidRequest, "jsonrpc must be \"2.0\"")
		return
	}

	result, rpcErr := s.dispatch(&req)
	if rpcErr != nil {
		writeJSON(w, Response{
			JSONRPC: "2.0",
			Error:   rpcErr,
			ID:      req.ID,
		})
		return
	}

	writeJSON(w, Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      req.ID,
	})
}

// dispatch routes a request to the appropriate handler.
func (s *Server) dispatch(req *Request) (interface{}, *Error) {
	switch req.Method {
	case "minter_initializeContract":
		return s.handleInitializeContract(req)
	case "minter_setLocalRoles":
		return s.handleSetLocalRoles(req)
	case "minter_mint":
		return s.handleMint(req)
	case "minter_burn":
		return s.handleBurn(req)
	case "minter_withdraw":
		return s.handleWithdraw(req)
	case "minter_getStatus":
		return s.handleGetStatus(req)
	case "admin_setTreasuryAddress":
		return s.handleSetTreasuryAddress(req)
	case "admin_setDonationTreasuryAddress":
		return s.handleSetDonationTreasuryAddress(req)
	case "admin_setWithdrawalAddress":
		return s.handleSetWithdrawalAddress(req)
	case "admin_setBondContractAddress":
		return s.handleSetBondContractAddress(req)
	case "admin_setAdministrator":
		return s.handleSetAdministrator(req)
	case "admin_setIsPaused":
		return s.handleSetIsPaused(req)
	case "admin_setWhiteListEnabled":
		return s.handleSetWhiteListEnabled(req)
	case "admin_setAntiSpamTax":
		return s.handleSetAntiSpamTax(req)
	case "admin_setMintTimeLimit":
		return s.handleSetMintTimeLimit(req)
	case "admin_setRoyaltiesLimits":
		return s.handleSetRoyaltiesLimits(req)
	case "admin_setMaxSupply":
		return s.handleSetMaxSupply(req)
	case "admin_setMaxDonationPercentage":
		return s.handleSetMaxDonationPercentage(req)
	case "admin_setWhiteListSpots":
		return s.handleSetWhiteListSpots(req)
	case "admin_removeWhiteListSpots":
		return s.handleRemoveWhiteListSpots(req)
	case "admin_pauseCollection":
		return s.handlePauseCollection(req)
	case "admin_unpauseCollection":
		return s.handleUnpauseCollection(req)
	case "admin_freeze":
		return s.handleFreeze(req)
	case "admin_unfreeze":
		return s.handleUnfreeze(req)
	case "admin_freezeSingleNFT":
		return s.handleFreezeSingleNFT(req)
	case "admin_unFreezeSingleNFT":
		return s.handleUnfreezeSingleNFT(req)
	case "admin_wipeSingleNFT":
		return s.handleWipeSingleNFT(req)
	case "view_getUserData":
		return s.handleGetUserData(req)
	case "view_getFrozen":
		return s.handleGetFrozen(req)
	case "view_getFrozenAddresses":
		return s.handleGetFrozenAddresses(req)
	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
}

// writeJSON writes a JSON-RPC response.
func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON-RPC error response.
func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	writeJSON(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// parseParams unmarshals the request params into the given target.
func parseParams(req *Request, target interface{}) *Error {
	if req.Params == nil {
		return &Error{Code: CodeInvalidParams, Message: "params required"}
	}

	data, err := json.Marshal(req.Params)
	if err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params"}
	}

	if err := json.Unmarshal(data, target); err != nil {
		return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
