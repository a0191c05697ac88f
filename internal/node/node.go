// Package node assembles a runnable minter service: storage, state,
// the in-process ledger and bond harnesses, the engine and the RPC
// server. It can be embedded in any binary (daemon, tests, tooling).
package node

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/datadex-tech/datamint/config"
	"github.com/datadex-tech/datamint/internal/bond"
	"github.com/datadex-tech/datamint/internal/engine"
	"github.com/datadex-tech/datamint/internal/keystore"
	"github.com/datadex-tech/datamint/internal/ledger"
	dlog "github.com/datadex-tech/datamint/internal/log"
	"github.com/datadex-tech/datamint/internal/rpc"
	"github.com/datadex-tech/datamint/internal/state"
	"github.com/datadex-tech/datamint/internal/storage"
	"github.com/datadex-tech/datamint/pkg/crypto"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// deliveryInterval paces resolution of queued asynchronous ledger calls.
const deliveryInterval = 200 * time.Millisecond

// Default bond quotes installed into the dev vault: lock period in
// seconds to required bond amount.
var defaultBondQuotes = map[uint64]string{
	7_776_000:  "1000000000000000000000", // 90 days
	15_552_000: "1000000000000000000000", // 180 days
	31_536_000: "1000000000000000000000", // 365 days
}

// Node is a fully-initialized minter service.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        storage.DB
	store     *state.Store
	ledgerMem *ledger.Memory
	bondMem   *bond.Memory
	engine    *engine.Engine
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates and initializes a Node. It performs all setup steps
// (logger, storage, ledger harness, engine, RPC) but does NOT start
// background goroutines. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Set address HRP ──────────────────────────────────────────
	if cfg.Network == config.Testnet {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	// ── 2. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.ChainDataDir() + "/logs"
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = logsDir + "/datamint.log"
	}
	if err := dlog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := dlog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("datadir", cfg.DataDir).
		Msg("Starting Datamint minter")

	// ── 3. Owner address ────────────────────────────────────────────
	ks, err := keystore.New(cfg.KeystorePath())
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}
	if !ks.Exists() {
		return nil, fmt.Errorf("no owner keystore at %s (run: minter-cli keystore init)", cfg.KeystorePath())
	}
	ownerStr, err := ks.Address()
	if err != nil {
		return nil, fmt.Errorf("read owner address: %w", err)
	}
	owner, err := types.ParseAddress(ownerStr)
	if err != nil {
		return nil, fmt.Errorf("parse owner address %q: %w", ownerStr, err)
	}
	logger.Info().Str("owner", ownerStr).Msg("Owner keystore found")

	// ── 4. Open storage ─────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.ChainDataDir() + "/db")
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.ChainDataDir(), err)
	}
	store := state.NewStore(storage.NewPrefixDB(db, []byte("minter/")))
	logger.Info().Str("path", cfg.ChainDataDir()).Msg("Database opened")

	// ── 5. Ledger and bond harnesses ────────────────────────────────
	// The registry shares the node's database so collections, roles and
	// balances survive a restart alongside the engine's own state.
	ledgerMem, err := ledger.NewPersistent(ContractAddress(), storage.NewPrefixDB(db, []byte("registry/")))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("restore token registry: %w", err)
	}
	bondMem := bond.NewMemory()
	for period, amount := range defaultBondQuotes {
		bondMem.SetBondAmount(period, uint256.MustFromDecimal(amount))
	}

	// ── 6. Engine ───────────────────────────────────────────────────
	eng, err := engine.New(store, ledgerMem, bondMem, owner, cfg.Policy)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	ledgerMem.SetCallbacks(eng)

	// ── 7. RPC server ───────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		rpcServer = rpc.New(rpcAddr, eng, cfg.RPC)
		rpcServer.SetFunder(ledgerMem)
		if err := rpcServer.Start(); err != nil {
			db.Close()
			return nil, fmt.Errorf("start RPC at %s: %w", rpcAddr, err)
		}
		logger.Info().Str("addr", rpcServer.Addr()).Msg("RPC server started")
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Node{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		store:     store,
		ledgerMem: ledgerMem,
		bondMem:   bondMem,
		engine:    eng,
		rpcServer: rpcServer,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start launches the asynchronous-call delivery loop.
func (n *Node) Start() error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.runDeliveryLoop()
	}()

	st, err := n.engine.IssuanceState()
	if err != nil {
		return fmt.Errorf("read issuance state: %w", err)
	}
	n.logger.Info().
		Str("state", st.String()).
		Msg("Minter started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	n.cancel()
	n.wg.Wait()

	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Engine exposes the contract engine for embedding binaries.
func (n *Node) Engine() *engine.Engine {
	return n.engine
}

// Ledger exposes the in-process token registry harness.
func (n *Node) Ledger() *ledger.Memory {
	return n.ledgerMem
}

// Bond exposes the in-process bond vault harness.
func (n *Node) Bond() *bond.Memory {
	return n.bondMem
}

func (n *Node) runDeliveryLoop() {
	ticker := time.NewTicker(deliveryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			if n.ledgerMem.PendingCalls() == 0 {
				continue
			}
			if err := n.ledgerMem.DeliverAll(); err != nil {
				n.logger.Warn().Err(err).Msg("Async call delivery failed")
			}
		}
	}
}

// ContractAddress returns the minter's own account address on the
// ledger. It is fixed so balances survive restarts.
func ContractAddress() types.Address {
	hash := crypto.Hash([]byte("datamint/minter/v1"))
	var addr types.Address
	copy(addr[:], hash[:types.AddressSize])
	return addr
}
