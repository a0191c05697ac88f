package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/datadex-tech/datamint/internal/log"
	"github.com/datadex-tech/datamint/internal/storage"
	"github.com/datadex-tech/datamint/pkg/crypto"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Memory simulates the host platform's token registry in process. The
// daemon runs against it in dev mode and the engine tests use it as the
// Ledger Service double. Asynchronous calls are queued and resolved when
// the harness calls DeliverAll, mirroring the platform's
// dispatch-now-resume-later execution model.
type Memory struct {
	mu sync.Mutex

	collections map[types.TokenIdentifier]*collection
	balances    map[balanceKey]*uint256.Int // owner -> holdings
	frozen      map[string]bool             // token|addr
	frozenUnits map[string]bool             // token|nonce|addr

	contract  types.Address // the minter contract's account
	callbacks Callbacks
	pending   []func() error
	issueSeq  uint64
	logger    zerolog.Logger
	db        storage.DB // nil when the registry is not persisted

	// Failure knobs for exercising the compensation paths.
	FailNextIssue    bool
	FailNextSetRoles bool
}

type collection struct {
	name      string
	ticker    string
	roles     map[Role]bool
	nextNonce uint64
	paused    bool
}

type balanceKey struct {
	owner types.Address
	token types.TokenIdentifier
	nonce uint64
}

// NewMemory creates an in-process registry. The contract address is the
// account debited by Transfer and credited by CreateUnit.
func NewMemory(contract types.Address) *Memory {
	return &Memory{
		collections: make(map[types.TokenIdentifier]*collection),
		balances:    make(map[balanceKey]*uint256.Int),
		frozen:      make(map[string]bool),
		frozenUnits: make(map[string]bool),
		contract:    contract,
		logger:      log.Ledger,
	}
}

// NewPersistent creates a registry whose state is snapshotted to db after
// every mutation and reloaded on construction. Collections, roles,
// balances and restrictions survive a process restart; the pending queue
// does not, since queued calls always resolve within the same run.
func NewPersistent(contract types.Address, db storage.DB) (*Memory, error) {
	m := NewMemory(contract)
	m.db = db
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("load registry snapshot: %w", err)
	}
	return m, nil
}

// SetCallbacks registers the engine's async entry points.
func (m *Memory) SetCallbacks(cb Callbacks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = cb
}

// ── Synchronous calls ───────────────────────────────────────────────────

// CreateUnit mints a new unit instance to the contract account.
func (m *Memory) CreateUnit(token types.TokenIdentifier, supply uint64, royalties uint64,
	hash types.Hash, attributes []byte, uris []string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[token]
	if !ok {
		return 0, fmt.Errorf("unknown collection %s", token)
	}
	if coll.paused {
		return 0, fmt.Errorf("collection %s is paused", token)
	}
	if !coll.roles[RoleNFTCreate] {
		return 0, fmt.Errorf("missing %s role for %s", RoleNFTCreate, token)
	}
	if supply == 0 {
		return 0, fmt.Errorf("zero supply")
	}

	coll.nextNonce++
	nonce := coll.nextNonce
	m.credit(m.contract, token, nonce, uint256.NewInt(supply))
	m.persistLocked()

	m.logger.Debug().
		Str("token", string(token)).
		Uint64("nonce", nonce).
		Uint64("supply", supply).
		Uint64("royalties", royalties).
		Int("uris", len(uris)).
		Msg("unit created")
	return nonce, nil
}

// Transfer moves value from the contract account to the destination.
func (m *Memory) Transfer(to types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount == nil || amount.IsZero() {
		return nil
	}
	if coll, ok := m.collections[token]; ok && coll.paused {
		return fmt.Errorf("collection %s is paused", token)
	}
	if err := m.debit(m.contract, token, nonce, amount); err != nil {
		return err
	}
	m.credit(to, token, nonce, amount)
	m.persistLocked()
	return nil
}

// Burn destroys contract-held quantity of (token, nonce).
func (m *Memory) Burn(token types.TokenIdentifier, nonce uint64, quantity *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[token]
	if !ok {
		return fmt.Errorf("unknown collection %s", token)
	}
	if coll.paused {
		return fmt.Errorf("collection %s is paused", token)
	}
	if !coll.roles[RoleNFTBurn] {
		return fmt.Errorf("missing %s role for %s", RoleNFTBurn, token)
	}
	if err := m.debit(m.contract, token, nonce, quantity); err != nil {
		return err
	}
	m.persistLocked()
	return nil
}

// Balance returns contract-held value of (token, nonce).
func (m *Memory) Balance(token types.TokenIdentifier, nonce uint64) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceOf(m.contract, token, nonce), nil
}

// ── Asynchronous calls ──────────────────────────────────────────────────

// Issue queues a collection-issuance request.
func (m *Memory) Issue(name, ticker string, fee *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fail := m.FailNextIssue
	m.FailNextIssue = false
	feeCopy := new(uint256.Int).Set(fee)

	m.pending = append(m.pending, func() error {
		if fail {
			return m.deliverIssue(IssueResult{
				OK:       false,
				Returned: types.NativePayment(feeCopy),
			})
		}
		m.mu.Lock()
		m.issueSeq++
		suffix := crypto.Hash([]byte(fmt.Sprintf("%s-%d", ticker, m.issueSeq)))
		id := types.TokenIdentifier(fmt.Sprintf("%s-%x", strings.ToUpper(ticker), suffix[:3]))
		m.collections[id] = &collection{name: name, ticker: ticker, roles: make(map[Role]bool)}
		m.persistLocked()
		m.mu.Unlock()
		return m.deliverIssue(IssueResult{OK: true, TokenID: id})
	})
	return nil
}

// SetSpecialRoles queues a role-grant request.
func (m *Memory) SetSpecialRoles(token types.TokenIdentifier, roles []Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fail := m.FailNextSetRoles
	m.FailNextSetRoles = false

	m.pending = append(m.pending, func() error {
		if fail {
			return m.deliverRoles(CallResult{OK: false})
		}
		m.mu.Lock()
		coll, ok := m.collections[token]
		if ok {
			for _, r := range roles {
				coll.roles[r] = true
			}
			m.persistLocked()
		}
		m.mu.Unlock()
		if !ok {
			return m.deliverRoles(CallResult{OK: false})
		}
		return m.deliverRoles(CallResult{OK: true})
	})
	return nil
}

// PauseCollection queues suspension of all operations on the collection.
func (m *Memory) PauseCollection(token types.TokenIdentifier) error {
	return m.queueRestriction(func() {
		if coll, ok := m.collections[token]; ok {
			coll.paused = true
		}
	})
}

// UnpauseCollection queues resumption of operations on the collection.
func (m *Memory) UnpauseCollection(token types.TokenIdentifier) error {
	return m.queueRestriction(func() {
		if coll, ok := m.collections[token]; ok {
			coll.paused = false
		}
	})
}

// FreezeAddress queues a collection-wide restriction for an address.
func (m *Memory) FreezeAddress(token types.TokenIdentifier, addr types.Address) error {
	return m.queueRestriction(func() {
		m.frozen[restrictionKey(token, addr)] = true
	})
}

// UnfreezeAddress queues removal of a collection-wide restriction.
func (m *Memory) UnfreezeAddress(token types.TokenIdentifier, addr types.Address) error {
	return m.queueRestriction(func() {
		delete(m.frozen, restrictionKey(token, addr))
	})
}

// FreezeSingleNFT queues a restriction on one unit nonce for an address.
func (m *Memory) FreezeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error {
	return m.queueRestriction(func() {
		m.frozenUnits[unitRestrictionKey(token, nonce, addr)] = true
	})
}

// UnfreezeSingleNFT queues removal of a single-unit restriction.
func (m *Memory) UnfreezeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error {
	return m.queueRestriction(func() {
		delete(m.frozenUnits, unitRestrictionKey(token, nonce, addr))
	})
}

// WipeSingleNFT queues destruction of one frozen unit held by an address.
func (m *Memory) WipeSingleNFT(token types.TokenIdentifier, nonce uint64, addr types.Address) error {
	return m.queueRestriction(func() {
		delete(m.frozenUnits, unitRestrictionKey(token, nonce, addr))
		delete(m.balances, balanceKey{owner: addr, token: token, nonce: nonce})
	})
}

// ── Harness helpers ─────────────────────────────────────────────────────

// DeliverAll resolves every queued asynchronous call in dispatch order,
// invoking engine callbacks where the call carries a continuation.
func (m *Memory) DeliverAll() error {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.mu.Unlock()
			return nil
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()

		if err := next(); err != nil {
			return err
		}
	}
}

// PendingCalls returns the number of undelivered asynchronous calls.
func (m *Memory) PendingCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Credit deposits value into the contract account, simulating an attached
// payment arriving with a call.
func (m *Memory) Credit(token types.TokenIdentifier, nonce uint64, amount *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credit(m.contract, token, nonce, amount)
	m.persistLocked()
}

// BalanceOf returns any account's holdings of (token, nonce).
func (m *Memory) BalanceOf(owner types.Address, token types.TokenIdentifier, nonce uint64) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceOf(owner, token, nonce)
}

// IsCollectionPaused reports whether the collection is suspended.
func (m *Memory) IsCollectionPaused(token types.TokenIdentifier) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[token]
	return ok && coll.paused
}

// IsFrozen reports a collection-wide restriction on an address.
func (m *Memory) IsFrozen(token types.TokenIdentifier, addr types.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozen[restrictionKey(token, addr)]
}

// IsUnitFrozen reports a single-unit restriction.
func (m *Memory) IsUnitFrozen(token types.TokenIdentifier, nonce uint64, addr types.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozenUnits[unitRestrictionKey(token, nonce, addr)]
}

// ── Internal ────────────────────────────────────────────────────────────

func (m *Memory) deliverIssue(res IssueResult) error {
	m.mu.Lock()
	cb := m.callbacks
	m.mu.Unlock()
	if cb == nil {
		return fmt.Errorf("no callbacks registered")
	}
	return cb.OnIssueResult(res)
}

func (m *Memory) deliverRoles(res CallResult) error {
	m.mu.Lock()
	cb := m.callbacks
	m.mu.Unlock()
	if cb == nil {
		return fmt.Errorf("no callbacks registered")
	}
	return cb.OnSetRolesResult(res)
}

func (m *Memory) queueRestriction(apply func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		apply()
		m.persistLocked()
		return nil
	})
	return nil
}

func (m *Memory) balanceOf(owner types.Address, token types.TokenIdentifier, nonce uint64) *uint256.Int {
	if b, ok := m.balances[balanceKey{owner: owner, token: token, nonce: nonce}]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (m *Memory) credit(owner types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) {
	key := balanceKey{owner: owner, token: token, nonce: nonce}
	cur, ok := m.balances[key]
	if !ok {
		cur = uint256.NewInt(0)
		m.balances[key] = cur
	}
	cur.Add(cur, amount)
}

func (m *Memory) debit(owner types.Address, token types.TokenIdentifier, nonce uint64, amount *uint256.Int) error {
	key := balanceKey{owner: owner, token: token, nonce: nonce}
	cur, ok := m.balances[key]
	if !ok || cur.Lt(amount) {
		return fmt.Errorf("insufficient balance of %s-%d", token, nonce)
	}
	cur.Sub(cur, amount)
	return nil
}

func restrictionKey(token types.TokenIdentifier, addr types.Address) string {
	return string(token) + "|" + addr.Hex()
}

func unitRestrictionKey(token types.TokenIdentifier, nonce uint64, addr types.Address) string {
	return fmt.Sprintf("%s|%d|%s", token, nonce, addr.Hex())
}

// ── Persistence ─────────────────────────────────────────────────────────

var snapshotKey = []byte("state")

type registrySnapshot struct {
	Collections map[string]collectionSnapshot `json:"collections"`
	Balances    []balanceSnapshot             `json:"balances"`
	Frozen      []string                      `json:"frozen"`
	FrozenUnits []string                      `json:"frozen_units"`
	IssueSeq    uint64                        `json:"issue_seq"`
}

type collectionSnapshot struct {
	Name      string   `json:"name"`
	Ticker    string   `json:"ticker"`
	Roles     []string `json:"roles"`
	NextNonce uint64   `json:"next_nonce"`
	Paused    bool     `json:"paused,omitempty"`
}

type balanceSnapshot struct {
	Owner  string `json:"owner"` // raw hex
	Token  string `json:"token"`
	Nonce  uint64 `json:"nonce"`
	Amount string `json:"amount"` // decimal
}

// persistLocked snapshots the full registry state to the backing store.
// Callers hold m.mu. A write failure is logged but does not fail the
// registry call, matching the platform where persistence is the host's
// problem, not the contract's.
func (m *Memory) persistLocked() {
	if m.db == nil {
		return
	}
	snap := registrySnapshot{
		Collections: make(map[string]collectionSnapshot, len(m.collections)),
		IssueSeq:    m.issueSeq,
	}
	for id, coll := range m.collections {
		cs := collectionSnapshot{
			Name:      coll.name,
			Ticker:    coll.ticker,
			NextNonce: coll.nextNonce,
			Paused:    coll.paused,
		}
		for r := range coll.roles {
			cs.Roles = append(cs.Roles, string(r))
		}
		snap.Collections[string(id)] = cs
	}
	for key, amount := range m.balances {
		if amount.IsZero() {
			continue
		}
		snap.Balances = append(snap.Balances, balanceSnapshot{
			Owner:  key.owner.Hex(),
			Token:  string(key.token),
			Nonce:  key.nonce,
			Amount: amount.Dec(),
		})
	}
	for k := range m.frozen {
		snap.Frozen = append(snap.Frozen, k)
	}
	for k := range m.frozenUnits {
		snap.FrozenUnits = append(snap.FrozenUnits, k)
	}

	blob, err := json.Marshal(&snap)
	if err != nil {
		m.logger.Error().Err(err).Msg("encode registry snapshot")
		return
	}
	if err := m.db.Put(snapshotKey, blob); err != nil {
		m.logger.Error().Err(err).Msg("persist registry snapshot")
	}
}

// load restores the registry from the backing store's snapshot, if any.
func (m *Memory) load() error {
	ok, err := m.db.Has(snapshotKey)
	if err != nil || !ok {
		return err
	}
	blob, err := m.db.Get(snapshotKey)
	if err != nil {
		return err
	}
	var snap registrySnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode registry snapshot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.issueSeq = snap.IssueSeq
	for id, cs := range snap.Collections {
		coll := &collection{
			name:      cs.Name,
			ticker:    cs.Ticker,
			roles:     make(map[Role]bool, len(cs.Roles)),
			nextNonce: cs.NextNonce,
			paused:    cs.Paused,
		}
		for _, r := range cs.Roles {
			coll.roles[Role(r)] = true
		}
		m.collections[types.TokenIdentifier(id)] = coll
	}
	for _, bs := range snap.Balances {
		owner, err := types.ParseAddress(bs.Owner)
		if err != nil {
			return fmt.Errorf("snapshot owner %q: %w", bs.Owner, err)
		}
		amount, err := uint256.FromDecimal(bs.Amount)
		if err != nil {
			return fmt.Errorf("snapshot amount %q: %w", bs.Amount, err)
		}
		m.balances[balanceKey{owner: owner, token: types.TokenIdentifier(bs.Token), nonce: bs.Nonce}] = amount
	}
	for _, k := range snap.Frozen {
		m.frozen[k] = true
	}
	for _, k := range snap.FrozenUnits {
		m.frozenUnits[k] = true
	}
	return nil
}
