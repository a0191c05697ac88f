package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/datadex-tech/datamint/internal/storage"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

// Store is the typed repository over the contract's key-value namespace.
type Store struct {
	db storage.DB
}

// NewStore creates a contract state store.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// ── Encoding helpers ────────────────────────────────────────────────────

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func decodeUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("uint64 value must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func encodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func encodeAmount(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

func decodeAmount(b []byte) (*uint256.Int, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("amount value must be 32 bytes, got %d", len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}

// getUint64 reads a uint64 value, returning 0 when the key is absent.
func (s *Store) getUint64(key []byte) (uint64, error) {
	has, err := s.db.Has(key)
	if err != nil || !has {
		return 0, err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return 0, err
	}
	return decodeUint64(raw)
}

// getBool reads a bool value, returning false when the key is absent.
func (s *Store) getBool(key []byte) (bool, error) {
	has, err := s.db.Has(key)
	if err != nil || !has {
		return false, err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return false, err
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

// getAddress reads an address value, returning the zero address when absent.
func (s *Store) getAddress(key []byte) (types.Address, error) {
	var addr types.Address
	has, err := s.db.Has(key)
	if err != nil || !has {
		return addr, err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return addr, err
	}
	if len(raw) != types.AddressSize {
		return addr, fmt.Errorf("address value must be %d bytes, got %d", types.AddressSize, len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

// ── Issuance lifecycle ──────────────────────────────────────────────────

// IssuanceState returns the persisted issuance phase.
func (s *Store) IssuanceState() (IssuanceState, error) {
	has, err := s.db.Has(keyIssuanceState)
	if err != nil || !has {
		return Uninitialized, err
	}
	raw, err := s.db.Get(keyIssuanceState)
	if err != nil {
		return Uninitialized, err
	}
	if len(raw) != 1 {
		return Uninitialized, fmt.Errorf("issuance state value must be 1 byte, got %d", len(raw))
	}
	return IssuanceState(raw[0]), nil
}

// SetIssuanceState persists the issuance phase.
func (s *Store) SetIssuanceState(st IssuanceState) error {
	return s.db.Put(keyIssuanceState, []byte{byte(st)})
}

// TokenID returns the collection token identifier, empty until issuance
// completes.
func (s *Store) TokenID() (types.TokenIdentifier, error) {
	has, err := s.db.Has(keyTokenID)
	if err != nil || !has {
		return "", err
	}
	raw, err := s.db.Get(keyTokenID)
	if err != nil {
		return "", err
	}
	return types.TokenIdentifier(raw), nil
}

// SetTokenID stores the collection token identifier. Write-once: a second
// write is rejected.
func (s *Store) SetTokenID(id types.TokenIdentifier) error {
	existing, err := s.TokenID()
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return fmt.Errorf("token id already set to %s", existing)
	}
	return s.db.Put(keyTokenID, []byte(id))
}

// RolesSet reports whether the platform granted the contract its local
// create/burn/add-quantity roles.
func (s *Store) RolesSet() (bool, error) {
	st, err := s.IssuanceState()
	if err != nil {
		return false, err
	}
	return st == Ready, nil
}

// ── Collection config ───────────────────────────────────────────────────

// IsPaused returns the mint pause flag.
func (s *Store) IsPaused() (bool, error) { return s.getBool(keyPaused) }

// SetPaused sets the mint pause flag.
func (s *Store) SetPaused(v bool) error { return s.db.Put(keyPaused, encodeBool(v)) }

// WhitelistEnabled returns the whitelist enforcement flag.
func (s *Store) WhitelistEnabled() (bool, error) { return s.getBool(keyWhitelistEnabled) }

// SetWhitelistEnabled sets the whitelist enforcement flag.
func (s *Store) SetWhitelistEnabled(v bool) error {
	return s.db.Put(keyWhitelistEnabled, encodeBool(v))
}

// TreasuryAddress returns the tax treasury address (zero when unset).
func (s *Store) TreasuryAddress() (types.Address, error) { return s.getAddress(keyTreasury) }

// SetTreasuryAddress sets the tax treasury address.
func (s *Store) SetTreasuryAddress(a types.Address) error { return s.db.Put(keyTreasury, a[:]) }

// DonationTreasuryAddress returns the donation treasury address.
func (s *Store) DonationTreasuryAddress() (types.Address, error) {
	return s.getAddress(keyDonationTreasury)
}

// SetDonationTreasuryAddress sets the donation treasury address.
func (s *Store) SetDonationTreasuryAddress(a types.Address) error {
	return s.db.Put(keyDonationTreasury, a[:])
}

// WithdrawalAddress returns the configured withdrawal address.
func (s *Store) WithdrawalAddress() (types.Address, error) { return s.getAddress(keyWithdrawal) }

// SetWithdrawalAddress sets the withdrawal address.
func (s *Store) SetWithdrawalAddress(a types.Address) error { return s.db.Put(keyWithdrawal, a[:]) }

// Administrator returns the administrator address (zero when unset).
func (s *Store) Administrator() (types.Address, error) { return s.getAddress(keyAdministrator) }

// SetAdministrator sets the administrator address.
func (s *Store) SetAdministrator(a types.Address) error { return s.db.Put(keyAdministrator, a[:]) }

// BondContractAddress returns the escrow/bond contract address.
func (s *Store) BondContractAddress() (types.Address, error) { return s.getAddress(keyBondContract) }

// SetBondContractAddress sets the escrow/bond contract address.
func (s *Store) SetBondContractAddress(a types.Address) error {
	return s.db.Put(keyBondContract, a[:])
}

// RoyaltyLimits returns the (min, max) royalty bounds in basis points.
func (s *Store) RoyaltyLimits() (uint64, uint64, error) {
	min, err := s.getUint64(keyMinRoyalties)
	if err != nil {
		return 0, 0, err
	}
	max, err := s.getUint64(keyMaxRoyalties)
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

// SetRoyaltyLimits persists the royalty bounds.
func (s *Store) SetRoyaltyLimits(min, max uint64) error {
	if err := s.db.Put(keyMinRoyalties, encodeUint64(min)); err != nil {
		return err
	}
	return s.db.Put(keyMaxRoyalties, encodeUint64(max))
}

// MaxSupply returns the per-mint supply cap.
func (s *Store) MaxSupply() (uint64, error) { return s.getUint64(keyMaxSupply) }

// SetMaxSupply sets the per-mint supply cap.
func (s *Store) SetMaxSupply(v uint64) error { return s.db.Put(keyMaxSupply, encodeUint64(v)) }

// MintCooldown returns the per-address mint cooldown in seconds.
func (s *Store) MintCooldown() (uint64, error) { return s.getUint64(keyMintCooldown) }

// SetMintCooldown sets the per-address mint cooldown.
func (s *Store) SetMintCooldown(v uint64) error { return s.db.Put(keyMintCooldown, encodeUint64(v)) }

// MaxDonationBP returns the maximum donation percentage in basis points.
func (s *Store) MaxDonationBP() (uint64, error) { return s.getUint64(keyMaxDonationBP) }

// SetMaxDonationBP sets the maximum donation percentage.
func (s *Store) SetMaxDonationBP(v uint64) error {
	return s.db.Put(keyMaxDonationBP, encodeUint64(v))
}

// MintedTotal returns the global count of minted units.
func (s *Store) MintedTotal() (uint64, error) { return s.getUint64(keyMintedTotal) }

// SetMintedTotal sets the global count of minted units.
func (s *Store) SetMintedTotal(v uint64) error { return s.db.Put(keyMintedTotal, encodeUint64(v)) }

// Bootstrapped reports whether deploy-time defaults were written.
func (s *Store) Bootstrapped() (bool, error) { return s.getBool(keyBootstrapped) }

// SetBootstrapped marks deploy-time defaults as written.
func (s *Store) SetBootstrapped() error { return s.db.Put(keyBootstrapped, encodeBool(true)) }

// ── Anti-spam tax ───────────────────────────────────────────────────────

// Tax returns the per-token anti-spam tax, zero when the token has no
// configured price.
func (s *Store) Tax(token types.TokenIdentifier) (*uint256.Int, error) {
	key := taxKey(token)
	has, err := s.db.Has(key)
	if err != nil || !has {
		return uint256.NewInt(0), err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	return decodeAmount(raw)
}

// SetTax sets the per-token anti-spam tax.
func (s *Store) SetTax(token types.TokenIdentifier, amount *uint256.Int) error {
	return s.db.Put(taxKey(token), encodeAmount(amount))
}

// ── Per-address mint records ────────────────────────────────────────────

// MintRecord returns the per-address counters, a zero record when the
// address never minted.
func (s *Store) MintRecord(addr types.Address) (MintRecord, error) {
	key := addrKey(prefixMintRecord, addr)
	has, err := s.db.Has(key)
	if err != nil || !has {
		return MintRecord{}, err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return MintRecord{}, err
	}
	var rec MintRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return MintRecord{}, fmt.Errorf("mint record unmarshal: %w", err)
	}
	return rec, nil
}

// SetMintRecord stores the per-address counters.
func (s *Store) SetMintRecord(addr types.Address, rec MintRecord) error {
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("mint record marshal: %w", err)
	}
	return s.db.Put(addrKey(prefixMintRecord, addr), data)
}

// ── Whitelist ───────────────────────────────────────────────────────────

// WhitelistHas reports whitelist membership.
func (s *Store) WhitelistHas(addr types.Address) (bool, error) {
	return s.db.Has(addrKey(prefixWhitelist, addr))
}

// WhitelistAdd inserts an address into the whitelist.
func (s *Store) WhitelistAdd(addr types.Address) error {
	return s.db.Put(addrKey(prefixWhitelist, addr), []byte{1})
}

// WhitelistRemove removes an address from the whitelist.
func (s *Store) WhitelistRemove(addr types.Address) error {
	return s.db.Delete(addrKey(prefixWhitelist, addr))
}

// ── Collection freeze set ───────────────────────────────────────────────

// CollectionFreezeHas reports collection-level freeze membership.
func (s *Store) CollectionFreezeHas(addr types.Address) (bool, error) {
	return s.db.Has(addrKey(prefixCollFreeze, addr))
}

// CollectionFreezeAdd inserts an address into the collection freeze set.
func (s *Store) CollectionFreezeAdd(addr types.Address) error {
	return s.db.Put(addrKey(prefixCollFreeze, addr), []byte{1})
}

// CollectionFreezeRemove removes an address from the collection freeze set.
func (s *Store) CollectionFreezeRemove(addr types.Address) error {
	return s.db.Delete(addrKey(prefixCollFreeze, addr))
}

// CollectionFreezeList returns every collection-frozen address.
func (s *Store) CollectionFreezeList() ([]types.Address, error) {
	var out []types.Address
	err := s.db.ForEach(prefixCollFreeze, func(key, _ []byte) error {
		if len(key) != len(prefixCollFreeze)+types.AddressSize {
			return nil // Malformed key, skip.
		}
		var addr types.Address
		copy(addr[:], key[len(prefixCollFreeze):])
		out = append(out, addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return string(out[i][:]) < string(out[j][:])
	})
	return out, nil
}

// ── Per-address unit freeze set ─────────────────────────────────────────

// UnitFreezeHas reports whether a nonce is frozen for an address.
func (s *Store) UnitFreezeHas(addr types.Address, nonce uint64) (bool, error) {
	return s.db.Has(unitFreezeKey(addr, nonce))
}

// UnitFreezeAdd marks a nonce frozen for an address.
func (s *Store) UnitFreezeAdd(addr types.Address, nonce uint64) error {
	return s.db.Put(unitFreezeKey(addr, nonce), []byte{1})
}

// UnitFreezeRemove clears a frozen nonce for an address.
func (s *Store) UnitFreezeRemove(addr types.Address, nonce uint64) error {
	return s.db.Delete(unitFreezeKey(addr, nonce))
}

// UnitFreezeNonces returns the frozen nonces for an address, ascending.
func (s *Store) UnitFreezeNonces(addr types.Address) ([]uint64, error) {
	prefix := addrKey(prefixUnitFreeze, addr)
	var out []uint64
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		if len(key) != len(prefix)+8 {
			return nil // Malformed key, skip.
		}
		out = append(out, binary.BigEndian.Uint64(key[len(prefix):]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// FrozenCount returns the denormalized count of frozen nonces for an
// address. Kept equal to len(UnitFreezeNonces) after every mutation.
func (s *Store) FrozenCount(addr types.Address) (uint64, error) {
	return s.getUint64(addrKey(prefixFrozenCount, addr))
}

// SetFrozenCount stores the denormalized frozen-nonce count.
func (s *Store) SetFrozenCount(addr types.Address, count uint64) error {
	return s.db.Put(addrKey(prefixFrozenCount, addr), encodeUint64(count))
}

// ── Batched writes ──────────────────────────────────────────────────────

// Writer stages contract-state writes and applies them atomically. Used by
// the mint path so that counters commit only after every external call
// succeeded.
type Writer struct {
	batch storage.Batch
}

// Writer returns a new staged-write handle. The underlying DB must support
// batching.
func (s *Store) Writer() *Writer {
	return &Writer{batch: s.db.(storage.Batcher).NewBatch()}
}

// SetMintRecord stages a per-address counter write.
func (w *Writer) SetMintRecord(addr types.Address, rec MintRecord) error {
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("mint record marshal: %w", err)
	}
	return w.batch.Put(addrKey(prefixMintRecord, addr), data)
}

// SetMintedTotal stages the global counter write.
func (w *Writer) SetMintedTotal(v uint64) error {
	return w.batch.Put(keyMintedTotal, encodeUint64(v))
}

// Commit applies all staged writes atomically.
func (w *Writer) Commit() error {
	return w.batch.Commit()
}
