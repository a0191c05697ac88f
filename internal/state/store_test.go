package state

import (
	"testing"

	"github.com/datadex-tech/datamint/internal/storage"
	"github.com/datadex-tech/datamint/pkg/types"
	"github.com/holiman/uint256"
)

func newStore() *Store {
	return NewStore(storage.NewMemory())
}

func TestIssuanceState_DefaultAndRoundTrip(t *testing.T) {
	s := newStore()

	st, err := s.IssuanceState()
	if err != nil {
		t.Fatalf("IssuanceState: %v", err)
	}
	if st != Uninitialized {
		t.Fatalf("default state = %v, want Uninitialized", st)
	}

	for _, want := range []IssuanceState{IssuancePending, Issued, RolesPending, Ready} {
		if err := s.SetIssuanceState(want); err != nil {
			t.Fatalf("SetIssuanceState(%v): %v", want, err)
		}
		got, err := s.IssuanceState()
		if err != nil {
			t.Fatalf("IssuanceState: %v", err)
		}
		if got != want {
			t.Errorf("state = %v, want %v", got, want)
		}
	}
}

func TestTokenID_WriteOnce(t *testing.T) {
	s := newStore()

	id, err := s.TokenID()
	if err != nil {
		t.Fatalf("TokenID: %v", err)
	}
	if !id.IsEmpty() {
		t.Fatalf("default token id = %q, want empty", id)
	}

	if err := s.SetTokenID("DATASFT-4af9b2"); err != nil {
		t.Fatalf("SetTokenID: %v", err)
	}
	if err := s.SetTokenID("DATASFT-000000"); err == nil {
		t.Fatal("second SetTokenID succeeded, want rejection")
	}
	id, _ = s.TokenID()
	if id != "DATASFT-4af9b2" {
		t.Fatalf("token id = %q after rejected overwrite", id)
	}
}

func TestRolesSet_TracksState(t *testing.T) {
	s := newStore()

	ok, err := s.RolesSet()
	if err != nil {
		t.Fatalf("RolesSet: %v", err)
	}
	if ok {
		t.Fatal("roles set before Ready")
	}
	if err := s.SetIssuanceState(Ready); err != nil {
		t.Fatalf("SetIssuanceState: %v", err)
	}
	ok, _ = s.RolesSet()
	if !ok {
		t.Fatal("roles not set in Ready state")
	}
}

func TestTax_PerToken(t *testing.T) {
	s := newStore()

	tax, err := s.Tax("ITHEUM-abcdef")
	if err != nil {
		t.Fatalf("Tax: %v", err)
	}
	if !tax.IsZero() {
		t.Fatalf("unconfigured tax = %s, want 0", tax.Dec())
	}

	if err := s.SetTax("ITHEUM-abcdef", uint256.NewInt(200)); err != nil {
		t.Fatalf("SetTax: %v", err)
	}
	tax, _ = s.Tax("ITHEUM-abcdef")
	if !tax.Eq(uint256.NewInt(200)) {
		t.Fatalf("tax = %s, want 200", tax.Dec())
	}

	// The other token's tax stays independent.
	other, _ := s.Tax("OTHER-123456")
	if !other.IsZero() {
		t.Fatalf("other token tax = %s, want 0", other.Dec())
	}
}

func TestMintRecord_RoundTrip(t *testing.T) {
	s := newStore()
	addr := types.Address{0x02}

	rec, err := s.MintRecord(addr)
	if err != nil {
		t.Fatalf("MintRecord: %v", err)
	}
	if rec.Minted != 0 || rec.LastMintTime != 0 {
		t.Fatalf("default record = %+v", rec)
	}

	rec.Minted = 100
	rec.LastMintTime = 1_700_000_000
	if err := s.SetMintRecord(addr, rec); err != nil {
		t.Fatalf("SetMintRecord: %v", err)
	}
	got, _ := s.MintRecord(addr)
	if got != rec {
		t.Fatalf("record = %+v, want %+v", got, rec)
	}
}

func TestWhitelist_SetSemantics(t *testing.T) {
	s := newStore()
	addr := types.Address{0x11}

	has, err := s.WhitelistHas(addr)
	if err != nil {
		t.Fatalf("WhitelistHas: %v", err)
	}
	if has {
		t.Fatal("empty whitelist has member")
	}
	if err := s.WhitelistAdd(addr); err != nil {
		t.Fatalf("WhitelistAdd: %v", err)
	}
	has, _ = s.WhitelistHas(addr)
	if !has {
		t.Fatal("added address missing")
	}
	if err := s.WhitelistRemove(addr); err != nil {
		t.Fatalf("WhitelistRemove: %v", err)
	}
	has, _ = s.WhitelistHas(addr)
	if has {
		t.Fatal("removed address still present")
	}
}

func TestCollectionFreezeList(t *testing.T) {
	s := newStore()
	a := types.Address{0x11}
	b := types.Address{0x12}

	for _, addr := range []types.Address{a, b} {
		if err := s.CollectionFreezeAdd(addr); err != nil {
			t.Fatalf("CollectionFreezeAdd: %v", err)
		}
	}
	list, err := s.CollectionFreezeList()
	if err != nil {
		t.Fatalf("CollectionFreezeList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %v, want 2 entries", list)
	}

	if err := s.CollectionFreezeRemove(a); err != nil {
		t.Fatalf("CollectionFreezeRemove: %v", err)
	}
	list, _ = s.CollectionFreezeList()
	if len(list) != 1 || list[0] != b {
		t.Fatalf("list = %v, want [%v]", list, b)
	}
}

func TestUnitFreezeNonces(t *testing.T) {
	s := newStore()
	addr := types.Address{0x11}

	for _, nonce := range []uint64{3, 1, 7} {
		if err := s.UnitFreezeAdd(addr, nonce); err != nil {
			t.Fatalf("UnitFreezeAdd(%d): %v", nonce, err)
		}
	}
	nonces, err := s.UnitFreezeNonces(addr)
	if err != nil {
		t.Fatalf("UnitFreezeNonces: %v", err)
	}
	if len(nonces) != 3 {
		t.Fatalf("nonces = %v, want 3 entries", nonces)
	}

	if err := s.UnitFreezeRemove(addr, 1); err != nil {
		t.Fatalf("UnitFreezeRemove: %v", err)
	}
	has, _ := s.UnitFreezeHas(addr, 1)
	if has {
		t.Fatal("removed nonce still present")
	}
	nonces, _ = s.UnitFreezeNonces(addr)
	if len(nonces) != 2 {
		t.Fatalf("nonces = %v, want 2 entries", nonces)
	}

	// Another address's freeze set is untouched.
	other, _ := s.UnitFreezeNonces(types.Address{0x12})
	if len(other) != 0 {
		t.Fatalf("other address nonces = %v, want none", other)
	}
}

func TestWriter_CommitIsAtomic(t *testing.T) {
	s := newStore()
	addr := types.Address{0x02}

	w := s.Writer()
	if err := w.SetMintRecord(addr, MintRecord{Minted: 5, LastMintTime: 42}); err != nil {
		t.Fatalf("SetMintRecord: %v", err)
	}
	if err := w.SetMintedTotal(5); err != nil {
		t.Fatalf("SetMintedTotal: %v", err)
	}

	// Nothing visible before Commit.
	total, err := s.MintedTotal()
	if err != nil {
		t.Fatalf("MintedTotal: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %d before commit, want 0", total)
	}
	rec, _ := s.MintRecord(addr)
	if rec.Minted != 0 {
		t.Fatalf("record = %+v before commit", rec)
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	total, _ = s.MintedTotal()
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	rec, _ = s.MintRecord(addr)
	if rec.Minted != 5 || rec.LastMintTime != 42 {
		t.Fatalf("record = %+v", rec)
	}
}
