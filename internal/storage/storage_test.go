package storage

import (
	"bytes"
	"fmt"
	"testing"
)

// runDBTests exercises one DB implementation against the shared contract.
func runDBTests(t *testing.T, db DB) {
	t.Helper()

	// Get on missing key errors.
	if _, err := db.Get([]byte("missing")); err == nil {
		t.Error("Get on missing key should error")
	}
	has, err := db.Has([]byte("missing"))
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Error("Has=true for missing key")
	}

	// Put / Get round trip.
	if err := db.Put([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := db.Get([]byte("k1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get = %q, want v1", got)
	}

	// Overwrite.
	if err := db.Put([]byte("k1"), []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = db.Get([]byte("k1"))
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}

	// Delete.
	if err := db.Delete([]byte("k1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	has, _ = db.Has([]byte("k1"))
	if has {
		t.Error("key present after Delete")
	}

	// ForEach with prefix.
	for i := 0; i < 3; i++ {
		if err := db.Put([]byte(fmt.Sprintf("list/%d", i)), []byte{byte(i)}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := db.Put([]byte("other/0"), []byte{9}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	count := 0
	err = db.ForEach([]byte("list/"), func(key, value []byte) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if count != 3 {
		t.Errorf("ForEach visited %d keys, want 3", count)
	}
}

func TestMemoryDB(t *testing.T) {
	runDBTests(t, NewMemory())
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()
	runDBTests(t, db)
}

func TestPrefixDB(t *testing.T) {
	inner := NewMemory()
	runDBTests(t, NewPrefixDB(inner, []byte("ns/")))
}

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	if err := a.Put([]byte("k"), []byte("from-a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	has, err := b.Has([]byte("k"))
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Fatal("namespace b sees namespace a's key")
	}

	// The inner DB holds the prefixed key.
	got, err := inner.Get([]byte("a/k"))
	if err != nil {
		t.Fatalf("inner Get: %v", err)
	}
	if !bytes.Equal(got, []byte("from-a")) {
		t.Fatalf("inner value = %q", got)
	}

	// ForEach strips the namespace prefix.
	err = a.ForEach(nil, func(key, _ []byte) error {
		if !bytes.Equal(key, []byte("k")) {
			t.Errorf("ForEach key = %q, want k", key)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
}

func TestBatch_AtomicVisibility(t *testing.T) {
	db := NewMemory()

	batch := db.NewBatch()
	if err := batch.Put([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}
	if err := batch.Put([]byte("k2"), []byte("v2")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}

	if has, _ := db.Has([]byte("k1")); has {
		t.Fatal("staged write visible before Commit")
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	for _, k := range []string{"k1", "k2"} {
		if has, _ := db.Has([]byte(k)); !has {
			t.Errorf("%s missing after Commit", k)
		}
	}
}

func TestPrefixBatch(t *testing.T) {
	inner := NewMemory()
	p := NewPrefixDB(inner, []byte("ns/"))

	batch := p.NewBatch()
	if err := batch.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := inner.Get([]byte("ns/k"))
	if err != nil {
		t.Fatalf("inner Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Fatalf("inner value = %q, want v", got)
	}
}
