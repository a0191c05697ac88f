package keystore

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// Fast Argon2id parameters; DefaultParams is too slow for unit tests.
var testParams = EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}

const testMnemonic = "legal winner thank year wave sausage worth useful legal " +
	"winner thank year wave sausage worth useful legal winner thank year " +
	"wave sausage worth title"

func TestMnemonic_GenerateAndValidate(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	if words := len(strings.Fields(mnemonic)); words != 24 {
		t.Fatalf("mnemonic has %d words, want 24", words)
	}
	if !ValidateMnemonic(mnemonic) {
		t.Fatal("generated mnemonic failed validation")
	}
	if ValidateMnemonic("foo bar baz") {
		t.Fatal("garbage mnemonic validated")
	}
}

func TestSeedFromMnemonic(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	if len(seed) != SeedSize {
		t.Fatalf("seed length = %d, want %d", len(seed), SeedSize)
	}

	again, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	if !bytes.Equal(seed, again) {
		t.Fatal("seed derivation not deterministic")
	}

	withPass, err := SeedFromMnemonic(testMnemonic, "extra")
	if err != nil {
		t.Fatalf("SeedFromMnemonic with passphrase: %v", err)
	}
	if bytes.Equal(seed, withPass) {
		t.Fatal("passphrase did not change the seed")
	}

	if _, err := SeedFromMnemonic("not a mnemonic", ""); err == nil {
		t.Fatal("invalid mnemonic accepted")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	data := []byte("secret seed material")
	password := []byte("hunter2")

	encrypted, err := Encrypt(data, password, testParams)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(encrypted, data) {
		t.Fatal("ciphertext contains plaintext")
	}

	plain, err := Decrypt(encrypted, password)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(plain, data) {
		t.Fatal("decrypted data mismatch")
	}

	if _, err := Decrypt(encrypted, []byte("wrong")); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := Decrypt(encrypted[:10], password); err == nil {
		t.Fatal("truncated ciphertext accepted")
	}
}

func TestDeriveOperatorKey_Deterministic(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}

	k1, err := DeriveOperatorKey(seed)
	if err != nil {
		t.Fatalf("DeriveOperatorKey: %v", err)
	}
	k2, err := DeriveOperatorKey(seed)
	if err != nil {
		t.Fatalf("DeriveOperatorKey: %v", err)
	}
	if k1.Address() != k2.Address() {
		t.Fatal("derivation not deterministic")
	}
	if k1.Address().IsZero() {
		t.Fatal("derived address is zero")
	}

	if _, err := DeriveOperatorKey([]byte("short")); err == nil {
		t.Fatal("short seed accepted")
	}
}

func TestKeystore_CreateLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owner.key")
	ks, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ks.Exists() {
		t.Fatal("keystore exists before Create")
	}

	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	password := []byte("correct horse")

	created, err := ks.Create(seed, password, testParams)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !ks.Exists() {
		t.Fatal("keystore missing after Create")
	}

	if _, err := ks.Create(seed, password, testParams); err == nil {
		t.Fatal("second Create on same path accepted")
	}

	loaded, err := ks.Load(password)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Address() != created.Address() {
		t.Fatal("loaded key address differs from created")
	}

	stored, err := ks.Address()
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if stored != created.Address().String() {
		t.Fatalf("stored address = %q, want %q", stored, created.Address().String())
	}

	if _, err := ks.Load([]byte("wrong")); err == nil {
		t.Fatal("Load with wrong password accepted")
	}
}
