package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// keystoreFile is the on-disk JSON format for the encrypted operator
// key. A file holds one seed; the operator key is always derived from
// it at the fixed path.
type keystoreFile struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	Address       string    `json:"address"` // bech32, informational
	EncryptedSeed []byte    `json:"encrypted_seed"`
}

// Keystore reads and writes the operator's encrypted key file.
type Keystore struct {
	path string
}

// New creates a keystore for the given file path. The parent directory
// is created if it doesn't exist.
func New(path string) (*Keystore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Exists reports whether a key file is already present.
func (ks *Keystore) Exists() bool {
	_, err := os.Stat(ks.path)
	return err == nil
}

// Create encrypts the seed and writes a new key file. Fails if one
// already exists.
func (ks *Keystore) Create(seed, password []byte, params EncryptionParams) (*OperatorKey, error) {
	if ks.Exists() {
		return nil, fmt.Errorf("keystore %q already exists", ks.path)
	}

	key, err := DeriveOperatorKey(seed)
	if err != nil {
		return nil, err
	}
	encrypted, err := Encrypt(seed, password, params)
	if err != nil {
		return nil, fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       1,
		CreatedAt:     time.Now().UTC(),
		Address:       key.Address().String(),
		EncryptedSeed: encrypted,
	}
	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal keystore: %w", err)
	}
	if err := os.WriteFile(ks.path, data, 0600); err != nil {
		return nil, fmt.Errorf("write keystore: %w", err)
	}
	return key, nil
}

// Load decrypts the key file and derives the operator key.
func (ks *Keystore) Load(password []byte) (*OperatorKey, error) {
	data, err := os.ReadFile(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported keystore version: %d", kf.Version)
	}

	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	key, err := DeriveOperatorKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	return key, err
}

// Address returns the stored bech32 address without decrypting.
func (ks *Keystore) Address() (string, error) {
	data, err := os.ReadFile(ks.path)
	if err != nil {
		return "", fmt.Errorf("read keystore: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return "", fmt.Errorf("parse keystore: %w", err)
	}
	return kf.Address, nil
}
